package menu

import (
	"context"

	"github.com/google/uuid"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/menu"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/infrastructure/pos"
)

// CreatePrinterGroup pushes the group's routing CATEGORY to the point
// of sale and persists the group.
func (s *CatalogService) CreatePrinterGroup(ctx context.Context, req CreatePrinterGroupRequest) (*menu.PrinterGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pg, err := menu.NewPrinterGroup(req.Name, req.SingleItemPerTicket, req.IsExpo)
	if err != nil {
		return nil, err
	}
	batchKey := pos.EntityBatchKey(pos.NewSyncBatchID(), 0)
	if err := s.applyUpsert(ctx, []pos.CatalogObject{pos.PrinterGroupToCatalogObject(batchKey, pg)}, func(result *pos.UpsertResult) error {
		pg.MergeExternalIDs(pos.IDMappingsToExternalIDs(result.IDMappings, batchKey))
		return nil
	}); err != nil {
		return nil, err
	}
	if err := s.printerGroups.Save(ctx, pg); err != nil {
		return nil, err
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return pg, nil
}

// UpdatePrinterGroup replaces a printer group's fields, re-pushing its
// routing category when the name changed.
func (s *CatalogService) UpdatePrinterGroup(ctx context.Context, id uuid.UUID, req UpdatePrinterGroupRequest) (*menu.PrinterGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pg, err := s.printerGroups.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	deep := pg.Name != req.Name || !pg.ExternalIDs.Has(menu.SpecifierCategory)
	if err := pg.Update(req.Name, req.SingleItemPerTicket, req.IsExpo); err != nil {
		return nil, err
	}
	if deep {
		batchKey := pos.EntityBatchKey(pos.NewSyncBatchID(), 0)
		if err := s.applyUpsert(ctx, []pos.CatalogObject{pos.PrinterGroupToCatalogObject(batchKey, pg)}, func(result *pos.UpsertResult) error {
			pg.MergeExternalIDs(pos.IDMappingsToExternalIDs(result.IDMappings, batchKey))
			return nil
		}); err != nil {
			return nil, err
		}
	}
	if err := s.printerGroups.Save(ctx, pg); err != nil {
		if deep {
			return nil, s.reportDesync(&PersistAfterSyncError{Entity: "printer group " + id.String(), Cause: err})
		}
		return nil, err
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return pg, nil
}

// DeletePrinterGroup removes a printer group. Affected products move to
// the reassignment target, or lose their routing when none is given.
func (s *CatalogService) DeletePrinterGroup(ctx context.Context, id uuid.UUID, opts DeletePrinterGroupOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pg, err := s.printerGroups.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if opts.ReassignTo != nil {
		if *opts.ReassignTo == id {
			return &menu.ValidationError{Field: "reassign_to", Detail: "cannot reassign to the printer group being deleted"}
		}
		if _, err := s.printerGroups.FindByID(ctx, *opts.ReassignTo); err != nil {
			return err
		}
	}

	if err := s.syncDelete(ctx, pg.ExternalIDs.Values()); err != nil {
		return err
	}

	products, err := s.products.FindAll(ctx)
	if err != nil {
		return err
	}
	var changed []*menu.Product
	for i := range products {
		if products[i].PrinterGroupID == nil || *products[i].PrinterGroupID != id {
			continue
		}
		products[i].SetPrinterGroup(opts.ReassignTo)
		changed = append(changed, &products[i])
	}
	if len(changed) > 0 {
		if err := s.products.SaveBatch(ctx, changed); err != nil {
			return s.reportDesync(&PersistAfterSyncError{Entity: "products routed to printer group " + id.String(), Cause: err})
		}
	}
	if err := s.printerGroups.Delete(ctx, id); err != nil {
		return s.reportDesync(&PersistAfterSyncError{Entity: "printer group " + id.String(), Cause: err})
	}
	return s.finishMutation(ctx, false)
}
