package menu

import (
	"context"

	"github.com/google/uuid"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/menu"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/infrastructure/pos"
)

// CreateProduct validates every reference and persists the product
// class. Products reach the point of sale through their instances, so
// creation itself pushes nothing.
func (s *CatalogService) CreateProduct(ctx context.Context, req CreateProductRequest) (*menu.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog := s.snapshot.Load()
	if err := menu.ValidateProductReferences(catalog, req.ModifierSpecs, req.CategoryIDs, req.PrinterGroupID); err != nil {
		return nil, err
	}

	product, err := menu.NewProduct(req.Price, req.ModifierSpecs, req.CategoryIDs, req.PrinterGroupID)
	if err != nil {
		return nil, err
	}
	applyProductFields(product, req)

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct replaces a product's fields and, when the change is
// visible at the point of sale, re-pushes every visible instance.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*menu.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.applyProductUpdate(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProductsBatch applies several product updates as one logical
// mutation: one snapshot rebuild, one notification.
func (s *CatalogService) UpdateProductsBatch(ctx context.Context, updates []BatchProductUpdate) ([]*menu.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]*menu.Product, 0, len(updates))
	for _, u := range updates {
		product, err := s.applyProductUpdate(ctx, u.ID, u.Request)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return products, nil
}

// applyProductUpdate validates, syncs, and persists one product update.
// Caller must hold the mutation mutex.
func (s *CatalogService) applyProductUpdate(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*menu.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	catalog := s.snapshot.Load()
	if err := menu.ValidateProductReferences(catalog, req.ModifierSpecs, req.CategoryIDs, req.PrinterGroupID); err != nil {
		return nil, err
	}

	deep := ProductNeedsDeepUpdate(product, req)
	if err := product.SetPrice(req.Price); err != nil {
		return nil, err
	}
	if err := product.SetModifierSpecs(req.ModifierSpecs); err != nil {
		return nil, err
	}
	product.SetCategories(req.CategoryIDs)
	product.SetPrinterGroup(req.PrinterGroupID)
	applyProductFields(product, req)

	if deep {
		instances, err := s.instances.FindByProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		visible := make([]*menu.ProductInstance, 0, len(instances))
		for i := range instances {
			if !instances[i].DisplayFlags.HideFromPOS {
				visible = append(visible, &instances[i])
			}
		}
		if err := s.pushInstanceItems(ctx, product, visible); err != nil {
			return nil, err
		}
	}
	if err := s.products.Save(ctx, product); err != nil {
		if deep {
			return nil, s.reportDesync(&PersistAfterSyncError{Entity: "product " + id.String(), Cause: err})
		}
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product and all of its instances, locally and
// remotely.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.deleteProductLocked(ctx, product); err != nil {
		return err
	}
	return s.finishMutation(ctx, false)
}

// deleteProductLocked removes one product and its instances. Caller
// must hold the mutation mutex; remote objects go first.
func (s *CatalogService) deleteProductLocked(ctx context.Context, product *menu.Product) error {
	instances, err := s.instances.FindByProduct(ctx, product.ID)
	if err != nil {
		return err
	}
	var remoteIDs []string
	instanceIDs := make([]uuid.UUID, 0, len(instances))
	for i := range instances {
		remoteIDs = append(remoteIDs, instances[i].ExternalIDs.Values()...)
		instanceIDs = append(instanceIDs, instances[i].ID)
	}
	if err := s.syncDelete(ctx, remoteIDs); err != nil {
		return err
	}
	if len(instanceIDs) > 0 {
		if err := s.instances.DeleteBatch(ctx, instanceIDs); err != nil {
			return s.reportDesync(&PersistAfterSyncError{Entity: "instances of product " + product.ID.String(), Cause: err})
		}
	}
	if err := s.products.Delete(ctx, product.ID); err != nil {
		return s.reportDesync(&PersistAfterSyncError{Entity: "product " + product.ID.String(), Cause: err})
	}
	return nil
}

// CreateProductInstance validates the instance's modifier selections
// against the owning product, pushes its item to the point of sale
// unless hidden, and persists it.
func (s *CatalogService) CreateProductInstance(ctx context.Context, req CreateProductInstanceRequest) (*menu.ProductInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog := s.snapshot.Load()
	entry, ok := catalog.Products[req.ProductID]
	if !ok {
		return nil, &menu.ValidationError{Field: "product_id", Detail: "product does not exist"}
	}
	if err := menu.ValidateInstanceModifiers(catalog, entry.Product, req.Modifiers); err != nil {
		return nil, err
	}

	inst, err := menu.NewProductInstance(req.ProductID, req.DisplayName, req.Shortcode, req.Ordinal, req.IsBase, req.Modifiers)
	if err != nil {
		return nil, err
	}
	inst.Description = req.Description
	inst.DisplayFlags = req.DisplayFlags

	if !inst.DisplayFlags.HideFromPOS {
		if err := s.pushInstanceItems(ctx, entry.Product, []*menu.ProductInstance{inst}); err != nil {
			return nil, err
		}
	}
	if err := s.instances.Save(ctx, inst); err != nil {
		return nil, err
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return inst, nil
}

// UpdateProductInstance replaces an instance's fields. Hiding a
// previously visible instance deletes its remote item; other deep
// changes re-push it.
func (s *CatalogService) UpdateProductInstance(ctx context.Context, id uuid.UUID, req UpdateProductInstanceRequest) (*menu.ProductInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, err := s.instances.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	catalog := s.snapshot.Load()
	entry, ok := catalog.Products[inst.ProductID]
	if !ok {
		return nil, &menu.ValidationError{Field: "product_id", Detail: "owning product missing from catalog"}
	}
	if err := menu.ValidateInstanceModifiers(catalog, entry.Product, req.Modifiers); err != nil {
		return nil, err
	}

	deep := ProductInstanceNeedsDeepUpdate(inst, req)
	if err := inst.Update(req.DisplayName, req.Description, req.Shortcode, req.Ordinal, req.Modifiers, req.DisplayFlags); err != nil {
		return nil, err
	}

	if deep {
		if inst.DisplayFlags.HideFromPOS {
			itemIDs := inst.ExternalIDs.Filter(menu.SpecifierItem, menu.SpecifierItemVariation)
			if err := s.syncDelete(ctx, itemIDs.Values()); err != nil {
				return nil, err
			}
			inst.ExternalIDs = inst.ExternalIDs.Without(menu.SpecifierItem, menu.SpecifierItemVariation)
		} else if err := s.pushInstanceItems(ctx, entry.Product, []*menu.ProductInstance{inst}); err != nil {
			return nil, err
		}
	}
	if err := s.instances.Save(ctx, inst); err != nil {
		if deep {
			return nil, s.reportDesync(&PersistAfterSyncError{Entity: "product instance " + id.String(), Cause: err})
		}
		return nil, err
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return inst, nil
}

// DeleteProductInstance removes one instance and its remote item. The
// base instance cannot be deleted while the product exists.
func (s *CatalogService) DeleteProductInstance(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, err := s.instances.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if inst.IsBase {
		return shared.NewDomainError("BASE_INSTANCE", "The base instance can only be removed by deleting its product")
	}
	if err := s.syncDelete(ctx, inst.ExternalIDs.Values()); err != nil {
		return err
	}
	if err := s.instances.Delete(ctx, id); err != nil {
		return s.reportDesync(&PersistAfterSyncError{Entity: "product instance " + id.String(), Cause: err})
	}
	return s.finishMutation(ctx, false)
}

// pushInstanceItems syncs the ITEM objects of the given instances and
// persists the refreshed external ids.
func (s *CatalogService) pushInstanceItems(ctx context.Context, product *menu.Product, instances []*menu.ProductInstance) error {
	if len(instances) == 0 {
		return nil
	}
	catalog := s.snapshot.Load()
	categoryID := itemCategoryID(catalog, product)
	modifierLists := itemModifierLists(catalog, product)

	batchID := pos.NewSyncBatchID()
	var objects []pos.CatalogObject
	keys := make([]string, len(instances))
	for i, inst := range instances {
		keys[i] = pos.EntityBatchKey(batchID, i)
		obj, ok := pos.ProductInstanceToCatalogObject(keys[i], product, inst, categoryID, modifierLists)
		if !ok {
			continue
		}
		objects = append(objects, obj)
	}
	return s.applyUpsert(ctx, objects, func(result *pos.UpsertResult) error {
		for i, inst := range instances {
			ids := pos.IDMappingsToExternalIDs(result.IDMappings, keys[i])
			if len(ids) == 0 {
				continue
			}
			inst.MergeExternalIDs(ids)
			if err := s.instances.Save(ctx, inst); err != nil {
				return &PersistAfterSyncError{Entity: "product instance " + inst.ID.String(), Cause: err}
			}
		}
		return nil
	})
}

func applyProductFields(p *menu.Product, req CreateProductRequest) {
	p.SetDisabled(req.Disabled)
	p.ServiceDisable = req.ServiceDisable
	p.DisplayFlags = req.DisplayFlags
	p.Timing = req.Timing
}
