package menu

import (
	"context"

	"github.com/google/uuid"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/menu"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/infrastructure/pos"
)

// CreateModifierType pushes a new MODIFIER_LIST to the point of sale
// and persists the modifier type.
func (s *CatalogService) CreateModifierType(ctx context.Context, req CreateModifierTypeRequest) (*menu.ModifierType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mt, err := menu.NewModifierType(req.Name, req.Ordinal, req.MinSelected, req.MaxSelected)
	if err != nil {
		return nil, err
	}
	mt.DisplayName = req.DisplayName
	mt.DisplayFlags = req.DisplayFlags

	batchKey := pos.EntityBatchKey(pos.NewSyncBatchID(), 0)
	if err := s.applyUpsert(ctx, []pos.CatalogObject{pos.ModifierTypeToCatalogObject(batchKey, mt)}, func(result *pos.UpsertResult) error {
		mt.MergeExternalIDs(pos.IDMappingsToExternalIDs(result.IDMappings, batchKey))
		return nil
	}); err != nil {
		return nil, err
	}
	if err := s.modifierTypes.Save(ctx, mt); err != nil {
		return nil, err
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return mt, nil
}

// UpdateModifierType replaces a modifier type's fields. Deep updates
// re-push the list together with every option variant so the remote
// membership and ordinals heal in one request.
func (s *CatalogService) UpdateModifierType(ctx context.Context, id uuid.UUID, req UpdateModifierTypeRequest) (*menu.ModifierType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mt, err := s.modifierTypes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	options, err := s.modifierOptions.FindByModifierType(ctx, id)
	if err != nil {
		return nil, err
	}

	deep := ModifierTypeNeedsDeepUpdate(mt, req, options)
	if err := mt.Update(req.Name, req.DisplayName, req.Ordinal, req.MinSelected, req.MaxSelected, req.DisplayFlags); err != nil {
		return nil, err
	}

	if deep {
		batchID := pos.NewSyncBatchID()
		listKey := pos.EntityBatchKey(batchID, 0)
		listObject := pos.ModifierTypeToCatalogObject(listKey, mt)
		objects := []pos.CatalogObject{listObject}

		optionKeys := make(map[uuid.UUID]string, len(options))
		for i := range options {
			key := pos.EntityBatchKey(batchID, i+1)
			optionKeys[options[i].ID] = key
			objects = append(objects, pos.ModifierOptionToCatalogObjects(key, &options[i], listObject.ID)...)
		}

		if err := s.applyUpsert(ctx, objects, func(result *pos.UpsertResult) error {
			mt.MergeExternalIDs(pos.IDMappingsToExternalIDs(result.IDMappings, listKey))
			for i := range options {
				options[i].MergeExternalIDs(pos.IDMappingsToExternalIDs(result.IDMappings, optionKeys[options[i].ID]))
				if err := s.modifierOptions.Save(ctx, &options[i]); err != nil {
					return &PersistAfterSyncError{Entity: "modifier option " + options[i].ID.String(), Cause: err}
				}
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}
	if err := s.modifierTypes.Save(ctx, mt); err != nil {
		if deep {
			return nil, s.reportDesync(&PersistAfterSyncError{Entity: "modifier type " + id.String(), Cause: err})
		}
		return nil, err
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return mt, nil
}

// DeleteModifierType removes a modifier type and everything hanging off
// it: remote objects, child options, product modifier specs, instance
// selections, and every instance function whose expression mentions the
// type.
func (s *CatalogService) DeleteModifierType(ctx context.Context, id uuid.UUID) (*CascadeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mt, err := s.modifierTypes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	options, err := s.modifierOptions.FindByModifierType(ctx, id)
	if err != nil {
		return nil, err
	}

	remoteIDs := mt.ExternalIDs.Values()
	optionIDs := make([]uuid.UUID, 0, len(options))
	for i := range options {
		remoteIDs = append(remoteIDs, options[i].ExternalIDs.Values()...)
		optionIDs = append(optionIDs, options[i].ID)
	}
	if err := s.syncDelete(ctx, remoteIDs); err != nil {
		return nil, err
	}

	result := &CascadeResult{RemovedRemoteObjectIDs: remoteIDs, DeletedOptionIDs: optionIDs}

	if len(optionIDs) > 0 {
		if err := s.modifierOptions.DeleteBatch(ctx, optionIDs); err != nil {
			return nil, s.reportDesync(&PersistAfterSyncError{Entity: "modifier options of type " + id.String(), Cause: err})
		}
	}
	if result.UpdatedProductIDs, err = s.stripModifierTypeFromProducts(ctx, id); err != nil {
		return nil, err
	}
	if result.UpdatedInstanceIDs, err = s.stripModifierTypeFromInstances(ctx, id); err != nil {
		return nil, err
	}
	if result.DeletedFunctionIDs, err = s.deleteFunctionsReferencingType(ctx, id); err != nil {
		return nil, err
	}
	if err := s.clearEnableFunctionRefs(ctx, result.DeletedFunctionIDs); err != nil {
		return nil, err
	}
	if err := s.modifierTypes.Delete(ctx, id); err != nil {
		return nil, s.reportDesync(&PersistAfterSyncError{Entity: "modifier type " + id.String(), Cause: err})
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateModifierOption validates references, pushes the option's
// variants to the point of sale, and persists the option. A modifier
// type never pushed remotely gets its list created in the same request.
func (s *CatalogService) CreateModifierOption(ctx context.Context, req CreateModifierOptionRequest) (*menu.ModifierOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog := s.snapshot.Load()
	entry, ok := catalog.Modifiers[req.ModifierTypeID]
	if !ok {
		return nil, &menu.ValidationError{Field: "modifier_type_id", Detail: "modifier type does not exist"}
	}
	if err := menu.ValidateOptionEnableFunction(catalog, req.EnableFuncID); err != nil {
		return nil, err
	}

	opt, err := menu.NewModifierOption(req.ModifierTypeID, req.DisplayName, req.Shortcode, req.Price, req.Ordinal, req.Metadata)
	if err != nil {
		return nil, err
	}
	opt.Description = req.Description
	opt.DisplayFlags = req.DisplayFlags
	opt.SetEnableFunction(req.EnableFuncID)
	opt.SetDisabled(req.Disabled)

	if err := s.pushOptionVariants(ctx, entry.ModifierType, opt); err != nil {
		return nil, err
	}
	if err := s.modifierOptions.Save(ctx, opt); err != nil {
		return nil, err
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return opt, nil
}

// UpdateModifierOption replaces an option's fields, re-pushing its
// variants when the change is visible at the point of sale.
func (s *CatalogService) UpdateModifierOption(ctx context.Context, id uuid.UUID, req UpdateModifierOptionRequest) (*menu.ModifierOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	opt, err := s.modifierOptions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	catalog := s.snapshot.Load()
	if err := menu.ValidateOptionEnableFunction(catalog, req.EnableFuncID); err != nil {
		return nil, err
	}

	deep := ModifierOptionNeedsDeepUpdate(opt, req)
	if err := opt.Update(req.DisplayName, req.Shortcode, req.Price, req.Ordinal, req.Metadata); err != nil {
		return nil, err
	}
	opt.Description = req.Description
	opt.DisplayFlags = req.DisplayFlags
	opt.SetEnableFunction(req.EnableFuncID)
	opt.SetDisabled(req.Disabled)

	if deep {
		entry, ok := catalog.Modifiers[opt.ModifierTypeID]
		if !ok {
			return nil, &menu.ValidationError{Field: "modifier_type_id", Detail: "owning modifier type missing from catalog"}
		}
		if err := s.pushOptionVariants(ctx, entry.ModifierType, opt); err != nil {
			return nil, err
		}
	}
	if err := s.modifierOptions.Save(ctx, opt); err != nil {
		if deep {
			return nil, s.reportDesync(&PersistAfterSyncError{Entity: "modifier option " + id.String(), Cause: err})
		}
		return nil, err
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return opt, nil
}

// DeleteModifierOption removes one option: its remote variants, its
// placements on product instances, and every instance function pinned
// to it.
func (s *CatalogService) DeleteModifierOption(ctx context.Context, id uuid.UUID) (*CascadeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	opt, err := s.modifierOptions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.syncDelete(ctx, opt.ExternalIDs.Values()); err != nil {
		return nil, err
	}

	result := &CascadeResult{
		RemovedRemoteObjectIDs: opt.ExternalIDs.Values(),
		DeletedOptionIDs:       []uuid.UUID{id},
	}
	if result.UpdatedInstanceIDs, err = s.stripOptionFromInstances(ctx, id); err != nil {
		return nil, err
	}
	if result.DeletedFunctionIDs, err = s.deleteFunctionsReferencingOption(ctx, id); err != nil {
		return nil, err
	}
	if err := s.clearEnableFunctionRefs(ctx, result.DeletedFunctionIDs); err != nil {
		return nil, err
	}
	if err := s.modifierOptions.Delete(ctx, id); err != nil {
		return nil, s.reportDesync(&PersistAfterSyncError{Entity: "modifier option " + id.String(), Cause: err})
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return result, nil
}

// pushOptionVariants syncs one option's MODIFIER objects, creating the
// owning modifier list remotely first if it has never been pushed.
func (s *CatalogService) pushOptionVariants(ctx context.Context, mt *menu.ModifierType, opt *menu.ModifierOption) error {
	batchID := pos.NewSyncBatchID()
	var objects []pos.CatalogObject

	listID, hasList := mt.ExternalIDs.Get(menu.SpecifierModifierList)
	listKey := ""
	if !hasList {
		listKey = pos.EntityBatchKey(batchID, 0)
		listObject := pos.ModifierTypeToCatalogObject(listKey, mt)
		listID = listObject.ID
		objects = append(objects, listObject)
	}
	optKey := pos.EntityBatchKey(batchID, 1)
	objects = append(objects, pos.ModifierOptionToCatalogObjects(optKey, opt, listID)...)

	return s.applyUpsert(ctx, objects, func(result *pos.UpsertResult) error {
		if !hasList {
			mt.MergeExternalIDs(pos.IDMappingsToExternalIDs(result.IDMappings, listKey))
			if err := s.modifierTypes.Save(ctx, mt); err != nil {
				return &PersistAfterSyncError{Entity: "modifier type " + mt.ID.String(), Cause: err}
			}
		}
		opt.MergeExternalIDs(pos.IDMappingsToExternalIDs(result.IDMappings, optKey))
		return nil
	})
}
