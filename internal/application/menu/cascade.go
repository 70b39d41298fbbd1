package menu

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/menu"
)

// CascadeResult reports what a cascading delete touched.
type CascadeResult struct {
	RemovedRemoteObjectIDs []string
	DeletedOptionIDs       []uuid.UUID
	UpdatedProductIDs      []uuid.UUID
	UpdatedInstanceIDs     []uuid.UUID
	DeletedFunctionIDs     []uuid.UUID
}

// stripModifierTypeFromProducts drops the type's modifier spec from
// every product carrying it.
func (s *CatalogService) stripModifierTypeFromProducts(ctx context.Context, typeID uuid.UUID) ([]uuid.UUID, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var updated []*menu.Product
	var updatedIDs []uuid.UUID
	for i := range products {
		if products[i].RemoveModifierType(typeID) {
			updated = append(updated, &products[i])
			updatedIDs = append(updatedIDs, products[i].ID)
		}
	}
	if len(updated) > 0 {
		if err := s.products.SaveBatch(ctx, updated); err != nil {
			return nil, s.reportDesync(&PersistAfterSyncError{Entity: "products referencing modifier type " + typeID.String(), Cause: err})
		}
	}
	return updatedIDs, nil
}

// stripModifierTypeFromInstances drops the type's placed options from
// every product instance carrying them.
func (s *CatalogService) stripModifierTypeFromInstances(ctx context.Context, typeID uuid.UUID) ([]uuid.UUID, error) {
	instances, err := s.instances.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var updated []*menu.ProductInstance
	var updatedIDs []uuid.UUID
	for i := range instances {
		if instances[i].RemoveModifierType(typeID) {
			updated = append(updated, &instances[i])
			updatedIDs = append(updatedIDs, instances[i].ID)
		}
	}
	if len(updated) > 0 {
		if err := s.instances.SaveBatch(ctx, updated); err != nil {
			return nil, s.reportDesync(&PersistAfterSyncError{Entity: "instances referencing modifier type " + typeID.String(), Cause: err})
		}
	}
	return updatedIDs, nil
}

// stripOptionFromInstances drops one option's placements from every
// product instance carrying it.
func (s *CatalogService) stripOptionFromInstances(ctx context.Context, optionID uuid.UUID) ([]uuid.UUID, error) {
	instances, err := s.instances.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var updated []*menu.ProductInstance
	var updatedIDs []uuid.UUID
	for i := range instances {
		if instances[i].RemoveOption(optionID) {
			updated = append(updated, &instances[i])
			updatedIDs = append(updatedIDs, instances[i].ID)
		}
	}
	if len(updated) > 0 {
		if err := s.instances.SaveBatch(ctx, updated); err != nil {
			return nil, s.reportDesync(&PersistAfterSyncError{Entity: "instances referencing option " + optionID.String(), Cause: err})
		}
	}
	return updatedIDs, nil
}

// deleteFunctionsReferencingType removes every instance function whose
// expression mentions the modifier type, through either a placement
// check or a has-any check.
func (s *CatalogService) deleteFunctionsReferencingType(ctx context.Context, typeID uuid.UUID) ([]uuid.UUID, error) {
	functions, err := s.functions.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	placement := FindModifierPlacementExpressionsForModifierType(functions, typeID)
	hasAny := FindHasAnyModifierExpressionsForModifierType(functions, typeID)

	seen := make(map[uuid.UUID]struct{}, len(placement)+len(hasAny))
	var doomed []uuid.UUID
	for _, id := range append(placement, hasAny...) {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		doomed = append(doomed, id)
	}
	if len(doomed) == 0 {
		return nil, nil
	}
	if err := s.functions.DeleteBatch(ctx, doomed); err != nil {
		return nil, s.reportDesync(&PersistAfterSyncError{Entity: "instance functions referencing modifier type " + typeID.String(), Cause: err})
	}
	s.logger.Info("deleted instance functions referencing modifier type",
		zap.String("modifier_type_id", typeID.String()),
		zap.Int("count", len(doomed)),
	)
	return doomed, nil
}

// deleteFunctionsReferencingOption removes every instance function
// pinned to the exact option through a placement check. Has-any checks
// reference the type, not the option, and survive.
func (s *CatalogService) deleteFunctionsReferencingOption(ctx context.Context, optionID uuid.UUID) ([]uuid.UUID, error) {
	functions, err := s.functions.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	doomed := FindModifierPlacementExpressionsForOption(functions, optionID)
	if len(doomed) == 0 {
		return nil, nil
	}
	if err := s.functions.DeleteBatch(ctx, doomed); err != nil {
		return nil, s.reportDesync(&PersistAfterSyncError{Entity: "instance functions referencing option " + optionID.String(), Cause: err})
	}
	return doomed, nil
}

// clearEnableFunctionRefs nulls dangling enable-function references
// left behind by deleted instance functions, on both product modifier
// specs and modifier options.
func (s *CatalogService) clearEnableFunctionRefs(ctx context.Context, deletedFnIDs []uuid.UUID) error {
	if len(deletedFnIDs) == 0 {
		return nil
	}
	deleted := make(map[uuid.UUID]struct{}, len(deletedFnIDs))
	for _, id := range deletedFnIDs {
		deleted[id] = struct{}{}
	}

	products, err := s.products.FindAll(ctx)
	if err != nil {
		return err
	}
	var changedProducts []*menu.Product
	for i := range products {
		changed := false
		for j := range products[i].ModifierSpecs {
			ref := products[i].ModifierSpecs[j].EnableFuncID
			if ref == nil {
				continue
			}
			if _, gone := deleted[*ref]; gone {
				products[i].ModifierSpecs[j].EnableFuncID = nil
				changed = true
			}
		}
		if changed {
			products[i].Touch()
			changedProducts = append(changedProducts, &products[i])
		}
	}
	if len(changedProducts) > 0 {
		if err := s.products.SaveBatch(ctx, changedProducts); err != nil {
			return s.reportDesync(&PersistAfterSyncError{Entity: "products with dangling enable functions", Cause: err})
		}
	}

	options, err := s.modifierOptions.FindAll(ctx)
	if err != nil {
		return err
	}
	for i := range options {
		ref := options[i].EnableFuncID
		if ref == nil {
			continue
		}
		if _, gone := deleted[*ref]; gone {
			options[i].SetEnableFunction(nil)
			if err := s.modifierOptions.Save(ctx, &options[i]); err != nil {
				return s.reportDesync(&PersistAfterSyncError{Entity: "option with dangling enable function " + options[i].ID.String(), Cause: err})
			}
		}
	}
	return nil
}

// FindModifierPlacementExpressionsForModifierType returns the ids of
// functions whose expression contains a placement check against the
// given modifier type.
func FindModifierPlacementExpressionsForModifierType(functions []menu.ProductInstanceFunction, typeID uuid.UUID) []uuid.UUID {
	var ids []uuid.UUID
	for i := range functions {
		if menu.ExpressionHasPlacementForModifierType(functions[i].Expression, typeID) {
			ids = append(ids, functions[i].ID)
		}
	}
	return ids
}

// FindHasAnyModifierExpressionsForModifierType returns the ids of
// functions whose expression contains a has-any check against the given
// modifier type.
func FindHasAnyModifierExpressionsForModifierType(functions []menu.ProductInstanceFunction, typeID uuid.UUID) []uuid.UUID {
	var ids []uuid.UUID
	for i := range functions {
		if menu.ExpressionHasAnyOfModifierType(functions[i].Expression, typeID) {
			ids = append(ids, functions[i].ID)
		}
	}
	return ids
}

// FindModifierPlacementExpressionsForOption returns the ids of
// functions whose expression contains a placement check pinned to the
// exact option.
func FindModifierPlacementExpressionsForOption(functions []menu.ProductInstanceFunction, optionID uuid.UUID) []uuid.UUID {
	var ids []uuid.UUID
	for i := range functions {
		if menu.ExpressionReferencesOption(functions[i].Expression, optionID) {
			ids = append(ids, functions[i].ID)
		}
	}
	return ids
}
