package menu

import (
	"context"

	"github.com/google/uuid"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/menu"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
)

// CreateInstanceFunction persists a new enable-function expression.
// Instance functions have no point-of-sale representation.
func (s *CatalogService) CreateInstanceFunction(ctx context.Context, req CreateInstanceFunctionRequest) (*menu.ProductInstanceFunction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn, err := menu.NewProductInstanceFunction(req.Name, req.Expression)
	if err != nil {
		return nil, err
	}
	if err := s.functions.Save(ctx, fn); err != nil {
		return nil, err
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return fn, nil
}

// UpdateInstanceFunction replaces a function's name and expression.
func (s *CatalogService) UpdateInstanceFunction(ctx context.Context, id uuid.UUID, req UpdateInstanceFunctionRequest) (*menu.ProductInstanceFunction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn, err := s.functions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn.Update(req.Name, req.Expression); err != nil {
		return nil, err
	}
	if err := s.functions.Save(ctx, fn); err != nil {
		return nil, err
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return fn, nil
}

// DeleteInstanceFunction removes a function. Deletion is refused while
// any product modifier spec or modifier option still references it.
func (s *CatalogService) DeleteInstanceFunction(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.functions.FindByID(ctx, id); err != nil {
		return err
	}
	catalog := s.snapshot.Load()
	for _, entry := range catalog.Products {
		if entry.Product.ReferencesFunction(id) {
			return shared.ErrEntityInUse
		}
	}
	for _, opt := range catalog.ModifierOptions {
		if opt.EnableFuncID != nil && *opt.EnableFuncID == id {
			return shared.ErrEntityInUse
		}
	}
	if err := s.functions.Delete(ctx, id); err != nil {
		return err
	}
	return s.finishMutation(ctx, false)
}
