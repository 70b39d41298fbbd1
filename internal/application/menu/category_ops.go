package menu

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/menu"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/infrastructure/pos"
)

// CategoryUsageChecker reports whether a category is pinned by
// something outside the catalog core, such as a fulfillment's base
// menu category.
type CategoryUsageChecker interface {
	CategoryInUse(ctx context.Context, id uuid.UUID) (bool, error)
}

// SetCategoryUsageChecker installs the external usage guard consulted
// before category deletion.
func (s *CatalogService) SetCategoryUsageChecker(checker CategoryUsageChecker) {
	s.categoryGuard = checker
}

// CreateCategory validates the parent reference, pushes the new
// CATEGORY object to the point of sale, and persists the category.
func (s *CatalogService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*menu.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog := s.snapshot.Load()
	if req.ParentID != nil {
		if _, ok := catalog.Categories[*req.ParentID]; !ok {
			return nil, &menu.ValidationError{Field: "parent_id", Detail: "parent category does not exist"}
		}
	}

	category, err := menu.NewCategory(req.Name, req.Ordinal, req.ParentID)
	if err != nil {
		return nil, err
	}
	applyCategoryFields(category, req)

	batchKey := pos.EntityBatchKey(pos.NewSyncBatchID(), 0)
	if err := s.applyUpsert(ctx, []pos.CatalogObject{pos.CategoryToCatalogObject(batchKey, category)}, func(result *pos.UpsertResult) error {
		category.MergeExternalIDs(pos.IDMappingsToExternalIDs(result.IDMappings, batchKey))
		return nil
	}); err != nil {
		return nil, err
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory replaces a category's fields. Reparenting onto one of
// the category's own descendants first breaks the offending ancestor
// link with a single corrective write, so the tree never cycles.
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*menu.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	catalog := s.snapshot.Load()
	if req.ParentID != nil {
		if _, ok := catalog.Categories[*req.ParentID]; !ok {
			return nil, &menu.ValidationError{Field: "parent_id", Detail: "parent category does not exist"}
		}
	}

	parentID, err := s.breakCategoryCycle(ctx, id, req.ParentID)
	if err != nil {
		return nil, err
	}

	deep := CategoryNeedsDeepUpdate(category, req)
	if err := category.Rename(req.Name); err != nil {
		return nil, err
	}
	category.SetOrdinal(req.Ordinal)
	category.SetParent(parentID)
	applyCategoryFields(category, req)

	if deep {
		batchKey := pos.EntityBatchKey(pos.NewSyncBatchID(), 0)
		if err := s.applyUpsert(ctx, []pos.CatalogObject{pos.CategoryToCatalogObject(batchKey, category)}, func(result *pos.UpsertResult) error {
			category.MergeExternalIDs(pos.IDMappingsToExternalIDs(result.IDMappings, batchKey))
			return nil
		}); err != nil {
			return nil, err
		}
	}
	if err := s.categories.Save(ctx, category); err != nil {
		if deep {
			return nil, s.reportDesync(&PersistAfterSyncError{Entity: "category " + id.String(), Cause: err})
		}
		return nil, err
	}
	if err := s.finishMutation(ctx, false); err != nil {
		return nil, err
	}
	return category, nil
}

// breakCategoryCycle returns the parent id to apply. When the requested
// parent sits below the category being updated, the ancestor whose
// parent pointer closes the loop is detached to the root first.
func (s *CatalogService) breakCategoryCycle(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID) (*uuid.UUID, error) {
	if newParentID == nil {
		return nil, nil
	}
	if *newParentID == id {
		s.logger.Warn("category reparented to itself, moving to root", zap.String("category_id", id.String()))
		return nil, nil
	}
	catalog := s.snapshot.Load()
	cursor := newParentID
	for steps := 0; cursor != nil && steps <= len(catalog.Categories); steps++ {
		entry, ok := catalog.Categories[*cursor]
		if !ok {
			break
		}
		parent := entry.Category.ParentID
		if parent != nil && *parent == id {
			ancestor, err := s.categories.FindByID(ctx, *cursor)
			if err != nil {
				return nil, err
			}
			ancestor.SetParent(nil)
			if err := s.categories.Save(ctx, ancestor); err != nil {
				return nil, err
			}
			s.logger.Warn("category cycle broken",
				zap.String("category_id", id.String()),
				zap.String("detached_ancestor_id", ancestor.ID.String()),
			)
			break
		}
		cursor = parent
	}
	return newParentID, nil
}

// DeleteCategory removes a category. Children reparent to the deleted
// node's parent; contained products detach, or cascade away when
// requested and the category was their last.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID, opts DeleteCategoryOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if s.categoryGuard != nil {
		inUse, err := s.categoryGuard.CategoryInUse(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return shared.ErrEntityInUse
		}
	}

	catalog := s.snapshot.Load()
	entry := catalog.Categories[id]

	if err := s.syncDelete(ctx, category.ExternalIDs.Values()); err != nil {
		return err
	}

	for _, childID := range entry.Children {
		child, err := s.categories.FindByID(ctx, childID)
		if err != nil {
			return s.reportDesync(&PersistAfterSyncError{Entity: "category child " + childID.String(), Cause: err})
		}
		child.SetParent(category.ParentID)
		if err := s.categories.Save(ctx, child); err != nil {
			return s.reportDesync(&PersistAfterSyncError{Entity: "category child " + childID.String(), Cause: err})
		}
	}

	for _, productID := range entry.Products {
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return s.reportDesync(&PersistAfterSyncError{Entity: "product " + productID.String(), Cause: err})
		}
		product.RemoveCategory(id)
		if opts.CascadeProducts && len(product.CategoryIDs) == 0 {
			if err := s.deleteProductLocked(ctx, product); err != nil {
				return err
			}
			continue
		}
		if err := s.products.Save(ctx, product); err != nil {
			return s.reportDesync(&PersistAfterSyncError{Entity: "product " + productID.String(), Cause: err})
		}
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return s.reportDesync(&PersistAfterSyncError{Entity: "category " + id.String(), Cause: err})
	}
	return s.finishMutation(ctx, false)
}

func applyCategoryFields(c *menu.Category, req CreateCategoryRequest) {
	c.Description = req.Description
	c.Subheading = req.Subheading
	c.Footnotes = req.Footnotes
	c.CallLineName = req.CallLineName
	c.CallLineDisplay = req.CallLineDisplay
	c.NestedDisplay = req.NestedDisplay
	c.ServiceDisable = req.ServiceDisable
}
