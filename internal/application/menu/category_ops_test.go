package menu

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
)

func TestUpdateCategorySelfParentMovesToRoot(t *testing.T) {
	f := newTestFixture(t, Config{SuppressSquareSync: true})
	ctx := context.Background()

	category, err := f.service.CreateCategory(ctx, CreateCategoryRequest{Name: "Pizza"})
	require.NoError(t, err)

	updated, err := f.service.UpdateCategory(ctx, category.ID, UpdateCategoryRequest{
		Name:     "Pizza",
		ParentID: &category.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.ParentID)
}

func TestUpdateCategoryBreaksCycleThroughDescendant(t *testing.T) {
	f := newTestFixture(t, Config{SuppressSquareSync: true})
	ctx := context.Background()

	parent, err := f.service.CreateCategory(ctx, CreateCategoryRequest{Name: "Menu"})
	require.NoError(t, err)
	child, err := f.service.CreateCategory(ctx, CreateCategoryRequest{Name: "Pizza", ParentID: &parent.ID})
	require.NoError(t, err)

	// Reparenting the parent under its own child must not close a loop.
	updated, err := f.service.UpdateCategory(ctx, parent.ID, UpdateCategoryRequest{
		Name:     "Menu",
		ParentID: &child.ID,
	})
	require.NoError(t, err)

	require.NotNil(t, updated.ParentID)
	assert.Equal(t, child.ID, *updated.ParentID)

	// The offending ancestor link was detached to the root first.
	storedChild, err := f.categories.FindByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, storedChild.ParentID)
}

func TestDeleteCategoryReparentsChildrenAndDetachesProducts(t *testing.T) {
	f := newTestFixture(t, Config{SuppressSquareSync: true})
	ctx := context.Background()

	root, err := f.service.CreateCategory(ctx, CreateCategoryRequest{Name: "Menu"})
	require.NoError(t, err)
	middle, err := f.service.CreateCategory(ctx, CreateCategoryRequest{Name: "Pizza", ParentID: &root.ID})
	require.NoError(t, err)
	leaf, err := f.service.CreateCategory(ctx, CreateCategoryRequest{Name: "Specialty", ParentID: &middle.ID})
	require.NoError(t, err)
	other, err := f.service.CreateCategory(ctx, CreateCategoryRequest{Name: "Sides"})
	require.NoError(t, err)

	product, err := f.service.CreateProduct(ctx, CreateProductRequest{
		Price:       decimal.NewFromFloat(18),
		CategoryIDs: []uuid.UUID{middle.ID, other.ID},
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteCategory(ctx, middle.ID, DeleteCategoryOptions{}))

	// The grandchild moved up to the deleted node's parent.
	storedLeaf, err := f.categories.FindByID(ctx, leaf.ID)
	require.NoError(t, err)
	require.NotNil(t, storedLeaf.ParentID)
	assert.Equal(t, root.ID, *storedLeaf.ParentID)

	// The product merely lost one category.
	storedProduct, err := f.products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{other.ID}, storedProduct.CategoryIDs)

	assert.NotContains(t, f.service.Catalog().Categories, middle.ID)
}

func TestDeleteCategoryCascadesOrphanedProducts(t *testing.T) {
	f := newTestFixture(t, Config{SuppressSquareSync: true})
	ctx := context.Background()

	category, err := f.service.CreateCategory(ctx, CreateCategoryRequest{Name: "Pizza"})
	require.NoError(t, err)
	product, err := f.service.CreateProduct(ctx, CreateProductRequest{
		Price:       decimal.NewFromFloat(18),
		CategoryIDs: []uuid.UUID{category.ID},
	})
	require.NoError(t, err)
	inst, err := f.service.CreateProductInstance(ctx, CreateProductInstanceRequest{
		ProductID: product.ID, DisplayName: "Cheese", Shortcode: "chz", IsBase: true,
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteCategory(ctx, category.ID, DeleteCategoryOptions{CascadeProducts: true}))

	_, err = f.products.FindByID(ctx, product.ID)
	assert.Error(t, err)
	_, err = f.instances.FindByID(ctx, inst.ID)
	assert.Error(t, err)
}

type stubUsageChecker struct {
	inUse bool
}

func (c stubUsageChecker) CategoryInUse(context.Context, uuid.UUID) (bool, error) {
	return c.inUse, nil
}

func TestDeleteCategoryRefusedWhileInUse(t *testing.T) {
	f := newTestFixture(t, Config{SuppressSquareSync: true})
	ctx := context.Background()

	category, err := f.service.CreateCategory(ctx, CreateCategoryRequest{Name: "Pizza"})
	require.NoError(t, err)

	f.service.SetCategoryUsageChecker(stubUsageChecker{inUse: true})
	err = f.service.DeleteCategory(ctx, category.ID, DeleteCategoryOptions{})
	assert.ErrorIs(t, err, shared.ErrEntityInUse)

	f.service.SetCategoryUsageChecker(stubUsageChecker{inUse: false})
	assert.NoError(t, f.service.DeleteCategory(ctx, category.ID, DeleteCategoryOptions{}))
}

func TestRandomReparentingNeverCreatesCycle(t *testing.T) {
	f := newTestFixture(t, Config{SuppressSquareSync: true})
	ctx := context.Background()

	names := []string{"Menu", "Pizza", "Calzone", "Salads", "Drinks", "Desserts", "Sides", "Specials"}
	ids := make([]uuid.UUID, len(names))
	for i, name := range names {
		category, err := f.service.CreateCategory(ctx, CreateCategoryRequest{Name: name})
		require.NoError(t, err)
		ids[i] = category.ID
	}

	rng := rand.New(rand.NewSource(42))
	for step := 0; step < 200; step++ {
		target := ids[rng.Intn(len(ids))]
		var parent *uuid.UUID
		if rng.Intn(4) > 0 {
			p := ids[rng.Intn(len(ids))]
			parent = &p
		}
		_, err := f.service.UpdateCategory(ctx, target, UpdateCategoryRequest{
			Name:     "Renamed",
			ParentID: parent,
		})
		require.NoError(t, err)

		for _, id := range ids {
			assertNoParentCycle(t, f, id, len(ids))
		}
	}
}

// assertNoParentCycle walks the parent chain upward and fails if the
// walk does not reach a root within maxDepth hops.
func assertNoParentCycle(t *testing.T, f *testFixture, id uuid.UUID, maxDepth int) {
	t.Helper()
	ctx := context.Background()
	current := id
	for depth := 0; depth <= maxDepth; depth++ {
		category, err := f.categories.FindByID(ctx, current)
		require.NoError(t, err)
		if category.ParentID == nil {
			return
		}
		current = *category.ParentID
	}
	t.Fatalf("category %s sits on a cyclic parent chain", id)
}
