package menu

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCategory(t *testing.T, name string, ordinal int, parentID *uuid.UUID) *Category {
	t.Helper()
	c, err := NewCategory(name, ordinal, parentID)
	require.NoError(t, err)
	return c
}

func TestGenerateCatalogNestsCategories(t *testing.T) {
	root := mustCategory(t, "Pizza", 0, nil)
	childB := mustCategory(t, "Specialty", 2, &root.ID)
	childA := mustCategory(t, "Build Your Own", 1, &root.ID)

	catalog, warnings := GenerateCatalog(
		[]Category{*root, *childB, *childA},
		nil, nil, nil, nil, nil, nil,
	)

	assert.Empty(t, warnings)
	entry := catalog.Categories[root.ID]
	require.Len(t, entry.Children, 2)
	// Children ordered by ordinal.
	assert.Equal(t, childA.ID, entry.Children[0])
	assert.Equal(t, childB.ID, entry.Children[1])
}

func TestGenerateCatalogReportsDanglingParent(t *testing.T) {
	ghost := uuid.New()
	orphan := mustCategory(t, "Orphan", 0, &ghost)

	catalog, warnings := GenerateCatalog(
		[]Category{*orphan},
		nil, nil, nil, nil, nil, nil,
	)

	require.Len(t, warnings, 1)
	assert.Equal(t, "category", warnings[0].EntityKind)
	assert.Equal(t, orphan.ID, warnings[0].EntityID)
	// The orphan itself stays in the view.
	assert.Contains(t, catalog.Categories, orphan.ID)
}

func TestGenerateCatalogDropsOptionOfMissingType(t *testing.T) {
	mt, err := NewModifierType("Toppings", 0, 0, 5)
	require.NoError(t, err)
	good, err := NewModifierOption(mt.ID, "Pepperoni", "pep", decimal.NewFromFloat(2.5), 0, OptionMetadata{})
	require.NoError(t, err)
	stray, err := NewModifierOption(uuid.New(), "Ghost", "gho", decimal.Zero, 1, OptionMetadata{})
	require.NoError(t, err)

	catalog, warnings := GenerateCatalog(
		nil,
		[]ModifierType{*mt},
		[]ModifierOption{*good, *stray},
		nil, nil, nil, nil,
	)

	require.Len(t, warnings, 1)
	assert.Equal(t, "modifier_option", warnings[0].EntityKind)
	assert.Contains(t, catalog.ModifierOptions, good.ID)
	assert.NotContains(t, catalog.ModifierOptions, stray.ID)
	assert.Equal(t, []uuid.UUID{good.ID}, catalog.Modifiers[mt.ID].Options)
}

func TestGenerateCatalogOrdersInstancesByOrdinal(t *testing.T) {
	product, err := NewProduct(decimal.NewFromInt(10), nil, nil, nil)
	require.NoError(t, err)
	second, err := NewProductInstance(product.ID, "Large", "lg", 2, false, nil)
	require.NoError(t, err)
	first, err := NewProductInstance(product.ID, "Small", "sm", 1, true, nil)
	require.NoError(t, err)

	catalog, warnings := GenerateCatalog(
		nil, nil, nil,
		[]Product{*product},
		[]ProductInstance{*second, *first},
		nil, nil,
	)

	assert.Empty(t, warnings)
	entry := catalog.Products[product.ID]
	require.Len(t, entry.Instances, 2)
	assert.Equal(t, first.ID, entry.Instances[0])
	assert.Equal(t, second.ID, entry.Instances[1])
}

func TestGenerateCatalogIsDeterministic(t *testing.T) {
	root := mustCategory(t, "Menu", 0, nil)
	product, err := NewProduct(decimal.NewFromInt(12), nil, []uuid.UUID{root.ID}, nil)
	require.NoError(t, err)
	inst, err := NewProductInstance(product.ID, "Base", "b", 0, true, nil)
	require.NoError(t, err)

	first, _ := GenerateCatalog([]Category{*root}, nil, nil, []Product{*product}, []ProductInstance{*inst}, nil, nil)
	second, _ := GenerateCatalog([]Category{*root}, nil, nil, []Product{*product}, []ProductInstance{*inst}, nil, nil)

	// Identical structure modulo the version token.
	second.Version = first.Version
	assert.Equal(t, first, second)
}

func TestCatalogVersionIsMonotonic(t *testing.T) {
	earlier := CatalogVersion(time.UnixMilli(1700000000000))
	later := CatalogVersion(time.UnixMilli(1700000000001))
	assert.NotEqual(t, earlier, later)
	// base36 of millis keeps lexicographic comparability at fixed width
	assert.Equal(t, len(earlier), len(later))
	assert.Less(t, earlier, later)
}

func TestBuildExternalIDIndex(t *testing.T) {
	root := mustCategory(t, "Menu", 0, nil)
	root.MergeExternalIDs(ExternalIDs{{Key: SpecifierCategory, Value: "CAT_REMOTE"}})

	mt, err := NewModifierType("Toppings", 0, 0, 5)
	require.NoError(t, err)
	mt.MergeExternalIDs(ExternalIDs{{Key: SpecifierModifierList, Value: "ML_REMOTE"}})

	catalog, _ := GenerateCatalog([]Category{*root}, []ModifierType{*mt}, nil, nil, nil, nil, nil)
	index := BuildExternalIDIndex(catalog)

	ref, ok := index["CAT_REMOTE"]
	require.True(t, ok)
	assert.Equal(t, EntityKindCategory, ref.Kind)
	assert.Equal(t, root.ID, ref.ID)
	assert.Equal(t, SpecifierCategory, ref.Specifier)

	ref, ok = index["ML_REMOTE"]
	require.True(t, ok)
	assert.Equal(t, EntityKindModifierType, ref.Kind)
	assert.Equal(t, mt.ID, ref.ID)
}
