package menu

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/menu"
)

func syncedCategory(t *testing.T) *menu.Category {
	t.Helper()
	c, err := menu.NewCategory("Pizza", 0, nil)
	require.NoError(t, err)
	c.MergeExternalIDs(menu.ExternalIDs{{Key: menu.SpecifierCategory, Value: "CAT_1"}})
	return c
}

func TestCategoryNeedsDeepUpdate(t *testing.T) {
	c := syncedCategory(t)

	assert.False(t, CategoryNeedsDeepUpdate(c, UpdateCategoryRequest{Name: "Pizza", Ordinal: 9}))
	assert.True(t, CategoryNeedsDeepUpdate(c, UpdateCategoryRequest{Name: "Pies"}))

	unsynced, err := menu.NewCategory("Pizza", 0, nil)
	require.NoError(t, err)
	assert.True(t, CategoryNeedsDeepUpdate(unsynced, UpdateCategoryRequest{Name: "Pizza"}))
}

func TestModifierTypeNeedsDeepUpdate(t *testing.T) {
	mt, err := menu.NewModifierType("Toppings", 1, 0, 5)
	require.NoError(t, err)
	mt.MergeExternalIDs(menu.ExternalIDs{{Key: menu.SpecifierModifierList, Value: "ML_1"}})

	same := UpdateModifierTypeRequest{Name: "Toppings", Ordinal: 1, MaxSelected: 5}
	assert.False(t, ModifierTypeNeedsDeepUpdate(mt, same, nil))

	renamed := same
	renamed.Name = "Extras"
	assert.True(t, ModifierTypeNeedsDeepUpdate(mt, renamed, nil))

	// Crossing the single/multiple selection boundary.
	single := same
	single.MaxSelected = 1
	assert.True(t, ModifierTypeNeedsDeepUpdate(mt, single, nil))

	// An option missing its WHOLE variant forces a healing push.
	opt, err := menu.NewModifierOption(mt.ID, "Pepperoni", "pep", decimal.Zero, 0, menu.OptionMetadata{})
	require.NoError(t, err)
	assert.True(t, ModifierTypeNeedsDeepUpdate(mt, same, []menu.ModifierOption{*opt}))

	opt.MergeExternalIDs(menu.ExternalIDs{{Key: menu.SpecifierModifierWhole, Value: "M_1"}})
	assert.False(t, ModifierTypeNeedsDeepUpdate(mt, same, []menu.ModifierOption{*opt}))
}

func TestModifierOptionNeedsDeepUpdate(t *testing.T) {
	opt, err := menu.NewModifierOption(uuid.New(), "Pepperoni", "pep", decimal.NewFromFloat(2.5), 3, menu.OptionMetadata{})
	require.NoError(t, err)
	opt.MergeExternalIDs(menu.ExternalIDs{{Key: menu.SpecifierModifierWhole, Value: "M_1"}})

	same := UpdateModifierOptionRequest{DisplayName: "Pepperoni", Shortcode: "pep", Price: decimal.NewFromFloat(2.5), Ordinal: 3}
	assert.False(t, ModifierOptionNeedsDeepUpdate(opt, same))

	repriced := same
	repriced.Price = decimal.NewFromFloat(3)
	assert.True(t, ModifierOptionNeedsDeepUpdate(opt, repriced))

	// Enabling a split adds variants that do not exist remotely yet.
	split := same
	split.Metadata.CanSplit = true
	assert.True(t, ModifierOptionNeedsDeepUpdate(opt, split))

	// Shortcode-only changes are invisible at the point of sale.
	relabeled := same
	relabeled.Shortcode = "ppr"
	assert.False(t, ModifierOptionNeedsDeepUpdate(opt, relabeled))
}

func TestProductNeedsDeepUpdate(t *testing.T) {
	typeID := uuid.New()
	pgID := uuid.New()
	product, err := menu.NewProduct(decimal.NewFromFloat(18), []menu.ModifierSpec{{ModifierTypeID: typeID}}, nil, &pgID)
	require.NoError(t, err)

	same := UpdateProductRequest{
		Price:          decimal.NewFromFloat(18),
		ModifierSpecs:  []menu.ModifierSpec{{ModifierTypeID: typeID}},
		PrinterGroupID: &pgID,
	}
	assert.False(t, ProductNeedsDeepUpdate(product, same))

	repriced := same
	repriced.Price = decimal.NewFromFloat(19)
	assert.True(t, ProductNeedsDeepUpdate(product, repriced))

	rerouted := same
	otherPG := uuid.New()
	rerouted.PrinterGroupID = &otherPG
	assert.True(t, ProductNeedsDeepUpdate(product, rerouted))

	respecced := same
	respecced.ModifierSpecs = []menu.ModifierSpec{{ModifierTypeID: uuid.New()}}
	assert.True(t, ProductNeedsDeepUpdate(product, respecced))
}

func TestProductInstanceNeedsDeepUpdate(t *testing.T) {
	inst, err := menu.NewProductInstance(uuid.New(), "Cheese", "chz", 1, true, nil)
	require.NoError(t, err)
	inst.MergeExternalIDs(menu.ExternalIDs{
		{Key: menu.SpecifierItem, Value: "I_1"},
		{Key: menu.SpecifierItemVariation, Value: "V_1"},
	})

	same := UpdateProductInstanceRequest{DisplayName: "Cheese", Shortcode: "chz", Ordinal: 1}
	assert.False(t, ProductInstanceNeedsDeepUpdate(inst, same))

	renamed := same
	renamed.DisplayName = "Plain Cheese"
	assert.True(t, ProductInstanceNeedsDeepUpdate(inst, renamed))

	// Toggling POS visibility always syncs: hiding deletes the item,
	// showing creates it.
	hidden := same
	hidden.DisplayFlags.HideFromPOS = true
	assert.True(t, ProductInstanceNeedsDeepUpdate(inst, hidden))

	// A POS display-name override takes precedence over the display name.
	aliased := same
	aliased.DisplayFlags.PosName = "Cheese"
	assert.False(t, ProductInstanceNeedsDeepUpdate(inst, aliased))

	// Already-hidden instances never need a remote push.
	inst.DisplayFlags.HideFromPOS = true
	stillHidden := same
	stillHidden.DisplayFlags.HideFromPOS = true
	stillHidden.DisplayName = "Renamed"
	assert.False(t, ProductInstanceNeedsDeepUpdate(inst, stillHidden))
}
