package menu

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
)

// buildValidationCatalog assembles a small catalog with one of each
// referenced entity kind.
func buildValidationCatalog(t *testing.T) (*Catalog, *ModifierType, *ModifierOption, *Category, *PrinterGroup, *ProductInstanceFunction) {
	t.Helper()

	mt, err := NewModifierType("Toppings", 0, 0, 5)
	require.NoError(t, err)
	opt, err := NewModifierOption(mt.ID, "Pepperoni", "pep", decimal.NewFromFloat(2.5), 0, OptionMetadata{CanSplit: true})
	require.NoError(t, err)
	cat, err := NewCategory("Pizza", 0, nil)
	require.NoError(t, err)
	pg, err := NewPrinterGroup("Expo", false, true)
	require.NoError(t, err)
	fn, err := NewProductInstanceFunction("always", ConstLiteral{Value: true})
	require.NoError(t, err)

	catalog, warnings := GenerateCatalog(
		[]Category{*cat},
		[]ModifierType{*mt},
		[]ModifierOption{*opt},
		nil, nil,
		[]ProductInstanceFunction{*fn},
		[]PrinterGroup{*pg},
	)
	require.Empty(t, warnings)
	return catalog, mt, opt, cat, pg, fn
}

func TestValidateProductReferences(t *testing.T) {
	catalog, mt, _, cat, pg, fn := buildValidationCatalog(t)

	t.Run("all references valid", func(t *testing.T) {
		err := ValidateProductReferences(catalog,
			[]ModifierSpec{{ModifierTypeID: mt.ID, EnableFuncID: &fn.ID}},
			[]uuid.UUID{cat.ID},
			&pg.ID,
		)
		assert.NoError(t, err)
	})

	t.Run("unknown modifier type", func(t *testing.T) {
		err := ValidateProductReferences(catalog,
			[]ModifierSpec{{ModifierTypeID: uuid.New()}}, nil, nil)
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "modifiers", verr.Field)
	})

	t.Run("unknown enable function", func(t *testing.T) {
		ghost := uuid.New()
		err := ValidateProductReferences(catalog,
			[]ModifierSpec{{ModifierTypeID: mt.ID, EnableFuncID: &ghost}}, nil, nil)
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "modifiers.enable", verr.Field)
	})

	t.Run("unknown category", func(t *testing.T) {
		err := ValidateProductReferences(catalog, nil, []uuid.UUID{uuid.New()}, nil)
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "category_ids", verr.Field)
	})

	t.Run("unknown printer group", func(t *testing.T) {
		ghost := uuid.New()
		err := ValidateProductReferences(catalog, nil, nil, &ghost)
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "printer_group", verr.Field)
	})

	t.Run("unwraps to invalid reference", func(t *testing.T) {
		err := ValidateProductReferences(catalog, nil, []uuid.UUID{uuid.New()}, nil)
		assert.True(t, errors.Is(err, shared.ErrInvalidReference))
	})
}

func TestValidateOptionEnableFunction(t *testing.T) {
	catalog, _, _, _, _, fn := buildValidationCatalog(t)

	assert.NoError(t, ValidateOptionEnableFunction(catalog, nil))
	assert.NoError(t, ValidateOptionEnableFunction(catalog, &fn.ID))

	ghost := uuid.New()
	err := ValidateOptionEnableFunction(catalog, &ghost)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "enable_function", verr.Field)
}

func TestValidateInstanceModifiers(t *testing.T) {
	catalog, mt, opt, _, _, _ := buildValidationCatalog(t)

	product, err := NewProduct(decimal.NewFromInt(10),
		[]ModifierSpec{{ModifierTypeID: mt.ID}}, nil, nil)
	require.NoError(t, err)

	t.Run("declared type with valid option", func(t *testing.T) {
		err := ValidateInstanceModifiers(catalog, product, []InstanceModifierEntry{{
			ModifierTypeID: mt.ID,
			Options:        []PlacedOption{{OptionID: opt.ID, Placement: PlacementWhole, Qualifier: QualifierRegular}},
		}})
		assert.NoError(t, err)
	})

	t.Run("type not declared by product", func(t *testing.T) {
		err := ValidateInstanceModifiers(catalog, product, []InstanceModifierEntry{{
			ModifierTypeID: uuid.New(),
		}})
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "modifiers", verr.Field)
	})

	t.Run("unknown option", func(t *testing.T) {
		err := ValidateInstanceModifiers(catalog, product, []InstanceModifierEntry{{
			ModifierTypeID: mt.ID,
			Options:        []PlacedOption{{OptionID: uuid.New(), Placement: PlacementWhole, Qualifier: QualifierRegular}},
		}})
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "modifiers.options", verr.Field)
	})

	t.Run("option from another type", func(t *testing.T) {
		otherType, err := NewModifierType("Sauces", 1, 0, 1)
		require.NoError(t, err)
		strayOpt, err := NewModifierOption(otherType.ID, "Ranch", "rnc", decimal.Zero, 0, OptionMetadata{})
		require.NoError(t, err)

		full, warnings := GenerateCatalog(nil,
			[]ModifierType{*catalogModifierType(t, catalog, mt.ID), *otherType},
			[]ModifierOption{*opt, *strayOpt},
			nil, nil, nil, nil)
		require.Empty(t, warnings)

		verr := ValidateInstanceModifiers(full, product, []InstanceModifierEntry{{
			ModifierTypeID: mt.ID,
			Options:        []PlacedOption{{OptionID: strayOpt.ID, Placement: PlacementWhole, Qualifier: QualifierRegular}},
		}})
		require.Error(t, verr)
		assert.Contains(t, verr.Error(), "does not belong")
	})
}

func catalogModifierType(t *testing.T, catalog *Catalog, id uuid.UUID) *ModifierType {
	t.Helper()
	entry, ok := catalog.Modifiers[id]
	require.True(t, ok)
	return entry.ModifierType
}
