package menu

import (
	"time"

	"github.com/google/uuid"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ModifierSpec declares that a product accepts options of a modifier
// type, optionally gated by a conditional-enablement function.
type ModifierSpec struct {
	ModifierTypeID uuid.UUID
	EnableFuncID   *uuid.UUID
	ServiceDisable []uuid.UUID
}

// ProductDisplayFlags carry product-level customization limits.
type ProductDisplayFlags struct {
	FlavorMax             decimal.Decimal
	BakeMax               decimal.Decimal
	BakeDifferentialMax   decimal.Decimal
	ShowNameOfBaseProduct bool
	SingularNoun          string
	// OrderGuide options get suggested/warned during order entry.
	OrderGuideSuggestions []uuid.UUID
	OrderGuideWarnings    []uuid.UUID
}

// ProductTiming adjusts preparation lead time for this product.
type ProductTiming struct {
	MinPrepTimeMinutes     int
	AdditionalUnitPrepTime int
}

// Product is the customizable menu item template. Its concrete,
// orderable configurations are ProductInstances.
type Product struct {
	shared.BaseAggregateRoot
	Price          decimal.Decimal
	Disabled       *DisabledInterval
	ServiceDisable []uuid.UUID
	ModifierSpecs  []ModifierSpec
	CategoryIDs    []uuid.UUID
	PrinterGroupID *uuid.UUID
	DisplayFlags   ProductDisplayFlags
	Timing         *ProductTiming
	ExternalIDs    ExternalIDs
}

// NewProduct creates a product with the given base price and references.
// Reference existence is validated by CatalogService against the current
// catalog before the product is accepted.
func NewProduct(price decimal.Decimal, modifierSpecs []ModifierSpec, categoryIDs []uuid.UUID, printerGroupID *uuid.UUID) (*Product, error) {
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	seen := make(map[uuid.UUID]struct{}, len(modifierSpecs))
	for _, spec := range modifierSpecs {
		if spec.ModifierTypeID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_REFERENCE", "Modifier spec requires a modifier type")
		}
		if _, dup := seen[spec.ModifierTypeID]; dup {
			return nil, shared.NewDomainError("DUPLICATE_MODIFIER_SPEC", "Product declares the same modifier type twice")
		}
		seen[spec.ModifierTypeID] = struct{}{}
	}
	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Price:             price,
		ModifierSpecs:     modifierSpecs,
		CategoryIDs:       categoryIDs,
		PrinterGroupID:    printerGroupID,
		ExternalIDs:       make(ExternalIDs, 0),
	}
	p.AddDomainEvent(NewProductCreatedEvent(p))
	return p, nil
}

// SetPrice updates the base price.
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// SetPrinterGroup assigns or clears the kitchen printer routing target.
func (p *Product) SetPrinterGroup(printerGroupID *uuid.UUID) {
	p.PrinterGroupID = printerGroupID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// SetCategories replaces the category membership set.
func (p *Product) SetCategories(categoryIDs []uuid.UUID) {
	p.CategoryIDs = categoryIDs
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// SetModifierSpecs replaces the declared modifier types.
func (p *Product) SetModifierSpecs(specs []ModifierSpec) error {
	seen := make(map[uuid.UUID]struct{}, len(specs))
	for _, spec := range specs {
		if _, dup := seen[spec.ModifierTypeID]; dup {
			return shared.NewDomainError("DUPLICATE_MODIFIER_SPEC", "Product declares the same modifier type twice")
		}
		seen[spec.ModifierTypeID] = struct{}{}
	}
	p.ModifierSpecs = specs
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// RemoveModifierType strips the modifier type from the product's
// modifier specs, returning true if a spec was removed.
func (p *Product) RemoveModifierType(modifierTypeID uuid.UUID) bool {
	for i, spec := range p.ModifierSpecs {
		if spec.ModifierTypeID == modifierTypeID {
			p.ModifierSpecs = append(p.ModifierSpecs[:i], p.ModifierSpecs[i+1:]...)
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return true
		}
	}
	return false
}

// RemoveCategory detaches the product from a category, returning true
// if the membership existed.
func (p *Product) RemoveCategory(categoryID uuid.UUID) bool {
	for i, id := range p.CategoryIDs {
		if id == categoryID {
			p.CategoryIDs = append(p.CategoryIDs[:i], p.CategoryIDs[i+1:]...)
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return true
		}
	}
	return false
}

// HasModifierType reports whether the product declares the modifier type.
func (p *Product) HasModifierType(modifierTypeID uuid.UUID) bool {
	for _, spec := range p.ModifierSpecs {
		if spec.ModifierTypeID == modifierTypeID {
			return true
		}
	}
	return false
}

// ReferencesFunction reports whether any modifier spec is gated by fnID.
func (p *Product) ReferencesFunction(fnID uuid.UUID) bool {
	for _, spec := range p.ModifierSpecs {
		if spec.EnableFuncID != nil && *spec.EnableFuncID == fnID {
			return true
		}
	}
	return false
}

// SetDisabled sets or clears the disabled interval.
func (p *Product) SetDisabled(interval *DisabledInterval) {
	p.Disabled = interval
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// MergeExternalIDs merges returned id mappings, preserving untouched specifiers.
func (p *Product) MergeExternalIDs(updates ExternalIDs) {
	p.ExternalIDs = MergeExternalIDs(p.ExternalIDs, updates)
	p.UpdatedAt = time.Now()
}
