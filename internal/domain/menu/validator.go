package menu

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
)

// ValidationError reports a bad or missing reference in a mutation
// request. It is returned before any side effect; the whole request is
// rejected together on the first failure.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Detail)
}

// Unwrap lets callers match the domain-level invalid reference error.
func (e *ValidationError) Unwrap() error {
	return shared.ErrInvalidReference
}

// ValidateProductReferences verifies that every modifier type,
// enable-function, category and printer-group reference used by a
// product exists in the given catalog.
func ValidateProductReferences(catalog *Catalog, specs []ModifierSpec, categoryIDs []uuid.UUID, printerGroupID *uuid.UUID) error {
	for _, spec := range specs {
		if _, ok := catalog.Modifiers[spec.ModifierTypeID]; !ok {
			return &ValidationError{Field: "modifiers", Detail: fmt.Sprintf("modifier type %s does not exist", spec.ModifierTypeID)}
		}
		if spec.EnableFuncID != nil {
			if _, ok := catalog.ProductInstanceFunctions[*spec.EnableFuncID]; !ok {
				return &ValidationError{Field: "modifiers.enable", Detail: fmt.Sprintf("instance function %s does not exist", *spec.EnableFuncID)}
			}
		}
	}
	for _, catID := range categoryIDs {
		if _, ok := catalog.Categories[catID]; !ok {
			return &ValidationError{Field: "category_ids", Detail: fmt.Sprintf("category %s does not exist", catID)}
		}
	}
	if printerGroupID != nil {
		if _, ok := catalog.PrinterGroups[*printerGroupID]; !ok {
			return &ValidationError{Field: "printer_group", Detail: fmt.Sprintf("printer group %s does not exist", *printerGroupID)}
		}
	}
	return nil
}

// ValidateOptionEnableFunction verifies the option's enable-function
// reference, when set, exists in the catalog.
func ValidateOptionEnableFunction(catalog *Catalog, enableFuncID *uuid.UUID) error {
	if enableFuncID == nil {
		return nil
	}
	if _, ok := catalog.ProductInstanceFunctions[*enableFuncID]; !ok {
		return &ValidationError{Field: "enable_function", Detail: fmt.Sprintf("instance function %s does not exist", *enableFuncID)}
	}
	return nil
}

// ValidateInstanceModifiers verifies an instance's placed options: each
// entry's modifier type must be declared by the product, and each placed
// option must exist and belong to the declared type.
func ValidateInstanceModifiers(catalog *Catalog, product *Product, modifiers []InstanceModifierEntry) error {
	declared := make(map[uuid.UUID]struct{}, len(product.ModifierSpecs))
	for _, spec := range product.ModifierSpecs {
		declared[spec.ModifierTypeID] = struct{}{}
	}
	for _, entry := range modifiers {
		if _, ok := declared[entry.ModifierTypeID]; !ok {
			return &ValidationError{Field: "modifiers", Detail: fmt.Sprintf("modifier type %s is not declared by the product", entry.ModifierTypeID)}
		}
		for _, placed := range entry.Options {
			option, ok := catalog.ModifierOptions[placed.OptionID]
			if !ok {
				return &ValidationError{Field: "modifiers.options", Detail: fmt.Sprintf("modifier option %s does not exist", placed.OptionID)}
			}
			if option.ModifierTypeID != entry.ModifierTypeID {
				return &ValidationError{Field: "modifiers.options", Detail: fmt.Sprintf("modifier option %s does not belong to modifier type %s", placed.OptionID, entry.ModifierTypeID)}
			}
		}
	}
	return nil
}
