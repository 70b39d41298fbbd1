package menu

import (
	"github.com/google/uuid"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/menu"
)

// A "deep" update is one that must be pushed to the point of sale
// because it changes what the remote catalog displays or charges, or
// because the entity is missing a remote object it should have. Shallow
// updates persist locally and rebuild the snapshot without any remote
// call.

// CategoryNeedsDeepUpdate reports whether a category update must reach
// the remote catalog.
func CategoryNeedsDeepUpdate(current *menu.Category, req UpdateCategoryRequest) bool {
	if !current.ExternalIDs.Has(menu.SpecifierCategory) {
		return true
	}
	return current.Name != req.Name
}

// ModifierTypeNeedsDeepUpdate reports whether a modifier type update
// must reach the remote catalog. Options missing their WHOLE variant
// force a push so the list's membership heals.
func ModifierTypeNeedsDeepUpdate(current *menu.ModifierType, req UpdateModifierTypeRequest, options []menu.ModifierOption) bool {
	if !current.ExternalIDs.Has(menu.SpecifierModifierList) {
		return true
	}
	if current.Ordinal != req.Ordinal ||
		current.Name != req.Name ||
		current.DisplayName != req.DisplayName ||
		current.DisplayFlags.Is3p != req.DisplayFlags.Is3p {
		return true
	}
	// MaxSelected crossing the single/multiple boundary changes the
	// remote selection type.
	if current.SingleSelect() != (req.MaxSelected == 1) {
		return true
	}
	for i := range options {
		if !options[i].ExternalIDs.Has(menu.SpecifierModifierWhole) {
			return true
		}
	}
	return false
}

// ModifierOptionNeedsDeepUpdate reports whether an option update must
// reach the remote catalog.
func ModifierOptionNeedsDeepUpdate(current *menu.ModifierOption, req UpdateModifierOptionRequest) bool {
	if !current.Price.Equal(req.Price) ||
		current.DisplayName != req.DisplayName ||
		current.Ordinal != req.Ordinal {
		return true
	}
	if current.Metadata.CanSplit != req.Metadata.CanSplit ||
		current.Metadata.AllowHeavy != req.Metadata.AllowHeavy ||
		current.Metadata.AllowLite != req.Metadata.AllowLite ||
		current.Metadata.AllowOTS != req.Metadata.AllowOTS {
		return true
	}
	for _, spec := range current.RequiredSpecifiers() {
		if !current.ExternalIDs.Has(spec) {
			return true
		}
	}
	return false
}

// ProductNeedsDeepUpdate reports whether a product update must push its
// instances' items to the remote catalog.
func ProductNeedsDeepUpdate(current *menu.Product, req UpdateProductRequest) bool {
	if !current.Price.Equal(req.Price) {
		return true
	}
	if !uuidPtrEqual(current.PrinterGroupID, req.PrinterGroupID) {
		return true
	}
	if len(current.ModifierSpecs) != len(req.ModifierSpecs) {
		return true
	}
	for i, spec := range current.ModifierSpecs {
		if spec.ModifierTypeID != req.ModifierSpecs[i].ModifierTypeID {
			return true
		}
	}
	return false
}

// ProductInstanceNeedsDeepUpdate reports whether an instance update
// must reach the remote catalog.
func ProductInstanceNeedsDeepUpdate(current *menu.ProductInstance, req UpdateProductInstanceRequest) bool {
	if current.DisplayFlags.HideFromPOS != req.DisplayFlags.HideFromPOS {
		return true
	}
	if req.DisplayFlags.HideFromPOS {
		// Hidden instances have no remote objects to keep current.
		return false
	}
	if !current.ExternalIDs.Has(menu.SpecifierItem) || !current.ExternalIDs.Has(menu.SpecifierItemVariation) {
		return true
	}
	currentName := current.POSDisplayName()
	reqName := req.DisplayFlags.PosName
	if reqName == "" {
		reqName = req.DisplayName
	}
	return currentName != reqName ||
		current.Ordinal != req.Ordinal ||
		current.Shortcode != req.Shortcode
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
