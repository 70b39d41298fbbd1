package menu

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/menu"
)

// CreateCategoryRequest carries the fields of a new category.
type CreateCategoryRequest struct {
	Name            string
	Description     string
	Subheading      string
	Footnotes       string
	Ordinal         int
	ParentID        *uuid.UUID
	CallLineName    string
	CallLineDisplay menu.CallLineDisplay
	NestedDisplay   menu.NestedDisplayFlags
	ServiceDisable  []uuid.UUID
}

// UpdateCategoryRequest carries a full category replacement.
type UpdateCategoryRequest = CreateCategoryRequest

// DeleteCategoryOptions selects what happens to a deleted category's
// contained products. Children are always reparented to the deleted
// node's parent.
type DeleteCategoryOptions struct {
	// CascadeProducts deletes products whose only category was the one
	// being removed; otherwise they are merely detached.
	CascadeProducts bool
}

// CreateModifierTypeRequest carries the fields of a new modifier type.
type CreateModifierTypeRequest struct {
	Name         string
	DisplayName  string
	Ordinal      int
	MinSelected  int
	MaxSelected  int
	DisplayFlags menu.ModifierTypeDisplayFlags
}

// UpdateModifierTypeRequest carries a full modifier type replacement.
type UpdateModifierTypeRequest = CreateModifierTypeRequest

// CreateModifierOptionRequest carries the fields of a new modifier option.
type CreateModifierOptionRequest struct {
	ModifierTypeID uuid.UUID
	DisplayName    string
	Description    string
	Shortcode      string
	Price          decimal.Decimal
	Ordinal        int
	Metadata       menu.OptionMetadata
	EnableFuncID   *uuid.UUID
	Disabled       *menu.DisabledInterval
	DisplayFlags   menu.OptionDisplayFlags
}

// UpdateModifierOptionRequest carries a full option replacement. The
// owning modifier type cannot change.
type UpdateModifierOptionRequest struct {
	DisplayName  string
	Description  string
	Shortcode    string
	Price        decimal.Decimal
	Ordinal      int
	Metadata     menu.OptionMetadata
	EnableFuncID *uuid.UUID
	Disabled     *menu.DisabledInterval
	DisplayFlags menu.OptionDisplayFlags
}

// CreateProductRequest carries the fields of a new product class.
type CreateProductRequest struct {
	Price          decimal.Decimal
	Disabled       *menu.DisabledInterval
	ServiceDisable []uuid.UUID
	ModifierSpecs  []menu.ModifierSpec
	CategoryIDs    []uuid.UUID
	PrinterGroupID *uuid.UUID
	DisplayFlags   menu.ProductDisplayFlags
	Timing         *menu.ProductTiming
}

// UpdateProductRequest carries a full product replacement.
type UpdateProductRequest = CreateProductRequest

// BatchProductUpdate pairs a product id with its replacement fields for
// a multi-product update pushed in a single remote batch.
type BatchProductUpdate struct {
	ID      uuid.UUID
	Request UpdateProductRequest
}

// CreateProductInstanceRequest carries the fields of a new product
// instance.
type CreateProductInstanceRequest struct {
	ProductID    uuid.UUID
	DisplayName  string
	Description  string
	Shortcode    string
	Ordinal      int
	IsBase       bool
	Modifiers    []menu.InstanceModifierEntry
	DisplayFlags menu.InstanceDisplayFlags
}

// UpdateProductInstanceRequest carries a full instance replacement. The
// owning product cannot change.
type UpdateProductInstanceRequest struct {
	DisplayName  string
	Description  string
	Shortcode    string
	Ordinal      int
	Modifiers    []menu.InstanceModifierEntry
	DisplayFlags menu.InstanceDisplayFlags
}

// CreateInstanceFunctionRequest carries a new instance function.
type CreateInstanceFunctionRequest struct {
	Name       string
	Expression menu.Expression
}

// UpdateInstanceFunctionRequest carries a full function replacement.
type UpdateInstanceFunctionRequest = CreateInstanceFunctionRequest

// CreatePrinterGroupRequest carries the fields of a new printer group.
type CreatePrinterGroupRequest struct {
	Name                string
	SingleItemPerTicket bool
	IsExpo              bool
}

// UpdatePrinterGroupRequest carries a full printer group replacement.
type UpdatePrinterGroupRequest = CreatePrinterGroupRequest

// DeletePrinterGroupOptions selects what happens to products routed to
// a deleted printer group.
type DeletePrinterGroupOptions struct {
	// ReassignTo moves affected products to another group; nil leaves
	// them without a printer group.
	ReassignTo *uuid.UUID
}
