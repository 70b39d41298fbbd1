package menu

import (
	"github.com/google/uuid"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
)

// Event type constants for the menu domain
const (
	EventCategoryCreated         = "menu.category.created"
	EventCategoryUpdated         = "menu.category.updated"
	EventCategoryDeleted         = "menu.category.deleted"
	EventModifierTypeCreated     = "menu.modifier_type.created"
	EventModifierTypeUpdated     = "menu.modifier_type.updated"
	EventModifierTypeDeleted     = "menu.modifier_type.deleted"
	EventModifierOptionCreated   = "menu.modifier_option.created"
	EventModifierOptionUpdated   = "menu.modifier_option.updated"
	EventModifierOptionDeleted   = "menu.modifier_option.deleted"
	EventProductCreated          = "menu.product.created"
	EventProductUpdated          = "menu.product.updated"
	EventProductDeleted          = "menu.product.deleted"
	EventProductInstanceCreated  = "menu.product_instance.created"
	EventProductInstanceUpdated  = "menu.product_instance.updated"
	EventInstanceFunctionCreated = "menu.instance_function.created"
	EventInstanceFunctionUpdated = "menu.instance_function.updated"
	EventPrinterGroupCreated     = "menu.printer_group.created"
	EventCatalogUpdated          = "menu.catalog.updated"
)

// CategoryCreatedEvent is raised when a category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

// NewCategoryCreatedEvent creates a CategoryCreatedEvent
func NewCategoryCreatedEvent(c *Category) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCategoryCreated, "Category", c.ID),
		Name:            c.Name,
		ParentID:        c.ParentID,
	}
}

// CategoryUpdatedEvent is raised when a category changes
type CategoryUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewCategoryUpdatedEvent creates a CategoryUpdatedEvent
func NewCategoryUpdatedEvent(c *Category) *CategoryUpdatedEvent {
	return &CategoryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCategoryUpdated, "Category", c.ID),
		Name:            c.Name,
	}
}

// ModifierTypeCreatedEvent is raised when a modifier type is created
type ModifierTypeCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewModifierTypeCreatedEvent creates a ModifierTypeCreatedEvent
func NewModifierTypeCreatedEvent(mt *ModifierType) *ModifierTypeCreatedEvent {
	return &ModifierTypeCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventModifierTypeCreated, "ModifierType", mt.ID),
		Name:            mt.Name,
	}
}

// ModifierTypeUpdatedEvent is raised when a modifier type changes
type ModifierTypeUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewModifierTypeUpdatedEvent creates a ModifierTypeUpdatedEvent
func NewModifierTypeUpdatedEvent(mt *ModifierType) *ModifierTypeUpdatedEvent {
	return &ModifierTypeUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventModifierTypeUpdated, "ModifierType", mt.ID),
		Name:            mt.Name,
	}
}

// ModifierOptionCreatedEvent is raised when an option is created
type ModifierOptionCreatedEvent struct {
	shared.BaseDomainEvent
	ModifierTypeID uuid.UUID `json:"modifier_type_id"`
	DisplayName    string    `json:"display_name"`
}

// NewModifierOptionCreatedEvent creates a ModifierOptionCreatedEvent
func NewModifierOptionCreatedEvent(mo *ModifierOption) *ModifierOptionCreatedEvent {
	return &ModifierOptionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventModifierOptionCreated, "ModifierOption", mo.ID),
		ModifierTypeID:  mo.ModifierTypeID,
		DisplayName:     mo.DisplayName,
	}
}

// ModifierOptionUpdatedEvent is raised when an option changes
type ModifierOptionUpdatedEvent struct {
	shared.BaseDomainEvent
	ModifierTypeID uuid.UUID `json:"modifier_type_id"`
}

// NewModifierOptionUpdatedEvent creates a ModifierOptionUpdatedEvent
func NewModifierOptionUpdatedEvent(mo *ModifierOption) *ModifierOptionUpdatedEvent {
	return &ModifierOptionUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventModifierOptionUpdated, "ModifierOption", mo.ID),
		ModifierTypeID:  mo.ModifierTypeID,
	}
}

// ProductCreatedEvent is raised when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
}

// NewProductCreatedEvent creates a ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProductCreated, "Product", p.ID),
	}
}

// ProductUpdatedEvent is raised when a product changes
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
}

// NewProductUpdatedEvent creates a ProductUpdatedEvent
func NewProductUpdatedEvent(p *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProductUpdated, "Product", p.ID),
	}
}

// ProductInstanceCreatedEvent is raised when an instance is created
type ProductInstanceCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
}

// NewProductInstanceCreatedEvent creates a ProductInstanceCreatedEvent
func NewProductInstanceCreatedEvent(pi *ProductInstance) *ProductInstanceCreatedEvent {
	return &ProductInstanceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProductInstanceCreated, "ProductInstance", pi.ID),
		ProductID:       pi.ProductID,
	}
}

// ProductInstanceUpdatedEvent is raised when an instance changes
type ProductInstanceUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
}

// NewProductInstanceUpdatedEvent creates a ProductInstanceUpdatedEvent
func NewProductInstanceUpdatedEvent(pi *ProductInstance) *ProductInstanceUpdatedEvent {
	return &ProductInstanceUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProductInstanceUpdated, "ProductInstance", pi.ID),
		ProductID:       pi.ProductID,
	}
}

// InstanceFunctionCreatedEvent is raised when a function is created
type InstanceFunctionCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewInstanceFunctionCreatedEvent creates an InstanceFunctionCreatedEvent
func NewInstanceFunctionCreatedEvent(fn *ProductInstanceFunction) *InstanceFunctionCreatedEvent {
	return &InstanceFunctionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInstanceFunctionCreated, "ProductInstanceFunction", fn.ID),
		Name:            fn.Name,
	}
}

// InstanceFunctionUpdatedEvent is raised when a function changes
type InstanceFunctionUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewInstanceFunctionUpdatedEvent creates an InstanceFunctionUpdatedEvent
func NewInstanceFunctionUpdatedEvent(fn *ProductInstanceFunction) *InstanceFunctionUpdatedEvent {
	return &InstanceFunctionUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInstanceFunctionUpdated, "ProductInstanceFunction", fn.ID),
		Name:            fn.Name,
	}
}

// PrinterGroupCreatedEvent is raised when a printer group is created
type PrinterGroupCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewPrinterGroupCreatedEvent creates a PrinterGroupCreatedEvent
func NewPrinterGroupCreatedEvent(pg *PrinterGroup) *PrinterGroupCreatedEvent {
	return &PrinterGroupCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPrinterGroupCreated, "PrinterGroup", pg.ID),
		Name:            pg.Name,
	}
}

// CatalogUpdatedEvent fans the freshly recomputed catalog snapshot out
// to connected subscribers. Delivery is fire-and-forget.
type CatalogUpdatedEvent struct {
	shared.BaseDomainEvent
	CatalogVersion string `json:"catalog_version"`
	Snapshot       any    `json:"-"`
}

// NewCatalogUpdatedEvent creates a CatalogUpdatedEvent
func NewCatalogUpdatedEvent(version string, snapshot any) *CatalogUpdatedEvent {
	return &CatalogUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCatalogUpdated, "Catalog", uuid.Nil),
		CatalogVersion:  version,
		Snapshot:        snapshot,
	}
}
