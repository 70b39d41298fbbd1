package menu

import (
	"time"

	"github.com/google/uuid"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
)

// CallLineDisplay selects how a category's items render on the expo call line.
type CallLineDisplay string

const (
	CallLineDisplayShortcode CallLineDisplay = "SHORTCODE"
	CallLineDisplayShortname CallLineDisplay = "SHORTNAME"
)

// NestedDisplayFlags selects how child categories render under a parent.
type NestedDisplayFlags string

const (
	NestedDisplayTab       NestedDisplayFlags = "TAB"
	NestedDisplayTabImmed  NestedDisplayFlags = "TAB_IMMEDIATE"
	NestedDisplayFlatten   NestedDisplayFlags = "FLATTEN"
	NestedDisplayHide      NestedDisplayFlags = "HIDE"
	NestedDisplayAccordion NestedDisplayFlags = "ACCORDION"
)

// Category is a node in the menu category tree. The parent relation is
// required to stay acyclic; CatalogService enforces this on reparenting.
type Category struct {
	shared.BaseAggregateRoot
	Name            string
	Description     string
	Subheading      string
	Footnotes       string
	Ordinal         int
	ParentID        *uuid.UUID
	CallLineName    string
	CallLineDisplay CallLineDisplay
	NestedDisplay   NestedDisplayFlags
	// ServiceDisable lists fulfillment service ids this category is hidden from.
	ServiceDisable []uuid.UUID
	ExternalIDs    ExternalIDs
}

// NewCategory creates a category. A nil parentID creates a root node.
func NewCategory(name string, ordinal int, parentID *uuid.UUID) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	category := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Ordinal:           ordinal,
		ParentID:          parentID,
		CallLineDisplay:   CallLineDisplayShortname,
		NestedDisplay:     NestedDisplayTab,
		ServiceDisable:    make([]uuid.UUID, 0),
		ExternalIDs:       make(ExternalIDs, 0),
	}
	category.AddDomainEvent(NewCategoryCreatedEvent(category))
	return category, nil
}

// Rename updates the category's display name
func (c *Category) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewCategoryUpdatedEvent(c))
	return nil
}

// SetParent reparents the category. Cycle detection is the caller's
// responsibility: the category graph is only available at the service layer.
func (c *Category) SetParent(parentID *uuid.UUID) {
	c.ParentID = parentID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewCategoryUpdatedEvent(c))
}

// SetOrdinal sets the display order of the category
func (c *Category) SetOrdinal(ordinal int) {
	c.Ordinal = ordinal
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsRoot returns true if this is a root category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// MergeExternalIDs merges freshly returned id mappings into the category,
// replacing only the specifiers present in updates.
func (c *Category) MergeExternalIDs(updates ExternalIDs) {
	c.ExternalIDs = MergeExternalIDs(c.ExternalIDs, updates)
	c.UpdatedAt = time.Now()
}
