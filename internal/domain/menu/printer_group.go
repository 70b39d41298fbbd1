package menu

import (
	"time"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
)

// PrinterGroup is a kitchen ticket routing target referenced by products.
type PrinterGroup struct {
	shared.BaseAggregateRoot
	Name string
	// SingleItemPerTicket prints one ticket per line item quantity.
	SingleItemPerTicket bool
	// IsExpo routes the group's tickets to the expo printer as well.
	IsExpo      bool
	ExternalIDs ExternalIDs
}

// NewPrinterGroup creates a printer group.
func NewPrinterGroup(name string, singleItemPerTicket, isExpo bool) (*PrinterGroup, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Printer group name cannot be empty")
	}
	pg := &PrinterGroup{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		Name:                name,
		SingleItemPerTicket: singleItemPerTicket,
		IsExpo:              isExpo,
		ExternalIDs:         make(ExternalIDs, 0),
	}
	pg.AddDomainEvent(NewPrinterGroupCreatedEvent(pg))
	return pg, nil
}

// Update applies new routing metadata.
func (pg *PrinterGroup) Update(name string, singleItemPerTicket, isExpo bool) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Printer group name cannot be empty")
	}
	pg.Name = name
	pg.SingleItemPerTicket = singleItemPerTicket
	pg.IsExpo = isExpo
	pg.UpdatedAt = time.Now()
	pg.IncrementVersion()
	return nil
}

// MergeExternalIDs merges returned id mappings, preserving untouched specifiers.
func (pg *PrinterGroup) MergeExternalIDs(updates ExternalIDs) {
	pg.ExternalIDs = MergeExternalIDs(pg.ExternalIDs, updates)
	pg.UpdatedAt = time.Now()
}
