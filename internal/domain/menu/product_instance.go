package menu

import (
	"time"

	"github.com/google/uuid"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
)

// PlacedOption is one selected option on a product instance.
type PlacedOption struct {
	OptionID  uuid.UUID
	Placement OptionPlacement
	Qualifier OptionQualifier
}

// InstanceModifierEntry groups the placed options of one modifier type.
type InstanceModifierEntry struct {
	ModifierTypeID uuid.UUID
	Options        []PlacedOption
}

// InstanceDisplayFlags control product instance rendering on the menu,
// on order summaries, and at the point of sale.
type InstanceDisplayFlags struct {
	MenuOrdinal                         int
	MenuHide                            bool
	MenuPriceDisplay                    string
	MenuAdornment                       string
	MenuSuppressExhaustiveModifierList  bool
	MenuShowModifierOptions             bool
	OrderOrdinal                        int
	OrderHide                           bool
	OrderPriceDisplay                   string
	OrderAdornment                      string
	OrderSuppressExhaustiveModifierList bool
	// HideFromPOS excludes the instance from the point-of-sale catalog
	// entirely; no ITEM objects are created or kept for it remotely.
	HideFromPOS bool
	// PosName overrides DisplayName on the point of sale when set.
	PosName string
}

// ProductInstance is a concrete, orderable configuration of a Product:
// a fixed selection of modifier options plus its own display metadata.
type ProductInstance struct {
	shared.BaseAggregateRoot
	ProductID    uuid.UUID
	DisplayName  string
	Description  string
	Shortcode    string
	Ordinal      int
	IsBase       bool
	Modifiers    []InstanceModifierEntry
	DisplayFlags InstanceDisplayFlags
	ExternalIDs  ExternalIDs
}

// NewProductInstance creates an instance of the given product.
func NewProductInstance(productID uuid.UUID, displayName, shortcode string, ordinal int, isBase bool, modifiers []InstanceModifierEntry) (*ProductInstance, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Product instance requires a product")
	}
	if displayName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product instance display name cannot be empty")
	}
	for _, entry := range modifiers {
		for _, opt := range entry.Options {
			if !opt.Placement.IsValid() || !opt.Qualifier.IsValid() {
				return nil, shared.NewDomainError("INVALID_INPUT", "Product instance has an invalid option placement or qualifier")
			}
		}
	}
	pi := &ProductInstance{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		DisplayName:       displayName,
		Shortcode:         shortcode,
		Ordinal:           ordinal,
		IsBase:            isBase,
		Modifiers:         modifiers,
		ExternalIDs:       make(ExternalIDs, 0),
	}
	pi.AddDomainEvent(NewProductInstanceCreatedEvent(pi))
	return pi, nil
}

// POSDisplayName returns the name shown at the point of sale.
func (pi *ProductInstance) POSDisplayName() string {
	if pi.DisplayFlags.PosName != "" {
		return pi.DisplayFlags.PosName
	}
	return pi.DisplayName
}

// Update applies new display metadata and option selection.
func (pi *ProductInstance) Update(displayName, description, shortcode string, ordinal int, modifiers []InstanceModifierEntry, flags InstanceDisplayFlags) error {
	if displayName == "" {
		return shared.NewDomainError("INVALID_NAME", "Product instance display name cannot be empty")
	}
	pi.DisplayName = displayName
	pi.Description = description
	pi.Shortcode = shortcode
	pi.Ordinal = ordinal
	pi.Modifiers = modifiers
	pi.DisplayFlags = flags
	pi.UpdatedAt = time.Now()
	pi.IncrementVersion()
	pi.AddDomainEvent(NewProductInstanceUpdatedEvent(pi))
	return nil
}

// RemoveModifierType strips every placed option of the modifier type,
// returning true if anything was removed.
func (pi *ProductInstance) RemoveModifierType(modifierTypeID uuid.UUID) bool {
	for i, entry := range pi.Modifiers {
		if entry.ModifierTypeID == modifierTypeID {
			pi.Modifiers = append(pi.Modifiers[:i], pi.Modifiers[i+1:]...)
			pi.UpdatedAt = time.Now()
			pi.IncrementVersion()
			return true
		}
	}
	return false
}

// RemoveOption strips one option wherever it is placed, returning true
// if anything was removed. Entries left with no options are dropped.
func (pi *ProductInstance) RemoveOption(optionID uuid.UUID) bool {
	removed := false
	entries := pi.Modifiers[:0]
	for _, entry := range pi.Modifiers {
		options := entry.Options[:0]
		for _, opt := range entry.Options {
			if opt.OptionID == optionID {
				removed = true
				continue
			}
			options = append(options, opt)
		}
		entry.Options = options
		if len(entry.Options) > 0 {
			entries = append(entries, entry)
		}
	}
	pi.Modifiers = entries
	if removed {
		pi.UpdatedAt = time.Now()
		pi.IncrementVersion()
	}
	return removed
}

// SelectedOptions returns the placed options grouped by modifier type id.
func (pi *ProductInstance) SelectedOptions() map[uuid.UUID][]PlacedOption {
	selection := make(map[uuid.UUID][]PlacedOption, len(pi.Modifiers))
	for _, entry := range pi.Modifiers {
		selection[entry.ModifierTypeID] = entry.Options
	}
	return selection
}

// MergeExternalIDs merges returned id mappings, preserving untouched specifiers.
func (pi *ProductInstance) MergeExternalIDs(updates ExternalIDs) {
	pi.ExternalIDs = MergeExternalIDs(pi.ExternalIDs, updates)
	pi.UpdatedAt = time.Now()
}
