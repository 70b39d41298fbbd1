package menu

import (
	"time"

	"github.com/google/uuid"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
)

// ModifierClass groups modifier types by culinary function.
type ModifierClass string

const (
	ModifierClassSize    ModifierClass = "SIZE"
	ModifierClassAdd     ModifierClass = "ADD"
	ModifierClassSub     ModifierClass = "SUB"
	ModifierClassRemoval ModifierClass = "REMOVAL"
	ModifierClassNote    ModifierClass = "NOTE"
	ModifierClassPrep    ModifierClass = "PREP"
)

// ModifierTypeDisplayFlags control how a modifier type renders on menus
// and order summaries.
type ModifierTypeDisplayFlags struct {
	OmitOptionIfNotAvailable        bool
	OmitSectionIfNoAvailableOptions bool
	UseToggleIfOnlyTwoOptions       bool
	IsHiddenDuringCustomization     bool
	EmptyDisplayAs                  string
	ModifierClass                   ModifierClass
	TemplateString                  string
	MultipleItemSeparator           string
	NonEmptyGroupPrefix             string
	NonEmptyGroupSuffix             string
	// Is3p marks the modifier type as visible to third-party ordering
	// surfaces, which forces it into the point-of-sale catalog.
	Is3p bool
}

// ModifierType owns an ordered set of modifier options and carries the
// selection-cardinality rules for them.
type ModifierType struct {
	shared.BaseAggregateRoot
	Name        string
	DisplayName string
	Ordinal     int
	MinSelected int
	// MaxSelected of zero means unbounded.
	MaxSelected  int
	DisplayFlags ModifierTypeDisplayFlags
	ExternalIDs  ExternalIDs
}

// NewModifierType creates a modifier type with the given cardinality rules.
func NewModifierType(name string, ordinal, minSelected, maxSelected int) (*ModifierType, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Modifier type name cannot be empty")
	}
	if minSelected < 0 {
		return nil, shared.NewDomainError("INVALID_CARDINALITY", "min_selected cannot be negative")
	}
	if maxSelected != 0 && maxSelected < minSelected {
		return nil, shared.NewDomainError("INVALID_CARDINALITY", "max_selected cannot be less than min_selected")
	}
	mt := &ModifierType{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Ordinal:           ordinal,
		MinSelected:       minSelected,
		MaxSelected:       maxSelected,
		ExternalIDs:       make(ExternalIDs, 0),
	}
	mt.AddDomainEvent(NewModifierTypeCreatedEvent(mt))
	return mt, nil
}

// SingleSelect reports whether at most one option may be selected.
func (mt *ModifierType) SingleSelect() bool {
	return mt.MaxSelected == 1
}

// DisplayLabel returns the customer-facing name of the modifier type.
func (mt *ModifierType) DisplayLabel() string {
	if mt.DisplayName != "" {
		return mt.DisplayName
	}
	return mt.Name
}

// Update applies new naming/ordering/cardinality and flags.
func (mt *ModifierType) Update(name, displayName string, ordinal, minSelected, maxSelected int, flags ModifierTypeDisplayFlags) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Modifier type name cannot be empty")
	}
	if maxSelected != 0 && maxSelected < minSelected {
		return shared.NewDomainError("INVALID_CARDINALITY", "max_selected cannot be less than min_selected")
	}
	mt.Name = name
	mt.DisplayName = displayName
	mt.Ordinal = ordinal
	mt.MinSelected = minSelected
	mt.MaxSelected = maxSelected
	mt.DisplayFlags = flags
	mt.UpdatedAt = time.Now()
	mt.IncrementVersion()
	mt.AddDomainEvent(NewModifierTypeUpdatedEvent(mt))
	return nil
}

// MergeExternalIDs merges returned id mappings, preserving untouched specifiers.
func (mt *ModifierType) MergeExternalIDs(updates ExternalIDs) {
	mt.ExternalIDs = MergeExternalIDs(mt.ExternalIDs, updates)
	mt.UpdatedAt = time.Now()
}

// ModifierTypeEntry pairs a modifier type with its owned option ids, in
// option ordinal order. It is the shape consumers read from the catalog.
type ModifierTypeEntry struct {
	ModifierType *ModifierType
	Options      []uuid.UUID
}
