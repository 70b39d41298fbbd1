package menu

import (
	"time"

	"github.com/google/uuid"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OptionMetadata carries the per-variant capability flags of an option.
// The flags determine how many placement/qualifier variants of this
// option exist in the point-of-sale catalog: WHOLE always, LEFT and
// RIGHT when CanSplit, plus HEAVY/LITE/OTS as allowed.
type OptionMetadata struct {
	FlavorFactor decimal.Decimal
	BakeFactor   decimal.Decimal
	CanSplit     bool
	AllowHeavy   bool
	AllowLite    bool
	AllowOTS     bool
}

// OptionDisplayFlags control option rendering.
type OptionDisplayFlags struct {
	OmitFromShortname bool
	OmitFromName      bool
}

// DisabledInterval blocks availability between Start and End. A zero
// Start with a zero End means not disabled; Start after End is the
// conventional "disabled indefinitely" encoding carried over from the
// ordering frontends.
type DisabledInterval struct {
	Start time.Time
	End   time.Time
}

// IsBlanket reports whether the interval disables the entity indefinitely.
func (d DisabledInterval) IsBlanket() bool {
	return !d.Start.IsZero() && !d.End.IsZero() && d.Start.After(d.End)
}

// IsDisabledAt reports whether the interval covers the given instant.
func (d DisabledInterval) IsDisabledAt(t time.Time) bool {
	if d.Start.IsZero() && d.End.IsZero() {
		return false
	}
	if d.IsBlanket() {
		return true
	}
	return !t.Before(d.Start) && !t.After(d.End)
}

// ModifierOption belongs to exactly one ModifierType.
type ModifierOption struct {
	shared.BaseAggregateRoot
	ModifierTypeID uuid.UUID
	DisplayName    string
	Description    string
	Shortcode      string
	Price          decimal.Decimal
	Ordinal        int
	Metadata       OptionMetadata
	// EnableFuncID optionally references a ProductInstanceFunction that
	// conditionally enables this option.
	EnableFuncID *uuid.UUID
	Disabled     *DisabledInterval
	DisplayFlags OptionDisplayFlags
	ExternalIDs  ExternalIDs
}

// NewModifierOption creates an option under the given modifier type.
func NewModifierOption(modifierTypeID uuid.UUID, displayName, shortcode string, price decimal.Decimal, ordinal int, metadata OptionMetadata) (*ModifierOption, error) {
	if modifierTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Modifier option requires a modifier type")
	}
	if displayName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Modifier option display name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Modifier option price cannot be negative")
	}
	mo := &ModifierOption{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ModifierTypeID:    modifierTypeID,
		DisplayName:       displayName,
		Shortcode:         shortcode,
		Price:             price,
		Ordinal:           ordinal,
		Metadata:          metadata,
		ExternalIDs:       make(ExternalIDs, 0),
	}
	mo.AddDomainEvent(NewModifierOptionCreatedEvent(mo))
	return mo, nil
}

// Update applies new naming, price, ordering and capability flags.
func (mo *ModifierOption) Update(displayName, shortcode string, price decimal.Decimal, ordinal int, metadata OptionMetadata) error {
	if displayName == "" {
		return shared.NewDomainError("INVALID_NAME", "Modifier option display name cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Modifier option price cannot be negative")
	}
	mo.DisplayName = displayName
	mo.Shortcode = shortcode
	mo.Price = price
	mo.Ordinal = ordinal
	mo.Metadata = metadata
	mo.UpdatedAt = time.Now()
	mo.IncrementVersion()
	mo.AddDomainEvent(NewModifierOptionUpdatedEvent(mo))
	return nil
}

// SetEnableFunction attaches or clears the conditional-enablement function.
func (mo *ModifierOption) SetEnableFunction(fnID *uuid.UUID) {
	mo.EnableFuncID = fnID
	mo.UpdatedAt = time.Now()
	mo.IncrementVersion()
}

// SetDisabled sets or clears the disabled interval.
func (mo *ModifierOption) SetDisabled(interval *DisabledInterval) {
	mo.Disabled = interval
	mo.UpdatedAt = time.Now()
	mo.IncrementVersion()
}

// RequiredSpecifiers returns the modifier-variant specifiers that must
// have a remote catalog object behind them for this option.
func (mo *ModifierOption) RequiredSpecifiers() []Specifier {
	specs := []Specifier{SpecifierModifierWhole}
	if mo.Metadata.CanSplit {
		specs = append(specs, SpecifierModifierLeft, SpecifierModifierRight)
	}
	if mo.Metadata.AllowHeavy {
		specs = append(specs, SpecifierModifierHeavy)
	}
	if mo.Metadata.AllowLite {
		specs = append(specs, SpecifierModifierLite)
	}
	if mo.Metadata.AllowOTS {
		specs = append(specs, SpecifierModifierOTS)
	}
	return specs
}

// MergeExternalIDs merges returned id mappings, preserving untouched specifiers.
func (mo *ModifierOption) MergeExternalIDs(updates ExternalIDs) {
	mo.ExternalIDs = MergeExternalIDs(mo.ExternalIDs, updates)
	mo.UpdatedAt = time.Now()
}
