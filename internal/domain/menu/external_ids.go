package menu

// Specifier identifies which point-of-sale object "role" an external id
// corresponds to for a given internal entity. A specifier is unique per
// entity; distinct entities may share an external object id only when the
// bridge maps several internal entities onto one remote object.
type Specifier string

const (
	SpecifierItem          Specifier = "ITEM"
	SpecifierItemVariation Specifier = "ITEM_VARIATION"
	SpecifierModifierList  Specifier = "MODIFIER_LIST"
	SpecifierModifierWhole Specifier = "MODIFIER_WHOLE"
	SpecifierModifierLeft  Specifier = "MODIFIER_LEFT"
	SpecifierModifierRight Specifier = "MODIFIER_RIGHT"
	SpecifierModifierHeavy Specifier = "MODIFIER_HEAVY"
	SpecifierModifierLite  Specifier = "MODIFIER_LITE"
	SpecifierModifierOTS   Specifier = "MODIFIER_OTS"
	SpecifierCategory      Specifier = "CATEGORY"
)

// ExternalID ties one specifier to the remote catalog object id it maps to.
type ExternalID struct {
	Key   Specifier `json:"key"`
	Value string    `json:"value"`
}

// ExternalIDs is the external-id bookkeeping attached to an entity.
type ExternalIDs []ExternalID

// Get returns the external id recorded for the given specifier.
func (ids ExternalIDs) Get(key Specifier) (string, bool) {
	for _, kv := range ids {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Has reports whether an external id is recorded for the given specifier.
func (ids ExternalIDs) Has(key Specifier) bool {
	_, ok := ids.Get(key)
	return ok
}

// Values returns the remote object ids for all recorded specifiers.
func (ids ExternalIDs) Values() []string {
	values := make([]string, 0, len(ids))
	for _, kv := range ids {
		values = append(values, kv.Value)
	}
	return values
}

// Filter returns the subset of entries whose specifier is in keys.
func (ids ExternalIDs) Filter(keys ...Specifier) ExternalIDs {
	keep := make(map[Specifier]struct{}, len(keys))
	for _, k := range keys {
		keep[k] = struct{}{}
	}
	out := make(ExternalIDs, 0, len(ids))
	for _, kv := range ids {
		if _, ok := keep[kv.Key]; ok {
			out = append(out, kv)
		}
	}
	return out
}

// Without returns the entries whose specifier is NOT in keys.
func (ids ExternalIDs) Without(keys ...Specifier) ExternalIDs {
	drop := make(map[Specifier]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	out := make(ExternalIDs, 0, len(ids))
	for _, kv := range ids {
		if _, ok := drop[kv.Key]; !ok {
			out = append(out, kv)
		}
	}
	return out
}

// MergeExternalIDs merges updates into existing. Only the specifier keys
// actually present in updates are replaced; entries for unrelated
// specifiers are preserved untouched. The merge is idempotent.
func MergeExternalIDs(existing, updates ExternalIDs) ExternalIDs {
	touched := make(map[Specifier]struct{}, len(updates))
	for _, kv := range updates {
		touched[kv.Key] = struct{}{}
	}
	merged := make(ExternalIDs, 0, len(existing)+len(updates))
	for _, kv := range existing {
		if _, ok := touched[kv.Key]; !ok {
			merged = append(merged, kv)
		}
	}
	return append(merged, updates...)
}

// ModifierSpecifiers are the specifiers a modifier option may carry,
// one per placement/qualifier variant of the option.
var ModifierSpecifiers = []Specifier{
	SpecifierModifierWhole,
	SpecifierModifierLeft,
	SpecifierModifierRight,
	SpecifierModifierHeavy,
	SpecifierModifierLite,
	SpecifierModifierOTS,
}
