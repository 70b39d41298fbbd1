package menu

import "fmt"

// OptionPlacement describes where on the product an option is applied.
type OptionPlacement string

const (
	PlacementNone  OptionPlacement = "NONE"
	PlacementLeft  OptionPlacement = "LEFT"
	PlacementRight OptionPlacement = "RIGHT"
	PlacementWhole OptionPlacement = "WHOLE"
)

// IsValid returns true for a known placement value
func (p OptionPlacement) IsValid() bool {
	switch p {
	case PlacementNone, PlacementLeft, PlacementRight, PlacementWhole:
		return true
	}
	return false
}

// OptionQualifier describes the intensity/preparation qualifier of a
// placed option.
type OptionQualifier string

const (
	QualifierRegular OptionQualifier = "REGULAR"
	QualifierLite    OptionQualifier = "LITE"
	QualifierHeavy   OptionQualifier = "HEAVY"
	QualifierOTS     OptionQualifier = "OTS"
)

// IsValid returns true for a known qualifier value
func (q OptionQualifier) IsValid() bool {
	switch q {
	case QualifierRegular, QualifierLite, QualifierHeavy, QualifierOTS:
		return true
	}
	return false
}

// SpecifierForPlacement returns the external-id specifier used for the
// modifier variant representing the given placement and qualifier pair.
func SpecifierForPlacement(placement OptionPlacement, qualifier OptionQualifier) (Specifier, error) {
	switch qualifier {
	case QualifierHeavy:
		return SpecifierModifierHeavy, nil
	case QualifierLite:
		return SpecifierModifierLite, nil
	case QualifierOTS:
		return SpecifierModifierOTS, nil
	case QualifierRegular:
		switch placement {
		case PlacementLeft:
			return SpecifierModifierLeft, nil
		case PlacementRight:
			return SpecifierModifierRight, nil
		case PlacementWhole:
			return SpecifierModifierWhole, nil
		case PlacementNone:
			return "", fmt.Errorf("menu: no modifier specifier for unplaced option")
		}
	}
	return "", fmt.Errorf("menu: no modifier specifier for placement %q qualifier %q", placement, qualifier)
}
