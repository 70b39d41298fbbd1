package menu

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
)

// Expression is a closed sum type for the conditional-enablement
// expression trees attached to products and options. Tree walkers switch
// exhaustively over the concrete variants; an unknown discriminator in
// serialized form is an error, never silently ignored.
type Expression interface {
	isExpression()
}

// ConstLiteral is a boolean literal leaf.
type ConstLiteral struct {
	Value bool
}

// IfElse selects between two subtrees based on a test expression.
type IfElse struct {
	Test  Expression
	True  Expression
	False Expression
}

// LogicalOperator is the operator of a Logical expression.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "AND"
	LogicalOr  LogicalOperator = "OR"
)

// Logical combines two subtrees with a boolean operator.
type Logical struct {
	Operator LogicalOperator
	Left     Expression
	Right    Expression
}

// ModifierPlacement is true when the given option of the given modifier
// type is placed anywhere on the instance being evaluated.
type ModifierPlacement struct {
	ModifierTypeID   uuid.UUID
	ModifierOptionID uuid.UUID
}

// HasAnyOfModifierType is true when the instance has at least one
// placed option of the given modifier type.
type HasAnyOfModifierType struct {
	ModifierTypeID uuid.UUID
}

func (ConstLiteral) isExpression()         {}
func (IfElse) isExpression()               {}
func (Logical) isExpression()              {}
func (ModifierPlacement) isExpression()    {}
func (HasAnyOfModifierType) isExpression() {}

// EvaluateExpression evaluates the tree against a selection of placed
// options grouped by modifier type id.
func EvaluateExpression(expr Expression, selection map[uuid.UUID][]PlacedOption) (bool, error) {
	switch e := expr.(type) {
	case ConstLiteral:
		return e.Value, nil
	case IfElse:
		test, err := EvaluateExpression(e.Test, selection)
		if err != nil {
			return false, err
		}
		if test {
			return EvaluateExpression(e.True, selection)
		}
		return EvaluateExpression(e.False, selection)
	case Logical:
		left, err := EvaluateExpression(e.Left, selection)
		if err != nil {
			return false, err
		}
		right, err := EvaluateExpression(e.Right, selection)
		if err != nil {
			return false, err
		}
		switch e.Operator {
		case LogicalAnd:
			return left && right, nil
		case LogicalOr:
			return left || right, nil
		}
		return false, fmt.Errorf("menu: unknown logical operator %q", e.Operator)
	case ModifierPlacement:
		for _, opt := range selection[e.ModifierTypeID] {
			if opt.OptionID == e.ModifierOptionID && opt.Placement != PlacementNone {
				return true, nil
			}
		}
		return false, nil
	case HasAnyOfModifierType:
		for _, opt := range selection[e.ModifierTypeID] {
			if opt.Placement != PlacementNone {
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("menu: unknown expression variant %T", expr)
}

// ExpressionHasPlacementForModifierType reports whether any placement
// node in the tree pins the modifier type. Has-any nodes do not count.
func ExpressionHasPlacementForModifierType(expr Expression, modifierTypeID uuid.UUID) bool {
	switch e := expr.(type) {
	case ConstLiteral:
		return false
	case IfElse:
		return ExpressionHasPlacementForModifierType(e.Test, modifierTypeID) ||
			ExpressionHasPlacementForModifierType(e.True, modifierTypeID) ||
			ExpressionHasPlacementForModifierType(e.False, modifierTypeID)
	case Logical:
		return ExpressionHasPlacementForModifierType(e.Left, modifierTypeID) ||
			ExpressionHasPlacementForModifierType(e.Right, modifierTypeID)
	case ModifierPlacement:
		return e.ModifierTypeID == modifierTypeID
	case HasAnyOfModifierType:
		return false
	}
	return false
}

// ExpressionHasAnyOfModifierType reports whether any has-any node in
// the tree names the modifier type.
func ExpressionHasAnyOfModifierType(expr Expression, modifierTypeID uuid.UUID) bool {
	switch e := expr.(type) {
	case ConstLiteral:
		return false
	case IfElse:
		return ExpressionHasAnyOfModifierType(e.Test, modifierTypeID) ||
			ExpressionHasAnyOfModifierType(e.True, modifierTypeID) ||
			ExpressionHasAnyOfModifierType(e.False, modifierTypeID)
	case Logical:
		return ExpressionHasAnyOfModifierType(e.Left, modifierTypeID) ||
			ExpressionHasAnyOfModifierType(e.Right, modifierTypeID)
	case ModifierPlacement:
		return false
	case HasAnyOfModifierType:
		return e.ModifierTypeID == modifierTypeID
	}
	return false
}

// ExpressionReferencesModifierType reports whether any subtree pins the
// modifier type, through either a placement or a has-any node.
func ExpressionReferencesModifierType(expr Expression, modifierTypeID uuid.UUID) bool {
	return ExpressionHasPlacementForModifierType(expr, modifierTypeID) ||
		ExpressionHasAnyOfModifierType(expr, modifierTypeID)
}

// ExpressionReferencesOption reports whether any subtree pins the exact
// modifier option through a placement node.
func ExpressionReferencesOption(expr Expression, optionID uuid.UUID) bool {
	switch e := expr.(type) {
	case ConstLiteral:
		return false
	case IfElse:
		return ExpressionReferencesOption(e.Test, optionID) ||
			ExpressionReferencesOption(e.True, optionID) ||
			ExpressionReferencesOption(e.False, optionID)
	case Logical:
		return ExpressionReferencesOption(e.Left, optionID) ||
			ExpressionReferencesOption(e.Right, optionID)
	case ModifierPlacement:
		return e.ModifierOptionID == optionID
	case HasAnyOfModifierType:
		return false
	}
	return false
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

const (
	discriminatorConstLiteral         = "ConstLiteral"
	discriminatorIfElse               = "IfElse"
	discriminatorLogical              = "Logical"
	discriminatorModifierPlacement    = "ModifierPlacement"
	discriminatorHasAnyOfModifierType = "HasAnyOfModifierType"
)

type expressionEnvelope struct {
	Discriminator string          `json:"discriminator"`
	Expr          json.RawMessage `json:"expr"`
}

type constLiteralWire struct {
	Value bool `json:"value"`
}

type ifElseWire struct {
	Test  json.RawMessage `json:"test"`
	True  json.RawMessage `json:"true_branch"`
	False json.RawMessage `json:"false_branch"`
}

type logicalWire struct {
	Operator LogicalOperator `json:"operator"`
	Left     json.RawMessage `json:"operand_l"`
	Right    json.RawMessage `json:"operand_r"`
}

type modifierPlacementWire struct {
	ModifierTypeID   uuid.UUID `json:"mtid"`
	ModifierOptionID uuid.UUID `json:"moid"`
}

type hasAnyWire struct {
	ModifierTypeID uuid.UUID `json:"mtid"`
}

// MarshalExpression serializes the tree with per-node discriminators.
func MarshalExpression(expr Expression) ([]byte, error) {
	var (
		discriminator string
		payload       any
	)
	switch e := expr.(type) {
	case ConstLiteral:
		discriminator = discriminatorConstLiteral
		payload = constLiteralWire{Value: e.Value}
	case IfElse:
		test, err := MarshalExpression(e.Test)
		if err != nil {
			return nil, err
		}
		trueBranch, err := MarshalExpression(e.True)
		if err != nil {
			return nil, err
		}
		falseBranch, err := MarshalExpression(e.False)
		if err != nil {
			return nil, err
		}
		discriminator = discriminatorIfElse
		payload = ifElseWire{Test: test, True: trueBranch, False: falseBranch}
	case Logical:
		left, err := MarshalExpression(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := MarshalExpression(e.Right)
		if err != nil {
			return nil, err
		}
		discriminator = discriminatorLogical
		payload = logicalWire{Operator: e.Operator, Left: left, Right: right}
	case ModifierPlacement:
		discriminator = discriminatorModifierPlacement
		payload = modifierPlacementWire{ModifierTypeID: e.ModifierTypeID, ModifierOptionID: e.ModifierOptionID}
	case HasAnyOfModifierType:
		discriminator = discriminatorHasAnyOfModifierType
		payload = hasAnyWire{ModifierTypeID: e.ModifierTypeID}
	default:
		return nil, fmt.Errorf("menu: cannot marshal unknown expression variant %T", expr)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(expressionEnvelope{Discriminator: discriminator, Expr: raw})
}

// UnmarshalExpression parses a discriminator-tagged expression tree.
func UnmarshalExpression(data []byte) (Expression, error) {
	var envelope expressionEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("menu: malformed expression: %w", err)
	}
	switch envelope.Discriminator {
	case discriminatorConstLiteral:
		var wire constLiteralWire
		if err := json.Unmarshal(envelope.Expr, &wire); err != nil {
			return nil, err
		}
		return ConstLiteral{Value: wire.Value}, nil
	case discriminatorIfElse:
		var wire ifElseWire
		if err := json.Unmarshal(envelope.Expr, &wire); err != nil {
			return nil, err
		}
		test, err := UnmarshalExpression(wire.Test)
		if err != nil {
			return nil, err
		}
		trueBranch, err := UnmarshalExpression(wire.True)
		if err != nil {
			return nil, err
		}
		falseBranch, err := UnmarshalExpression(wire.False)
		if err != nil {
			return nil, err
		}
		return IfElse{Test: test, True: trueBranch, False: falseBranch}, nil
	case discriminatorLogical:
		var wire logicalWire
		if err := json.Unmarshal(envelope.Expr, &wire); err != nil {
			return nil, err
		}
		if wire.Operator != LogicalAnd && wire.Operator != LogicalOr {
			return nil, fmt.Errorf("menu: unknown logical operator %q", wire.Operator)
		}
		left, err := UnmarshalExpression(wire.Left)
		if err != nil {
			return nil, err
		}
		right, err := UnmarshalExpression(wire.Right)
		if err != nil {
			return nil, err
		}
		return Logical{Operator: wire.Operator, Left: left, Right: right}, nil
	case discriminatorModifierPlacement:
		var wire modifierPlacementWire
		if err := json.Unmarshal(envelope.Expr, &wire); err != nil {
			return nil, err
		}
		return ModifierPlacement{ModifierTypeID: wire.ModifierTypeID, ModifierOptionID: wire.ModifierOptionID}, nil
	case discriminatorHasAnyOfModifierType:
		var wire hasAnyWire
		if err := json.Unmarshal(envelope.Expr, &wire); err != nil {
			return nil, err
		}
		return HasAnyOfModifierType{ModifierTypeID: wire.ModifierTypeID}, nil
	}
	return nil, fmt.Errorf("menu: unknown expression discriminator %q", envelope.Discriminator)
}

// ---------------------------------------------------------------------------
// ProductInstanceFunction
// ---------------------------------------------------------------------------

// ProductInstanceFunction names an expression tree used to conditionally
// enable options and products.
type ProductInstanceFunction struct {
	shared.BaseAggregateRoot
	Name       string
	Expression Expression
}

// NewProductInstanceFunction creates a named enablement function.
func NewProductInstanceFunction(name string, expr Expression) (*ProductInstanceFunction, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Instance function name cannot be empty")
	}
	if expr == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Instance function requires an expression")
	}
	fn := &ProductInstanceFunction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Expression:        expr,
	}
	fn.AddDomainEvent(NewInstanceFunctionCreatedEvent(fn))
	return fn, nil
}

// Update replaces the name and expression.
func (fn *ProductInstanceFunction) Update(name string, expr Expression) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Instance function name cannot be empty")
	}
	if expr == nil {
		return shared.NewDomainError("INVALID_INPUT", "Instance function requires an expression")
	}
	fn.Name = name
	fn.Expression = expr
	fn.UpdatedAt = time.Now()
	fn.IncrementVersion()
	fn.AddDomainEvent(NewInstanceFunctionUpdatedEvent(fn))
	return nil
}

// ReferencesModifierType reports whether the function's tree references
// the modifier type through a placement or has-any node.
func (fn *ProductInstanceFunction) ReferencesModifierType(modifierTypeID uuid.UUID) bool {
	return ExpressionReferencesModifierType(fn.Expression, modifierTypeID)
}

// ReferencesOption reports whether the function's tree pins the option.
func (fn *ProductInstanceFunction) ReferencesOption(optionID uuid.UUID) bool {
	return ExpressionReferencesOption(fn.Expression, optionID)
}
