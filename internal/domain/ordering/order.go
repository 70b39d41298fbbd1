package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	StatusOpen      OrderStatus = "OPEN"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// PaymentStatus mirrors the processor's payment lifecycle.
type PaymentStatus string

const (
	PaymentApproved  PaymentStatus = "APPROVED"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentCancelled PaymentStatus = "CANCELED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// LineItem is one ordered product instance with its captured price.
// Prices are copied at intake so later menu edits never reprice an
// existing order.
type LineItem struct {
	ProductInstanceID uuid.UUID
	Name              string
	Quantity          int
	UnitPrice         decimal.Decimal
}

// Payment is one processor payment attached to the order.
type Payment struct {
	ID          uuid.UUID
	ProcessorID string
	Status      PaymentStatus
	Amount      decimal.Decimal
	TipAmount   decimal.Decimal
	CreatedAt   time.Time
}

// Order is a narrow order intake aggregate: line items referencing
// catalog product instances, totals, and processor payments.
type Order struct {
	shared.BaseAggregateRoot
	Status    OrderStatus
	LineItems []LineItem
	TaxRate   decimal.Decimal
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Tip       decimal.Decimal
	Total     decimal.Decimal
	Payments  []Payment
	PlacedAt  time.Time
}

// NewOrder creates an open order and computes its totals from the
// captured line item prices.
func NewOrder(lineItems []LineItem, taxRate decimal.Decimal) (*Order, error) {
	if len(lineItems) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one line item")
	}
	for _, li := range lineItems {
		if li.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Line item quantity must be positive")
		}
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            StatusOpen,
		LineItems:         lineItems,
		TaxRate:           taxRate,
		PlacedAt:          time.Now(),
	}
	o.recalculate()
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

func (o *Order) recalculate() {
	subtotal := decimal.Zero
	for _, li := range o.LineItems {
		subtotal = subtotal.Add(li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity))))
	}
	o.Subtotal = subtotal
	o.Tax = subtotal.Mul(o.TaxRate).Round(2)
	o.Total = o.Subtotal.Add(o.Tax).Add(o.Tip)
}

// Balance returns the amount not yet covered by non-failed payments.
func (o *Order) Balance() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range o.Payments {
		if p.Status == PaymentApproved || p.Status == PaymentCompleted {
			paid = paid.Add(p.Amount).Add(p.TipAmount)
		}
	}
	return o.Total.Sub(paid)
}

// AttachPayment records a processor payment and its tip.
func (o *Order) AttachPayment(p Payment) error {
	if o.Status == StatusCancelled || o.Status == StatusCompleted {
		return shared.ErrInvalidState
	}
	o.Payments = append(o.Payments, p)
	o.Tip = o.Tip.Add(p.TipAmount)
	o.recalculate()
	o.Touch()
	return nil
}

// Confirm moves an open order to confirmed once it carries no balance.
func (o *Order) Confirm() error {
	if o.Status != StatusOpen {
		return shared.ErrInvalidState
	}
	if o.Balance().IsPositive() {
		return shared.NewDomainError("UNPAID_BALANCE", "Order still carries an unpaid balance")
	}
	o.Status = StatusConfirmed
	o.Touch()
	o.AddDomainEvent(NewOrderConfirmedEvent(o))
	return nil
}

// Complete closes a confirmed order.
func (o *Order) Complete() error {
	if o.Status != StatusConfirmed {
		return shared.ErrInvalidState
	}
	o.Status = StatusCompleted
	o.Touch()
	return nil
}

// Cancel voids an order that has not completed.
func (o *Order) Cancel() error {
	if o.Status == StatusCompleted {
		return shared.ErrInvalidState
	}
	if o.Status == StatusCancelled {
		return nil
	}
	o.Status = StatusCancelled
	o.Touch()
	o.AddDomainEvent(NewOrderCancelledEvent(o))
	return nil
}

// MarkPaymentStatus updates the recorded status of one payment by its
// processor id.
func (o *Order) MarkPaymentStatus(processorID string, status PaymentStatus) bool {
	for i := range o.Payments {
		if o.Payments[i].ProcessorID == processorID {
			o.Payments[i].Status = status
			o.Touch()
			return true
		}
	}
	return false
}
