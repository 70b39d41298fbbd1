package ordering

import (
	"github.com/shopspring/decimal"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
)

const (
	EventOrderPlaced    = "ordering.order.placed"
	EventOrderConfirmed = "ordering.order.confirmed"
	EventOrderCancelled = "ordering.order.cancelled"
)

// OrderPlacedEvent fires when a new order enters the system.
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	LineItemCount int
	Total         decimal.Decimal
}

func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderPlaced, "Order", o.ID),
		LineItemCount:   len(o.LineItems),
		Total:           o.Total,
	}
}

// OrderConfirmedEvent fires when payment fully covers the order.
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	Total decimal.Decimal
}

func NewOrderConfirmedEvent(o *Order) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderConfirmed, "Order", o.ID),
		Total:           o.Total,
	}
}

// OrderCancelledEvent fires when an order is voided.
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
}

func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderCancelled, "Order", o.ID),
	}
}
