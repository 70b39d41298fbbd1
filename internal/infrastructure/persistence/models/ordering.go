package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/ordering"
)

// OrderModel is the persistence model for the Order aggregate.
type OrderModel struct {
	AggregateModel
	Status        ordering.OrderStatus `gorm:"type:varchar(20);not null;index"`
	LineItemsJSON string               `gorm:"type:jsonb;column:line_items"`
	TaxRate       decimal.Decimal      `gorm:"type:decimal(6,4);not null"`
	Subtotal      decimal.Decimal      `gorm:"type:decimal(10,2);not null"`
	Tax           decimal.Decimal      `gorm:"type:decimal(10,2);not null"`
	Tip           decimal.Decimal      `gorm:"type:decimal(10,2);not null"`
	Total         decimal.Decimal      `gorm:"type:decimal(10,2);not null"`
	PaymentsJSON  string               `gorm:"type:jsonb;column:payments"`
	PlacedAt      time.Time            `gorm:"not null;index"`
}

func (OrderModel) TableName() string { return "orders" }

func (m *OrderModel) ToDomain() (*ordering.Order, error) {
	lineItems, err := unmarshalJSON[[]ordering.LineItem]("line_items", m.LineItemsJSON)
	if err != nil {
		return nil, err
	}
	payments, err := unmarshalJSON[[]ordering.Payment]("payments", m.PaymentsJSON)
	if err != nil {
		return nil, err
	}
	o := &ordering.Order{
		Status:    m.Status,
		LineItems: lineItems,
		TaxRate:   m.TaxRate,
		Subtotal:  m.Subtotal,
		Tax:       m.Tax,
		Tip:       m.Tip,
		Total:     m.Total,
		Payments:  payments,
		PlacedAt:  m.PlacedAt,
	}
	m.PopulateAggregateRoot(&o.BaseAggregateRoot)
	return o, nil
}

func (m *OrderModel) FromDomain(o *ordering.Order) error {
	lineItems, err := marshalJSON("line_items", o.LineItems)
	if err != nil {
		return err
	}
	payments, err := marshalJSON("payments", o.Payments)
	if err != nil {
		return err
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Status = o.Status
	m.LineItemsJSON = lineItems
	m.TaxRate = o.TaxRate
	m.Subtotal = o.Subtotal
	m.Tax = o.Tax
	m.Tip = o.Tip
	m.Total = o.Total
	m.PaymentsJSON = payments
	m.PlacedAt = o.PlacedAt
	return nil
}
