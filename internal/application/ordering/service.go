package ordering

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/menu"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/ordering"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/infrastructure/pos"
)

// CatalogProvider exposes the current catalog snapshot for line item
// validation and pricing.
type CatalogProvider interface {
	Catalog() *menu.Catalog
}

// PaymentClient is the slice of the point-of-sale payments API the
// order service needs.
type PaymentClient interface {
	CreatePayment(ctx context.Context, req pos.CreatePaymentRequest) (*pos.Payment, error)
	CancelPayment(ctx context.Context, paymentID string) (*pos.Payment, error)
}

// Config holds order intake settings.
type Config struct {
	// TaxRate is the flat sales tax rate applied to the subtotal.
	TaxRate decimal.Decimal
	// LocationID routes payments to the store's processor location.
	LocationID string
}

// OrderService handles order intake and payment capture against the
// point-of-sale processor.
type OrderService struct {
	orders   ordering.OrderRepository
	catalog  CatalogProvider
	payments PaymentClient
	bus      shared.EventPublisher
	logger   *zap.Logger
	cfg      Config
}

// NewOrderService wires the order intake service.
func NewOrderService(
	orders ordering.OrderRepository,
	catalog CatalogProvider,
	payments PaymentClient,
	bus shared.EventPublisher,
	logger *zap.Logger,
	cfg Config,
) *OrderService {
	return &OrderService{
		orders:   orders,
		catalog:  catalog,
		payments: payments,
		bus:      bus,
		logger:   logger,
		cfg:      cfg,
	}
}

// LineItemRequest is one requested product instance and quantity.
type LineItemRequest struct {
	ProductInstanceID uuid.UUID
	Quantity          int
}

// PlaceOrder validates every line item against the current catalog
// snapshot, captures prices, and persists the open order.
func (s *OrderService) PlaceOrder(ctx context.Context, items []LineItemRequest) (*ordering.Order, error) {
	catalog := s.catalog.Catalog()
	lineItems := make([]ordering.LineItem, 0, len(items))
	for _, item := range items {
		inst, ok := catalog.ProductInstances[item.ProductInstanceID]
		if !ok {
			return nil, &menu.ValidationError{Field: "product_instance_id", Detail: "product instance " + item.ProductInstanceID.String() + " does not exist"}
		}
		entry, ok := catalog.Products[inst.ProductID]
		if !ok {
			return nil, &menu.ValidationError{Field: "product_instance_id", Detail: "product for instance " + item.ProductInstanceID.String() + " missing from catalog"}
		}
		lineItems = append(lineItems, ordering.LineItem{
			ProductInstanceID: inst.ID,
			Name:              inst.DisplayName,
			Quantity:          item.Quantity,
			UnitPrice:         entry.Product.Price,
		})
	}

	order, err := ordering.NewOrder(lineItems, s.cfg.TaxRate)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)
	return order, nil
}

// CapturePayment charges the given source for the order's outstanding
// balance plus tip, then records the processor payment on the order.
func (s *OrderService) CapturePayment(ctx context.Context, orderID uuid.UUID, sourceID string, tip decimal.Decimal) (*ordering.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	balance := order.Balance()
	if !balance.IsPositive() && !tip.IsPositive() {
		return nil, shared.NewDomainError("NOTHING_TO_CAPTURE", "Order carries no balance")
	}
	if s.payments == nil {
		return nil, shared.NewDomainError("PAYMENTS_DISABLED", "No payment processor is configured")
	}

	payment, err := s.payments.CreatePayment(ctx, pos.CreatePaymentRequest{
		SourceID:   sourceID,
		LocationID: s.cfg.LocationID,
		AmountMoney: pos.Money{
			Amount:   balance.Shift(2).Round(0).IntPart(),
			Currency: "USD",
		},
		TipMoney: &pos.Money{
			Amount:   tip.Shift(2).Round(0).IntPart(),
			Currency: "USD",
		},
		Autocomplete: true,
	})
	if err != nil {
		return nil, err
	}

	if err := order.AttachPayment(ordering.Payment{
		ID:          uuid.New(),
		ProcessorID: payment.ID,
		Status:      ordering.PaymentStatus(payment.Status),
		Amount:      balance,
		TipAmount:   tip,
		CreatedAt:   time.Now(),
	}); err != nil {
		return nil, err
	}
	if !order.Balance().IsPositive() {
		if err := order.Confirm(); err != nil {
			return nil, err
		}
	}
	if err := s.orders.Save(ctx, order); err != nil {
		// The processor charge went through; local state is behind.
		s.logger.Error("order desync: payment captured but order persistence failed",
			zap.String("order_id", orderID.String()),
			zap.String("payment_id", payment.ID),
			zap.Error(err),
		)
		return nil, err
	}
	s.publishEvents(ctx, order)
	return order, nil
}

// CancelOrder voids the order and attempts to void its approved
// processor payments. A failed remote void is logged and skipped; the
// local cancellation still applies.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	for _, p := range order.Payments {
		if p.Status != ordering.PaymentApproved || s.payments == nil {
			continue
		}
		cancelled, err := s.payments.CancelPayment(ctx, p.ProcessorID)
		if err != nil {
			s.logger.Warn("payment void failed, continuing with local cancellation",
				zap.String("order_id", orderID.String()),
				zap.String("payment_id", p.ProcessorID),
				zap.Error(err),
			)
			continue
		}
		order.MarkPaymentStatus(p.ProcessorID, ordering.PaymentStatus(cancelled.Status))
	}
	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)
	return order, nil
}

// CompleteOrder closes a confirmed order after fulfillment.
func (s *OrderService) CompleteOrder(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Complete(); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder fetches a single order.
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}

// OpenOrders returns every order still awaiting confirmation.
func (s *OrderService) OpenOrders(ctx context.Context) ([]ordering.Order, error) {
	return s.orders.FindByStatus(ctx, ordering.StatusOpen)
}

func (s *OrderService) publishEvents(ctx context.Context, order *ordering.Order) {
	if s.bus == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.bus.Publish(ctx, events...); err != nil {
		s.logger.Warn("order event publish failed", zap.Error(err))
	}
	order.ClearDomainEvents()
}
