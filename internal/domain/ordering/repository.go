package ordering

import (
	"context"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
)

// OrderRepository persists orders.
type OrderRepository interface {
	shared.Repository[Order]
	FindByStatus(ctx context.Context, status OrderStatus) ([]Order, error)
}
