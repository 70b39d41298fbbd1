package menu

import (
	"context"

	"github.com/google/uuid"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
)

// CategoryRepository persists the category collection
type CategoryRepository interface {
	shared.Repository[Category]
}

// ModifierTypeRepository persists the modifier type collection
type ModifierTypeRepository interface {
	shared.Repository[ModifierType]
}

// ModifierOptionRepository persists the modifier option collection
type ModifierOptionRepository interface {
	shared.BulkRepository[ModifierOption]
	FindByModifierType(ctx context.Context, modifierTypeID uuid.UUID) ([]ModifierOption, error)
}

// ProductRepository persists the product collection
type ProductRepository interface {
	shared.BulkRepository[Product]
}

// ProductInstanceRepository persists the product instance collection
type ProductInstanceRepository interface {
	shared.BulkRepository[ProductInstance]
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductInstance, error)
}

// InstanceFunctionRepository persists the instance function collection
type InstanceFunctionRepository interface {
	shared.Repository[ProductInstanceFunction]
	DeleteBatch(ctx context.Context, ids []uuid.UUID) error
}

// PrinterGroupRepository persists the printer group collection
type PrinterGroupRepository interface {
	shared.Repository[PrinterGroup]
}
