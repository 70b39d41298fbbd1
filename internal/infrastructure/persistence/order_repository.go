package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/ordering"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements ordering.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

func (r *GormOrderRepository) FindAll(ctx context.Context) ([]ordering.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).Order("placed_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return ordersToDomain(rows)
}

func (r *GormOrderRepository) FindByStatus(ctx context.Context, status ordering.OrderStatus) ([]ordering.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("placed_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return ordersToDomain(rows)
}

func ordersToDomain(rows []models.OrderModel) ([]ordering.Order, error) {
	orders := make([]ordering.Order, 0, len(rows))
	for i := range rows {
		o, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	var model models.OrderModel
	if err := model.FromDomain(order); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.OrderModel{}, "id = ?", id).Error
}
