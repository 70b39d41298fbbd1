package shared

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the base interface for all repositories
type Repository[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindAll(ctx context.Context) ([]T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BulkRepository extends Repository with bulk write support.
// Bulk calls are atomic per call at the storage layer.
type BulkRepository[T any] interface {
	Repository[T]
	SaveBatch(ctx context.Context, entities []*T) error
	DeleteBatch(ctx context.Context, ids []uuid.UUID) error
}
