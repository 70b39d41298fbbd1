package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/ordering"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
)

func TestGormOrderRepository_FindByID(t *testing.T) {
	t.Run("finds existing order with line items", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db)

		orderID := uuid.New()
		instanceID := uuid.New()
		now := time.Now()

		lineItemsJSON := `[{"ProductInstanceID":"` + instanceID.String() +
			`","Name":"Classic Pie","Quantity":2,"UnitPrice":"21.5"}]`

		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "version", "status", "line_items", "tax_rate", "subtotal", "tax", "tip", "total", "payments", "placed_at"}).
			AddRow(orderID, now, now, 1, "OPEN", lineItemsJSON,
				decimal.RequireFromString("0.1025"),
				decimal.RequireFromString("43.00"),
				decimal.RequireFromString("4.41"),
				decimal.Zero,
				decimal.RequireFromString("47.41"),
				`[]`, now)

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnRows(rows)

		order, err := repo.FindByID(context.Background(), orderID)

		require.NoError(t, err)
		assert.Equal(t, orderID, order.ID)
		assert.Equal(t, ordering.StatusOpen, order.Status)
		require.Len(t, order.LineItems, 1)
		assert.Equal(t, instanceID, order.LineItems[0].ProductInstanceID)
		assert.Equal(t, 2, order.LineItems[0].Quantity)
		assert.True(t, order.LineItems[0].UnitPrice.Equal(decimal.RequireFromString("21.50")))
		assert.True(t, order.Total.Equal(decimal.RequireFromString("47.41")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to domain not found", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db)

		orderID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		order, err := repo.FindByID(context.Background(), orderID)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindByStatus(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormOrderRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "version", "status", "placed_at"}).
		AddRow(uuid.New(), now, now, 1, "OPEN", now).
		AddRow(uuid.New(), now, now, 1, "OPEN", now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE status = \$1 ORDER BY placed_at DESC`).
		WithArgs("OPEN").
		WillReturnRows(rows)

	orders, err := repo.FindByStatus(context.Background(), ordering.StatusOpen)

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, ordering.StatusOpen, orders[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_Save(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormOrderRepository(db)

	order, err := ordering.NewOrder([]ordering.LineItem{
		{ProductInstanceID: uuid.New(), Name: "Soda", Quantity: 1, UnitPrice: decimal.RequireFromString("6.25")},
	}, decimal.RequireFromString("0.1025"))
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE "orders" SET .* WHERE "id" = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Save(context.Background(), order)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_Delete(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormOrderRepository(db)

	orderID := uuid.New()
	mock.ExpectExec(`DELETE FROM "orders" WHERE id = \$1`).
		WithArgs(orderID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), orderID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
