package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/menu"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
)

// newMockGormDB creates a GORM handle backed by a mocked SQL connection
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormCategoryRepository_FindByID(t *testing.T) {
	t.Run("finds existing category", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCategoryRepository(db)

		categoryID := uuid.New()
		parentID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "version", "name", "ordinal", "parent_id", "external_ids"}).
			AddRow(categoryID, now, now, 3, "Pizzas", 2, parentID, `[{"key":"CATEGORY","value":"SQ_CAT_1"}]`)

		mock.ExpectQuery(`SELECT \* FROM "menu_categories" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(categoryID, 1).
			WillReturnRows(rows)

		category, err := repo.FindByID(context.Background(), categoryID)

		require.NoError(t, err)
		assert.Equal(t, categoryID, category.ID)
		assert.Equal(t, "Pizzas", category.Name)
		assert.Equal(t, 3, category.Version)
		require.NotNil(t, category.ParentID)
		assert.Equal(t, parentID, *category.ParentID)
		require.Len(t, category.ExternalIDs, 1)
		assert.Equal(t, "SQ_CAT_1", category.ExternalIDs[0].Value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to domain not found", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCategoryRepository(db)

		categoryID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "menu_categories" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(categoryID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		category, err := repo.FindByID(context.Background(), categoryID)

		assert.Nil(t, category)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects corrupt external ids column", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCategoryRepository(db)

		// A truncated jsonb payload must surface as an error; decoding
		// it to empty external ids would read as never-pushed and
		// re-create the remote object on the next sync.
		categoryID := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "version", "name", "ordinal", "external_ids"}).
			AddRow(categoryID, now, now, 1, "Pizzas", 0, `[{"key":"CATEGORY","value":`)

		mock.ExpectQuery(`SELECT \* FROM "menu_categories" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(categoryID, 1).
			WillReturnRows(rows)

		category, err := repo.FindByID(context.Background(), categoryID)

		assert.Nil(t, category)
		require.Error(t, err)
		assert.ErrorContains(t, err, "corrupt external_ids column")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCategoryRepository_FindAll(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormCategoryRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "version", "name", "ordinal"}).
		AddRow(uuid.New(), now, now, 1, "Starters", 0).
		AddRow(uuid.New(), now, now, 1, "Mains", 1)

	mock.ExpectQuery(`SELECT \* FROM "menu_categories" ORDER BY ordinal ASC, name ASC`).
		WillReturnRows(rows)

	categories, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Starters", categories[0].Name)
	assert.Equal(t, "Mains", categories[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCategoryRepository_Save(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormCategoryRepository(db)

	category, err := menu.NewCategory("Desserts", 0, nil)
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE "menu_categories" SET .* WHERE "id" = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Save(context.Background(), category)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCategoryRepository_Delete(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormCategoryRepository(db)

	categoryID := uuid.New()
	mock.ExpectExec(`DELETE FROM "menu_categories" WHERE id = \$1`).
		WithArgs(categoryID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), categoryID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormModifierOptionRepository_FindByModifierType(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormModifierOptionRepository(db)

	modifierTypeID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "version", "modifier_type_id", "display_name", "price", "ordinal", "metadata"}).
		AddRow(uuid.New(), now, now, 1, modifierTypeID, "Mozzarella", decimal.RequireFromString("2.50"), 0, `{"CanSplit":true}`).
		AddRow(uuid.New(), now, now, 1, modifierTypeID, "Pepperoni", decimal.RequireFromString("3.00"), 1, `{}`)

	mock.ExpectQuery(`SELECT \* FROM "menu_modifier_options" WHERE modifier_type_id = \$1 ORDER BY ordinal ASC, display_name ASC`).
		WithArgs(modifierTypeID).
		WillReturnRows(rows)

	options, err := repo.FindByModifierType(context.Background(), modifierTypeID)

	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, "Mozzarella", options[0].DisplayName)
	assert.True(t, options[0].Price.Equal(decimal.RequireFromString("2.50")))
	assert.True(t, options[0].Metadata.CanSplit)
	assert.Equal(t, modifierTypeID, options[1].ModifierTypeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormModifierOptionRepository_DeleteBatch(t *testing.T) {
	t.Run("deletes ids in a single statement", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormModifierOptionRepository(db)

		ids := []uuid.UUID{uuid.New(), uuid.New()}
		mock.ExpectExec(`DELETE FROM "menu_modifier_options" WHERE id IN \(\$1,\$2\)`).
			WithArgs(ids[0], ids[1]).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := repo.DeleteBatch(context.Background(), ids)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty input issues no SQL", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormModifierOptionRepository(db)

		err := repo.DeleteBatch(context.Background(), nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductInstanceRepository_FindByProduct(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormProductInstanceRepository(db)

	productID := uuid.New()
	modifierTypeID := uuid.New()
	optionID := uuid.New()
	now := time.Now()

	modifiersJSON := `[{"ModifierTypeID":"` + modifierTypeID.String() +
		`","Options":[{"OptionID":"` + optionID.String() +
		`","Placement":"WHOLE","Qualifier":"REGULAR"}]}]`

	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "version", "product_id", "display_name", "shortcode", "ordinal", "is_base", "modifiers"}).
		AddRow(uuid.New(), now, now, 1, productID, "Classic Pie", "pie", 0, true, modifiersJSON)

	mock.ExpectQuery(`SELECT \* FROM "menu_product_instances" WHERE product_id = \$1 ORDER BY ordinal ASC`).
		WithArgs(productID).
		WillReturnRows(rows)

	instances, err := repo.FindByProduct(context.Background(), productID)

	require.NoError(t, err)
	require.Len(t, instances, 1)
	inst := instances[0]
	assert.Equal(t, productID, inst.ProductID)
	assert.True(t, inst.IsBase)
	require.Len(t, inst.Modifiers, 1)
	assert.Equal(t, modifierTypeID, inst.Modifiers[0].ModifierTypeID)
	require.Len(t, inst.Modifiers[0].Options, 1)
	assert.Equal(t, optionID, inst.Modifiers[0].Options[0].OptionID)
	assert.Equal(t, menu.PlacementWhole, inst.Modifiers[0].Options[0].Placement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInstanceFunctionRepository_FindByID(t *testing.T) {
	t.Run("decodes the stored expression tree", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormInstanceFunctionRepository(db)

		fnID := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "version", "name", "expression"}).
			AddRow(fnID, now, now, 1, "always-on", `{"discriminator":"ConstLiteral","expr":{"value":true}}`)

		mock.ExpectQuery(`SELECT \* FROM "menu_instance_functions" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(fnID, 1).
			WillReturnRows(rows)

		fn, err := repo.FindByID(context.Background(), fnID)

		require.NoError(t, err)
		assert.Equal(t, "always-on", fn.Name)
		assert.Equal(t, menu.ConstLiteral{Value: true}, fn.Expression)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("surfaces a corrupt expression", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormInstanceFunctionRepository(db)

		fnID := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "version", "name", "expression"}).
			AddRow(fnID, now, now, 1, "broken", `{"discriminator":"Bogus","expr":{}}`)

		mock.ExpectQuery(`SELECT \* FROM "menu_instance_functions" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(fnID, 1).
			WillReturnRows(rows)

		fn, err := repo.FindByID(context.Background(), fnID)

		assert.Nil(t, fn)
		assert.ErrorContains(t, err, "unknown expression discriminator")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPrinterGroupRepository_FindAll(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormPrinterGroupRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "version", "name", "single_item_per_ticket", "is_expo"}).
		AddRow(uuid.New(), now, now, 1, "Expo", false, true).
		AddRow(uuid.New(), now, now, 1, "Pizza Oven", true, false)

	mock.ExpectQuery(`SELECT \* FROM "menu_printer_groups" ORDER BY name ASC`).
		WillReturnRows(rows)

	groups, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.True(t, groups[0].IsExpo)
	assert.True(t, groups[1].SingleItemPerTicket)
	assert.NoError(t, mock.ExpectationsWereMet())
}
