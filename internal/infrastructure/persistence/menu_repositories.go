package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/menu"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/infrastructure/persistence/models"
)

// GormCategoryRepository implements menu.CategoryRepository using GORM.
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*menu.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]menu.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).Order("ordinal ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]menu.Category, 0, len(rows))
	for i := range rows {
		c, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, nil
}

func (r *GormCategoryRepository) Save(ctx context.Context, category *menu.Category) error {
	var model models.CategoryModel
	if err := model.FromDomain(category); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CategoryModel{}, "id = ?", id).Error
}

// GormModifierTypeRepository implements menu.ModifierTypeRepository using GORM.
type GormModifierTypeRepository struct {
	db *gorm.DB
}

// NewGormModifierTypeRepository creates a new GormModifierTypeRepository
func NewGormModifierTypeRepository(db *gorm.DB) *GormModifierTypeRepository {
	return &GormModifierTypeRepository{db: db}
}

func (r *GormModifierTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*menu.ModifierType, error) {
	var model models.ModifierTypeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

func (r *GormModifierTypeRepository) FindAll(ctx context.Context) ([]menu.ModifierType, error) {
	var rows []models.ModifierTypeModel
	if err := r.db.WithContext(ctx).Order("ordinal ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	types := make([]menu.ModifierType, 0, len(rows))
	for i := range rows {
		mt, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		types = append(types, *mt)
	}
	return types, nil
}

func (r *GormModifierTypeRepository) Save(ctx context.Context, mt *menu.ModifierType) error {
	var model models.ModifierTypeModel
	if err := model.FromDomain(mt); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *GormModifierTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ModifierTypeModel{}, "id = ?", id).Error
}

// GormModifierOptionRepository implements menu.ModifierOptionRepository using GORM.
type GormModifierOptionRepository struct {
	db *gorm.DB
}

// NewGormModifierOptionRepository creates a new GormModifierOptionRepository
func NewGormModifierOptionRepository(db *gorm.DB) *GormModifierOptionRepository {
	return &GormModifierOptionRepository{db: db}
}

func (r *GormModifierOptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*menu.ModifierOption, error) {
	var model models.ModifierOptionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

func (r *GormModifierOptionRepository) FindAll(ctx context.Context) ([]menu.ModifierOption, error) {
	var rows []models.ModifierOptionModel
	if err := r.db.WithContext(ctx).Order("ordinal ASC, display_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return modifierOptionsToDomain(rows)
}

func (r *GormModifierOptionRepository) FindByModifierType(ctx context.Context, modifierTypeID uuid.UUID) ([]menu.ModifierOption, error) {
	var rows []models.ModifierOptionModel
	if err := r.db.WithContext(ctx).
		Where("modifier_type_id = ?", modifierTypeID).
		Order("ordinal ASC, display_name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return modifierOptionsToDomain(rows)
}

func modifierOptionsToDomain(rows []models.ModifierOptionModel) ([]menu.ModifierOption, error) {
	options := make([]menu.ModifierOption, 0, len(rows))
	for i := range rows {
		mo, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		options = append(options, *mo)
	}
	return options, nil
}

func (r *GormModifierOptionRepository) Save(ctx context.Context, option *menu.ModifierOption) error {
	var model models.ModifierOptionModel
	if err := model.FromDomain(option); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *GormModifierOptionRepository) SaveBatch(ctx context.Context, options []*menu.ModifierOption) error {
	if len(options) == 0 {
		return nil
	}
	rows := make([]models.ModifierOptionModel, len(options))
	for i, option := range options {
		if err := rows[i].FromDomain(option); err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Save(&rows).Error
	})
}

func (r *GormModifierOptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ModifierOptionModel{}, "id = ?", id).Error
}

func (r *GormModifierOptionRepository) DeleteBatch(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.ModifierOptionModel{}, "id IN ?", ids).Error
}

// GormProductRepository implements menu.ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*menu.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

func (r *GormProductRepository) FindAll(ctx context.Context) ([]menu.Product, error) {
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]menu.Product, 0, len(rows))
	for i := range rows {
		p, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

func (r *GormProductRepository) Save(ctx context.Context, product *menu.Product) error {
	var model models.ProductModel
	if err := model.FromDomain(product); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *GormProductRepository) SaveBatch(ctx context.Context, products []*menu.Product) error {
	if len(products) == 0 {
		return nil
	}
	rows := make([]models.ProductModel, len(products))
	for i, product := range products {
		if err := rows[i].FromDomain(product); err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Save(&rows).Error
	})
}

func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id).Error
}

func (r *GormProductRepository) DeleteBatch(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id IN ?", ids).Error
}

// GormProductInstanceRepository implements menu.ProductInstanceRepository using GORM.
type GormProductInstanceRepository struct {
	db *gorm.DB
}

// NewGormProductInstanceRepository creates a new GormProductInstanceRepository
func NewGormProductInstanceRepository(db *gorm.DB) *GormProductInstanceRepository {
	return &GormProductInstanceRepository{db: db}
}

func (r *GormProductInstanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*menu.ProductInstance, error) {
	var model models.ProductInstanceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

func (r *GormProductInstanceRepository) FindAll(ctx context.Context) ([]menu.ProductInstance, error) {
	var rows []models.ProductInstanceModel
	if err := r.db.WithContext(ctx).Order("ordinal ASC, display_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return productInstancesToDomain(rows)
}

func (r *GormProductInstanceRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]menu.ProductInstance, error) {
	var rows []models.ProductInstanceModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("ordinal ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return productInstancesToDomain(rows)
}

func productInstancesToDomain(rows []models.ProductInstanceModel) ([]menu.ProductInstance, error) {
	instances := make([]menu.ProductInstance, 0, len(rows))
	for i := range rows {
		pi, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		instances = append(instances, *pi)
	}
	return instances, nil
}

func (r *GormProductInstanceRepository) Save(ctx context.Context, instance *menu.ProductInstance) error {
	var model models.ProductInstanceModel
	if err := model.FromDomain(instance); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *GormProductInstanceRepository) SaveBatch(ctx context.Context, instances []*menu.ProductInstance) error {
	if len(instances) == 0 {
		return nil
	}
	rows := make([]models.ProductInstanceModel, len(instances))
	for i, instance := range instances {
		if err := rows[i].FromDomain(instance); err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Save(&rows).Error
	})
}

func (r *GormProductInstanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ProductInstanceModel{}, "id = ?", id).Error
}

func (r *GormProductInstanceRepository) DeleteBatch(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.ProductInstanceModel{}, "id IN ?", ids).Error
}

// GormInstanceFunctionRepository implements menu.InstanceFunctionRepository using GORM.
type GormInstanceFunctionRepository struct {
	db *gorm.DB
}

// NewGormInstanceFunctionRepository creates a new GormInstanceFunctionRepository
func NewGormInstanceFunctionRepository(db *gorm.DB) *GormInstanceFunctionRepository {
	return &GormInstanceFunctionRepository{db: db}
}

func (r *GormInstanceFunctionRepository) FindByID(ctx context.Context, id uuid.UUID) (*menu.ProductInstanceFunction, error) {
	var model models.InstanceFunctionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

func (r *GormInstanceFunctionRepository) FindAll(ctx context.Context) ([]menu.ProductInstanceFunction, error) {
	var rows []models.InstanceFunctionModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	functions := make([]menu.ProductInstanceFunction, 0, len(rows))
	for i := range rows {
		fn, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		functions = append(functions, *fn)
	}
	return functions, nil
}

func (r *GormInstanceFunctionRepository) Save(ctx context.Context, fn *menu.ProductInstanceFunction) error {
	var model models.InstanceFunctionModel
	if err := model.FromDomain(fn); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *GormInstanceFunctionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.InstanceFunctionModel{}, "id = ?", id).Error
}

func (r *GormInstanceFunctionRepository) DeleteBatch(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.InstanceFunctionModel{}, "id IN ?", ids).Error
}

// GormPrinterGroupRepository implements menu.PrinterGroupRepository using GORM.
type GormPrinterGroupRepository struct {
	db *gorm.DB
}

// NewGormPrinterGroupRepository creates a new GormPrinterGroupRepository
func NewGormPrinterGroupRepository(db *gorm.DB) *GormPrinterGroupRepository {
	return &GormPrinterGroupRepository{db: db}
}

func (r *GormPrinterGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*menu.PrinterGroup, error) {
	var model models.PrinterGroupModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

func (r *GormPrinterGroupRepository) FindAll(ctx context.Context) ([]menu.PrinterGroup, error) {
	var rows []models.PrinterGroupModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	groups := make([]menu.PrinterGroup, 0, len(rows))
	for i := range rows {
		pg, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		groups = append(groups, *pg)
	}
	return groups, nil
}

func (r *GormPrinterGroupRepository) Save(ctx context.Context, pg *menu.PrinterGroup) error {
	var model models.PrinterGroupModel
	if err := model.FromDomain(pg); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *GormPrinterGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PrinterGroupModel{}, "id = ?", id).Error
}
