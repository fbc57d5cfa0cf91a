package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medimart/medimart-backend/pkg/db"
	"github.com/medimart/medimart-backend/pkg/db/models"
	pkgerrors "github.com/medimart/medimart-backend/pkg/errors"
)

// Repository loads catalog rows from storage.
type Repository interface {
	ListActive(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
	CountActive(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, ceiling int) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListActive(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if db.IsUniqueViolation(err, "idx_products_name") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product name already exists")
		}
		return nil, err
	}
	return product, nil
}

func (r *repository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("id = ?", id).First(&product).Error; err != nil {
			return err
		}
		stock := 0
		if product.CountInStock != nil {
			stock = *product.CountInStock
		}
		stock += delta
		if stock < 0 {
			stock = 0
		}
		return tx.Model(&models.Product{}).
			Where("id = ?", id).
			UpdateColumn("count_in_stock", stock).
			Error
	})
}

func (r *repository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *repository) CountLowStock(ctx context.Context, ceiling int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ? AND count_in_stock IS NOT NULL AND count_in_stock <= ?", true, ceiling).
		Count(&count).Error
	return count, err
}
