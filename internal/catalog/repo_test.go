package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/medimart/medimart-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  brand TEXT,
  image TEXT,
  price INTEGER NOT NULL,
  original_price INTEGER,
  count_in_stock INTEGER,
  rating REAL NOT NULL DEFAULT 0,
  popularity INTEGER NOT NULL DEFAULT 0,
  prescription_required INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	return db
}

func newProduct(t *testing.T, db *gorm.DB, name string, price, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:           uuid.New(),
		Name:         name,
		Category:     "Medicines",
		Price:        price,
		CountInStock: &stock,
		IsActive:     true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryFindByID(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := newProduct(t, db, "Paracetamol 500mg", 30, 12)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Paracetamol 500mg", found.Name)
	require.NotNil(t, found.CountInStock)
	assert.Equal(t, 12, *found.CountInStock)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindByIDs(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := newProduct(t, db, "Ibuprofen", 45, 8)
	second := newProduct(t, db, "Cetirizine", 25, 20)

	found, err := repo.FindByIDs(ctx, []uuid.UUID{first.ID, second.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRepositoryAdjustStock(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := newProduct(t, db, "Vitamin D3", 150, 5)

	require.NoError(t, repo.AdjustStock(ctx, product.ID, -3))
	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, found.CountInStock)
	assert.Equal(t, 2, *found.CountInStock)

	// Never goes negative even when the delta exceeds remaining stock.
	require.NoError(t, repo.AdjustStock(ctx, product.ID, -10))
	found, err = repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, found.CountInStock)
	assert.Equal(t, 0, *found.CountInStock)
}

func TestRepositoryCountLowStock(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	before, err := repo.CountLowStock(ctx, 5)
	require.NoError(t, err)

	newProduct(t, db, "Low stock syrup", 90, 2)
	newProduct(t, db, "Healthy stock tablet", 40, 30)

	after, err := repo.CountLowStock(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}
