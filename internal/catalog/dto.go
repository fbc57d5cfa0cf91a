package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/medimart/medimart-backend/pkg/config"
	"github.com/medimart/medimart-backend/pkg/db/models"
)

// ProductDTO is the catalog payload returned to clients. Prices are
// whole rupees.
type ProductDTO struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	Category             string    `json:"category"`
	Brand                string    `json:"brand"`
	Image                string    `json:"image"`
	Price                int       `json:"price"`
	OriginalPrice        *int      `json:"original_price,omitempty"`
	CountInStock         int       `json:"count_in_stock"`
	Rating               float64   `json:"rating"`
	Popularity           int       `json:"popularity"`
	PrescriptionRequired bool      `json:"prescription_required"`
	LowStock             bool      `json:"low_stock"`
	CreatedAt            time.Time `json:"created_at"`
}

// ProductListDTO is one page of the catalog plus pagination counts.
type ProductListDTO struct {
	Items      []ProductDTO `json:"items"`
	TotalCount int          `json:"total_count"`
	TotalPages int          `json:"total_pages"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
}

// ToProductDTO normalizes a stored product, substituting configured
// defaults for columns the seed data left unset.
func ToProductDTO(p models.Product, cfg config.CatalogConfig) ProductDTO {
	stock := cfg.DefaultStock
	if p.CountInStock != nil {
		stock = *p.CountInStock
	}
	if stock < 0 {
		stock = 0
	}

	rating := p.Rating
	if rating < 0 {
		rating = 0
	} else if rating > 5 {
		rating = 5
	}

	return ProductDTO{
		ID:                   p.ID,
		Name:                 p.Name,
		Description:          p.Description,
		Category:             p.Category,
		Brand:                p.Brand,
		Image:                p.Image,
		Price:                p.Price,
		OriginalPrice:        p.OriginalPrice,
		CountInStock:         stock,
		Rating:               rating,
		Popularity:           p.Popularity,
		PrescriptionRequired: p.PrescriptionRequired,
		LowStock:             stock > 0 && stock <= cfg.LowStockCeiling,
		CreatedAt:            p.CreatedAt,
	}
}
