package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is one catalog listing. Prices are whole rupees.
type Product struct {
	ID                   uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string    `gorm:"column:name;not null"`
	Description          string    `gorm:"column:description"`
	Category             string    `gorm:"column:category;not null"`
	Brand                string    `gorm:"column:brand"`
	Image                string    `gorm:"column:image"`
	Price                int       `gorm:"column:price;not null"`
	OriginalPrice        *int      `gorm:"column:original_price"`
	CountInStock         *int      `gorm:"column:count_in_stock"`
	Rating               float64   `gorm:"column:rating;not null;default:0"`
	Popularity           int       `gorm:"column:popularity;not null;default:0"`
	PrescriptionRequired bool      `gorm:"column:prescription_required;not null;default:false"`
	IsActive             bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
