package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/medimart/medimart-backend/pkg/types"
)

// Order is a placed order with a snapshot of the cart and address at
// placement time. Money fields are whole rupees.
type Order struct {
	ID             uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber    int64         `gorm:"column:order_number;->"`
	SessionID      string        `gorm:"column:session_id;not null"`
	Status         string        `gorm:"column:status;not null;default:placed"`
	PaymentMethod  string        `gorm:"column:payment_method;not null"`
	PaymentRef     string        `gorm:"column:payment_ref"`
	Address        types.Address `gorm:"column:address;type:jsonb;not null"`
	Subtotal       int           `gorm:"column:subtotal;not null"`
	Shipping       int           `gorm:"column:shipping;not null"`
	ConvenienceFee int           `gorm:"column:convenience_fee;not null"`
	Discount       int           `gorm:"column:discount;not null;default:0"`
	CouponCode     string        `gorm:"column:coupon_code"`
	Total          int           `gorm:"column:total;not null"`
	CreatedAt      time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time     `gorm:"column:updated_at;autoUpdateTime"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is one product line captured at placement time so later
// catalog edits do not rewrite order history.
type OrderItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Name      string    `gorm:"column:name;not null"`
	Image     string    `gorm:"column:image"`
	Price     int       `gorm:"column:price;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
