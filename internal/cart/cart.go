package cart

import (
	"time"

	"github.com/google/uuid"
)

// Line is one product entry in a cart. The product fields are a
// snapshot taken when the line was created so later catalog edits do
// not silently reprice an open cart.
type Line struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Category  string    `json:"category"`
	Price     int       `json:"price"`
	Stock     int       `json:"stock"`
	Quantity  int       `json:"quantity"`
}

// Cart is the full cart state for one session. Lines keep insertion
// order and hold at most one entry per product.
type Cart struct {
	Lines      []Line    `json:"lines"`
	CouponCode string    `json:"coupon_code,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// TotalQuantity sums the quantities across all lines.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

func (c *Cart) lineIndex(productID uuid.UUID) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Totals is the priced breakdown of a cart. All amounts are whole
// rupees.
type Totals struct {
	Subtotal       int    `json:"subtotal"`
	Shipping       int    `json:"shipping"`
	ConvenienceFee int    `json:"convenience_fee"`
	Discount       int    `json:"discount"`
	Total          int    `json:"total"`
	CouponCode     string `json:"coupon_code,omitempty"`
}
