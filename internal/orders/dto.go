package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/medimart/medimart-backend/pkg/db/models"
	"github.com/medimart/medimart-backend/pkg/types"
)

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID             uuid.UUID      `json:"id"`
	OrderNumber    int64          `json:"order_number"`
	Status         string         `json:"status"`
	PaymentMethod  string         `json:"payment_method"`
	PaymentRef     string         `json:"payment_ref,omitempty"`
	Address        types.Address  `json:"address"`
	Subtotal       int            `json:"subtotal"`
	Shipping       int            `json:"shipping"`
	ConvenienceFee int            `json:"convenience_fee"`
	Discount       int            `json:"discount"`
	CouponCode     string         `json:"coupon_code,omitempty"`
	Total          int            `json:"total"`
	Items          []OrderItemDTO `json:"items"`
	CreatedAt      time.Time      `json:"created_at"`
}

// OrderItemDTO is one line of a placed order.
type OrderItemDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	Price     int       `json:"price"`
	Quantity  int       `json:"quantity"`
}

func toOrderDTO(order *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	return &OrderDTO{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		Status:         order.Status,
		PaymentMethod:  order.PaymentMethod,
		PaymentRef:     order.PaymentRef,
		Address:        order.Address,
		Subtotal:       order.Subtotal,
		Shipping:       order.Shipping,
		ConvenienceFee: order.ConvenienceFee,
		Discount:       order.Discount,
		CouponCode:     order.CouponCode,
		Total:          order.Total,
		Items:          items,
		CreatedAt:      order.CreatedAt,
	}
}
