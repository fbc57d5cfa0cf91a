package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medimart/medimart-backend/pkg/db/models"
	pkgerrors "github.com/medimart/medimart-backend/pkg/errors"
	"github.com/medimart/medimart-backend/pkg/logger"
	"github.com/medimart/medimart-backend/pkg/types"
)

// StatusPlaced is the only order status the storefront writes today.
const StatusPlaced = "placed"

// EventOrderPlaced is the pubsub event type attribute for new orders.
const EventOrderPlaced = "order.placed"

// Publisher emits order lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error)
}

// Service exposes order persistence and lookup.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	ListOrders(ctx context.Context, sessionID string) ([]OrderDTO, error)
	GetOrder(ctx context.Context, sessionID string, orderID uuid.UUID) (*OrderDTO, error)
}

// CreateOrderInput carries everything needed to persist one order.
// Money fields are whole rupees, already computed by the cart engine.
type CreateOrderInput struct {
	SessionID      string
	PaymentMethod  string
	PaymentRef     string
	Address        types.Address
	Subtotal       int
	Shipping       int
	ConvenienceFee int
	Discount       int
	CouponCode     string
	Total          int
	Items          []CreateOrderItem
}

// CreateOrderItem is one cart line captured into the order.
type CreateOrderItem struct {
	ProductID uuid.UUID
	Name      string
	Image     string
	Price     int
	Quantity  int
}

type orderPlacedEvent struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderNumber   int64     `json:"order_number"`
	SessionID     string    `json:"session_id"`
	PaymentMethod string    `json:"payment_method"`
	Total         int       `json:"total"`
	ItemCount     int       `json:"item_count"`
	PlacedAt      time.Time `json:"placed_at"`
}

type service struct {
	repo      Repository
	publisher Publisher
	logg      *logger.Logger
}

// NewService builds the orders service. The publisher is optional;
// when nil, order events are skipped.
func NewService(repo Repository, publisher Publisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders: repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("orders: logger is required")
	}
	return &service{repo: repo, publisher: publisher, logg: logg}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	order := &models.Order{
		SessionID:      input.SessionID,
		Status:         StatusPlaced,
		PaymentMethod:  input.PaymentMethod,
		PaymentRef:     input.PaymentRef,
		Address:        input.Address,
		Subtotal:       input.Subtotal,
		Shipping:       input.Shipping,
		ConvenienceFee: input.ConvenienceFee,
		Discount:       input.Discount,
		CouponCode:     input.CouponCode,
		Total:          input.Total,
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	created, err := s.repo.Create(ctx, order, items)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create order")
	}

	s.publishPlaced(ctx, created)
	return toOrderDTO(created), nil
}

// publishPlaced emits order.placed best-effort: a broker outage must
// not fail an order the database already accepted.
func (s *service) publishPlaced(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(orderPlacedEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		SessionID:     order.SessionID,
		PaymentMethod: order.PaymentMethod,
		Total:         order.Total,
		ItemCount:     len(order.Items),
		PlacedAt:      time.Now().UTC(),
	})
	if err != nil {
		s.logg.Error(ctx, "failed to encode order event", err)
		return
	}

	attrs := map[string]string{"event_type": EventOrderPlaced}
	if _, err := s.publisher.Publish(ctx, payload, attrs); err != nil {
		s.logg.Error(ctx, "failed to publish order event", err)
	}
}

func (s *service) ListOrders(ctx context.Context, sessionID string) ([]OrderDTO, error) {
	orders, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list orders")
	}

	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, *toOrderDTO(&orders[i]))
	}
	return dtos, nil
}

func (s *service) GetOrder(ctx context.Context, sessionID string, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
	}
	if order.SessionID != sessionID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return toOrderDTO(order), nil
}
