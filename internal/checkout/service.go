package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medimart/medimart-backend/internal/cart"
	"github.com/medimart/medimart-backend/internal/orders"
	pkgerrors "github.com/medimart/medimart-backend/pkg/errors"
	"github.com/medimart/medimart-backend/pkg/logger"
	"github.com/medimart/medimart-backend/pkg/types"
)

// Service drives the address -> payment -> confirmation checkout flow
// for one session at a time.
type Service interface {
	Start(ctx context.Context, sessionID string) (*StateDTO, error)
	GetState(ctx context.Context, sessionID string) (*StateDTO, error)
	SubmitAddress(ctx context.Context, sessionID string, address types.Address) (*StateDTO, error)
	SelectPaymentMethod(ctx context.Context, sessionID, methodID string) (*StateDTO, error)
	Back(ctx context.Context, sessionID string) (*StateDTO, error)
	PlaceOrder(ctx context.Context, sessionID string) (*ConfirmationDTO, error)
	Abandon(ctx context.Context, sessionID string) error
}

// StateDTO is the checkout progress payload returned to clients.
type StateDTO struct {
	Step          Step           `json:"step"`
	Address       *types.Address `json:"address,omitempty"`
	PaymentMethod string         `json:"payment_method,omitempty"`
	OrderID       *uuid.UUID     `json:"order_id,omitempty"`
}

// ConfirmationDTO reports a successfully placed order.
type ConfirmationDTO struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber int64     `json:"order_number"`
	Total       int       `json:"total"`
	PaymentRef  string    `json:"payment_ref,omitempty"`
}

// StockAdjuster applies a stock delta to one product. Satisfied by the
// catalog repository.
type StockAdjuster interface {
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
}

type service struct {
	store   Store
	carts   cart.Service
	orders  orders.Service
	gateway PaymentGateway
	stock   StockAdjuster
	logg    *logger.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService builds the checkout orchestrator.
func NewService(store Store, carts cart.Service, orderSvc orders.Service, gateway PaymentGateway, stock StockAdjuster, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("checkout: store is required")
	}
	if carts == nil {
		return nil, fmt.Errorf("checkout: cart service is required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("checkout: orders service is required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("checkout: payment gateway is required")
	}
	if stock == nil {
		return nil, fmt.Errorf("checkout: stock adjuster is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("checkout: logger is required")
	}
	return &service{
		store:    store,
		carts:    carts,
		orders:   orderSvc,
		gateway:  gateway,
		stock:    stock,
		logg:     logg,
		inFlight: make(map[string]struct{}),
	}, nil
}

// Start begins a checkout, or resumes one already underway. The cart
// must be non-empty to enter the flow.
func (s *service) Start(ctx context.Context, sessionID string) (*StateDTO, error) {
	cartDTO, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(cartDTO.Lines) == 0 {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrEmptyCart, "cannot start checkout")
	}

	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state != nil && !state.Completed() {
		return toStateDTO(state), nil
	}

	state = NewState()
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return toStateDTO(state), nil
}

func (s *service) GetState(ctx context.Context, sessionID string) (*StateDTO, error) {
	state, err := s.loadStarted(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return toStateDTO(state), nil
}

// SubmitAddress validates the delivery address and advances to the
// payment step. Every field must be a non-empty trimmed string; the
// failure names each missing field.
func (s *service) SubmitAddress(ctx context.Context, sessionID string, address types.Address) (*StateDTO, error) {
	state, err := s.loadStarted(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Completed() {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrCheckoutComplete, "cannot change a placed order")
	}

	trimmed := address.Trimmed()
	if missing := trimmed.MissingFields(); len(missing) > 0 {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrIncompleteAddress,
			fmt.Sprintf("missing fields: %v", missing)).
			WithDetails(map[string]any{"missing_fields": missing})
	}

	state.Address = &trimmed
	state.Step = StepPayment
	state.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return toStateDTO(state), nil
}

// SelectPaymentMethod records the chosen method. The method id must
// belong to the closed supported set; anything else is rejected rather
// than silently defaulted.
func (s *service) SelectPaymentMethod(ctx context.Context, sessionID, methodID string) (*StateDTO, error) {
	state, err := s.loadStarted(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Completed() {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrCheckoutComplete, "cannot change a placed order")
	}
	if state.Address == nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrAddressRequired, "cannot select payment")
	}
	if !IsValidPaymentMethod(methodID) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrUnknownPaymentMethod,
			fmt.Sprintf("unsupported payment method %q", methodID))
	}

	state.PaymentMethod = methodID
	state.Step = StepPayment
	state.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return toStateDTO(state), nil
}

// Back returns from the payment step to the address step without
// discarding anything entered so far.
func (s *service) Back(ctx context.Context, sessionID string) (*StateDTO, error) {
	state, err := s.loadStarted(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Completed() {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrCheckoutComplete, "cannot change a placed order")
	}

	if state.Step == StepPayment {
		state.Step = StepAddress
		state.UpdatedAt = time.Now().UTC()
		if err := s.store.Save(ctx, sessionID, state); err != nil {
			return nil, err
		}
	}
	return toStateDTO(state), nil
}

// PlaceOrder charges the customer and persists the order. Re-entrant
// calls while an attempt is outstanding are rejected so a double
// submit cannot double charge. On failure the flow stays at the
// payment step and the cart is untouched.
func (s *service) PlaceOrder(ctx context.Context, sessionID string) (*ConfirmationDTO, error) {
	if !s.acquire(sessionID) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, ErrOrderAlreadyInProgress, "duplicate submit")
	}
	defer s.release(sessionID)

	state, err := s.loadStarted(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Completed() {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrCheckoutComplete, "order already placed")
	}
	if state.Address == nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrAddressRequired, "cannot place order")
	}
	if state.PaymentMethod == "" {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrPaymentMethodRequired, "cannot place order")
	}

	cartDTO, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(cartDTO.Lines) == 0 {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrEmptyCart, "cannot place order")
	}

	paymentRef := ""
	if state.PaymentMethod != PaymentCOD {
		gatewayOrder, err := s.gateway.CreateOrder(ctx, cartDTO.Totals.Total, state.PaymentMethod)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, ErrOrderPlacementFailed, err.Error())
		}
		result, err := s.gateway.Open(ctx, gatewayOrder.Reference)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, ErrOrderPlacementFailed, err.Error())
		}
		if !result.Captured {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, ErrOrderPlacementFailed, "payment not captured")
		}
		paymentRef = result.Reference
	}

	items := make([]orders.CreateOrderItem, 0, len(cartDTO.Lines))
	for _, line := range cartDTO.Lines {
		items = append(items, orders.CreateOrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}

	order, err := s.orders.CreateOrder(ctx, orders.CreateOrderInput{
		SessionID:      sessionID,
		PaymentMethod:  state.PaymentMethod,
		PaymentRef:     paymentRef,
		Address:        *state.Address,
		Subtotal:       cartDTO.Totals.Subtotal,
		Shipping:       cartDTO.Totals.Shipping,
		ConvenienceFee: cartDTO.Totals.ConvenienceFee,
		Discount:       cartDTO.Totals.Discount,
		CouponCode:     cartDTO.Totals.CouponCode,
		Total:          cartDTO.Totals.Total,
		Items:          items,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, ErrOrderPlacementFailed, err.Error())
	}

	// Best effort, like the cart clear: the order is already committed.
	for _, line := range cartDTO.Lines {
		if err := s.stock.AdjustStock(ctx, line.ProductID, -line.Quantity); err != nil {
			s.logg.Error(ctx, "failed to decrement stock after order placement", err)
		}
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logg.Error(ctx, "failed to clear cart after order placement", err)
	}

	state.Step = StepConfirmation
	state.OrderID = order.ID
	state.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		s.logg.Error(ctx, "failed to save checkout confirmation state", err)
	}

	return &ConfirmationDTO{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Total:       order.Total,
		PaymentRef:  paymentRef,
	}, nil
}

// Abandon discards any checkout progress for the session.
func (s *service) Abandon(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *service) loadStarted(ctx context.Context, sessionID string) (*State, error) {
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrCheckoutNotStarted, "start checkout first")
	}
	return state, nil
}

func (s *service) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *service) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}

func toStateDTO(state *State) *StateDTO {
	dto := &StateDTO{
		Step:          state.Step,
		Address:       state.Address,
		PaymentMethod: state.PaymentMethod,
	}
	if state.OrderID != uuid.Nil {
		id := state.OrderID
		dto.OrderID = &id
	}
	return dto
}
