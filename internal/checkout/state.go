package checkout

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medimart/medimart-backend/pkg/types"
)

// Step is one stage of the linear checkout flow.
type Step string

const (
	StepAddress      Step = "address"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

// Payment method identifiers accepted at checkout.
const (
	PaymentCard       = "card"
	PaymentUPI        = "upi"
	PaymentNetbanking = "netbanking"
	PaymentCOD        = "cod"
)

// IsValidPaymentMethod reports whether the id belongs to the closed
// set of supported methods.
func IsValidPaymentMethod(methodID string) bool {
	switch methodID {
	case PaymentCard, PaymentUPI, PaymentNetbanking, PaymentCOD:
		return true
	}
	return false
}

// Sentinel failures for checkout operations. All are recoverable by
// user action; the HTTP layer maps them through pkg/errors metadata.
var (
	ErrEmptyCart              = errors.New("cart is empty")
	ErrCheckoutNotStarted     = errors.New("checkout has not been started")
	ErrIncompleteAddress      = errors.New("address is incomplete")
	ErrAddressRequired        = errors.New("a delivery address must be submitted first")
	ErrPaymentMethodRequired  = errors.New("a payment method must be selected first")
	ErrUnknownPaymentMethod   = errors.New("unknown payment method")
	ErrOrderAlreadyInProgress = errors.New("an order placement is already in progress")
	ErrOrderPlacementFailed   = errors.New("order placement failed")
	ErrCheckoutComplete       = errors.New("checkout is already complete")
)

// State is the persisted checkout progress for one session. Address
// and payment data survive backward navigation; only a completed
// placement or an explicit abandon discards them.
type State struct {
	Step          Step           `json:"step"`
	Address       *types.Address `json:"address,omitempty"`
	PaymentMethod string         `json:"payment_method,omitempty"`
	OrderID       uuid.UUID      `json:"order_id,omitempty"`
	StartedAt     time.Time      `json:"started_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewState starts a checkout at the address step.
func NewState() *State {
	now := time.Now().UTC()
	return &State{Step: StepAddress, StartedAt: now, UpdatedAt: now}
}

// Completed reports whether the checkout already produced an order.
func (s *State) Completed() bool {
	return s.Step == StepConfirmation
}
