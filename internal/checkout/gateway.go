package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// GatewayOrder is the reference a payment gateway returns for one
// charge attempt.
type GatewayOrder struct {
	Reference string
}

// PaymentResult is the outcome of opening a charge.
type PaymentResult struct {
	Reference string
	Captured  bool
}

// PaymentGateway charges the customer for an order. Implementations
// wrap whichever provider the deployment uses; collect-on-delivery
// never reaches the gateway.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int, methodID string) (*GatewayOrder, error)
	Open(ctx context.Context, reference string) (*PaymentResult, error)
}

type fakeGateway struct{}

// NewFakeGateway returns a gateway that accepts every charge and
// fabricates a reference. Used in development and as the default until
// a real provider is wired.
func NewFakeGateway() PaymentGateway {
	return &fakeGateway{}
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int, methodID string) (*GatewayOrder, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("gateway: amount must be positive, got %d", amount)
	}
	return &GatewayOrder{
		Reference: fmt.Sprintf("pay_%s_%s", methodID, uuid.NewString()[:8]),
	}, nil
}

func (g *fakeGateway) Open(_ context.Context, reference string) (*PaymentResult, error) {
	if reference == "" {
		return nil, fmt.Errorf("gateway: reference is required")
	}
	return &PaymentResult{Reference: reference, Captured: true}, nil
}
