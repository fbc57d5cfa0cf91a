package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	checkoutsvc "github.com/medimart/medimart-backend/internal/checkout"
	pkgerrors "github.com/medimart/medimart-backend/pkg/errors"
	"github.com/medimart/medimart-backend/pkg/types"
)

type stubCheckoutService struct {
	state        *checkoutsvc.StateDTO
	confirmation *checkoutsvc.ConfirmationDTO
	err          error

	lastAddress types.Address
	lastMethod  string
}

func (s *stubCheckoutService) Start(ctx context.Context, sessionID string) (*checkoutsvc.StateDTO, error) {
	return s.state, s.err
}

func (s *stubCheckoutService) GetState(ctx context.Context, sessionID string) (*checkoutsvc.StateDTO, error) {
	return s.state, s.err
}

func (s *stubCheckoutService) SubmitAddress(ctx context.Context, sessionID string, address types.Address) (*checkoutsvc.StateDTO, error) {
	s.lastAddress = address
	return s.state, s.err
}

func (s *stubCheckoutService) SelectPaymentMethod(ctx context.Context, sessionID, methodID string) (*checkoutsvc.StateDTO, error) {
	s.lastMethod = methodID
	return s.state, s.err
}

func (s *stubCheckoutService) Back(ctx context.Context, sessionID string) (*checkoutsvc.StateDTO, error) {
	return s.state, s.err
}

func (s *stubCheckoutService) PlaceOrder(ctx context.Context, sessionID string) (*checkoutsvc.ConfirmationDTO, error) {
	return s.confirmation, s.err
}

func (s *stubCheckoutService) Abandon(ctx context.Context, sessionID string) error {
	return s.err
}

func TestStartCheckoutEmptyCart(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.Wrap(pkgerrors.CodeStateConflict, checkoutsvc.ErrEmptyCart, "cart is empty")}
	handler := StartCheckout(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/checkout", ""))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestSubmitAddressForwardsPayload(t *testing.T) {
	svc := &stubCheckoutService{state: &checkoutsvc.StateDTO{Step: checkoutsvc.StepPayment}}
	handler := SubmitAddress(svc, nil)

	body := `{"name":"Asha Rao","phone":"9876543210","street":"14 MG Road","landmark":"Opp. City Hospital","city":"Bengaluru","state":"Karnataka","pincode":"560001"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/checkout/address", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastAddress.Pincode != "560001" {
		t.Fatalf("unexpected pincode: %q", svc.lastAddress.Pincode)
	}

	var envelope struct {
		Data checkoutsvc.StateDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Step != checkoutsvc.StepPayment {
		t.Fatalf("unexpected step: %q", envelope.Data.Step)
	}
}

func TestSubmitAddressIncompleteNamesFields(t *testing.T) {
	svc := &stubCheckoutService{
		err: pkgerrors.Wrap(pkgerrors.CodeValidation, checkoutsvc.ErrIncompleteAddress, "address is incomplete").
			WithDetails(map[string]any{"missing_fields": []string{"pincode"}}),
	}
	handler := SubmitAddress(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/checkout/address", `{"name":"Asha Rao"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Details struct {
				MissingFields []string `json:"missing_fields"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Error.Details.MissingFields) != 1 || envelope.Error.Details.MissingFields[0] != "pincode" {
		t.Fatalf("unexpected missing fields: %v", envelope.Error.Details.MissingFields)
	}
}

func TestSelectPaymentMethodRequiresBody(t *testing.T) {
	handler := SelectPaymentMethod(&stubCheckoutService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/checkout/payment-method", `{}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestPlaceOrderReturnsCreated(t *testing.T) {
	orderID := uuid.New()
	svc := &stubCheckoutService{confirmation: &checkoutsvc.ConfirmationDTO{
		OrderID:     orderID,
		OrderNumber: 1042,
		Total:       1160,
		PaymentRef:  "pay_upi_abcd1234",
	}}
	handler := PlaceOrder(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/checkout/place-order", ""))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data checkoutsvc.ConfirmationDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderID != orderID {
		t.Fatalf("unexpected order id: %s", envelope.Data.OrderID)
	}
	if envelope.Data.OrderNumber != 1042 {
		t.Fatalf("unexpected order number: %d", envelope.Data.OrderNumber)
	}
}

func TestPlaceOrderConcurrentSubmitRejected(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.Wrap(pkgerrors.CodeConflict, checkoutsvc.ErrOrderAlreadyInProgress, "duplicate submit")}
	handler := PlaceOrder(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/checkout/place-order", ""))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}
