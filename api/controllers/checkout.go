package controllers

import (
	"net/http"

	"github.com/medimart/medimart-backend/api/responses"
	"github.com/medimart/medimart-backend/api/validators"
	checkoutsvc "github.com/medimart/medimart-backend/internal/checkout"
	"github.com/medimart/medimart-backend/pkg/logger"
	"github.com/medimart/medimart-backend/pkg/types"
)

type submitAddressRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	Landmark string `json:"landmark"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

func (r submitAddressRequest) toAddress() types.Address {
	return types.Address{
		Name:     r.Name,
		Phone:    r.Phone,
		Street:   r.Street,
		Landmark: r.Landmark,
		City:     r.City,
		State:    r.State,
		Pincode:  r.Pincode,
	}
}

type selectPaymentRequest struct {
	MethodID string `json:"method_id" validate:"required"`
}

// StartCheckout begins (or resumes) the checkout flow for the session.
func StartCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.Start(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

// GetCheckoutState serves the current checkout progress.
func GetCheckoutState(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.GetState(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

// SubmitAddress validates the delivery address and advances to the
// payment step. Field-level validation happens in the orchestrator so
// the failure can name every missing field at once.
func SubmitAddress(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload submitAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.SubmitAddress(r.Context(), sessionID, payload.toAddress())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

// SelectPaymentMethod records the chosen payment method.
func SelectPaymentMethod(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload selectPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.SelectPaymentMethod(r.Context(), sessionID, payload.MethodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

// CheckoutBack returns from the payment step to the address step.
func CheckoutBack(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.Back(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, state)
	}
}

// PlaceOrder submits the order. Concurrent submits for the same
// session are rejected while one is outstanding.
func PlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		confirmation, err := svc.PlaceOrder(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}

// AbandonCheckout discards the session's checkout progress.
func AbandonCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Abandon(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"abandoned": true})
	}
}
