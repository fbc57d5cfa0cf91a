package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medimart/medimart-backend/api/middleware"
	"github.com/medimart/medimart-backend/api/responses"
	"github.com/medimart/medimart-backend/api/validators"
	cartsvc "github.com/medimart/medimart-backend/internal/cart"
	pkgerrors "github.com/medimart/medimart-backend/pkg/errors"
	"github.com/medimart/medimart-backend/pkg/logger"
)

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1,max=99"`
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

func requireSession(r *http.Request) (string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing")
	}
	return sessionID, nil
}

// GetCart serves the session's cart with computed totals.
func GetCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.GetCart(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

// AddCartItem adds a product to the cart, merging quantities when the
// product is already carted.
func AddCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity := payload.Quantity
		if quantity == 0 {
			quantity = 1
		}

		cart, err := svc.AddItem(r.Context(), sessionID, payload.ProductID, quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

type cartLineOp func(svc cartsvc.Service, r *http.Request, sessionID string, productID uuid.UUID) (*cartsvc.CartDTO, error)

func cartLineHandler(svc cartsvc.Service, logg *logger.Logger, op cartLineOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := op(svc, r, sessionID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

// IncreaseCartItem bumps a line's quantity by one, clamped to stock.
func IncreaseCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartLineHandler(svc, logg, func(svc cartsvc.Service, r *http.Request, sessionID string, productID uuid.UUID) (*cartsvc.CartDTO, error) {
		return svc.IncreaseQuantity(r.Context(), sessionID, productID)
	})
}

// DecreaseCartItem lowers a line's quantity by one, floored at 1.
func DecreaseCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartLineHandler(svc, logg, func(svc cartsvc.Service, r *http.Request, sessionID string, productID uuid.UUID) (*cartsvc.CartDTO, error) {
		return svc.DecreaseQuantity(r.Context(), sessionID, productID)
	})
}

// RemoveCartItem deletes a line entirely.
func RemoveCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartLineHandler(svc, logg, func(svc cartsvc.Service, r *http.Request, sessionID string, productID uuid.UUID) (*cartsvc.CartDTO, error) {
		return svc.RemoveItem(r.Context(), sessionID, productID)
	})
}

// ClearCart empties the cart and drops any applied coupon.
func ClearCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"cleared": true})
	}
}

// ApplyCoupon validates and attaches a coupon code to the cart.
func ApplyCoupon(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.ApplyCoupon(r.Context(), sessionID, payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

// RemoveCoupon detaches any applied coupon.
func RemoveCoupon(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.RemoveCoupon(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}
