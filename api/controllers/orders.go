package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medimart/medimart-backend/api/responses"
	"github.com/medimart/medimart-backend/api/validators"
	ordersvc "github.com/medimart/medimart-backend/internal/orders"
	"github.com/medimart/medimart-backend/pkg/logger"
)

// ListOrders serves the session's order history, newest first.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.ListOrders(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders)
	}
}

// GetOrder serves one of the session's orders by id.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), sessionID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
