package controllers

import (
	"net/http"

	"github.com/medimart/medimart-backend/api/responses"
	adminsvc "github.com/medimart/medimart-backend/internal/admin"
	pkgerrors "github.com/medimart/medimart-backend/pkg/errors"
	"github.com/medimart/medimart-backend/pkg/logger"
)

// AdminOverview serves the dashboard summary.
func AdminOverview(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		overview, err := svc.Overview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, overview)
	}
}
