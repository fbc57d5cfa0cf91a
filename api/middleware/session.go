package middleware

import (
	"net/http"
	"strings"

	"github.com/medimart/medimart-backend/api/responses"
	pkgerrors "github.com/medimart/medimart-backend/pkg/errors"
	"github.com/medimart/medimart-backend/pkg/logger"
	"github.com/medimart/medimart-backend/pkg/session"
)

const sessionHeader = "X-MM-Session"

// Session resolves the caller's anonymous session token. A missing or
// expired token gets a fresh one issued transparently; a tampered
// token is rejected. The session id lands in the request context and
// the (possibly new) token is echoed back in the response header.
func Session(manager *session.Manager, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(sessionHeader))

			var sessionID string
			if token != "" {
				verified, err := manager.Verify(token)
				if err == nil {
					sessionID = verified
				} else if !session.IsExpired(err) {
					responses.WriteError(r.Context(), logg, w,
						pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token"))
					return
				}
			}

			if sessionID == "" {
				issued, newID, err := manager.Issue()
				if err != nil {
					responses.WriteError(r.Context(), logg, w,
						pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to issue session"))
					return
				}
				token = issued
				sessionID = newID
			}

			w.Header().Set(sessionHeader, token)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
