package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	h "sitearchive/internal/delivery/http/helpers"
	"sitearchive/internal/domain"
)

// RequireArchiveSession returns a wrapper that admits a request only when it carries
// a valid admin session cookie. A missing, empty or rejected cookie gets 401 and next
// is not called, so nothing behind it (the store included) is touched.
// now defaults to time.Now when nil.
func RequireArchiveSession(verifier domain.SessionVerifier, logger *slog.Logger, now func() time.Time) func(http.HandlerFunc) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := h.SessionToken(r)
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.MsgUnauthorized)
				return
			}
			if err := verifier.Verify(token, now()); err != nil {
				if errors.Is(err, domain.ErrSessionExpired) {
					logger.DebugContext(r.Context(), "admin session expired")
				} else {
					logger.WarnContext(r.Context(), "admin session rejected", "err", err)
				}
				h.WriteJSONError(w, http.StatusUnauthorized, h.MsgUnauthorized)
				return
			}
			next(w, r)
		}
	}
}
