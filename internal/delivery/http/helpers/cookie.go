package helpers

import (
	"net/http"
	"time"

	"sitearchive/internal/domain"
)

// SessionCookieName is the cookie carrying the admin session.
const SessionCookieName = "archive_admin"

// SetSessionCookie writes the admin session cookie: HttpOnly, SameSite=Strict,
// Path=/, expiring with the session. Secure is set when the request came over TLS.
func SetSessionCookie(w http.ResponseWriter, r *http.Request, session *domain.AdminSession, now time.Time) {
	maxAge := int(session.ExpiresAt.Sub(now).Round(time.Second) / time.Second)
	if maxAge <= 0 {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie expires the admin session cookie.
func ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

// SessionToken returns the session cookie value, or "" when absent.
func SessionToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
