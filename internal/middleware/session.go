// Package middleware provides HTTP middlewares for sessions, language
// selection and request logging.
package middleware

import (
	"context"
	"net/http"
)

type ctxKey string

const (
	sessionKey ctxKey = "session"
	localeKey  ctxKey = "locale"
)

// SessionCookie is the name of the cookie carrying the form session id.
const SessionCookie = "signup_session"

// Session copies the session cookie value, if any, into the request context
// so handlers can find the caller's form session. It never creates sessions;
// the entry screen does that.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, c.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionIDFromContext extracts the session id from the request context.
// Returns an empty string if not found.
func GetSessionIDFromContext(ctx context.Context) string {
	val := ctx.Value(sessionKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// SetSessionCookie writes the session cookie for id.
func SetSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
