package middleware

import (
	"context"
	"net/http"
)

// LanguageCookie stores the language picked with the language switch.
const LanguageCookie = "lang"

// LocaleResolver picks a supported locale from ordered preferences.
type LocaleResolver interface {
	Resolve(candidates ...string) string
}

// Locale resolves the request language from the language cookie, then the
// Accept-Language header, then fallback, and stores it in the context.
func Locale(resolver LocaleResolver, fallback string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var cookie string
			if c, err := r.Cookie(LanguageCookie); err == nil {
				cookie = c.Value
			}
			locale := resolver.Resolve(cookie, r.Header.Get("Accept-Language"), fallback)
			ctx := context.WithValue(r.Context(), localeKey, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLocaleFromContext returns the request locale, or "en" if none was set.
func GetLocaleFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(localeKey).(string); ok && s != "" {
		return s
	}
	return "en"
}
