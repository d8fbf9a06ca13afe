package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/GophSignup/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the form screens and the API.
//
// Routes:
//
//	GET  /                → pages.Entry
//	POST /                → pages.Submit
//	POST /field           → pages.Field
//	GET  /user-data       → pages.UserData
//	GET  /lang/{code}     → pages.Language
//	GET  /api/last-record → records.LastRecord
//	GET  /healthz         → Health
//
// Middleware chain (applied in order): request id, panic recovery, request
// logging, session cookie lookup, locale resolution.
func NewRouter(
	pages *PageHandler,
	records *RecordHandler,
	resolver middleware.LocaleResolver,
	defaultLocale string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/healthz", Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session)
		r.Use(middleware.Locale(resolver, defaultLocale))

		r.Get("/", pages.Entry)
		r.Post("/", pages.Submit)
		r.Post("/field", pages.Field)
		r.Get("/user-data", pages.UserData)
		r.Get("/lang/{code}", pages.Language)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))
		r.Get("/last-record", records.LastRecord)
	})

	return r
}
