// Package http provides the HTTP handlers serving the account form, the
// confirmation screen and the small JSON API next to them.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/atinyakov/GophSignup/internal/form"
	"github.com/atinyakov/GophSignup/internal/middleware"
	"github.com/atinyakov/GophSignup/internal/models"
	"github.com/atinyakov/GophSignup/internal/session"
)

// PageHandler serves the entry and confirmation screens.
type PageHandler struct {
	sessions  *session.Store
	validator form.Validator
	gateway   form.Gateway
	tr        Translator
	views     *views
	policy    *bluemonday.Policy
	log       *zap.Logger
}

// entryView is the data rendered by the entry screen.
type entryView struct {
	Locale      string
	OtherLocale string
	Record      models.FormRecord
	Errors      map[string]string
	Notice      string
	Submitting  bool
}

// confirmationView is the data rendered by the confirmation screen.
type confirmationView struct {
	Locale      string
	OtherLocale string
	FullName    string
	Email       string
	RememberMe  bool
}

// NewPageHandler parses the embedded templates and returns a PageHandler.
func NewPageHandler(
	sessions *session.Store,
	v form.Validator,
	gw form.Gateway,
	tr Translator,
	log *zap.Logger,
) (*PageHandler, error) {
	vs, err := parseViews(tr)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PageHandler{
		sessions:  sessions,
		validator: v,
		gateway:   gw,
		tr:        tr,
		views:     vs,
		policy:    bluemonday.StrictPolicy(),
		log:       log,
	}, nil
}

// Entry opens a fresh form session and renders the empty form.
func (h *PageHandler) Entry(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLocaleFromContext(r.Context())
	sess := h.start(w, r, locale)

	h.renderEntry(w, http.StatusOK, locale, sess.Controller.Snapshot(), "")
}

// Submit applies the posted values to the caller's form and submits it.
//
// Responses:
//
//	303 → /user-data on success
//	422 with the form and its errors when validation fails
//	409 while an earlier submission of the same session is still running
//	503 with a failure notice when account creation fails
func (h *PageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	locale := middleware.GetLocaleFromContext(r.Context())
	id := middleware.GetSessionIDFromContext(r.Context())

	ctrl, ok := h.sessions.Controller(id)
	if !ok {
		// expired or never opened
		sess := h.start(w, r, locale)
		id, ctrl = sess.ID, sess.Controller
	}
	ctrl.SetLocale(locale)

	if ctrl.State() == form.StateSubmitting {
		h.renderEntry(w, http.StatusConflict, locale, ctrl.Snapshot(), h.tr.T(locale, "form.inProgress"))
		return
	}

	for _, field := range models.Fields {
		// unchecked checkboxes are not posted, so an absent value is meaningful
		if err := ctrl.SetField(string(field), r.PostForm.Get(string(field))); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
	}

	record, err := ctrl.Submit(r.Context())
	switch {
	case err == nil:
		h.sessions.Navigate(id, record)
		http.Redirect(w, r, "/user-data", http.StatusSeeOther)
	case errors.Is(err, form.ErrInvalid):
		h.renderEntry(w, http.StatusUnprocessableEntity, locale, ctrl.Snapshot(), "")
	case errors.Is(err, form.ErrSubmitInProgress):
		h.renderEntry(w, http.StatusConflict, locale, ctrl.Snapshot(), h.tr.T(locale, "form.inProgress"))
	case errors.Is(err, form.ErrCompleted):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		h.renderEntry(w, http.StatusServiceUnavailable, locale, ctrl.Snapshot(), h.tr.T(locale, "form.failed"))
	}
}

// fieldResponse is the JSON body returned by Field.
type fieldResponse struct {
	Errors map[string]string `json:"errors"`
}

// Field applies a single edit to the caller's form and returns the errors
// that are still shown. It backs the as-you-type error clearing.
func (h *PageHandler) Field(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	ctrl, ok := h.sessions.Controller(middleware.GetSessionIDFromContext(r.Context()))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	if err := ctrl.SetField(r.PostForm.Get("name"), r.PostForm.Get("value")); err != nil {
		if errors.Is(err, models.ErrUnknownField) {
			http.Error(w, "unknown field", http.StatusBadRequest)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(fieldResponse{Errors: errorStrings(ctrl.Errors())})
}

// UserData renders the confirmation screen once for the record handed over
// by a successful submit. Without such a record it redirects to the form.
func (h *PageHandler) UserData(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLocaleFromContext(r.Context())

	record, ok := h.sessions.TakePayload(middleware.GetSessionIDFromContext(r.Context()))
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	view := confirmationView{
		Locale:      locale,
		OtherLocale: h.otherLocale(locale),
		FullName:    record.FullName,
		Email:       record.Email,
		RememberMe:  record.RememberMe,
	}
	if h.hasMarkup(record.FullName) {
		h.log.Debug("full name contains markup", zap.String("email", record.Email))
	}
	if err := render(w, http.StatusOK, h.views.confirmation, view); err != nil {
		h.log.Error("render confirmation", zap.Error(err))
	}
}

// Language stores the picked language in a cookie and goes back to the form.
func (h *PageHandler) Language(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if !slices.Contains(h.tr.Supported(), code) {
		http.Error(w, "unsupported language", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.LanguageCookie,
		Value:    code,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) start(w http.ResponseWriter, r *http.Request, locale string) *session.Session {
	ctrl := form.NewController(h.validator, h.gateway, locale, h.log)
	sess := h.sessions.Start(middleware.GetSessionIDFromContext(r.Context()), ctrl)
	middleware.SetSessionCookie(w, sess.ID)
	return sess
}

func (h *PageHandler) renderEntry(w http.ResponseWriter, status int, locale string, snap form.Snapshot, notice string) {
	if notice == "" && snap.LastErr != nil {
		notice = h.tr.T(locale, "form.failed")
	}
	view := entryView{
		Locale:      locale,
		OtherLocale: h.otherLocale(locale),
		Record:      snap.Record,
		Errors:      errorStrings(snap.Errors),
		Notice:      notice,
		Submitting:  snap.State == form.StateSubmitting,
	}
	if err := render(w, status, h.views.entry, view); err != nil {
		h.log.Error("render entry", zap.Error(err))
	}
}

// hasMarkup reports whether s holds anything the strict policy would strip.
// The value itself is always shown as typed; the template escapes it.
func (h *PageHandler) hasMarkup(s string) bool {
	return html.UnescapeString(h.policy.Sanitize(s)) != s
}

// otherLocale is the target of the language switch.
func (h *PageHandler) otherLocale(locale string) string {
	for _, code := range h.tr.Supported() {
		if code != locale {
			return code
		}
	}
	return locale
}

func errorStrings(errs models.ErrorSet) map[string]string {
	out := make(map[string]string, len(errs))
	for field, msg := range errs {
		out[string(field)] = msg
	}
	return out
}
