package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// Translator looks up a message for a locale.
type Translator interface {
	T(locale, key string, params ...string) string
	Supported() []string
}

// views holds one parsed template set per screen, each sharing the layout.
type views struct {
	entry        *template.Template
	confirmation *template.Template
}

func parseViews(tr Translator) (*views, error) {
	funcs := template.FuncMap{"t": tr.T}

	parse := func(page string) (*template.Template, error) {
		t, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		return t, nil
	}

	entry, err := parse("entry.html")
	if err != nil {
		return nil, err
	}
	confirmation, err := parse("confirmation.html")
	if err != nil {
		return nil, err
	}
	return &views{entry: entry, confirmation: confirmation}, nil
}

// render executes t into a buffer before any header is written.
func render(w http.ResponseWriter, status int, t *template.Template, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
