// Package i18n provides the English and Turkish label and message sets used
// by the form screens and the validator.
package i18n

import (
	"embed"
	"fmt"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/tr"
	ut "github.com/go-playground/universal-translator"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when no requested language is supported.
const DefaultLocale = "en"

//go:embed locales/*.yaml
var catalogs embed.FS

// Catalog resolves message keys for the supported locales.
type Catalog struct {
	uni       *ut.UniversalTranslator
	matcher   language.Matcher
	supported []string
}

// New builds a Catalog from the embedded locale files.
func New() (*Catalog, error) {
	translators := []locales.Translator{en.New(), tr.New()}
	tags := []language.Tag{language.English, language.Turkish}

	c := &Catalog{
		uni:     ut.New(translators[0], translators...),
		matcher: language.NewMatcher(tags),
	}

	for _, lt := range translators {
		code := lt.Locale()
		trans, _ := c.uni.GetTranslator(code)
		if err := load(trans, code); err != nil {
			return nil, err
		}
		c.supported = append(c.supported, code)
	}
	return c, nil
}

func load(trans ut.Translator, code string) error {
	data, err := catalogs.ReadFile("locales/" + code + ".yaml")
	if err != nil {
		return fmt.Errorf("read %s catalog: %w", code, err)
	}

	var messages map[string]string
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("parse %s catalog: %w", code, err)
	}

	for key, text := range messages {
		if err := trans.Add(key, text, false); err != nil {
			return fmt.Errorf("add %s/%s: %w", code, key, err)
		}
	}
	return nil
}

// Supported returns the locale codes the catalog can serve.
func (c *Catalog) Supported() []string {
	return append([]string(nil), c.supported...)
}

// Resolve picks the best supported locale for the given preferences. Each
// candidate may be a bare tag ("tr") or a full Accept-Language header value.
// Empty candidates are skipped.
func (c *Catalog) Resolve(candidates ...string) string {
	var prefs []string
	for _, cand := range candidates {
		if s := strings.TrimSpace(cand); s != "" {
			prefs = append(prefs, s)
		}
	}
	if len(prefs) == 0 {
		return DefaultLocale
	}

	tag, _ := language.MatchStrings(c.matcher, prefs...)
	base, _ := tag.Base()
	return base.String()
}

// Translator returns the translator for locale, falling back to English.
func (c *Catalog) Translator(locale string) ut.Translator {
	if trans, ok := c.uni.GetTranslator(locale); ok {
		return trans
	}
	return c.uni.GetFallback()
}

// T translates key for locale. Missing keys fall back to English and then to
// the key itself.
func (c *Catalog) T(locale, key string, params ...string) string {
	if msg, err := c.Translator(locale).T(key, params...); err == nil {
		return msg
	}
	if msg, err := c.uni.GetFallback().T(key, params...); err == nil {
		return msg
	}
	return key
}
