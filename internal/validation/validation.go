// Package validation checks a FormRecord against the account form rules and
// reports one message per invalid field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/atinyakov/GophSignup/internal/i18n"
	"github.com/atinyakov/GophSignup/internal/models"
)

// Rule identifies which check a field failed.
type Rule string

const (
	// RuleRequired means the value is empty or whitespace only.
	RuleRequired Rule = "required"
	// RuleEmailFormat means the email does not look like local@domain.tld.
	RuleEmailFormat Rule = "invalid_format"
	// RuleTooShort means the password has fewer than MinPasswordLength characters.
	RuleTooShort Rule = "too_short"
	// RuleAlphanumeric means the password holds something other than ASCII letters and digits.
	RuleAlphanumeric Rule = "not_alphanumeric"
)

// MinPasswordLength must match the min tag on FormRecord.Password.
const MinPasswordLength = 6

// emailPattern is local@domain.tld where no part holds whitespace. The class
// covers every Unicode space separator, not only ASCII whitespace.
var emailPattern = regexp.MustCompile(
	`^[^@\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]+@[^@\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]+\.[^@\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]+$`,
)

var messageKeys = map[models.Field]map[Rule]string{
	models.FieldEmail: {
		RuleRequired:    "validation.emailRequired",
		RuleEmailFormat: "validation.emailInvalid",
	},
	models.FieldPassword: {
		RuleRequired:     "validation.passwordRequired",
		RuleTooShort:     "validation.passwordMinLength",
		RuleAlphanumeric: "validation.passwordAlphanumeric",
	},
}

var tagRules = map[string]Rule{
	"notblank":    RuleRequired,
	"simpleemail": RuleEmailFormat,
	"min":         RuleTooShort,
	"alphanum":    RuleAlphanumeric,
}

// Validator applies the form rules. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	catalog  *i18n.Catalog
}

// New returns a Validator whose messages come from catalog. A nil catalog
// yields message keys instead of text.
func New(catalog *i18n.Catalog) *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimFunc(fl.Field().String(), isBlank) != ""
	})
	_ = v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v, catalog: catalog}
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
)

// Default returns a shared Validator backed by the embedded catalogs. It
// panics if they cannot be loaded.
func Default() *Validator {
	defaultOnce.Do(func() {
		catalog, err := i18n.New()
		if err != nil {
			// the catalogs are embedded, so this is a build defect
			panic(fmt.Sprintf("validation: load catalogs: %v", err))
		}
		defaultValidator = New(catalog)
	})
	return defaultValidator
}

// Validate checks record and returns English messages.
func Validate(record models.FormRecord) models.ErrorSet {
	return Default().Validate(i18n.DefaultLocale, record)
}

// Check returns the failed rule per field. Only the first failing rule of a
// field is reported; every field is checked.
func (v *Validator) Check(record models.FormRecord) map[models.Field]Rule {
	rules := make(map[models.Field]Rule)

	err := v.validate.Struct(record)
	if err == nil {
		return rules
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return rules
	}
	for _, fe := range verrs {
		field := models.Field(fe.Field())
		if _, seen := rules[field]; seen {
			continue
		}
		if rule, ok := tagRules[fe.Tag()]; ok {
			rules[field] = rule
		}
	}
	return rules
}

// Validate checks record and returns messages in locale.
func (v *Validator) Validate(locale string, record models.FormRecord) models.ErrorSet {
	errs := make(models.ErrorSet)
	for field, rule := range v.Check(record) {
		errs[field] = v.message(locale, field, rule)
	}
	return errs
}

func (v *Validator) message(locale string, field models.Field, rule Rule) string {
	key, ok := messageKeys[field][rule]
	if !ok {
		key = "validation." + string(field) + "." + string(rule)
	}
	if v.catalog == nil {
		return key
	}

	var params []string
	if rule == RuleTooShort {
		params = append(params, strconv.Itoa(MinPasswordLength))
	}
	return v.catalog.T(locale, key, params...)
}

func isBlank(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
