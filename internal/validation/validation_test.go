package validation

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophSignup/internal/i18n"
	"github.com/atinyakov/GophSignup/internal/models"
)

const (
	msgEmailRequired    = "Email is required"
	msgEmailInvalid     = "Please enter a valid email address"
	msgPasswordRequired = "Password is required"
	msgPasswordShort    = "Password must be at least 6 characters"
	msgPasswordAlnum    = "Password must contain only letters and numbers"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		record models.FormRecord
		want   models.ErrorSet
	}{
		{
			name:   "valid record",
			record: models.FormRecord{Email: "a@b.com", Password: "abc123"},
			want:   models.ErrorSet{},
		},
		{
			name:   "empty email and short password",
			record: models.FormRecord{Email: "", Password: "ab"},
			want: models.ErrorSet{
				models.FieldEmail:    msgEmailRequired,
				models.FieldPassword: msgPasswordShort,
			},
		},
		{
			name:   "whitespace only fields",
			record: models.FormRecord{Email: "   ", Password: "\t  \n"},
			want: models.ErrorSet{
				models.FieldEmail:    msgEmailRequired,
				models.FieldPassword: msgPasswordRequired,
			},
		},
		{
			name:   "email without tld",
			record: models.FormRecord{Email: "user@host", Password: "abc123"},
			want:   models.ErrorSet{models.FieldEmail: msgEmailInvalid},
		},
		{
			name:   "email with space",
			record: models.FormRecord{Email: "us er@host.com", Password: "abc123"},
			want:   models.ErrorSet{models.FieldEmail: msgEmailInvalid},
		},
		{
			name:   "email with two at signs",
			record: models.FormRecord{Email: "a@b@c.com", Password: "abc123"},
			want:   models.ErrorSet{models.FieldEmail: msgEmailInvalid},
		},
		{
			name:   "password with symbol",
			record: models.FormRecord{Email: "a@b.com", Password: "abc123!"},
			want:   models.ErrorSet{models.FieldPassword: msgPasswordAlnum},
		},
		{
			name:   "short password with symbol reports too short only",
			record: models.FormRecord{Email: "a@b.com", Password: "a!"},
			want:   models.ErrorSet{models.FieldPassword: msgPasswordShort},
		},
		{
			name:   "password with inner space",
			record: models.FormRecord{Email: "a@b.com", Password: "abc 123"},
			want:   models.ErrorSet{models.FieldPassword: msgPasswordAlnum},
		},
		{
			name:   "full name is never validated",
			record: models.FormRecord{FullName: "<b>!!</b>", Email: "x@y.io", Password: "Secret1", RememberMe: true},
			want:   models.ErrorSet{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.record)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Validate() mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, len(tt.want) == 0, got.Valid())
		})
	}
}

func TestValidate_EmptyPasswordOnlyRequired(t *testing.T) {
	rules := Default().Check(models.FormRecord{Email: "a@b.com", Password: ""})
	assert.Equal(t, map[models.Field]Rule{models.FieldPassword: RuleRequired}, rules)
}

func TestValidate_EmailProperty(t *testing.T) {
	blank := []string{"", " ", "\t", "\n \t"}
	for _, email := range blank {
		errs := Validate(models.FormRecord{Email: email, Password: "abc123"})
		assert.Equal(t, msgEmailRequired, errs[models.FieldEmail], "email %q", email)
	}

	spaced := []string{
		"a b@c.com",
		"a\vb@c.com",
		"a\u00a0b@c.com",
		"a@b.c\u2003om",
		"a@b\u2028.com",
		"a\ufeffb@c.com",
		"a@b.c\u3000om",
	}
	for _, email := range spaced {
		errs := Validate(models.FormRecord{Email: email, Password: "abc123"})
		assert.Equal(t, msgEmailInvalid, errs[models.FieldEmail], "email %q", email)
	}

	for _, email := range []string{"\u00a0", "\v", "\ufeff \u3000"} {
		errs := Validate(models.FormRecord{Email: email, Password: "abc123"})
		assert.Equal(t, msgEmailRequired, errs[models.FieldEmail], "email %q", email)
	}

	matching := []string{"a@b.co", "first.last@example.org", "x+tag@sub.domain.tr", "ü@ö.çom"}
	for _, email := range matching {
		errs := Validate(models.FormRecord{Email: email, Password: "abc123"})
		assert.NotContains(t, errs, models.FieldEmail, "email %q", email)
	}
}

func TestValidate_PasswordProperty(t *testing.T) {
	for _, pw := range []string{"a", "ab1", "abcde", "12345"} {
		rules := Default().Check(models.FormRecord{Email: "a@b.com", Password: pw})
		assert.Equal(t, RuleTooShort, rules[models.FieldPassword], "password %q", pw)
	}
	for _, pw := range []string{"abcdef!", "abc_def", "pässwort1", "abc-123"} {
		rules := Default().Check(models.FormRecord{Email: "a@b.com", Password: pw})
		assert.Equal(t, RuleAlphanumeric, rules[models.FieldPassword], "password %q", pw)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	record := models.FormRecord{Email: "bad", Password: "x!"}
	first := Validate(record)
	second := Validate(record)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Validate() not idempotent (-first +second):\n%s", diff)
	}
}

func TestValidator_Turkish(t *testing.T) {
	catalog, err := i18n.New()
	require.NoError(t, err)

	v := New(catalog)
	errs := v.Validate("tr", models.FormRecord{Email: "", Password: "ab"})

	assert.Equal(t, "E-posta zorunludur", errs[models.FieldEmail])
	assert.Equal(t, "Şifre en az 6 karakter olmalıdır", errs[models.FieldPassword])
}

func TestValidator_NilCatalogReturnsKeys(t *testing.T) {
	v := New(nil)
	errs := v.Validate("en", models.FormRecord{Email: "nope", Password: "abc!!!"})

	assert.Equal(t, "validation.emailInvalid", errs[models.FieldEmail])
	assert.Equal(t, "validation.passwordAlphanumeric", errs[models.FieldPassword])
}

func TestMinPasswordLength_MatchesTag(t *testing.T) {
	field, ok := reflect.TypeOf(models.FormRecord{}).FieldByName("Password")
	require.True(t, ok)
	assert.Contains(t, strings.Split(field.Tag.Get("validate"), ","), "min="+strconv.Itoa(MinPasswordLength))
}

func TestDefault_UsesCatalogText(t *testing.T) {
	errs := Default().Validate("en", models.FormRecord{})
	assert.Equal(t, msgEmailRequired, errs[models.FieldEmail])
	assert.Equal(t, msgPasswordRequired, errs[models.FieldPassword])
}
