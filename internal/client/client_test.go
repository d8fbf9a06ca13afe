package client

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophSignup/internal/form"
	"github.com/atinyakov/GophSignup/internal/i18n"
	"github.com/atinyakov/GophSignup/internal/models"
	"github.com/atinyakov/GophSignup/internal/validation"
)

// scriptedPrompter answers prompts from per-message queues and records the
// order in which messages were asked.
type scriptedPrompter struct {
	inputs   map[string][]string
	confirms map[string][]bool
	asked    []string
}

func (p *scriptedPrompter) next(message string) (string, error) {
	p.asked = append(p.asked, message)
	q := p.inputs[message]
	if len(q) == 0 {
		return "", ErrAborted
	}
	p.inputs[message] = q[1:]
	return q[0], nil
}

func (p *scriptedPrompter) Input(_ context.Context, message, _ string) (string, error) {
	return p.next(message)
}

func (p *scriptedPrompter) Password(_ context.Context, message string) (string, error) {
	return p.next(message)
}

func (p *scriptedPrompter) Confirm(_ context.Context, message string, _ bool) (bool, error) {
	p.asked = append(p.asked, message)
	q := p.confirms[message]
	if len(q) == 0 {
		return false, ErrAborted
	}
	p.confirms[message] = q[1:]
	return q[0], nil
}

type stubGateway struct {
	errs      []error
	persisted []models.FormRecord
}

func (g *stubGateway) CreateAccount(context.Context, models.FormRecord) error {
	if len(g.errs) == 0 {
		return nil
	}
	err := g.errs[0]
	g.errs = g.errs[1:]
	return err
}

func (g *stubGateway) Persist(_ context.Context, record models.FormRecord) {
	g.persisted = append(g.persisted, record)
}

func newForm(t *testing.T, gw form.Gateway, p Prompter, out *bytes.Buffer) *Form {
	t.Helper()
	catalog, err := i18n.New()
	require.NoError(t, err)

	return &Form{
		Controller: form.NewController(validation.New(catalog), gw, "en", nil),
		Prompter:   p,
		Tr:         catalog,
		Locale:     "en",
		Out:        out,
	}
}

func TestRun_ValidFirstTime(t *testing.T) {
	p := &scriptedPrompter{
		inputs: map[string][]string{
			"Full Name": {"Ada Lovelace"},
			"Email":     {"ada@example.org"},
			"Password":  {"Engine1"},
		},
		confirms: map[string][]bool{"Remember me": {true}},
	}
	gw := &stubGateway{}
	var out bytes.Buffer

	got, err := newForm(t, gw, p, &out).Run(context.Background())
	require.NoError(t, err)

	want := models.FormRecord{FullName: "Ada Lovelace", Email: "ada@example.org", Password: "Engine1", RememberMe: true}
	assert.Equal(t, want, got)
	assert.Equal(t, []models.FormRecord{want}, gw.persisted)

	assert.Contains(t, out.String(), "Account Created!")
	assert.Contains(t, out.String(), "Password: ••••••••")
	assert.Contains(t, out.String(), "Remember Me: Yes")
	assert.NotContains(t, out.String(), "Engine1")
}

func TestRun_ReasksOnlyInvalidFields(t *testing.T) {
	p := &scriptedPrompter{
		inputs: map[string][]string{
			"Full Name": {""},
			"Email":     {"nope", "a@b.com"},
			"Password":  {"abc123"},
		},
		confirms: map[string][]bool{"Remember me": {false}},
	}
	var out bytes.Buffer

	got, err := newForm(t, &stubGateway{}, p, &out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", got.Email)
	assert.Equal(t, []string{"Full Name", "Email", "Password", "Remember me", "Email"}, p.asked)
	assert.Contains(t, out.String(), "Please enter a valid email address")
	assert.Contains(t, out.String(), "Full Name: Not provided")
}

func TestRun_RetryAfterFailure(t *testing.T) {
	p := &scriptedPrompter{
		inputs: map[string][]string{
			"Full Name": {""},
			"Email":     {"a@b.com"},
			"Password":  {"abc123"},
		},
		confirms: map[string][]bool{
			"Remember me":    {false},
			"Create Account": {true},
		},
	}
	gw := &stubGateway{errs: []error{errors.New("backend down")}}
	var out bytes.Buffer

	_, err := newForm(t, gw, p, &out).Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "We could not create your account. Please try again.")
	assert.Len(t, gw.persisted, 1)
}

func TestRun_GiveUpAfterFailure(t *testing.T) {
	p := &scriptedPrompter{
		inputs: map[string][]string{
			"Full Name": {""},
			"Email":     {"a@b.com"},
			"Password":  {"abc123"},
		},
		confirms: map[string][]bool{
			"Remember me":    {false},
			"Create Account": {false},
		},
	}
	gw := &stubGateway{errs: []error{errors.New("backend down")}}

	_, err := newForm(t, gw, p, &bytes.Buffer{}).Run(context.Background())
	assert.ErrorIs(t, err, form.ErrSubmitFailed)
	assert.Empty(t, gw.persisted)
}

func TestRun_Aborted(t *testing.T) {
	p := &scriptedPrompter{inputs: map[string][]string{}, confirms: map[string][]bool{}}

	_, err := newForm(t, &stubGateway{}, p, &bytes.Buffer{}).Run(context.Background())
	assert.ErrorIs(t, err, ErrAborted)
}
