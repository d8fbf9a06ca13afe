// Package form holds the state of one account form editing session.
package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/GophSignup/internal/models"
)

var (
	// ErrInvalid is returned by Submit when the record fails validation.
	ErrInvalid = errors.New("form has validation errors")
	// ErrSubmitInProgress is returned by Submit while a submission is running.
	ErrSubmitInProgress = errors.New("submission already in progress")
	// ErrCompleted is returned by Submit once the form has been accepted.
	ErrCompleted = errors.New("form already submitted")
	// ErrSubmitFailed wraps gateway failures returned by Submit.
	ErrSubmitFailed = errors.New("submission failed")
)

// State is the lifecycle stage of a form.
type State int

const (
	// StateEditing accepts edits and submit attempts.
	StateEditing State = iota
	// StateSubmitting means the gateway call is in flight.
	StateSubmitting
	// StateCompleted means the record was accepted.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Validator computes the full error set for a record.
type Validator interface {
	Validate(locale string, record models.FormRecord) models.ErrorSet
}

// Gateway creates the account and stores the accepted record.
type Gateway interface {
	CreateAccount(ctx context.Context, record models.FormRecord) error
	Persist(ctx context.Context, record models.FormRecord)
}

// Snapshot is a point-in-time copy of a Controller's state.
type Snapshot struct {
	Record  models.FormRecord
	Errors  models.ErrorSet
	State   State
	LastErr error
}

// Controller owns the current record and error set of one session.
// It is safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	record  models.FormRecord
	errors  models.ErrorSet
	state   State
	lastErr error
	locale  string

	validator Validator
	gateway   Gateway
	log       *zap.Logger
}

// NewController returns a Controller in the editing state with an empty record.
func NewController(v Validator, gw Gateway, locale string, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		errors:    make(models.ErrorSet),
		locale:    locale,
		validator: v,
		gateway:   gw,
		log:       log,
	}
}

// SetLocale changes the language used for messages on the next submit.
func (c *Controller) SetLocale(locale string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locale = locale
}

// SetField overwrites one field and clears that field's error. Other errors
// are left as they are until the next submit.
func (c *Controller) SetField(name, value string) error {
	field, err := models.ParseField(name)
	if err != nil {
		return fmt.Errorf("%w: %q", err, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case models.FieldFullName:
		c.record.FullName = value
	case models.FieldEmail:
		c.record.Email = value
	case models.FieldPassword:
		c.record.Password = value
	case models.FieldRememberMe:
		c.record.RememberMe = parseCheckbox(value)
	}
	delete(c.errors, field)
	return nil
}

// Submit validates the record and, when it is valid, hands it to the gateway.
// The gateway call runs detached from ctx cancellation. On success the
// accepted record is returned and the controller is completed; on gateway
// failure the controller goes back to editing and keeps the error.
func (c *Controller) Submit(ctx context.Context) (models.FormRecord, error) {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return models.FormRecord{}, ErrSubmitInProgress
	case StateCompleted:
		c.mu.Unlock()
		return models.FormRecord{}, ErrCompleted
	}

	c.errors = c.validator.Validate(c.locale, c.record)
	c.lastErr = nil
	if !c.errors.Valid() {
		c.mu.Unlock()
		return models.FormRecord{}, ErrInvalid
	}

	c.state = StateSubmitting
	record := c.record
	c.mu.Unlock()

	callCtx := context.WithoutCancel(ctx)
	err := c.gateway.CreateAccount(callCtx, record)
	if err == nil {
		c.gateway.Persist(callCtx, record)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateEditing
		c.lastErr = err
		c.log.Error("error creating account", zap.String("email", record.Email), zap.Error(err))
		return models.FormRecord{}, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	c.state = StateCompleted
	return record, nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Record:  c.record,
		Errors:  c.errors.Clone(),
		State:   c.state,
		LastErr: c.lastErr,
	}
}

// Errors returns a copy of the current error set.
func (c *Controller) Errors() models.ErrorSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.Clone()
}

// State returns the current lifecycle stage.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func parseCheckbox(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "on" || v == "yes" {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
