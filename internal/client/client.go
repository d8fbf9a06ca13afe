package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/atinyakov/GophSignup/internal/form"
	"github.com/atinyakov/GophSignup/internal/models"
)

const maskedPassword = "••••••••"

// Translator looks up a message for a locale.
type Translator interface {
	T(locale, key string, params ...string) string
}

// Form runs one form session through a Prompter.
type Form struct {
	Controller *form.Controller
	Prompter   Prompter
	Tr         Translator
	Locale     string
	Out        io.Writer
}

// Run prompts for every field, then submits. After a rejected submit only the
// invalid fields are asked again. It returns the accepted record.
func (f *Form) Run(ctx context.Context) (models.FormRecord, error) {
	ask := models.Fields
	for {
		for _, field := range ask {
			if err := f.askField(ctx, field); err != nil {
				return models.FormRecord{}, err
			}
		}

		fmt.Fprintln(f.Out, f.t("form.submitting"))
		record, err := f.Controller.Submit(ctx)
		switch {
		case err == nil:
			f.printConfirmation(record)
			return record, nil
		case errors.Is(err, form.ErrInvalid):
			ask = f.printErrors()
		case errors.Is(err, form.ErrSubmitFailed):
			fmt.Fprintln(f.Out, f.t("form.failed"))
			retry, perr := f.Prompter.Confirm(ctx, f.t("form.submit"), true)
			if perr != nil {
				return models.FormRecord{}, perr
			}
			if !retry {
				return models.FormRecord{}, err
			}
			ask = nil
		default:
			return models.FormRecord{}, err
		}
	}
}

func (f *Form) askField(ctx context.Context, field models.Field) error {
	current := f.Controller.Snapshot().Record
	label := f.t("form." + string(field) + ".label")

	var (
		value string
		err   error
	)
	switch field {
	case models.FieldFullName:
		value, err = f.Prompter.Input(ctx, label, current.FullName)
	case models.FieldEmail:
		value, err = f.Prompter.Input(ctx, label, current.Email)
	case models.FieldPassword:
		value, err = f.Prompter.Password(ctx, label)
	case models.FieldRememberMe:
		var checked bool
		checked, err = f.Prompter.Confirm(ctx, label, current.RememberMe)
		value = strconv.FormatBool(checked)
	}
	if err != nil {
		return err
	}
	return f.Controller.SetField(string(field), value)
}

// printErrors writes the current errors in field order and returns the
// fields they belong to.
func (f *Form) printErrors() []models.Field {
	errs := f.Controller.Errors()
	var invalid []models.Field
	for _, field := range models.Fields {
		msg, ok := errs[field]
		if !ok {
			continue
		}
		fmt.Fprintf(f.Out, "  %s\n", msg)
		invalid = append(invalid, field)
	}
	return invalid
}

func (f *Form) printConfirmation(record models.FormRecord) {
	name := record.FullName
	if name == "" {
		name = f.t("userData.notProvided")
	}
	remember := f.t("userData.no")
	if record.RememberMe {
		remember = f.t("userData.yes")
	}

	fmt.Fprintln(f.Out)
	fmt.Fprintln(f.Out, f.t("userData.title"))
	fmt.Fprintln(f.Out, f.t("userData.subtitle"))
	fmt.Fprintln(f.Out)
	fmt.Fprintln(f.Out, f.t("userData.info"))
	fmt.Fprintf(f.Out, "  %s %s\n", f.t("userData.fullname"), name)
	fmt.Fprintf(f.Out, "  %s %s\n", f.t("userData.email"), record.Email)
	fmt.Fprintf(f.Out, "  %s %s\n", f.t("userData.password"), maskedPassword)
	fmt.Fprintf(f.Out, "  %s %s\n", f.t("userData.rememberMe"), remember)
	fmt.Fprintln(f.Out)
	fmt.Fprintln(f.Out, f.t("userData.thanks"))
}

func (f *Form) t(key string) string {
	return f.Tr.T(f.Locale, key)
}
