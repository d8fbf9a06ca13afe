// Package client runs the account form in a terminal.
package client

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted signals the user interrupted the prompts.
var ErrAborted = errors.New("signup: aborted")

// Prompter asks the user for values. It exists so the form flow can be tested
// without a terminal.
type Prompter interface {
	Input(ctx context.Context, message, def string) (string, error)
	Password(ctx context.Context, message string) (string, error)
	Confirm(ctx context.Context, message string, def bool) (bool, error)
}

// SurveyPrompter is the Prompter backed by survey.
type SurveyPrompter struct {
	// Opts are passed to every survey.AskOne call.
	Opts []survey.AskOpt
}

func (p SurveyPrompter) Input(ctx context.Context, message, def string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	if err := survey.AskOne(&survey.Input{Message: message, Default: def}, &out, p.Opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (p SurveyPrompter) Password(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	if err := survey.AskOne(&survey.Password{Message: message}, &out, p.Opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (p SurveyPrompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &out, p.Opts...); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
