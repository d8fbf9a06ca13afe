// Package main runs the account form in the terminal against the same
// storage backends as the server.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/atinyakov/GophSignup/internal/client"
	"github.com/atinyakov/GophSignup/internal/config"
	"github.com/atinyakov/GophSignup/internal/form"
	"github.com/atinyakov/GophSignup/internal/i18n"
	"github.com/atinyakov/GophSignup/internal/logger"
	"github.com/atinyakov/GophSignup/internal/repository"
	"github.com/atinyakov/GophSignup/internal/service"
	"github.com/atinyakov/GophSignup/internal/validation"
)

var (
	version   string
	buildDate string
)

func main() {
	options, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	// warnings only while prompting
	if err := log.Init("warn", "console"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, options, log.Log); err != nil {
		if errors.Is(err, client.ErrAborted) {
			os.Exit(130)
		}
		log.Log.Error("signup failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, options *config.Options, zapLogger *zap.Logger) error {
	fmt.Printf("GophSignup %s (%s)\n\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))

	store, closeStore, err := repository.Open(ctx, options)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	catalog, err := i18n.New()
	if err != nil {
		return err
	}
	locale := catalog.Resolve(options.DefaultLanguage)

	accountService := service.NewAccountService(store, options.SubmitDelay, zapLogger)
	ctrl := form.NewController(validation.New(catalog), accountService, locale, zapLogger)

	f := &client.Form{
		Controller: ctrl,
		Prompter:   client.SurveyPrompter{},
		Tr:         catalog,
		Locale:     locale,
		Out:        os.Stdout,
	}
	fmt.Println(catalog.T(locale, "app.title"))
	_, err = f.Run(ctx)
	return err
}
