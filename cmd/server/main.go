// Package main initializes and starts the account sign-up server, setting up
// configuration, logging, storage, services, handlers and optional TLS.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/GophSignup/internal/certgen"
	"github.com/atinyakov/GophSignup/internal/config"
	"github.com/atinyakov/GophSignup/internal/i18n"
	"github.com/atinyakov/GophSignup/internal/logger"
	"github.com/atinyakov/GophSignup/internal/repository"
	"github.com/atinyakov/GophSignup/internal/server/handler/http"
	"github.com/atinyakov/GophSignup/internal/service"
	"github.com/atinyakov/GophSignup/internal/session"
	"github.com/atinyakov/GophSignup/internal/validation"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse flags, config file and environment.
	options, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel, options.LogFormat); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, options, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, options *config.Options, zapLogger *zap.Logger) error {
	// Open the record store selected by configuration.
	store, closeStore, err := repository.Open(ctx, options)
	if err != nil {
		return fmt.Errorf("cannot init storage: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			zapLogger.Warn("failed to close storage", zap.Error(err))
		}
	}()

	if options.TLSCert != "" {
		if err := certgen.Check(options.TLSCert, options.TLSKey); err != nil {
			return fmt.Errorf("cannot load TLS certificate: %w", err)
		}
	}

	catalog, err := i18n.New()
	if err != nil {
		return fmt.Errorf("cannot load translations: %w", err)
	}

	// Business logic and per-browser form sessions.
	accountService := service.NewAccountService(store, options.SubmitDelay, zapLogger)
	sessions := session.NewStore(options.SessionTTL)

	pages, err := http.NewPageHandler(sessions, validation.New(catalog), accountService, catalog, zapLogger)
	if err != nil {
		return err
	}
	records := &http.RecordHandler{RecordService: accountService}

	router := http.NewRouter(pages, records, catalog, options.DefaultLanguage, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		session.RunReaper(gctx, sessions, max(options.SessionTTL/2, time.Second), zapLogger)
		return nil
	})

	g.Go(func() error {
		var err error
		if options.TLSCert != "" {
			zapLogger.Info("starting HTTPS server", zap.String("addr", options.Address), zap.String("storage", options.Storage))
			err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
		} else {
			zapLogger.Info("starting HTTP server", zap.String("addr", options.Address), zap.String("storage", options.Storage))
			err = server.ListenAndServe()
		}
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		zapLogger.Info("shutting down server")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
