// @title Archive API
// @version 1.0
// @description Email capture and password-gated listing for the archive mailing list.
// @BasePath /
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sitearchive/config"
	_ "sitearchive/docs"
	"sitearchive/internal/adapters/auth"
	"sitearchive/internal/adapters/email"
	httpdelivery "sitearchive/internal/delivery/http"
	"sitearchive/internal/delivery/http/controllers"
	"sitearchive/internal/delivery/http/middleware"
	"sitearchive/internal/domain"
	"sitearchive/internal/repository/postgres"
	"sitearchive/internal/repository/sqlite"
	"sitearchive/internal/services"
)

const (
	shutdownTimeout    = 10 * time.Second
	welcomeSendTimeout = 30 * time.Second
)

func main() {
	logger := config.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, repo, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	welcome := services.NewWelcomeDispatcher(emailService, welcomeSendTimeout, logger)

	issuer, verifier, err := auth.NewSessions(cfg.SessionMode, cfg.SessionSecret, cfg.AdminPassword, cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("configure sessions: %w", err)
	}

	archiveService := services.NewArchiveService(repo, welcome, logger)
	authService := services.NewAdminAuthService(auth.NewPasswordChecker(cfg.AdminPassword), issuer)

	archiveController := controllers.NewArchiveController(logger, archiveService, authService)
	router := httpdelivery.NewRouter(archiveController, middleware.RequireArchiveSession(verifier, logger, nil))
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, router))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment, "db_driver", cfg.DBDriver, "session_mode", cfg.SessionMode)
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if serveErr == nil {
		serveErr = srv.Shutdown(shutdownCtx)
	}
	if err := welcome.Wait(shutdownCtx); err != nil {
		logger.Warn("welcome emails still pending at shutdown", "err", err)
	}
	return serveErr
}

func openStore(ctx context.Context, cfg *config.Config) (*sql.DB, domain.ArchiveRepository, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.DBUrl)
		if err != nil {
			return nil, nil, err
		}
		return db, sqlite.NewArchiveRepository(db), nil
	default:
		db, err := postgres.Open(ctx, cfg.DBUrl)
		if err != nil {
			return nil, nil, err
		}
		return db, postgres.NewArchiveRepository(db), nil
	}
}
