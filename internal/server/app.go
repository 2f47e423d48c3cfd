// Package server wires configuration, storage, services and the HTTP API
// together and runs the process until shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/pashield/pashield/internal/cryptox"
	"github.com/pashield/pashield/internal/logging"
	"github.com/pashield/pashield/internal/server/auth"
	"github.com/pashield/pashield/internal/server/config"
	"github.com/pashield/pashield/internal/server/httpapi"
	"github.com/pashield/pashield/internal/server/repositories/repomanager"
	"github.com/pashield/pashield/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	issuer, err := auth.NewIssuer(cfg.SecretKey, cfg.SigningAlgorithm, cfg.AccessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token issuer error: %w", err)
	}

	cipher, err := cryptox.NewCipher(cfg.EncryptionSecret)
	if err != nil {
		return nil, fmt.Errorf("cipher error: %w", err)
	}

	userService := services.NewUserService(db, rm, issuer, logger, cfg)
	secretService := services.NewSecretService(db, rm, cipher)
	iconService := services.NewIconService(cfg)

	handler := httpapi.NewRouter(userService, secretService, iconService, logger)

	return &App{config: cfg, logger: logger, db: db, handler: handler}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{Addr: app.config.EndpointAddr, Handler: app.handler}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "http server error", "error", err.Error())
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err.Error())
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err.Error())
	}

	app.logger.Info(shutdownCtx, "server stopped")
}
