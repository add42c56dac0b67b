// Package server initializes and runs the backend: it opens the database,
// applies migrations, wires the services behind the HTTP API, and handles
// graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/pressly/goose/v3"

	"github.com/mbelkin/geoauth/internal/logging"
	"github.com/mbelkin/geoauth/internal/server/api"
	"github.com/mbelkin/geoauth/internal/server/config"
	"github.com/mbelkin/geoauth/internal/server/geo"
	"github.com/mbelkin/geoauth/internal/server/history"
	"github.com/mbelkin/geoauth/internal/server/migrations"
	"github.com/mbelkin/geoauth/internal/server/users"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router *echo.Echo
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, cfg.LogLevel)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	userService := users.NewService(users.NewPostgresRepository(db), []byte(cfg.JWTSecret), cfg.TokenTTL)
	historyService := history.NewService(history.NewPostgresRepository(db))

	var resolver geo.Resolver = geo.NewIPInfoResolver(cfg.IPInfo.BaseURL, cfg.IPInfo.Token)
	if rdb, err := geo.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB); err != nil {
		// The cache is an optimization; run without it rather than refuse
		// to start.
		logger.Warn(ctx, "redis unavailable, geo cache disabled", "error", err.Error())
	} else {
		resolver = geo.NewCachedResolver(resolver, rdb, logger)
	}

	router := api.NewRouter(logger, userService, historyService, resolver)

	return &App{config: cfg, logger: logger, db: db, router: router}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := app.router.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "server shutdown error", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "server started", "addr", app.config.Addr)

	if err := app.router.Start(app.config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "server error", "error", err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "env", app.config.Env)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
