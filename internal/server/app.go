// Package server initializes and runs the dashboard server. It wires the
// database, migrations, the object storage gateway and the HTTP API, and
// handles graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dishubaceh/damprah/internal/logging"
	"github.com/dishubaceh/damprah/internal/server/config"
	"github.com/dishubaceh/damprah/internal/server/documents"
	"github.com/dishubaceh/damprah/internal/server/httpapi"
	"github.com/dishubaceh/damprah/internal/server/repositories/repomanager"
	"github.com/dishubaceh/damprah/internal/server/storage"
	"github.com/dishubaceh/damprah/internal/server/users"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager()
	if err != nil {
		return nil, fmt.Errorf("repository manager init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	gateway, err := storage.NewS3Gateway(ctx, storage.S3Config{
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	us := users.NewService(rm.Users(db), []byte(cfg.SecretKey), cfg.TokenValidityDuration)
	ds := documents.NewService(rm.Documents(db), gateway, logger, cfg.SignedURLTTL)

	srv := httpapi.NewServer(cfg.EndpointAddr, logger, us, ds, cfg.SecretKey)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
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

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server error", "error", err.Error())
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}

	app.logger.Info(ctx, "App stopped")
}
