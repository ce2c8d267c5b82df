package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/losaltoshacks/registration-backend/internal/data/db"
	apphttp "github.com/losaltoshacks/registration-backend/internal/http"
	"github.com/losaltoshacks/registration-backend/internal/observability"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *apphttp.Server
	Cfg      Config
	Repos    Repos
	Services Services

	database     *db.Service
	otelShutdown  func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Mode, logger.Options{
		Level:    cfg.Log.Level,
		Redact:   cfg.Log.Redact,
		HashSalt: cfg.Log.HashSalt,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return NewWithConfig(ctx, log, cfg)
}

// NewWithConfig wires the application from an already parsed config.
func NewWithConfig(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	database, err := db.Open(cfg.Database, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(database.DB()); err != nil {
		_ = database.Close()
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := database.DB()

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	sender, err := wireMailSender(ctx, log, cfg)
	if err != nil {
		_ = database.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, sender, metrics)
	handlerset := wireHandlers(log, cfg, database, serviceset)
	middleware := wireMiddleware(log, cfg, serviceset)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		database:     database,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := a.Cfg.Addr()
	a.Log.Info("server listening", "addr", addr)
	return a.Server.Run(ctx, addr)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
