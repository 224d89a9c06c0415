package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Goutham-Eda/Carlo/internal/config"
	carlodb "github.com/Goutham-Eda/Carlo/internal/data/db"
	"github.com/Goutham-Eda/Carlo/internal/data/repos"
	"github.com/Goutham-Eda/Carlo/internal/data/seed"
	"github.com/Goutham-Eda/Carlo/internal/observability"
	"github.com/Goutham-Eda/Carlo/internal/pkg/logger"
)

// Version is stamped at build time with -ldflags "-X .../internal/app.Version=...".
var Version = "dev"

type App struct {
	Log        *logger.Logger
	DB         *gorm.DB
	Cfg        *config.Config
	Repos      repos.Set
	Aggregates Aggregates
	Services   Services
	Metrics    *observability.Metrics

	dbService    *carlodb.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context, cfgPath string) (*App, error) {
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Configuration loaded", "env", cfg.Env, "driver", cfg.Database.Driver)

	dbs, err := carlodb.Open(cfg.Database, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := dbs.AutoMigrateAll(); err != nil {
			_ = dbs.Close()
			log.Sync()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	theDB := dbs.DB()

	reposet := wireRepos(theDB, log)

	if _, err := seed.Benchmarks(ctx, theDB, reposet.Benchmarks, log, cfg.Benchmarks.SeedFile); err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, err
	}

	shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		TracingConfig: cfg.Tracing,
		Environment:   cfg.Env,
		Version:       Version,
	})
	metrics := observability.NewMetrics(observability.MetricsConfig{
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Env,
	})

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Aggregates:   wireAggregates(theDB, log, cfg, reposet, metrics),
		Services:     wireServices(log, cfg, reposet, metrics),
		Metrics:      metrics,
		dbService:    dbs,
		otelShutdown: shutdown,
	}, nil
}

// Start launches background listeners. They stop when Close is called or
// ctx is done.
func (a *App) Start(ctx context.Context) {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.Metrics.StartServer(ctx, a.Log, a.Cfg.Metrics.Addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
