// Package app wires configuration, logging, cache, provider and dashboard
// together for the CLI and the server binary.
package app

import (
	"fmt"

	"seo-monitor/internal/config"
	"seo-monitor/internal/service"
	"seo-monitor/pkg/logger"
	"seo-monitor/pkg/storage"
)

type Application struct {
	Config    *config.Config
	Dashboard *service.Dashboard
	Log       *logger.Logger

	cache *storage.MemoryCache
}

// New loads configuration from configPath ("" for defaults and environment)
// and builds the dashboard. debug forces the debug log level.
func New(configPath string, debug bool) (*Application, error) {
	cfg, err := config.NewManager().Load(configPath)
	if err != nil {
		return nil, err
	}

	logCfg := logger.Config(cfg.Logger)
	if debug {
		logCfg.Level = "debug"
	}
	log := logger.Configure(logCfg)

	cache := storage.NewMemoryCacheWithTTL(cfg.Dashboard.CacheSize, cfg.Dashboard.CacheTTL)
	provider, err := service.NewProviderFromConfig(cfg, cache)
	if err != nil {
		_ = cache.Close()
		return nil, fmt.Errorf("failed to build stats provider: %w", err)
	}

	mode := provider.Mode()
	log.WithFields(map[string]interface{}{
		"mock":    mode.Mock,
		"domains": len(cfg.Dashboard.Domains),
		"periods": cfg.Dashboard.Periods,
	}).Info("Dashboard configured")

	return &Application{
		Config:    cfg,
		Dashboard: service.NewDashboard(cfg.Dashboard, provider),
		Log:       log,
		cache:     cache,
	}, nil
}

func (a *Application) Close() error {
	return a.cache.Close()
}
