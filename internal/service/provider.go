package service

import (
	"context"
	"errors"
	"fmt"

	"seo-monitor/internal/config"
	"seo-monitor/pkg/api"
	"seo-monitor/pkg/logger"
	"seo-monitor/pkg/metrics"
	"seo-monitor/pkg/mock"
	"seo-monitor/pkg/render"
	"seo-monitor/pkg/stats"
	"seo-monitor/pkg/storage"
)

// Mode describes where stats come from and the banner announcing it.
type Mode struct {
	Mock   bool          `json:"mock"`
	Banner render.Notice `json:"banner"`
}

// Result is the outcome of fetching one target. Stats is never nil.
type Result struct {
	Target  config.DomainTarget `json:"target"`
	Stats   *stats.DomainStats  `json:"stats"`
	Notices []render.Notice     `json:"notices,omitempty"`
}

var (
	mockBanner = render.Notice{
		Level:   render.LevelInfo,
		Message: "Using MOCK data. Set USE_MOCK_DATA=false and configure AHREFS_API_TOKEN to use real Ahrefs data.",
	}
	forcedMockBanner = render.Notice{
		Level:   render.LevelWarning,
		Message: "USE_MOCK_DATA is set to false but no API token found. Using mock data.",
	}
	liveBanner = render.Notice{
		Level:   render.LevelSuccess,
		Message: "Using real Ahrefs API data",
	}
)

// StatsProvider picks between live and mock data, falls back to mock data
// on any live failure and caches every result per (domain, country, period).
type StatsProvider struct {
	live  StatsFetcher
	mode  Mode
	cache storage.Cache
	log   *logger.Logger
}

// NewMockProvider never touches the API.
func NewMockProvider(cache storage.Cache, banner render.Notice) *StatsProvider {
	return newStatsProvider(nil, Mode{Mock: true, Banner: banner}, cache)
}

// NewLiveProvider reads from live and falls back to fixtures on failure.
func NewLiveProvider(live StatsFetcher, cache storage.Cache) *StatsProvider {
	return newStatsProvider(live, Mode{Banner: liveBanner}, cache)
}

func newStatsProvider(live StatsFetcher, mode Mode, cache storage.Cache) *StatsProvider {
	return &StatsProvider{
		live:  live,
		mode:  mode,
		cache: cache,
		log:   logger.GetLogger().WithField("component", "stats_provider"),
	}
}

// NewProviderFromConfig builds the provider described by cfg.Ahrefs. Live
// mode without a usable token degrades to mock mode with a warning banner.
func NewProviderFromConfig(cfg *config.Config, cache storage.Cache) (*StatsProvider, error) {
	if cfg.Ahrefs.MockForced {
		logger.GetLogger().Warn("USE_MOCK_DATA=false but no API token found, using mock data")
		return NewMockProvider(cache, forcedMockBanner), nil
	}
	if cfg.Ahrefs.MockEnabled {
		return NewMockProvider(cache, mockBanner), nil
	}

	clientCfg := api.DefaultClientConfig()
	clientCfg.BaseURL = cfg.Ahrefs.BaseURL
	clientCfg.Token = cfg.Ahrefs.APIToken
	clientCfg.Timeout = cfg.Ahrefs.Timeout
	clientCfg.MaxRetries = cfg.Ahrefs.MaxRetries
	clientCfg.RetryDelay = cfg.Ahrefs.RetryDelay
	clientCfg.MaxConcurrent = cfg.Ahrefs.MaxConcurrent
	clientCfg.BreakerThreshold = cfg.Ahrefs.BreakerThreshold
	clientCfg.BreakerCooldown = cfg.Ahrefs.BreakerCooldown

	client, err := api.NewClient(clientCfg)
	if errors.Is(err, api.ErrMissingToken) {
		return NewMockProvider(cache, forcedMockBanner), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Ahrefs client: %w", err)
	}

	return NewLiveProvider(stats.NewService(client), cache), nil
}

func (p *StatsProvider) Mode() Mode {
	return p.mode
}

// Fetch returns cached stats when available, otherwise loads and caches them.
func (p *StatsProvider) Fetch(ctx context.Context, target config.DomainTarget, period stats.Period) Result {
	key := cacheKey(target, period)
	if cached, ok := p.cache.Get(key); ok {
		if result, ok := cached.(Result); ok {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return result
		}
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	result := p.load(ctx, target, period)
	if err := p.cache.Set(key, result); err != nil {
		p.log.WithError(err).Warn("Failed to cache stats")
	}
	return result
}

// Refresh bypasses the cache and replaces the cached entry.
func (p *StatsProvider) Refresh(ctx context.Context, target config.DomainTarget, period stats.Period) Result {
	_ = p.cache.Delete(cacheKey(target, period))
	return p.Fetch(ctx, target, period)
}

func (p *StatsProvider) load(ctx context.Context, target config.DomainTarget, period stats.Period) Result {
	result := Result{Target: target}

	if p.mode.Mock || p.live == nil {
		result.Stats = mock.DomainStats(target.Domain, target.Country, period)
		return result
	}

	live, err := p.live.DomainStats(ctx, target.Domain, target.Country, period)
	if err == nil {
		result.Stats = live
		return result
	}

	reason, notices := describeFailure(target, err)
	metrics.MockFallbacks.WithLabelValues(reason).Inc()
	p.log.WithError(err).WithFields(map[string]interface{}{
		"domain":  target.Domain,
		"country": target.Country,
		"period":  string(period),
		"reason":  reason,
	}).Warn("Live stats failed, falling back to mock data")

	result.Stats = mock.DomainStats(target.Domain, target.Country, period)
	result.Notices = notices
	return result
}

func describeFailure(target config.DomainTarget, err error) (string, []render.Notice) {
	if errors.Is(err, api.ErrMissingToken) {
		return "missing_token", []render.Notice{{
			Level: render.LevelWarning,
			Message: fmt.Sprintf("Ahrefs API key not configured. Using mock data for %s. "+
				"Set AHREFS_API_TOKEN or A_HREFS_API_TOKEN to use real data.", target.Domain),
		}}
	}

	var se *api.StatusError
	if errors.As(err, &se) {
		notices := []render.Notice{{
			Level:   render.LevelError,
			Message: fmt.Sprintf("Ahrefs API Error for %s: %s", target.Domain, logger.GetSecurityLogger().MaskLogMessage(err.Error())),
		}}
		if api.IsNotFound(err) {
			notices = append(notices, render.Notice{
				Level: render.LevelInfo,
				Message: "Tip: Some Ahrefs API endpoints may not be available in your plan. " +
					"The dashboard uses mock data for metrics it cannot fetch.",
			})
		}
		notices = append(notices, render.Notice{
			Level:   render.LevelInfo,
			Message: "Falling back to mock data. Please check your API token, permissions, and endpoint availability.",
		})
		return fmt.Sprintf("http_%d", se.StatusCode), notices
	}

	reason := "error"
	if errors.Is(err, api.ErrCircuitOpen) {
		reason = "circuit_open"
	}
	return reason, []render.Notice{
		{Level: render.LevelError, Message: fmt.Sprintf("Error fetching data for %s: %s", target.Domain, logger.GetSecurityLogger().MaskLogMessage(err.Error()))},
		{Level: render.LevelInfo, Message: "Falling back to mock data."},
	}
}

func cacheKey(target config.DomainTarget, period stats.Period) string {
	return target.Domain + "|" + target.Country + "|" + string(period)
}
