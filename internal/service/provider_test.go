package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seo-monitor/internal/config"
	"seo-monitor/pkg/api"
	"seo-monitor/pkg/render"
	"seo-monitor/pkg/stats"
	"seo-monitor/pkg/storage"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	stats *stats.DomainStats
	err   error
}

func (f *fakeFetcher) DomainStats(ctx context.Context, domain, country string, period stats.Period) (*stats.DomainStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	s := *f.stats
	s.Domain, s.Country = domain, country
	return &s, nil
}

func (f *fakeFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var auTarget = config.DomainTarget{Domain: "gambling.com", Country: "AU", Label: "gambling.com AU", Flag: "🇦🇺"}

func liveStats() *stats.DomainStats {
	change := 10.0
	return &stats.DomainStats{
		OrganicKeywords: stats.Metric{Value: 110, ChangePct: &change, Sparkline: []float64{100, 110}},
		AuthorityScore:  61,
		Source:          stats.SourceLive,
	}
}

func newCache(t *testing.T) *storage.MemoryCache {
	cache := storage.NewMemoryCacheWithTTL(16, time.Hour)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestStatsProvider_MockMode(t *testing.T) {
	p := NewMockProvider(newCache(t), mockBanner)

	result := p.Fetch(context.Background(), auTarget, stats.PeriodMonth)

	require.NotNil(t, result.Stats)
	assert.Equal(t, stats.SourceMock, result.Stats.Source)
	assert.Equal(t, 6400.0, result.Stats.OrganicKeywords.Value)
	assert.Empty(t, result.Notices)
	assert.True(t, p.Mode().Mock)
	assert.Equal(t, render.LevelInfo, p.Mode().Banner.Level)
}

func TestStatsProvider_LiveModeCaches(t *testing.T) {
	fetcher := &fakeFetcher{stats: liveStats()}
	p := NewLiveProvider(fetcher, newCache(t))
	ctx := context.Background()

	first := p.Fetch(ctx, auTarget, stats.PeriodMonth)
	second := p.Fetch(ctx, auTarget, stats.PeriodMonth)

	assert.Equal(t, 1, fetcher.count())
	assert.Equal(t, stats.SourceLive, first.Stats.Source)
	assert.Equal(t, 110.0, second.Stats.OrganicKeywords.Value)
	assert.False(t, p.Mode().Mock)
	assert.Equal(t, render.LevelSuccess, p.Mode().Banner.Level)

	p.Fetch(ctx, auTarget, stats.PeriodYear)
	assert.Equal(t, 2, fetcher.count(), "a different period is a different cache entry")
}

func TestStatsProvider_RefreshBypassesCache(t *testing.T) {
	fetcher := &fakeFetcher{stats: liveStats()}
	p := NewLiveProvider(fetcher, newCache(t))
	ctx := context.Background()

	p.Fetch(ctx, auTarget, stats.PeriodMonth)
	p.Refresh(ctx, auTarget, stats.PeriodMonth)
	p.Fetch(ctx, auTarget, stats.PeriodMonth)

	assert.Equal(t, 2, fetcher.count())
}

func TestStatsProvider_FallbackOnNotFound(t *testing.T) {
	err := &api.StatusError{Endpoint: api.EndpointPositions, StatusCode: 404, Body: "not found"}
	fetcher := &fakeFetcher{err: err}
	p := NewLiveProvider(fetcher, newCache(t))

	result := p.Fetch(context.Background(), auTarget, stats.PeriodMonth)

	assert.Equal(t, stats.SourceMock, result.Stats.Source)
	assert.Equal(t, 6400.0, result.Stats.OrganicKeywords.Value)
	require.Len(t, result.Notices, 3)
	assert.Equal(t, render.LevelError, result.Notices[0].Level)
	assert.Contains(t, result.Notices[0].Message, "Ahrefs API Error for gambling.com")
	assert.Contains(t, result.Notices[1].Message, "may not be available in your plan")
	assert.Contains(t, result.Notices[2].Message, "Falling back to mock data")
}

func TestStatsProvider_FallbackOnServerError(t *testing.T) {
	err := &api.StatusError{Endpoint: api.EndpointBacklinks, StatusCode: 503}
	p := NewLiveProvider(&fakeFetcher{err: err}, newCache(t))

	result := p.Fetch(context.Background(), auTarget, stats.PeriodMonth)

	require.Len(t, result.Notices, 2)
	assert.NotContains(t, result.Notices[1].Message, "plan")
}

func TestStatsProvider_FallbackOnOtherErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		level   render.Level
		message string
	}{
		{"missing token", api.ErrMissingToken, render.LevelWarning, "API key not configured"},
		{"transport", errors.New("dial tcp: connection refused"), render.LevelError, "Error fetching data for gambling.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewLiveProvider(&fakeFetcher{err: tt.err}, newCache(t))

			result := p.Fetch(context.Background(), auTarget, stats.PeriodMonth)

			assert.Equal(t, stats.SourceMock, result.Stats.Source)
			require.NotEmpty(t, result.Notices)
			assert.Equal(t, tt.level, result.Notices[0].Level)
			assert.Contains(t, result.Notices[0].Message, tt.message)
		})
	}
}

func TestStatsProvider_FallbackIsCached(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	p := NewLiveProvider(fetcher, newCache(t))

	p.Fetch(context.Background(), auTarget, stats.PeriodMonth)
	result := p.Fetch(context.Background(), auTarget, stats.PeriodMonth)

	assert.Equal(t, 1, fetcher.count())
	assert.NotEmpty(t, result.Notices)
}

func TestNewProviderFromConfig(t *testing.T) {
	tests := []struct {
		name   string
		ahrefs config.AhrefsConfig
		mock   bool
		level  render.Level
	}{
		{"mock enabled", config.AhrefsConfig{MockEnabled: true}, true, render.LevelInfo},
		{"mock forced", config.AhrefsConfig{MockForced: true}, true, render.LevelWarning},
		{"live without token", config.AhrefsConfig{}, true, render.LevelWarning},
		{"live", config.AhrefsConfig{APIToken: "secret", BaseURL: "http://localhost", Timeout: time.Second}, false, render.LevelSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProviderFromConfig(&config.Config{Ahrefs: tt.ahrefs}, newCache(t))

			require.NoError(t, err)
			assert.Equal(t, tt.mock, p.Mode().Mock)
			assert.Equal(t, tt.level, p.Mode().Banner.Level)
		})
	}
}
