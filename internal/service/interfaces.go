package service

import (
	"context"

	"seo-monitor/internal/config"
	"seo-monitor/pkg/stats"
)

// StatsFetcher loads live stats for one domain. *stats.Service implements it.
type StatsFetcher interface {
	DomainStats(ctx context.Context, domain, country string, period stats.Period) (*stats.DomainStats, error)
}

// Provider hands out stats for a monitored target, from cache, the live
// API or fixtures.
type Provider interface {
	Fetch(ctx context.Context, target config.DomainTarget, period stats.Period) Result
	Refresh(ctx context.Context, target config.DomainTarget, period stats.Period) Result
	Mode() Mode
}
