package api

import (
	"context"
	"time"
)

// Payload is a decoded JSON object from the SEO data API. Its shape varies
// between endpoints and response versions; pkg/stats normalizes it.
type Payload map[string]any

// Client wraps the Ahrefs v3 endpoints the dashboard reads.
type Client interface {
	// PositionsOverview returns organic and paid keyword/traffic metrics
	// for domain in country between from and to (inclusive dates).
	PositionsOverview(ctx context.Context, domain, country string, from, to time.Time) (Payload, error)
	// BacklinksOverview returns referring-domain metrics for domain.
	BacklinksOverview(ctx context.Context, domain string, from, to time.Time) (Payload, error)
	// BatchDomainMetrics returns the domain rating for each target.
	BatchDomainMetrics(ctx context.Context, domains []string) (Payload, error)
}
