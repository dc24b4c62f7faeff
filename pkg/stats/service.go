package stats

import (
	"context"
	"fmt"
	"time"

	"seo-monitor/pkg/api"
	"seo-monitor/pkg/logger"
)

// Service assembles DomainStats from the vendor API.
type Service struct {
	client api.Client
	now    func() time.Time
	log    *logger.Logger
}

func NewService(client api.Client) *Service {
	return &Service{
		client: client,
		now:    time.Now,
		log:    logger.GetLogger().WithField("component", "stats_service"),
	}
}

// WithClock replaces the service's notion of today. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// DomainStats fetches the current and previous windows for positions and
// backlinks, computes period-over-period changes and looks up the domain
// rating. The first API error aborts the whole fetch.
func (s *Service) DomainStats(ctx context.Context, domain, country string, period Period) (*DomainStats, error) {
	current, previous := PeriodDates(period, s.now())
	log := s.log.WithFields(map[string]interface{}{
		"domain":  domain,
		"country": country,
		"period":  string(period),
	})

	curPositions, err := s.client.PositionsOverview(ctx, domain, country, current.From, current.To)
	if err != nil {
		return nil, fmt.Errorf("positions overview (current) for %s: %w", domain, err)
	}
	curBacklinks, err := s.client.BacklinksOverview(ctx, domain, current.From, current.To)
	if err != nil {
		return nil, fmt.Errorf("backlinks overview (current) for %s: %w", domain, err)
	}
	prevPositions, err := s.client.PositionsOverview(ctx, domain, country, previous.From, previous.To)
	if err != nil {
		return nil, fmt.Errorf("positions overview (previous) for %s: %w", domain, err)
	}
	prevBacklinks, err := s.client.BacklinksOverview(ctx, domain, previous.From, previous.To)
	if err != nil {
		return nil, fmt.Errorf("backlinks overview (previous) for %s: %w", domain, err)
	}

	result := &DomainStats{
		Domain:          domain,
		Country:         country,
		OrganicKeywords: compare(curPositions, prevPositions, OrganicKeywords),
		OrganicTraffic:  compare(curPositions, prevPositions, OrganicTraffic),
		PaidKeywords:    compare(curPositions, prevPositions, PaidKeywords),
		PaidTraffic:     compare(curPositions, prevPositions, PaidTraffic),
		RefDomains:      compare(curBacklinks, prevBacklinks, RefDomains),
		Source:          SourceLive,
	}

	batch, err := s.client.BatchDomainMetrics(ctx, []string{domain})
	if err != nil {
		return nil, fmt.Errorf("batch domain metrics for %s: %w", domain, err)
	}
	result.AuthorityScore = ExtractDomainRating(batch, domain)

	log.WithFields(map[string]interface{}{
		"organic_keywords": result.OrganicKeywords.Value,
		"ref_domains":      result.RefDomains.Value,
		"authority_score":  result.AuthorityScore,
	}).Debug("Domain stats assembled")

	return result, nil
}

func compare(current, previous map[string]any, field Field) Metric {
	m := ExtractMetric(current, field)
	m.ChangePct = PctChange(m.Value, ExtractMetric(previous, field).Value)
	return m
}
