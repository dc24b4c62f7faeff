package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"seo-monitor/internal/config"
	"seo-monitor/pkg/logger"
	"seo-monitor/pkg/render"
	"seo-monitor/pkg/stats"
)

// ErrUnknownPeriod is returned by ResolvePeriod for periods not offered by
// the dashboard.
var ErrUnknownPeriod = errors.New("unknown period")

// Dashboard assembles render pages for the configured domains.
type Dashboard struct {
	cfg      config.DashboardConfig
	provider Provider
	log      *logger.Logger
}

func NewDashboard(cfg config.DashboardConfig, provider Provider) *Dashboard {
	return &Dashboard{
		cfg:      cfg,
		provider: provider,
		log:      logger.GetLogger().WithField("component", "dashboard"),
	}
}

// Mode reports the provider's data mode.
func (d *Dashboard) Mode() Mode {
	return d.provider.Mode()
}

// ResolvePeriod maps a request value onto one of the offered periods.
// An empty value selects the default period.
func (d *Dashboard) ResolvePeriod(value string) (stats.Period, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = d.cfg.DefaultPeriod
	}
	for _, offered := range d.cfg.Periods {
		if strings.EqualFold(offered, value) {
			return stats.ParsePeriod(offered)
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, value)
}

// Page fetches every domain for period and builds the render model. Cards
// keep the configured order.
func (d *Dashboard) Page(ctx context.Context, period stats.Period) render.Page {
	results := d.fetchAll(ctx, period, d.provider.Fetch)

	cards := make([]render.Card, 0, len(results))
	for _, result := range results {
		cards = append(cards, buildCard(result))
	}

	return render.Page{
		Title:   d.cfg.Title,
		Period:  string(period),
		Periods: append([]string(nil), d.cfg.Periods...),
		Banner:  d.provider.Mode().Banner,
		Cards:   cards,
		Caption: d.cfg.Caption,
	}
}

// Warm refreshes every domain for every offered period.
func (d *Dashboard) Warm(ctx context.Context) error {
	for _, name := range d.cfg.Periods {
		period, err := stats.ParsePeriod(name)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		results := d.fetchAll(ctx, period, d.provider.Refresh)
		d.log.WithFields(map[string]interface{}{
			"period":  name,
			"domains": len(results),
		}).Debug("Dashboard cache warmed")
	}
	return nil
}

type fetchFunc func(ctx context.Context, target config.DomainTarget, period stats.Period) Result

func (d *Dashboard) fetchAll(ctx context.Context, period stats.Period, fetch fetchFunc) []Result {
	results := make([]Result, len(d.cfg.Domains))

	// fetch never fails; failures come back as mock results with notices.
	var g errgroup.Group
	for i, target := range d.cfg.Domains {
		g.Go(func() error {
			results[i] = fetch(ctx, target, period)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func buildCard(result Result) render.Card {
	s := result.Stats
	return render.Card{
		Label:          result.Target.DisplayLabel(),
		Flag:           result.Target.Flag,
		Domain:         result.Target.Domain,
		Country:        result.Target.Country,
		Source:         string(s.Source),
		AuthorityScore: s.AuthorityScore,
		Metrics: []render.MetricBlock{
			block("Organic Keywords", s.OrganicKeywords),
			block("Organic Traffic", s.OrganicTraffic),
			block("Ref. Domains", s.RefDomains),
		},
		Notices: result.Notices,
	}
}

func block(title string, m stats.Metric) render.MetricBlock {
	return render.MetricBlock{
		Title:     title,
		Value:     m.Value,
		ChangePct: m.ChangePct,
		Sparkline: m.Sparkline,
	}
}
