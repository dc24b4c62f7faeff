// Package mock provides static fixture stats so the dashboard renders
// without API access.
package mock

import "seo-monitor/pkg/stats"

func metric(value, change float64, sparkline ...float64) stats.Metric {
	if sparkline == nil {
		sparkline = []float64{}
	}
	return stats.Metric{Value: value, ChangePct: &change, Sparkline: sparkline}
}

// DomainStats returns realistic-looking fixture stats. gambling.com in AU
// has its own fixture; every other pair gets the default one. The period
// does not change the fixture.
func DomainStats(domain, country string, period stats.Period) *stats.DomainStats {
	if domain == "gambling.com" && country == "AU" {
		return &stats.DomainStats{
			Domain:          domain,
			Country:         country,
			OrganicKeywords: metric(6400, -3.58, 6500, 6480, 6460, 6450, 6420, 6410, 6400),
			OrganicTraffic:  metric(3200, 19.79, 2600, 2700, 2800, 2950, 3100, 3150, 3200),
			PaidKeywords:    metric(0, 0),
			PaidTraffic:     metric(0, 0),
			RefDomains:      metric(41000, 5.65, 38800, 39200, 39900, 40500, 40800, 41000, 41050),
			AuthorityScore:  52,
			Source:          stats.SourceMock,
		}
	}

	return &stats.DomainStats{
		Domain:          domain,
		Country:         country,
		OrganicKeywords: metric(2600, -0.19, 2700, 2680, 2660, 2650, 2630, 2610, 2600),
		OrganicTraffic:  metric(33000, 15.16, 28500, 29000, 30000, 31500, 32000, 32500, 33000),
		PaidKeywords:    metric(0, 0),
		PaidTraffic:     metric(0, 0),
		RefDomains:      metric(41000, 5.65, 39500, 39800, 40000, 40200, 40500, 40800, 41000),
		AuthorityScore:  52,
		Source:          stats.SourceMock,
	}
}
