package stats

// Metric is one KPI with its period-over-period change and recent history.
type Metric struct {
	Value float64 `json:"value"`
	// ChangePct is nil when the previous period had no value to compare against.
	ChangePct *float64  `json:"change_pct"`
	Sparkline []float64 `json:"sparkline"`
}

// Source tells whether stats came from the vendor API or from fixtures.
type Source string

const (
	SourceLive Source = "live"
	SourceMock Source = "mock"
)

// DomainStats is the normalized record for one domain and country.
type DomainStats struct {
	Domain          string  `json:"domain"`
	Country         string  `json:"country"`
	OrganicKeywords Metric  `json:"organic_keywords"`
	OrganicTraffic  Metric  `json:"organic_traffic"`
	PaidKeywords    Metric  `json:"paid_keywords"`
	PaidTraffic     Metric  `json:"paid_traffic"`
	RefDomains      Metric  `json:"ref_domains"`
	AuthorityScore  float64 `json:"authority_score"`
	Source          Source  `json:"source"`
}

// Field names a metric and the keys the vendor has been seen to use for it,
// in the order they should be tried.
type Field struct {
	Name string
	Keys []string
}

var (
	OrganicKeywords = Field{Name: "organic_keywords", Keys: []string{"organic_keywords", "organicKeywords", "keywords", "org_keywords"}}
	OrganicTraffic  = Field{Name: "organic_traffic", Keys: []string{"organic_traffic", "organicTraffic", "traffic", "org_traffic"}}
	PaidKeywords    = Field{Name: "paid_keywords", Keys: []string{"paid_keywords", "paidKeywords", "paid_kw"}}
	PaidTraffic     = Field{Name: "paid_traffic", Keys: []string{"paid_traffic", "paidTraffic"}}
	RefDomains      = Field{Name: "refdomains", Keys: []string{"refdomains", "ref_domains", "referring_domains", "refDomains"}}
	DomainRating    = Field{Name: "domain_rating", Keys: []string{"domain_rating", "dr", "domainRating", "authority_score"}}
)
