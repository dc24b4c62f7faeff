// Package render turns dashboard pages into terminal cards or HTML.
package render

// Level tags banners and notices.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a message shown above the page or inside a card.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// MetricBlock is one titled metric inside a card.
type MetricBlock struct {
	Title     string    `json:"title"`
	Value     float64   `json:"value"`
	ChangePct *float64  `json:"change_pct"`
	Sparkline []float64 `json:"sparkline"`
}

// Card is one monitored domain.
type Card struct {
	Label          string        `json:"label"`
	Flag           string        `json:"flag"`
	Domain         string        `json:"domain"`
	Country        string        `json:"country"`
	Source         string        `json:"source"`
	AuthorityScore float64       `json:"authority_score"`
	Metrics        []MetricBlock `json:"metrics"`
	Notices        []Notice      `json:"notices,omitempty"`
}

// Page is everything a renderer needs.
type Page struct {
	Title   string   `json:"title"`
	Period  string   `json:"period"`
	Periods []string `json:"periods"`
	Banner  Notice   `json:"banner"`
	Cards   []Card   `json:"cards"`
	Caption string   `json:"caption"`
}
