package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			MarginTop(1)

	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	blockStyle  = lipgloss.NewStyle().Width(24).MarginRight(2)
	valueStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	upStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	downStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	sparkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	bannerStyle = map[Level]lipgloss.Style{
		LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// Terminal renders a page as bordered cards for a terminal.
type Terminal struct{}

func NewTerminal() *Terminal {
	return &Terminal{}
}

func (t *Terminal) Render(page Page) string {
	var sections []string

	sections = append(sections, titleStyle.Render(page.Title)+"  "+mutedStyle.Render("Period: "+page.Period))
	if page.Banner.Message != "" {
		sections = append(sections, noticeLine(page.Banner))
	}

	for _, card := range page.Cards {
		sections = append(sections, t.renderCard(card))
	}

	if page.Caption != "" {
		sections = append(sections, "", mutedStyle.Render(page.Caption))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (t *Terminal) renderCard(card Card) string {
	header := labelStyle.Render(strings.TrimSpace(card.Label+" "+card.Flag)) +
		"   " + scoreStyle.Render("Authority Score ") + valueStyle.Render(FormatValue(card.AuthorityScore))

	blocks := make([]string, 0, len(card.Metrics))
	for _, m := range card.Metrics {
		blocks = append(blocks, renderMetric(m))
	}

	lines := []string{header, lipgloss.JoinHorizontal(lipgloss.Top, blocks...)}
	for _, n := range card.Notices {
		lines = append(lines, noticeLine(n))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderMetric(m MetricBlock) string {
	value := valueStyle.Render(FormatValue(m.Value))
	if delta := FormatDelta(m.ChangePct); delta != "" {
		style := mutedStyle
		switch DeltaClass(m.ChangePct) {
		case "up":
			style = upStyle
		case "down":
			style = downStyle
		}
		value += " " + style.Render(delta)
	}

	lines := []string{mutedStyle.Render(m.Title), value}
	if spark := Sparkline(m.Sparkline); spark != "" {
		lines = append(lines, sparkStyle.Render(spark))
	}
	return blockStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func noticeLine(n Notice) string {
	style, ok := bannerStyle[n.Level]
	if !ok {
		style = mutedStyle
	}
	return style.Render(n.Message)
}
