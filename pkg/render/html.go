package render

import (
	"html/template"
	"io"
)

const (
	sparkWidth  = 120
	sparkHeight = 32
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body{font-family:system-ui,sans-serif;margin:2rem auto;max-width:1100px;color:#222}
nav a{margin-right:.75rem;padding:.25rem .6rem;border-radius:4px;text-decoration:none;color:#444;border:1px solid #ccc}
nav a.active{background:#4b3fbf;color:#fff;border-color:#4b3fbf}
.banner,.notice{padding:.5rem .75rem;border-radius:4px;margin:1rem 0}
.info{background:#e8f1fd}.success{background:#e6f6ea}.warning{background:#fff4dd}.error{background:#fde8e8}
.card{border-top:1px solid #ddd;padding:1rem 0}
.card header{display:flex;justify-content:space-between;align-items:baseline}
.score{font-size:1.5rem;font-weight:600}
.metrics{display:grid;grid-template-columns:repeat(3,1fr);gap:1rem}
.metric .title{color:#666;font-size:.9rem}
.metric .value{font-size:1.6rem;font-weight:600}
.up{color:#0a7d32}.down{color:#c21d1d}.flat{color:#666}
polyline{fill:none;stroke:#4b3fbf;stroke-width:1.5}
footer{color:#888;font-size:.85rem;border-top:1px solid #ddd;padding-top:1rem}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<nav>{{$current := .Period}}{{range .Periods}}<a href="?period={{.}}"{{if eq . $current}} class="active"{{end}}>{{.}}</a>{{end}}</nav>
{{with .Banner}}{{if .Message}}<div class="banner {{.Level}}">{{.Message}}</div>{{end}}{{end}}
{{range .Cards}}
<section class="card" data-source="{{.Source}}">
<header><h2>{{.Label}} {{.Flag}}</h2><div>Authority Score <span class="score">{{formatValue .AuthorityScore}}</span></div></header>
{{range .Notices}}<div class="notice {{.Level}}">{{.Message}}</div>{{end}}
<div class="metrics">
{{range .Metrics}}{{$m := .}}<div class="metric">
<div class="title">{{.Title}}</div>
<div class="value">{{formatValue .Value}} {{with formatDelta .ChangePct}}<span class="{{deltaClass $m.ChangePct}}">{{.}}</span>{{end}}</div>
{{with sparkPoints .Sparkline}}<svg width="120" height="32" viewBox="0 0 120 32"><polyline points="{{.}}"/></svg>{{end}}
</div>{{end}}
</div>
</section>
{{end}}
<footer>{{.Caption}}</footer>
</body>
</html>
`

// HTML renders a page as a standalone HTML document.
type HTML struct {
	tmpl *template.Template
}

func NewHTML() *HTML {
	funcs := template.FuncMap{
		"formatValue": FormatValue,
		"formatDelta": FormatDelta,
		"deltaClass":  DeltaClass,
		"sparkPoints": func(values []float64) string {
			return SparklinePoints(values, sparkWidth, sparkHeight)
		},
	}
	return &HTML{tmpl: template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))}
}

func (h *HTML) Render(w io.Writer, page Page) error {
	return h.tmpl.Execute(w, page)
}
