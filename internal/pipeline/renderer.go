package pipeline

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/ppiankov/capturadex/internal/model"
)

// Renderer writes scan reports as JSON, as the HTML capture table, and as
// a terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as an indented JSON document
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

const htmlReport = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Capturadex — {{.Game}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.6em; text-align: left; vertical-align: top; }
th { background: #f0f0f0; }
tr.capturable td.flag { color: #1a7f37; }
tr.locked td.flag { color: #b35900; }
.needed { text-align: right; }
</style>
</head>
<body>
<h1>{{.Game}}</h1>
<p>{{.Stats.Total}} Pokémon — {{.Stats.Capturable}} capturables, {{.Stats.EvolutionOnly}} solo por evolución. Capturas totales necesarias: {{.Stats.TotalNeeded}}.</p>
<table>
<tr><th>N.º</th><th>Pokémon</th><th>Obtención</th><th>Capturable</th><th>Necesarios</th></tr>
{{range .Pokemon}}<tr class="{{if .Capturable}}capturable{{else}}locked{{end}}">
<td>{{.Number}}</td>
<td><a href="{{.Link}}">{{.Name}}</a></td>
<td>{{range .Obtain}}{{formatMethod .}}<br>{{end}}</td>
<td class="flag">{{if .Capturable}}Sí{{else}}No{{end}}</td>
<td class="needed">{{neededCell .}}</td>
</tr>
{{end}}</table>
{{if .Footer}}<p><small>Generated by capturadex from {{.SourceURL}} at {{.FetchedAt.Format "2006-01-02 15:04 MST"}}</small></p>{{end}}
</body>
</html>
`

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"formatMethod": formatMethod,
	"neededCell":   neededCell,
}).Parse(htmlReport))

// formatMethod renders one parsed obtain method back as a single line
func formatMethod(m model.ObtainMethod) string {
	if m.Location == "" {
		return m.Method
	}
	return m.Method + ": " + m.Location
}

// neededCell renders the demand counter, blank when absent
func neededCell(p model.Pokemon) string {
	if p.Needed == nil {
		return ""
	}
	return fmt.Sprintf("%d", *p.Needed)
}

// RenderHTML writes the capture table, the artifact the viewer opens
func (r *Renderer) RenderHTML(report *model.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() { _ = f.Close() }()

	data := struct {
		*model.Report
		Footer bool
	}{Report: report, Footer: r.includeFooter}

	if err := htmlTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("render template: %w", err)
	}

	return nil
}

// RenderLLMMarkdown writes the separate LLM summary document
func (r *Renderer) RenderLLMMarkdown(markdown string, path string) error {
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("write LLM summary: %w", err)
	}
	return nil
}

// RenderSummary prints the report summary to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Printf("\n%s — %s\n", report.Game, report.SourceURL)
	fmt.Printf("  Pokémon:        %d\n", report.Stats.Total)
	fmt.Printf("  Capturable:     %d\n", report.Stats.Capturable)
	fmt.Printf("  Evolution-only: %d\n", report.Stats.EvolutionOnly)
	fmt.Printf("  Captures total: %d\n", report.Stats.TotalNeeded)

	if len(report.Stats.TopNeeded) > 0 {
		var parts []string
		for _, e := range report.Stats.TopNeeded {
			parts = append(parts, fmt.Sprintf("%s ×%d", e.Name, e.Needed))
		}
		fmt.Printf("  Most needed:    %s\n", strings.Join(parts, ", "))
	}

	for _, signal := range report.Stats.Signals {
		fmt.Printf("  [%s] %s\n", signal.Severity, signal.Description)
	}
	fmt.Println()
}
