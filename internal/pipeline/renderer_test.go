package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/capturadex/internal/model"
)

func sampleReport() *model.Report {
	needed := 2
	return &model.Report{
		Game:      "Rojo",
		SourceURL: "https://example.org/wiki/Lista_rojo",
		FetchedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Pokemon: []model.Pokemon{
			{
				Name:   "Pidgey",
				Number: "016",
				Link:   "https://example.org/wiki/Pidgey",
				Obtain: []model.ObtainMethod{
					{Method: "Pokémon salvaje", Location: "Ruta 1"},
				},
				Capturable: true,
				Needed:     &needed,
			},
			{
				Name:   "Pidgeotto",
				Number: "017",
				Link:   "https://example.org/wiki/Pidgeotto",
				Obtain: []model.ObtainMethod{
					{Method: "Evolucionar", Location: "Evolucionar Pidgey"},
				},
			},
		},
		Stats: model.Stats{Total: 2, Capturable: 1, EvolutionOnly: 1, TotalNeeded: 2},
	}
}

func TestRenderer_RenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	if err := NewRenderer(true).RenderJSON(sampleReport(), path); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if len(decoded.Pokemon) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(decoded.Pokemon))
	}
	if decoded.Pokemon[0].Needed == nil || *decoded.Pokemon[0].Needed != 2 {
		t.Errorf("Expected needed == 2 in decoded report, got %v", decoded.Pokemon[0].Needed)
	}
	if strings.Contains(string(data), `"needed"`) && decoded.Pokemon[1].Needed != nil {
		t.Error("Expected absent needed counter to stay absent after round trip")
	}
}

func TestRenderer_RenderHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")

	if err := NewRenderer(true).RenderHTML(sampleReport(), path); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	html := string(data)

	for _, want := range []string{
		"Pidgey",
		"Pokémon salvaje: Ruta 1",
		"Sí",
		"Generated by capturadex",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected HTML to contain %q", want)
		}
	}
	if !strings.Contains(html, ">2<") {
		t.Error("Expected needed counter rendered in its cell")
	}
}

func TestRenderer_RenderHTML_NoFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")

	if err := NewRenderer(false).RenderHTML(sampleReport(), path); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if strings.Contains(string(data), "Generated by capturadex") {
		t.Error("Expected no footer when disabled")
	}
}

func TestRenderer_RenderLLMMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.llm.md")

	if err := NewRenderer(true).RenderLLMMarkdown("## Plan\n\nCatch Pidgey twice.", path); err != nil {
		t.Fatalf("RenderLLMMarkdown: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	if !strings.Contains(string(data), "Catch Pidgey twice.") {
		t.Error("Expected markdown body written verbatim")
	}
}
