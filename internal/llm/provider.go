// Package llm generates the optional capture-plan narrative for a report
// through an OpenAI-compatible provider. It runs after the engine and
// never feeds back into records, counts or stats.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/capturadex/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a capture-plan summary for the report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for summarization
type SummarizeRequest struct {
	// Report is the finished scan report to summarize
	Report model.Report

	// Prompt overrides the default prompt when non-empty
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the generated summary
type SummarizeResponse struct {
	Summary    string // Markdown summary text
	Model      string // Model that generated it
	TokensUsed int    // Token consumption
}

// Config holds LLM provider configuration
type Config struct {
	Provider  string // "openai" or "" (disabled)
	Model     string // Model name
	APIKey    string
	BaseURL   string // Custom endpoint for OpenAI-compatible servers
	Timeout   int    // Seconds per API request
	MaxTokens int
}

// DefaultConfig returns sensible defaults (disabled)
func DefaultConfig() Config {
	return Config{
		Timeout:   30,
		MaxTokens: 800,
	}
}

// NewProvider creates a provider from configuration. An empty provider
// name disables the LLM layer and returns (nil, nil).
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	cfg := DefaultConfig()
	cfg.Provider = modelConfig.Provider
	cfg.Model = modelConfig.Model
	cfg.APIKey = modelConfig.APIKey
	cfg.BaseURL = modelConfig.BaseURL
	return cfg
}

// BuildPrompt constructs the default capture-plan prompt from the report.
// Only data already in the report goes in; the model is asked to plan, not
// to invent availability facts.
func BuildPrompt(report model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are writing a short capture plan from a dex availability report for %s.

RULES:
1. Use ONLY the numbers and names below. Do not invent Pokémon, locations, or counts.
2. "Needed" is how many times an ancestor must be caught to realize every evolution that terminates at it.
3. Plain Markdown, 4-6 sentences plus one list.

Report:
- Records: %d (%d capturable, %d evolution-only)
- Total captures required: %d

Most needed ancestors:
`, report.Game, report.Stats.Total, report.Stats.Capturable, report.Stats.EvolutionOnly, report.Stats.TotalNeeded)

	if len(report.Stats.TopNeeded) == 0 {
		b.WriteString("(none)\n")
	}
	for _, e := range report.Stats.TopNeeded {
		fmt.Fprintf(&b, "- %s: %d\n", e.Name, e.Needed)
	}

	if len(report.Stats.Signals) > 0 {
		b.WriteString("\nSignals:\n")
		for i, signal := range report.Stats.Signals {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&b, "- %s: %s\n", signal.Type, signal.Description)
		}
	}

	b.WriteString("\nSummarize where the capture effort concentrates and which chains to start first.")

	return b.String()
}
