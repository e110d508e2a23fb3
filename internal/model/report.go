package model

import "time"

// Report represents the complete capturadex availability report for one
// dex page: the annotated, demand-propagated collection plus aggregate
// diagnostics and fetch metadata.
type Report struct {
	Game      string    `json:"game"`       // Game/region the dex page covers (derived from the URL)
	SourceURL string    `json:"source_url"` // URL that was scraped
	FetchedAt time.Time `json:"fetched_at"` // When the scrape occurred
	FetchMeta FetchMeta `json:"fetch_meta"` // HTTP metadata

	Pokemon []Pokemon `json:"pokemon"` // Annotated records, dex order

	Stats Stats `json:"stats"` // Aggregate availability diagnostics

	LLM *LLMSummary `json:"llm,omitempty"` // Optional LLM capture-plan summary (never affects records)
}

// FetchMeta contains HTTP metadata from fetching the source page
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	FromCache    bool              `json:"from_cache"` // Page served from the layered cache
}

// Stats represents the aggregate view over a propagated collection
type Stats struct {
	Total         int           `json:"total"`            // Records in the collection
	Capturable    int           `json:"capturable"`       // Directly obtainable records
	EvolutionOnly int           `json:"evolution_only"`   // Records reachable only through their ancestors
	TotalNeeded   int           `json:"total_needed"`     // Sum of all needed counts
	TopNeeded     []NeededEntry `json:"top_needed"`       // Most demanded ancestors, descending
	Signals       []Signal      `json:"signals,omitempty"` // Diagnostic signals with transparent data
}

// NeededEntry pairs a capturable ancestor with its accumulated demand
type NeededEntry struct {
	Name   string `json:"name"`
	Needed int    `json:"needed"`
}

// Signal represents a diagnostic signal with transparent data
type Signal struct {
	Type        SignalType             `json:"type"`           // Signal classification
	Severity    SignalSeverity         `json:"severity"`       // info, warning, critical
	Description string                 `json:"description"`    // Human-readable description
	Data        map[string]interface{} `json:"data,omitempty"` // Transparent inputs behind the signal
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalTradeDependency    SignalType = "trade_dependency"    // Share of records gated behind trades
	SignalUnresolvedAncestor SignalType = "unresolved_ancestor" // Evolution references naming no known record
	SignalEmptyObtain        SignalType = "empty_obtain"        // Records with no usable obtain text
	SignalHighDemand         SignalType = "high_demand"         // Ancestors needed unusually many times
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// LLMSummary contains the optional LLM-generated capture plan.
// It never affects records, counts or stats and is clearly separated.
type LLMSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"` // openai or compatible
	Model     string   `json:"model,omitempty"`    // Model name
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}
