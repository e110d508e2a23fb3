// Package pipeline orchestrates one dex page scan end to end: polite
// fetch, table extraction, classification, demand propagation, stats, and
// report rendering.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/capturadex/internal/cache"
	"github.com/ppiankov/capturadex/internal/classify"
	"github.com/ppiankov/capturadex/internal/demand"
	"github.com/ppiankov/capturadex/internal/extract"
	"github.com/ppiankov/capturadex/internal/llm"
	"github.com/ppiankov/capturadex/internal/model"
	"github.com/ppiankov/capturadex/internal/stats"
	"github.com/ppiankov/capturadex/internal/util"
	"github.com/ppiankov/capturadex/internal/worker"
)

// Pipeline orchestrates the complete scan process
type Pipeline struct {
	fetcher    *Fetcher
	extractor  *extract.DexExtractor
	summarizer *stats.Summarizer
	renderer   *Renderer
	robots     *util.RobotsChecker // nil when robots.txt compliance is off
	limiter    *worker.Limiter
	llm        *llm.Summarizer // nil or disabled when no provider configured
	config     *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	fetcher := NewFetcher(cfg.HTTP)
	if cfg.Cache.Enabled {
		pageCache := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		fetcher = fetcher.WithCache(pageCache, cfg.Cache.DiskTTL)
	}

	var robots *util.RobotsChecker
	if cfg.Scrape.RespectRobots {
		robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, 10*time.Second)
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Printf("Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		fetcher:    fetcher,
		extractor:  extract.NewDexExtractor(),
		summarizer: stats.NewSummarizer(),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		robots:     robots,
		limiter:    worker.NewLimiter(cfg.Scrape.RequestsPerSecond, cfg.Scrape.Burst),
		llm:        summarizer,
		config:     cfg,
	}
}

// ScanURL scans a single dex page and produces a complete report
func (p *Pipeline) ScanURL(ctx context.Context, url string) (*model.Report, error) {
	// 1. Politeness: robots.txt, then per-host rate limit (plus any
	// crawl delay robots.txt asked for)
	crawlDelay := time.Duration(0)
	if p.robots != nil {
		allowed, delay, err := p.robots.CanFetch(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows fetching %s", url)
		}
		crawlDelay = delay
	}
	if err := p.limiter.WaitWithDelay(ctx, url, crawlDelay); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	// 2. Fetch HTML
	fetchResult, err := p.fetcher.FetchWithRetry(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	// 3. Extract raw records from the availability tables
	raws, err := p.extractor.Extract(fetchResult.HTML, fetchResult.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("extract records: %w", err)
	}

	// 4. Parse obtain lines and classify capturability
	records := classify.Annotate(raws)

	// 5. Propagate demand along the evolution graph
	if err := demand.NewEngine(records).PropagateAll(); err != nil {
		return nil, fmt.Errorf("propagate demand: %w", err)
	}

	// 6. Aggregate diagnostics
	reportStats := p.summarizer.Summarize(records)

	report := &model.Report{
		Game:      fetchResult.Game,
		SourceURL: fetchResult.FinalURL,
		FetchedAt: time.Now().UTC(),
		FetchMeta: fetchResult.Meta,
		Pokemon:   records,
		Stats:     reportStats,
	}

	// 7. Optional LLM capture plan, after everything else; failures only warn
	if p.llm.IsEnabled() {
		llmSummary, err := p.llm.GenerateSummary(ctx, *report)
		if err != nil {
			fmt.Printf("Warning: LLM summary generation failed: %v\n", err)
		} else if llmSummary != nil {
			report.LLM = llmSummary
		}
	}

	return report, nil
}

// RenderReport renders the report to the configured outputs
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, htmlPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if htmlPath != "" {
		if err := p.renderer.RenderHTML(report, htmlPath); err != nil {
			return fmt.Errorf("render HTML: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote HTML: %s\n", htmlPath)
		}
	}

	// LLM summary lands next to the HTML report when present
	if report.LLM != nil && report.LLM.Enabled && htmlPath != "" {
		llmPath := strings.TrimSuffix(htmlPath, ".html") + ".llm.md"
		markdown := llm.RenderSeparateMarkdown(report.LLM)
		if err := p.renderer.RenderLLMMarkdown(markdown, llmPath); err != nil {
			fmt.Printf("Warning: Failed to write LLM summary: %v\n", err)
		} else if verbose {
			fmt.Printf("✓ Wrote LLM Summary: %s\n", llmPath)
		}
	}

	p.renderer.RenderSummary(report)

	return nil
}
