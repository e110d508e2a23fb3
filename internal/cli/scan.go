package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/capturadex/internal/model"
	"github.com/ppiankov/capturadex/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON     string
	outHTML     string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	noRobots    bool
	insecureTLS bool
	httpProxy   string
	httpsProxy  string
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Scan a single obtention list page and generate a capture report",
	Long: `Scan fetches a per-game Pokémon obtention list page and:
- Parses every row into name, dex number, and obtain methods
- Classifies each Pokémon as capturable or evolution/trade-only
- Propagates evolution demand to ancestor Pokémon
- Generates JSON and HTML capture reports

Example:
  capturadex scan https://www.wikidex.net/wiki/Lista_de_Pokémon_de_Rojo
  capturadex scan https://example.com/lista --json report.json --html report.html
  capturadex scan https://example.com/lista --llm --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Output flags
	scanCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	scanCmd.Flags().StringVar(&outHTML, "html", "", "output HTML path (optional)")

	// HTTP flags
	scanCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall scan timeout")
	scanCmd.Flags().StringVar(&userAgent, "ua", "Capturadex/0.2 (+https://github.com/ppiankov/capturadex)", "HTTP User-Agent")
	scanCmd.Flags().Int64Var(&maxBytes, "max-bytes", 4_000_000, "max response bytes to read")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	scanCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in HTML reports")
	scanCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt compliance checks")
	scanCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	scanCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	scanCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// LLM flags
	scanCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM capture-plan summary")
	scanCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai)")
	scanCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

// applyLLMFlags wires the LLM flag set into the config, pulling the
// API key from the environment
func applyLLMFlags(cfg *model.Config) error {
	if !llmEnabled {
		return nil
	}

	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %s", llmProvider)
	}

	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", url)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	// Build configuration from flags
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Cache.Enabled = !noCache
	cfg.Scrape.RespectRobots = !noRobots
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if err := applyLLMFlags(cfg); err != nil {
		return err
	}

	// Create pipeline
	p := pipeline.NewPipeline(cfg)

	// Scan URL
	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Fetching obtention list...\n")
	}

	report, err := p.ScanURL(ctx, url)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d Pokémon\n", report.Stats.Total)
		fmt.Fprintf(os.Stderr, "✓ Capturable: %d, evolution-only: %d\n", report.Stats.Capturable, report.Stats.EvolutionOnly)
		fmt.Fprintf(os.Stderr, "✓ Total captures needed: %d\n", report.Stats.TotalNeeded)
		if report.LLM != nil && report.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated LLM summary using %s/%s\n", report.LLM.Provider, report.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	// Render outputs
	if err := p.RenderReport(report, outJSON, outHTML, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
