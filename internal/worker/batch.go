package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/capturadex/internal/model"
)

// Scanner defines the interface for scanning one dex page URL
type Scanner interface {
	ScanURL(ctx context.Context, url string) (*model.Report, error)
}

// ScanJob represents one dex page scan
type ScanJob struct {
	URL     string
	Scanner Scanner
}

// Execute executes the scan job
func (j *ScanJob) Execute(ctx context.Context) Result {
	report, err := j.Scanner.ScanURL(ctx, j.URL)
	return &ScanResult{
		URL:    j.URL,
		Report: report,
		Err:    err,
	}
}

// ScanResult represents the result of a scan job
type ScanResult struct {
	URL    string
	Report *model.Report
	Err    error
}

// GetError returns the error from the scan result
func (r *ScanResult) GetError() error {
	return r.Err
}

// BatchProcessor scans multiple dex pages concurrently
type BatchProcessor struct {
	scanner     Scanner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(scanner Scanner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		scanner:     scanner,
		concurrency: concurrency,
	}
}

// ProcessURLs scans the given URLs with the configured worker count
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []*ScanResult {
	if len(urls) == 0 {
		return []*ScanResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Submit from a goroutine so Wait drains results while jobs are still
	// queueing; submitting inline can fill both channels and stall.
	go func() {
		for _, url := range urls {
			pool.Submit(&ScanJob{
				URL:     url,
				Scanner: b.scanner,
			})
		}
		pool.Close()
	}()

	results := pool.Wait()

	scanResults := make([]*ScanResult, len(results))
	for i, result := range results {
		scanResults[i] = result.(*ScanResult)
	}

	return scanResults
}

// ProcessFile reads dex page URLs from a file and scans them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ScanResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}

	return b.ProcessURLs(ctx, urls), nil
}

// ReadURLsFromFile reads URLs from a file, one per line, skipping blank
// lines and # comments and dropping duplicates.
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
