// Package stats aggregates a propagated collection into the report's
// diagnostic view: totals, the most demanded ancestors, and warning
// signals with the data behind them kept transparent.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/capturadex/internal/demand"
	"github.com/ppiankov/capturadex/internal/model"
)

const (
	// topNeededLimit caps the ranked ancestor list in the report
	topNeededLimit = 10

	// highDemandThreshold marks ancestors needed unusually many times
	highDemandThreshold = 5

	// tradeKeyword flags trade-gated obtain methods, matched lower-cased
	tradeKeyword = "intercambiar"
)

// Summarizer computes aggregate diagnostics over annotated collections
type Summarizer struct{}

// NewSummarizer creates a new summarizer
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// Summarize computes the aggregate view. It must run after propagation;
// it reads needed counts and never modifies the records.
func (s *Summarizer) Summarize(records []model.Pokemon) model.Stats {
	st := model.Stats{Total: len(records)}

	for _, r := range records {
		if r.Capturable {
			st.Capturable++
		}
		st.TotalNeeded += r.NeededCount()
	}
	st.EvolutionOnly = st.Total - st.Capturable

	st.TopNeeded = topNeeded(records)

	var signals []model.Signal
	if sig, ok := s.tradeDependency(records); ok {
		signals = append(signals, sig)
	}
	if sig, ok := s.unresolvedAncestors(records); ok {
		signals = append(signals, sig)
	}
	if sig, ok := s.emptyObtain(records); ok {
		signals = append(signals, sig)
	}
	if sig, ok := s.highDemand(st.TopNeeded); ok {
		signals = append(signals, sig)
	}
	st.Signals = signals

	return st
}

// topNeeded ranks capturable ancestors by accumulated demand, descending,
// name ascending on ties so the output is stable.
func topNeeded(records []model.Pokemon) []model.NeededEntry {
	var entries []model.NeededEntry
	for _, r := range records {
		if n := r.NeededCount(); n > 0 {
			entries = append(entries, model.NeededEntry{Name: r.Name, Needed: n})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Needed != entries[j].Needed {
			return entries[i].Needed > entries[j].Needed
		}
		return entries[i].Name < entries[j].Name
	})

	if len(entries) > topNeededLimit {
		entries = entries[:topNeededLimit]
	}
	return entries
}

// tradeDependency reports the share of records only obtainable through a
// trade-gated method.
func (s *Summarizer) tradeDependency(records []model.Pokemon) (model.Signal, bool) {
	if len(records) == 0 {
		return model.Signal{}, false
	}

	tradeGated := 0
	for _, r := range records {
		if r.Capturable {
			continue
		}
		for _, m := range r.Obtain {
			if strings.Contains(strings.ToLower(m.Method), tradeKeyword) {
				tradeGated++
				break
			}
		}
	}
	if tradeGated == 0 {
		return model.Signal{}, false
	}

	share := float64(tradeGated) / float64(len(records))
	severity := model.SeverityInfo
	if share > 0.1 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalTradeDependency,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d records are gated behind a trade", tradeGated, len(records)),
		Data: map[string]interface{}{
			"trade_gated": tradeGated,
			"total":       len(records),
			"share":       share,
		},
	}, true
}

// unresolvedAncestors lists evolution references naming no record in the
// collection. Propagation drops these branches silently; the signal makes
// the silent drop visible.
func (s *Summarizer) unresolvedAncestors(records []model.Pokemon) (model.Signal, bool) {
	known := make(map[string]bool, len(records))
	for _, r := range records {
		known[r.Name] = true
	}

	var missing []string
	seen := make(map[string]bool)
	for _, r := range records {
		if r.Capturable {
			continue
		}
		for _, m := range r.Obtain {
			if !strings.Contains(m.Method, demand.EvolveMarker) {
				continue
			}
			fields := strings.Fields(m.Location)
			if len(fields) <= demand.AncestorToken {
				continue
			}
			name := fields[demand.AncestorToken]
			if !known[name] && !seen[name] {
				seen[name] = true
				missing = append(missing, name)
			}
		}
	}
	if len(missing) == 0 {
		return model.Signal{}, false
	}
	sort.Strings(missing)

	return model.Signal{
		Type:        model.SignalUnresolvedAncestor,
		Severity:    model.SeverityWarning,
		Description: fmt.Sprintf("%d evolution reference(s) resolve to no known record", len(missing)),
		Data: map[string]interface{}{
			"names": missing,
		},
	}, true
}

// emptyObtain counts records whose obtain text was blank on the source
// page, i.e. a single empty method line.
func (s *Summarizer) emptyObtain(records []model.Pokemon) (model.Signal, bool) {
	count := 0
	for _, r := range records {
		if len(r.Obtain) == 1 && r.Obtain[0].Method == "" && r.Obtain[0].Location == "" {
			count++
		}
	}
	if count == 0 {
		return model.Signal{}, false
	}

	return model.Signal{
		Type:        model.SignalEmptyObtain,
		Severity:    model.SeverityWarning,
		Description: fmt.Sprintf("%d record(s) carry no obtain text", count),
		Data: map[string]interface{}{
			"count": count,
		},
	}, true
}

// highDemand flags ancestors whose accumulated demand crosses the
// threshold, so long capture grinds stand out in the report.
func (s *Summarizer) highDemand(top []model.NeededEntry) (model.Signal, bool) {
	var hot []model.NeededEntry
	for _, e := range top {
		if e.Needed >= highDemandThreshold {
			hot = append(hot, e)
		}
	}
	if len(hot) == 0 {
		return model.Signal{}, false
	}

	names := make([]string, 0, len(hot))
	for _, e := range hot {
		names = append(names, fmt.Sprintf("%s (%d)", e.Name, e.Needed))
	}

	return model.Signal{
		Type:        model.SignalHighDemand,
		Severity:    model.SeverityInfo,
		Description: "High-demand ancestors: " + strings.Join(names, ", "),
		Data: map[string]interface{}{
			"threshold": highDemandThreshold,
			"entries":   hot,
		},
	}, true
}
