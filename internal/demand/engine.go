// Package demand propagates capture demand along the evolution graph.
//
// Every record in a collection — capturable or not — contributes exactly
// one unit of demand. A capturable record is its own terminus and takes
// the unit itself. A non-capturable record forwards the unit along each of
// its evolution-sourced obtain methods to the record it evolves from,
// recursively, until a capturable ancestor absorbs it. References that
// resolve to no known record drop the unit silently: the collection is a
// closed universe and a broken reference must not abort the rest.
package demand

import (
	"fmt"
	"strings"

	"github.com/ppiankov/capturadex/internal/model"
)

const (
	// EvolveMarker flags an obtain method as evolution-sourced. Matched
	// case-sensitively: the source wiki always capitalizes it.
	EvolveMarker = "Evolucionar"

	// AncestorToken is the whitespace-delimited token index of the
	// pre-evolution name inside an evolution method's location, e.g.
	// "Evolucionar Pidgey" carries the name at index 1.
	AncestorToken = 1
)

// ErrCyclicDerivation reports an evolution chain that loops back on
// itself. The walk fails fast instead of recursing forever.
type ErrCyclicDerivation struct {
	Name string // Record revisited within a single walk
}

func (e *ErrCyclicDerivation) Error() string {
	return fmt.Sprintf("cyclic derivation through %q", e.Name)
}

// Engine walks evolution chains over one collection. The name index is
// built once so recursive lookups never re-scan the slice.
type Engine struct {
	records []model.Pokemon
	byName  map[string]int
}

// NewEngine creates an engine over the given collection. The engine
// mutates the collection's records in place; callers keep ownership of
// the slice. Name uniqueness is assumed; on duplicates the first
// occurrence wins.
func NewEngine(records []model.Pokemon) *Engine {
	byName := make(map[string]int, len(records))
	for i, r := range records {
		if _, exists := byName[r.Name]; !exists {
			byName[r.Name] = i
		}
	}
	return &Engine{records: records, byName: byName}
}

// PropagateAll runs one propagation walk rooted at every record, in
// collection order. It is deliberately not idempotent: a second call
// doubles every needed count. Needed counts are only ever incremented.
//
// The first cyclic chain encountered aborts with *ErrCyclicDerivation;
// increments applied before detection remain applied.
func (e *Engine) PropagateAll() error {
	for i := range e.records {
		onPath := make(map[string]bool)
		if err := e.propagate(i, onPath); err != nil {
			return err
		}
	}
	return nil
}

// propagate walks one chain. onPath holds the names on the current
// recursion path only: two methods fanning out to the same ancestor are
// two legitimate units of demand, not a cycle.
func (e *Engine) propagate(idx int, onPath map[string]bool) error {
	rec := &e.records[idx]

	if onPath[rec.Name] {
		return &ErrCyclicDerivation{Name: rec.Name}
	}

	if rec.Capturable {
		rec.AddNeeded()
		return nil
	}

	onPath[rec.Name] = true
	defer delete(onPath, rec.Name)

	for _, m := range rec.Obtain {
		if !strings.Contains(m.Method, EvolveMarker) {
			continue
		}
		ancestor, ok := ancestorName(m.Location)
		if !ok {
			continue
		}
		target, ok := e.byName[ancestor]
		if !ok {
			continue // unknown ancestor, drop this branch
		}
		if err := e.propagate(target, onPath); err != nil {
			return err
		}
	}
	return nil
}

// ancestorName extracts the pre-evolution name token from an evolution
// method's location text.
func ancestorName(location string) (string, bool) {
	fields := strings.Fields(location)
	if len(fields) <= AncestorToken {
		return "", false
	}
	return fields[AncestorToken], true
}

// Records returns the collection the engine operates on.
func (e *Engine) Records() []model.Pokemon {
	return e.records
}
