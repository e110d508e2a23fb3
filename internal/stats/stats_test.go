package stats

import (
	"testing"

	"github.com/ppiankov/capturadex/internal/classify"
	"github.com/ppiankov/capturadex/internal/demand"
	"github.com/ppiankov/capturadex/internal/model"
)

func propagated(t *testing.T, raws ...model.RawPokemon) []model.Pokemon {
	t.Helper()
	records := classify.Annotate(raws)
	if err := demand.NewEngine(records).PropagateAll(); err != nil {
		t.Fatalf("propagate: %v", err)
	}
	return records
}

func TestSummarize_Totals(t *testing.T) {
	records := propagated(t,
		model.RawPokemon{Name: "Pidgey", Obtain: "Pokémon salvaje: Ruta 1"},
		model.RawPokemon{Name: "Pidgeotto", Obtain: "Evolucionar: Evolucionar Pidgey"},
		model.RawPokemon{Name: "Pidgeot", Obtain: "Evolucionar: Evolucionar Pidgeotto"},
	)

	st := NewSummarizer().Summarize(records)

	if st.Total != 3 {
		t.Errorf("Expected total 3, got %d", st.Total)
	}
	if st.Capturable != 1 {
		t.Errorf("Expected 1 capturable, got %d", st.Capturable)
	}
	if st.EvolutionOnly != 2 {
		t.Errorf("Expected 2 evolution-only, got %d", st.EvolutionOnly)
	}
	// Pidgey absorbs one unit per record in its chain.
	if st.TotalNeeded != 3 {
		t.Errorf("Expected total needed 3, got %d", st.TotalNeeded)
	}
	if len(st.TopNeeded) != 1 || st.TopNeeded[0].Name != "Pidgey" || st.TopNeeded[0].Needed != 3 {
		t.Errorf("Unexpected top needed: %+v", st.TopNeeded)
	}
}

func TestSummarize_UnresolvedAncestorSignal(t *testing.T) {
	records := propagated(t,
		model.RawPokemon{Name: "Raichu", Obtain: "Evolucionar: Evolucionar Pikachu"},
	)

	st := NewSummarizer().Summarize(records)

	sig := findSignal(st.Signals, model.SignalUnresolvedAncestor)
	if sig == nil {
		t.Fatal("Expected unresolved ancestor signal")
	}
	names, _ := sig.Data["names"].([]string)
	if len(names) != 1 || names[0] != "Pikachu" {
		t.Errorf("Expected Pikachu listed, got %v", sig.Data["names"])
	}
}

func TestSummarize_TradeDependencySignal(t *testing.T) {
	records := propagated(t,
		model.RawPokemon{Name: "Machoke", Obtain: "Pokémon salvaje: Calle Victoria"},
		model.RawPokemon{Name: "Machamp", Obtain: "Intercambiar: intercambio con otro juego"},
	)

	st := NewSummarizer().Summarize(records)

	sig := findSignal(st.Signals, model.SignalTradeDependency)
	if sig == nil {
		t.Fatal("Expected trade dependency signal")
	}
	if sig.Severity != model.SeverityWarning {
		t.Errorf("Expected warning at 50%% share, got %s", sig.Severity)
	}
}

func TestSummarize_EmptyObtainSignal(t *testing.T) {
	records := propagated(t,
		model.RawPokemon{Name: "Mew", Obtain: ""},
	)

	st := NewSummarizer().Summarize(records)

	if findSignal(st.Signals, model.SignalEmptyObtain) == nil {
		t.Fatal("Expected empty obtain signal")
	}
}

func TestSummarize_NoRecords(t *testing.T) {
	st := NewSummarizer().Summarize(nil)
	if st.Total != 0 || len(st.Signals) != 0 || len(st.TopNeeded) != 0 {
		t.Errorf("Expected empty stats, got %+v", st)
	}
}

func findSignal(signals []model.Signal, typ model.SignalType) *model.Signal {
	for i := range signals {
		if signals[i].Type == typ {
			return &signals[i]
		}
	}
	return nil
}
