package classify

import (
	"strings"

	"github.com/ppiankov/capturadex/internal/model"
)

// Annotate converts raw records into annotated ones: each newline-joined
// obtain string becomes a parsed method sequence (source order preserved)
// and the capturable flag is computed, exactly once, from that sequence.
//
// The input is not mutated; the annotated collection is a fresh snapshot.
// An empty obtain string yields a single empty-string method line, which
// classifies as capturable (one non-exclusionary method).
func Annotate(raws []model.RawPokemon) []model.Pokemon {
	annotated := make([]model.Pokemon, 0, len(raws))
	for _, raw := range raws {
		annotated = append(annotated, annotateOne(raw))
	}
	return annotated
}

func annotateOne(raw model.RawPokemon) model.Pokemon {
	lines := strings.Split(raw.Obtain, "\n")
	methods := make([]model.ObtainMethod, 0, len(lines))
	for _, line := range lines {
		methods = append(methods, ParseObtainLine(line))
	}

	return model.Pokemon{
		Name:       raw.Name,
		Number:     raw.Number,
		Link:       raw.Link,
		Obtain:     methods,
		Capturable: Capturable(methods),
	}
}
