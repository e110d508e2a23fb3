// Package classify turns raw dex records into annotated ones: it parses
// free-text obtain-method lines and decides capturability from them.
//
// The vocabulary below is the source wiki's, in Spanish. It is kept as
// named constants so a vocabulary change on the wiki stays a one-line fix.
package classify

import (
	"strings"

	"github.com/ppiankov/capturadex/internal/model"
)

const (
	// MethodSeparator splits a raw obtain line into method and location.
	MethodSeparator = ": "

	// ManyMethodsThreshold is the method count above which a record is
	// treated as capturable without inspecting the methods at all.
	ManyMethodsThreshold = 3
)

// ExclusionKeywords mark obtain methods that do not count as direct
// capture: evolution, trading, and the pal-park transfer mechanic.
// Matched lower-cased.
var ExclusionKeywords = []string{
	"evolucionar",
	"intercambiar",
	"parque compi",
}

// ParseObtainLine splits one raw obtain line on the first ": " into a
// structured method. With no separator the whole line is the method and
// the location stays empty. Pure and total; no trimming beyond what the
// upstream text extraction already did.
func ParseObtainLine(line string) model.ObtainMethod {
	method, location, found := strings.Cut(line, MethodSeparator)
	if !found {
		return model.ObtainMethod{Method: line}
	}
	return model.ObtainMethod{Method: method, Location: location}
}
