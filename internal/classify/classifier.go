package classify

import (
	"strings"

	"github.com/ppiankov/capturadex/internal/model"
)

// Capturable decides whether a record is directly obtainable from its
// parsed obtain methods.
//
// A record with more than ManyMethodsThreshold methods is always
// capturable, whatever the methods say. Otherwise it is capturable unless
// every method matches one of the ExclusionKeywords, i.e. every listed way
// to get it is an evolution, a trade, or a pal-park transfer.
//
// An empty method list therefore yields false: "all methods exclusionary"
// is vacuously true. See the companion test before changing it.
func Capturable(methods []model.ObtainMethod) bool {
	if len(methods) > ManyMethodsThreshold {
		return true
	}

	capturable := false
	for _, m := range methods {
		if !isExclusionary(m.Method) {
			capturable = true
		}
	}
	return capturable
}

// isExclusionary reports whether a method text is an evolution/trade/
// transfer reference.
func isExclusionary(method string) bool {
	lower := strings.ToLower(method)
	for _, keyword := range ExclusionKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
