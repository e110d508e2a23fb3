package model

// ObtainMethod represents one parsed acquisition-method line from a dex page
type ObtainMethod struct {
	Method   string `json:"method"`             // Free-text method name (e.g. "Pokémon salvaje")
	Location string `json:"location,omitempty"` // Where/how, empty when the line had no ": " separator
}

// RawPokemon is the shape produced by the upstream extractor, before
// classification. Obtain holds the newline-joined acquisition lines in
// source order, secondary localisation lines appended after the primary
// ones. Number has superscript annotation markup already stripped.
type RawPokemon struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Link   string `json:"link"`
	Obtain string `json:"obtain"`
}

// Pokemon is an annotated dex record: obtain lines parsed, capturability
// decided, and (after propagation) demand accumulated on it.
type Pokemon struct {
	Name       string         `json:"name"`             // Unique key within a collection (assumed, not enforced)
	Number     string         `json:"number"`           // External dex ordinal
	Link       string         `json:"link"`             // Source page reference, opaque here
	Obtain     []ObtainMethod `json:"obtain"`           // Parsed methods, source order preserved
	Capturable bool           `json:"capturable"`       // Directly obtainable; set once, never recomputed
	Needed     *int           `json:"needed,omitempty"` // Demand counter; nil until first incremented
}

// AddNeeded increments the demand counter, initializing it on first use.
// Nil means "never required as an ancestor" and is distinct from zero.
func (p *Pokemon) AddNeeded() {
	if p.Needed == nil {
		p.Needed = new(int)
	}
	*p.Needed++
}

// NeededCount returns the accumulated demand, zero when absent.
func (p *Pokemon) NeededCount() int {
	if p.Needed == nil {
		return 0
	}
	return *p.Needed
}
