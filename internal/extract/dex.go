// Package extract parses dex availability tables out of fetched wiki HTML,
// producing raw records for the classification pipeline.
package extract

import (
	"net/url"
	"strings"

	"github.com/ppiankov/capturadex/internal/model"
	"golang.org/x/net/html"
)

// DexExtractor extracts Pokémon availability rows from a dex page
type DexExtractor struct{}

// NewDexExtractor creates a new dex extractor
func NewDexExtractor() *DexExtractor {
	return &DexExtractor{}
}

// Extract walks every table row in the page and collects the ones shaped
// like an availability entry: a dex-number cell, a name cell carrying the
// source anchor, an obtain-methods cell, and an optional secondary
// localisation cell whose lines are appended after the primary ones.
// Superscript annotation markers are dropped before text extraction, so
// numbers come out as plain digits. Rows that do not parse are skipped,
// never errors.
func (e *DexExtractor) Extract(htmlContent string, sourceURL string) ([]model.RawPokemon, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(sourceURL)
	if err != nil {
		return nil, err
	}

	rows := findAll(doc, func(n *html.Node) bool {
		return isElement(n, "tr")
	})

	var records []model.RawPokemon
	for _, row := range rows {
		if rec, ok := e.parseRow(row, baseURL); ok {
			records = append(records, rec)
		}
	}

	return records, nil
}

// parseRow turns one table row into a raw record, reporting false for
// header rows and anything else that is not an availability entry.
func (e *DexExtractor) parseRow(row *html.Node, baseURL *url.URL) (model.RawPokemon, bool) {
	cells := findAll(row, func(n *html.Node) bool {
		return isElement(n, "td")
	})
	if len(cells) < 3 {
		return model.RawPokemon{}, false
	}

	number := nodeText(cells[0])
	if !isDigits(number) {
		return model.RawPokemon{}, false
	}

	anchor := findFirst(cells[1], func(n *html.Node) bool {
		return isElement(n, "a") && getAttribute(n, "href") != ""
	})
	if anchor == nil {
		return model.RawPokemon{}, false
	}
	name := nodeText(anchor)
	if name == "" {
		return model.RawPokemon{}, false
	}
	link := resolveLink(baseURL, getAttribute(anchor, "href"))

	lines := cellLines(cells[2])
	if len(cells) >= 4 {
		lines = append(lines, cellLines(cells[3])...)
	}

	return model.RawPokemon{
		Name:   name,
		Number: number,
		Link:   link,
		Obtain: strings.Join(lines, "\n"),
	}, true
}

// cellLines splits a table cell into obtain-method lines: each list item
// is one line, <br> breaks a line, superscript markers are dropped.
func cellLines(cell *html.Node) []string {
	var lines []string
	var current strings.Builder

	flush := func() {
		line := strings.TrimSpace(current.String())
		if line != "" {
			lines = append(lines, line)
		}
		current.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "sup", "script", "style", "noscript":
				return
			case "br":
				flush()
				return
			case "li":
				flush()
				current.WriteString(nodeText(n))
				flush()
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if current.Len() > 0 {
					current.WriteString(" ")
				}
				current.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(cell)
	flush()

	return lines
}

// resolveLink resolves a row anchor against the page URL
func resolveLink(base *url.URL, href string) string {
	parsed, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(parsed).String()
}

// isDigits reports whether s is non-empty and all decimal digits
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
