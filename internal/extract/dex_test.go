package extract

import (
	"strings"
	"testing"
)

const dexPage = `
<html>
<body>
<table class="tabla">
<tr><th>N.º</th><th>Pokémon</th><th>Obtención</th><th>Comentario</th></tr>
<tr>
  <td>016<sup>1</sup></td>
  <td><a href="/wiki/Pidgey" title="Pidgey">Pidgey</a></td>
  <td>Pokémon salvaje: Ruta 1<br>Pokémon salvaje: Ruta 2</td>
  <td></td>
</tr>
<tr>
  <td>017</td>
  <td><a href="/wiki/Pidgeotto">Pidgeotto</a></td>
  <td><ul><li>Evolucionar: Evolucionar Pidgey</li><li>Pokémon salvaje: Ruta 14<sup>2</sup></li></ul></td>
  <td>Intercambiar: con otro juego</td>
</tr>
<tr>
  <td colspan="4">Segunda generación</td>
</tr>
</table>
</body>
</html>
`

func TestDexExtractor_ParsesRows(t *testing.T) {
	extractor := NewDexExtractor()

	records, err := extractor.Extract(dexPage, "https://www.wikidex.net/wiki/Lista")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	pidgey := records[0]
	if pidgey.Name != "Pidgey" {
		t.Errorf("Expected name Pidgey, got %q", pidgey.Name)
	}
	if pidgey.Number != "016" {
		t.Errorf("Expected superscript stripped from number, got %q", pidgey.Number)
	}
	if pidgey.Link != "https://www.wikidex.net/wiki/Pidgey" {
		t.Errorf("Expected resolved link, got %q", pidgey.Link)
	}
	wantObtain := "Pokémon salvaje: Ruta 1\nPokémon salvaje: Ruta 2"
	if pidgey.Obtain != wantObtain {
		t.Errorf("Expected obtain %q, got %q", wantObtain, pidgey.Obtain)
	}
}

func TestDexExtractor_AppendsSecondaryCellLines(t *testing.T) {
	extractor := NewDexExtractor()

	records, err := extractor.Extract(dexPage, "https://www.wikidex.net/wiki/Lista")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	pidgeotto := records[1]
	lines := strings.Split(pidgeotto.Obtain, "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected primary list lines plus appended secondary line, got %v", lines)
	}
	if lines[0] != "Evolucionar: Evolucionar Pidgey" {
		t.Errorf("Unexpected first line %q", lines[0])
	}
	if lines[1] != "Pokémon salvaje: Ruta 14" {
		t.Errorf("Expected superscript stripped, got %q", lines[1])
	}
	if lines[2] != "Intercambiar: con otro juego" {
		t.Errorf("Expected secondary cell appended last, got %q", lines[2])
	}
}

func TestDexExtractor_SkipsNonEntryRows(t *testing.T) {
	extractor := NewDexExtractor()

	page := `
	<table>
	<tr><th>N.º</th><th>Pokémon</th><th>Obtención</th></tr>
	<tr><td>abc</td><td><a href="/wiki/X">X</a></td><td>salvaje</td></tr>
	<tr><td>001</td><td>sin enlace</td><td>salvaje</td></tr>
	<tr><td>002</td><td><a href="/wiki/Ivysaur">Ivysaur</a></td><td>Evolucionar: Evolucionar Bulbasaur</td></tr>
	</table>`

	records, err := extractor.Extract(page, "https://www.wikidex.net/wiki/Lista")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected malformed rows skipped, got %d records", len(records))
	}
	if records[0].Name != "Ivysaur" {
		t.Errorf("Expected Ivysaur, got %q", records[0].Name)
	}
}

func TestDexExtractor_EmptyPage(t *testing.T) {
	extractor := NewDexExtractor()

	records, err := extractor.Extract("<html><body><p>nada</p></body></html>", "https://example.org")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}
