package bibliography

import (
	"strings"
	"testing"
)

func TestSectionFromText(t *testing.T) {
	text := "Capítulo 5. Conclusiones.\n\nBIBLIOGRAFÍA\n\nMujica, M. (2002).  La gerencia.\nRomero, J.   (2006). Gerencia.\n\nLEYES Y DECRETOS CITADOS\n\nLey Orgánica de Educación."

	got := SectionFromText(text)

	if !strings.HasPrefix(strings.ToLower(got), "bibliografía") {
		t.Errorf("section does not start at the heading: %q", got)
	}
	if strings.Contains(strings.ToLower(got), "ley orgánica") {
		t.Errorf("section must stop before the legal citations: %q", got)
	}
	if strings.Contains(got, "\n") || strings.Contains(got, "  ") {
		t.Errorf("whitespace not collapsed: %q", got)
	}
	if !strings.Contains(got, "Mujica, M. (2002). La gerencia.") {
		t.Errorf("reference text mangled: %q", got)
	}
}

func TestSectionFromTextNoEndHeading(t *testing.T) {
	text := "Introducción.\nBibliografía\nRomero, J. (2006). Gerencia para transformar."

	got := SectionFromText(text)

	if !strings.Contains(got, "Romero, J. (2006)") {
		t.Errorf("section truncated: %q", got)
	}
}

func TestSectionFromTextNoHeadingFallsBackToFullText(t *testing.T) {
	text := "Romero, J.  (2006).\nGerencia para transformar."

	got := SectionFromText(text)

	if got != "Romero, J. (2006). Gerencia para transformar." {
		t.Errorf("got %q", got)
	}
}

func TestParseReferencesEnvelope(t *testing.T) {
	raw := `{"references": [{"author": "Romero, J.", "year": "2006", "title": "Gerencia", "source": "Revista Venezolana de Gerencia", "inferred_type": "revista", "identifiers": {"doi": null, "isbn": null, "issn": null, "url": null}, "journal_name": "Revista Venezolana de Gerencia"}]}`

	refs := ParseReferences(raw)

	if len(refs) != 1 {
		t.Fatalf("got %d references", len(refs))
	}
	if refs[0].Author != "Romero, J." || refs[0].InferredType != "revista" {
		t.Errorf("reference = %+v", refs[0])
	}
	if refs[0].Identifiers.DOI != "" {
		t.Errorf("null identifier must decode to empty, got %q", refs[0].Identifiers.DOI)
	}
}

func TestParseReferencesBareArray(t *testing.T) {
	raw := `[{"author": "Mujica, M.", "title": "La gerencia"}]`

	refs := ParseReferences(raw)

	if len(refs) != 1 || refs[0].Title != "La gerencia" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestParseReferencesSalvagesArrayFromProse(t *testing.T) {
	raw := "Aquí están las referencias extraídas:\n```json\n[{\"author\": \"Lanz, R.\", \"title\": \"El discurso posmoderno\"}]\n```\nEspero que sea útil."

	refs := ParseReferences(raw)

	if len(refs) != 1 || refs[0].Author != "Lanz, R." {
		t.Errorf("refs = %+v", refs)
	}
}

func TestParseReferencesGarbage(t *testing.T) {
	for _, raw := range []string{"", "no hay referencias", "[{broken", "{\"references\": \"nope\"}"} {
		if refs := ParseReferences(raw); len(refs) != 0 {
			t.Errorf("ParseReferences(%q) = %+v, want empty", raw, refs)
		}
	}
}
