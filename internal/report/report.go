// Package report aggregates an enriched batch into summary statistics and
// advisory recommendations. Both functions are pure over their input.
package report

import (
	"math"

	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/enrich"
)

// IdentifierCounts breaks down how many references resolved each identifier
// kind. A single reference can count toward several kinds.
type IdentifierCounts struct {
	Total int `json:"total"`
	DOI   int `json:"doi"`
	ISBN  int `json:"isbn"`
	ISSN  int `json:"issn"`
}

// Statistics summarizes one enriched batch.
type Statistics struct {
	Total             int              `json:"total_references"`
	ByType            map[string]int   `json:"distribution_by_type"`
	ByState           map[string]int   `json:"distribution_by_state"`
	Identifiers       IdentifierCounts `json:"identifiers_found"`
	SuccessPercentage int              `json:"success_percentage"`
}

// Recommendation is one advisory for the person reviewing the report.
type Recommendation struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Action   string `json:"action"`
}

// ComputeStatistics counts the batch by type and state and measures how many
// references resolved at least one identifier through either path.
func ComputeStatistics(refs []enrich.EnrichedReference) Statistics {
	stats := Statistics{
		Total:   len(refs),
		ByType:  map[string]int{},
		ByState: map[string]int{},
	}

	for i := range refs {
		ref := &refs[i]
		stats.ByType[ref.Type]++
		stats.ByState[ref.State]++

		if ref.HasResolvedIdentifier() {
			stats.Identifiers.Total++
		}
		if ref.HasDOI() {
			stats.Identifiers.DOI++
		}
		if ref.HasISBN() {
			stats.Identifiers.ISBN++
		}
		if ref.HasISSN() {
			stats.Identifiers.ISSN++
		}
	}

	if stats.Total > 0 {
		stats.SuccessPercentage = int(math.Round(float64(stats.Identifiers.Total) / float64(stats.Total) * 100))
	}

	return stats
}

// GenerateRecommendations evaluates a fixed, ordered condition set over the
// whole batch and emits one advisory per matched condition. When nothing
// matches, a single generic advisory is returned.
func GenerateRecommendations(refs []enrich.EnrichedReference) []Recommendation {
	var recs []Recommendation

	if anyRef(refs, func(r *enrich.EnrichedReference) bool { return r.IsOfficial() }) {
		recs = append(recs, Recommendation{
			Category: "documentos_oficiales",
			Message:  "Documentos oficiales/legales no tienen ISSN/ISBN. Verificar en fuentes oficiales gubernamentales.",
			Action:   "Consulte gacetas oficiales o sitios web gubernamentales.",
		})
	}

	if anyRef(refs, func(r *enrich.EnrichedReference) bool {
		return r.Type == enrich.TypeJournal && enrich.IsLatinAmericanJournal(r.RawReference)
	}) {
		recs = append(recs, Recommendation{
			Category: "revistas_latinoamericanas",
			Message:  "Para revistas latinoamericanas, utilice: SciELO, Redalyc, Latindex.",
			Action:   "Busque en: https://search.scielo.org y https://www.redalyc.org",
		})
	}

	if anyRef(refs, func(r *enrich.EnrichedReference) bool {
		return r.Type == enrich.TypeBook && !r.HasISBN()
	}) {
		recs = append(recs, Recommendation{
			Category: "libros_sin_isbn",
			Message:  "Algunos libros no tienen ISBN registrado, especialmente ediciones locales o antiguas.",
			Action:   "Busque en catálogos de bibliotecas nacionales: https://www.bnv.gob.ve/",
		})
	}

	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Category: "general",
			Message:  "Todas las referencias procesadas correctamente.",
			Action:   "Verifique los enlaces proporcionados para cada referencia.",
		})
	}

	return recs
}

func anyRef(refs []enrich.EnrichedReference, match func(*enrich.EnrichedReference) bool) bool {
	for i := range refs {
		if match(&refs[i]) {
			return true
		}
	}
	return false
}
