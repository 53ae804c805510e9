package report

import (
	"reflect"
	"testing"

	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/enrich"
)

func sampleBatch() []enrich.EnrichedReference {
	return []enrich.EnrichedReference{
		{
			RawReference: enrich.RawReference{Title: "SDGs"},
			Type:         enrich.TypeBook,
			Verified:     &enrich.VerifiedData{DOI: "10.1007/978-3-030-02083-5", DOIValid: true},
			State:        enrich.StateBookWithDOI,
		},
		{
			RawReference: enrich.RawReference{Title: "La gerencia"},
			Type:         enrich.TypeBook,
			Book:         &enrich.BookData{ISBN: "9789803171445"},
			State:        enrich.StateISBNFound,
		},
		{
			RawReference: enrich.RawReference{Title: "Ley Orgánica", Source: "Gaceta Oficial, Caracas"},
			Type:         enrich.TypeGazette,
			Official:     &enrich.OfficialData{Entity: "Venezuela"},
			State:        enrich.StateOfficialDocument,
		},
	}
}

func TestComputeStatistics(t *testing.T) {
	stats := ComputeStatistics(sampleBatch())

	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if stats.ByType[enrich.TypeBook] != 2 || stats.ByType[enrich.TypeGazette] != 1 {
		t.Errorf("ByType = %v", stats.ByType)
	}
	if stats.ByState[enrich.StateBookWithDOI] != 1 || stats.ByState[enrich.StateISBNFound] != 1 || stats.ByState[enrich.StateOfficialDocument] != 1 {
		t.Errorf("ByState = %v", stats.ByState)
	}

	// The gazette resolves nothing, so only two of three count.
	want := IdentifierCounts{Total: 2, DOI: 1, ISBN: 1}
	if stats.Identifiers != want {
		t.Errorf("Identifiers = %+v, want %+v", stats.Identifiers, want)
	}
	if stats.SuccessPercentage != 67 {
		t.Errorf("SuccessPercentage = %d, want 67", stats.SuccessPercentage)
	}
}

func TestComputeStatisticsEmptyBatch(t *testing.T) {
	stats := ComputeStatistics(nil)

	if stats.Total != 0 || stats.SuccessPercentage != 0 {
		t.Errorf("stats = %+v, want zero total and percentage", stats)
	}
	if len(stats.ByType) != 0 || len(stats.ByState) != 0 {
		t.Errorf("maps not empty: %+v", stats)
	}
}

func TestComputeStatisticsCountsJournalISSN(t *testing.T) {
	refs := []enrich.EnrichedReference{
		{
			RawReference: enrich.RawReference{Title: "Gerencia"},
			Type:         enrich.TypeJournal,
			Journal:      &enrich.JournalData{ISSN: "1315-9984"},
			State:        enrich.StateJournalIdentified,
		},
	}

	stats := ComputeStatistics(refs)

	if stats.Identifiers.Total != 1 || stats.Identifiers.ISSN != 1 {
		t.Errorf("Identifiers = %+v, type-path ISSN must count", stats.Identifiers)
	}
	if stats.SuccessPercentage != 100 {
		t.Errorf("SuccessPercentage = %d, want 100", stats.SuccessPercentage)
	}
}

func TestGenerateRecommendationsOrder(t *testing.T) {
	refs := []enrich.EnrichedReference{
		{
			RawReference: enrich.RawReference{Title: "Libro local"},
			Type:         enrich.TypeBook,
			Book:         &enrich.BookData{},
			State:        enrich.StateBookProcessed,
		},
		{
			RawReference: enrich.RawReference{
				Title:       "Gerencia para transformar",
				JournalName: "Revista Venezolana de Gerencia",
			},
			Type:  enrich.TypeJournal,
			State: enrich.StateJournalProcessed,
		},
		{
			RawReference: enrich.RawReference{Title: "Ley Orgánica"},
			Type:         enrich.TypeLaw,
			State:        enrich.StateOfficialDocument,
		},
	}

	recs := GenerateRecommendations(refs)

	categories := make([]string, len(recs))
	for i, rec := range recs {
		categories[i] = rec.Category
	}
	want := []string{"documentos_oficiales", "revistas_latinoamericanas", "libros_sin_isbn"}
	if !reflect.DeepEqual(categories, want) {
		t.Errorf("categories = %v, want %v (fixed evaluation order)", categories, want)
	}
}

func TestGenerateRecommendationsBooksWithISBNNotFlagged(t *testing.T) {
	refs := []enrich.EnrichedReference{
		{
			RawReference: enrich.RawReference{Title: "La gerencia"},
			Type:         enrich.TypeBook,
			Book:         &enrich.BookData{ISBN: "9789803171445"},
			State:        enrich.StateISBNFound,
		},
	}

	recs := GenerateRecommendations(refs)

	if len(recs) != 1 || recs[0].Category != "general" {
		t.Errorf("recs = %+v, want the single generic advisory", recs)
	}
}

func TestGenerateRecommendationsEmptyBatch(t *testing.T) {
	recs := GenerateRecommendations(nil)

	if len(recs) != 1 || recs[0].Category != "general" {
		t.Errorf("recs = %+v", recs)
	}
}

func TestAggregatorIdempotent(t *testing.T) {
	batch := sampleBatch()

	first := ComputeStatistics(batch)
	second := ComputeStatistics(batch)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("statistics differ between runs: %+v vs %+v", first, second)
	}

	firstRecs := GenerateRecommendations(batch)
	secondRecs := GenerateRecommendations(batch)
	if !reflect.DeepEqual(firstRecs, secondRecs) {
		t.Errorf("recommendations differ between runs")
	}
}
