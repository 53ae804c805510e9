package store

import (
	"testing"

	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/enrich"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/extract"
)

func TestResolvedIdentifiersPrefersVerified(t *testing.T) {
	ref := enrich.EnrichedReference{
		FoundIdentifiers: &extract.Identifiers{DOI: "10.9999/raw", ISBN: "9780000000000"},
		Verified:         &enrich.VerifiedData{DOI: "10.1007/978-3-030-02083-5"},
	}

	doi, isbn, issn := resolvedIdentifiers(&ref)

	if doi != "10.1007/978-3-030-02083-5" {
		t.Errorf("doi = %q, verified must win", doi)
	}
	if isbn != "9780000000000" {
		t.Errorf("isbn = %q, extraction fills the gap", isbn)
	}
	if issn != "" {
		t.Errorf("issn = %q", issn)
	}
}

func TestResolvedIdentifiersFromTypePath(t *testing.T) {
	ref := enrich.EnrichedReference{
		Journal: &enrich.JournalData{ISSN: "1315-9984", DOI: "10.1111/rvg.123"},
		Book:    &enrich.BookData{ISBN: "9789803171445"},
	}

	doi, isbn, issn := resolvedIdentifiers(&ref)

	if doi != "10.1111/rvg.123" || isbn != "9789803171445" || issn != "1315-9984" {
		t.Errorf("got %q %q %q", doi, isbn, issn)
	}
}

func TestResolvedIdentifiersEmpty(t *testing.T) {
	ref := enrich.EnrichedReference{}

	doi, isbn, issn := resolvedIdentifiers(&ref)

	if doi != "" || isbn != "" || issn != "" {
		t.Errorf("got %q %q %q, want empty", doi, isbn, issn)
	}
}
