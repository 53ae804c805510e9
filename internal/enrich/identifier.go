package enrich

import (
	"context"
	"strings"

	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/extract"
)

// enrichWithIdentifiers runs the identifier path: every identifier found in
// the source text is verified independently and its findings merged. The
// state transitions follow the canonical check order DOI, ISBN, ISSN, URL;
// each check reassigns the state only per its own branch's rule, so a later
// check can overwrite an earlier one's outcome (kept for compatibility with
// the existing report consumers).
func (p *Pipeline) enrichWithIdentifiers(ctx context.Context, ref RawReference, found extract.Identifiers) EnrichedReference {
	verified := &VerifiedData{}
	links := map[string]string{}
	state := StateIdentifierFound
	note := ""

	if found.DOI != "" {
		info := p.crossref.VerifyDOI(ctx, found.DOI, ref.Publisher+" "+ref.Source)

		verified.DOI = found.DOI
		verified.DOIValid = info.Valid
		verified.DOIType = info.Type
		links["doi"] = doiLink(found.DOI)

		if info.IsBook {
			state = StateBookWithDOI
			note = "DOI de libro encontrado en fuente"
			if strings.Contains(info.Publisher, "Springer") {
				links["springer"] = "https://link.springer.com/book/" + found.DOI
			}
		} else if info.Type == "article" || info.Type == "journal-article" {
			state = StateArticleWithDOI
			note = "DOI de artículo encontrado en fuente"
			links["crossref"] = crossrefWorkLink(found.DOI)
		}
	}

	if found.ISBN != "" {
		info := p.books.VerifyISBN(ctx, found.ISBN)
		if info.Found {
			verified.ISBN = found.ISBN
			verified.ISBNValid = true
			verified.ISBNTitle = info.Title
			verified.ISBNPublisher = info.Publisher

			links["isbn_search"] = isbnSearchLink(found.ISBN)
			links["worldcat"] = worldcatISBNLink(found.ISBN)

			state = StateISBNValidated
			note = "ISBN verificado correctamente"
		}
	}

	if found.ISSN != "" {
		verified.ISSN = found.ISSN
		links["issn_portal"] = issnPortalLink(found.ISSN)

		if state == StateIdentifierFound {
			state = StateISSNFound
		}
	}

	if found.URL != "" {
		links["url_direct"] = found.URL
		links["archive"] = archiveLink(found.URL)

		if strings.Contains(found.URL, ".pdf") {
			state = StatePDFDocument
			note = "Enlace directo a documento PDF"
		}
	}

	// Supplementary search links by inferred type, regardless of which
	// identifiers resolved.
	switch ref.InferredType {
	case TypeJournal:
		links["google_scholar"] = scholarLink(`"` + ref.Title + `" ` + ref.Author)
		links["scielo"] = scieloLink(ref.Title)
	case TypeBook:
		links["google_books"] = googleBooksLink(ref.Title)
		links["openlibrary"] = openLibrarySearchLink(ref.Title)
	}

	if note == "" {
		note = "Identificador encontrado en fuente"
	}

	return EnrichedReference{
		RawReference:     ref,
		Type:             ref.InferredType,
		FoundIdentifiers: &found,
		Verified:         verified,
		Links:            links,
		State:            state,
		Note:             note,
	}
}
