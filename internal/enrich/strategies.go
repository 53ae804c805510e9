package enrich

import (
	"context"
	"regexp"
	"strings"

	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/registry"
)

// The type-classification path: one strategy per inferred publication type,
// used when no identifier was embedded in the source text. Each strategy
// produces its variant payload, candidate search links and a state.

func (p *Pipeline) enrichByType(ctx context.Context, ref RawReference) EnrichedReference {
	switch ref.InferredType {
	case TypeJournal:
		return p.journalStrategy(ctx, ref)
	case TypeBook:
		return p.bookStrategy(ctx, ref)
	case TypeOfficialDoc, TypeLaw:
		return p.officialDocStrategy(ref)
	case TypeWebsite, TypeWeb:
		return p.websiteStrategy(ref)
	case TypeThesis:
		return p.thesisStrategy(ref)
	default:
		return p.genericStrategy(ref)
	}
}

func (p *Pipeline) journalStrategy(ctx context.Context, ref RawReference) EnrichedReference {
	data := &JournalData{}
	links := map[string]string{}
	state := StateJournalProcessed

	if ref.JournalName != "" {
		lookup := p.crossref.LookupJournal(ctx, ref.JournalName)
		if lookup.Found {
			data.ISSN = lookup.ISSN
			data.OfficialName = lookup.Name
			if lookup.ISSN != "" {
				links["issn_portal"] = issnPortalLink(lookup.ISSN)
			}
			state = StateJournalIdentified
		}
	}

	search := p.crossref.SearchWorks(ctx, ref.Title, ref.Author)
	if search.Found {
		data.DOI = search.DOI
		data.Score = search.Score
		links["doi"] = doiLink(search.DOI)
		links["crossref"] = crossrefWorkLink(search.DOI)
		state = StateArticleFound
	}

	links["google_scholar"] = scholarLink(`"` + ref.Title + `" ` + ref.Author)
	links["scielo"] = scieloLink(ref.Title)
	if ref.JournalName != "" {
		links["redalyc"] = redalycLink(ref.JournalName)
	} else {
		links["redalyc"] = redalycLink(titlePrefix(ref.Title, 50))
	}

	if IsLatinAmericanJournal(ref) {
		links["latindex"] = latindexLink(ref.JournalName)
	}

	note := "Buscar manualmente en enlaces proporcionados"
	if state == StateArticleFound {
		note = "Artículo encontrado en Crossref"
	}

	return EnrichedReference{
		RawReference: ref,
		Type:         TypeJournal,
		Journal:      data,
		Links:        links,
		State:        state,
		Note:         note,
	}
}

func (p *Pipeline) bookStrategy(ctx context.Context, ref RawReference) EnrichedReference {
	data := &BookData{}
	links := map[string]string{}
	state := StateBookProcessed

	if ref.Identifiers.ISBN == "" {
		result := p.searchBookISBN(ctx, ref)
		if result.Found {
			data.ISBN = result.ISBN
			data.VerifiedTitle = result.Title
			state = StateISBNFound
		}
	}

	links["worldcat"] = worldcatSearchLink(`"` + ref.Title + `" ` + ref.Author)
	links["google_books"] = googleBooksLink(ref.Title)
	links["openlibrary"] = openLibrarySearchLink(ref.Title)

	if data.ISBN != "" {
		links["isbn_search"] = isbnSearchLink(data.ISBN)
		links["isbndb"] = isbndbLink(data.ISBN)
	}

	// Venezuelan and regional imprints are often missing from the global
	// catalogs; point at the national library as well.
	if strings.Contains(ref.Publisher, "Nueva Sociedad") || strings.Contains(ref.Source, "Caracas") {
		links["bnv"] = "https://www.bnv.gob.ve/"
		links["catalogobnv"] = "https://catalogo.bnv.gob.ve/"
	}

	note := "Buscar manualmente el ISBN"
	if state == StateISBNFound {
		note = "ISBN encontrado"
	}

	return EnrichedReference{
		RawReference: ref,
		Type:         TypeBook,
		Book:         data,
		Links:        links,
		State:        state,
		Note:         note,
	}
}

// searchBookISBN runs the catalog search fallback chain: full title plus
// author, then the title prefix before the first period plus author, then
// the prefix alone. The first attempt that yields a result wins.
func (p *Pipeline) searchBookISBN(ctx context.Context, ref RawReference) registry.BookSearch {
	type attempt struct {
		title  string
		author string
	}

	prefix := strings.TrimSpace(strings.SplitN(ref.Title, ".", 2)[0])
	attempts := []attempt{{ref.Title, ref.Author}}
	if prefix != "" && prefix != ref.Title {
		attempts = append(attempts, attempt{prefix, ref.Author})
	}
	if ref.Author != "" {
		attempts = append(attempts, attempt{prefix, ""})
	}

	for _, a := range attempts {
		if a.title == "" {
			continue
		}
		if result := p.books.SearchBookByTitle(ctx, a.title, a.author); result.Found {
			return result
		}
	}
	return registry.BookSearch{}
}

// internationalBodies is the fixed acronym set that marks a document as
// issued by an international organization.
var internationalBodies = regexp.MustCompile(`\b(ONU|UNESCO|FAO|CEPAL)\b`)

func (p *Pipeline) officialDocStrategy(ref RawReference) EnrichedReference {
	subtype := TypeOfficialDoc
	entity := ""

	// Keyword precedence: gazette, then law, then international body.
	switch {
	case strings.Contains(ref.Source, "Gaceta Oficial"):
		subtype = TypeGazette
		entity = "Venezuela"
	case strings.Contains(ref.Source, "Ley"):
		subtype = TypeLaw
	default:
		if match := internationalBodies.FindString(ref.Source); match != "" {
			subtype = TypeInternationalDoc
			entity = match
		}
	}

	links := map[string]string{
		"busqueda_oficial": googleSearchLink(`"` + ref.Title + `" ` + ref.Author + " " + ref.Year),
	}
	if subtype == TypeGazette {
		links["gaceta_venezuela"] = "https://www.imprentanacional.gob.ve/gaceta-oficial/"
	}
	if subtype == TypeInternationalDoc && entity == "ONU" {
		links["un_documents"] = "https://digitallibrary.un.org/"
	}
	if subtype == TypeInternationalDoc && entity == "FAO" {
		links["fao_documents"] = "https://www.fao.org/documents/es/"
	}

	return EnrichedReference{
		RawReference: ref,
		Type:         subtype,
		Official:     &OfficialData{Entity: entity},
		Links:        links,
		State:        StateOfficialDocument,
		Note:         "Documentos oficiales no tienen ISSN/ISBN. Verificar en fuentes oficiales.",
	}
}

var websiteURLPattern = regexp.MustCompile(`https?://[^\s<>"]+`)

func (p *Pipeline) websiteStrategy(ref RawReference) EnrichedReference {
	url := websiteURLPattern.FindString(ref.Source)

	links := map[string]string{}
	if url != "" {
		links["url_original"] = url
		links["archive"] = archiveLink(url)
		links["google_cache"] = googleCacheLink(url)
	}
	links["busqueda_general"] = googleSearchLink(`"` + ref.Title + `" ` + ref.Author)

	note := "URL no encontrada en el texto"
	if url != "" {
		note = "Verificar si la URL sigue activa"
	}

	return EnrichedReference{
		RawReference: ref,
		Type:         TypeWebsite,
		Website:      &WebsiteData{URL: url},
		Links:        links,
		State:        StateWebsite,
		Note:         note,
	}
}

func (p *Pipeline) thesisStrategy(ref RawReference) EnrichedReference {
	links := map[string]string{
		"google_scholar":  scholarLink(`"` + ref.Title + `" tesis ` + ref.Author),
		"worldcat_thesis": worldcatSearchLink(`"` + ref.Title + `" thesis`),
		"proquest":        "https://www.proquest.com/",
		"cybertesis":      "https://cybertesis.unmsm.edu.pe/",
	}

	return EnrichedReference{
		RawReference: ref,
		Type:         TypeThesis,
		Links:        links,
		State:        StateThesis,
		Note:         "Las tesis generalmente no tienen ISSN/ISBN. Buscar en repositorios universitarios.",
	}
}

func (p *Pipeline) genericStrategy(ref RawReference) EnrichedReference {
	links := map[string]string{
		"google_scholar":  scholarLink(`"` + ref.Title + `" ` + ref.Author),
		"google_general":  googleSearchLink(ref.Title + " " + ref.Author + " " + ref.Year),
		"worldcat":        worldcatSearchLink(ref.Title),
		"crossref_search": crossrefSearchLink(ref.Title),
	}

	refType := ref.InferredType
	if refType == "" {
		refType = TypeGeneric
	}

	return EnrichedReference{
		RawReference: ref,
		Type:         refType,
		Links:        links,
		State:        StateGenericSearch,
		Note:         "Tipo no específico. Use los enlaces para búsqueda general.",
	}
}
