package enrich

import (
	"net/url"
	"strings"
)

// Candidate follow-up URLs for a human to chase when automatic enrichment
// stops short. Link labels are part of the report format.

func doiLink(doi string) string {
	return "https://doi.org/" + doi
}

func crossrefWorkLink(doi string) string {
	return "https://api.crossref.org/works/" + doi
}

func issnPortalLink(issn string) string {
	return "https://portal.issn.org/resource/ISSN/" + issn
}

func isbnSearchLink(isbn string) string {
	return "https://isbnsearch.org/isbn/" + isbn
}

func worldcatISBNLink(isbn string) string {
	return "https://www.worldcat.org/isbn/" + isbn
}

func isbndbLink(isbn string) string {
	return "https://isbndb.com/book/" + isbn
}

func scholarLink(query string) string {
	return "https://scholar.google.com/scholar?q=" + url.QueryEscape(query)
}

func scieloLink(title string) string {
	return "https://search.scielo.org/?q=" + url.QueryEscape(titlePrefix(title, 100)) + "&lang=es"
}

func redalycLink(query string) string {
	return "https://www.redalyc.org/resultados?q=" + url.QueryEscape(query)
}

func latindexLink(journalName string) string {
	return "https://www.latindex.org/latindex/buscarRevistas?termino=" + url.QueryEscape(journalName)
}

func worldcatSearchLink(query string) string {
	return "https://www.worldcat.org/search?q=" + url.QueryEscape(query)
}

func googleBooksLink(title string) string {
	return "https://www.google.com/search?tbm=bks&q=" + url.QueryEscape(title)
}

func openLibrarySearchLink(title string) string {
	return "https://openlibrary.org/search?q=" + url.QueryEscape(title)
}

func googleSearchLink(query string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(query)
}

func archiveLink(target string) string {
	return "https://web.archive.org/web/*/" + target
}

func googleCacheLink(target string) string {
	return "https://webcache.googleusercontent.com/search?q=cache:" + url.QueryEscape(target)
}

func crossrefSearchLink(title string) string {
	return "https://search.crossref.org/?q=" + url.QueryEscape(titlePrefix(title, 100))
}

// titlePrefix limits a title to n runes for query building.
func titlePrefix(title string, n int) string {
	runes := []rune(title)
	if len(runes) <= n {
		return title
	}
	return string(runes[:n])
}

// latinAmericanKeywords flag journals from the region; matched as lowercase
// substrings of journal name plus source text.
var latinAmericanKeywords = []string{
	"venezolana",
	"latino",
	"ibero",
	"mexicana",
	"colombiana",
	"argentina",
	"chilena",
	"peruana",
	"ecuatoriana",
	"española",
	"iberoamericana",
	"iberoamérica",
}

// IsLatinAmericanJournal reports whether the reference looks like it comes
// from a Latin-American journal. The report generator uses it to suggest the
// regional indexes.
func IsLatinAmericanJournal(ref RawReference) bool {
	text := strings.ToLower(ref.JournalName + " " + ref.Source)
	for _, keyword := range latinAmericanKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
