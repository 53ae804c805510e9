package extract

import (
	"regexp"
	"strings"
)

// Identifiers holds whatever identifier tokens were found embedded in the
// free-text source of a reference. Empty string means not found.
type Identifiers struct {
	HasAny bool   `json:"has_any"`
	DOI    string `json:"doi,omitempty"`
	ISBN   string `json:"isbn,omitempty"`
	ISSN   string `json:"issn,omitempty"`
	URL    string `json:"url,omitempty"`
}

// DOI patterns, tried in order: bare DOI, doi.org path, full https URL.
var doiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)10\.\d{4,9}/[-._;()/:A-Z0-9]+`),
	regexp.MustCompile(`(?i)doi\.org/(10\.\d{4,9}/[-._;()/:A-Z0-9]+)`),
	regexp.MustCompile(`(?i)https?://doi\.org/(10\.\d{4,9}/[-._;()/:A-Z0-9]+)`),
}

// ISBN patterns, tried in order: explicit ISBN label, 978-prefixed, generic
// hyphenated 10/13 digit run.
var isbnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ISBN-?(?:1[03])?:?\s*(?:[-0-9\s]{17}|[-0-9\s]{13})`),
	regexp.MustCompile(`(?i)978-?[0-9]{1,5}-?[0-9]+-?[0-9]+-?[0-9X]`),
	regexp.MustCompile(`(?i)\b(?:97[89]-?)?\d{1,5}-?\d+-?\d+-?[\dX]\b`),
}

var (
	isbnLabel   = regexp.MustCompile(`(?i)ISBN-?(?:1[03])?:?\s*`)
	isbnStrip   = regexp.MustCompile(`[\s-]+`)
	issnPattern = regexp.MustCompile(`(?i)\b\d{4}-\d{3}[\dX]\b`)
	urlPattern  = regexp.MustCompile(`(?i)https?://[^\s<>"]+|www\.[^\s<>"]+`)
)

// FromSource scans the free-text source of a reference for embedded DOI,
// ISBN, ISSN and URL tokens. It is pure text matching, never fails, and the
// four extractions are independent: one source can yield all four.
func FromSource(source string) Identifiers {
	result := Identifiers{}
	if source == "" {
		return result
	}

	for _, pattern := range doiPatterns {
		match := pattern.FindString(source)
		if match != "" {
			result.DOI = cleanDOI(match)
			result.HasAny = true
			break
		}
	}

	if isbn := findISBN(source); isbn != "" {
		result.ISBN = isbn
		result.HasAny = true
	}

	if match := issnPattern.FindString(source); match != "" {
		result.ISSN = match
		result.HasAny = true
	}

	if match := urlPattern.FindString(source); match != "" {
		url := match
		if !strings.HasPrefix(url, "http") {
			url = "https://" + url
		}
		result.URL = url
		result.HasAny = true
	}

	return result
}

// findISBN tries the ISBN patterns in order. The generic hyphenated pattern
// is loose enough to catch page ranges and years, so its candidates only
// count when the cleaned digit run has ISBN-10 or ISBN-13 length.
func findISBN(source string) string {
	for i, pattern := range isbnPatterns {
		generic := i == len(isbnPatterns)-1
		for _, match := range pattern.FindAllString(source, -1) {
			isbn := cleanISBN(match)
			if generic && len(isbn) != 10 && len(isbn) != 13 {
				continue
			}
			if isbn != "" {
				return isbn
			}
		}
	}
	return ""
}

// cleanDOI strips any scheme or doi.org host from a matched DOI token.
func cleanDOI(doi string) string {
	if idx := strings.Index(doi, "doi.org/"); idx != -1 {
		doi = doi[idx+len("doi.org/"):]
	}
	if idx := strings.Index(doi, "https://"); idx != -1 {
		doi = doi[idx+len("https://"):]
	}
	return strings.TrimSpace(doi)
}

// cleanISBN removes the ISBN label plus all whitespace and hyphens, leaving
// only digits and a possible trailing X.
func cleanISBN(isbn string) string {
	isbn = isbnLabel.ReplaceAllString(isbn, "")
	isbn = isbnStrip.ReplaceAllString(isbn, "")
	return strings.TrimSpace(isbn)
}
