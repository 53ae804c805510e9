// Package bibliography isolates the bibliography section of a document and
// turns it into raw reference records via an LLM extraction step.
package bibliography

import (
	"log"
	"regexp"
	"strings"
)

const (
	sectionStart = "bibliografía"
	sectionEnd   = "leyes y decretos citados"
)

var whitespace = regexp.MustCompile(`\s+`)

// SectionFromText returns the bibliography section of the extracted document
// text, whitespace-collapsed to a single line. The section runs from the
// "Bibliografía" heading to the "Leyes y Decretos Citados" heading; when the
// start heading is missing the whole cleaned text is returned so extraction
// still has something to work with.
func SectionFromText(text string) string {
	clean := strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	lower := strings.ToLower(clean)

	start := strings.Index(lower, sectionStart)
	if start == -1 {
		log.Println("Bibliography heading not found, using full document text")
		return clean
	}

	end := strings.Index(lower, sectionEnd)
	if end != -1 && end > start {
		return strings.TrimSpace(clean[start:end])
	}
	return strings.TrimSpace(clean[start:])
}
