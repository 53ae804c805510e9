package bibliography

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/enrich"
)

// Extractor turns a bibliography section into raw reference records.
type Extractor interface {
	Extract(ctx context.Context, bibliography string) ([]enrich.RawReference, error)
}

// Noop is the Extractor used when no LLM is configured. It yields an empty
// batch so the rest of the pipeline still runs end to end.
type Noop struct{}

func (Noop) Extract(ctx context.Context, bibliography string) ([]enrich.RawReference, error) {
	return nil, nil
}

type referenceEnvelope struct {
	References []enrich.RawReference `json:"references"`
}

// ParseReferences salvages the reference list from a raw model response. The
// model is told to return strict JSON but tends to wrap it in code fences or
// prose, so this tries the envelope first and falls back to the first JSON
// array in the text. Unparseable responses yield an empty list.
func ParseReferences(raw string) []enrich.RawReference {
	raw = stripCodeFences(raw)
	if raw == "" {
		return nil
	}

	var envelope referenceEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err == nil && envelope.References != nil {
		return envelope.References
	}

	var refs []enrich.RawReference
	if err := json.Unmarshal([]byte(raw), &refs); err == nil {
		return refs
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end <= start {
		log.Println("No JSON array found in the model response")
		return nil
	}

	if err := json.Unmarshal([]byte(raw[start:end+1]), &refs); err != nil {
		log.Printf("Could not parse references from model response: %v", err)
		return nil
	}
	return refs
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if newline := strings.Index(s, "\n"); newline != -1 {
			s = s[newline+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
