package bibliography

import (
	"context"
	"errors"
	"fmt"
	"log"

	genai "google.golang.org/genai"

	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/enrich"
)

const (
	// DefaultModel balances extraction quality against latency for
	// bibliographies of a few hundred entries.
	DefaultModel = "gemini-2.5-flash"

	// DefaultMaxInputLen caps how much of the bibliography section is sent
	// to the model in one request.
	DefaultMaxInputLen = 10000
)

const extractionPrompt = `Eres un experto bibliotecario especializado en extracción de referencias. Analiza el texto y extrae TODAS las referencias bibliográficas.

PARA CADA REFERENCIA, IDENTIFICA:
1. AUTOR(ES): Todo el texto hasta el año de publicación
2. AÑO: Año de publicación en formato 4 dígitos
3. TÍTULO: Título completo (no cortes en el primer punto, incluye subtítulos)
4. FUENTE: Texto completo después del título

ANALIZA LA FUENTE PARA DETECTAR:
- Tipo de publicación: revista/libro/documento_oficial/sitio_web/tesis/otro
- Identificadores: DOI, ISBN, ISSN, URLs
- Nombre de revista o editorial
- Volumen, número, páginas (si aplica)

EJEMPLOS:
- "Revista Venezolana de Gerencia. Vol.11, No. 33, pp. 49-73"
  -> inferred_type: "revista", journal_name: "Revista Venezolana de Gerencia", volume: "11", issue: "33"
- "Springer International Publishing. https://doi.org/10.1007/978-3-030-02083-5"
  -> inferred_type: "libro", publisher: "Springer International Publishing", doi: "10.1007/978-3-030-02083-5"
- "Gaceta Oficial N° 36.970 del 12 de junio. Caracas, Venezuela"
  -> inferred_type: "documento_oficial"

DEVUELVE EXCLUSIVAMENTE JSON, sin bloques de código ni explicaciones, con este formato:
{
  "references": [
    {
      "author": "string",
      "year": "string",
      "title": "string",
      "source": "string",
      "inferred_type": "revista/libro/documento_oficial/sitio_web/tesis/otro",
      "identifiers": {
        "doi": "string o null",
        "isbn": "string o null",
        "issn": "string o null",
        "url": "string o null"
      },
      "journal_name": "string o null",
      "publisher": "string o null",
      "volume": "string o null",
      "issue": "string o null",
      "pages": "string o null"
    }
  ]
}

TEXTO A PROCESAR:
`

// GeminiExtractor extracts reference records with the Gemini API.
type GeminiExtractor struct {
	client      *genai.Client
	model       string
	maxInputLen int
}

// NewGeminiExtractor builds the extraction client. The model and input cap
// fall back to the package defaults when unset.
func NewGeminiExtractor(ctx context.Context, apiKey, model string, maxInputLen int) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	if model == "" {
		model = DefaultModel
	}
	if maxInputLen <= 0 {
		maxInputLen = DefaultMaxInputLen
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model, maxInputLen: maxInputLen}, nil
}

// Extract sends the bibliography section to the model and parses the
// reference records from its response.
func (g *GeminiExtractor) Extract(ctx context.Context, bibliography string) ([]enrich.RawReference, error) {
	if bibliography == "" {
		return nil, errors.New("empty bibliography text")
	}

	input := bibliography
	if runes := []rune(input); len(runes) > g.maxInputLen {
		input = string(runes[:g.maxInputLen])
	}

	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(extractionPrompt+input, genai.RoleUser),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini extraction: %w", err)
	}

	refs := ParseReferences(res.Text())
	log.Printf("Extracted %d references from bibliography", len(refs))
	return refs, nil
}
