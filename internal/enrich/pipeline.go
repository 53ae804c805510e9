package enrich

import (
	"context"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/extract"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/registry"
)

// DefaultReferenceDelay is the pause between consecutive references. It only
// exists to avoid bursting the public registries.
const DefaultReferenceDelay = 300 * time.Millisecond

// DOIService is the slice of the CrossRef client the pipeline needs.
type DOIService interface {
	VerifyDOI(ctx context.Context, doi, refText string) registry.DOIVerification
	LookupJournal(ctx context.Context, name string) registry.JournalLookup
	SearchWorks(ctx context.Context, title, author string) registry.WorkSearch
}

// BookService is the slice of the book catalog client the pipeline needs.
type BookService interface {
	VerifyISBN(ctx context.Context, isbn string) registry.ISBNVerification
	SearchBookByTitle(ctx context.Context, title, author string) registry.BookSearch
}

// Pipeline enriches raw references one at a time. References are processed
// sequentially; the limiter spaces registry traffic between records.
type Pipeline struct {
	crossref DOIService
	books    BookService
	limiter  *rate.Limiter
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithReferenceDelay sets the inter-record pacing. Zero or negative disables
// the throttle, which is how tests run.
func WithReferenceDelay(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		if d <= 0 {
			p.limiter = nil
			return
		}
		p.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// NewPipeline creates a Pipeline with the default inter-record delay.
func NewPipeline(crossref DOIService, books BookService, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		crossref: crossref,
		books:    books,
		limiter:  rate.NewLimiter(rate.Every(DefaultReferenceDelay), 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process turns every RawReference into exactly one EnrichedReference, in
// input order. A single record's failure degrades that record only; the
// batch always completes.
func (p *Pipeline) Process(ctx context.Context, refs []RawReference) []EnrichedReference {
	enriched := make([]EnrichedReference, 0, len(refs))

	for i, ref := range refs {
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				// Context gone; keep going so the output stays
				// one-to-one with the input. The verifiers fail
				// fast and each record degrades on its own.
				log.Printf("Reference throttle interrupted: %v", err)
			}
		}

		log.Printf("Processing reference %d/%d: %.70s", i+1, len(refs), ref.Title)
		enriched = append(enriched, p.enrichOne(ctx, ref))
	}

	return enriched
}

func (p *Pipeline) enrichOne(ctx context.Context, ref RawReference) (out EnrichedReference) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered while enriching %q: %v", ref.Title, r)
			refType := ref.InferredType
			if refType == "" {
				refType = TypeGeneric
			}
			out = EnrichedReference{
				RawReference: ref,
				Type:         refType,
				Links:        map[string]string{},
				State:        StateNotProcessed,
				Note:         "No se pudo procesar la referencia. Inténtelo manualmente.",
			}
		}
	}()

	found := extract.FromSource(ref.Source)
	if found.HasAny {
		return p.enrichWithIdentifiers(ctx, ref, found)
	}
	return p.enrichByType(ctx, ref)
}
