package enrich

import (
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/extract"
)

// Reference types as inferred by the extraction step. The official-document
// strategy refines its own subtype set on top of these.
const (
	TypeJournal     = "revista"
	TypeBook        = "libro"
	TypeOfficialDoc = "documento_oficial"
	TypeLaw         = "ley"
	TypeWebsite     = "sitio_web"
	TypeWeb         = "web"
	TypeThesis      = "tesis"
	TypeOther       = "otro"
	TypeGeneric     = "generico"

	// Official-document subtypes.
	TypeGazette          = "gaceta_oficial"
	TypeInternationalDoc = "documento_internacional"
)

// Processing states. The Spanish codes are part of the wire format consumed
// by existing clients of the report.
const (
	// Identifier path.
	StateIdentifierFound = "IDENTIFICADOR_ENCONTRADO"
	StateBookWithDOI     = "LIBRO_CON_DOI"
	StateArticleWithDOI  = "ARTICULO_CON_DOI"
	StateISBNValidated   = "ISBN_VALIDADO"
	StateISSNFound       = "ISSN_ENCONTRADO"
	StatePDFDocument     = "DOCUMENTO_PDF"

	// Type-classification path.
	StateJournalProcessed  = "REVISTA_PROCESADA"
	StateJournalIdentified = "REVISTA_IDENTIFICADA"
	StateArticleFound      = "ARTICULO_ENCONTRADO"
	StateBookProcessed     = "LIBRO_PROCESADO"
	StateISBNFound         = "ISBN_ENCONTRADO"
	StateOfficialDocument  = "DOCUMENTO_OFICIAL"
	StateWebsite           = "SITIO_WEB"
	StateThesis            = "TESIS"
	StateGenericSearch     = "BUSQUEDA_GENERICA"

	// Per-record failure fallback; the batch always completes.
	StateNotProcessed = "NO_PROCESADO"
)

// RawIdentifiers are the identifiers the extraction model believes it saw.
// The pipeline re-derives identifiers from the source text as the
// authoritative signal; these only gate the book strategy's ISBN search.
type RawIdentifiers struct {
	DOI  string `json:"doi,omitempty"`
	ISBN string `json:"isbn,omitempty"`
	ISSN string `json:"issn,omitempty"`
	URL  string `json:"url,omitempty"`
}

// RawReference is one citation record produced by the LLM extraction step.
// Title and Author are never null upstream but may be low quality; Source
// may be empty.
type RawReference struct {
	Author       string         `json:"author"`
	Year         string         `json:"year"`
	Title        string         `json:"title"`
	Source       string         `json:"source"`
	InferredType string         `json:"inferred_type"`
	Identifiers  RawIdentifiers `json:"identifiers"`
	JournalName  string         `json:"journal_name,omitempty"`
	Publisher    string         `json:"publisher,omitempty"`
	Volume       string         `json:"volume,omitempty"`
	Issue        string         `json:"issue,omitempty"`
	Pages        string         `json:"pages,omitempty"`
}

// VerifiedData carries the identifier-path findings.
type VerifiedData struct {
	DOI           string `json:"doi,omitempty"`
	DOIValid      bool   `json:"doi_valid,omitempty"`
	DOIType       string `json:"doi_type,omitempty"`
	ISBN          string `json:"isbn,omitempty"`
	ISBNValid     bool   `json:"isbn_valid,omitempty"`
	ISBNTitle     string `json:"isbn_title,omitempty"`
	ISBNPublisher string `json:"isbn_publisher,omitempty"`
	ISSN          string `json:"issn,omitempty"`
}

// JournalData carries the journal strategy's findings.
type JournalData struct {
	ISSN         string  `json:"issn,omitempty"`
	OfficialName string  `json:"official_name,omitempty"`
	DOI          string  `json:"doi,omitempty"`
	Score        float64 `json:"score,omitempty"`
}

// BookData carries the book strategy's findings.
type BookData struct {
	ISBN              string `json:"isbn,omitempty"`
	VerifiedTitle     string `json:"verified_title,omitempty"`
	VerifiedPublisher string `json:"verified_publisher,omitempty"`
}

// OfficialData carries the official-document strategy's findings.
type OfficialData struct {
	Entity string `json:"entity,omitempty"`
}

// WebsiteData carries the website strategy's findings.
type WebsiteData struct {
	URL string `json:"url,omitempty"`
}

// EnrichedReference is the terminal shape of one reference: the original
// record plus classification, the variant payload of whichever path ran,
// candidate follow-up links, and a processing state.
type EnrichedReference struct {
	RawReference

	Type             string               `json:"type"`
	FoundIdentifiers *extract.Identifiers `json:"identifiers_found,omitempty"`
	Verified         *VerifiedData        `json:"verified_data,omitempty"`
	Journal          *JournalData         `json:"journal_data,omitempty"`
	Book             *BookData            `json:"book_data,omitempty"`
	Official         *OfficialData        `json:"official_data,omitempty"`
	Website          *WebsiteData         `json:"website_data,omitempty"`
	Links            map[string]string    `json:"links"`
	State            string               `json:"state"`
	Note             string               `json:"note"`
}

// HasResolvedIdentifier reports whether the reference ended up with at least
// one DOI/ISBN/ISSN, from either the identifier path or a type strategy.
func (r *EnrichedReference) HasResolvedIdentifier() bool {
	if f := r.FoundIdentifiers; f != nil && (f.DOI != "" || f.ISBN != "" || f.ISSN != "") {
		return true
	}
	if v := r.Verified; v != nil && (v.DOI != "" || v.ISBN != "" || v.ISSN != "") {
		return true
	}
	if j := r.Journal; j != nil && (j.DOI != "" || j.ISSN != "") {
		return true
	}
	if b := r.Book; b != nil && b.ISBN != "" {
		return true
	}
	return false
}

// HasDOI reports whether any path resolved a DOI for the reference.
func (r *EnrichedReference) HasDOI() bool {
	if f := r.FoundIdentifiers; f != nil && f.DOI != "" {
		return true
	}
	if v := r.Verified; v != nil && v.DOI != "" {
		return true
	}
	return r.Journal != nil && r.Journal.DOI != ""
}

// HasISBN reports whether any path resolved an ISBN for the reference.
func (r *EnrichedReference) HasISBN() bool {
	if f := r.FoundIdentifiers; f != nil && f.ISBN != "" {
		return true
	}
	if v := r.Verified; v != nil && v.ISBN != "" {
		return true
	}
	return r.Book != nil && r.Book.ISBN != ""
}

// HasISSN reports whether any path resolved an ISSN for the reference.
func (r *EnrichedReference) HasISSN() bool {
	if f := r.FoundIdentifiers; f != nil && f.ISSN != "" {
		return true
	}
	if v := r.Verified; v != nil && v.ISSN != "" {
		return true
	}
	return r.Journal != nil && r.Journal.ISSN != ""
}

// IsOfficial reports whether the final type is one of the official or legal
// document classifications.
func (r *EnrichedReference) IsOfficial() bool {
	switch r.Type {
	case TypeOfficialDoc, TypeLaw, TypeGazette, TypeInternationalDoc:
		return true
	}
	return false
}
