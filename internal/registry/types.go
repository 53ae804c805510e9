package registry

// Result shapes returned by the verifiers. Every network failure, timeout or
// malformed response collapses into the zero "not found" value of these
// types; verifier errors never reach the enrichment loop.

// DOIVerification classifies a DOI, in particular whether it points at a
// book rather than an article.
type DOIVerification struct {
	Valid     bool   `json:"valid"`
	IsBook    bool   `json:"is_book"`
	Type      string `json:"type"`
	Publisher string `json:"publisher,omitempty"`
	Title     string `json:"title,omitempty"`
	Year      int    `json:"year,omitempty"`
}

// ISBNVerification is the result of an ISBN lookup against the book catalog.
type ISBNVerification struct {
	Found     bool     `json:"found"`
	Title     string   `json:"title,omitempty"`
	Authors   []string `json:"authors,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	Year      string   `json:"year,omitempty"`
	URL       string   `json:"url,omitempty"`
}

// JournalLookup is the top match of a journal-name query.
type JournalLookup struct {
	Found     bool   `json:"found"`
	ISSN      string `json:"issn,omitempty"`
	Name      string `json:"name,omitempty"`
	Publisher string `json:"publisher,omitempty"`
}

// WorkSearch is the top-ranked match of a title+author works search.
type WorkSearch struct {
	Found   bool     `json:"found"`
	DOI     string   `json:"doi,omitempty"`
	Score   float64  `json:"score,omitempty"`
	Title   string   `json:"title,omitempty"`
	Authors []string `json:"authors,omitempty"`
}

// BookSearch is the first catalog hit of a title+author book search that
// carries an ISBN.
type BookSearch struct {
	Found  bool   `json:"found"`
	ISBN   string `json:"isbn,omitempty"`
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
	Year   int    `json:"year,omitempty"`
}
