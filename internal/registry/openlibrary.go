package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

// DefaultOpenLibraryURL is the Open Library API base URL.
const DefaultOpenLibraryURL = "https://openlibrary.org"

var isbnJunk = regexp.MustCompile(`(?i)[^0-9X]`)

// OpenLibraryClient queries the Open Library book catalog.
type OpenLibraryClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// OpenLibraryOption configures an OpenLibraryClient.
type OpenLibraryOption func(*OpenLibraryClient)

// WithOpenLibraryURL overrides the base URL (used by tests).
func WithOpenLibraryURL(u string) OpenLibraryOption {
	return func(c *OpenLibraryClient) {
		c.baseURL = u
	}
}

// WithOpenLibraryTimeout overrides the request timeout.
func WithOpenLibraryTimeout(timeout time.Duration) OpenLibraryOption {
	return func(c *OpenLibraryClient) {
		c.timeout = timeout
	}
}

// NewOpenLibraryClient creates an Open Library client with the default
// 4 second timeout.
func NewOpenLibraryClient(opts ...OpenLibraryOption) *OpenLibraryClient {
	c := &OpenLibraryClient{
		baseURL: DefaultOpenLibraryURL,
		client:  &http.Client{},
		timeout: DefaultRegistryTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type openLibraryBook struct {
	Title   string `json:"title"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Publishers []struct {
		Name string `json:"name"`
	} `json:"publishers"`
	PublishDate string `json:"publish_date"`
	URL         string `json:"url"`
}

type openLibrarySearch struct {
	Docs []struct {
		Title            string          `json:"title"`
		AuthorName       []string        `json:"author_name"`
		FirstPublishYear int             `json:"first_publish_year"`
		ISBN             json.RawMessage `json:"isbn"`
	} `json:"docs"`
}

// VerifyISBN looks an ISBN up in the catalog. Any error or empty result
// yields the not-found shape; it never propagates a failure.
func (c *OpenLibraryClient) VerifyISBN(ctx context.Context, isbn string) ISBNVerification {
	clean := isbnJunk.ReplaceAllString(isbn, "")
	if clean == "" {
		return ISBNVerification{}
	}
	key := "ISBN:" + clean

	var books map[string]openLibraryBook
	params := url.Values{
		"bibkeys": {key},
		"format":  {"json"},
		"jscmd":   {"data"},
	}
	err := c.getJSON(ctx, c.baseURL+"/api/books", params, &books)
	if err != nil {
		log.Printf("Error verifying ISBN %s: %v", clean, err)
		return ISBNVerification{}
	}

	book, ok := books[key]
	if !ok {
		return ISBNVerification{}
	}

	v := ISBNVerification{
		Found: true,
		Title: book.Title,
		Year:  book.PublishDate,
	}
	for _, a := range book.Authors {
		v.Authors = append(v.Authors, a.Name)
	}
	if len(book.Publishers) > 0 {
		v.Publisher = book.Publishers[0].Name
	}
	if book.URL != "" {
		v.URL = book.URL
	}
	return v
}

// SearchBookByTitle searches the catalog by title prefix and first author
// surname and returns the first hit that carries an ISBN. The catalog
// returns the isbn field as either a single value or a list.
func (c *OpenLibraryClient) SearchBookByTitle(ctx context.Context, title, author string) BookSearch {
	params := url.Values{
		"title": {truncate(title, 100)},
		"limit": {"2"},
	}
	if author != "" {
		params.Set("author", firstAuthor(author))
	}

	var search openLibrarySearch
	err := c.getJSON(ctx, c.baseURL+"/search.json", params, &search)
	if err != nil {
		log.Printf("Error searching book by title %q: %v", title, err)
		return BookSearch{}
	}
	if len(search.Docs) == 0 {
		return BookSearch{}
	}

	doc := search.Docs[0]
	isbn := decodeISBNField(doc.ISBN)
	if isbn == "" {
		return BookSearch{}
	}

	result := BookSearch{
		Found: true,
		ISBN:  isbn,
		Title: doc.Title,
		Year:  doc.FirstPublishYear,
	}
	if len(doc.AuthorName) > 0 {
		result.Author = doc.AuthorName[0]
	}
	return result
}

// decodeISBNField handles both list-valued and single-valued isbn fields.
func decodeISBNField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) > 0 {
			return list[0]
		}
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	return ""
}

func (c *OpenLibraryClient) getJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
