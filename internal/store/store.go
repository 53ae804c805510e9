// Package store persists processed documents and their enriched references
// in MySQL.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"

	"github.com/uniplaces/carbon"

	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/enrich"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/helpers"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/report"
)

// Store is the MySQL-backed persistence layer.
type Store struct {
	db *sql.DB
}

// Document is one processed upload.
type Document struct {
	ID                int64  `json:"id"`
	Slug              string `json:"slug"`
	Filename          string `json:"filename"`
	TotalReferences   int    `json:"total_references"`
	SuccessPercentage int    `json:"success_percentage"`
	ProcessingTimeMS  int64  `json:"processing_time_ms"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

// Reference is one enriched reference row belonging to a document.
type Reference struct {
	ID         int64  `json:"id"`
	DocumentID int64  `json:"document_id"`
	Position   int    `json:"position"`
	Author     string `json:"author"`
	Year       string `json:"year"`
	Title      string `json:"title"`
	Source     string `json:"source"`
	Type       string `json:"type"`
	State      string `json:"state"`
	DOI        string `json:"doi"`
	ISBN       string `json:"isbn"`
	ISSN       string `json:"issn"`
	Links      string `json:"links"`
	Note       string `json:"note"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// New creates a new Store instance
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetDB returns the underlying sql.DB instance
func (store *Store) GetDB() *sql.DB {
	return store.db
}

// Ping verifies the database connection is alive.
func (store *Store) Ping() error {
	return store.db.Ping()
}

// SaveReport stores the document row and one row per enriched reference.
// Returns the document slug.
func (store *Store) SaveReport(filename string, processingTimeMS int64, stats report.Statistics, refs []enrich.EnrichedReference) (string, error) {
	if filename == "" {
		return "", errors.New("missing filename")
	}

	slug := helpers.GenerateRandomString(14)
	now := carbon.Now().DateTimeString()

	result, err := store.db.Exec(
		"INSERT INTO documents (slug, filename, total_references, success_percentage, processing_time_ms, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		slug, filename, stats.Total, stats.SuccessPercentage, processingTimeMS, now, now)
	if err != nil {
		return "", err
	}

	documentID, err := result.LastInsertId()
	if err != nil {
		return "", err
	}

	for i := range refs {
		if err := store.saveReference(documentID, i, &refs[i], now); err != nil {
			log.Printf("Error saving reference %d of document %s: %v", i+1, slug, err)
		}
	}

	return slug, nil
}

func (store *Store) saveReference(documentID int64, position int, ref *enrich.EnrichedReference, now string) error {
	links, err := json.Marshal(ref.Links)
	if err != nil {
		links = []byte("{}")
	}

	doi, isbn, issn := resolvedIdentifiers(ref)

	_, err = store.db.Exec(
		"INSERT INTO `references` (document_id, position, author, year, title, source, type, state, doi, isbn, issn, links, note, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		documentID, position, ref.Author, ref.Year, ref.Title, ref.Source, ref.Type, ref.State, doi, isbn, issn, string(links), ref.Note, now, now)
	return err
}

// FindDocumentBySlug returns the document row, zero-valued when absent.
func (store *Store) FindDocumentBySlug(slug string) (Document, error) {
	var doc Document
	err := store.db.QueryRow("SELECT * FROM documents WHERE slug = ?", slug).Scan(
		&doc.ID,
		&doc.Slug,
		&doc.Filename,
		&doc.TotalReferences,
		&doc.SuccessPercentage,
		&doc.ProcessingTimeMS,
		&doc.CreatedAt,
		&doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, nil
	}
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

// FindReferencesByDocument returns the document's references in position order.
func (store *Store) FindReferencesByDocument(documentID int64) ([]Reference, error) {
	rows, err := store.db.Query("SELECT * FROM `references` WHERE document_id = ? ORDER BY position", documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []Reference
	for rows.Next() {
		var ref Reference
		err = rows.Scan(
			&ref.ID,
			&ref.DocumentID,
			&ref.Position,
			&ref.Author,
			&ref.Year,
			&ref.Title,
			&ref.Source,
			&ref.Type,
			&ref.State,
			&ref.DOI,
			&ref.ISBN,
			&ref.ISSN,
			&ref.Links,
			&ref.Note,
			&ref.CreatedAt,
			&ref.UpdatedAt)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// resolvedIdentifiers flattens whichever path produced each identifier into
// the indexed columns.
func resolvedIdentifiers(ref *enrich.EnrichedReference) (doi, isbn, issn string) {
	if v := ref.Verified; v != nil {
		doi, isbn, issn = v.DOI, v.ISBN, v.ISSN
	}
	if f := ref.FoundIdentifiers; f != nil {
		if doi == "" {
			doi = f.DOI
		}
		if isbn == "" {
			isbn = f.ISBN
		}
		if issn == "" {
			issn = f.ISSN
		}
	}
	if j := ref.Journal; j != nil {
		if doi == "" {
			doi = j.DOI
		}
		if issn == "" {
			issn = j.ISSN
		}
	}
	if b := ref.Book; b != nil && isbn == "" {
		isbn = b.ISBN
	}
	return doi, isbn, issn
}
