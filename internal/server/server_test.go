package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Octaviuz-jpg/Detector-Bibliografico/config"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/bibliography"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/enrich"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/registry"
)

type stubDOIService struct{}

func (stubDOIService) VerifyDOI(ctx context.Context, doi, refText string) registry.DOIVerification {
	return registry.DOIVerification{}
}
func (stubDOIService) LookupJournal(ctx context.Context, name string) registry.JournalLookup {
	return registry.JournalLookup{}
}
func (stubDOIService) SearchWorks(ctx context.Context, title, author string) registry.WorkSearch {
	return registry.WorkSearch{}
}

type stubBookService struct{}

func (stubBookService) VerifyISBN(ctx context.Context, isbn string) registry.ISBNVerification {
	return registry.ISBNVerification{}
}
func (stubBookService) SearchBookByTitle(ctx context.Context, title, author string) registry.BookSearch {
	return registry.BookSearch{}
}

func newTestRouter(env string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	pipeline := enrich.NewPipeline(stubDOIService{}, stubBookService{}, enrich.WithReferenceDelay(0))
	srv := New(
		config.AppConfig{Env: env},
		bibliography.Noop{},
		pipeline,
		nil,
		func() bool { return true },
	)

	r := gin.New()
	srv.Routes(r)
	return r
}

func TestRootReportsHostname(t *testing.T) {
	r := newTestRouter("production")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := body["hostname"]; !ok {
		t.Errorf("body = %v", body)
	}
}

func TestRootServesUploadForm(t *testing.T) {
	r := newTestRouter("production")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`name="pdf"`)) {
		t.Errorf("form missing pdf field: %s", w.Body.String())
	}
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter("production")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !body["healthy"] {
		t.Errorf("body = %v", body)
	}
}

func TestUploadMissingFile(t *testing.T) {
	r := newTestRouter("production")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Success || body.Error == "" {
		t.Errorf("body = %+v", body)
	}
}

func uploadRequest(t *testing.T, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("pdf", "documento.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadUnreadablePDF(t *testing.T) {
	r := newTestRouter("production")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, []byte("this is not a pdf")))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Detail != "" {
		t.Errorf("detail %q must be hidden outside development", body.Detail)
	}
}

func TestUploadUnreadablePDFDevelopmentDetail(t *testing.T) {
	r := newTestRouter("development")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, []byte("this is not a pdf")))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Detail == "" {
		t.Error("development mode must expose the error detail")
	}
}
