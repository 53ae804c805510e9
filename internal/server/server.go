// Package server exposes the document upload endpoint and service health
// routes.
package server

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Octaviuz-jpg/Detector-Bibliografico/config"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/bibliography"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/enrich"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/pdftext"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/report"
	"github.com/Octaviuz-jpg/Detector-Bibliografico/internal/store"
)

// Server wires the upload route to the enrichment pipeline.
type Server struct {
	cfg       config.AppConfig
	extractor bibliography.Extractor
	pipeline  *enrich.Pipeline
	store     *store.Store // nil disables persistence
	healthy   func() bool
}

func New(cfg config.AppConfig, extractor bibliography.Extractor, pipeline *enrich.Pipeline, st *store.Store, healthy func() bool) *Server {
	return &Server{
		cfg:       cfg,
		extractor: extractor,
		pipeline:  pipeline,
		store:     st,
		healthy:   healthy,
	}
}

const uploadPage = `<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>Detector Bibliográfico</title></head>
<body>
<h1>Detector Bibliográfico</h1>
<form action="/upload" method="post" enctype="multipart/form-data">
<input type="file" name="pdf" accept="application/pdf" required>
<button type="submit">Analizar bibliografía</button>
</form>
</body>
</html>`

// Routes registers the HTTP routes on the engine.
func (s *Server) Routes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		if strings.Contains(c.GetHeader("Accept"), "text/html") {
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(uploadPage))
			return
		}
		host, _ := os.Hostname()
		c.JSON(http.StatusOK, gin.H{"hostname": host})
	})

	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"healthy": s.healthy()}
		if s.store != nil {
			status["database"] = s.store.Ping() == nil
		}
		c.JSON(http.StatusOK, status)
	})

	r.POST("/upload", s.handleUpload)
}

type uploadResponse struct {
	Success         bool                       `json:"success"`
	TotalReferences int                        `json:"total_references"`
	ProcessingTime  string                     `json:"processing_time_ms"`
	Statistics      report.Statistics          `json:"statistics"`
	References      []enrich.EnrichedReference `json:"references"`
	Recommendations []report.Recommendation    `json:"recommendations"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Detail  string `json:"detail,omitempty"`
}

func (s *Server) handleUpload(c *gin.Context) {
	start := time.Now()

	if s.cfg.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)
	}

	file, header, err := c.Request.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error: "No se proporcionó el archivo PDF",
		})
		return
	}
	defer file.Close()

	fileContent, err := io.ReadAll(file)
	if err != nil {
		s.fail(c, "Error leyendo el archivo PDF", err)
		return
	}

	text, err := pdftext.ExtractText(fileContent)
	if err != nil {
		s.fail(c, "Error al procesar el PDF", err)
		return
	}

	section := bibliography.SectionFromText(text)
	if strings.TrimSpace(section) == "" {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error: "No se proporcionó texto bibliográfico",
		})
		return
	}

	log.Printf("Processing upload %s (%d bytes)", header.Filename, len(fileContent))

	refs, err := s.extractor.Extract(c.Request.Context(), section)
	if err != nil {
		s.fail(c, "Error procesando bibliografía", err)
		return
	}

	enriched := s.pipeline.Process(c.Request.Context(), refs)
	stats := report.ComputeStatistics(enriched)
	recommendations := report.GenerateRecommendations(enriched)
	elapsed := time.Since(start)

	if s.store != nil {
		slug, err := s.store.SaveReport(header.Filename, elapsed.Milliseconds(), stats, enriched)
		if err != nil {
			log.Printf("Error saving report for %s: %v", header.Filename, err)
		} else {
			log.Printf("Saved report %s for %s", slug, header.Filename)
		}
	}

	c.JSON(http.StatusOK, uploadResponse{
		Success:         true,
		TotalReferences: len(enriched),
		ProcessingTime:  fmt.Sprintf("%dms", elapsed.Milliseconds()),
		Statistics:      stats,
		References:      enriched,
		Recommendations: recommendations,
	})
}

// fail reports a processing error. The underlying detail is only exposed in
// development.
func (s *Server) fail(c *gin.Context, message string, err error) {
	log.Printf("Upload error: %s: %v", message, err)

	response := errorResponse{Error: message}
	if s.cfg.Env == "development" {
		response.Detail = err.Error()
	}
	c.JSON(http.StatusInternalServerError, response)
}
