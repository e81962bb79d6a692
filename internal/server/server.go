// Package server exposes the paginator over HTTP for previewing documents.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pageflow/pageflow/internal/doctree"
	"github.com/pageflow/pageflow/internal/parser"
	"github.com/pageflow/pageflow/pkg/api"
)

const maxUploadBytes = 32 << 20

// Server is the HTTP preview server.
type Server struct {
	router    chi.Router
	paginator *api.Paginator
	log       *slog.Logger
}

// NewServer creates and configures the HTTP server around one paginator.
func NewServer(p *api.Paginator, log *slog.Logger) *Server {
	s := &Server{
		paginator: p,
		log:       log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Post("/api/paginate", s.handlePaginate)
	r.Post("/api/render", s.handleRender)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handlePaginate accepts a document upload, paginates it and returns a JSON
// summary of the resulting pages.
func (s *Server) handlePaginate(w http.ResponseWriter, r *http.Request) {
	doc, filename, ok := s.uploadedDoc(w, r)
	if !ok {
		return
	}

	pages := make([]pageSummary, 0, len(doc.Children))
	for _, page := range doc.Children {
		pages = append(pages, summarize(page))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename": filename,
		"pages":    pages,
	})
}

// handleRender accepts a document upload and streams back the paginated PDF.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	doc, filename, ok := s.uploadedDoc(w, r)
	if !ok {
		return
	}

	tmp, err := os.CreateTemp("", "pageflow-*.pdf")
	if err != nil {
		jsonError(w, "failed to create output file", http.StatusInternalServerError)
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := s.paginator.RenderPDF(doc, tmp.Name()); err != nil {
		s.log.Error("render failed", "filename", filename, "error", err)
		jsonError(w, "render failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err := tmp.Seek(0, 0); err != nil {
		jsonError(w, "failed to read output file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	io.Copy(w, tmp)
}

// uploadedDoc reads the multipart upload and returns the paginated document.
// On failure it writes the error response and returns ok=false.
func (s *Server) uploadedDoc(w http.ResponseWriter, r *http.Request) (*doctree.Node, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return nil, "", false
	}

	doc, err := s.paginator.Load(file, filename)
	if err != nil {
		s.log.Error("pagination failed", "filename", filename, "error", err)
		jsonError(w, "pagination failed: "+err.Error(), http.StatusUnprocessableEntity)
		return nil, "", false
	}
	return doc, filename, true
}

type pageSummary struct {
	Number     int `json:"number"`
	Blocks     int `json:"blocks"`
	Characters int `json:"characters"`
	Continued  int `json:"continued_blocks"`
}

func summarize(page *doctree.Node) pageSummary {
	sum := pageSummary{
		Number: page.Attrs.PageNumber,
		Blocks: len(page.Children),
	}
	for _, c := range page.Children {
		sum.Characters += len([]rune(c.TextContent()))
		if c.Attrs.Extend {
			sum.Continued++
		}
	}
	return sum
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
