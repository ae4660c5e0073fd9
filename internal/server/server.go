// =============================================================================
// Rebate CSV Formatter - HTTP Server Module
// =============================================================================
//
// This module exposes the batch pipeline over HTTP:
//
//   POST /api/process             - multipart upload, field "files"
//   GET  /api/download/{filename} - fetch a processed output file
//   GET  /api/healthz             - liveness probe
//   GET  /                        - embedded single-page UI
//
// The process endpoint stores each upload, runs the batch orchestrator over
// the stored files, and returns one outcome per file plus batch totals as
// JSON. Per-file failures are reported inside the 200 response; only
// request-level problems (no files, a non-CSV name, an oversized form)
// produce a 4xx.
//
// =============================================================================

package server

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ginjaninja78/rebate-csv-formatter/internal/batch"
	"github.com/ginjaninja78/rebate-csv-formatter/internal/config"
	"github.com/ginjaninja78/rebate-csv-formatter/pkg/utils"
)

// DownloadBasePath prefixes stored output names in download URLs.
const DownloadBasePath = "/api/download/"

//go:embed static/index.html
var staticFiles embed.FS

// =============================================================================
// SERVER
// =============================================================================

// Server wires the HTTP handlers to the batch orchestrator and storage.
type Server struct {
	cfg    *config.Config
	store  *utils.FileManager
	orch   *batch.Orchestrator
	logger batch.Logger
}

// New creates a Server over the given configuration, storage and
// orchestrator.
func New(cfg *config.Config, store *utils.FileManager, orch *batch.Orchestrator, logger batch.Logger) *Server {
	return &Server{
		cfg:    cfg,
		store:  store,
		orch:   orch,
		logger: logger,
	}
}

// Handler builds the router with all routes registered.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/api/process", s.handleProcess).Methods("POST")
	router.HandleFunc("/api/download/{filename}", s.handleDownload).Methods("GET")
	router.HandleFunc("/api/healthz", s.handleHealthz).Methods("GET")
	router.HandleFunc("/", s.handleIndex).Methods("GET")

	router.Use(s.logRequests)

	return router
}

// =============================================================================
// HANDLERS
// =============================================================================

// handleProcess accepts one or more uploaded CSV files, runs the batch, and
// responds with per-file outcomes and totals.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	maxMemory := int64(s.cfg.MaxUploadMB) << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to parse multipart form: %v", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		s.writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	jobs := make([]batch.Job, 0, len(uploads))
	for _, header := range uploads {
		name := utils.SanitizeFilename(header.Filename)
		if !strings.HasSuffix(strings.ToLower(name), ".csv") {
			s.writeError(w, http.StatusBadRequest, "only CSV files are supported: %s", name)
			return
		}

		file, err := header.Open()
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "failed to read upload %s: %v", name, err)
			return
		}

		path, size, err := s.store.StoreUpload(name, file)
		file.Close()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "failed to store upload %s: %v", name, err)
			return
		}

		s.logger.Info("uploaded file saved: name=%s size_bytes=%d", name, size)
		jobs = append(jobs, batch.Job{Name: name, Path: path})
	}

	// The request context cancels remaining files if the client goes away;
	// in-flight files still complete.
	report := s.orch.Run(r.Context(), jobs)

	s.writeJSON(w, http.StatusOK, report)
}

// handleDownload serves a processed output file as a CSV attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]

	path, ok := s.store.OutputPath(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIndex serves the embedded single-page UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "UI page unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// =============================================================================
// MIDDLEWARE AND RESPONSE HELPERS
// =============================================================================

// logRequests writes one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if status >= 500 {
		s.logger.Error("%s", msg)
	} else {
		s.logger.Warn("%s", msg)
	}
	s.writeJSON(w, status, map[string]string{"detail": msg})
}
