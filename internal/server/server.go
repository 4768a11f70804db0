// Package server exposes the text-to-event extractor over HTTP so other
// tools can reuse it without shelling out to the CLI. The server never
// touches a browser; it only parses.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pfrederiksen/invitegen/internal/extract"
	"github.com/pfrederiksen/invitegen/internal/logger"
	"github.com/pfrederiksen/invitegen/internal/schema"
)

// ExtractRequest is the /extract request body.
type ExtractRequest struct {
	Text            string `json:"text"`
	DefaultTimezone string `json:"default_tz,omitempty"`
}

// ExtractResponse wraps a successful extraction.
type ExtractResponse struct {
	Event   *schema.Event `json:"event"`
	Preview string        `json:"preview"`
}

// ErrorResponse reports why extraction failed, field by field.
type ErrorResponse struct {
	Error  string          `json:"error"`
	Issues []extract.Issue `json:"issues,omitempty"`
}

// Server handles extraction requests.
type Server struct {
	opts extract.Options
	log  *logger.Logger
	mux  *http.ServeMux
}

// New creates a server extracting with the given options.
func New(opts extract.Options, log *logger.Logger) *Server {
	s := &Server{opts: opts, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("/extract", s.handleExtract)
	mux.HandleFunc("/healthz", s.handleHealth)
	s.mux = mux
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe blocks serving on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	s.log.Info("extraction server listening", logger.Fields{"addr": addr})
	return srv.ListenAndServe()
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "POST required"})
		return
	}

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "text is required"})
		return
	}

	opts := s.opts
	if req.DefaultTimezone != "" {
		opts.DefaultTimezone = req.DefaultTimezone
	}

	start := time.Now()
	evt, err := extract.Extract(req.Text, opts)
	logger.RecordTiming("server.extract", time.Since(start))

	if err != nil {
		var exErr *extract.Error
		if errors.As(err, &exErr) {
			s.log.Info("extraction rejected", logger.Fields{"issues": len(exErr.Issues)})
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:  "extraction failed",
				Issues: exErr.Issues,
			})
			return
		}
		s.log.Error("extraction error", nil, err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	logger.IncrCounter("server.extracted")
	writeJSON(w, http.StatusOK, ExtractResponse{Event: evt, Preview: evt.Human()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
