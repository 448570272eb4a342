package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

type exportRequest struct {
	Markdown string `json:"markdown"`
	Title    string `json:"title"`
}

// handleExportHTML stores a printable HTML page for the given Markdown and
// returns where it can be fetched.
func (s *Server) handleExportHTML(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxMarkdownBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "markdown exceeds max size", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	var req exportRequest
	if err := json.Unmarshal(body, &req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Markdown) == "" {
		jsonError(w, "no markdown content provided", http.StatusBadRequest)
		return
	}

	name, err := s.exporter.Export(req.Title, req.Markdown)
	if err != nil {
		s.log.Error("html export failed", "error", err)
		jsonError(w, "export failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": "/exports/" + name})
}
