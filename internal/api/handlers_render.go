package api

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/zeebo/blake3"
)

type renderRequest struct {
	Markdown string `json:"markdown"`
}

// handleRender renders a Markdown body. JSON bodies carry the text in
// "markdown"; text/markdown and text/plain bodies are the text itself.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
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

	var markdown string
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "text/markdown", "text/plain", "text/x-markdown":
		markdown = string(body)
	default:
		var req renderRequest
		if err := json.Unmarshal(body, &req); err != nil {
			jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
			return
		}
		markdown = req.Markdown
	}

	etag := fingerprint(markdown)
	w.Header().Set("ETag", etag)
	if matchesETag(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	writeJSON(w, http.StatusOK, s.render(markdown))
}

// fingerprint is a strong ETag for a Markdown input. Rendering is pure, so
// equal input means an equal tree.
func fingerprint(markdown string) string {
	sum := blake3.Sum256([]byte(markdown))
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

func matchesETag(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
