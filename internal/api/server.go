package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dgallion1/towxml/internal/backend"
	"github.com/dgallion1/towxml/internal/config"
	"github.com/dgallion1/towxml/internal/doctree"
	"github.com/dgallion1/towxml/internal/export"
	"github.com/dgallion1/towxml/internal/stats"
	"github.com/dgallion1/towxml/internal/towxml"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for towxml.
type Server struct {
	router   chi.Router
	backend  *backend.Client
	exporter *export.Exporter
	stats    *stats.RenderStats
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(be *backend.Client, exp *export.Exporter, st *stats.RenderStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		backend:  be,
		exporter: exp,
		stats:    st,
		log:      log,
		cfg:      cfg,
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

	r.Post("/api/render", s.handleRender)
	r.Post("/api/render/file", s.handleRenderFile)
	r.Post("/api/export/html", s.handleExportHTML)
	r.Get("/api/stats/render", s.handleRenderStats)

	r.Get("/api/users/{openid}/profile", s.handleProfile)
	r.Get("/api/users/{openid}/opportunities", s.handleOpportunities)
	r.Get("/api/users/{openid}/dashboard", s.handleDashboard)
	r.Get("/api/opportunities/{id}", s.handleOpportunityDetail)
	r.Get("/api/opportunities/{id}/interview/latest", s.handleLatestInterview)
	r.Get("/api/opportunities/{id}/interview/sessions", s.handleInterviewHistory)
	r.Get("/api/interview_sessions/{id}", s.handleInterviewSession)

	r.Handle("/exports/*", http.StripPrefix("/exports/", http.FileServer(http.Dir(s.exporter.Dir))))

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// render runs the renderer and records its latency.
func (s *Server) render(markdown string) doctree.Tree {
	start := time.Now()
	tree := towxml.Render(markdown)
	if s.stats != nil {
		s.stats.Record(time.Since(start), len(markdown))
	}
	return tree
}
