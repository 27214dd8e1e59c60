// Package server exposes a small preview API: generate and render a post
// without sending anything, so drafts can be inspected before a real run.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"auto_blog_email_publisher/poster"
)

const previewTimeout = 120 * time.Second

// Server holds the orchestrator and the previews generated so far.
type Server struct {
	poster *poster.Poster
	store  *previewStore
	logger *slog.Logger
}

// previewStore keeps finished previews in memory, keyed by ID. The HTTP
// handlers run concurrently even though a single run is sequential.
type previewStore struct {
	mu       sync.Mutex
	previews map[string]*preview
}

type preview struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Digest    string    `json:"digest"`
	Markdown  string    `json:"markdown"`
	HTML      string    `json:"html"`
	Attempts  int       `json:"attempts"`
	Verdict   string    `json:"verdict"`
	CreatedAt time.Time `json:"created_at"`
}

func newStore() *previewStore {
	return &previewStore{previews: make(map[string]*preview)}
}

func (s *previewStore) set(p *preview) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previews[p.ID] = p
}

func (s *previewStore) get(id string) (*preview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.previews[id]
	return p, ok
}

func New(p *poster.Poster, logger *slog.Logger) (*Server, error) {
	if p == nil {
		return nil, errors.New("poster is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{poster: p, store: newStore(), logger: logger}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/previews", s.handlePreviewCreate)
	mux.HandleFunc("/api/previews/", s.handlePreviewByID)
	return s.logMiddleware(mux)
}

type previewCreateReq struct {
	Topic string `json:"topic"`
}

func (s *Server) handlePreviewCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req previewCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), previewTimeout)
	defer cancel()
	res, err := s.poster.Run(ctx, poster.Options{DryRun: true, Topic: req.Topic})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	p := &preview{
		ID:        uuid.NewString(),
		Topic:     res.Topic.Title,
		Category:  res.Topic.Category,
		Title:     res.Post.Title,
		Digest:    res.Post.Digest,
		Markdown:  res.Post.Markdown,
		HTML:      res.HTML,
		Attempts:  res.Post.Attempts,
		Verdict:   res.Post.Verdict.String(),
		CreatedAt: time.Now().UTC(),
	}
	s.store.set(p)
	writeJSON(w, p)
}

// GET /api/previews/{id} returns the stored preview; with a trailing /html
// the rendered fragment is served as a page for eyeballing in a browser.
func (s *Server) handlePreviewByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/previews/")
	wantHTML := false
	if rest, ok := strings.CutSuffix(id, "/html"); ok {
		id, wantHTML = rest, true
	}
	if id == "" {
		http.NotFound(w, r)
		return
	}
	p, ok := s.store.get(id)
	if !ok {
		http.Error(w, "preview not found", http.StatusNotFound)
		return
	}
	if wantHTML {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(p.HTML))
		return
	}
	writeJSON(w, p)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("http request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}
