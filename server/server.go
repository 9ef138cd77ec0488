// Package server provides a local HTTP server for browsing conversations and
// their metrics, fetching and rendering them on demand.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sonnes/bellhop/analysis"
	"github.com/sonnes/bellhop/core"
	"github.com/sonnes/bellhop/manifest"
	"github.com/sonnes/bellhop/metrics"
	"github.com/sonnes/bellhop/reader"
	"github.com/sonnes/bellhop/reader/file"
	"github.com/sonnes/bellhop/reader/hotelzify"
	"github.com/sonnes/bellhop/render"
	htmlrender "github.com/sonnes/bellhop/render/html"
	jsonrender "github.com/sonnes/bellhop/render/json"
)

const shutdownTimeout = 5 * time.Second

// Server serves conversations over HTTP for local browsing.
type Server struct {
	// Reader provides access to conversation data.
	Reader reader.Reader
	// Engine computes metrics. Nil uses the default strategy.
	Engine *metrics.Engine
	// Transformers run on every conversation after it is read.
	Transformers []core.Transformer
	// Analyzer, when set, enables ?analyze=1 on conversation pages.
	Analyzer analysis.Analyzer
	// Location groups timelines by date. Nil means UTC.
	Location *time.Location
	// Port is the TCP port to listen on.
	Port int

	html *htmlrender.Renderer
	json *jsonrender.Renderer

	mu      sync.Mutex
	visited manifest.Manifest
}

// New creates a Server reading conversations from r.
func New(r reader.Reader) *Server {
	s := &Server{
		Reader: r,
		Port:   8080,
		html:   htmlrender.New(),
		json:   jsonrender.New(),
	}
	s.html.ConversationHref = func(id string) string {
		return "/conversation/" + id
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /conversation/{id}", s.handleConversation)
	mux.HandleFunc("GET /api/conversation/{id}", s.handleView)
	mux.HandleFunc("GET /api/conversation/{id}/metrics", s.handleMetrics)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("serving", "addr", "http://localhost"+srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, req *http.Request) {
	s.mu.Lock()
	entries := append([]manifest.Entry(nil), s.visited.Entries...)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.html.RenderIndex(w, entries); err != nil {
		slog.Error("render index", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleConversation(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")
	v, err := s.view(req.Context(), id)
	if err != nil {
		s.fail(w, id, err)
		return
	}

	if req.URL.Query().Get("analyze") == "1" && s.Analyzer != nil && len(v.Conversation.Messages) > 0 {
		a, err := s.Analyzer.Analyze(req.Context(), v.Conversation)
		if err != nil {
			slog.Warn("analyze conversation", "conversation_id", id, "error", err)
		} else {
			v.Analysis = a
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.html.Render(w, v); err != nil {
		slog.Error("render conversation", "conversation_id", id, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleView(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")
	v, err := s.view(req.Context(), id)
	if err != nil {
		s.fail(w, id, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := s.json.Render(w, v); err != nil {
		slog.Error("encode view", "conversation_id", id, "error", err)
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")
	c, err := s.read(req.Context(), id)
	if err != nil {
		s.fail(w, id, err)
		return
	}
	rec, err := s.engine().Compute(c.Messages)
	if err != nil {
		s.fail(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// read loads a conversation as stored. Transformers apply only to the
// displayed copy built by view.
func (s *Server) read(ctx context.Context, id string) (*core.Conversation, error) {
	return s.Reader.ReadConversation(ctx, id)
}

// view reads a conversation, computes its metrics, applies the transformers
// to the displayed copy and records the visit on the index page.
func (s *Server) view(ctx context.Context, id string) (*render.View, error) {
	c, err := s.read(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := render.NewView(c, s.engine(), s.Transformers...)
	if err != nil {
		return nil, err
	}
	v.Location = s.Location

	s.mu.Lock()
	s.visited.Upsert(manifest.NewEntry(v.Conversation, v.Metrics, "/conversation/"+id))
	s.mu.Unlock()
	return v, nil
}

func (s *Server) engine() *metrics.Engine {
	if s.Engine == nil {
		return &metrics.Engine{}
	}
	return s.Engine
}

// fail maps err to an HTTP status and writes a JSON error body.
func (s *Server) fail(w http.ResponseWriter, id string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("conversation request", "conversation_id", id, "status", status, "error", err)
	} else {
		slog.Warn("conversation request", "conversation_id", id, "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	var apiErr *hotelzify.APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Status >= 400 && apiErr.Status < 600 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	case errors.Is(err, file.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, metrics.ErrEmptyConversation), errors.Is(err, metrics.ErrInvalidTimestamp):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
