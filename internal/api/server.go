// Package api exposes the grounded question-answering pipeline over
// HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quantic-msse0726/policy-rag-app/internal/answer"
	"github.com/quantic-msse0726/policy-rag-app/internal/stats"
)

// Answerer turns a question into a grounded response.
type Answerer interface {
	Answer(ctx context.Context, question string) (*answer.Response, error)
}

// Server is the HTTP surface of the policy RAG app.
type Server struct {
	router   chi.Router
	answerer Answerer
	stats    *stats.AnswerStats
	log      *slog.Logger
}

// NewServer creates and configures the HTTP server.
func NewServer(answerer Answerer, answerStats *stats.AnswerStats, log *slog.Logger) *Server {
	s := &Server{
		answerer: answerer,
		stats:    answerStats,
		log:      log,
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

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/chat", s.handleChat)
	r.Get("/stats/chat", s.handleChatStats)

	s.router = r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Policy RAG App is running"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
