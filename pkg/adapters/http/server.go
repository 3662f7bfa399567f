package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/wayfare"
	"github.com/aretw0/wayfare/internal/logging"
	"github.com/aretw0/wayfare/pkg/domain"
	"github.com/aretw0/wayfare/pkg/resolve"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed openapi.yaml
var openAPISpec []byte

// Engine defines what the HTTP API needs from the booking engine.
type Engine interface {
	Vocabulary() domain.Vocabulary
	Decide(ctx context.Context, in domain.TurnInput) domain.TurnOutput
	Infer(message string, known domain.SlotState) resolve.Report
	Open(ctx context.Context, conversationID string) (*domain.Conversation, error)
	Send(ctx context.Context, conversationID string, msg wayfare.Message) (domain.TurnOutput, error)
	Reset(ctx context.Context, conversationID string) (domain.TurnOutput, error)
	Conversation(ctx context.Context, conversationID string) (*domain.Conversation, error)
	Conversations(ctx context.Context) ([]string, error)
}

var _ Engine = (*wayfare.Engine)(nil)

// Server holds the handlers of the JSON API.
type Server struct {
	Engine  Engine
	logger  *slog.Logger
	metrics http.Handler
	name    string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for request errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithName sets the service name reported by GET /info.
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// NewHandler creates the HTTP handler for the engine. Request bodies and
// parameters are validated against the embedded OpenAPI document.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	server := &Server{
		Engine: engine,
		logger: logging.NewNop(),
		name:   "wayfare",
	}
	for _, opt := range opts {
		opt(server)
	}

	validate, err := newValidator(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", server.Health)
	r.Get("/info", server.Info)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(openAPISpec)
	})
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(validate.middleware(server.logger))

		r.Post("/turn", server.DecideTurn)
		r.Post("/infer", server.InferRoute)
		r.Get("/conversations", server.ListConversations)
		r.Post("/conversations", server.CreateConversation)
		r.Get("/conversations/{id}", server.GetConversation)
		r.Delete("/conversations/{id}", server.ResetConversation)
		r.Post("/conversations/{id}/turns", server.SendTurn)
	})

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Info handles GET /info.
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    s.name,
		"version": wayfare.Version,
		"cities":  s.Engine.Vocabulary().Cities(),
	})
}

// DecideTurn handles POST /turn.
func (s *Server) DecideTurn(w http.ResponseWriter, r *http.Request) {
	var in domain.TurnInput
	if !s.decode(w, r, &in) {
		return
	}
	writeJSON(w, http.StatusOK, s.Engine.Decide(r.Context(), in))
}

type inferRequest struct {
	Message string           `json:"message"`
	Slots   domain.SlotState `json:"current_slots"`
}

// InferRoute handles POST /infer.
func (s *Server) InferRoute(w http.ResponseWriter, r *http.Request) {
	var body inferRequest
	if !s.decode(w, r, &body) {
		return
	}
	writeJSON(w, http.StatusOK, s.Engine.Infer(body.Message, body.Slots))
}

// ListConversations handles GET /conversations.
func (s *Server) ListConversations(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.Conversations(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"conversations": ids})
}

// CreateConversation handles POST /conversations.
func (s *Server) CreateConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.Engine.Open(r.Context(), "")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

// GetConversation handles GET /conversations/{id}.
func (s *Server) GetConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.Engine.Conversation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// ResetConversation handles DELETE /conversations/{id}.
func (s *Server) ResetConversation(w http.ResponseWriter, r *http.Request) {
	out, err := s.Engine.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// SendTurn handles POST /conversations/{id}/turns.
func (s *Server) SendTurn(w http.ResponseWriter, r *http.Request) {
	var msg wayfare.Message
	if !s.decode(w, r, &msg) {
		return
	}
	out, err := s.Engine.Send(r.Context(), chi.URLParam(r, "id"), msg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// -- Helpers --

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrConversationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyConversationID):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("Request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
