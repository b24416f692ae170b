package kernel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/domain"
	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/ports"
	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/services"
)

// ChatService is the minimal interface the chat endpoint needs.
type ChatService interface {
	Handle(ctx context.Context, message string, history []domain.Message) string
}

// Server exposes the chat surface plus read-only views of what the agent has
// recorded: leads, unknown questions, the audit log, and a live event stream.
type Server struct {
	logger   *slog.Logger
	session  ChatService
	eventBus *services.EventBus
	audit    *services.AuditLog
	repo     ports.Repository
}

func NewServer(logger *slog.Logger, session ChatService, eventBus *services.EventBus, audit *services.AuditLog, repo ports.Repository) *Server {
	return &Server{
		logger:   logger,
		session:  session,
		eventBus: eventBus,
		audit:    audit,
		repo:     repo,
	}
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/chat":
			s.handleChat(w, r)
		case r.Method == http.MethodGet && r.URL.Path == "/api/events":
			s.handleBroadcastSSE(w, r)
		case r.Method == http.MethodGet && r.URL.Path == "/api/leads":
			s.handleListLeads(w, r)
		case r.Method == http.MethodGet && r.URL.Path == "/api/unknown-questions":
			s.handleListUnknownQuestions(w, r)
		case r.Method == http.MethodGet && r.URL.Path == "/api/audit":
			s.handleListAudit(w, r)
		case r.Method == http.MethodGet && r.URL.Path == "/healthz":
			s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		default:
			http.NotFound(w, r)
		}
	})
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message string     `json:"message"`
	History []chatTurn `json:"history"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	history := make([]domain.Message, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, domain.Message{
			Role:    domain.MessageRole(turn.Role),
			Content: turn.Content,
		})
	}

	reply := s.session.Handle(r.Context(), req.Message, history)
	s.writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

// handleBroadcastSSE streams agent events (notifications, replies) in
// real-time over Server-Sent Events.
func (s *Server) handleBroadcastSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch, unsub := s.eventBus.Subscribe(services.BroadcastTopic)
	defer unsub()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, evt.Data)
			flusher.Flush()
		}
	}
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.repo.ListLeads(r.Context())
	if err != nil {
		s.logger.Error("failed to list leads", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if leads == nil {
		leads = []domain.Lead{}
	}
	s.writeJSON(w, http.StatusOK, leads)
}

func (s *Server) handleListUnknownQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.repo.ListUnknownQuestions(r.Context())
	if err != nil {
		s.logger.Error("failed to list unknown questions", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if questions == nil {
		questions = []domain.UnknownQuestion{}
	}
	s.writeJSON(w, http.StatusOK, questions)
}

func (s *Server) handleListAudit(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.audit.Entries())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
