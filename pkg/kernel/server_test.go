package kernel

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/domain"
	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/services"
)

type stubChat struct {
	mu      sync.Mutex
	message string
	history []domain.Message
	reply   string
}

func (s *stubChat) Handle(ctx context.Context, message string, history []domain.Message) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	s.history = history
	return s.reply
}

type stubRepo struct {
	leads    []domain.Lead
	unknowns []domain.UnknownQuestion
	err      error
}

func (s *stubRepo) SaveLead(ctx context.Context, lead domain.Lead) error { return nil }
func (s *stubRepo) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	return s.leads, s.err
}
func (s *stubRepo) SaveUnknownQuestion(ctx context.Context, q domain.UnknownQuestion) error {
	return nil
}
func (s *stubRepo) ListUnknownQuestions(ctx context.Context) ([]domain.UnknownQuestion, error) {
	return s.unknowns, s.err
}
func (s *stubRepo) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, chat *stubChat, repo *stubRepo) (*Server, *services.EventBus, *services.AuditLog) {
	t.Helper()

	logger := testLogger()
	bus := services.NewEventBus(logger)
	audit, err := services.NewAuditLog(filepath.Join(t.TempDir(), "log.json"))
	require.NoError(t, err)
	if chat == nil {
		chat = &stubChat{reply: "ok"}
	}
	if repo == nil {
		repo = &stubRepo{}
	}
	return NewServer(logger, chat, bus, audit, repo), bus, audit
}

func TestChatEndpoint(t *testing.T) {
	chat := &stubChat{reply: "Here is my answer.\n\n---\n**Score:** ...."}
	srv, _, _ := newTestServer(t, chat, nil)

	body := `{
		"message": "Do you know Java?",
		"history": [
			{"role": "user", "content": "hi"},
			{"role": "assistant", "content": "hello"}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Reply string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, chat.reply, resp.Reply)

	assert.Equal(t, "Do you know Java?", chat.message)
	require.Len(t, chat.history, 2)
	assert.Equal(t, domain.RoleUser, chat.history[0].Role)
	assert.Equal(t, "hello", chat.history[1].Content)
}

func TestChatEndpoint_BadRequests(t *testing.T) {
	srv, _, _ := newTestServer(t, nil, nil)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{not json`},
		{"empty message", `{"message": "   "}`},
		{"missing message", `{"history": []}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestChatEndpoint_MethodNotAllowed(t *testing.T) {
	srv, _, _ := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListLeads(t *testing.T) {
	repo := &stubRepo{leads: []domain.Lead{
		{ID: "1", Email: "a@b.com", Name: "A", CreatedAt: time.Now()},
	}}
	srv, _, _ := newTestServer(t, nil, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var leads []domain.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leads))
	require.Len(t, leads, 1)
	assert.Equal(t, "a@b.com", leads[0].Email)
}

func TestListLeads_EmptyIsArray(t *testing.T) {
	srv, _, _ := newTestServer(t, nil, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestListLeads_RepoFailure(t *testing.T) {
	srv, _, _ := newTestServer(t, nil, &stubRepo{err: errors.New("db locked")})

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db locked")
}

func TestListUnknownQuestions(t *testing.T) {
	repo := &stubRepo{unknowns: []domain.UnknownQuestion{
		{ID: "q1", Question: "Do you know COBOL?", CreatedAt: time.Now()},
	}}
	srv, _, _ := newTestServer(t, nil, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown-questions", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var questions []domain.UnknownQuestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &questions))
	require.Len(t, questions, 1)
	assert.Equal(t, "Do you know COBOL?", questions[0].Question)
}

func TestListAudit(t *testing.T) {
	srv, _, audit := newTestServer(t, nil, nil)
	require.NoError(t, audit.Append(services.AuditEntry{ID: "e1", User: "q", Assistant: "a"}))

	req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var entries []services.AuditEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "e1", entries[0].ID)
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestEventsSSE(t *testing.T) {
	srv, bus, _ := newTestServer(t, nil, nil)

	httpSrv := httptest.NewServer(srv.Handler())
	defer httpSrv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, httpSrv.URL+"/api/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Give the handler a moment to subscribe before publishing.
	time.Sleep(100 * time.Millisecond)
	bus.Publish(services.Event{
		Topic:     services.BroadcastTopic,
		Type:      services.EventTypeNotice,
		Data:      "Recording interest from Alice",
		Timestamp: time.Now().UnixMilli(),
	})

	reader := bufio.NewReader(resp.Body)
	eventLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	dataLine, err := reader.ReadString('\n')
	require.NoError(t, err)

	assert.Equal(t, "event: notice", strings.TrimSpace(eventLine))
	assert.Equal(t, "data: Recording interest from Alice", strings.TrimSpace(dataLine))
}
