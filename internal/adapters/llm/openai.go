package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/domain"
)

// OpenAIProvider implements the completion capability over an
// OpenAI-compatible chat completions endpoint, with function calling and
// forced-JSON response support.
type OpenAIProvider struct {
	client  *http.Client
	logger  *slog.Logger
	baseURL string
	apiKey  string
}

// NewOpenAIProvider creates a provider. timeout bounds each outbound call; a
// timed-out call surfaces as an ordinary capability fault.
func NewOpenAIProvider(logger *slog.Logger, baseURL, apiKey string, timeout time.Duration) *OpenAIProvider {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIProvider{
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Complete sends one chat completion request and maps the first choice back
// into the domain result.
func (p *OpenAIProvider) Complete(ctx context.Context, req domain.CompletionRequest) (*domain.CompletionResult, error) {
	payload := chatCompletionRequest{
		Model:    req.Model,
		Messages: toWireMessages(req.Messages),
	}
	for _, tool := range req.Tools {
		payload.Tools = append(payload.Tools, toolDefinition{
			Type: "function",
			Function: functionTool{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}
	if req.JSONOnly {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != nil {
			return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, domain.ErrNoCompletion
	}

	first := result.Choices[0]
	return &domain.CompletionResult{
		Content:      first.Message.Content,
		ToolCalls:    p.fromWireToolCalls(first.Message.ToolCalls),
		FinishReason: first.FinishReason,
	}, nil
}

func toWireMessages(msgs []domain.Message) []chatCompletionMessage {
	wire := make([]chatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		wm := chatCompletionMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			args, err := json.Marshal(tc.Args)
			if err != nil {
				args = []byte("{}")
			}
			wm.ToolCalls = append(wm.ToolCalls, toolCall{
				ID:   tc.ID,
				Type: "function",
				Function: functionCall{
					Name:      tc.Name,
					Arguments: string(args),
				},
			})
		}
		wire = append(wire, wm)
	}
	return wire
}

func (p *OpenAIProvider) fromWireToolCalls(calls []toolCall) []domain.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]domain.ToolCall, 0, len(calls))
	for _, tc := range calls {
		var args map[string]interface{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				p.logger.Warn("failed to parse tool call arguments", "tool", tc.Function.Name, "error", err)
				args = map[string]interface{}{"raw": tc.Function.Arguments}
			}
		}
		out = append(out, domain.ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: args,
		})
	}
	return out
}
