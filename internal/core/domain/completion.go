package domain

// FinishReason values reported by OpenAI-compatible chat completion APIs.
const (
	FinishStop      = "stop"
	FinishToolCalls = "tool_calls"
)

// CompletionRequest is a single chat completion call.
// Tools, when present, are exposed to the model as callable functions.
// JSONOnly forces a response_format of json_object (used by the evaluator).
type CompletionRequest struct {
	Model    string
	Messages []Message
	Tools    []*Tool
	JSONOnly bool
}

// CompletionResult is the model's answer: either plain text (FinishReason "stop")
// or one or more tool calls to dispatch before the reply can be finalized.
type CompletionResult struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
}

// NeedsTools reports whether the model stopped to wait for tool results.
func (r *CompletionResult) NeedsTools() bool {
	return r.FinishReason == FinishToolCalls && len(r.ToolCalls) > 0
}
