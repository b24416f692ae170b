package domain

import (
	"context"
	"fmt"
	"sort"
)

// Tool represents an executable capability exposed to the generation model
type Tool struct {
	Name        string
	Description string
	Parameters  ToolParameters
	Execute     ToolExecutor
}

// ToolParameters defines the schema for tool inputs
type ToolParameters struct {
	Type       string                 `json:"type"`       // "object"
	Properties map[string]interface{} `json:"properties"` // param definitions
	Required   []string               `json:"required"`   // required param names
}

// ToolExecutor is the function signature for tool execution
type ToolExecutor func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// ToolCall is one invocation requested by the model.
type ToolCall struct {
	ID   string                 `json:"id"`
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args,omitempty"`
}

// ToolResult answers one ToolCall. Payload is either the executor's return
// value or an error record; the conversation always continues.
type ToolResult struct {
	CallID  string      `json:"call_id"`
	Payload interface{} `json:"payload"`
}

// ToolRegistry manages available tools
type ToolRegistry struct {
	tools map[string]*Tool
}

// NewToolRegistry creates a new empty registry
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]*Tool),
	}
}

// Register adds a tool to the registry
func (r *ToolRegistry) Register(tool *Tool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	r.tools[tool.Name] = tool
	return nil
}

// GetTool returns a tool by name
func (r *ToolRegistry) GetTool(name string) (*Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// ListTools returns all registered tools in stable name order.
func (r *ToolRegistry) ListTools() []*Tool {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	tools := make([]*Tool, 0, len(names))
	for _, name := range names {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Dispatch executes the given invocations synchronously, in order, and returns
// one result per invocation with matching call IDs. A hallucinated tool name
// becomes an error payload rather than a failure: the generation step must
// never be left waiting for a result turn.
func (r *ToolRegistry) Dispatch(ctx context.Context, calls []ToolCall) []ToolResult {
	results := make([]ToolResult, 0, len(calls))
	for _, call := range calls {
		tool, ok := r.tools[call.Name]
		if !ok {
			results = append(results, ToolResult{
				CallID:  call.ID,
				Payload: map[string]interface{}{"error": fmt.Sprintf("unknown tool: %s", call.Name)},
			})
			continue
		}

		payload, err := tool.Execute(ctx, call.Args)
		if err != nil {
			results = append(results, ToolResult{
				CallID:  call.ID,
				Payload: map[string]interface{}{"error": err.Error()},
			})
			continue
		}
		results = append(results, ToolResult{CallID: call.ID, Payload: payload})
	}
	return results
}
