package mcp

import (
	"context"

	"go.uber.org/zap"

	"awsmcp/internal/audit"
	"awsmcp/internal/cache"
	"awsmcp/internal/config"
)

type ToolSafety string

const (
	SafetyReadOnly    ToolSafety = "read_only"
	SafetyWrite       ToolSafety = "write"
	SafetyDestructive ToolSafety = "destructive"
)

type ToolHandler func(ctx context.Context, req ToolRequest) (ToolResult, error)

// ToolSpec is the declarative description of one tool: its catalog entry
// plus the handler the dispatcher routes to.
type ToolSpec struct {
	Name        string
	Description string
	ToolsetID   string
	InputSchema map[string]any
	Safety      ToolSafety
	Handler     ToolHandler
}

type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type ToolRequest struct {
	Arguments map[string]any
	Context   ToolContext
}

// ToolResult carries either structured data (serialized for the caller
// with the result banner) or, when IsText is set, a raw textual body
// that is returned verbatim even when empty. Cached marks a result
// served from the response cache without a provider call.
type ToolResult struct {
	Data   any
	Text   string
	IsText bool
	Cached bool
}

type ToolContext struct {
	Config     *config.Config
	Audit      *audit.Log
	Cache      *cache.Store
	Logger     *zap.Logger
	Dispatcher *Dispatcher
}

type ToolsetContext = ToolContext
