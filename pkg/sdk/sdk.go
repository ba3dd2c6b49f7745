// Package sdk re-exports the types third-party toolsets need to plug
// into the server without importing internal packages directly.
package sdk

import (
	"awsmcp/internal/audit"
	awslib "awsmcp/internal/aws"
	"awsmcp/internal/mcp"
	"awsmcp/internal/redact"
)

// Core toolset interfaces and types.
type Toolset = mcp.Toolset

type ToolsetContext = mcp.ToolsetContext

type ToolSpec = mcp.ToolSpec

type ToolHandler = mcp.ToolHandler

type ToolSafety = mcp.ToolSafety

type ToolRequest = mcp.ToolRequest

type ToolResult = mcp.ToolResult

type Registry = mcp.Registry

const (
	SafetyReadOnly    = mcp.SafetyReadOnly
	SafetyWrite       = mcp.SafetyWrite
	SafetyDestructive = mcp.SafetyDestructive
)

// Toolset registration for plugin discovery.
func RegisterToolset(id string, factory mcp.ToolsetFactory) error {
	return mcp.RegisterToolset(id, factory)
}

func MustRegisterToolset(id string, factory mcp.ToolsetFactory) {
	mcp.MustRegisterToolset(id, factory)
}

func RegisteredToolsets() []string {
	return mcp.RegisteredToolsets()
}

// Audit helpers.
type AuditLog = audit.Log

type AuditEntry = audit.Entry

type Redactor = redact.Redactor

// AWS helpers.
type ClientCreationError = awslib.ClientCreationError

func ResolveRegion(region string) string {
	return awslib.ResolveRegion(region)
}
