package mcp

import (
	"strings"
)

// The audit trail is exposed as a single read-only MCP resource.
const (
	AuditResourceScheme = "audit"
	AuditResourcePath   = "aws-operations"
	AuditResourceURI    = AuditResourceScheme + "://" + AuditResourcePath

	AuditResourceName        = "AWS Operations Audit Log"
	AuditResourceDescription = "A log of all AWS operations performed through this server"
	AuditResourceMIMEType    = "text/plain"
)

// AuditResourceText resolves a resource URI to the rendered audit
// report. Any scheme or path other than the fixed audit URI fails with
// ResourceNotFoundError.
func AuditResourceText(ctx ToolContext, uri string) (string, error) {
	scheme, rest, found := strings.Cut(uri, "://")
	if !found || scheme != AuditResourceScheme {
		return "", &ResourceNotFoundError{URI: uri}
	}
	if rest != AuditResourcePath {
		return "", &ResourceNotFoundError{URI: uri}
	}
	if ctx.Audit == nil {
		return "", &ResourceNotFoundError{URI: uri}
	}
	return ctx.Audit.Render(), nil
}
