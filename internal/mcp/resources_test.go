package mcp

import (
	"errors"
	"strings"
	"testing"

	"awsmcp/internal/audit"
)

func TestAuditResourceText(t *testing.T) {
	log := audit.NewLog(nil)
	ctx := ToolContext{Audit: log}

	text, err := AuditResourceText(ctx, AuditResourceURI)
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if text != log.Render() {
		t.Fatalf("expected rendered report, got %q", text)
	}

	log.Record("storage", "bucket_list", map[string]any{})
	text, err = AuditResourceText(ctx, AuditResourceURI)
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if !strings.Contains(text, "bucket_list") {
		t.Fatalf("expected current log contents, got %q", text)
	}
}

func TestAuditResourceTextRejectsOtherURIs(t *testing.T) {
	ctx := ToolContext{Audit: audit.NewLog(nil)}
	for _, uri := range []string{
		"other://aws-operations",
		"audit://something-else",
		"audit//aws-operations",
		"aws-operations",
	} {
		_, err := AuditResourceText(ctx, uri)
		var notFound *ResourceNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected ResourceNotFoundError for %q, got %v", uri, err)
		}
	}
}
