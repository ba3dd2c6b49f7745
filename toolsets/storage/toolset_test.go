package storage

import (
	"context"
	"testing"

	"awsmcp/internal/config"
	"awsmcp/internal/mcp"
)

func setTestCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_SESSION_TOKEN", "")
	t.Setenv("AWS_REGION", "")
}

func TestClientMemoizedPerRegion(t *testing.T) {
	setTestCredentials(t)
	ts := New()
	cfg := config.DefaultConfig()
	if err := ts.Init(mcp.ToolsetContext{Config: &cfg}); err != nil {
		t.Fatalf("init: %v", err)
	}

	first, region, err := ts.client(context.Background(), "us-west-2")
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if region != "us-west-2" {
		t.Fatalf("unexpected region: %q", region)
	}
	second, _, err := ts.client(context.Background(), "us-west-2")
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical cached client for same region")
	}

	other, otherRegion, err := ts.client(context.Background(), "us-east-1")
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if other == first {
		t.Fatalf("expected distinct client per region")
	}
	if otherRegion != "us-east-1" {
		t.Fatalf("unexpected region: %q", otherRegion)
	}
}

func TestRegisterAddsAllStorageTools(t *testing.T) {
	setTestCredentials(t)
	ts := New()
	cfg := config.DefaultConfig()
	reg := mcp.NewRegistry(&cfg)
	if err := ts.Init(mcp.ToolsetContext{Config: &cfg}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := ts.Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	expected := []string{
		"storage_bucket_create",
		"storage_bucket_delete",
		"storage_bucket_list",
		"storage_object_delete",
		"storage_object_list",
		"storage_object_read",
		"storage_object_upload",
	}
	names := reg.Names()
	if len(names) != len(expected) {
		t.Fatalf("expected %d tools, got %v", len(expected), names)
	}
	for i, name := range expected {
		if names[i] != name {
			t.Fatalf("expected %s at %d, got %v", name, i, names)
		}
	}
	for _, name := range expected {
		spec, ok := reg.Get(name)
		if !ok {
			t.Fatalf("missing %s", name)
		}
		if spec.InputSchema["type"] != "object" {
			t.Fatalf("expected object schema for %s", name)
		}
	}
}

func TestReadOnlyFiltersStorageWrites(t *testing.T) {
	ts := New()
	cfg := config.DefaultConfig()
	cfg.ReadOnly = true
	reg := mcp.NewRegistry(&cfg)
	if err := ts.Init(mcp.ToolsetContext{Config: &cfg}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := ts.Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	for _, name := range []string{"storage_bucket_create", "storage_bucket_delete", "storage_object_upload", "storage_object_delete"} {
		if _, ok := reg.Get(name); ok {
			t.Fatalf("expected %s filtered in read-only mode", name)
		}
	}
	for _, name := range []string{"storage_bucket_list", "storage_object_list", "storage_object_read"} {
		if _, ok := reg.Get(name); !ok {
			t.Fatalf("expected %s available in read-only mode", name)
		}
	}
}
