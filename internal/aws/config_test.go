package aws

import (
	"context"
	"errors"
	"testing"
)

func TestResolveRegionPrecedence(t *testing.T) {
	t.Setenv("AWS_REGION", "us-west-2")
	if region := ResolveRegion("eu-central-1"); region != "eu-central-1" {
		t.Fatalf("expected explicit region to win, got %q", region)
	}
	if region := ResolveRegion(""); region != "us-west-2" {
		t.Fatalf("expected env region, got %q", region)
	}
	t.Setenv("AWS_REGION", "")
	if region := ResolveRegion(""); region != defaultRegion {
		t.Fatalf("expected default region, got %q", region)
	}
	if region := ResolveRegion("  "); region != defaultRegion {
		t.Fatalf("expected default region for blank input, got %q", region)
	}
}

func TestLoadConfigStaticCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_SESSION_TOKEN", "")
	cfg, err := LoadConfig(context.Background(), "us-west-2")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Region != "us-west-2" {
		t.Fatalf("expected region us-west-2, got %q", cfg.Region)
	}
	creds, err := cfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve credentials: %v", err)
	}
	if creds.AccessKeyID != "AKIAEXAMPLE" {
		t.Fatalf("expected static access key, got %q", creds.AccessKeyID)
	}
	if creds.SessionToken != "" {
		t.Fatalf("expected no session token, got %q", creds.SessionToken)
	}
}

func TestLoadConfigSessionTokenCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_SESSION_TOKEN", "token")
	cfg, err := LoadConfig(context.Background(), "")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	creds, err := cfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve credentials: %v", err)
	}
	if creds.SessionToken != "token" {
		t.Fatalf("expected session token, got %q", creds.SessionToken)
	}
}

func TestLoadConfigDefaultRegion(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	cfg, err := LoadConfig(context.Background(), "")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Region != defaultRegion {
		t.Fatalf("expected default region, got %q", cfg.Region)
	}
}

func TestClientCreationErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ClientCreationError{Service: "s3", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("expected unwrap to reach cause")
	}
	if err.Error() == "" {
		t.Fatalf("expected message")
	}
}
