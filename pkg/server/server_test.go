package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	sdkjsonrpc "github.com/modelcontextprotocol/go-sdk/jsonrpc"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"awsmcp/internal/cache"
	"awsmcp/internal/config"
	awsmcp "awsmcp/internal/mcp"

	_ "awsmcp/toolsets/compute"
	_ "awsmcp/toolsets/storage"
)

func TestBuildRuntimeEmptyToolsets(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Toolsets = []string{}

	toolCtx, reg, err := buildRuntime(cfg, io.Discard, zap.NewNop(), cache.NewStore())
	if err != nil {
		t.Fatalf("buildRuntime failed: %v", err)
	}
	if toolCtx.Audit == nil {
		t.Fatalf("expected audit log")
	}
	if toolCtx.Dispatcher == nil {
		t.Fatalf("expected dispatcher")
	}
	if reg == nil {
		t.Fatalf("expected registry")
	}
	if len(reg.Names()) != 0 {
		t.Fatalf("expected no tools registered")
	}
}

func TestBuildRuntimeDefaultToolsets(t *testing.T) {
	cfg := config.DefaultConfig()
	_, reg, err := buildRuntime(cfg, io.Discard, zap.NewNop(), cache.NewStore())
	if err != nil {
		t.Fatalf("buildRuntime failed: %v", err)
	}
	names := reg.Names()
	if len(names) != 11 {
		t.Fatalf("expected 11 tools from storage and compute, got %v", names)
	}
	if _, ok := reg.Get("storage_bucket_list"); !ok {
		t.Fatalf("expected storage tools registered")
	}
	if _, ok := reg.Get("compute_instance_list"); !ok {
		t.Fatalf("expected compute tools registered")
	}
}

func TestBuildRuntimeUnknownToolset(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Toolsets = []string{"missing"}

	_, _, err := buildRuntime(cfg, io.Discard, zap.NewNop(), cache.NewStore())
	if err == nil {
		t.Fatalf("expected error for unknown toolset")
	}
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	if _, err := newLogger("loud", io.Discard); err == nil {
		t.Fatalf("expected error for invalid level")
	}
	logger, err := newLogger("", io.Discard)
	if err != nil {
		t.Fatalf("expected default level to parse: %v", err)
	}
	if !logger.Core().Enabled(zap.InfoLevel) {
		t.Fatalf("expected info enabled by default")
	}
	if logger.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("expected debug disabled by default")
	}
}

func TestRunConfigLoadError(t *testing.T) {
	t.Setenv("AWSMCP_CONFIG", "")
	err := Run(context.Background(), Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		Version:    "test",
		Stderr:     io.Discard,
		Transport:  fakeTransport{},
	})
	if err == nil {
		t.Fatalf("expected error for config load failure")
	}
}

func TestRunInvalidLogLevel(t *testing.T) {
	err := Run(context.Background(), Options{
		LogLevel:  "shouting",
		Version:   "test",
		Stderr:    io.Discard,
		Transport: fakeTransport{},
	})
	if err == nil {
		t.Fatalf("expected error for invalid log level")
	}
}

func TestRunWithInMemoryTransport(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := Run(ctx, Options{
		Toolsets:  []string{"storage"},
		Version:   "test",
		Stderr:    io.Discard,
		Transport: fakeTransport{},
	})
	if time.Since(start) > time.Second {
		t.Fatalf("run took too long")
	}
	_ = err
}

func TestRunUsesEnvConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte(`toolsets = ["compute"]`), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("AWSMCP_CONFIG", configPath)

	err := Run(context.Background(), Options{
		ConfigPath: "",
		Version:    "test",
		Stderr:     io.Discard,
		Transport:  fakeTransport{},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunTransportError(t *testing.T) {
	err := Run(context.Background(), Options{
		Toolsets:  []string{"storage"},
		Version:   "test",
		Stderr:    io.Discard,
		Transport: errorTransport{},
	})
	if err == nil {
		t.Fatalf("expected server error")
	}
}

func TestRunInitError(t *testing.T) {
	err := Run(context.Background(), Options{
		Toolsets:  []string{"missing"},
		Version:   "test",
		Stderr:    io.Discard,
		Transport: fakeTransport{},
	})
	if err == nil {
		t.Fatalf("expected init error")
	}
}

func TestRunReloadSignal(t *testing.T) {
	done := make(chan struct{})
	runErr := make(chan error, 1)
	go func() {
		runErr <- Run(context.Background(), Options{
			Toolsets:  []string{"storage"},
			Version:   "test",
			Stderr:    io.Discard,
			Transport: blockingTransport{done: done},
		})
	}()
	time.Sleep(50 * time.Millisecond)
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGHUP)
	close(done)
	if err := <-runErr; err != nil {
		t.Fatalf("run: %v", err)
	}
}

type errorToolset struct {
	id string
}

func (t errorToolset) ID() string {
	return t.id
}

func (t errorToolset) Version() string {
	return "0.0.0"
}

func (t errorToolset) Init(awsmcp.ToolsetContext) error {
	return fmt.Errorf("init error")
}

func (t errorToolset) Register(awsmcp.Registry) error {
	return nil
}

type registerErrorToolset struct {
	id string
}

func (t registerErrorToolset) ID() string {
	return t.id
}

func (t registerErrorToolset) Version() string {
	return "0.0.0"
}

func (t registerErrorToolset) Init(awsmcp.ToolsetContext) error {
	return nil
}

func (t registerErrorToolset) Register(awsmcp.Registry) error {
	return fmt.Errorf("register error")
}

func TestBuildRuntimeToolsetInitError(t *testing.T) {
	id := fmt.Sprintf("test-init-%d", time.Now().UnixNano())
	if err := awsmcp.RegisterToolset(id, func() awsmcp.Toolset { return errorToolset{id: id} }); err != nil {
		t.Fatalf("register toolset: %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.Toolsets = []string{id}
	_, _, err := buildRuntime(cfg, io.Discard, zap.NewNop(), cache.NewStore())
	if err == nil {
		t.Fatalf("expected init error")
	}
}

func TestBuildRuntimeToolsetRegisterError(t *testing.T) {
	id := fmt.Sprintf("test-register-%d", time.Now().UnixNano())
	if err := awsmcp.RegisterToolset(id, func() awsmcp.Toolset { return registerErrorToolset{id: id} }); err != nil {
		t.Fatalf("register toolset: %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.Toolsets = []string{id}
	_, _, err := buildRuntime(cfg, io.Discard, zap.NewNop(), cache.NewStore())
	if err == nil {
		t.Fatalf("expected register error")
	}
}

type fakeTransport struct{}

func (fakeTransport) Connect(context.Context) (sdkmcp.Connection, error) {
	return &fakeConn{}, nil
}

type fakeConn struct{}

func (c *fakeConn) Read(context.Context) (sdkjsonrpc.Message, error) {
	return nil, io.EOF
}

func (c *fakeConn) Write(context.Context, sdkjsonrpc.Message) error {
	return nil
}

func (c *fakeConn) Close() error {
	return nil
}

func (c *fakeConn) SessionID() string {
	return "test"
}

type errorTransport struct{}

func (errorTransport) Connect(context.Context) (sdkmcp.Connection, error) {
	return nil, fmt.Errorf("connect error")
}

type blockingTransport struct {
	done chan struct{}
}

func (t blockingTransport) Connect(context.Context) (sdkmcp.Connection, error) {
	return &blockingConn{done: t.done}, nil
}

type blockingConn struct {
	done chan struct{}
}

func (c *blockingConn) Read(context.Context) (sdkjsonrpc.Message, error) {
	<-c.done
	return nil, io.EOF
}

func (c *blockingConn) Write(context.Context, sdkjsonrpc.Message) error {
	return nil
}

func (c *blockingConn) Close() error {
	return nil
}

func (c *blockingConn) SessionID() string {
	return "blocking"
}
