// Package server wires configuration, toolsets, and the audit log into a
// running MCP server on stdio.
package server

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/sts"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"awsmcp/internal/audit"
	awslib "awsmcp/internal/aws"
	"awsmcp/internal/cache"
	"awsmcp/internal/config"
	awsmcp "awsmcp/internal/mcp"
)

type Options struct {
	ConfigPath string
	Region     string
	Toolsets   []string
	ReadOnly   bool
	LogLevel   string
	Version    string
	Stderr     io.Writer
	// Transport overrides the stdio transport, used by tests.
	Transport sdkmcp.Transport
}

func Run(ctx context.Context, opts Options) error {
	errOut := opts.Stderr
	if errOut == nil {
		errOut = os.Stderr
	}
	configPath := opts.ConfigPath
	if configPath == "" {
		if env := os.Getenv("AWSMCP_CONFIG"); env != "" {
			configPath = env
		}
	}
	overrides := config.Overrides{}
	if opts.Region != "" {
		overrides.Region = &opts.Region
	}
	if len(opts.Toolsets) > 0 {
		overrides.Toolsets = &opts.Toolsets
	}
	if opts.ReadOnly {
		overrides.ReadOnly = &opts.ReadOnly
	}
	if opts.LogLevel != "" {
		overrides.LogLevel = &opts.LogLevel
	}

	cfg, err := config.Load(configPath, "", overrides)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	logger, err := newLogger(cfg.LogLevel, errOut)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// One store survives reloads; Flush drops responses cached under the
	// previous configuration.
	store := cache.NewStore()
	toolCtx, reg, err := buildRuntime(cfg, errOut, logger, store)
	if err != nil {
		return fmt.Errorf("init failed: %w", err)
	}

	if cfg.VerifyIdentity {
		verifyIdentity(ctx, cfg.Region, logger)
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "awsmcp", Version: opts.Version}, nil)
	toolNames, err := awsmcp.RegisterSDKTools(server, reg, toolCtx)
	if err != nil {
		return fmt.Errorf("tool registration failed: %w", err)
	}
	if err := awsmcp.RegisterSDKResources(server, toolCtx); err != nil {
		return fmt.Errorf("resource registration failed: %w", err)
	}

	reloadCh := make(chan os.Signal, 1)
	notifyReload(reloadCh)
	go func() {
		for range reloadCh {
			cfg, err := config.Load(configPath, "", overrides)
			if err != nil {
				logger.Warn("config reload failed", zap.Error(err))
				continue
			}
			store.Flush()
			toolCtx, reg, err := buildRuntime(cfg, errOut, logger, store)
			if err != nil {
				logger.Warn("reload init failed", zap.Error(err))
				continue
			}
			if len(toolNames) > 0 {
				server.RemoveTools(toolNames...)
			}
			toolNames, err = awsmcp.RegisterSDKTools(server, reg, toolCtx)
			if err != nil {
				logger.Warn("tool registration failed", zap.Error(err))
				continue
			}
			logger.Info("configuration reloaded", zap.Strings("toolsets", cfg.Toolsets))
		}
	}()

	transport := opts.Transport
	if transport == nil {
		transport = &sdkmcp.StdioTransport{}
	}
	if err := server.Run(ctx, transport); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func buildRuntime(cfg config.Config, errOut io.Writer, logger *zap.Logger, store *cache.Store) (awsmcp.ToolContext, *awsmcp.ToolRegistry, error) {
	var mirror io.Writer
	if cfg.Audit.Mirror {
		mirror = errOut
	}
	auditLog := audit.NewLog(mirror)
	reg := awsmcp.NewRegistry(&cfg)

	toolCtx := awsmcp.ToolContext{
		Config: &cfg,
		Audit:  auditLog,
		Cache:  store,
		Logger: logger,
	}
	toolCtx.Dispatcher = awsmcp.NewDispatcher(reg, toolCtx)
	toolsetCtx := awsmcp.ToolsetContext(toolCtx)

	for _, id := range cfg.Toolsets {
		factory, ok := awsmcp.ToolsetFactoryFor(id)
		if !ok {
			return awsmcp.ToolContext{}, nil, fmt.Errorf("unknown toolset: %s", id)
		}
		toolset := factory()
		if err := toolset.Init(toolsetCtx); err != nil {
			return awsmcp.ToolContext{}, nil, err
		}
		if err := toolset.Register(reg); err != nil {
			return awsmcp.ToolContext{}, nil, err
		}
	}

	return toolCtx, reg, nil
}

func newLogger(level string, errOut io.Writer) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(errOut), parsed)
	return zap.New(core), nil
}

// verifyIdentity resolves the caller identity at startup so credential
// problems surface in the log before the first tool call. Failure is not
// fatal: the server still starts and individual calls report their own
// errors.
func verifyIdentity(ctx context.Context, region string, logger *zap.Logger) {
	cfg, err := awslib.LoadConfig(ctx, region)
	if err != nil {
		logger.Warn("identity check failed", zap.Error(err))
		return
	}
	out, err := sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		logger.Warn("identity check failed", zap.Error(err))
		return
	}
	account := ""
	if out.Account != nil {
		account = *out.Account
	}
	arn := ""
	if out.Arn != nil {
		arn = *out.Arn
	}
	logger.Info("caller identity verified", zap.String("account", account), zap.String("arn", arn))
}
