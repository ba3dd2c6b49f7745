package mcp

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Dispatcher routes tool calls through the registry, records the audit
// entry for operations that complete, and folds every failure into an
// OperationFailedError. Audit entries are written only after the
// provider call succeeded; failed calls leave the log untouched.
type Dispatcher struct {
	reg *ToolRegistry
	ctx ToolContext
}

func NewDispatcher(reg *ToolRegistry, ctx ToolContext) *Dispatcher {
	return &Dispatcher{reg: reg, ctx: ctx}
}

// Dispatch validates the call shape, routes by name, runs the handler,
// and records the audit entry on success. The operation recorded is the
// tool name with its toolset prefix stripped.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, arguments any) (ToolResult, error) {
	args, ok := arguments.(map[string]any)
	if !ok && arguments != nil {
		return ToolResult{}, &OperationFailedError{Err: ErrInvalidArguments}
	}
	if args == nil {
		args = map[string]any{}
	}

	spec, found := d.reg.Get(name)
	if !found {
		var err error
		if d.reg.KnownToolsetFor(name) {
			err = &UnknownOperationError{Name: name}
		} else {
			err = &UnknownToolError{Name: name}
		}
		d.logCall(name, "error", err)
		return ToolResult{}, &OperationFailedError{Err: err}
	}

	result, err := spec.Handler(ctx, ToolRequest{Arguments: args, Context: d.ctx})
	if err != nil {
		d.logCall(name, "error", err)
		return result, &OperationFailedError{Err: err}
	}

	if d.ctx.Audit != nil && !result.Cached {
		d.ctx.Audit.Record(spec.ToolsetID, operationName(spec), args)
	}
	d.logCall(name, "success", nil)
	return result, nil
}

func operationName(spec ToolSpec) string {
	return strings.TrimPrefix(spec.Name, spec.ToolsetID+"_")
}

func (d *Dispatcher) logCall(name, outcome string, err error) {
	if d.ctx.Logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("tool", name),
		zap.String("outcome", outcome),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
		d.ctx.Logger.Warn("tool call failed", fields...)
		return
	}
	d.ctx.Logger.Info("tool call", fields...)
}
