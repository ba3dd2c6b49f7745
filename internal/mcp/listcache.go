package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// WrapListCache memoizes list tool results for the configured TTL.
// Non-list tools and a zero TTL pass through unchanged. Only successful
// results are cached, keyed by tool name plus a stable rendering of the
// arguments.
func WrapListCache(spec ToolSpec, ctx ToolContext) ToolSpec {
	if ctx.Cache == nil || ctx.Config == nil {
		return spec
	}
	if !strings.Contains(spec.Name, "_list") {
		return spec
	}
	ttlSeconds := ctx.Config.Cache.ListTTLSeconds
	if ttlSeconds <= 0 {
		return spec
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	handler := spec.Handler
	spec.Handler = func(callCtx context.Context, req ToolRequest) (ToolResult, error) {
		key := listCacheKey(spec.Name, req.Arguments)
		if cached, ok := ctx.Cache.Get(key); ok {
			// No provider call happened, so the dispatcher must not
			// record an audit entry for this result.
			return ToolResult{Data: cached, Cached: true}, nil
		}
		result, err := handler(callCtx, req)
		if err == nil && result.Data != nil {
			ctx.Cache.Set(key, result.Data, ttl)
		}
		return result, err
	}
	return spec
}

func listCacheKey(toolName string, args map[string]any) string {
	return fmt.Sprintf("list:%s:%s", toolName, stableValue(args))
}

func stableValue(value any) string {
	switch typed := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, stableValue(typed[key])))
		}
		return "{" + strings.Join(parts, ",") + "}"
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, stableValue(item))
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return fmt.Sprintf("%v", typed)
	}
}
