package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkjsonrpc "github.com/modelcontextprotocol/go-sdk/jsonrpc"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const resultBanner = "Operation Result:\n"

// RegisterSDKTools binds every registered tool spec to the MCP server,
// routing calls through the dispatcher. It returns the bound tool names
// so a reload can remove them.
func RegisterSDKTools(server *sdkmcp.Server, reg *ToolRegistry, ctx ToolContext) ([]string, error) {
	if server == nil || reg == nil {
		return nil, fmt.Errorf("server and registry are required")
	}
	if ctx.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	toolNames := reg.Names()
	for _, spec := range reg.Specs() {
		schema := spec.InputSchema
		if schema == nil {
			schema = map[string]any{"type": "object"}
		}
		tool := &sdkmcp.Tool{
			Name:        spec.Name,
			Description: spec.Description,
			InputSchema: schema,
		}
		server.AddTool(tool, toolHandler(spec.Name, ctx))
	}
	return toolNames, nil
}

// RegisterSDKResources exposes the audit log as the single readable
// resource.
func RegisterSDKResources(server *sdkmcp.Server, ctx ToolContext) error {
	if server == nil {
		return fmt.Errorf("server is required")
	}
	resource := &sdkmcp.Resource{
		URI:         AuditResourceURI,
		Name:        AuditResourceName,
		Description: AuditResourceDescription,
		MIMEType:    AuditResourceMIMEType,
	}
	server.AddResource(resource, func(callCtx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
		uri := AuditResourceURI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		text, err := AuditResourceText(ctx, uri)
		if err != nil {
			return nil, err
		}
		return &sdkmcp.ReadResourceResult{
			Contents: []*sdkmcp.ResourceContents{
				{URI: uri, MIMEType: AuditResourceMIMEType, Text: text},
			},
		}, nil
	})
	return nil
}

func toolHandler(name string, ctx ToolContext) sdkmcp.ToolHandler {
	return func(callCtx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		var args any
		if req != nil && req.Params != nil && len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return nil, &sdkjsonrpc.Error{Code: sdkjsonrpc.CodeInvalidParams, Message: fmt.Sprintf("invalid arguments: %v", err)}
			}
		}
		result, err := ctx.Dispatcher.Dispatch(callCtx, name, args)
		return buildCallToolResult(result, err), nil
	}
}

func buildCallToolResult(result ToolResult, toolErr error) *sdkmcp.CallToolResult {
	res := &sdkmcp.CallToolResult{}
	if toolErr != nil {
		res.IsError = true
		res.StructuredContent = BuildErrorEnvelope(toolErr, result.Data)
		res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: toolErr.Error()}}
		return res
	}

	if result.IsText || result.Text != "" {
		res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: result.Text}}
		return res
	}

	res.Content = []sdkmcp.Content{&sdkmcp.TextContent{Text: RenderResult(result.Data)}}
	if result.Data != nil {
		res.StructuredContent = result.Data
	}
	return res
}

// RenderResult serializes structured operation output into the banner
// plus deterministically ordered, indented JSON.
func RenderResult(data any) string {
	if data == nil {
		return resultBanner + "{}"
	}
	serialized, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return resultBanner + fmt.Sprintf("%v", data)
	}
	return resultBanner + string(serialized)
}
