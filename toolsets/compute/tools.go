package compute

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"awsmcp/internal/mcp"
)

type Service struct {
	ctx       mcp.ToolsetContext
	client    func(context.Context, string) (API, string, error)
	toolsetID string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, client func(context.Context, string) (API, string, error)) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, client: client, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "compute_instance_list",
			Description: "List all EC2 instances",
			ToolsetID:   toolsetID,
			InputSchema: schemaInstanceList(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleInstanceList,
		},
		{
			Name:        "compute_instance_describe",
			Description: "Describe specific EC2 instances",
			ToolsetID:   toolsetID,
			InputSchema: schemaInstanceDescribe(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleInstanceDescribe,
		},
		{
			Name:        "compute_instance_start",
			Description: "Start EC2 instances",
			ToolsetID:   toolsetID,
			InputSchema: schemaInstanceStart(),
			Safety:      mcp.SafetyWrite,
			Handler:     svc.handleInstanceStart,
		},
		{
			Name:        "compute_instance_stop",
			Description: "Stop EC2 instances",
			ToolsetID:   toolsetID,
			InputSchema: schemaInstanceStop(),
			Safety:      mcp.SafetyWrite,
			Handler:     svc.handleInstanceStop,
		},
	}
}

func (s *Service) region() string {
	if s.ctx.Config == nil {
		return ""
	}
	return s.ctx.Config.Region
}

func (s *Service) handleInstanceList(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	client, usedRegion, err := s.client(ctx, s.region())
	if err != nil {
		return errorResult(err), err
	}
	input := &ec2.DescribeInstancesInput{}
	// Caller-supplied filters pass through verbatim when present and
	// non-empty.
	if filters := toFilters(req.Arguments["filters"]); len(filters) > 0 {
		input.Filters = filters
	}
	out, err := client.DescribeInstances(ctx, input)
	if err != nil {
		err = &mcp.ProviderError{Service: s.toolsetID, Operation: "instance_list", Err: err}
		return errorResult(err), err
	}
	instances := collectInstances(out)
	return mcp.ToolResult{Data: map[string]any{
		"region":    usedRegion,
		"instances": instances,
		"count":     len(instances),
	}}, nil
}

func (s *Service) handleInstanceDescribe(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	ids, err := requireStringSlice(req.Arguments, "instance_ids")
	if err != nil {
		return errorResult(err), err
	}
	client, usedRegion, err := s.client(ctx, s.region())
	if err != nil {
		return errorResult(err), err
	}
	out, err := client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{InstanceIds: ids})
	if err != nil {
		err = &mcp.ProviderError{Service: s.toolsetID, Operation: "instance_describe", Err: err}
		return errorResult(err), err
	}
	instances := collectInstances(out)
	return mcp.ToolResult{Data: map[string]any{
		"region":    usedRegion,
		"instances": instances,
		"count":     len(instances),
	}}, nil
}

func (s *Service) handleInstanceStart(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	ids, err := requireStringSlice(req.Arguments, "instance_ids")
	if err != nil {
		return errorResult(err), err
	}
	client, usedRegion, err := s.client(ctx, s.region())
	if err != nil {
		return errorResult(err), err
	}
	out, err := client.StartInstances(ctx, &ec2.StartInstancesInput{InstanceIds: ids})
	if err != nil {
		err = &mcp.ProviderError{Service: s.toolsetID, Operation: "instance_start", Err: err}
		return errorResult(err), err
	}
	changes := make([]map[string]any, 0, len(out.StartingInstances))
	for _, change := range out.StartingInstances {
		changes = append(changes, summarizeStateChange(change.InstanceId, change.PreviousState, change.CurrentState))
	}
	return mcp.ToolResult{Data: map[string]any{
		"region":       usedRegion,
		"stateChanges": changes,
		"count":        len(changes),
	}}, nil
}

func (s *Service) handleInstanceStop(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	ids, err := requireStringSlice(req.Arguments, "instance_ids")
	if err != nil {
		return errorResult(err), err
	}
	force, err := optionalBool(req.Arguments, "force", false)
	if err != nil {
		return errorResult(err), err
	}
	client, usedRegion, err := s.client(ctx, s.region())
	if err != nil {
		return errorResult(err), err
	}
	out, err := client.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: ids,
		Force:       aws.Bool(force),
	})
	if err != nil {
		err = &mcp.ProviderError{Service: s.toolsetID, Operation: "instance_stop", Err: err}
		return errorResult(err), err
	}
	changes := make([]map[string]any, 0, len(out.StoppingInstances))
	for _, change := range out.StoppingInstances {
		changes = append(changes, summarizeStateChange(change.InstanceId, change.PreviousState, change.CurrentState))
	}
	return mcp.ToolResult{Data: map[string]any{
		"region":       usedRegion,
		"force":        force,
		"stateChanges": changes,
		"count":        len(changes),
	}}, nil
}

func collectInstances(out *ec2.DescribeInstancesOutput) []map[string]any {
	instances := []map[string]any{}
	for _, reservation := range out.Reservations {
		for _, inst := range reservation.Instances {
			instances = append(instances, summarizeInstance(inst))
		}
	}
	return instances
}

func summarizeInstance(inst ec2types.Instance) map[string]any {
	summary := map[string]any{
		"instanceId":   aws.ToString(inst.InstanceId),
		"instanceType": string(inst.InstanceType),
	}
	if inst.State != nil {
		summary["state"] = string(inst.State.Name)
	}
	if inst.Placement != nil {
		summary["availabilityZone"] = aws.ToString(inst.Placement.AvailabilityZone)
	}
	if ip := aws.ToString(inst.PrivateIpAddress); ip != "" {
		summary["privateIp"] = ip
	}
	if ip := aws.ToString(inst.PublicIpAddress); ip != "" {
		summary["publicIp"] = ip
	}
	if inst.LaunchTime != nil {
		summary["launchTime"] = inst.LaunchTime.UTC().Format(time.RFC3339)
	}
	if tags := tagMap(inst.Tags); len(tags) > 0 {
		summary["tags"] = tags
	}
	return summary
}

func summarizeStateChange(id *string, previous, current *ec2types.InstanceState) map[string]any {
	change := map[string]any{"instanceId": aws.ToString(id)}
	if previous != nil {
		change["previousState"] = string(previous.Name)
	}
	if current != nil {
		change["currentState"] = string(current.Name)
	}
	return change
}

func tagMap(tags []ec2types.Tag) map[string]string {
	out := map[string]string{}
	for _, tag := range tags {
		key := aws.ToString(tag.Key)
		if key == "" {
			continue
		}
		out[key] = aws.ToString(tag.Value)
	}
	return out
}

// toFilters converts the wire-shaped filter list ({Name, Values} items)
// into EC2 filter structs, dropping malformed items.
func toFilters(value any) []ec2types.Filter {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	var filters []ec2types.Filter
	for _, item := range items {
		spec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := toString(spec["Name"])
		values := toStringSlice(spec["Values"])
		if name == "" || len(values) == 0 {
			continue
		}
		filters = append(filters, ec2types.Filter{Name: aws.String(name), Values: values})
	}
	return filters
}

func errorResult(err error) mcp.ToolResult {
	return mcp.ToolResult{Data: map[string]any{"error": err.Error()}}
}

func requireStringSlice(args map[string]any, key string) ([]string, error) {
	values := toStringSlice(args[key])
	if len(values) == 0 {
		return nil, &mcp.MissingParameterError{Parameter: key}
	}
	return values, nil
}

func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func toStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func optionalBool(args map[string]any, key string, fallback bool) (bool, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return fallback, nil
	}
	b, ok := value.(bool)
	if !ok {
		return false, &mcp.InvalidParameterError{Parameter: key, Expected: "a boolean"}
	}
	return b, nil
}
