// Package compute exposes EC2 instance operations as MCP tools under
// the compute_ prefix.
package compute

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/ec2"

	awslib "awsmcp/internal/aws"
	"awsmcp/internal/mcp"
)

// API is the subset of the EC2 client the compute tools call.
type API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	StartInstances(ctx context.Context, params *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error)
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
}

type clientEntry struct {
	client API
	region string
}

type Toolset struct {
	ctx     mcp.ToolsetContext
	mu      sync.Mutex
	clients map[string]clientEntry
}

func New() *Toolset {
	return &Toolset{}
}

func init() {
	mcp.MustRegisterToolset("compute", func() mcp.Toolset {
		return New()
	})
}

func (t *Toolset) ID() string {
	return "compute"
}

func (t *Toolset) Version() string {
	return "0.1.0"
}

func (t *Toolset) Init(ctx mcp.ToolsetContext) error {
	t.ctx = ctx
	t.clients = map[string]clientEntry{}
	return nil
}

func (t *Toolset) Register(reg mcp.Registry) error {
	for _, tool := range ToolSpecs(t.ctx, t.ID(), t.client) {
		tool = mcp.WrapListCache(tool, t.ctx)
		if err := reg.Add(tool); err != nil {
			return fmt.Errorf("register %s: %w", tool.Name, err)
		}
	}
	return nil
}

// client memoizes one EC2 client per resolved region, holding the lock
// across construction so concurrent first calls share a single client.
func (t *Toolset) client(ctx context.Context, region string) (API, string, error) {
	key := awslib.ResolveRegion(region)
	t.mu.Lock()
	defer t.mu.Unlock()
	if entry, ok := t.clients[key]; ok {
		return entry.client, entry.region, nil
	}

	cfg, err := awslib.LoadConfig(ctx, region)
	if err != nil {
		return nil, "", &awslib.ClientCreationError{Service: "ec2", Err: err}
	}
	client := ec2.NewFromConfig(cfg)
	usedRegion := strings.TrimSpace(cfg.Region)
	t.clients[key] = clientEntry{client: client, region: usedRegion}
	return client, usedRegion, nil
}
