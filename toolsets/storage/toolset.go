// Package storage exposes S3 bucket and object operations as MCP tools
// under the storage_ prefix.
package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	awslib "awsmcp/internal/aws"
	"awsmcp/internal/mcp"
)

// API is the subset of the S3 client the storage tools call.
type API interface {
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
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
	mcp.MustRegisterToolset("storage", func() mcp.Toolset {
		return New()
	})
}

func (t *Toolset) ID() string {
	return "storage"
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

// client memoizes one S3 client per resolved region. The lock is held
// across construction so concurrent first calls for the same region
// share a single client; failures are not cached.
func (t *Toolset) client(ctx context.Context, region string) (API, string, error) {
	key := awslib.ResolveRegion(region)
	t.mu.Lock()
	defer t.mu.Unlock()
	if entry, ok := t.clients[key]; ok {
		return entry.client, entry.region, nil
	}

	cfg, err := awslib.LoadConfig(ctx, region)
	if err != nil {
		return nil, "", &awslib.ClientCreationError{Service: "s3", Err: err}
	}
	client := s3.NewFromConfig(cfg)
	usedRegion := strings.TrimSpace(cfg.Region)
	t.clients[key] = clientEntry{client: client, region: usedRegion}
	return client, usedRegion, nil
}
