package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

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
			Name:        "storage_bucket_create",
			Description: "Create a new S3 bucket",
			ToolsetID:   toolsetID,
			InputSchema: schemaBucketCreate(),
			Safety:      mcp.SafetyWrite,
			Handler:     svc.handleBucketCreate,
		},
		{
			Name:        "storage_bucket_list",
			Description: "List all S3 buckets",
			ToolsetID:   toolsetID,
			InputSchema: schemaBucketList(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleBucketList,
		},
		{
			Name:        "storage_bucket_delete",
			Description: "Delete an S3 bucket",
			ToolsetID:   toolsetID,
			InputSchema: schemaBucketDelete(),
			Safety:      mcp.SafetyDestructive,
			Handler:     svc.handleBucketDelete,
		},
		{
			Name:        "storage_object_upload",
			Description: "Upload an object to S3",
			ToolsetID:   toolsetID,
			InputSchema: schemaObjectUpload(),
			Safety:      mcp.SafetyWrite,
			Handler:     svc.handleObjectUpload,
		},
		{
			Name:        "storage_object_delete",
			Description: "Delete an object from S3",
			ToolsetID:   toolsetID,
			InputSchema: schemaObjectDelete(),
			Safety:      mcp.SafetyDestructive,
			Handler:     svc.handleObjectDelete,
		},
		{
			Name:        "storage_object_list",
			Description: "List objects in an S3 bucket",
			ToolsetID:   toolsetID,
			InputSchema: schemaObjectList(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleObjectList,
		},
		{
			Name:        "storage_object_read",
			Description: "Read an object's content from S3",
			ToolsetID:   toolsetID,
			InputSchema: schemaObjectRead(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleObjectRead,
		},
	}
}

func (s *Service) region() string {
	if s.ctx.Config == nil {
		return ""
	}
	return s.ctx.Config.Region
}

func (s *Service) handleBucketCreate(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	bucket, err := requireString(req.Arguments, "bucket_name")
	if err != nil {
		return errorResult(err), err
	}
	client, usedRegion, err := s.client(ctx, s.region())
	if err != nil {
		return errorResult(err), err
	}
	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	// us-east-1 is the API default and must not appear as a location
	// constraint.
	if usedRegion != "" && usedRegion != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(usedRegion),
		}
	}
	out, err := client.CreateBucket(ctx, input)
	if err != nil {
		err = &mcp.ProviderError{Service: s.toolsetID, Operation: "bucket_create", Err: err}
		return errorResult(err), err
	}
	return mcp.ToolResult{Data: map[string]any{
		"region":   usedRegion,
		"bucket":   bucket,
		"location": aws.ToString(out.Location),
	}}, nil
}

func (s *Service) handleBucketList(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	client, usedRegion, err := s.client(ctx, s.region())
	if err != nil {
		return errorResult(err), err
	}
	out, err := client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		err = &mcp.ProviderError{Service: s.toolsetID, Operation: "bucket_list", Err: err}
		return errorResult(err), err
	}
	buckets := make([]map[string]any, 0, len(out.Buckets))
	for _, bucket := range out.Buckets {
		entry := map[string]any{"name": aws.ToString(bucket.Name)}
		if bucket.CreationDate != nil {
			entry["createdAt"] = bucket.CreationDate.UTC().Format(time.RFC3339)
		}
		buckets = append(buckets, entry)
	}
	return mcp.ToolResult{Data: map[string]any{
		"region":  usedRegion,
		"buckets": buckets,
		"count":   len(buckets),
	}}, nil
}

func (s *Service) handleBucketDelete(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	bucket, err := requireString(req.Arguments, "bucket_name")
	if err != nil {
		return errorResult(err), err
	}
	client, usedRegion, err := s.client(ctx, s.region())
	if err != nil {
		return errorResult(err), err
	}
	if _, err := client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(bucket)}); err != nil {
		err = &mcp.ProviderError{Service: s.toolsetID, Operation: "bucket_delete", Err: err}
		return errorResult(err), err
	}
	return mcp.ToolResult{Data: map[string]any{
		"region":  usedRegion,
		"bucket":  bucket,
		"deleted": true,
	}}, nil
}

func (s *Service) handleObjectUpload(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	bucket, err := requireString(req.Arguments, "bucket_name")
	if err != nil {
		return errorResult(err), err
	}
	key, err := requireString(req.Arguments, "object_key")
	if err != nil {
		return errorResult(err), err
	}
	encoded, err := requireString(req.Arguments, "file_content")
	if err != nil {
		return errorResult(err), err
	}
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		err = fmt.Errorf("invalid file_content: %w", err)
		return errorResult(err), err
	}
	client, usedRegion, err := s.client(ctx, s.region())
	if err != nil {
		return errorResult(err), err
	}
	out, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(payload),
	})
	if err != nil {
		err = &mcp.ProviderError{Service: s.toolsetID, Operation: "object_upload", Err: err}
		return errorResult(err), err
	}
	return mcp.ToolResult{Data: map[string]any{
		"region": usedRegion,
		"bucket": bucket,
		"key":    key,
		"size":   len(payload),
		"etag":   strings.Trim(aws.ToString(out.ETag), `"`),
	}}, nil
}

func (s *Service) handleObjectDelete(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	bucket, err := requireString(req.Arguments, "bucket_name")
	if err != nil {
		return errorResult(err), err
	}
	key, err := requireString(req.Arguments, "object_key")
	if err != nil {
		return errorResult(err), err
	}
	client, usedRegion, err := s.client(ctx, s.region())
	if err != nil {
		return errorResult(err), err
	}
	if _, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		err = &mcp.ProviderError{Service: s.toolsetID, Operation: "object_delete", Err: err}
		return errorResult(err), err
	}
	return mcp.ToolResult{Data: map[string]any{
		"region":  usedRegion,
		"bucket":  bucket,
		"key":     key,
		"deleted": true,
	}}, nil
}

func (s *Service) handleObjectList(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	bucket, err := requireString(req.Arguments, "bucket_name")
	if err != nil {
		return errorResult(err), err
	}
	client, usedRegion, err := s.client(ctx, s.region())
	if err != nil {
		return errorResult(err), err
	}
	out, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{Bucket: aws.String(bucket)})
	if err != nil {
		err = &mcp.ProviderError{Service: s.toolsetID, Operation: "object_list", Err: err}
		return errorResult(err), err
	}
	objects := make([]map[string]any, 0, len(out.Contents))
	for _, object := range out.Contents {
		entry := map[string]any{
			"key":  aws.ToString(object.Key),
			"size": aws.ToInt64(object.Size),
			"etag": strings.Trim(aws.ToString(object.ETag), `"`),
		}
		if object.LastModified != nil {
			entry["lastModified"] = object.LastModified.UTC().Format(time.RFC3339)
		}
		objects = append(objects, entry)
	}
	return mcp.ToolResult{Data: map[string]any{
		"region":    usedRegion,
		"bucket":    bucket,
		"objects":   objects,
		"count":     len(objects),
		"truncated": aws.ToBool(out.IsTruncated),
	}}, nil
}

func (s *Service) handleObjectRead(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	bucket, err := requireString(req.Arguments, "bucket_name")
	if err != nil {
		return errorResult(err), err
	}
	key, err := requireString(req.Arguments, "object_key")
	if err != nil {
		return errorResult(err), err
	}
	client, _, err := s.client(ctx, s.region())
	if err != nil {
		return errorResult(err), err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		err = &mcp.ProviderError{Service: s.toolsetID, Operation: "object_read", Err: err}
		return errorResult(err), err
	}
	defer out.Body.Close()
	body, err := io.ReadAll(out.Body)
	if err != nil {
		err = &mcp.ProviderError{Service: s.toolsetID, Operation: "object_read", Err: err}
		return errorResult(err), err
	}
	// The decoded body is the result, not the response envelope. IsText
	// keeps a zero-byte object from falling back to the data rendering.
	return mcp.ToolResult{Text: string(body), IsText: true}, nil
}

func errorResult(err error) mcp.ToolResult {
	return mcp.ToolResult{Data: map[string]any{"error": err.Error()}}
}

func requireString(args map[string]any, key string) (string, error) {
	value, ok := args[key].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", &mcp.MissingParameterError{Parameter: key}
	}
	return value, nil
}
