package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// ErrInvalidArguments rejects tool calls whose arguments are not an object.
var ErrInvalidArguments = errors.New("invalid arguments: expected an object")

// UnknownToolError means the tool name matched no registered service prefix.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// UnknownOperationError means the service prefix is recognized but the
// operation suffix is not implemented.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation: %s", e.Name)
}

// MissingParameterError reports a required argument key absent for the
// matched operation.
type MissingParameterError struct {
	Parameter string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s is required", e.Parameter)
}

// InvalidParameterError reports an argument present with the wrong type.
type InvalidParameterError struct {
	Parameter string
	Expected  string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s: expected %s", e.Parameter, e.Expected)
}

// ProviderError wraps a failed AWS call, keeping the opaque cause.
type ProviderError struct {
	Service   string
	Operation string
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Operation, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// OperationFailedError is the single failure surface of the dispatcher:
// every error raised during a tool call is wrapped into one, carrying
// the original message.
type OperationFailedError struct {
	Err error
}

func (e *OperationFailedError) Error() string {
	return fmt.Sprintf("operation failed: %v", e.Err)
}

func (e *OperationFailedError) Unwrap() error {
	return e.Err
}

// ResourceNotFoundError reports a resource read for an unrecognized
// scheme or path.
type ResourceNotFoundError struct {
	URI string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URI)
}

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Hint      string `json:"hint,omitempty"`
	Retryable bool   `json:"retryable"`
}

type ErrorEnvelope struct {
	Error   ErrorDetail `json:"error"`
	Details any         `json:"details,omitempty"`
}

func BuildErrorEnvelope(err error, details any) map[string]any {
	envelope := ErrorEnvelope{Error: classifyError(err)}
	out := map[string]any{"error": envelope.Error}
	if details != nil {
		out["details"] = details
	}
	return out
}

func classifyError(err error) ErrorDetail {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorDetail{Code: "timeout", Message: msg, Hint: "Increase the timeout or check network latency.", Retryable: true}
	}
	if errors.Is(err, context.Canceled) {
		return ErrorDetail{Code: "canceled", Message: msg, Hint: "Request was canceled before completion.", Retryable: true}
	}
	if errors.Is(err, ErrInvalidArguments) {
		return ErrorDetail{Code: "invalid_request", Message: msg, Hint: "Fix request parameters or schema.", Retryable: false}
	}

	var unknownTool *UnknownToolError
	if errors.As(err, &unknownTool) {
		return ErrorDetail{Code: "unknown_tool", Message: msg, Hint: "List tools to discover available operations.", Retryable: false}
	}
	var unknownOp *UnknownOperationError
	if errors.As(err, &unknownOp) {
		return ErrorDetail{Code: "unknown_operation", Message: msg, Hint: "List tools to discover available operations.", Retryable: false}
	}
	var missing *MissingParameterError
	if errors.As(err, &missing) {
		return ErrorDetail{Code: "invalid_request", Message: msg, Hint: "Fix request parameters or schema.", Retryable: false}
	}
	var invalid *InvalidParameterError
	if errors.As(err, &invalid) {
		return ErrorDetail{Code: "invalid_request", Message: msg, Hint: "Fix request parameters or schema.", Retryable: false}
	}
	var notFound *ResourceNotFoundError
	if errors.As(err, &notFound) {
		return ErrorDetail{Code: "not_found", Message: msg, Hint: "Only the audit resource is exposed.", Retryable: false}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AccessDeniedException", "UnauthorizedOperation":
			return ErrorDetail{Code: "forbidden", Message: msg, Hint: "Check AWS credentials and IAM policies.", Retryable: false}
		case "Throttling", "ThrottlingException", "RequestLimitExceeded", "TooManyRequestsException", "SlowDown":
			return ErrorDetail{Code: "rate_limited", Message: msg, Hint: "Retry with backoff.", Retryable: true}
		case "NoSuchBucket", "NoSuchKey", "InvalidInstanceID.NotFound", "ResourceNotFoundException", "NotFoundException":
			return ErrorDetail{Code: "not_found", Message: msg, Hint: "Verify resource identifiers and region.", Retryable: false}
		case "ValidationException", "InvalidParameterException", "InvalidParameterValue", "InvalidBucketName":
			return ErrorDetail{Code: "invalid_request", Message: msg, Hint: "Fix request parameters or schema.", Retryable: false}
		case "BucketAlreadyExists", "BucketAlreadyOwnedByYou", "BucketNotEmpty", "IncorrectInstanceState":
			return ErrorDetail{Code: "conflict", Message: msg, Hint: "Resource state conflicts with the request.", Retryable: false}
		default:
			return ErrorDetail{Code: "upstream_error", Message: msg, Hint: "AWS API error; verify inputs and retry.", Retryable: true}
		}
	}

	if isInvalidRequestMessage(msg) {
		return ErrorDetail{Code: "invalid_request", Message: msg, Hint: "Fix request parameters or schema.", Retryable: false}
	}

	return ErrorDetail{Code: "internal", Message: msg, Hint: "Check server logs for details.", Retryable: false}
}

func isInvalidRequestMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "required") || strings.Contains(lower, "invalid") || strings.Contains(lower, "missing")
}
