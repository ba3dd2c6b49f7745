package aws

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	sdkconfig "github.com/aws/aws-sdk-go-v2/config"
	sdkcredentials "github.com/aws/aws-sdk-go-v2/credentials"
)

const defaultRegion = "us-east-1"

// ErrNoRegion is returned when no region can be determined. With the
// built-in default this is unreachable; the guard stays so the default
// can be removed without silently producing region-less clients.
var ErrNoRegion = errors.New("aws region is not specified and not set in the environment")

// ClientCreationError wraps a failure to build an AWS client for a service.
type ClientCreationError struct {
	Service string
	Err     error
}

func (e *ClientCreationError) Error() string {
	return fmt.Sprintf("failed to create %s client: %v", e.Service, e.Err)
}

func (e *ClientCreationError) Unwrap() error {
	return e.Err
}

// ResolveRegion picks the region to use: explicit argument, then
// AWS_REGION, then the default.
func ResolveRegion(region string) string {
	region = strings.TrimSpace(region)
	if region == "" {
		region = strings.TrimSpace(os.Getenv("AWS_REGION"))
	}
	if region == "" {
		region = defaultRegion
	}
	return region
}

// LoadConfig resolves credentials and region into an aws.Config.
//
// Credential precedence: explicit access key + secret key from the
// environment (with the session token when one is set), otherwise the
// SDK's default discovery chain. The session token is read once up front
// and only applied alongside static keys, so an absent token never
// influences the branch taken.
func LoadConfig(ctx context.Context, region string) (sdkaws.Config, error) {
	region = ResolveRegion(region)
	if region == "" {
		return sdkaws.Config{}, ErrNoRegion
	}

	accessKey := strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID"))
	secretKey := strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY"))
	sessionToken := strings.TrimSpace(os.Getenv("AWS_SESSION_TOKEN"))

	loadOpts := []func(*sdkconfig.LoadOptions) error{
		sdkconfig.WithRegion(region),
	}
	if accessKey != "" && secretKey != "" {
		loadOpts = append(loadOpts, sdkconfig.WithCredentialsProvider(
			sdkcredentials.NewStaticCredentialsProvider(accessKey, secretKey, sessionToken),
		))
	}

	cfg, err := sdkconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return cfg, err
	}
	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = defaultRegion
	}
	return cfg, nil
}
