package aws

import (
	"context"
	"fmt"
	"os"
	"strconv"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// LoadAWSConfig builds the SDK config from the environment.
//
//	AWS_REGION            region, defaults to us-east-1
//	AWS_ENDPOINT_OVERRIDE base endpoint for every client (LocalStack, dynamodb-local)
//	AWS_MAX_ATTEMPTS      retry attempts of the standard retryer, defaults to 3
func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1" // default fallback
	}

	maxAttempts := 3
	if v := os.Getenv("AWS_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return sdkaws.Config{}, fmt.Errorf("invalid AWS_MAX_ATTEMPTS %q", v)
		}
		maxAttempts = n
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithRetryMaxAttempts(maxAttempts),
	}
	if endpoint := os.Getenv("AWS_ENDPOINT_OVERRIDE"); endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(endpoint))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return cfg, nil
}
