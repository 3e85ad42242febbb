package config

import (
	"context"
	"fmt"

	"github.com/13rac1/tarmac/internal/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client creates an S3 client for the upload mirror.
// Authentication priority: static credentials > AWS profile > default credential chain.
func NewS3Client(ctx context.Context, settings *types.Settings) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error

	opts = append(opts,
		config.WithRegion(settings.Mirror.Region),
		config.WithRetryMaxAttempts(3),
		config.WithRetryMode(aws.RetryModeStandard),
	)

	if settings.Auth.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				settings.Auth.AccessKeyID,
				settings.Auth.SecretAccessKey,
				settings.Auth.SessionToken,
			),
		))
	} else if settings.Auth.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(settings.Auth.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if settings.Mirror.Endpoint != "" {
			o.BaseEndpoint = aws.String(settings.Mirror.Endpoint)
		}
		if settings.Mirror.ForcePathStyle {
			o.UsePathStyle = true
		}
	})

	return client, nil
}
