package s3svc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/dsxplorer/pkg/config"
)

// ErrNoAwsConfig is returned when no credential method matches the configuration.
var ErrNoAwsConfig = errors.New("no method to initialize aws.Config")

// GetAwsConfig returns an aws.Config from static keys, an SSO profile or the
// default credential chain.
func GetAwsConfig(ctx context.Context, cfg config.S3Config, log *slog.Logger) (aws.Config, error) {
	if cfg.AccessKey != "" || cfg.APIKey != "" {
		log.Debug("Try to use static credentials")
		return aws.Config{
			Region:      cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.APIKey, cfg.AccessKey, ""),
		}, nil
	}

	if cfg.SsoAwsProfile != "" {
		log.Debug("Try to use SSO profile")
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithSharedConfigProfile(cfg.SsoAwsProfile))
		if err != nil {
			log.Error("Error loading SSO profile", slog.String("error", err.Error()))
			return awsCfg, fmt.Errorf("error loading SSO profile: %w", err)
		}
		log.Debug("SSO profile loaded")
		return awsCfg, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		log.Error("Error loading default config", slog.String("error", err.Error()))
		return awsCfg, fmt.Errorf("%w: %w", ErrNoAwsConfig, err)
	}
	log.Debug("Default config loaded")
	return awsCfg, nil
}

// NewClient creates the S3 client. A custom endpoint (MinIO, Ceph...) is
// addressed in path style.
func NewClient(ctx context.Context, cfg config.S3Config, log *slog.Logger) (*s3.Client, error) {
	awsCfg, err := GetAwsConfig(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
