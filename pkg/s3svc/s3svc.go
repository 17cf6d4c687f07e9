// Package s3svc reads and writes datasets in an S3 bucket.
package s3svc

import (
	"context"
	"errors"
	"io"
	"log/slog"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/dsxplorer/pkg/config"
)

var (
	// ErrInvalidRequest is returned for listing requests that do not designate a dataset.
	ErrInvalidRequest = errors.New("invalid dataset request")
	// ErrNoPresigner is returned when presigning is not available.
	ErrNoPresigner = errors.New("no presign client")
)

// S3API is the subset of the S3 client used by the service.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Presigner presigns object uploads.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Service is the struct for the S3 service
type Service struct {
	cfg         config.S3Config
	awsS3Client S3API
	presigner   Presigner
	log         *slog.Logger
}

// NewS3Svc creates a new S3 service
// It requires the S3 configuration and a client, usually a *s3.Client.
// By default the logger is set to write to /dev/null
func NewS3Svc(cfg config.S3Config, client S3API) *Service {
	s := &Service{
		cfg:         cfg,
		awsS3Client: client,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if c, ok := client.(*s3.Client); ok {
		s.presigner = s3.NewPresignClient(c)
	}
	return s
}

// SetLogger sets the logger
func (s *Service) SetLogger(log *slog.Logger) {
	s.log = log
}

// SetPresigner replaces the presign client.
func (s *Service) SetPresigner(p Presigner) {
	s.presigner = p
}

// Bucket returns the bucket holding the datasets.
func (s *Service) Bucket() string {
	return s.cfg.Bucket
}

// Scheme returns the scheme of the dataset URIs.
func (s *Service) Scheme() string {
	return s.cfg.Scheme
}
