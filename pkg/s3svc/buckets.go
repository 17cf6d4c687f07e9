package s3svc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// CheckBucket verifies the dataset bucket is reachable.
func (s *Service) CheckBucket(ctx context.Context) error {
	_, err := s.awsS3Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.cfg.Bucket)})
	if err != nil {
		s.log.Error("Failed to reach bucket",
			slog.String("bucket", s.cfg.Bucket),
			slog.String("error", err.Error()))
		return fmt.Errorf("CheckBucket: %s: %w", s.cfg.Bucket, err)
	}
	return nil
}
