package s3svc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
		"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/dsxplorer/pkg/dataset"
	"github.com/sgaunet/dsxplorer/pkg/dto"
)

// DefaultPresignExpiry is the validity of a presigned upload URL.
const DefaultPresignExpiry = 15 * time.Minute

// UploadObject uploads a single object to S3.
// Parameters:
//   - ctx: Context for the request
//   - key: S3 object key (full path including filename)
//   - body: io.Reader containing the file data
//   - contentType: MIME type of the file (e.g., "text/csv", "application/octet-stream")
//   - size: Size of the file in bytes
func (s *Service) UploadObject(
	ctx context.Context,
	key string,
	body io.Reader,
	contentType string,
	size int64,
) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}

	_, err := s.awsS3Client.PutObject(ctx, input)
	if err != nil {
		return fmt.Errorf("UploadObject: error uploading to S3: %w", err)
	}

	s.log.Debug("UploadObject completed",
		slog.String("key", key),
		slog.String("contentType", contentType),
		slog.Int64("size", size))

	return nil
}

// PresignUpload returns a presigned PUT request for key.
func (s *Service) PresignUpload(ctx context.Context, key string, size int64, expires time.Duration) (dto.PresignedUpload, error) {
	if s.presigner == nil {
		return dto.PresignedUpload{}, fmt.Errorf("PresignUpload: %w", ErrNoPresigner)
	}
	if expires <= 0 {
		expires = DefaultPresignExpiry
	}

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		ContentLength: aws.Int64(size),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return dto.PresignedUpload{}, fmt.Errorf("PresignUpload: %w", err)
	}

	s.log.Debug("PresignUpload", slog.String("key", key), slog.Duration("expires", expires))
	return dto.PresignedUpload{URL: req.URL, Method: req.Method, Header: req.SignedHeader}, nil
}

// PresignDatasetUpload presigns the upload of a file into a dataset. key is
// relative to the dataset root.
func (s *Service) PresignDatasetUpload(ctx context.Context, t dataset.Type, scope, name, key string, size int64) (dto.PresignedUpload, error) {
	full, err := datasetKey(t, scope, name, key)
	if err != nil {
		return dto.PresignedUpload{}, fmt.Errorf("PresignDatasetUpload: %w", err)
	}
	return s.PresignUpload(ctx, full, size, DefaultPresignExpiry)
}
