package s3svc

import (
	"context"
	"crypto/md5" //nolint:gosec // MD5 required by S3 API for Content-MD5 header, not for cryptographic security
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/sgaunet/dsxplorer/pkg/dataset"
)

// maxDeleteBatch is the S3 limit of keys per DeleteObjects request.
const maxDeleteBatch = 1000

// ErrPartialDelete is returned when S3 reports per key failures.
var ErrPartialDelete = errors.New("some objects failed to delete")

type deletePayload struct {
	XMLName xml.Name       `xml:"Delete"`
	Objects []deleteObject `xml:"Object"`
	Quiet   bool           `xml:"Quiet"`
}

type deleteObject struct {
	Key string `xml:"Key"`
}

// computeDeleteContentMD5 computes the MD5 of the DeleteObjects body, which
// MinIO and other S3-compatible services require.
func computeDeleteContentMD5(objects []types.ObjectIdentifier, quiet bool) (string, error) {
	payload := deletePayload{
		Objects: make([]deleteObject, len(objects)),
		Quiet:   quiet,
	}
	for i, obj := range objects {
		payload.Objects[i] = deleteObject{Key: aws.ToString(obj.Key)}
	}

	xmlBytes, err := xml.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal delete payload: %w", err)
	}

	hash := md5.Sum(xmlBytes) //nolint:gosec // MD5 required by S3 API for Content-MD5 header
	return base64.StdEncoding.EncodeToString(hash[:]), nil
}

// addContentMD5Middleware creates a middleware that adds the Content-MD5 header to the request.
func addContentMD5Middleware(contentMD5 string) func(*s3.Options) {
	return func(o *s3.Options) {
		o.APIOptions = append(o.APIOptions, func(stack *middleware.Stack) error {
			return stack.Finalize.Add(
				middleware.FinalizeMiddlewareFunc(
					"AddContentMD5",
					func(
						ctx context.Context,
						in middleware.FinalizeInput,
						next middleware.FinalizeHandler,
					) (middleware.FinalizeOutput, middleware.Metadata, error) {
						req, ok := in.Request.(*smithyhttp.Request)
						if ok {
							req.Header.Set("Content-MD5", contentMD5)
						}
						return next.HandleFinalize(ctx, in)
					},
				),
				middleware.Before,
			)
		})
	}
}

// DeleteObjects deletes keys in batches of 1000 and returns the number of
// deleted objects.
func (s *Service) DeleteObjects(ctx context.Context, keys []string) (int, error) {
	deleted := 0
	for batch := range slices.Chunk(keys, maxDeleteBatch) {
		n, err := s.deleteBatch(ctx, batch)
		deleted += n
		if err != nil {
			return deleted, err
		}
	}
	return deleted, nil
}

func (s *Service) deleteBatch(ctx context.Context, keys []string) (int, error) {
	objects := make([]types.ObjectIdentifier, len(keys))
	for i, key := range keys {
		objects[i] = types.ObjectIdentifier{Key: aws.String(key)}
	}

	quiet := false
	input := &s3.DeleteObjectsInput{
		Bucket: aws.String(s.cfg.Bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(quiet),
		},
	}

	contentMD5, err := computeDeleteContentMD5(objects, quiet)
	if err != nil {
		return 0, fmt.Errorf("DeleteObjects: failed to compute Content-MD5: %w", err)
	}

	output, err := s.awsS3Client.DeleteObjects(ctx, input, addContentMD5Middleware(contentMD5))
	if err != nil {
		return 0, fmt.Errorf("DeleteObjects: error deleting from S3: %w", err)
	}

	if len(output.Errors) > 0 {
		for _, deleteError := range output.Errors {
			s.log.Error("Failed to delete object",
				slog.String("key", aws.ToString(deleteError.Key)),
				slog.String("code", aws.ToString(deleteError.Code)),
				slog.String("message", aws.ToString(deleteError.Message)))
		}
		return len(output.Deleted), fmt.Errorf("DeleteObjects: %d of %d: %w", len(output.Errors), len(keys), ErrPartialDelete)
	}

	s.log.Debug("DeleteObjects completed",
		slog.Int("count", len(keys)),
		slog.Int("deleted", len(output.Deleted)))
	return len(output.Deleted), nil
}

// DeleteDatasetFiles removes files of a dataset. keys are relative to the
// dataset root; keys escaping it are rejected.
func (s *Service) DeleteDatasetFiles(ctx context.Context, t dataset.Type, scope, name string, keys []string) (int, error) {
	full := make([]string, 0, len(keys))
	for _, key := range keys {
		k, err := datasetKey(t, scope, name, key)
		if err != nil {
			return 0, fmt.Errorf("DeleteDatasetFiles: %w", err)
		}
		full = append(full, k)
	}
	return s.DeleteObjects(ctx, full)
}

// datasetKey joins a dataset-relative key to the dataset root.
func datasetKey(t dataset.Type, scope, name, key string) (string, error) {
	if !t.Known() || name == "" {
		return "", ErrInvalidRequest
	}
	if key == "" || strings.HasPrefix(key, delimiter) || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: key %q", ErrInvalidRequest, key)
	}
	return dataset.KeyPrefix(t, scope, name) + key, nil
}
