package s3svc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/dataset"
	"github.com/sgaunet/dsxplorer/pkg/dto"
)

const delimiter = "/"

// ListDatasetContents returns one page of the entries directly under a
// dataset prefix: common prefixes first, then objects.
func (s *Service) ListDatasetContents(ctx context.Context, req browser.ListRequest) (dto.DatasetContents, error) {
	if !req.Type.Known() || req.DatasetName == "" || strings.Contains(req.DatasetName, delimiter) {
		return dto.DatasetContents{}, fmt.Errorf("ListDatasetContents: %w: type %q, dataset %q", ErrInvalidRequest, req.Type, req.DatasetName)
	}
	if req.Type != dataset.TypeGlobal && req.Scope == "" {
		return dto.DatasetContents{}, fmt.Errorf("ListDatasetContents: %w: missing scope for %s", ErrInvalidRequest, req.Type)
	}

	prefix := dataset.KeyPrefix(req.Type, req.Scope, req.DatasetName) + req.Prefix
	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.cfg.Bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String(delimiter),
	}
	if req.NextToken != "" {
		input.ContinuationToken = aws.String(req.NextToken)
	}
	if req.PageSize > 0 {
		input.MaxKeys = aws.Int32(int32(min(req.PageSize, 1000))) //nolint:gosec // bounded above
	}

	s.log.Debug("ListDatasetContents", slog.String("prefix", prefix), slog.Bool("continuation", req.NextToken != ""))
	page, err := s.awsS3Client.ListObjectsV2(ctx, input)
	if err != nil {
		return dto.DatasetContents{}, fmt.Errorf("ListDatasetContents: error of ListObjectsV2: %w", err)
	}

	result := dto.DatasetContents{
		Bucket:   s.cfg.Bucket,
		Prefix:   prefix,
		Contents: make([]dataset.Resource, 0, len(page.CommonPrefixes)+len(page.Contents)),
	}
	for _, p := range page.CommonPrefixes {
		result.Contents = append(result.Contents, dataset.Resource{
			Type:   dataset.ResourcePrefix,
			Prefix: aws.ToString(p.Prefix),
		})
	}
	for _, obj := range page.Contents {
		key := aws.ToString(obj.Key)
		// directory markers
		if key == prefix {
			continue
		}
		result.Contents = append(result.Contents, dataset.Resource{
			Type:         dataset.ResourceObject,
			Key:          key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	if aws.ToBool(page.IsTruncated) {
		result.NextToken = aws.ToString(page.NextContinuationToken)
	}
	return result, nil
}
