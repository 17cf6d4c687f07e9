package s3svc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/dsxplorer/pkg/dataset"
)

// GetFolders returns the common prefixes directly under parentFolder.
func (s *Service) GetFolders(ctx context.Context, parentFolder string) ([]string, error) {
	var result []string

	paginator := s3.NewListObjectsV2Paginator(s.awsS3Client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.cfg.Bucket),
		Prefix:    aws.String(parentFolder),
		Delimiter: aws.String(delimiter),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("GetFolders: error of paginator.NextPage: %w", err)
		}
		for _, prefix := range page.CommonPrefixes {
			result = append(result, aws.ToString(prefix.Prefix))
		}
	}
	return result, nil
}

// DiscoverDatasets walks the bucket layout and returns every dataset found:
// global/datasets/<name>/ and <type>/<scope>/datasets/<name>/.
func (s *Service) DiscoverDatasets(ctx context.Context) ([]dataset.Dataset, error) {
	var result []dataset.Dataset

	for _, t := range dataset.Types() {
		scopes := []string{""}
		if t != dataset.TypeGlobal {
			folders, err := s.GetFolders(ctx, string(t)+delimiter)
			if err != nil {
				return nil, fmt.Errorf("DiscoverDatasets: %w", err)
			}
			scopes = scopes[:0]
			for _, folder := range folders {
				scopes = append(scopes, dataset.ResourceForPath(strings.TrimSuffix(folder, delimiter)))
			}
		}

		for _, scope := range scopes {
			folders, err := s.GetFolders(ctx, dataset.TypePrefix(t, scope))
			if err != nil {
				return nil, fmt.Errorf("DiscoverDatasets: %w", err)
			}
			for _, folder := range folders {
				name := dataset.ResourceForPath(strings.TrimSuffix(folder, delimiter))
				ds := dataset.Dataset{Name: name, Type: t, Scope: scope}
				if t == dataset.TypeGlobal {
					ds.Scope = string(dataset.TypeGlobal)
				}
				ds.Location = dataset.Encode(s.cfg.Scheme, s.cfg.Bucket, &dataset.Context{Type: t, Scope: scope, Name: name})
				result = append(result, ds)
			}
		}
	}

	s.log.Debug("DiscoverDatasets", slog.Int("count", len(result)))
	return result, nil
}
