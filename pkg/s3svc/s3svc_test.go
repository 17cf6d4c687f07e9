// Package s3svc_test tests the s3svc package functionality
package s3svc_test

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/config"
	"github.com/sgaunet/dsxplorer/pkg/dataset"
	"github.com/sgaunet/dsxplorer/pkg/s3svc"
)

// fakeS3 is an in-memory bucket answering delimiter listings.
type fakeS3 struct {
	keys        []string
	listInputs  []*s3.ListObjectsV2Input
	deleted     []string
	failDeletes map[string]bool
	put         []*s3.PutObjectInput
	headErr     error
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.listInputs = append(f.listInputs, in)
	prefix := aws.ToString(in.Prefix)
	delim := aws.ToString(in.Delimiter)

	var entries []string
	seen := map[string]bool{}
	for _, key := range slices.Sorted(slices.Values(f.keys)) {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		if delim != "" {
			if i := strings.Index(rest, delim); i >= 0 {
				p := prefix + rest[:i+1]
				if !seen[p] {
					seen[p] = true
					entries = append(entries, p)
				}
				continue
			}
		}
		entries = append(entries, key)
	}

	start := 0
	if in.ContinuationToken != nil {
		for i, e := range entries {
			if e == aws.ToString(in.ContinuationToken) {
				start = i
			}
		}
	}
	end := len(entries)
	if in.MaxKeys != nil && start+int(*in.MaxKeys) < end {
		end = start + int(*in.MaxKeys)
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(entries))}
	if end < len(entries) {
		out.NextContinuationToken = aws.String(entries[end])
	}
	modified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	for _, e := range entries[start:end] {
		if seen[e] {
			out.CommonPrefixes = append(out.CommonPrefixes, types.CommonPrefix{Prefix: aws.String(e)})
			continue
		}
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(e),
			Size:         aws.Int64(int64(len(e))),
			LastModified: aws.Time(modified),
		})
	}
	return out, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = append(f.put, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjects(_ context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	out := &s3.DeleteObjectsOutput{}
	for _, obj := range in.Delete.Objects {
		key := aws.ToString(obj.Key)
		if f.failDeletes[key] {
			out.Errors = append(out.Errors, types.Error{Key: obj.Key, Code: aws.String("AccessDenied"), Message: aws.String("denied")})
			continue
		}
		f.deleted = append(f.deleted, key)
		out.Deleted = append(out.Deleted, types.DeletedObject{Key: obj.Key})
	}
	return out, nil
}

func (f *fakeS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

type fakePresigner struct {
	input   *s3.PutObjectInput
	expires time.Duration
}

func (f *fakePresigner) PresignPutObject(_ context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.input = in
	opts := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	return &v4.PresignedHTTPRequest{
		URL:          "https://bucket.example.com/" + aws.ToString(in.Key) + "?X-Amz-Signature=abc",
		Method:       http.MethodPut,
		SignedHeader: http.Header{"Host": []string{"bucket.example.com"}},
	}, nil
}

func newService(keys ...string) (*s3svc.Service, *fakeS3) {
	fake := &fakeS3{keys: keys}
	svc := s3svc.NewS3Svc(config.S3Config{Bucket: "datasets", Scheme: "s3"}, fake)
	return svc, fake
}

func TestListDatasetContents(t *testing.T) {
	svc, fake := newService(
		"private/jdoe/datasets/ds/",
		"private/jdoe/datasets/ds/a.csv",
		"private/jdoe/datasets/ds/b.csv",
		"private/jdoe/datasets/ds/img/1.png",
		"private/jdoe/datasets/other/x",
	)

	res, err := svc.ListDatasetContents(context.Background(), browser.ListRequest{
		Type:        dataset.TypePrivate,
		Scope:       "jdoe",
		DatasetName: "ds",
	})
	require.NoError(t, err)

	assert.Equal(t, "datasets", res.Bucket)
	assert.Equal(t, "private/jdoe/datasets/ds/", res.Prefix)
	assert.Empty(t, res.NextToken)
	require.Len(t, res.Contents, 3, "the directory marker is skipped")
	assert.Equal(t, dataset.Resource{Type: dataset.ResourcePrefix, Prefix: "private/jdoe/datasets/ds/img/"}, res.Contents[0])
	assert.Equal(t, dataset.ResourceObject, res.Contents[1].Type)
	assert.Equal(t, "private/jdoe/datasets/ds/a.csv", res.Contents[1].Key)
	require.NotNil(t, res.Contents[1].Size)
	assert.Equal(t, "/", aws.ToString(fake.listInputs[0].Delimiter))
}

func TestListDatasetContentsPaging(t *testing.T) {
	svc, fake := newService("global/datasets/ds/1", "global/datasets/ds/2", "global/datasets/ds/3")

	req := browser.ListRequest{Type: dataset.TypeGlobal, Scope: "global", DatasetName: "ds", PageSize: 2}
	first, err := svc.ListDatasetContents(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, first.Contents, 2)
	require.NotEmpty(t, first.NextToken)
	assert.Equal(t, int32(2), aws.ToInt32(fake.listInputs[0].MaxKeys))

	req.NextToken = first.NextToken
	second, err := svc.ListDatasetContents(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, second.Contents, 1)
	assert.Equal(t, "global/datasets/ds/3", second.Contents[0].Key)
	assert.Empty(t, second.NextToken)
}

func TestListDatasetContentsSubPrefix(t *testing.T) {
	svc, _ := newService("group/team/datasets/ds/img/1.png", "group/team/datasets/ds/img/2.png")

	res, err := svc.ListDatasetContents(context.Background(), browser.ListRequest{
		Type: dataset.TypeGroup, Scope: "team", DatasetName: "ds", Prefix: "img/",
	})
	require.NoError(t, err)
	assert.Equal(t, "group/team/datasets/ds/img/", res.Prefix)
	assert.Len(t, res.Contents, 2)
}

func TestListDatasetContentsInvalid(t *testing.T) {
	svc, _ := newService()

	tests := []struct {
		name string
		req  browser.ListRequest
	}{
		{name: "Unknown type", req: browser.ListRequest{Type: "other", Scope: "x", DatasetName: "ds"}},
		{name: "Missing dataset", req: browser.ListRequest{Type: dataset.TypeGlobal}},
		{name: "Nested dataset name", req: browser.ListRequest{Type: dataset.TypeGlobal, DatasetName: "a/b"}},
		{name: "Missing scope", req: browser.ListRequest{Type: dataset.TypeProject, DatasetName: "ds"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListDatasetContents(context.Background(), tt.req)
			assert.ErrorIs(t, err, s3svc.ErrInvalidRequest)
		})
	}
}

func TestDiscoverDatasets(t *testing.T) {
	svc, _ := newService(
		"global/datasets/mnist/train.csv",
		"private/jdoe/datasets/notes/a.txt",
		"private/alice/datasets/pics/1.png",
		"project/p1/datasets/corpus/x",
		"group/team/datasets/shared/y",
		"group/team/models/not-a-dataset/z",
	)

	got, err := svc.DiscoverDatasets(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []dataset.Dataset{
		{Name: "mnist", Type: dataset.TypeGlobal, Scope: "global", Location: "s3://datasets/global/datasets/mnist/"},
		{Name: "pics", Type: dataset.TypePrivate, Scope: "alice", Location: "s3://datasets/private/alice/datasets/pics/"},
		{Name: "notes", Type: dataset.TypePrivate, Scope: "jdoe", Location: "s3://datasets/private/jdoe/datasets/notes/"},
		{Name: "corpus", Type: dataset.TypeProject, Scope: "p1", Location: "s3://datasets/project/p1/datasets/corpus/"},
		{Name: "shared", Type: dataset.TypeGroup, Scope: "team", Location: "s3://datasets/group/team/datasets/shared/"},
	}, got)
}

func TestDeleteDatasetFiles(t *testing.T) {
	svc, fake := newService()
	fake.failDeletes = map[string]bool{"global/datasets/ds/locked": true}

	n, err := svc.DeleteDatasetFiles(context.Background(), dataset.TypeGlobal, "global", "ds", []string{"a.csv", "img/1.png"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"global/datasets/ds/a.csv", "global/datasets/ds/img/1.png"}, fake.deleted)

	_, err = svc.DeleteDatasetFiles(context.Background(), dataset.TypeGlobal, "global", "ds", []string{"../escape"})
	assert.ErrorIs(t, err, s3svc.ErrInvalidRequest)

	n, err = svc.DeleteDatasetFiles(context.Background(), dataset.TypeGlobal, "global", "ds", []string{"b", "locked"})
	assert.ErrorIs(t, err, s3svc.ErrPartialDelete)
	assert.Equal(t, 1, n)
}

func TestDeleteObjectsBatches(t *testing.T) {
	svc, fake := newService()
	keys := make([]string, 2500)
	for i := range keys {
		keys[i] = "k" + string(rune('a'+i%26))
	}

	n, err := svc.DeleteObjects(context.Background(), keys)
	require.NoError(t, err)
	assert.Equal(t, 2500, n)
	assert.Len(t, fake.deleted, 2500)

	n, err = svc.DeleteObjects(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPresignUpload(t *testing.T) {
	svc, _ := newService()

	_, err := svc.PresignUpload(context.Background(), "k", 1, 0)
	assert.ErrorIs(t, err, s3svc.ErrNoPresigner)

	presigner := &fakePresigner{}
	svc.SetPresigner(presigner)
	up, err := svc.PresignUpload(context.Background(), "global/datasets/ds/f", 42, 0)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, up.Method)
	assert.Contains(t, up.URL, "global/datasets/ds/f")
	assert.Equal(t, s3svc.DefaultPresignExpiry, presigner.expires)
	assert.Equal(t, int64(42), aws.ToInt64(presigner.input.ContentLength))
	assert.Equal(t, "datasets", aws.ToString(presigner.input.Bucket))
}

func TestPresignDatasetUpload(t *testing.T) {
	svc, _ := newService()
	presigner := &fakePresigner{}
	svc.SetPresigner(presigner)

	_, err := svc.PresignDatasetUpload(context.Background(), dataset.TypeProject, "p1", "survey", "raw/a.csv", 10)
	require.NoError(t, err)
	assert.Equal(t, "project/p1/datasets/survey/raw/a.csv", aws.ToString(presigner.input.Key))

	_, err = svc.PresignDatasetUpload(context.Background(), dataset.TypeProject, "p1", "survey", "../../other", 10)
	assert.ErrorIs(t, err, s3svc.ErrInvalidRequest)
	_, err = svc.PresignDatasetUpload(context.Background(), dataset.Type("bogus"), "p1", "survey", "a", 10)
	assert.ErrorIs(t, err, s3svc.ErrInvalidRequest)
}

func TestUploadObject(t *testing.T) {
	svc, fake := newService()
	require.NoError(t, svc.UploadObject(context.Background(), "global/datasets/ds/f", strings.NewReader("abc"), "text/plain", 3))
	require.Len(t, fake.put, 1)
	assert.Equal(t, "global/datasets/ds/f", aws.ToString(fake.put[0].Key))
}

func TestCheckBucket(t *testing.T) {
	svc, fake := newService()
	assert.NoError(t, svc.CheckBucket(context.Background()))

	fake.headErr = errors.New("no such bucket")
	assert.Error(t, svc.CheckBucket(context.Background()))
}
