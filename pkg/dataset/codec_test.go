package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/dsxplorer/pkg/dataset"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want *dataset.Context
	}{
		{
			name: "Missing dataset name",
			uri:  "s3://bucket/private/userName/datasets/",
			want: nil,
		},
		{
			name: "Missing trailing location segment",
			uri:  "s3://bucket/global/datasets/datasetName",
			want: nil,
		},
		{
			name: "Global resource",
			uri:  "s3://bucket/global/datasets/datasetName/prefix/object",
			want: &dataset.Context{Type: dataset.TypeGlobal, Name: "datasetName", Location: "prefix/object"},
		},
		{
			name: "Global dataset named datasets",
			uri:  "s3://bucket/global/datasets/datasets/x/y",
			want: &dataset.Context{Type: dataset.TypeGlobal, Name: "datasets", Location: "x/y"},
		},
		{
			name: "Project resource",
			uri:  "s3://bucket/project/projectName/datasets/datasetName/prefix/object",
			want: &dataset.Context{
				Type:     dataset.TypeProject,
				Scope:    "projectName",
				Name:     "datasetName",
				Location: "prefix/object",
			},
		},
		{
			name: "Dataset root",
			uri:  "s3://bucket/private/jdoe/datasets/images/",
			want: &dataset.Context{Type: dataset.TypePrivate, Scope: "jdoe", Name: "images"},
		},
		{
			name: "Unknown type is cast",
			uri:  "s3://bucket/other/datasets/x/",
			want: &dataset.Context{Type: dataset.Type("other"), Name: "x"},
		},
		{
			name: "No scheme",
			uri:  "bucket/global/datasets/x/",
			want: nil,
		},
		{
			name: "Empty",
			uri:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dataset.Decode(tt.uri))
		})
	}
}

func TestDecodeComponents(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want dataset.Components
	}{
		{
			name: "Bare dataset without trailing slash",
			uri:  "s3://bucket/global/datasets/datasetName",
			want: dataset.Components{},
		},
		{
			name: "Bare dataset",
			uri:  "s3://bucket/global/datasets/datasetName/",
			want: dataset.Components{Type: dataset.TypeGlobal, Name: "datasetName"},
		},
		{
			name: "Prefix",
			uri:  "s3://bucket/group/team/datasets/ds/a/b/",
			want: dataset.Components{
				Type:     dataset.TypeGroup,
				Scope:    "team",
				Name:     "ds",
				Location: "a/b/",
				Prefix:   "a/b/",
			},
		},
		{
			name: "Object",
			uri:  "s3://bucket/private/jdoe/datasets/ds/a/file.csv",
			want: dataset.Components{
				Type:     dataset.TypePrivate,
				Scope:    "jdoe",
				Name:     "ds",
				Location: "a/file.csv",
				Prefix:   "a/",
				Object:   "file.csv",
			},
		},
		{
			name: "Object at dataset root",
			uri:  "s3://bucket/global/datasets/ds/file.csv",
			want: dataset.Components{
				Type:     dataset.TypeGlobal,
				Name:     "ds",
				Location: "file.csv",
				Object:   "file.csv",
			},
		},
		{
			name: "Empty segment",
			uri:  "s3://bucket/global/datasets/ds/a//b",
			want: dataset.Components{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dataset.DecodeComponents(tt.uri)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.IsZero(), got.Context() == nil)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	contexts := []dataset.Context{
		{Type: dataset.TypeGlobal, Name: "ds"},
		{Type: dataset.TypeGlobal, Name: "ds", Location: "a/b/"},
		{Type: dataset.TypePrivate, Scope: "jdoe", Name: "ds", Location: "a/file.txt"},
		{Type: dataset.TypeProject, Scope: "p1", Name: "ds"},
		{Type: dataset.TypeGroup, Scope: "team", Name: "ds", Location: "deep/er/path/"},
		{Type: dataset.TypeGlobal, Name: "datasets", Location: "x/"},
		{Type: dataset.TypeGlobal, Name: "datasets", Location: "x/y"},
		{Type: dataset.TypeGlobal, Name: "datasets"},
	}

	for _, ctx := range contexts {
		t.Run(string(ctx.Type)+"/"+ctx.Location, func(t *testing.T) {
			uri := dataset.Encode("s3", "bucket", &ctx)
			require.NotEmpty(t, uri)
			got := dataset.Decode(uri)
			require.NotNil(t, got, "uri %s should decode", uri)
			assert.Equal(t, ctx, *got)
		})
	}

	assert.Empty(t, dataset.Encode("s3", "bucket", nil))
	assert.Empty(t, dataset.Encode("s3", "bucket", &dataset.Context{Type: dataset.TypeGlobal}))
}

func TestPathHelpers(t *testing.T) {
	tests := []struct {
		path     string
		prefix   string
		resource string
		last     string
	}{
		{path: "", prefix: "", resource: "", last: ""},
		{path: "file", prefix: "", resource: "file", last: "file"},
		{path: "a/b/c", prefix: "a/b/", resource: "c", last: "c"},
		{path: "a/b/", prefix: "a/b/", resource: "", last: "b/"},
		{path: "a/", prefix: "a/", resource: "", last: "a/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.prefix, dataset.PrefixForPath(tt.path))
			assert.Equal(t, tt.resource, dataset.ResourceForPath(tt.path))
			assert.Equal(t, tt.last, dataset.LastComponent(tt.path))
		})
	}
}

func TestStripDatasetPrefix(t *testing.T) {
	assert.Equal(t, "a/b/", dataset.StripDatasetPrefix("private/jdoe/datasets/ds/a/b/"))
	assert.Equal(t, "file.txt", dataset.StripDatasetPrefix("global/datasets/ds/file.txt"))
	assert.Equal(t, "", dataset.StripDatasetPrefix("global/datasets/ds/"))
	assert.Equal(t, "x/datasets/y/z", dataset.StripDatasetPrefix("g/datasets/ds/x/datasets/y/z"))
	assert.Equal(t, "plain/path", dataset.StripDatasetPrefix("plain/path"))
}
