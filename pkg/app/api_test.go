package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/config"
	"github.com/sgaunet/dsxplorer/pkg/dataset"
	"github.com/sgaunet/dsxplorer/pkg/dto"
	"github.com/sgaunet/dsxplorer/pkg/s3svc"
)

func TestListDatasetsAPI(t *testing.T) {
	f := newFixture(t, nil)

	status, body := f.get(t, "/api/v1/datasets")
	require.Equal(t, http.StatusOK, status)

	var list dto.DatasetList
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	names := []string{}
	for _, ds := range list.Datasets {
		names = append(names, ds.Name)
	}
	assert.Equal(t, []string{"census", "notes"}, names)
}

func TestListFilesAPI(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantReq    browser.ListRequest
	}{
		{
			name:       "global dataset",
			path:       "/api/v1/datasets/global/global/census/files?prefix=raw/&nextToken=tok&pageSize=10",
			wantStatus: http.StatusOK,
			wantReq:    browser.ListRequest{Type: dataset.TypeGlobal, Scope: "global", DatasetName: "census", Prefix: "raw/", NextToken: "tok", PageSize: 10},
		},
		{
			name:       "private dataset of the user",
			path:       "/api/v1/datasets/private/jdoe/notes/files",
			wantStatus: http.StatusOK,
			wantReq:    browser.ListRequest{Type: dataset.TypePrivate, Scope: "jdoe", DatasetName: "notes"},
		},
		{name: "private dataset of another user", path: "/api/v1/datasets/private/bob/secret/files", wantStatus: http.StatusForbidden},
		{name: "unknown type", path: "/api/v1/datasets/shared/x/y/files", wantStatus: http.StatusBadRequest},
		{name: "prefix escaping the dataset", path: "/api/v1/datasets/global/global/census/files?prefix=../other/", wantStatus: http.StatusBadRequest},
		{name: "page size too large", path: "/api/v1/datasets/global/global/census/files?pageSize=5000", wantStatus: http.StatusBadRequest},
		{name: "page size not a number", path: "/api/v1/datasets/global/global/census/files?pageSize=many", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			status, body := f.get(t, tt.path)
			require.Equal(t, tt.wantStatus, status, body)
			if tt.wantStatus != http.StatusOK {
				var res dto.ErrorResponse
				require.NoError(t, json.Unmarshal([]byte(body), &res))
				assert.NotEmpty(t, res.Error)
				return
			}
			assert.Equal(t, tt.wantReq, f.lister.lastRequest())
			var res dto.DatasetContents
			require.NoError(t, json.Unmarshal([]byte(body), &res))
			assert.Equal(t, "datasets", res.Bucket)
			assert.Len(t, res.Contents, 2)
		})
	}
}

func TestListFilesAPIListerFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.lister.err = errors.New("storage down")

	status, body := f.get(t, "/api/v1/datasets/global/global/census/files")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body, "storage down")
}

func TestDeleteFilesAPI(t *testing.T) {
	enabled := func(cfg *config.Config, _ *Deps) { cfg.S3.EnableDelete = true }

	t.Run("deletes keys", func(t *testing.T) {
		f := newFixture(t, enabled)
		status, body := f.sendJSON(t, http.MethodDelete, "/api/v1/datasets/private/jdoe/notes/files", dto.DeleteRequest{Keys: []string{"a.txt", "b.txt"}})
		require.Equal(t, http.StatusOK, status, body)
		assert.JSONEq(t, `{"deleted":2}`, body)
		assert.Equal(t, []string{"a.txt", "b.txt"}, f.files.deleted)
	})

	t.Run("disabled", func(t *testing.T) {
		f := newFixture(t, nil)
		status, _ := f.sendJSON(t, http.MethodDelete, "/api/v1/datasets/private/jdoe/notes/files", dto.DeleteRequest{Keys: []string{"a.txt"}})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Empty(t, f.files.deleted)
	})

	t.Run("no keys", func(t *testing.T) {
		f := newFixture(t, enabled)
		status, _ := f.sendJSON(t, http.MethodDelete, "/api/v1/datasets/private/jdoe/notes/files", dto.DeleteRequest{})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("invalid key", func(t *testing.T) {
		f := newFixture(t, enabled)
		f.files.err = s3svc.ErrInvalidRequest
		status, _ := f.sendJSON(t, http.MethodDelete, "/api/v1/datasets/private/jdoe/notes/files", dto.DeleteRequest{Keys: []string{"../x"}})
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestPresignUploadAPI(t *testing.T) {
	enabled := func(cfg *config.Config, _ *Deps) { cfg.S3.EnableUpload = true }

	t.Run("presigns", func(t *testing.T) {
		f := newFixture(t, enabled)
		status, body := f.sendJSON(t, http.MethodPost, "/api/v1/datasets/project/p1/survey/uploads", dto.PresignRequest{Key: "a.csv", Size: 3})
		require.Equal(t, http.StatusOK, status, body)
		var up dto.PresignedUpload
		require.NoError(t, json.Unmarshal([]byte(body), &up))
		assert.Equal(t, "https://storage/project/p1/datasets/survey/a.csv", up.URL)
	})

	t.Run("missing key", func(t *testing.T) {
		f := newFixture(t, enabled)
		status, _ := f.sendJSON(t, http.MethodPost, "/api/v1/datasets/project/p1/survey/uploads", dto.PresignRequest{Size: 3})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("other project", func(t *testing.T) {
		f := newFixture(t, enabled)
		status, _ := f.sendJSON(t, http.MethodPost, "/api/v1/datasets/project/p2/survey/uploads", dto.PresignRequest{Key: "a.csv"})
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("no presign client", func(t *testing.T) {
		f := newFixture(t, enabled)
		f.files.err = s3svc.ErrNoPresigner
		status, _ := f.sendJSON(t, http.MethodPost, "/api/v1/datasets/project/p1/survey/uploads", dto.PresignRequest{Key: "a.csv"})
		assert.Equal(t, http.StatusNotImplemented, status)
	})
}
