// Package upload sends the files queued in manage mode to a dataset through
// presigned PUT requests.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/dataset"
	"github.com/sgaunet/dsxplorer/pkg/dto"
	"github.com/sgaunet/dsxplorer/pkg/restclient"
)

var (
	// ErrNoTarget is returned when the upload target is not a dataset.
	ErrNoTarget = errors.New("upload target is not a dataset")
	// ErrUploadFailed is returned when the storage rejects a file.
	ErrUploadFailed = errors.New("upload failed")
)

// DefaultRetryMax is the number of retries of one file.
const DefaultRetryMax = 3

// Presigner returns presigned uploads of dataset-relative keys.
type Presigner interface {
	PresignDatasetUpload(ctx context.Context, t dataset.Type, scope, name, key string, size int64) (dto.PresignedUpload, error)
}

// Recorder is told about datasets that received files.
type Recorder interface {
	SyncUploadedDataset(ctx context.Context, ds dataset.Dataset) error
}

// Uploader uploads local files into datasets.
type Uploader struct {
	presigner Presigner
	client    *retryablehttp.Client
	retryLog  *restclient.RetryLogger
	recorder  Recorder
	scheme    string
	bucket    string
	progress  io.Writer
	log       *slog.Logger
}

// New creates an uploader presigning its requests with presigner.
func New(presigner Presigner, retryMax int) *Uploader {
	discard := slog.New(slog.DiscardHandler)
	retryLog := restclient.NewRetryLogger(discard)
	return &Uploader{
		presigner: presigner,
		client:    restclient.NewRetryClient(retryMax, retryLog),
		retryLog:  retryLog,
		log:       discard,
	}
}

// SetLogger sets the logger
func (u *Uploader) SetLogger(log *slog.Logger) {
	u.log = log
	u.retryLog = restclient.NewRetryLogger(log)
	u.client.Logger = u.retryLog
}

// SetRecorder registers the catalog updated after an upload. scheme and
// bucket build the location of the recorded dataset.
func (u *Uploader) SetRecorder(r Recorder, scheme, bucket string) {
	u.recorder = r
	u.scheme = scheme
	u.bucket = bucket
}

// SetProgress receives the bytes read from the local files.
func (u *Uploader) SetProgress(w io.Writer) {
	u.progress = w
}

// Upload sends files into the target dataset. scope is the resolved scope of
// the dataset; the object key of a file is the dataset root followed by the
// file key. It returns the object keys uploaded before the first failure.
func (u *Uploader) Upload(ctx context.Context, target dataset.Context, scope string, files []browser.UploadFile) ([]string, error) {
	if !target.Type.Known() || target.Name == "" {
		return nil, ErrNoTarget
	}
	if target.Type == dataset.TypeGlobal {
		scope = string(dataset.TypeGlobal)
	}

	root := dataset.KeyPrefix(target.Type, scope, target.Name)
	uploaded := make([]string, 0, len(files))
	for _, f := range files {
		if err := u.uploadFile(ctx, target, scope, f); err != nil {
			return uploaded, fmt.Errorf("Upload: %s: %w", f.Key, err)
		}
		uploaded = append(uploaded, root+f.Key)
		u.log.Debug("file uploaded", slog.String("key", root+f.Key), slog.Int64("size", f.Size))
	}

	if u.recorder != nil && len(uploaded) > 0 {
		ds := dataset.Dataset{Name: target.Name, Type: target.Type, Scope: scope}
		ds.Location = dataset.Encode(u.scheme, u.bucket, &dataset.Context{Type: target.Type, Scope: scope, Name: target.Name})
		if err := u.recorder.SyncUploadedDataset(ctx, ds); err != nil {
			u.log.Warn("failed to record uploaded dataset", slog.String("error", err.Error()))
		}
	}
	return uploaded, nil
}

func (u *Uploader) uploadFile(ctx context.Context, target dataset.Context, scope string, f browser.UploadFile) error {
	presigned, err := u.presigner.PresignDatasetUpload(ctx, target.Type, scope, target.Name, f.Key, f.Size)
	if err != nil {
		return err
	}

	body := func() (io.Reader, error) {
		file, err := os.Open(f.LocalPath)
		if err != nil {
			return nil, err
		}
		if u.progress == nil {
			return file, nil
		}
		return struct {
			io.Reader
			io.Closer
		}{io.TeeReader(file, u.progress), file}, nil
	}

	method := presigned.Method
	if method == "" {
		method = http.MethodPut
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, presigned.URL, retryablehttp.ReaderFunc(body))
	if err != nil {
		return err
	}
	req.ContentLength = f.Size
	for name, values := range presigned.Header {
		if http.CanonicalHeaderKey(name) == "Host" || http.CanonicalHeaderKey(name) == "Content-Length" {
			continue
		}
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrUploadFailed, resp.StatusCode)
	}
	return nil
}
