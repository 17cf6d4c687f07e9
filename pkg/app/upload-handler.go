package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/dataset"
)

const (
	// MaxUploadSize is the maximum file size allowed (100 MB).
	MaxUploadSize = 100 * 1024 * 1024 // 100 MB
)

var (
	// ErrParseUploadRequest indicates failure to parse the upload form.
	ErrParseUploadRequest = errors.New("failed to parse upload request")
	// ErrNoFileUploaded indicates no file was provided in the upload request.
	ErrNoFileUploaded = errors.New("no file uploaded")
	// ErrFileTooLarge indicates the uploaded file exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrInvalidFileName indicates a file name that cannot be used as a key.
	ErrInvalidFileName = errors.New("invalid file name")
	// ErrNoDataset indicates the browser is not inside a dataset.
	ErrNoDataset = errors.New("no dataset is browsed")
)

// UploadHandler uploads files into the browsed dataset location.
func (s *App) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.S3.EnableUpload || s.deps.Files == nil {
		s.log.Warn("Upload attempt when feature is disabled")
		s.views.HandlerError(w, r, http.StatusForbidden, "Upload functionality is disabled")
		return
	}

	sess := s.session(w, r)
	if err := s.processUpload(r.Context(), sess, r); err != nil {
		s.views.HandlerError(w, r, statusFor(err), err.Error())
		return
	}
	backToBrowser(w, r)
}

// processUpload handles the actual upload processing logic.
func (s *App) processUpload(ctx context.Context, sess *session, r *http.Request) error {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		s.log.Error("Failed to parse multipart form", slog.String("error", err.Error()))
		return ErrParseUploadRequest
	}

	target, scope, err := s.browsedDataset(sess)
	if err != nil {
		return err
	}

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		return ErrNoFileUploaded
	}

	folder := dataset.KeyPrefix(target.Type, scope, target.Name) + dataset.PrefixForPath(target.Location)
	for _, header := range headers {
		if err := s.uploadPart(ctx, folder, header); err != nil {
			return err
		}
	}

	if s.deps.Recorder != nil {
		ds := dataset.Dataset{Name: target.Name, Type: target.Type, Scope: scope}
		ds.Location = dataset.Encode(s.cfg.S3.Scheme, s.cfg.S3.Bucket, &dataset.Context{Type: target.Type, Scope: scope, Name: target.Name})
		// the upload succeeded, a catalog failure is only logged
		if err := s.deps.Recorder.SyncUploadedDataset(ctx, ds); err != nil {
			s.log.Error("Failed to sync upload to database", slog.String("error", err.Error()))
		}
	}

	sess.notify(fmt.Sprintf("Uploaded %d file(s) to %s", len(headers), target.Name), browser.SeverityInfo)
	sess.browser.Refresh()
	return nil
}

func (s *App) uploadPart(ctx context.Context, folder string, header *multipart.FileHeader) error {
	if header.Size > MaxUploadSize {
		const bytesPerMB = 1024 * 1024
		return fmt.Errorf("%w (max %d MB)", ErrFileTooLarge, MaxUploadSize/bytesPerMB)
	}

	name := path.Base(filepath.ToSlash(header.Filename))
	if name == "." || name == "/" || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidFileName, header.Filename)
	}

	file, err := header.Open()
	if err != nil {
		s.log.Error("Failed to get uploaded file", slog.String("error", err.Error()))
		return ErrNoFileUploaded
	}
	defer file.Close() //nolint:errcheck

	key := folder + name
	contentType := detectContentType(header)
	s.log.Info("Upload request",
		slog.String("key", key),
		slog.String("contentType", contentType),
		slog.Int64("size", header.Size))

	if err := s.deps.Files.UploadObject(ctx, key, file, contentType, header.Size); err != nil {
		s.log.Error("Failed to upload to S3", slog.String("error", err.Error()))
		return fmt.Errorf("upload failed: %w", err)
	}
	return nil
}

// browsedDataset returns the dataset context of the session and its
// resolved scope.
func (s *App) browsedDataset(sess *session) (*dataset.Context, string, error) {
	st := sess.browser.State()
	if st.Mode() != browser.ModeResource {
		return nil, "", ErrNoDataset
	}
	return st.Context, dataset.ResolveScope(st.Context, browser.PrincipalOf(s.identity)), nil
}

// detectContentType determines the content type from the file header.
func detectContentType(header *multipart.FileHeader) string {
	contentType := header.Header.Get("Content-Type")
	if contentType != "" {
		return contentType
	}

	// Fallback to detection based on file extension
	contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	if contentType != "" {
		return contentType
	}

	return "application/octet-stream"
}
