package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/dataset"
	"github.com/sgaunet/dsxplorer/pkg/dto"
	"github.com/sgaunet/dsxplorer/pkg/s3svc"
)

var (
	// ErrUnknownType is returned for a dataset type that is not known.
	ErrUnknownType = errors.New("unknown dataset type")
	// ErrForbidden is returned for datasets that are not visible to the user.
	ErrForbidden = errors.New("dataset not visible")
	// ErrFeatureDisabled is returned when upload or delete is disabled.
	ErrFeatureDisabled = errors.New("feature disabled")
	// ErrInvalidBody is returned for request bodies that cannot be decoded.
	ErrInvalidBody = errors.New("invalid request body")
)

var validate = validator.New()

// filesQuery is the query of the dataset file listing.
type filesQuery struct {
	Prefix    string `validate:"omitempty,excludes=..,startsnotwith=/"`
	NextToken string `validate:"max=1024"`
	PageSize  int    `validate:"min=0,max=1000"`
}

// browserResponse is the session state returned by the browser endpoint.
type browserResponse struct {
	Mode      string        `json:"mode"`
	State     browser.State `json:"state"`
	Selection string        `json:"selection,omitempty"`
}

// ListDatasetsAPI returns the datasets visible to the configured identity.
func (s *App) ListDatasetsAPI(w http.ResponseWriter, r *http.Request) {
	datasets, err := browser.FilterCatalog(s.deps.Catalog, s.identity).ListDatasets(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.DatasetList{Datasets: datasets})
}

// ListFilesAPI returns one page of the content of a dataset.
func (s *App) ListFilesAPI(w http.ResponseWriter, r *http.Request) {
	t, scope, name, err := s.datasetVars(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	query := filesQuery{
		Prefix:    r.URL.Query().Get("prefix"),
		NextToken: r.URL.Query().Get("nextToken"),
	}
	if v := r.URL.Query().Get("pageSize"); v != "" {
		if query.PageSize, err = strconv.Atoi(v); err != nil {
			s.writeError(w, fmt.Errorf("%w: pageSize: %w", ErrInvalidBody, err))
			return
		}
	}
	if err := validate.Struct(query); err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.deps.Lister.ListDatasetContents(r.Context(), browser.ListRequest{
		Type:        t,
		Scope:       scope,
		DatasetName: name,
		Prefix:      query.Prefix,
		NextToken:   query.NextToken,
		PageSize:    query.PageSize,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// DeleteFilesAPI removes files of a dataset.
func (s *App) DeleteFilesAPI(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.S3.EnableDelete || s.deps.Files == nil {
		s.writeError(w, ErrFeatureDisabled)
		return
	}
	t, scope, name, err := s.datasetVars(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req dto.DeleteRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	deleted, err := s.deps.Files.DeleteDatasetFiles(r.Context(), t, scope, name, req.Keys)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("files deleted", slog.String("dataset", name), slog.Int("count", deleted))
	s.writeJSON(w, http.StatusOK, dto.DeleteResponse{Deleted: deleted})
}

// PresignUploadAPI returns a presigned upload of a dataset file.
func (s *App) PresignUploadAPI(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.S3.EnableUpload || s.deps.Files == nil {
		s.writeError(w, ErrFeatureDisabled)
		return
	}
	t, scope, name, err := s.datasetVars(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req dto.PresignRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	up, err := s.deps.Files.PresignDatasetUpload(r.Context(), t, scope, name, req.Key, req.Size)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, up)
}

// BrowserStateAPI returns the browser state of the session.
func (s *App) BrowserStateAPI(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.browser.Wait()
	st := sess.browser.State()
	s.writeJSON(w, http.StatusOK, browserResponse{
		Mode:      st.Mode().String(),
		State:     st,
		Selection: sess.currentSelection(),
	})
}

// datasetVars reads the dataset of the path and checks it is visible.
// The scope of global datasets is the type itself.
func (s *App) datasetVars(r *http.Request) (dataset.Type, string, string, error) {
	vars := mux.Vars(r)
	t := dataset.Type(vars["type"])
	if !t.Known() {
		return "", "", "", fmt.Errorf("%w: %q", ErrUnknownType, vars["type"])
	}
	scope := vars["scope"]
	if t == dataset.TypeGlobal {
		scope = string(dataset.TypeGlobal)
	}
	name := vars["name"]
	if !dataset.Visible(dataset.Dataset{Type: t, Scope: scope, Name: name}, browser.PrincipalOf(s.identity)) {
		return "", "", "", fmt.Errorf("%w: %s/%s/%s", ErrForbidden, t, scope, name)
	}
	return t, scope, name, nil
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	if err := validate.Struct(v); err != nil {
		return err
	}
	return nil
}

// statusFor maps an error to the HTTP status returned to the client.
func statusFor(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrUnknownType),
		errors.Is(err, ErrNoDataset),
		errors.Is(err, ErrNoFileUploaded),
		errors.Is(err, ErrNoFilesSelected),
		errors.Is(err, ErrInvalidFileName),
		errors.Is(err, ErrParseUploadRequest),
		errors.Is(err, ErrInvalidIndex),
		errors.Is(err, s3svc.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrFeatureDisabled):
		return http.StatusForbidden
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, s3svc.ErrNoPresigner):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *App) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("api request failed", slog.String("error", err.Error()))
	} else {
		s.log.Debug("api request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	}
	s.writeJSON(w, status, dto.ErrorResponse{Error: err.Error()})
}

func (s *App) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("Failed to encode response", slog.String("error", err.Error()))
	}
}
