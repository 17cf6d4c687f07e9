// Package restclient talks to the JSON API of a dsxplorer server. It serves the
// browser listing and catalog through HTTP instead of direct bucket access.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/config"
	"github.com/sgaunet/dsxplorer/pkg/dataset"
	"github.com/sgaunet/dsxplorer/pkg/dto"
)

var (
	// ErrMissingBaseURL is returned when no API base URL is configured.
	ErrMissingBaseURL = errors.New("missing API base URL")
	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

const (
	defaultRetryWaitMin = 500 * time.Millisecond
	defaultRetryWaitMax = 10 * time.Second
)

// Client is an HTTP client of the dsxplorer API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retryLog   *RetryLogger
	log        *slog.Logger
}

// Option customizes the retrying client.
type Option func(*retryablehttp.Client)

// WithRetryWait sets the bounds of the backoff between two attempts.
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(c *retryablehttp.Client) {
		c.RetryWaitMin = minWait
		c.RetryWaitMax = maxWait
	}
}

// New creates a client of the API at cfg.BaseURL.
func New(cfg config.APIConfig, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	discard := slog.New(slog.DiscardHandler)
	adapter := &RetryLogger{log: discard}

	retryClient := NewRetryClient(cfg.RetryMax, adapter)
	for _, opt := range opts {
		opt(retryClient)
	}

	return &Client{
		httpClient: retryClient.StandardClient(),
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		retryLog:   adapter,
		log:        discard,
	}, nil
}

// NewRetryClient returns a retrying client logging its retries to log. The
// last response is returned as is once retries are exhausted.
func NewRetryClient(retryMax int, log retryablehttp.LeveledLogger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = retryMax
	c.RetryWaitMin = defaultRetryWaitMin
	c.RetryWaitMax = defaultRetryWaitMax
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.Logger = log
	return c
}

// SetLogger sets the logger
func (c *Client) SetLogger(log *slog.Logger) {
	c.log = log
	c.retryLog.log = log
}

// ListDatasets returns the datasets visible to the API user.
func (c *Client) ListDatasets(ctx context.Context) ([]dataset.Dataset, error) {
	var list dto.DatasetList
	if err := c.do(ctx, http.MethodGet, "/api/v1/datasets", nil, nil, &list); err != nil {
		return nil, fmt.Errorf("ListDatasets: %w", err)
	}
	return list.Datasets, nil
}

// ListDatasetContents fetches one page of the content of a dataset.
func (c *Client) ListDatasetContents(ctx context.Context, req browser.ListRequest) (dto.DatasetContents, error) {
	query := url.Values{}
	if req.Prefix != "" {
		query.Set("prefix", req.Prefix)
	}
	if req.NextToken != "" {
		query.Set("nextToken", req.NextToken)
	}
	if req.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(req.PageSize))
	}

	var res dto.DatasetContents
	err := c.do(ctx, http.MethodGet, filesPath(req.Type, req.Scope, req.DatasetName), query, nil, &res)
	if err != nil {
		return dto.DatasetContents{}, fmt.Errorf("ListDatasetContents: %w", err)
	}
	return res, nil
}

// DeleteDatasetFiles removes dataset-relative keys from a dataset.
func (c *Client) DeleteDatasetFiles(ctx context.Context, t dataset.Type, scope, name string, keys []string) (int, error) {
	var res dto.DeleteResponse
	err := c.do(ctx, http.MethodDelete, filesPath(t, scope, name), nil, dto.DeleteRequest{Keys: keys}, &res)
	if err != nil {
		return 0, fmt.Errorf("DeleteDatasetFiles: %w", err)
	}
	return res.Deleted, nil
}

// PresignDatasetUpload asks the server for an upload URL of a dataset file.
func (c *Client) PresignDatasetUpload(ctx context.Context, t dataset.Type, scope, name, key string, size int64) (dto.PresignedUpload, error) {
	var res dto.PresignedUpload
	path := datasetPath(t, scope, name) + "/uploads"
	if err := c.do(ctx, http.MethodPost, path, nil, dto.PresignRequest{Key: key, Size: size}, &res); err != nil {
		return dto.PresignedUpload{}, fmt.Errorf("PresignDatasetUpload: %w", err)
	}
	return res, nil
}

func datasetPath(t dataset.Type, scope, name string) string {
	if scope == "" {
		scope = string(t)
	}
	return "/api/v1/datasets/" + url.PathEscape(string(t)) + "/" + url.PathEscape(scope) + "/" + url.PathEscape(name)
}

func filesPath(t dataset.Type, scope, name string) string {
	return datasetPath(t, scope, name) + "/files"
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("api request", slog.String("method", method), slog.String("url", target))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var body dto.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, body.Error)
	}
	return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
}
