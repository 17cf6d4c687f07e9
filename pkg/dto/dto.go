// Package dto provides the data transfer objects exchanged over the JSON API.
package dto

import (
	"net/http"

	"github.com/sgaunet/dsxplorer/pkg/dataset"
)

// DatasetContents is one page of a dataset listing.
type DatasetContents struct {
	Bucket    string             `json:"bucket"`
	Prefix    string             `json:"prefix"`
	NextToken string             `json:"nextToken,omitempty"`
	Contents  []dataset.Resource `json:"contents"`
}

// DatasetList is the response of the dataset listing endpoint.
type DatasetList struct {
	Datasets []dataset.Dataset `json:"datasets"`
}

// DeleteRequest lists the dataset-relative keys to remove from a dataset.
type DeleteRequest struct {
	Keys []string `json:"keys" validate:"required,min=1,max=1000,dive,required"`
}

// DeleteResponse reports how many files were removed.
type DeleteResponse struct {
	Deleted int `json:"deleted"`
}

// PresignRequest asks for an upload URL of a dataset-relative key.
type PresignRequest struct {
	Key  string `json:"key" validate:"required"`
	Size int64  `json:"size" validate:"min=0"`
}

// PresignedUpload is a presigned PUT request.
type PresignedUpload struct {
	URL    string      `json:"url"`
	Method string      `json:"method"`
	Header http.Header `json:"header"`
}

// ErrorResponse is the body returned with non-2xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}
