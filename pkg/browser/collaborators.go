package browser

import (
	"context"

	"github.com/sgaunet/dsxplorer/pkg/dataset"
	"github.com/sgaunet/dsxplorer/pkg/dto"
)

// ListRequest asks for one page of the content of a dataset.
type ListRequest struct {
	Type        dataset.Type
	Scope       string
	DatasetName string
	Prefix      string
	NextToken   string
	PageSize    int
}

// Lister fetches one page of dataset contents.
type Lister interface {
	ListDatasetContents(ctx context.Context, req ListRequest) (dto.DatasetContents, error)
}

// Catalog lists the datasets visible to the current user.
type Catalog interface {
	ListDatasets(ctx context.Context) ([]dataset.Dataset, error)
}

// CatalogFunc adapts a function to the Catalog interface.
type CatalogFunc func(ctx context.Context) ([]dataset.Dataset, error)

// ListDatasets calls f.
func (f CatalogFunc) ListDatasets(ctx context.Context) ([]dataset.Dataset, error) {
	return f(ctx)
}

// FilterCatalog restricts a catalog to the datasets visible to the identity.
func FilterCatalog(c Catalog, id Identity) Catalog {
	return CatalogFunc(func(ctx context.Context) ([]dataset.Dataset, error) {
		datasets, err := c.ListDatasets(ctx)
		if err != nil {
			return nil, err
		}
		return dataset.FilterVisible(datasets, PrincipalOf(id)), nil
	})
}

// Identity gives access to the current user.
type Identity interface {
	Username() string
	Project() string
	Groups() []string
}

// StaticIdentity is an Identity with fixed values.
type StaticIdentity struct {
	Principal dataset.Principal
}

func (i StaticIdentity) Username() string { return i.Principal.Username }
func (i StaticIdentity) Project() string  { return i.Principal.Project }
func (i StaticIdentity) Groups() []string { return i.Principal.Groups }

// PrincipalOf converts an Identity.
func PrincipalOf(id Identity) dataset.Principal {
	if id == nil {
		return dataset.Principal{}
	}
	return dataset.Principal{Username: id.Username(), Project: id.Project(), Groups: id.Groups()}
}

// Severity of a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier receives user visible messages.
type Notifier interface {
	Notify(message string, severity Severity)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string, severity Severity)

// Notify calls f.
func (f NotifierFunc) Notify(message string, severity Severity) {
	f(message, severity)
}
