package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/config"
	"github.com/sgaunet/dsxplorer/pkg/dataset"
	"github.com/sgaunet/dsxplorer/pkg/dbinit"
	"github.com/sgaunet/dsxplorer/pkg/dbsvc"
	"github.com/sgaunet/dsxplorer/pkg/restclient"
	"github.com/sgaunet/dsxplorer/pkg/s3svc"
	"github.com/sgaunet/dsxplorer/pkg/upload"
)

// ErrCatalogDisabled is returned by the commands that need the catalog
// database when none is configured.
var ErrCatalogDisabled = errors.New("no catalog database configured")

// services are the backends of one command. Either the bucket is accessed
// directly (s3 and, optionally, catalog are set) or through the API of a
// dsxplorer server (api is set).
type services struct {
	cfg     config.Config
	s3      *s3svc.Service
	db      *sql.DB
	catalog *dbsvc.Service
	api     *restclient.Client
	log     *slog.Logger
}

// newServices connects the backends. With withCatalog the catalog database
// is opened and migrated when configured.
func newServices(ctx context.Context, cfg config.Config, log *slog.Logger, withCatalog bool) (*services, error) {
	svc := &services{cfg: cfg, log: log}

	if cfg.API.BaseURL != "" {
		api, err := restclient.New(cfg.API)
		if err != nil {
			return nil, err
		}
		api.SetLogger(log)
		svc.api = api
		log.Debug("using dsxplorer API", slog.String("url", cfg.API.BaseURL))
		return svc, nil
	}

	client, err := s3svc.NewClient(ctx, cfg.S3, log)
	if err != nil {
		return nil, fmt.Errorf("newServices: %w", err)
	}
	svc.s3 = s3svc.NewS3Svc(cfg.S3, client)
	svc.s3.SetLogger(log)

	if withCatalog && cfg.CatalogEnabled() {
		db, err := dbinit.Open(ctx, cfg.Database.URL, log)
		if err != nil {
			return nil, fmt.Errorf("newServices: %w", err)
		}
		svc.db = db
		svc.catalog = dbsvc.NewService(cfg, db)
		svc.catalog.SetLogger(log)
	}
	return svc, nil
}

func (s *services) close() {
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		s.log.Error("failed to close catalog", slog.String("error", err.Error()))
	}
}

func (s *services) lister() browser.Lister {
	if s.api != nil {
		return s.api
	}
	return s.s3
}

// datasets is the catalog of the browser: the API, the catalog database or,
// without database, the datasets discovered in the bucket.
func (s *services) datasets() browser.Catalog {
	switch {
	case s.api != nil:
		return s.api
	case s.catalog != nil:
		return s.catalog
	default:
		return browser.CatalogFunc(s.s3.DiscoverDatasets)
	}
}

func (s *services) presigner() upload.Presigner {
	if s.api != nil {
		return s.api
	}
	return s.s3
}

// recorder returns nil when uploads are not recorded in a catalog.
func (s *services) recorder() upload.Recorder {
	if s.catalog == nil {
		return nil
	}
	return s.catalog
}

func (s *services) identity() browser.Identity {
	return identityOf(s.cfg)
}

func identityOf(cfg config.Config) browser.Identity {
	return browser.StaticIdentity{Principal: dataset.Principal{
		Username: cfg.Identity.Username,
		Project:  cfg.Identity.Project,
		Groups:   cfg.Identity.Groups,
	}}
}

func browserConfig(cfg config.Config) browser.Config {
	return browser.Config{
		Scheme:       cfg.S3.Scheme,
		PageSize:     cfg.Browser.PageSize,
		ListPageSize: cfg.Browser.ListPageSize,
		Pinned:       cfg.Browser.Pinned,
		FetchTimeout: cfg.Browser.FetchTimeout,
		Selectable:   []browser.ItemKind{browser.KindDataset, browser.KindObject, browser.KindPrefix},
	}
}
