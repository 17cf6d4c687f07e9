// Package app is the HTTP server: the web browser pages and the JSON API.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/config"
	"github.com/sgaunet/dsxplorer/pkg/dataset"
	"github.com/sgaunet/dsxplorer/pkg/dto"
	"github.com/sgaunet/dsxplorer/pkg/health"
	"github.com/sgaunet/dsxplorer/pkg/views"
)

var (
	// ErrMissingLister is returned when the server has no listing service.
	ErrMissingLister = errors.New("missing dataset lister")
	// ErrMissingCatalog is returned when the server has no dataset catalog.
	ErrMissingCatalog = errors.New("missing dataset catalog")
)

const (
	readHeaderTimeout = 10 * time.Second
	sweepInterval     = time.Minute
)

// FileStore writes dataset files.
type FileStore interface {
	UploadObject(ctx context.Context, key string, body io.Reader, contentType string, size int64) error
	DeleteDatasetFiles(ctx context.Context, t dataset.Type, scope, name string, keys []string) (int, error)
	PresignDatasetUpload(ctx context.Context, t dataset.Type, scope, name, key string, size int64) (dto.PresignedUpload, error)
}

// Recorder is told about datasets that received files.
type Recorder interface {
	SyncUploadedDataset(ctx context.Context, ds dataset.Dataset) error
}

// Deps are the services the server relies on. Files, Recorder and Monitors
// are optional.
type Deps struct {
	Lister   browser.Lister
	Catalog  browser.Catalog
	Files    FileStore
	Recorder Recorder
	Monitors []*health.Monitor
}

type App struct {
	cfg      config.Config
	deps     Deps
	identity browser.Identity
	sessions *sessionStore
	router   *mux.Router
	views    *views.Views
	srv      *http.Server
	log      *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewApp creates the server. It does not listen until Start is called.
func NewApp(cfg config.Config, deps Deps) (*App, error) {
	if deps.Lister == nil {
		return nil, ErrMissingLister
	}
	if deps.Catalog == nil {
		return nil, ErrMissingCatalog
	}

	s := &App{
		cfg:      cfg,
		deps:     deps,
		identity: browser.StaticIdentity{Principal: dataset.Principal{Username: cfg.Identity.Username, Project: cfg.Identity.Project, Groups: cfg.Identity.Groups}},
		router:   mux.NewRouter().StrictSlash(true),
		views:    views.NewViews(),
		srv:      &http.Server{Addr: cfg.Server.Addr, ReadHeaderTimeout: readHeaderTimeout},
		log:      slog.New(slog.DiscardHandler),
	}
	s.sessions = newSessionStore(s.newBrowser, defaultSessionIdle)
	s.initRouter()
	return s, nil
}

// SetLogger sets the logger
func (s *App) SetLogger(log *slog.Logger) {
	s.log = log
	s.views.SetLogger(log)
	s.sessions.log = log
}

func (s *App) newBrowser(notifier browser.Notifier) *browser.Browser {
	b := browser.New(browser.Config{
		Scheme:       s.cfg.S3.Scheme,
		PageSize:     s.cfg.Browser.PageSize,
		ListPageSize: s.cfg.Browser.ListPageSize,
		Pinned:       s.cfg.Browser.Pinned,
		Selectable:   []browser.ItemKind{browser.KindDataset, browser.KindObject, browser.KindPrefix},
		FetchTimeout: s.cfg.Browser.FetchTimeout,
	}, s.deps.Lister, browser.FilterCatalog(s.deps.Catalog, s.identity), s.identity, notifier)
	b.SetLogger(s.log)
	return b
}

// Start listens on the configured address and sweeps idle sessions until
// StopServer is called.
func (s *App) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.sweepSessions(ctx)

	s.log.Info("listen", slog.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("Start: %w", err)
	}
	return nil
}

func (s *App) sweepSessions(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.sweep(); n > 0 {
				s.log.Debug("idle sessions closed", slog.Int("count", n))
			}
		}
	}
}

// StopServer shuts the server down and closes every session.
func (s *App) StopServer(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	s.sessions.closeAll()
	if err != nil {
		return fmt.Errorf("StopServer: %w", err)
	}
	return nil
}

func (s *App) Router() http.Handler {
	return s.router
}
