package app

import (
	"net/http"

	"github.com/sgaunet/dsxplorer/pkg/views"
)

const datasetPath = "/api/v1/datasets/{type}/{scope}/{name}"

// initRouter initializes the router of the App
func (s *App) initRouter() {
	s.router.PathPrefix("/static").Handler(s.views.GetStaticHandler())
	s.router.HandleFunc("/favicon.ico", views.FaviconHandler)
	s.router.HandleFunc("/health", s.HealthCheckHandler).Methods(http.MethodGet)

	s.router.HandleFunc("/", s.IndexHandler).Methods(http.MethodGet)
	browse := s.router.PathPrefix("/browse").Subrouter()
	browse.HandleFunc("/resource", s.ResourceHandler).Methods(http.MethodGet)
	browse.HandleFunc("/href", s.HrefHandler).Methods(http.MethodGet)
	browse.HandleFunc("/open/{index:[0-9]+}", s.OpenHandler).Methods(http.MethodGet)
	browse.HandleFunc("/filter", s.FilterHandler).Methods(http.MethodGet)
	browse.HandleFunc("/page", s.PageHandler).Methods(http.MethodGet)
	browse.HandleFunc("/pagesize", s.PageSizeHandler).Methods(http.MethodGet)
	browse.HandleFunc("/select", s.SelectHandler).Methods(http.MethodPost)
	browse.HandleFunc("/refresh", s.RefreshHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/datasets/upload", s.UploadHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/datasets/delete", s.DeleteHandler).Methods(http.MethodPost)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/datasets", s.ListDatasetsAPI).Methods(http.MethodGet)
	api.HandleFunc("/browser", s.BrowserStateAPI).Methods(http.MethodGet)
	s.router.HandleFunc(datasetPath+"/files", s.ListFilesAPI).Methods(http.MethodGet)
	s.router.HandleFunc(datasetPath+"/files", s.DeleteFilesAPI).Methods(http.MethodDelete)
	s.router.HandleFunc(datasetPath+"/uploads", s.PresignUploadAPI).Methods(http.MethodPost)

	s.srv.Handler = s.router
}
