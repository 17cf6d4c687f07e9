package app

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/health"
	"github.com/sgaunet/dsxplorer/pkg/views"
)

// IndexHandler renders the browser of the session once its listing is done.
func (s *App) IndexHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.browser.Wait()
	s.renderBrowser(w, r, sess)
}

func (s *App) renderBrowser(w http.ResponseWriter, r *http.Request, sess *session) {
	page := views.BrowsePage{
		State:     sess.browser.State(),
		Table:     sess.browser.Table(),
		Notices:   sess.takeNotices(),
		Selection: sess.currentSelection(),
		CanUpload: s.cfg.S3.EnableUpload && s.deps.Files != nil,
		CanDelete: s.cfg.S3.EnableDelete && s.deps.Files != nil,
		Health:    health.NewReport(s.deps.Monitors...).Checks,
	}
	s.views.Render(w, r, http.StatusOK, views.Layout(page.Table.Title, views.Browse(page)))
}

// backToBrowser redirects to the browser page after a transition.
func backToBrowser(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ResourceHandler moves the browser to the storage URI given in uri.
func (s *App) ResourceHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.browser.SetResource(r.URL.Query().Get("uri"))
	backToBrowser(w, r)
}

// HrefHandler follows a breadcrumb.
func (s *App) HrefHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if err := sess.browser.NavigateHref(r.URL.Query().Get("h")); err != nil {
		s.log.Warn("invalid breadcrumb", slog.String("error", err.Error()))
		s.views.HandlerError(w, r, http.StatusBadRequest, "Invalid breadcrumb")
		return
	}
	backToBrowser(w, r)
}

// OpenHandler follows the row at the index of the path.
func (s *App) OpenHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		s.views.HandlerError(w, r, http.StatusBadRequest, "Invalid row")
		return
	}
	if _, err := sess.browser.OpenRow(index); err != nil {
		if errors.Is(err, browser.ErrRowOutOfRange) {
			s.views.HandlerError(w, r, http.StatusNotFound, err.Error())
			return
		}
		s.views.HandlerError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	backToBrowser(w, r)
}

// FilterHandler applies the filter text q.
func (s *App) FilterHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.browser.SetFilterText(r.URL.Query().Get("q"))
	backToBrowser(w, r)
}

// PageHandler moves to the requested page.
func (s *App) PageHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	page, err := ParsePaginationParams(r)
	if err != nil {
		s.views.HandlerError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	sess.browser.SetPage(page)
	backToBrowser(w, r)
}

// PageSizeHandler changes the number of rows per page.
func (s *App) PageSizeHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	size, err := ParsePageSize(r)
	if err != nil {
		s.views.HandlerError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	sess.browser.SetPageSize(size)
	backToBrowser(w, r)
}

// SelectHandler replaces the selection with the checked rows.
func (s *App) SelectHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	indexes, err := parseIndexes(r)
	if err != nil {
		s.views.HandlerError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	sess.browser.Select(indexes)
	backToBrowser(w, r)
}

// RefreshHandler reloads the current location.
func (s *App) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.browser.Refresh()
	backToBrowser(w, r)
}

// HealthCheckHandler provides overall application health status.
func (s *App) HealthCheckHandler(w http.ResponseWriter, _ *http.Request) {
	report := health.NewReport(s.deps.Monitors...)

	statusCode := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		s.log.Error("Failed to encode health response", slog.String("error", err.Error()))
	}
}
