package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/dataset"
)

// ErrNoFilesSelected indicates no files were selected for deletion.
var ErrNoFilesSelected = errors.New("no files selected for deletion")

// DeleteHandler removes the selected files of the browsed dataset.
func (s *App) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.S3.EnableDelete || s.deps.Files == nil {
		s.log.Warn("Delete attempt when feature is disabled")
		s.views.HandlerError(w, r, http.StatusForbidden, "Delete functionality is disabled")
		return
	}

	sess := s.session(w, r)
	if err := s.processDelete(r.Context(), sess, r); err != nil {
		s.views.HandlerError(w, r, statusFor(err), err.Error())
		return
	}
	backToBrowser(w, r)
}

// processDelete handles the actual deletion processing logic.
func (s *App) processDelete(ctx context.Context, sess *session, r *http.Request) error {
	indexes, err := parseIndexes(r)
	if err != nil {
		return err
	}
	target, scope, err := s.browsedDataset(sess)
	if err != nil {
		return err
	}

	sess.browser.Select(indexes)
	keys := selectedKeys(sess.browser.State().SelectedItems, dataset.KeyPrefix(target.Type, scope, target.Name))
	if len(keys) == 0 {
		return ErrNoFilesSelected
	}

	s.log.Info("Delete request",
		slog.String("dataset", target.Name),
		slog.Int("count", len(keys)))

	deleted, err := s.deps.Files.DeleteDatasetFiles(ctx, target.Type, scope, target.Name, keys)
	if err != nil {
		s.log.Error("Failed to delete from S3", slog.String("error", err.Error()))
		return fmt.Errorf("delete failed: %w", err)
	}

	sess.notify(fmt.Sprintf("Deleted %d file(s) from %s", deleted, target.Name), browser.SeverityInfo)
	sess.browser.Refresh()
	return nil
}

// selectedKeys returns the selected objects as keys relative to the dataset
// root. Prefixes are not deleted recursively.
func selectedKeys(items []browser.Item, root string) []string {
	keys := make([]string, 0, len(items))
	for _, it := range items {
		if it.Kind != browser.KindObject || !strings.HasPrefix(it.Key, root) {
			continue
		}
		keys = append(keys, strings.TrimPrefix(it.Key, root))
	}
	return keys
}
