package browser

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sgaunet/dsxplorer/pkg/dataset"
)

// UploadFile is a local file queued in manage mode. Key is relative to the
// dataset root.
type UploadFile struct {
	Type      dataset.ResourceType `json:"type"`
	Key       string               `json:"key"`
	Name      string               `json:"name"`
	Size      int64                `json:"size"`
	LocalPath string               `json:"file"`
}

// LocalFile is a file picked on the local disk. RelPath is its path relative
// to the browsed location, the base name of LocalPath when empty.
type LocalFile struct {
	LocalPath string
	RelPath   string
	Size      int64
}

// AddLocalFiles queues local files under the browsed location. A file whose
// key is already queued replaces it.
func (b *Browser) AddLocalFiles(files []LocalFile) {
	b.update(func() bool {
		location := ""
		if b.state.Context != nil {
			location = dataset.PrefixForPath(b.state.Context.Location)
		}
		for _, f := range files {
			rel := f.RelPath
			if rel == "" {
				rel = filepath.Base(f.LocalPath)
			}
			rel = strings.TrimPrefix(filepath.ToSlash(rel), "/")
			if rel == "" || rel == "." {
				continue
			}
			key := location + rel
			file := UploadFile{
				Type:      dataset.ResourceObject,
				Key:       key,
				Name:      dataset.ResourceForPath(key),
				Size:      f.Size,
				LocalPath: f.LocalPath,
			}
			i := slices.IndexFunc(b.localFiles, func(u UploadFile) bool { return u.Key == key })
			if i >= 0 {
				b.localFiles[i] = file
			} else {
				b.localFiles = append(b.localFiles, file)
			}
		}
		b.refreshLocalLocked()
		return true
	})
}

// RemoveSelected drops the selected local files. A selected directory drops
// every file below it.
func (b *Browser) RemoveSelected() {
	b.update(func() bool {
		selected := b.state.SelectedItems
		b.localFiles = slices.DeleteFunc(b.localFiles, func(u UploadFile) bool {
			return slices.ContainsFunc(selected, func(it Item) bool {
				switch it.Kind {
				case KindObject:
					return it.Key == u.Key
				case KindPrefix:
					return strings.HasPrefix(u.Key, it.Prefix)
				}
				return false
			})
		})
		b.state = Reduce(b.state, SetState{SelectedItems: &[]Item{}})
		b.refreshLocalLocked()
		return true
	})
}

// UploadFiles returns the queued files sorted by key, shaped for the upload
// collaborator.
func (b *Browser) UploadFiles() []UploadFile {
	b.mu.Lock()
	defer b.mu.Unlock()
	files := slices.Clone(b.localFiles)
	slices.SortFunc(files, func(x, y UploadFile) int { return cmp.Compare(x.Key, y.Key) })
	return files
}

// ClearLocalFiles empties the upload queue.
func (b *Browser) ClearLocalFiles() {
	b.update(func() bool {
		b.localFiles = nil
		b.refreshLocalLocked()
		return true
	})
}

func (b *Browser) refreshLocalLocked() {
	if b.state.ManageMode && b.state.Mode() == ModeResource {
		b.state = Reduce(b.state, SetState{Items: Ptr(b.localItemsLocked())})
	}
}

// localItemsLocked lists the queued files as a virtual directory at the
// browsed location: direct children are objects, deeper files are grouped
// into prefixes.
func (b *Browser) localItemsLocked() []Item {
	location := ""
	if b.state.Context != nil {
		location = dataset.PrefixForPath(b.state.Context.Location)
	}

	items := []Item{}
	seen := map[string]bool{}
	for _, f := range b.localFiles {
		rest, ok := strings.CutPrefix(f.Key, location)
		if !ok || rest == "" {
			continue
		}
		if dir, _, nested := strings.Cut(rest, "/"); nested {
			prefix := location + dir + "/"
			if !seen[prefix] {
				seen[prefix] = true
				items = append(items, Item{Kind: KindPrefix, Name: dir + "/", Prefix: prefix})
			}
			continue
		}
		size := f.Size
		items = append(items, Item{
			Kind:      KindObject,
			Name:      rest,
			Key:       f.Key,
			Size:      &size,
			LocalPath: f.LocalPath,
		})
	}

	slices.SortStableFunc(items, func(x, y Item) int {
		if x.Kind != y.Kind {
			if x.Kind == KindPrefix {
				return -1
			}
			return 1
		}
		return cmp.Compare(x.Name, y.Name)
	})
	return items
}
