package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/dsxplorer/pkg/dataset"
)

func TestResolveMode(t *testing.T) {
	assert.Equal(t, ModeScope, ResolveMode(nil))
	assert.Equal(t, ModeScope, ResolveMode(&dataset.Context{}))
	assert.Equal(t, ModeDataset, ResolveMode(&dataset.Context{Type: dataset.TypePrivate}))
	assert.Equal(t, ModeResource, ResolveMode(&dataset.Context{Type: dataset.TypePrivate, Name: "x"}))
	assert.Equal(t, "resource", ModeResource.String())
}

func TestTableConfigForScope(t *testing.T) {
	s := NewState(10, false, false)
	s = Derive(Reduce(s, SetState{Items: Ptr(ScopeItems())}))

	cfg := TableConfigFor(ModeScope, s, []ItemKind{KindScope, KindDataset, KindObject, KindPrefix})
	require.Len(t, cfg.Rows, 4)
	for i, typ := range dataset.Types() {
		row := cfg.Rows[i]
		assert.False(t, row.Selectable, "scope rows are never selectable")
		assert.Equal(t, &dataset.Context{Type: typ}, row.Target)
		assert.Equal(t, []string{TypeLabel(typ)}, row.Cells)
	}
}

func TestTableConfigForDataset(t *testing.T) {
	s := NewState(10, false, false)
	s = Reduce(s, SetContext{Context: &dataset.Context{Type: dataset.TypeProject}})
	s = Derive(Reduce(s, SetState{Items: &[]Item{
		ItemFromDataset(dataset.Dataset{Name: "ds", Type: dataset.TypeProject, Scope: "p1", Description: "d"}),
	}}))

	cfg := TableConfigFor(ModeDataset, s, []ItemKind{KindDataset})
	require.Len(t, cfg.Rows, 1)
	assert.True(t, cfg.Rows[0].Selectable)
	assert.Equal(t, &dataset.Context{Type: dataset.TypeProject, Scope: "p1", Name: "ds"}, cfg.Rows[0].Target)
	assert.Equal(t, []string{"ds", "p1", "d"}, cfg.Rows[0].Cells)
	assert.Equal(t, "Project datasets", cfg.Title)

	cfg = TableConfigFor(ModeDataset, s, nil)
	assert.False(t, cfg.Rows[0].Selectable)
}

func TestTableConfigForResource(t *testing.T) {
	size := int64(2048)
	modified := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	ctx := &dataset.Context{Type: dataset.TypeGlobal, Name: "ds", Location: "a/"}

	s := NewState(1, false, false)
	s = Reduce(s, SetContext{Context: ctx})
	s = Derive(Reduce(s, SetState{Items: &[]Item{
		ItemFromResource(dataset.Resource{Type: dataset.ResourcePrefix, Prefix: "global/datasets/ds/a/b/"}, "bucket"),
		ItemFromResource(dataset.Resource{Type: dataset.ResourceObject, Key: "global/datasets/ds/a/f.bin", Size: &size, LastModified: &modified}, "bucket"),
	}}))

	cfg := TableConfigFor(ModeResource, s, []ItemKind{KindObject})
	require.Len(t, cfg.Rows, 1, "one row per page")
	prefixRow := cfg.Rows[0]
	assert.Equal(t, 0, prefixRow.Index)
	assert.Equal(t, "b/", prefixRow.Item.Name)
	assert.False(t, prefixRow.Selectable)
	assert.Equal(t, &dataset.Context{Type: dataset.TypeGlobal, Name: "ds", Location: "a/b/"}, prefixRow.Target)
	assert.Equal(t, []string{"b/", "prefix", "-", "-"}, prefixRow.Cells)

	s = Derive(Reduce(s, SetPagination{CurrentPageIndex: Ptr(2)}))
	cfg = TableConfigFor(ModeResource, s, []ItemKind{KindObject})
	require.Len(t, cfg.Rows, 1)
	objectRow := cfg.Rows[0]
	assert.Equal(t, 1, objectRow.Index)
	assert.Nil(t, objectRow.Target, "objects are terminal")
	assert.True(t, objectRow.Selectable)
	assert.Equal(t, []string{"f.bin", "object", "2.0 KiB", "2024-03-01 10:30:00"}, objectRow.Cells)
}

func TestSelectionURI(t *testing.T) {
	assert.Equal(t, "s3://bucket/global/datasets/ds/f", SelectionURI("s3", Item{Kind: KindObject, Bucket: "bucket", Key: "global/datasets/ds/f"}))
	assert.Equal(t, "s3://bucket/global/datasets/ds/a/", SelectionURI("s3", Item{Kind: KindPrefix, Bucket: "bucket", Prefix: "global/datasets/ds/a/"}))
	assert.Equal(t, "s3://b/global/datasets/ds/", SelectionURI("s3", Item{Kind: KindDataset, Location: "s3://b/global/datasets/ds/"}))
	assert.Empty(t, SelectionURI("s3", Item{Kind: KindScope}))
}
