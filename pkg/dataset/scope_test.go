package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sgaunet/dsxplorer/pkg/dataset"
)

func TestResolveScope(t *testing.T) {
	p := dataset.Principal{Username: "jdoe", Project: "p1", Groups: []string{"team"}}

	assert.Equal(t, "", dataset.ResolveScope(nil, p))
	assert.Equal(t, "jdoe", dataset.ResolveScope(&dataset.Context{Type: dataset.TypePrivate, Scope: "other"}, p))
	assert.Equal(t, "p1", dataset.ResolveScope(&dataset.Context{Type: dataset.TypeProject}, p))
	// the scope of a project context is ignored, listings stay in the current project
	assert.Equal(t, "p1", dataset.ResolveScope(&dataset.Context{Type: dataset.TypeProject, Scope: "p2"}, p))
	assert.Equal(t, "", dataset.ResolveScope(&dataset.Context{Type: dataset.TypeProject, Scope: "p2"}, dataset.Principal{Username: "jdoe"}))
	assert.Equal(t, "global", dataset.ResolveScope(&dataset.Context{Type: dataset.TypeGlobal}, p))
	assert.Equal(t, "team", dataset.ResolveScope(&dataset.Context{Type: dataset.TypeGroup, Scope: "team"}, p))
	assert.Equal(t, "group", dataset.ResolveScope(&dataset.Context{Type: dataset.TypeGroup}, p))
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "global/datasets/ds/", dataset.KeyPrefix(dataset.TypeGlobal, "global", "ds"))
	assert.Equal(t, "private/jdoe/datasets/ds/", dataset.KeyPrefix(dataset.TypePrivate, "jdoe", "ds"))
	assert.Equal(t, "project/datasets/", dataset.TypePrefix(dataset.TypeProject, ""))
	assert.Equal(t, "group/team/datasets/", dataset.TypePrefix(dataset.TypeGroup, "team"))
}

func TestFilterVisible(t *testing.T) {
	p := dataset.Principal{Username: "jdoe", Project: "p1", Groups: []string{"team"}}
	all := []dataset.Dataset{
		{Name: "g", Type: dataset.TypeGlobal, Scope: "global"},
		{Name: "mine", Type: dataset.TypePrivate, Scope: "jdoe"},
		{Name: "theirs", Type: dataset.TypePrivate, Scope: "alice"},
		{Name: "proj", Type: dataset.TypeProject, Scope: "p1"},
		{Name: "other-proj", Type: dataset.TypeProject, Scope: "p2"},
		{Name: "grp", Type: dataset.TypeGroup, Scope: "team"},
		{Name: "other-grp", Type: dataset.TypeGroup, Scope: "ops"},
	}

	got := dataset.FilterVisible(all, p)
	names := make([]string, 0, len(got))
	for _, ds := range got {
		names = append(names, ds.Name)
	}
	assert.Equal(t, []string{"g", "mine", "proj", "grp"}, names)
}

func TestContextNormalize(t *testing.T) {
	var nilCtx *dataset.Context
	assert.Nil(t, nilCtx.Normalize())

	got := (&dataset.Context{Name: "x", Location: "a/"}).Normalize()
	assert.Equal(t, &dataset.Context{}, got)

	got = (&dataset.Context{Type: dataset.TypeGlobal, Location: "a/"}).Normalize()
	assert.Equal(t, &dataset.Context{Type: dataset.TypeGlobal}, got)

	assert.True(t, nilCtx.Equal(nil))
	assert.False(t, nilCtx.Equal(&dataset.Context{}))
}
