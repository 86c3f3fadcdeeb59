package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-dev/codegraph/internal/model"
	"github.com/codegraph-dev/codegraph/internal/resolve"
)

func TestBuildBarrelIndex_ClassifiesReexportOnlyFile(t *testing.T) {
	records := map[string]*model.FileRecords{
		"index.ts": {
			Path: "index.ts",
			Imports: []model.ImportRecord{
				{Specifier: "./impl", Bindings: []string{"foo"}, Line: 1, Reexport: true},
			},
		},
		"impl.ts": {
			Path:        "impl.ts",
			Definitions: []model.Definition{{Name: "foo", Kind: model.NodeFunction, Line: 1}},
		},
	}
	r := resolve.New(t.TempDir(), []string{"index.ts", "impl.ts"})

	idx := resolve.BuildBarrelIndex(records, r)
	require.Contains(t, idx, "index.ts")
	assert.True(t, idx["index.ts"].IsBarrel)
	require.Len(t, idx["index.ts"].Reexports, 1)
	assert.Equal(t, "foo", idx["index.ts"].Reexports[0].Name)
	assert.Equal(t, "impl.ts", idx["index.ts"].Reexports[0].TargetFile)

	assert.False(t, idx["impl.ts"].IsBarrel)
}

func TestResolveBarrel_FollowsChainToDefiningFile(t *testing.T) {
	records := map[string]*model.FileRecords{
		"index.ts": {
			Path: "index.ts",
			Imports: []model.ImportRecord{
				{Specifier: "./mid", Bindings: []string{"foo"}, Line: 1, Reexport: true},
			},
		},
		"mid.ts": {
			Path: "mid.ts",
			Imports: []model.ImportRecord{
				{Specifier: "./impl", Bindings: []string{"foo"}, Line: 1, Reexport: true},
			},
		},
		"impl.ts": {
			Path:        "impl.ts",
			Definitions: []model.Definition{{Name: "foo", Kind: model.NodeFunction, Line: 1}},
		},
	}
	r := resolve.New(t.TempDir(), []string{"index.ts", "mid.ts", "impl.ts"})
	idx := resolve.BuildBarrelIndex(records, r)

	target, ok := resolve.ResolveBarrel(idx, records, "index.ts", "foo")
	require.True(t, ok)
	assert.Equal(t, "impl.ts", target)
}

func TestResolveBarrel_CycleReturnsNoResult(t *testing.T) {
	records := map[string]*model.FileRecords{
		"a.ts": {
			Path: "a.ts",
			Imports: []model.ImportRecord{
				{Specifier: "./b", Wildcard: true, Line: 1, Reexport: true},
			},
		},
		"b.ts": {
			Path: "b.ts",
			Imports: []model.ImportRecord{
				{Specifier: "./a", Wildcard: true, Line: 1, Reexport: true},
			},
		},
	}
	r := resolve.New(t.TempDir(), []string{"a.ts", "b.ts"})
	idx := resolve.BuildBarrelIndex(records, r)

	_, ok := resolve.ResolveBarrel(idx, records, "a.ts", "missing")
	assert.False(t, ok)
}
