package graph_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-dev/codegraph/internal/graph"
	"github.com/codegraph-dev/codegraph/internal/model"
	"github.com/codegraph-dev/codegraph/internal/resolve"
	"github.com/codegraph-dev/codegraph/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	dbPath := filepath.Join(t.TempDir(), "graph.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, st.Close())
	})
	return st
}

func countRows(t *testing.T, st *store.Store, table string) int {
	var n int
	require.NoError(t, st.DB().QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestBuild_SimpleImportAndCall(t *testing.T) {
	st := setupTestStore(t)

	files := []string{"a.ts", "b.ts"}
	endLine := 3
	records := map[string]*model.FileRecords{
		"a.ts": {
			Path: "a.ts",
			Imports: []model.ImportRecord{
				{Specifier: "./b", Bindings: []string{"helper"}, Line: 1},
			},
			Definitions: []model.Definition{
				{Name: "main", Kind: model.NodeFunction, Line: 2, EndLine: &endLine},
			},
			Calls: []model.CallSite{
				{Name: "helper", Line: 3},
			},
		},
		"b.ts": {
			Path: "b.ts",
			Definitions: []model.Definition{
				{Name: "helper", Kind: model.NodeFunction, Line: 1, EndLine: &endLine},
			},
			Exports: []model.Export{{Name: "helper", Line: 1}},
		},
	}

	r := resolve.New(t.TempDir(), files)
	require.NoError(t, graph.Build(st, files, records, r))

	assert.Equal(t, 4, countRows(t, st, "nodes")) // 2 files + main + helper

	var importCount, callCount int
	require.NoError(t, st.DB().QueryRow(
		`SELECT COUNT(*) FROM edges WHERE kind = 'imports'`).Scan(&importCount))
	require.NoError(t, st.DB().QueryRow(
		`SELECT COUNT(*) FROM edges WHERE kind = 'calls'`).Scan(&callCount))
	assert.Equal(t, 1, importCount)
	require.Equal(t, 1, callCount)

	var confidence float64
	require.NoError(t, st.DB().QueryRow(
		`SELECT confidence FROM edges WHERE kind = 'calls'`).Scan(&confidence))
	assert.Equal(t, model.ConfidenceSameFile, confidence)
}

func TestBuild_NoSelfEdgeForRecursiveCall(t *testing.T) {
	st := setupTestStore(t)

	files := []string{"a.ts"}
	records := map[string]*model.FileRecords{
		"a.ts": {
			Path: "a.ts",
			Definitions: []model.Definition{
				{Name: "recurse", Kind: model.NodeFunction, Line: 1},
			},
			Calls: []model.CallSite{
				{Name: "recurse", Line: 2},
			},
		},
	}

	r := resolve.New(t.TempDir(), files)
	require.NoError(t, graph.Build(st, files, records, r))

	assert.Equal(t, 0, countRows(t, st, "edges"))
}

func TestBuild_RepeatedCallSitesEachPersisted(t *testing.T) {
	st := setupTestStore(t)

	files := []string{"a.ts", "b.ts"}
	records := map[string]*model.FileRecords{
		"a.ts": {
			Path: "a.ts",
			Imports: []model.ImportRecord{
				{Specifier: "./b", Bindings: []string{"helper"}, Line: 1},
			},
			Definitions: []model.Definition{
				{Name: "main", Kind: model.NodeFunction, Line: 2},
			},
			Calls: []model.CallSite{
				{Name: "helper", Line: 3},
				{Name: "helper", Line: 4},
			},
		},
		"b.ts": {
			Path:        "b.ts",
			Definitions: []model.Definition{{Name: "helper", Kind: model.NodeFunction, Line: 1}},
			Exports:     []model.Export{{Name: "helper", Line: 1}},
		},
	}

	r := resolve.New(t.TempDir(), files)
	require.NoError(t, graph.Build(st, files, records, r))

	var callCount int
	require.NoError(t, st.DB().QueryRow(
		`SELECT COUNT(*) FROM edges WHERE kind = 'calls'`).Scan(&callCount))
	assert.Equal(t, 2, callCount, "each call site to the same target gets its own edge")
}

func TestBuild_HeritageEdge(t *testing.T) {
	st := setupTestStore(t)

	files := []string{"base.ts", "derived.ts"}
	records := map[string]*model.FileRecords{
		"base.ts": {
			Path:        "base.ts",
			Definitions: []model.Definition{{Name: "Animal", Kind: model.NodeClass, Line: 1}},
		},
		"derived.ts": {
			Path:        "derived.ts",
			Definitions: []model.Definition{{Name: "Dog", Kind: model.NodeClass, Line: 1}},
			Classes: []model.Heritage{
				{ClassName: "Dog", Kind: model.EdgeExtends, TargetName: "Animal", Line: 1},
			},
		},
	}

	r := resolve.New(t.TempDir(), files)
	require.NoError(t, graph.Build(st, files, records, r))

	var n int
	require.NoError(t, st.DB().QueryRow(
		`SELECT COUNT(*) FROM edges WHERE kind = 'extends'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestBuild_RebuildClearsPreviousGraph(t *testing.T) {
	st := setupTestStore(t)

	files := []string{"a.ts"}
	records := map[string]*model.FileRecords{
		"a.ts": {
			Path:        "a.ts",
			Definitions: []model.Definition{{Name: "f", Kind: model.NodeFunction, Line: 1}},
		},
	}
	r := resolve.New(t.TempDir(), files)
	require.NoError(t, graph.Build(st, files, records, r))
	require.NoError(t, graph.Build(st, files, records, r))

	assert.Equal(t, 2, countRows(t, st, "nodes")) // file + f, not doubled
}

func TestRebuildFile_PreservesUnrelatedFileIDs(t *testing.T) {
	st := setupTestStore(t)

	files := []string{"a.ts", "b.ts"}
	records := map[string]*model.FileRecords{
		"a.ts": {
			Path: "a.ts",
			Imports: []model.ImportRecord{
				{Specifier: "./b", Bindings: []string{"helper"}, Line: 1},
			},
			Definitions: []model.Definition{{Name: "main", Kind: model.NodeFunction, Line: 2}},
			Calls:       []model.CallSite{{Name: "helper", Line: 3}},
		},
		"b.ts": {
			Path:        "b.ts",
			Definitions: []model.Definition{{Name: "helper", Kind: model.NodeFunction, Line: 1}},
			Exports:     []model.Export{{Name: "helper", Line: 1}},
		},
	}
	r := resolve.New(t.TempDir(), files)
	require.NoError(t, graph.Build(st, files, records, r))

	var bFileID, helperID int64
	require.NoError(t, st.DB().QueryRow(
		`SELECT id FROM nodes WHERE file = 'b.ts' AND kind = 'file'`).Scan(&bFileID))
	require.NoError(t, st.DB().QueryRow(
		`SELECT id FROM nodes WHERE name = 'helper' AND kind = 'function'`).Scan(&helperID))

	// a.ts gains a second call site to helper; only a.ts's delta is applied.
	records["a.ts"].Calls = append(records["a.ts"].Calls, model.CallSite{Name: "helper", Line: 4})
	require.NoError(t, graph.RebuildFile(st, "a.ts", records, r))

	var bFileIDAfter, helperIDAfter int64
	require.NoError(t, st.DB().QueryRow(
		`SELECT id FROM nodes WHERE file = 'b.ts' AND kind = 'file'`).Scan(&bFileIDAfter))
	require.NoError(t, st.DB().QueryRow(
		`SELECT id FROM nodes WHERE name = 'helper' AND kind = 'function'`).Scan(&helperIDAfter))
	assert.Equal(t, bFileID, bFileIDAfter, "untouched file's node id must survive a sibling's rebuild")
	assert.Equal(t, helperID, helperIDAfter, "untouched definition's node id must survive a sibling's rebuild")

	var callCount int
	require.NoError(t, st.DB().QueryRow(
		`SELECT COUNT(*) FROM edges WHERE kind = 'calls'`).Scan(&callCount))
	assert.Equal(t, 2, callCount, "both call sites from the rebuilt file persist")
}
