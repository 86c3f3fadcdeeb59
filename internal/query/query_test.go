package query_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-dev/codegraph/internal/graph"
	"github.com/codegraph-dev/codegraph/internal/model"
	"github.com/codegraph-dev/codegraph/internal/query"
	"github.com/codegraph-dev/codegraph/internal/resolve"
	"github.com/codegraph-dev/codegraph/internal/store"
)

func buildTestGraph(t *testing.T, files []string, records map[string]*model.FileRecords) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "graph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, st.Close()) })

	r := resolve.New(t.TempDir(), files)
	require.NoError(t, graph.Build(st, files, records, r))
	return st
}

func TestFileImpact_TransitiveImporters(t *testing.T) {
	files := []string{"a.ts", "b.ts", "c.ts"}
	records := map[string]*model.FileRecords{
		"a.ts": {Path: "a.ts", Imports: []model.ImportRecord{{Specifier: "./b", Bindings: []string{"x"}, Line: 1}}},
		"b.ts": {Path: "b.ts", Imports: []model.ImportRecord{{Specifier: "./c", Bindings: []string{"y"}, Line: 1}}},
		"c.ts": {Path: "c.ts", Definitions: []model.Definition{{Name: "y", Kind: model.NodeFunction, Line: 1}}},
	}
	st := buildTestGraph(t, files, records)
	q := query.New(st)

	impact, err := q.FileImpact("c.ts", false)
	require.NoError(t, err)
	require.Len(t, impact, 2)

	byFile := map[string]int{}
	for _, n := range impact {
		byFile[n.File] = n.Level
	}
	assert.Equal(t, 1, byFile["b.ts"])
	assert.Equal(t, 2, byFile["a.ts"])
}

func TestModuleMap_RanksByInboundEdges(t *testing.T) {
	files := []string{"a.ts", "b.ts", "c.ts"}
	records := map[string]*model.FileRecords{
		"a.ts": {Path: "a.ts", Imports: []model.ImportRecord{{Specifier: "./c", Bindings: []string{"z"}, Line: 1}}},
		"b.ts": {Path: "b.ts", Imports: []model.ImportRecord{{Specifier: "./c", Bindings: []string{"z"}, Line: 1}}},
		"c.ts": {Path: "c.ts", Definitions: []model.Definition{{Name: "z", Kind: model.NodeFunction, Line: 1}}},
	}
	st := buildTestGraph(t, files, records)
	q := query.New(st)

	ranked, err := q.ModuleMap(false)
	require.NoError(t, err)
	require.NotEmpty(t, ranked)
	assert.Equal(t, "c.ts", ranked[0].File)
	assert.Equal(t, 2, ranked[0].InboundEdges)
}

func TestModuleMap_ExcludesTestFiles(t *testing.T) {
	files := []string{"a.ts", "a.test.ts"}
	records := map[string]*model.FileRecords{
		"a.ts":      {Path: "a.ts"},
		"a.test.ts": {Path: "a.test.ts"},
	}
	st := buildTestGraph(t, files, records)
	q := query.New(st)

	ranked, err := q.ModuleMap(true)
	require.NoError(t, err)
	for _, rf := range ranked {
		assert.NotEqual(t, "a.test.ts", rf.File)
	}
}

func TestDiffImpact_OverlapWithNullEndLineFallback(t *testing.T) {
	files := []string{"x.ts", "caller.ts"}
	records := map[string]*model.FileRecords{
		"x.ts": {
			Path: "x.ts",
			Definitions: []model.Definition{
				{Name: "fn", Kind: model.NodeFunction, Line: 10}, // no EndLine: falls back to next def - 1
				{Name: "other", Kind: model.NodeFunction, Line: 21},
			},
		},
		"caller.ts": {
			Path: "caller.ts",
			Imports: []model.ImportRecord{
				{Specifier: "./x", Bindings: []string{"fn"}, Line: 1},
			},
			Definitions: []model.Definition{{Name: "run", Kind: model.NodeFunction, Line: 1}},
			Calls:       []model.CallSite{{Name: "fn", Line: 2}},
		},
	}
	st := buildTestGraph(t, files, records)
	q := query.New(st)

	impact, err := q.DiffImpact(map[string][]query.LineRange{"x.ts": {{Start: 12, End: 16}}}, 3)
	require.NoError(t, err)
	require.Len(t, impact, 1)
	assert.Equal(t, "caller.ts", impact[0].File)
}

func TestLookupSymbol_MethodHierarchyCallers(t *testing.T) {
	files := []string{"animal.ts", "dog.ts", "caller.ts"}
	records := map[string]*model.FileRecords{
		"animal.ts": {
			Path: "animal.ts",
			Definitions: []model.Definition{
				{Name: "Animal", Kind: model.NodeClass, Line: 1},
				{Name: "Animal.speak", Kind: model.NodeMethod, Line: 2},
			},
		},
		"dog.ts": {
			Path: "dog.ts",
			Definitions: []model.Definition{
				{Name: "Dog", Kind: model.NodeClass, Line: 1},
				{Name: "Dog.speak", Kind: model.NodeMethod, Line: 2},
			},
			Classes: []model.Heritage{
				{ClassName: "Dog", Kind: model.EdgeExtends, TargetName: "Animal", Line: 1},
			},
		},
		"caller.ts": {
			Path:  "caller.ts",
			Calls: []model.CallSite{{Name: "Animal.speak", Line: 1}},
		},
	}
	st := buildTestGraph(t, files, records)
	q := query.New(st)

	matches, err := q.LookupSymbol("Animal.speak")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Len(t, matches[0].Callers, 1)
	assert.Equal(t, "caller.ts", matches[0].Callers[0].Node.File)

	// Dog.speak has no direct callers; Animal.speak's caller is reached
	// through Dog's extends edge.
	dogMatches, err := q.LookupSymbol("Dog.speak")
	require.NoError(t, err)
	require.Len(t, dogMatches, 1)
	require.Len(t, dogMatches[0].Callers, 1)
	assert.Equal(t, "caller.ts", dogMatches[0].Callers[0].Node.File)
	assert.Equal(t, []string{"Animal"}, dogMatches[0].Callers[0].HierarchyPath)
}
