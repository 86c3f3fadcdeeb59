package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-dev/codegraph/internal/model"
	"github.com/codegraph-dev/codegraph/internal/query"
)

func TestBuildOverview_CountsByKind(t *testing.T) {
	files := []string{"a.ts", "b.ts"}
	records := map[string]*model.FileRecords{
		"a.ts": {
			Path:        "a.ts",
			Imports:     []model.ImportRecord{{Specifier: "./b", Bindings: []string{"f"}, Line: 1}},
			Definitions: []model.Definition{{Name: "main", Kind: model.NodeFunction, Line: 1}},
			Calls:       []model.CallSite{{Name: "f", Line: 2}},
		},
		"b.ts": {
			Path:        "b.ts",
			Definitions: []model.Definition{{Name: "f", Kind: model.NodeFunction, Line: 1}},
		},
	}
	st := buildTestGraph(t, files, records)
	q := query.New(st)

	ov, err := q.BuildOverview()
	require.NoError(t, err)
	assert.Equal(t, 2, ov.FileCount)
	assert.Equal(t, 2, ov.NodesByKind["function"])
	assert.Equal(t, 1, ov.EdgesByKind["imports"])
	assert.Equal(t, 1, ov.EdgesByKind["calls"])
}
