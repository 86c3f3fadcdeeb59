package tsfamily_test

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	tsTypeScript "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-dev/codegraph/internal/extract/tsfamily"
	"github.com/codegraph-dev/codegraph/internal/model"
	"github.com/codegraph-dev/codegraph/pkg/testfixtures"
)

func parse(t *testing.T, source string) (*sitter.Node, []byte) {
	t.Helper()
	parser := sitter.NewParser()
	parser.SetLanguage(tsTypeScript.GetLanguage())
	src := []byte(source)
	tree := parser.Parse(nil, src)
	require.NotNil(t, tree)
	return tree.RootNode(), src
}

func TestExtract_NamedImportAndCall(t *testing.T) {
	root, src := parse(t, testfixtures.TSNamedImportAndCall)
	rec := tsfamily.New().Extract(root, src, "a.ts")

	require.Len(t, rec.Imports, 1)
	assert.Equal(t, "./b", rec.Imports[0].Specifier)
	assert.Equal(t, []string{"foo"}, rec.Imports[0].Bindings)

	require.Len(t, rec.Definitions, 1)
	assert.Equal(t, "main", rec.Definitions[0].Name)
	assert.Equal(t, model.NodeFunction, rec.Definitions[0].Kind)

	require.Len(t, rec.Calls, 1)
	assert.Equal(t, "foo", rec.Calls[0].Name)
	assert.False(t, rec.Calls[0].Dynamic)
}

func TestExtract_BarrelReexport(t *testing.T) {
	root, src := parse(t, testfixtures.TSBarrelIndex)
	rec := tsfamily.New().Extract(root, src, "index.ts")

	require.Len(t, rec.Imports, 1)
	imp := rec.Imports[0]
	assert.Equal(t, "./impl", imp.Specifier)
	assert.True(t, imp.Reexport)
	assert.False(t, imp.Wildcard)
	assert.Equal(t, []string{"foo"}, imp.Bindings)
	assert.Empty(t, rec.Definitions)
}

func TestExtract_DynamicCallViaBoundMethod(t *testing.T) {
	root, src := parse(t, testfixtures.TSDynamicCall)
	rec := tsfamily.New().Extract(root, src, "a.ts")

	require.Len(t, rec.Calls, 1)
	assert.Equal(t, "h", rec.Calls[0].Name)
	assert.True(t, rec.Calls[0].Dynamic)
}

func TestExtract_ComputedLiteralCall(t *testing.T) {
	root, src := parse(t, testfixtures.TSComputedLiteralCall)
	rec := tsfamily.New().Extract(root, src, "a.ts")

	require.Len(t, rec.Calls, 1)
	assert.Equal(t, "run", rec.Calls[0].Name)
	assert.True(t, rec.Calls[0].Dynamic)
}

func TestExtract_ClassHierarchy(t *testing.T) {
	root, src := parse(t, testfixtures.TSClassHierarchy)
	rec := tsfamily.New().Extract(root, src, "a.ts")

	var methodNames []string
	for _, d := range rec.Definitions {
		methodNames = append(methodNames, d.Name)
	}
	assert.Contains(t, methodNames, "Parent")
	assert.Contains(t, methodNames, "Child")
	assert.Contains(t, methodNames, "Parent.m")
	assert.Contains(t, methodNames, "Child.m")

	require.Len(t, rec.Classes, 1)
	assert.Equal(t, "Child", rec.Classes[0].ClassName)
	assert.Equal(t, model.EdgeExtends, rec.Classes[0].Kind)
	assert.Equal(t, "Parent", rec.Classes[0].TargetName)

	require.Len(t, rec.Calls, 1)
	assert.Equal(t, "m", rec.Calls[0].Name)
}
