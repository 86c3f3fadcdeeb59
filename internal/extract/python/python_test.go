package python_test

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	tsPython "github.com/smacker/go-tree-sitter/python"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-dev/codegraph/internal/extract/python"
	"github.com/codegraph-dev/codegraph/internal/model"
	"github.com/codegraph-dev/codegraph/pkg/testfixtures"
)

func parse(t *testing.T, source string) (*sitter.Node, []byte) {
	t.Helper()
	parser := sitter.NewParser()
	parser.SetLanguage(tsPython.GetLanguage())
	src := []byte(source)
	tree := parser.Parse(nil, src)
	require.NotNil(t, tree)
	return tree.RootNode(), src
}

func TestExtract_ClassAndDecoratedMethod(t *testing.T) {
	root, src := parse(t, testfixtures.PythonClassAndDecorator)
	rec := python.New().Extract(root, src, "greeter.py")

	var names []string
	for _, d := range rec.Definitions {
		names = append(names, d.Name)
	}
	assert.Contains(t, names, "Greeter")
	assert.Contains(t, names, "Greeter.greet")
	assert.Contains(t, names, "Greeter.format")

	for _, d := range rec.Definitions {
		if d.Name == "Greeter.greet" {
			assert.Equal(t, model.NodeMethod, d.Kind)
			assert.NotEmpty(t, d.Decorator)
		}
	}

	var callNames []string
	for _, c := range rec.Calls {
		callNames = append(callNames, c.Name)
	}
	assert.Contains(t, callNames, "format")
}

func TestExtract_RelativeImports(t *testing.T) {
	root, src := parse(t, testfixtures.PythonRelativeImport)
	rec := python.New().Extract(root, src, "pkg/run.py")

	require.Len(t, rec.Imports, 2)
	assert.Equal(t, ".", rec.Imports[0].Specifier)
	assert.Equal(t, []string{"sibling"}, rec.Imports[0].Bindings)
	assert.Equal(t, "..pkg", rec.Imports[1].Specifier)
	assert.Equal(t, []string{"helper"}, rec.Imports[1].Bindings)

	var callNames []string
	for _, c := range rec.Calls {
		callNames = append(callNames, c.Name)
	}
	assert.Contains(t, callNames, "go")
	assert.Contains(t, callNames, "helper")
}
