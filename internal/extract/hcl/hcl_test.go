package hcl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-dev/codegraph/internal/extract/hcl"
	"github.com/codegraph-dev/codegraph/internal/model"
	"github.com/codegraph-dev/codegraph/pkg/testfixtures"
)

func TestExtract_ModuleSourceAndResourceBlock(t *testing.T) {
	rec, err := hcl.New().Extract([]byte(testfixtures.HCLModuleWithSource), "main.tf")
	require.NoError(t, err)

	var names []string
	for _, d := range rec.Definitions {
		names = append(names, d.Name)
	}
	assert.Contains(t, names, "module.network")
	assert.Contains(t, names, "resource.aws_instance.web")

	for _, d := range rec.Definitions {
		if d.Name == "module.network" {
			assert.Equal(t, model.NodeModule, d.Kind)
		}
		if d.Name == "resource.aws_instance.web" {
			assert.Equal(t, model.NodeResource, d.Kind)
		}
	}

	require.Len(t, rec.Imports, 1)
	assert.Equal(t, "./modules/network", rec.Imports[0].Specifier)
}

func TestExtract_EmptyBodyYieldsNoDefinitions(t *testing.T) {
	rec, err := hcl.New().Extract([]byte(""), "empty.tf")
	require.NoError(t, err)
	assert.Empty(t, rec.Definitions)
	assert.Empty(t, rec.Imports)
}
