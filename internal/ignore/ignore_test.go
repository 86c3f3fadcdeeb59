package ignore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-dev/codegraph/internal/ignore"
)

func TestShouldIgnoreDir_FixedDenylist(t *testing.T) {
	root := t.TempDir()
	m, err := ignore.New(root)
	require.NoError(t, err)

	assert.True(t, m.ShouldIgnoreDir("node_modules"))
	assert.True(t, m.ShouldIgnoreDir(".git"))
	assert.True(t, m.ShouldIgnoreDir(".hidden"))
	assert.False(t, m.ShouldIgnoreDir("src"))
	assert.False(t, m.ShouldIgnoreDir("."))
}

func TestShouldIgnoreDir_ExtraDirsFromConfig(t *testing.T) {
	root := t.TempDir()
	m, err := ignore.New(root, "generated")
	require.NoError(t, err)

	assert.True(t, m.ShouldIgnoreDir("generated"))
	assert.True(t, m.ShouldIgnoreDir("node_modules"))
	assert.False(t, m.ShouldIgnoreDir("src"))
}

func TestShouldIgnoreFile_RespectsGitignore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.generated.ts\n"), 0o644))

	m, err := ignore.New(root)
	require.NoError(t, err)

	assert.True(t, m.ShouldIgnoreFile("foo.generated.ts"))
	assert.False(t, m.ShouldIgnoreFile("foo.ts"))
}
