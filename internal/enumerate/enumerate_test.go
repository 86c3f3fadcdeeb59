package enumerate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-dev/codegraph/internal/enumerate"
	"github.com/codegraph-dev/codegraph/internal/ignore"
)

func writeFile(t *testing.T, root, rel, contents string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestEnumerate_TracksKnownExtensionsOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.ts", "")
	writeFile(t, root, "b.py", "")
	writeFile(t, root, "readme.md", "")
	writeFile(t, root, "main.tf", "")

	m, err := ignore.New(root)
	require.NoError(t, err)

	files, err := enumerate.Enumerate(root, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ts", "b.py", "main.tf"}, files)
}

func TestEnumerate_SkipsDenylistedDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "")
	writeFile(t, root, "node_modules/dep/index.ts", "")
	writeFile(t, root, ".git/objects/x.ts", "")

	m, err := ignore.New(root)
	require.NoError(t, err)

	files, err := enumerate.Enumerate(root, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts"}, files)
}

func TestEnumerate_FilterExcludesExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.ts", "")
	writeFile(t, root, "b.py", "")

	m, err := ignore.New(root)
	require.NoError(t, err)

	files, err := enumerate.Enumerate(root, m, enumerate.Filter{Exclude: []string{".py"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ts"}, files)
}

func TestEnumerate_FilterIncludeReplacesDefaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.ts", "")
	writeFile(t, root, "b.py", "")
	writeFile(t, root, "c.rb", "")

	m, err := ignore.New(root)
	require.NoError(t, err)

	files, err := enumerate.Enumerate(root, m, enumerate.Filter{Include: []string{"ts", ".rb"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ts", "c.rb"}, files)
}

func TestEnumerate_ResultIsLexicographicallySorted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "z.ts", "")
	writeFile(t, root, "a.ts", "")
	writeFile(t, root, "m.ts", "")

	m, err := ignore.New(root)
	require.NoError(t, err)

	files, err := enumerate.Enumerate(root, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ts", "m.ts", "z.ts"}, files)
}
