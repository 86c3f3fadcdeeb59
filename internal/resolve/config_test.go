package resolve_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-dev/codegraph/internal/resolve"
)

func TestLoadConfig_NoFilePresentReturnsNilConfig(t *testing.T) {
	cfg, err := resolve.LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_StripsJSONCCommentsAndTrailingCommas(t *testing.T) {
	root := t.TempDir()
	jsonc := `{
		// leading comment
		"compilerOptions": {
			"baseUrl": ".",
			/* block comment */
			"paths": {
				"@lib/*": ["lib/*"],
			},
		},
	}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "tsconfig.json"), []byte(jsonc), 0o644))

	cfg, err := resolve.LoadConfig(root)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Contains(t, cfg.Paths, "@lib/*")
}

func TestLoadConfig_FallsBackToJsconfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "jsconfig.json"), []byte(`{"compilerOptions":{"baseUrl":"."}}`), 0o644))

	cfg, err := resolve.LoadConfig(root)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, root, cfg.BaseURL)
}
