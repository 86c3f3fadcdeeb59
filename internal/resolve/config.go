package resolve

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Config holds the two fields extracted from a project's
// TypeScript/JavaScript config file: an absolute baseUrl and a mapping
// from alias patterns (each containing a trailing "*") to one or more
// absolute target directories (also trailing "*").
type Config struct {
	BaseURL string
	Paths   map[string][]string
}

var lineComment = regexp.MustCompile(`//[^\n]*`)
var blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
var trailingComma = regexp.MustCompile(`,(\s*[}\]])`)

// stripJSONC removes line comments, block comments, and trailing commas so
// a lenient tsconfig.json/jsonc file can be decoded with encoding/json.
func stripJSONC(data []byte) []byte {
	s := string(data)
	s = blockComment.ReplaceAllString(s, "")
	s = lineComment.ReplaceAllString(s, "")
	s = trailingComma.ReplaceAllString(s, "$1")
	return []byte(s)
}

type tsconfigFile struct {
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// LoadConfig loads at most one project config file from root, preferring
// tsconfig.json and falling back to jsconfig.json. Absence of either file
// is not an error: a nil Config means "no alias resolution available".
func LoadConfig(root string) (*Config, error) {
	for _, name := range []string{"tsconfig.json", "jsconfig.json"} {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var tc tsconfigFile
		if err := json.Unmarshal(stripJSONC(data), &tc); err != nil {
			// Malformed config JSON is skippable: no alias resolution
			// this build, not fatal.
			return nil, nil
		}

		cfg := &Config{Paths: make(map[string][]string)}
		baseDir := root
		if tc.CompilerOptions.BaseURL != "" {
			baseDir = filepath.Join(root, tc.CompilerOptions.BaseURL)
		}
		cfg.BaseURL = baseDir

		for pattern, targets := range tc.CompilerOptions.Paths {
			abs := make([]string, 0, len(targets))
			for _, t := range targets {
				abs = append(abs, filepath.Join(baseDir, t))
			}
			cfg.Paths[normalizeSlashes(pattern)] = abs
		}
		return cfg, nil
	}
	return nil, nil
}

func normalizeSlashes(s string) string {
	return strings.ReplaceAll(s, "\\", "/")
}
