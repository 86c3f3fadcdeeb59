// Package ignore decides whether a path should be excluded from
// enumeration and watching: a fixed directory denylist, unconditional
// hidden-directory skipping, and project .gitignore-style files layered
// on top.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// DefaultDenylist names directories the File Enumerator never descends
// into, regardless of .gitignore content: vendored dependency caches,
// build outputs, version-control metadata, virtual environments, and the
// tool's own index directory.
var DefaultDenylist = map[string]bool{
	".git":          true,
	".hg":           true,
	".svn":          true,
	".codegraph":    true,
	"node_modules":  true,
	"vendor":        true,
	"dist":          true,
	"build":         true,
	"out":           true,
	"target":        true,
	".venv":         true,
	"venv":          true,
	"__pycache__":   true,
	".mypy_cache":   true,
	".pytest_cache": true,
	".terraform":    true,
}

// Matcher decides whether a workspace-relative path should be skipped.
type Matcher struct {
	denylist map[string]bool
	gi       *gitignore.GitIgnore // nil if no .gitignore/.codegraphignore found
}

// New builds a Matcher for the given workspace root, extending the fixed
// denylist with extraDirs from an optional project configuration file. It
// is not an error for no ignore file to exist; the fixed denylist and
// hidden-directory rule still apply.
func New(root string, extraDirs ...string) (*Matcher, error) {
	denylist := DefaultDenylist
	if len(extraDirs) > 0 {
		denylist = make(map[string]bool, len(DefaultDenylist)+len(extraDirs))
		for k := range DefaultDenylist {
			denylist[k] = true
		}
		for _, d := range extraDirs {
			denylist[d] = true
		}
	}
	m := &Matcher{denylist: denylist}

	var lines []string
	for _, name := range []string{".gitignore", ".codegraphignore"} {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		lines = append(lines, strings.Split(string(data), "\n")...)
	}
	if len(lines) > 0 {
		m.gi = gitignore.CompileIgnoreLines(lines...)
	}
	return m, nil
}

// ShouldIgnoreDir reports whether the enumerator must not descend into the
// directory at relPath (workspace-relative, "." for the root).
func (m *Matcher) ShouldIgnoreDir(relPath string) bool {
	if relPath == "." || relPath == "" {
		return false
	}
	base := filepath.Base(relPath)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if m.denylist[base] {
		return true
	}
	if m.gi != nil && m.gi.MatchesPath(relPath) {
		return true
	}
	return false
}

// ShouldIgnoreFile reports whether relPath (workspace-relative) should be
// excluded from the yielded file list.
func (m *Matcher) ShouldIgnoreFile(relPath string) bool {
	base := filepath.Base(relPath)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if m.gi != nil && m.gi.MatchesPath(relPath) {
		return true
	}
	return false
}
