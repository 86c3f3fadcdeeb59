// Package enumerate implements C1, the File Enumerator: a recursive walk of
// the workspace root that honors ignore rules and the tracked extension
// set, yielding a stable, lexicographically ordered path list so that
// storage-assigned node ids are deterministic across rebuilds.
package enumerate

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codegraph-dev/codegraph/internal/ignore"
	"github.com/codegraph-dev/codegraph/internal/logging"
)

// TrackedExtensions are the extensions the enumerator yields by default;
// the Grammar Dispatcher (C2) further maps each to a language binding.
var TrackedExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".mjs": true, ".cjs": true, ".py": true,
	".tf": true, ".hcl": true,
}

var log = logging.For("enumerate")

// Filter narrows the extension set Enumerate tracks, sourced from the
// optional project configuration. The zero value tracks the defaults
// unmodified.
type Filter struct {
	// Include, when non-empty, replaces TrackedExtensions instead of
	// extending it.
	Include []string
	// Exclude removes extensions from whichever set (default or Include)
	// is otherwise in effect.
	Exclude []string
}

func (f Filter) trackedSet() map[string]bool {
	base := TrackedExtensions
	if len(f.Include) > 0 {
		base = make(map[string]bool, len(f.Include))
		for _, e := range f.Include {
			base[normalizeExt(e)] = true
		}
	}
	if len(f.Exclude) == 0 {
		return base
	}
	out := make(map[string]bool, len(base))
	for e := range base {
		out[e] = true
	}
	for _, e := range f.Exclude {
		delete(out, normalizeExt(e))
	}
	return out
}

func normalizeExt(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// Enumerate walks root and returns workspace-relative paths of every
// tracked file not excluded by m, in stable lexicographic order. filter is
// optional; its zero value tracks the default extension set.
func Enumerate(root string, m *ignore.Matcher, filter ...Filter) ([]string, error) {
	var f Filter
	if len(filter) > 0 {
		f = filter[0]
	}
	tracked := f.trackedSet()

	var paths []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warnw("walk error", "path", path, "err", err)
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}

		if info.IsDir() {
			if m.ShouldIgnoreDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if !tracked[filepath.Ext(path)] {
			return nil
		}
		if m.ShouldIgnoreFile(relPath) {
			return nil
		}

		paths = append(paths, filepath.ToSlash(relPath))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
