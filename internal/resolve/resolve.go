// Package resolve maps an import specifier issued from a known source
// file to a canonical workspace-relative path, applying path aliases,
// extension conventions, and (via barrel.go) barrel re-export chains.
package resolve

import (
	"path"
	"path/filepath"
	"strings"
)

// probeSuffixes is the fixed, ordered suffix list tried against a resolved
// base path before giving up.
var probeSuffixes = []string{
	"", ".ts", ".tsx", ".js", ".jsx", ".mjs", ".py",
	"/index.ts", "/index.tsx", "/index.js", "/__init__.py",
}

// Resolver maps import specifiers to workspace-relative paths that exist
// among the set of files the File Enumerator (C1) yielded.
type Resolver struct {
	root  string
	known map[string]bool
	cfg   *Config
}

// New builds a Resolver over knownFiles (workspace-relative, forward-slash
// paths as produced by package enumerate) and loads at most one project
// config file from root.
func New(root string, knownFiles []string) *Resolver {
	known := make(map[string]bool, len(knownFiles))
	for _, f := range knownFiles {
		known[f] = true
	}
	cfg, _ := LoadConfig(root)
	return &Resolver{root: root, known: known, cfg: cfg}
}

// Resolve maps specifier s, issued from workspace-relative file fromFile,
// to a workspace-relative path. ok is false when nothing in the known file
// set matches — the caller must not create an edge in that case;
// resolution misses are silent, not errors.
func (r *Resolver) Resolve(s, fromFile string) (string, bool) {
	if !strings.HasPrefix(s, ".") {
		if r.cfg != nil {
			if target, ok := r.resolveAlias(s); ok {
				return target, true
			}
			if target, ok := r.probeUnderBaseURL(s); ok {
				return target, true
			}
		}
		// Non-relative, unresolved: treated as an external module. It will
		// not match any file node.
		return s, false
	}

	// Relative: resolve against dirname(fromFile). JS-style specifiers
	// always carry a "/" after their leading dots ("./foo", "../foo/bar");
	// Python's relative-import dots never do (a single dot means "this
	// package", each further dot climbs one more parent, and any module
	// path after the dots is itself dot-separated, e.g. "..pkg.sub") so the
	// two forms need different joining logic.
	dir := path.Dir(fromFile)
	var joined string
	if strings.Contains(s, "/") {
		joined = path.Clean(path.Join(dir, s))
	} else {
		joined = r.pythonRelativeJoin(dir, s)
	}

	preferTSFirst := strings.HasSuffix(s, ".js")
	return r.probeCandidates(joined, preferTSFirst)
}

// pythonRelativeJoin resolves a Python-style relative specifier: a run of
// leading dots followed by an optional dotted module path. One dot stays in
// fromDir's own directory; each additional dot climbs one more parent
// before the remaining path (if any) is joined underneath, with "." swapped
// for "/" to turn "pkg.sub" into "pkg/sub".
func (r *Resolver) pythonRelativeJoin(dir, s string) string {
	dots := 0
	for dots < len(s) && s[dots] == '.' {
		dots++
	}
	rest := s[dots:]

	for i := 0; i < dots-1; i++ {
		dir = path.Dir(dir)
	}
	if rest == "" {
		return path.Clean(dir)
	}
	return path.Clean(path.Join(dir, strings.ReplaceAll(rest, ".", "/")))
}

// resolveAlias tries each configured alias pattern whose literal (pre-"*")
// prefix matches s, substituting the tail into each target directory.
func (r *Resolver) resolveAlias(s string) (string, bool) {
	for pattern, targets := range r.cfg.Paths {
		prefix := strings.TrimSuffix(pattern, "*")
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		tail := strings.TrimPrefix(s, prefix)
		for _, target := range targets {
			targetPrefix := strings.TrimSuffix(target, "*")
			candidate := filepath.ToSlash(filepath.Join(targetPrefix, tail))
			if resolved, ok := r.probeAbsoluteCandidates(candidate); ok {
				return resolved, true
			}
		}
	}
	return "", false
}

func (r *Resolver) probeUnderBaseURL(s string) (string, bool) {
	candidate := filepath.ToSlash(filepath.Join(r.cfg.BaseURL, s))
	return r.probeAbsoluteCandidates(candidate)
}

// probeAbsoluteCandidates probes an absolute-path candidate (derived from
// baseUrl/alias resolution) against the known file set, converting to a
// workspace-relative path before each check.
func (r *Resolver) probeAbsoluteCandidates(absCandidate string) (string, bool) {
	rel, err := filepath.Rel(r.root, absCandidate)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	return r.probeCandidates(rel, false)
}

// probeCandidates appends each suffix in probeSuffixes (optionally with
// .ts/.tsx tried ahead of the rest when preferTSFirst is set, for the ESM
// ".js"->".ts" convention) and returns the first that exists in the known
// file set.
func (r *Resolver) probeCandidates(base string, preferTSFirst bool) (string, bool) {
	if preferTSFirst {
		trimmed := strings.TrimSuffix(base, ".js")
		for _, ext := range []string{".ts", ".tsx"} {
			candidate := trimmed + ext
			if r.known[candidate] {
				return candidate, true
			}
		}
	}
	for _, suffix := range probeSuffixes {
		candidate := base + suffix
		if r.known[candidate] {
			return candidate, true
		}
	}
	return "", false
}
