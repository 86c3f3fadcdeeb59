package resolve

import "github.com/codegraph-dev/codegraph/internal/model"

// Reexport is one re-export statement resolved to its target file.
type Reexport struct {
	Name       string // empty for wildcard re-exports
	Wildcard   bool
	TargetFile string
}

// BarrelInfo is the per-file barrel classification and re-export list
// computed after the first extraction pass.
type BarrelInfo struct {
	IsBarrel  bool
	Reexports []Reexport
}

// BuildBarrelIndex computes, for every file with records, its barrel
// classification and resolved re-export list. A file is a barrel when its
// re-export statement count is at least its own-definition count.
func BuildBarrelIndex(allRecords map[string]*model.FileRecords, r *Resolver) map[string]*BarrelInfo {
	index := make(map[string]*BarrelInfo, len(allRecords))

	for file, rec := range allRecords {
		info := &BarrelInfo{}
		reexportStmtCount := 0

		for _, imp := range rec.Imports {
			if !imp.Reexport {
				continue
			}
			reexportStmtCount++

			target, ok := r.Resolve(imp.Specifier, file)
			if !ok {
				continue
			}

			if imp.Wildcard {
				info.Reexports = append(info.Reexports, Reexport{Wildcard: true, TargetFile: target})
				continue
			}
			for _, name := range imp.Bindings {
				info.Reexports = append(info.Reexports, Reexport{Name: name, TargetFile: target})
			}
		}

		info.IsBarrel = reexportStmtCount >= len(rec.Definitions)
		index[file] = info
	}

	return index
}

// definesName reports whether file's records define or export name.
func definesName(allRecords map[string]*model.FileRecords, file, name string) bool {
	rec, ok := allRecords[file]
	if !ok {
		return false
	}
	for _, d := range rec.Definitions {
		if d.Name == name {
			return true
		}
	}
	for _, e := range rec.Exports {
		if e.Name == name {
			return true
		}
	}
	return false
}

// ResolveBarrel follows re-export chains starting at startFile for name n:
// named re-exports are tried before wildcard ones; a visited set makes
// cycles return no result rather than erroring or looping forever.
func ResolveBarrel(index map[string]*BarrelInfo, allRecords map[string]*model.FileRecords, startFile, n string) (string, bool) {
	visited := make(map[string]bool)
	return resolveBarrelRec(index, allRecords, startFile, n, visited)
}

func resolveBarrelRec(index map[string]*BarrelInfo, allRecords map[string]*model.FileRecords, file, n string, visited map[string]bool) (string, bool) {
	if visited[file] {
		return "", false
	}
	visited[file] = true

	info, ok := index[file]
	if !ok {
		return "", false
	}

	for _, re := range info.Reexports {
		if re.Wildcard || re.Name != n {
			continue
		}
		if definesName(allRecords, re.TargetFile, n) {
			return re.TargetFile, true
		}
		if target, ok := index[re.TargetFile]; ok && target.IsBarrel {
			if found, ok := resolveBarrelRec(index, allRecords, re.TargetFile, n, visited); ok {
				return found, true
			}
		}
	}

	for _, re := range info.Reexports {
		if !re.Wildcard {
			continue
		}
		if definesName(allRecords, re.TargetFile, n) {
			return re.TargetFile, true
		}
		if target, ok := index[re.TargetFile]; ok && target.IsBarrel {
			if found, ok := resolveBarrelRec(index, allRecords, re.TargetFile, n, visited); ok {
				return found, true
			}
		}
	}

	return "", false
}
