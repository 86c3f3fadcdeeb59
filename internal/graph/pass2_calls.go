package graph

import (
	"path"

	"github.com/codegraph-dev/codegraph/internal/model"
	"github.com/codegraph-dev/codegraph/internal/resolve"
)

// buildImportedNames maps each name a file imports to the file it was
// resolved from, for the tier-1 call resolution priority. A name imported
// more than once keeps its last binding.
func buildImportedNames(rec *model.FileRecords, file string, r *resolve.Resolver) map[string]string {
	out := make(map[string]string)
	for _, imp := range rec.Imports {
		if len(imp.Bindings) == 0 {
			continue
		}
		target, ok := r.Resolve(imp.Specifier, file)
		if !ok {
			continue
		}
		for _, name := range imp.Bindings {
			out[name] = target
		}
	}
	return out
}

// attributeCaller finds the definition in rec whose start line is the
// greatest one not exceeding callLine: ties (two definitions starting on
// the same line) resolve to the one that appears last among
// rec.Definitions. A call with no enclosing definition is attributed to
// the file node itself.
func attributeCaller(ix *index, file string, rec *model.FileRecords, callLine int) int64 {
	callerID := ix.fileNodeID[file]
	bestLine := -1
	for _, d := range rec.Definitions {
		if d.Line <= callLine && d.Line >= bestLine {
			bestLine = d.Line
			if id, ok := ix.byKey[model.NodeKey{Name: d.Name, Kind: d.Kind, File: file, Line: d.Line}]; ok {
				callerID = id
			}
		}
	}
	return callerID
}

// confidenceFor scores a non-imported call resolution by path proximity
// between caller and target file.
func confidenceFor(callerFile, targetFile string) float64 {
	if callerFile == targetFile {
		return model.ConfidenceSameFile
	}
	if path.Dir(callerFile) == path.Dir(targetFile) {
		return model.ConfidenceSameDirectory
	}
	if path.Dir(path.Dir(callerFile)) == path.Dir(path.Dir(targetFile)) {
		return model.ConfidenceSameAncestor
	}
	return model.ConfidenceLow
}

// resolveCallTargets runs a four-tier priority (imported binding, same
// file, method-name suffix, global name match) and returns the first tier
// that yields any match, paired with whether the match came via an
// import (and so is pinned to confidence 1.0).
func resolveCallTargets(ix *index, barrelIdx map[string]*resolve.BarrelInfo, allRecords map[string]*model.FileRecords, importedNames map[string]string, callerFile, name string) (candidates []nodeRef, viaImport bool) {
	// Tier 1: the name is bound by an import in the caller's file.
	if target, ok := importedNames[name]; ok {
		matches := filterCallable(filterByName(ix.byFile[target], name))
		if len(matches) == 0 {
			if info, ok := barrelIdx[target]; ok && info.IsBarrel {
				if ultimate, ok := resolve.ResolveBarrel(barrelIdx, allRecords, target, name); ok {
					matches = filterCallable(filterByName(ix.byFile[ultimate], name))
				}
			}
		}
		if len(matches) > 0 {
			return matches, true
		}
	}

	// Tier 2: a same-file definition.
	if matches := filterCallable(filterByName(ix.byFile[callerFile], name)); len(matches) > 0 {
		return matches, false
	}

	// Tier 3: a method whose qualified name ends in ".name".
	if matches := ix.byMethodSuffix[name]; len(matches) > 0 {
		return matches, false
	}

	// Tier 4: any callable definition sharing this exact name, anywhere.
	if matches := filterCallable(ix.byExactName[name]); len(matches) > 0 {
		return matches, false
	}

	return nil, false
}

// buildCallEdges attributes each call site to its enclosing definition (or
// the file, lacking one) and resolves its target through the four-tier
// priority, inserting one scored, possibly-dynamic edge per candidate.
func buildCallEdges(w *edgeWriter, ix *index, barrelIdx map[string]*resolve.BarrelInfo, files []string, allRecords map[string]*model.FileRecords, r *resolve.Resolver) error {
	for _, file := range files {
		rec, ok := allRecords[file]
		if !ok {
			continue
		}
		importedNames := buildImportedNames(rec, file, r)

		for _, call := range rec.Calls {
			callerID := attributeCaller(ix, file, rec, call.Line)
			candidates, viaImport := resolveCallTargets(ix, barrelIdx, allRecords, importedNames, file, call.Name)

			for _, cand := range candidates {
				confidence := model.ConfidenceSameFile
				if !viaImport {
					confidence = confidenceFor(file, cand.File)
				}
				if err := w.insert(callerID, cand.ID, model.EdgeCalls, confidence, call.Dynamic); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
