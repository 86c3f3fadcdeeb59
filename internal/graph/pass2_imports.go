package graph

import (
	"github.com/codegraph-dev/codegraph/internal/model"
	"github.com/codegraph-dev/codegraph/internal/resolve"
)

// buildImportEdges resolves every import and re-export statement to a
// target file node and records one edge per statement, plus a second
// 0.9-confidence edge hopping past any barrel the import targets straight
// to the file that actually defines the imported name.
func buildImportEdges(w *edgeWriter, ix *index, files []string, allRecords map[string]*model.FileRecords, r *resolve.Resolver, barrelIdx map[string]*resolve.BarrelInfo) error {
	for _, file := range files {
		rec, ok := allRecords[file]
		if !ok {
			continue
		}
		sourceID, ok := ix.fileNodeID[file]
		if !ok {
			continue
		}

		for _, imp := range rec.Imports {
			target, ok := r.Resolve(imp.Specifier, file)
			if !ok {
				continue
			}
			targetID, ok := ix.fileNodeID[target]
			if !ok {
				continue
			}

			kind := model.EdgeImports
			switch {
			case imp.Reexport:
				kind = model.EdgeReexports
			case imp.TypeOnly:
				kind = model.EdgeImportsType
			}
			if err := w.insert(sourceID, targetID, kind, model.ConfidenceStructural, false); err != nil {
				return err
			}

			if info, ok := barrelIdx[target]; ok && info.IsBarrel {
				for _, name := range imp.Bindings {
					if ultimate, ok := resolve.ResolveBarrel(barrelIdx, allRecords, target, name); ok {
						if ultimateID, ok := ix.fileNodeID[ultimate]; ok && ultimateID != targetID {
							if err := w.insert(sourceID, ultimateID, model.EdgeImports, model.ConfidenceBarrelHop, false); err != nil {
								return err
							}
						}
					}
				}
			}
		}
	}
	return nil
}
