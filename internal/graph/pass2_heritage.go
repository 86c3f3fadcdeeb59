package graph

import "github.com/codegraph-dev/codegraph/internal/model"

// heritageTargetKinds is the kind set a heritage relation may point at:
// extends always targets a class, implements may target a class or an
// interface.
var heritageTargetKinds = map[model.EdgeKind]map[model.NodeKind]bool{
	model.EdgeExtends:    {model.NodeClass: true},
	model.EdgeImplements: {model.NodeClass: true, model.NodeInterface: true},
}

// buildHeritageEdges resolves each class's extends/implements statements
// against every node sharing the superclass or interface's exact name,
// anywhere in the workspace — ambiguous by construction, since heritage
// resolution has no import to narrow it the way call resolution does.
func buildHeritageEdges(w *edgeWriter, ix *index, files []string, allRecords map[string]*model.FileRecords) error {
	for _, file := range files {
		rec, ok := allRecords[file]
		if !ok {
			continue
		}
		for _, h := range rec.Classes {
			sourceID, ok := ix.byKey[classKey(ix, file, h.ClassName)]
			if !ok {
				continue
			}
			kinds := heritageTargetKinds[h.Kind]
			for _, cand := range filterByKind(ix.byExactName[h.TargetName], kinds) {
				if err := w.insert(sourceID, cand.ID, h.Kind, model.ConfidenceStructural, false); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// classKey finds the NodeKey of the class definition named className in
// file by scanning the file-scoped index, since Heritage only carries the
// class's name, not its declaration line.
func classKey(ix *index, file, className string) model.NodeKey {
	for _, ref := range ix.byFile[file] {
		if ref.Name == className && ref.Kind == model.NodeClass {
			return model.NodeKey{Name: ref.Name, Kind: ref.Kind, File: ref.File, Line: ref.Line}
		}
	}
	return model.NodeKey{}
}
