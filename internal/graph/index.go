// Package graph assembles the symbol-and-edge graph: two-pass construction
// of nodes and typed, confidence-scored edges into the persistent store,
// consulting package resolve for every import specifier or name lookup
// that must map to a canonical path.
package graph

import (
	"database/sql"

	"github.com/codegraph-dev/codegraph/internal/model"
)

// nodeRef is a lightweight handle into the in-memory node index built
// during Pass 1, reused throughout Pass 2 for caller attribution and call
// target resolution without round-tripping through the store.
type nodeRef struct {
	ID   int64
	Name string
	Kind model.NodeKind
	File string
	Line int
}

// index holds every in-memory lookup Pass 2 needs, built once after Pass 1
// commits its nodes.
type index struct {
	byKey      map[model.NodeKey]int64
	fileNodeID map[string]int64
	// byExactName indexes every non-file node by its exact Name, for the
	// global-lookup tier and heritage resolution.
	byExactName map[string][]nodeRef
	// byMethodSuffix indexes method-kind nodes by the segment after the
	// last ".", for the method-style suffix-match tier.
	byMethodSuffix map[string][]nodeRef
	// byFile indexes every non-file node by its File, for same-file and
	// caller-attribution lookups.
	byFile map[string][]nodeRef
}

func newIndex() *index {
	return &index{
		byKey:          make(map[model.NodeKey]int64),
		fileNodeID:     make(map[string]int64),
		byExactName:    make(map[string][]nodeRef),
		byMethodSuffix: make(map[string][]nodeRef),
		byFile:         make(map[string][]nodeRef),
	}
}

func (ix *index) addFileNode(file string, id int64) {
	ix.fileNodeID[file] = id
	ix.byKey[model.NodeKey{Name: file, Kind: model.NodeFile, File: file, Line: 0}] = id
}

func (ix *index) addDefNode(n model.Node, id int64) {
	ix.byKey[n.Key()] = id
	ref := nodeRef{ID: id, Name: n.Name, Kind: n.Kind, File: n.File, Line: n.Line}
	ix.byExactName[n.Name] = append(ix.byExactName[n.Name], ref)
	ix.byFile[n.File] = append(ix.byFile[n.File], ref)
	if n.Kind == model.NodeMethod {
		if suffix := methodSuffix(n.Name); suffix != "" {
			ix.byMethodSuffix[suffix] = append(ix.byMethodSuffix[suffix], ref)
		}
	}
}

// loadIndexFromStore rebuilds the same lookup structures pass1 builds in
// memory, but from rows already committed to the store. A scoped
// single-file rebuild needs this: it only re-inserts nodes for the one
// changed file, so every other file's lookup entries have to come from what
// is already on disk rather than from a fresh pass1 over every file.
func loadIndexFromStore(tx *sql.Tx) (*index, error) {
	ix := newIndex()
	rows, err := tx.Query(`SELECT id, name, kind, file, line FROM nodes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name, kind, file string
		var line int
		if err := rows.Scan(&id, &name, &kind, &file, &line); err != nil {
			return nil, err
		}
		k := model.NodeKind(kind)
		if k == model.NodeFile {
			ix.addFileNode(file, id)
			continue
		}
		ix.addDefNode(model.Node{Name: name, Kind: k, File: file, Line: line}, id)
	}
	return ix, rows.Err()
}

func methodSuffix(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return ""
}

// callableKinds is the kind set searched by every call-resolution tier
// except the method-suffix tier.
var callableKinds = map[model.NodeKind]bool{
	model.NodeFunction:  true,
	model.NodeMethod:    true,
	model.NodeClass:     true,
	model.NodeInterface: true,
}

func filterCallable(refs []nodeRef) []nodeRef {
	out := make([]nodeRef, 0, len(refs))
	for _, r := range refs {
		if callableKinds[r.Kind] {
			out = append(out, r)
		}
	}
	return out
}

func filterByName(refs []nodeRef, name string) []nodeRef {
	out := make([]nodeRef, 0)
	for _, r := range refs {
		if r.Name == name {
			out = append(out, r)
		}
	}
	return out
}

func filterByKind(refs []nodeRef, kinds map[model.NodeKind]bool) []nodeRef {
	out := make([]nodeRef, 0, len(refs))
	for _, r := range refs {
		if kinds[r.Kind] {
			out = append(out, r)
		}
	}
	return out
}
