package graph

import (
	"database/sql"
	"fmt"

	"github.com/codegraph-dev/codegraph/internal/model"
)

// insertNodeOrGet inserts n and returns its id, or the id of the row
// already occupying its (name, kind, file, line) slot when two extracted
// facts collapse onto the same node — silently deduplicating rather than
// failing the build.
func insertNodeOrGet(tx *sql.Tx, n model.Node) (int64, error) {
	row := tx.QueryRow(
		`INSERT INTO nodes (name, kind, file, line, end_line) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name, kind, file, line) DO UPDATE SET name = excluded.name
		 RETURNING id`,
		n.Name, string(n.Kind), n.File, n.Line, n.EndLine,
	)
	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("insert node %s: %w", n.Key(), err)
	}
	return id, nil
}

// pass1 materializes a file node for every enumerated file, then a node
// for every extracted definition. Export records
// are not separately materialized: an exported declaration is already
// captured as a Definition by the extractor that walked into it, and a
// bare re-export name has no kind or end line of its own to store — it is
// consulted only by barrel resolution (package resolve), never inserted.
func pass1(tx *sql.Tx, files []string, allRecords map[string]*model.FileRecords) (*index, error) {
	ix := newIndex()

	for _, file := range files {
		fileNode := model.Node{Name: file, Kind: model.NodeFile, File: file, Line: 0}
		id, err := insertNodeOrGet(tx, fileNode)
		if err != nil {
			return nil, err
		}
		ix.addFileNode(file, id)
	}

	for _, file := range files {
		rec, ok := allRecords[file]
		if !ok {
			continue
		}
		seen := make(map[model.NodeKey]bool, len(rec.Definitions))
		for _, d := range rec.Definitions {
			n := model.Node{Name: d.Name, Kind: d.Kind, File: file, Line: d.Line, EndLine: d.EndLine}
			key := n.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			id, err := insertNodeOrGet(tx, n)
			if err != nil {
				return nil, err
			}
			ix.addDefNode(n, id)
		}
	}

	return ix, nil
}
