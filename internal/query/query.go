// Package query implements the reverse-reachability query consumers:
// symbol lookup, file- and function-level impact, the module map, and
// diff impact, each built on the nodes/edges schema package store
// maintains.
package query

import (
	"database/sql"
	"regexp"

	"github.com/codegraph-dev/codegraph/internal/model"
	"github.com/codegraph-dev/codegraph/internal/store"
)

// testFilePattern identifies test artifacts, opt-in to every
// reverse-reachability query.
var testFilePattern = regexp.MustCompile(`\.(test|spec)\.|__test__|__tests__|\.stories\.`)

// IsTestFile reports whether path matches the stable test-file pattern.
func IsTestFile(path string) bool {
	return testFilePattern.MatchString(path)
}

// Node is a query result row: a nodes table record plus the traversal
// level it was discovered at, when applicable.
type Node struct {
	ID      int64
	Name    string
	Kind    model.NodeKind
	File    string
	Line    int
	EndLine *int
	Level   int
}

// Querier answers read-only queries against an opened store. It never
// writes; package graph owns all mutation.
type Querier struct {
	db *sql.DB
}

// New wraps an already-opened store for querying.
func New(st *store.Store) *Querier {
	return &Querier{db: st.DB()}
}

func (q *Querier) nodeByID(id int64) (Node, error) {
	var n Node
	var endLine sql.NullInt64
	row := q.db.QueryRow(`SELECT id, name, kind, file, line, end_line FROM nodes WHERE id = ?`, id)
	if err := row.Scan(&n.ID, &n.Name, &n.Kind, &n.File, &n.Line, &endLine); err != nil {
		return Node{}, err
	}
	if endLine.Valid {
		v := int(endLine.Int64)
		n.EndLine = &v
	}
	return n, nil
}

func (q *Querier) fileNodeID(file string) (int64, error) {
	var id int64
	err := q.db.QueryRow(`SELECT id FROM nodes WHERE kind = 'file' AND file = ? AND name = ?`, file, file).Scan(&id)
	return id, err
}

func scanNodes(rows *sql.Rows) ([]Node, error) {
	defer rows.Close()
	var out []Node
	for rows.Next() {
		var n Node
		var endLine sql.NullInt64
		if err := rows.Scan(&n.ID, &n.Name, &n.Kind, &n.File, &n.Line, &endLine); err != nil {
			return nil, err
		}
		if endLine.Valid {
			v := int(endLine.Int64)
			n.EndLine = &v
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
