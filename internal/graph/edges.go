package graph

import (
	"database/sql"

	"github.com/codegraph-dev/codegraph/internal/model"
)

// edgeKey dedups identical *structural* edges within a single build, since
// the same relationship can be stated more than once in source (two imports
// of the same file, a class implementing the same interface twice, and so
// on). Calls edges are exempt: a caller invoking the same target more than
// once is a distinct call site each time, and downstream readers are
// expected to deduplicate those themselves if they only care about
// reachability rather than call-site count.
type edgeKey struct {
	source int64
	target int64
	kind   model.EdgeKind
}

type edgeWriter struct {
	tx   *sql.Tx
	seen map[edgeKey]bool
}

func newEdgeWriter(tx *sql.Tx) *edgeWriter {
	return &edgeWriter{tx: tx, seen: make(map[edgeKey]bool)}
}

// insert writes one edge, skipping self-edges (a node never points to
// itself). Non-calls edges that exactly repeat an earlier one in this build
// are dropped; calls edges are always written, since repeat call sites to
// the same target are independent facts.
func (w *edgeWriter) insert(source, target int64, kind model.EdgeKind, confidence float64, dynamic bool) error {
	if source == target {
		return nil
	}
	if kind != model.EdgeCalls {
		key := edgeKey{source: source, target: target, kind: kind}
		if w.seen[key] {
			return nil
		}
		w.seen[key] = true
	}
	_, err := w.tx.Exec(
		`INSERT INTO edges (source_id, target_id, kind, confidence, dynamic) VALUES (?, ?, ?, ?, ?)`,
		source, target, string(kind), confidence, dynamic,
	)
	return err
}
