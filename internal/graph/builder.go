package graph

import (
	"database/sql"
	"fmt"

	"github.com/codegraph-dev/codegraph/internal/logging"
	"github.com/codegraph-dev/codegraph/internal/model"
	"github.com/codegraph-dev/codegraph/internal/resolve"
	"github.com/codegraph-dev/codegraph/internal/store"
)

var log = logging.For("graph")

// Build runs the two-pass assembly over every file's
// already-extracted records: Pass 1 materializes nodes inside one write
// transaction (after clearing the store, so a rebuild is always measured
// from empty), and Pass 2 resolves import, call, and heritage edges inside
// a second. A storage failure in either pass aborts that transaction,
// leaving the previous graph (or, in Pass 2's case, Pass 1's freshly
// committed nodes with no edges yet) rather than a half-written graph.
//
// files must be the full, stable, lexicographically ordered set from
// package enumerate — Pass 2's global lookups (tiers 3 and 4 of call
// resolution, and heritage resolution) search across every file in
// allRecords, not just the one being rebuilt. Build always measures the
// graph from empty; watch-mode incremental updates use RebuildFile instead,
// which applies a single file's delta without touching the rest of the
// store.
func Build(st *store.Store, files []string, allRecords map[string]*model.FileRecords, r *resolve.Resolver) error {
	barrelIdx := resolve.BuildBarrelIndex(allRecords, r)

	var ix *index
	err := st.Transaction(func(tx *sql.Tx) error {
		if err := store.ClearAll(tx); err != nil {
			return fmt.Errorf("clear store: %w", err)
		}
		var err error
		ix, err = pass1(tx, files, allRecords)
		if err != nil {
			return fmt.Errorf("pass 1 (nodes): %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Infow("pass 1 complete", "files", len(files))

	err = st.Transaction(func(tx *sql.Tx) error {
		w := newEdgeWriter(tx)
		if err := buildImportEdges(w, ix, files, allRecords, r, barrelIdx); err != nil {
			return fmt.Errorf("pass 2 (import edges): %w", err)
		}
		if err := buildCallEdges(w, ix, barrelIdx, files, allRecords, r); err != nil {
			return fmt.Errorf("pass 2 (call edges): %w", err)
		}
		if err := buildHeritageEdges(w, ix, files, allRecords); err != nil {
			return fmt.Errorf("pass 2 (heritage edges): %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Infow("pass 2 complete", "files", len(files))
	return nil
}

// RebuildFile applies the incremental delta for a single changed file: clear
// every node whose file is file and every edge touching one of those nodes,
// re-materialize file's nodes from its current records, then re-derive only
// the edges file itself is the source of (its imports, its calls, its
// heritage statements). Edges other files hold that point into file are not
// recomputed here — they were already removed by the clear, and restoring
// them would mean re-running Pass 2 over every file that might reference
// file, which is a full Build, not a delta. Everything outside file's own
// node set is left exactly as it was, and the whole delta runs in one
// transaction.
func RebuildFile(st *store.Store, file string, allRecords map[string]*model.FileRecords, r *resolve.Resolver) error {
	barrelIdx := resolve.BuildBarrelIndex(allRecords, r)

	err := st.Transaction(func(tx *sql.Tx) error {
		if err := store.ClearFile(tx, file); err != nil {
			return fmt.Errorf("clear %s: %w", file, err)
		}

		fileNode := model.Node{Name: file, Kind: model.NodeFile, File: file, Line: 0}
		if _, err := insertNodeOrGet(tx, fileNode); err != nil {
			return fmt.Errorf("insert file node: %w", err)
		}

		if rec, ok := allRecords[file]; ok {
			seen := make(map[model.NodeKey]bool, len(rec.Definitions))
			for _, d := range rec.Definitions {
				n := model.Node{Name: d.Name, Kind: d.Kind, File: file, Line: d.Line, EndLine: d.EndLine}
				if seen[n.Key()] {
					continue
				}
				seen[n.Key()] = true
				if _, err := insertNodeOrGet(tx, n); err != nil {
					return err
				}
			}
		}

		ix, err := loadIndexFromStore(tx)
		if err != nil {
			return fmt.Errorf("load index: %w", err)
		}

		w := newEdgeWriter(tx)
		scoped := []string{file}
		if err := buildImportEdges(w, ix, scoped, allRecords, r, barrelIdx); err != nil {
			return fmt.Errorf("import edges for %s: %w", file, err)
		}
		if err := buildCallEdges(w, ix, barrelIdx, scoped, allRecords, r); err != nil {
			return fmt.Errorf("call edges for %s: %w", file, err)
		}
		if err := buildHeritageEdges(w, ix, scoped, allRecords); err != nil {
			return fmt.Errorf("heritage edges for %s: %w", file, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Infow("rebuilt file", "file", file)
	return nil
}
