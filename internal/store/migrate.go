package store

import "database/sql"

// migrateColumns adds end_line, confidence, and dynamic to pre-existing
// nodes/edges tables with backward-compatible defaults, so an older
// database opened by a newer binary loses no data.
func migrateColumns(db *sql.DB) error {
	nodeCols, err := columnSet(db, "nodes")
	if err != nil {
		return err
	}
	if !nodeCols["end_line"] {
		if _, err := db.Exec(`ALTER TABLE nodes ADD COLUMN end_line INTEGER`); err != nil {
			return err
		}
	}

	edgeCols, err := columnSet(db, "edges")
	if err != nil {
		return err
	}
	if !edgeCols["confidence"] {
		if _, err := db.Exec(`ALTER TABLE edges ADD COLUMN confidence REAL NOT NULL DEFAULT 1.0`); err != nil {
			return err
		}
	}
	if !edgeCols["dynamic"] {
		if _, err := db.Exec(`ALTER TABLE edges ADD COLUMN dynamic INTEGER NOT NULL DEFAULT 0`); err != nil {
			return err
		}
	}
	return nil
}

func columnSet(db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.Query(`PRAGMA table_info(` + table + `)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dflt sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}
