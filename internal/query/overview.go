package query

// Overview is an aggregate summary over the current graph: per-kind node
// counts, per-kind edge counts, and the total file count — a thin
// project-summary read alongside the structural queries, without adding
// any new table.
type Overview struct {
	FileCount   int
	NodesByKind map[string]int
	EdgesByKind map[string]int
}

// BuildOverview aggregates node and edge counts by kind.
func (q *Querier) BuildOverview() (*Overview, error) {
	ov := &Overview{NodesByKind: make(map[string]int), EdgesByKind: make(map[string]int)}

	rows, err := q.db.Query(`SELECT kind, COUNT(*) FROM nodes GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			rows.Close()
			return nil, err
		}
		ov.NodesByKind[kind] = n
		if kind == "file" {
			ov.FileCount = n
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = q.db.Query(`SELECT kind, COUNT(*) FROM edges GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		ov.EdgesByKind[kind] = n
	}
	return ov, rows.Err()
}
