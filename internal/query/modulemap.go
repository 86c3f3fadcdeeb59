package query

// RankedFile is one file node ranked by how many edges point into it —
// the module map's proxy for "how central is this file".
type RankedFile struct {
	File         string
	InboundEdges int
}

// ModuleMap ranks every file node by inbound edge count (edges whose
// target is that file node, i.e. import/reexport edges — a file is never
// the target of a calls or heritage edge), excluding test files when
// excludeTests is set, in descending order.
func (q *Querier) ModuleMap(excludeTests bool) ([]RankedFile, error) {
	rows, err := q.db.Query(`
		SELECT n.file, COUNT(e.id) AS inbound
		FROM nodes n
		LEFT JOIN edges e ON e.target_id = n.id
		WHERE n.kind = 'file'
		GROUP BY n.id
		ORDER BY inbound DESC, n.file ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RankedFile
	for rows.Next() {
		var rf RankedFile
		if err := rows.Scan(&rf.File, &rf.InboundEdges); err != nil {
			return nil, err
		}
		if excludeTests && IsTestFile(rf.File) {
			continue
		}
		out = append(out, rf)
	}
	return out, rows.Err()
}
