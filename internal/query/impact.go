package query

import "fmt"

// reverseBFS walks edges backward (target -> source) from startIDs,
// restricted to the given edge kinds, up to maxDepth levels (0 = no
// bound), returning every discovered node annotated with the level it was
// first reached at. startIDs themselves are not included.
func (q *Querier) reverseBFS(startIDs []int64, kinds []string, maxDepth int) ([]Node, error) {
	if len(startIDs) == 0 || len(kinds) == 0 {
		return nil, nil
	}

	placeholders := make([]any, len(kinds))
	kindClause := ""
	for i, k := range kinds {
		if i > 0 {
			kindClause += ","
		}
		kindClause += "?"
		placeholders[i] = k
	}
	query := fmt.Sprintf(`SELECT source_id FROM edges WHERE target_id = ? AND kind IN (%s)`, kindClause)

	visited := make(map[int64]int)
	for _, id := range startIDs {
		visited[id] = 0
	}
	frontier := append([]int64{}, startIDs...)
	level := 0

	for len(frontier) > 0 && (maxDepth == 0 || level < maxDepth) {
		level++
		var next []int64
		for _, id := range frontier {
			args := append([]any{id}, placeholders...)
			rows, err := q.db.Query(query, args...)
			if err != nil {
				return nil, err
			}
			var sources []int64
			for rows.Next() {
				var src int64
				if err := rows.Scan(&src); err != nil {
					rows.Close()
					return nil, err
				}
				sources = append(sources, src)
			}
			rows.Close()

			for _, src := range sources {
				if _, seen := visited[src]; seen {
					continue
				}
				visited[src] = level
				next = append(next, src)
			}
		}
		frontier = next
	}

	out := make([]Node, 0, len(visited))
	for id, lvl := range visited {
		if lvl == 0 {
			continue // the start node itself, not part of the impact set
		}
		n, err := q.nodeByID(id)
		if err != nil {
			return nil, err
		}
		n.Level = lvl
		out = append(out, n)
	}
	return out, nil
}

// FileImpact finds every file that transitively imports file, via
// breadth-first reverse traversal over imports/imports-type edges,
// level-annotated.
func (q *Querier) FileImpact(file string, excludeTests bool) ([]Node, error) {
	fileID, err := q.fileNodeID(file)
	if err != nil {
		return nil, err
	}
	nodes, err := q.reverseBFS([]int64{fileID}, []string{"imports", "imports-type"}, 0)
	if err != nil {
		return nil, err
	}
	if !excludeTests {
		return nodes, nil
	}
	return filterTestFiles(nodes), nil
}

// FunctionImpact finds every caller of the node identified by nodeID,
// transitively, via breadth-first reverse traversal over calls edges
// bounded to maxDepth levels (0 = unbounded).
func (q *Querier) FunctionImpact(nodeID int64, maxDepth int) ([]Node, error) {
	return q.reverseBFS([]int64{nodeID}, []string{"calls"}, maxDepth)
}

func filterTestFiles(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if !IsTestFile(n.File) {
			out = append(out, n)
		}
	}
	return out
}
