package query

import "math"

// LineRange is an inclusive line range within one file, as produced by
// package diffscan from a unified diff hunk.
type LineRange struct {
	Start int
	End   int
}

// DiffImpact finds every definition whose [line, end_line] overlaps any of
// the given per-file line ranges, falling back to "next definition's
// line - 1" (or +inf if last in file) when end_line is null, then reverse
// traverses calls edges from each affected definition up to maxDepth
// levels.
func (q *Querier) DiffImpact(ranges map[string][]LineRange, maxDepth int) ([]Node, error) {
	var affected []int64
	seen := map[int64]bool{}

	for file, fileRanges := range ranges {
		defs, err := q.definitionsInFile(file)
		if err != nil {
			return nil, err
		}
		for i, d := range defs {
			end := effectiveEndLine(d, defs, i)
			for _, r := range fileRanges {
				if d.Line <= r.End && end >= r.Start {
					if !seen[d.ID] {
						seen[d.ID] = true
						affected = append(affected, d.ID)
					}
					break
				}
			}
		}
	}

	if len(affected) == 0 {
		return nil, nil
	}
	return q.reverseBFS(affected, []string{"calls"}, maxDepth)
}

// definitionsInFile returns every non-file node in file ordered by line,
// the order effectiveEndLine's "next definition" fallback relies on.
func (q *Querier) definitionsInFile(file string) ([]Node, error) {
	rows, err := q.db.Query(
		`SELECT id, name, kind, file, line, end_line FROM nodes WHERE file = ? AND kind != 'file' ORDER BY line`,
		file)
	if err != nil {
		return nil, err
	}
	return scanNodes(rows)
}

func effectiveEndLine(d Node, defs []Node, index int) int {
	if d.EndLine != nil {
		return *d.EndLine
	}
	if index+1 < len(defs) {
		return defs[index+1].Line - 1
	}
	return math.MaxInt32
}
