// Package diffscan turns a unified diff into the (file, line ranges) input
// package query's DiffImpact needs.
package diffscan

import (
	"strings"

	diff "github.com/sourcegraph/go-diff/diff"

	"github.com/codegraph-dev/codegraph/internal/query"
)

// Parse reads a unified diff (as produced by `git diff` or `git log -p`)
// and returns, for each touched file, the new-side line range of each hunk
// (context lines included; hunks with no new-side lines are skipped).
func Parse(diffText []byte) (map[string][]query.LineRange, error) {
	fileDiffs, err := diff.ParseMultiFileDiff(diffText)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]query.LineRange)
	for _, fd := range fileDiffs {
		name := cleanName(fd.NewName)
		if name == "" || name == "/dev/null" {
			name = cleanName(fd.OrigName)
		}
		if name == "" || name == "/dev/null" {
			continue
		}
		for _, h := range fd.Hunks {
			if h.NewLines == 0 {
				continue
			}
			start := int(h.NewStartLine)
			end := start + int(h.NewLines) - 1
			out[name] = append(out[name], query.LineRange{Start: start, End: end})
		}
	}
	return out, nil
}

// cleanName strips the git "a/" or "b/" prefix a unified diff header uses.
func cleanName(name string) string {
	name = strings.TrimPrefix(name, "a/")
	name = strings.TrimPrefix(name, "b/")
	return name
}
