package query

import (
	"fmt"
	"strings"

	"github.com/codegraph-dev/codegraph/internal/model"
)

// SymbolMatch pairs a matched node with its direct callers and callees.
type SymbolMatch struct {
	Node    Node
	Callers []HierarchyCaller
	Callees []Node
}

// HierarchyCaller is a caller of a method, annotated with the ancestor
// class path the call was actually attributed through — empty when the
// caller targeted the queried method directly rather than an inherited
// one.
type HierarchyCaller struct {
	Node          Node
	HierarchyPath []string // ancestor class names walked to reach this caller, root-most last
}

// LookupSymbol finds every node whose name contains substr and returns
// each with its callers and callees.
func (q *Querier) LookupSymbol(substr string) ([]SymbolMatch, error) {
	rows, err := q.db.Query(
		`SELECT id, name, kind, file, line, end_line FROM nodes WHERE kind != 'file' AND name LIKE ? ORDER BY file, line`,
		"%"+substr+"%")
	if err != nil {
		return nil, err
	}
	nodes, err := scanNodes(rows)
	if err != nil {
		return nil, err
	}

	matches := make([]SymbolMatch, 0, len(nodes))
	for _, n := range nodes {
		callers, err := q.callersWithHierarchy(n)
		if err != nil {
			return nil, err
		}
		callees, err := q.callees(n.ID)
		if err != nil {
			return nil, err
		}
		matches = append(matches, SymbolMatch{Node: n, Callers: callers, Callees: callees})
	}
	return matches, nil
}

// callees returns every node a calls edge from nodeID targets.
func (q *Querier) callees(nodeID int64) ([]Node, error) {
	rows, err := q.db.Query(
		`SELECT n.id, n.name, n.kind, n.file, n.line, n.end_line
		 FROM edges e JOIN nodes n ON n.id = e.target_id
		 WHERE e.source_id = ? AND e.kind = 'calls'`, nodeID)
	if err != nil {
		return nil, err
	}
	return scanNodes(rows)
}

// directCallers returns every node whose calls edge targets nodeID.
func (q *Querier) directCallers(nodeID int64) ([]Node, error) {
	rows, err := q.db.Query(
		`SELECT n.id, n.name, n.kind, n.file, n.line, n.end_line
		 FROM edges e JOIN nodes n ON n.id = e.source_id
		 WHERE e.target_id = ? AND e.kind = 'calls'`, nodeID)
	if err != nil {
		return nil, err
	}
	return scanNodes(rows)
}

// callersWithHierarchy handles method-hierarchy-aware lookup: when n is a
// method C.m, callers of A.m are included for every ancestor A of C
// reachable via extends, in addition to n's own direct callers.
func (q *Querier) callersWithHierarchy(n Node) ([]HierarchyCaller, error) {
	direct, err := q.directCallers(n.ID)
	if err != nil {
		return nil, err
	}
	out := make([]HierarchyCaller, 0, len(direct))
	for _, c := range direct {
		out = append(out, HierarchyCaller{Node: c})
	}

	if n.Kind != model.NodeMethod {
		return out, nil
	}
	className, methodName, ok := splitMethodName(n.Name)
	if !ok {
		return out, nil
	}

	ancestors, err := q.ancestorClasses(className)
	if err != nil {
		return nil, err
	}
	for _, path := range ancestors {
		ancestorMethod := path[len(path)-1] + "." + methodName
		rows, err := q.db.Query(
			`SELECT id, name, kind, file, line, end_line FROM nodes WHERE kind = 'method' AND name = ?`,
			ancestorMethod)
		if err != nil {
			return nil, err
		}
		ancestorNodes, err := scanNodes(rows)
		if err != nil {
			return nil, err
		}
		for _, an := range ancestorNodes {
			callers, err := q.directCallers(an.ID)
			if err != nil {
				return nil, err
			}
			for _, c := range callers {
				out = append(out, HierarchyCaller{Node: c, HierarchyPath: path})
			}
		}
	}
	return out, nil
}

func splitMethodName(name string) (class, method string, ok bool) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return "", "", false
	}
	return name[:i], name[i+1:], true
}

// classPath is one frontier entry of ancestorClasses: a class and the
// ancestor path that reached it.
type classPath struct {
	class string
	path  []string
}

// ancestorClasses walks extends edges from the class named className,
// returning one path per ancestor: the sequence of class names from
// className's immediate parent up to that ancestor.
func (q *Querier) ancestorClasses(className string) ([][]string, error) {
	var paths [][]string
	visited := map[string]bool{className: true}
	frontier := []classPath{{class: className}}

	for len(frontier) > 0 {
		var next []classPath
		for _, cp := range frontier {
			rows, err := q.db.Query(`
				SELECT p.name FROM edges e
				JOIN nodes c ON c.id = e.source_id
				JOIN nodes p ON p.id = e.target_id
				WHERE e.kind = 'extends' AND c.kind = 'class' AND c.name = ? AND p.kind = 'class'`, cp.class)
			if err != nil {
				return nil, fmt.Errorf("ancestor lookup for %s: %w", cp.class, err)
			}
			var parents []string
			for rows.Next() {
				var parent string
				if err := rows.Scan(&parent); err != nil {
					rows.Close()
					return nil, err
				}
				parents = append(parents, parent)
			}
			rows.Close()

			for _, parent := range parents {
				if visited[parent] {
					continue
				}
				visited[parent] = true
				newPath := append(append([]string{}, cp.path...), parent)
				paths = append(paths, newPath)
				next = append(next, classPath{class: parent, path: newPath})
			}
		}
		frontier = next
	}
	return paths, nil
}
