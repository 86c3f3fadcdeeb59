// Package model defines the persistent graph data model: nodes, edges, and
// the kinds that classify them. It is the common vocabulary every other
// package (extractors, resolver, graph builder, store, query) shares.
package model

import "fmt"

// NodeKind classifies a Node. Program-language kinds and HCL kinds share
// the same enumeration because both are stored in the same nodes table.
type NodeKind string

const (
	NodeFile      NodeKind = "file"
	NodeFunction  NodeKind = "function"
	NodeMethod    NodeKind = "method"
	NodeClass     NodeKind = "class"
	NodeInterface NodeKind = "interface"
	NodeType      NodeKind = "type"
	NodeArrow     NodeKind = "arrow function"

	// HCL/Terraform dialect kinds.
	NodeResource  NodeKind = "resource"
	NodeData      NodeKind = "data"
	NodeVariable  NodeKind = "variable"
	NodeModule    NodeKind = "module"
	NodeOutput    NodeKind = "output"
	NodeLocals    NodeKind = "locals"
	NodeTerraform NodeKind = "terraform"
	NodeProvider  NodeKind = "provider"
)

// EdgeKind classifies an Edge.
type EdgeKind string

const (
	EdgeImports     EdgeKind = "imports"
	EdgeImportsType EdgeKind = "imports-type"
	EdgeReexports   EdgeKind = "reexports"
	EdgeCalls       EdgeKind = "calls"
	EdgeExtends     EdgeKind = "extends"
	EdgeImplements  EdgeKind = "implements"
)

// Confidence values for edges: the calls tiers are scored by how certain
// the resolver was about the call's target; ConfidenceBarrelHop marks the
// extra imports edge past a barrel; ConfidenceStructural is every other
// non-calls edge.
const (
	ConfidenceSameFile      = 1.0
	ConfidenceSameDirectory = 0.7
	ConfidenceSameAncestor  = 0.5
	ConfidenceLow           = 0.3
	ConfidenceBarrelHop     = 0.9
	ConfidenceStructural    = 1.0 // imports, extends, implements, non-calls edges
)

// Node represents a source-code artifact. EndLine is nullable: files carry
// Line == 0 and EndLine == nil, and any definition lacking a syntactic
// range does the same.
type Node struct {
	ID      int64
	Name    string
	Kind    NodeKind
	File    string
	Line    int
	EndLine *int
}

// Key returns the tuple the nodes table is unique on: (name, kind, file, line).
func (n Node) Key() NodeKey {
	return NodeKey{Name: n.Name, Kind: n.Kind, File: n.File, Line: n.Line}
}

// NodeKey is the uniqueness tuple for a Node, usable as a map key during
// pass-1 node materialization to silently deduplicate repeats.
type NodeKey struct {
	Name string
	Kind NodeKind
	File string
	Line int
}

func (k NodeKey) String() string {
	return fmt.Sprintf("%s|%s|%s|%d", k.Name, k.Kind, k.File, k.Line)
}

// Edge is a directed, typed, weighted link between two nodes.
type Edge struct {
	ID       int64
	SourceID int64
	TargetID int64
	Kind     EdgeKind
	// Confidence is 1.0 for non-calls edges, except the 0.9 imports edge
	// that hops past a barrel to the defining file; calls edges are scored
	// into {0.3, 0.5, 0.7, 1.0} by how the target was resolved.
	Confidence float64
	// Dynamic is true when a calls edge's dispatch form could not be
	// resolved statically with certainty.
	Dynamic bool
}
