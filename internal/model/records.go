package model

// FileRecords is the pure in-memory output of the Symbol Extractor (C3) for
// one file: definitions, exports, imports, call sites, and class-heritage
// statements. The Graph Builder (C5) is the only consumer; it never reaches
// back into the parse tree.
type FileRecords struct {
	Path        string
	Language    string
	Definitions []Definition
	Exports     []Export
	Imports     []ImportRecord
	Calls       []CallSite
	Classes     []Heritage
}

// Definition is a single named, kinded, line-ranged declaration.
type Definition struct {
	Name      string
	Kind      NodeKind
	Line      int
	EndLine   *int
	Decorator []string // Python decorators; empty for other languages.
}

// Export records that a name is defined (or re-exported) and made visible
// outside the file, so barrel resolution can confirm a re-export actually
// terminates at a real definition.
type Export struct {
	Name string
	Line int
}

// ImportRecord is one import or re-export statement.
type ImportRecord struct {
	// Specifier is the raw module/path string as written in source
	// (e.g. "./b.js", "react", "./impl").
	Specifier string
	// Bindings are the imported local names: named specifiers, a default
	// import, or a namespace import normalized from "* as X" to "X". Empty
	// for a bare `import './x'` side-effect import or a wildcard re-export.
	Bindings []string
	Line     int
	TypeOnly bool
	// Reexport is true for `export ... from '...'` statements.
	Reexport bool
	// Wildcard is true for `export * from '...'`.
	Wildcard bool
}

// CallSite is a single call expression.
type CallSite struct {
	// Name is the textual callee name: the bare identifier, the property
	// name of a member expression, or the resolved name for a
	// call/apply/bind or computed-literal dispatch.
	Name    string
	Line    int
	Dynamic bool
}

// Heritage is one extends or implements relation declared by a class.
type Heritage struct {
	// ClassName is the declaring class's own Name (as recorded in
	// Definitions), used to find its node at graph-build time.
	ClassName string
	Kind      EdgeKind // EdgeExtends or EdgeImplements
	// TargetName is the superclass or interface name as written in source.
	TargetName string
	Line       int
}
