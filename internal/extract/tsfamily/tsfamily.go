// Package tsfamily extracts definitions, imports, calls, and class
// heritage from a JS/TS-family parse tree. It walks the tree with a
// dispatch over node-kind switches rather than tree-sitter queries,
// because caller/callee shape matching (the four call forms) and
// heritage-clause extraction are easier to express as explicit tree
// structure than as .scm patterns.
package tsfamily

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codegraph-dev/codegraph/internal/model"
)

// Extractor walks a JS/TS-family parse tree into model.FileRecords.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

// Extract produces the file's definitions, exports, imports, calls, and
// class-heritage records.
func (e *Extractor) Extract(root *sitter.Node, source []byte, path string) *model.FileRecords {
	rec := &model.FileRecords{Path: path}
	w := &walker{source: source, rec: rec}
	w.walk(root, nil)
	return rec
}

type walker struct {
	source []byte
	rec    *model.FileRecords
	// classStack holds the enclosing class name(s) for Class.method naming.
	classStack []string
}

func text(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}

func lineOf(n *sitter.Node) int { return int(n.StartPoint().Row) + 1 }

func endLineOf(n *sitter.Node) *int {
	l := int(n.EndPoint().Row) + 1
	return &l
}

func (w *walker) walk(n *sitter.Node, parent *sitter.Node) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "function_declaration", "generator_function_declaration":
		w.addFunctionDecl(n)

	case "class_declaration", "class":
		w.addClassDecl(n)
		// class body children (methods) handled via the recursive descent
		// below; we still need to push/pop the class name for naming.
		name := text(n.ChildByFieldName("name"), w.source)
		w.classStack = append(w.classStack, name)
		w.walkChildren(n)
		w.classStack = w.classStack[:len(w.classStack)-1]
		return

	case "method_definition":
		w.addMethodDef(n)

	case "interface_declaration":
		w.addInterfaceDecl(n)

	case "type_alias_declaration":
		w.addTypeAlias(n)

	case "variable_declarator":
		w.addArrowOrFunctionBinding(n)

	case "import_statement":
		w.addImport(n)

	case "export_statement":
		w.addExport(n)

	case "call_expression":
		w.addCall(n)
	}

	w.walkChildren(n)
}

func (w *walker) walkChildren(n *sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		w.walk(n.Child(i), n)
	}
}

func (w *walker) prefixedName(name string) string {
	if len(w.classStack) == 0 {
		return name
	}
	return w.classStack[len(w.classStack)-1] + "." + name
}

func (w *walker) addFunctionDecl(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	w.rec.Definitions = append(w.rec.Definitions, model.Definition{
		Name:    text(nameNode, w.source),
		Kind:    model.NodeFunction,
		Line:    lineOf(n),
		EndLine: endLineOf(n),
	})
}

func (w *walker) addClassDecl(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := text(nameNode, w.source)
	w.rec.Definitions = append(w.rec.Definitions, model.Definition{
		Name:    name,
		Kind:    model.NodeClass,
		Line:    lineOf(n),
		EndLine: endLineOf(n),
	})

	heritage := n.ChildByFieldName("heritage")
	if heritage == nil {
		// tree-sitter-javascript nests this as a direct "class_heritage" child.
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c.Type() == "class_heritage" {
				heritage = c
				break
			}
		}
	}
	if heritage != nil {
		w.extractHeritage(heritage, name)
	}
}

func (w *walker) extractHeritage(heritage *sitter.Node, className string) {
	for i := 0; i < int(heritage.ChildCount()); i++ {
		c := heritage.Child(i)
		switch c.Type() {
		case "extends_clause":
			if v := c.ChildByFieldName("value"); v != nil {
				w.rec.Classes = append(w.rec.Classes, model.Heritage{
					ClassName: className, Kind: model.EdgeExtends,
					TargetName: baseIdentifier(text(v, w.source)), Line: lineOf(c),
				})
			} else {
				// tree-sitter-javascript: extends_clause's lone expression child.
				for j := 0; j < int(c.ChildCount()); j++ {
					cc := c.Child(j)
					if cc.Type() == "identifier" || cc.Type() == "member_expression" {
						w.rec.Classes = append(w.rec.Classes, model.Heritage{
							ClassName: className, Kind: model.EdgeExtends,
							TargetName: baseIdentifier(text(cc, w.source)), Line: lineOf(cc),
						})
					}
				}
			}
		case "implements_clause":
			for j := 0; j < int(c.ChildCount()); j++ {
				cc := c.Child(j)
				if cc.Type() == "type_identifier" || cc.Type() == "generic_type" {
					w.rec.Classes = append(w.rec.Classes, model.Heritage{
						ClassName: className, Kind: model.EdgeImplements,
						TargetName: baseIdentifier(text(cc, w.source)), Line: lineOf(cc),
					})
				}
			}
		}
	}
}

func baseIdentifier(s string) string {
	// Strips generic args and member-access prefixes: "Foo<T>" -> "Foo",
	// "ns.Foo" -> "Foo".
	if i := strings.IndexByte(s, '<'); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

func (w *walker) addMethodDef(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	raw := text(nameNode, w.source)
	w.rec.Definitions = append(w.rec.Definitions, model.Definition{
		Name:    w.prefixedName(raw),
		Kind:    model.NodeMethod,
		Line:    lineOf(n),
		EndLine: endLineOf(n),
	})
}

func (w *walker) addInterfaceDecl(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := text(nameNode, w.source)
	w.rec.Definitions = append(w.rec.Definitions, model.Definition{
		Name:    name,
		Kind:    model.NodeInterface,
		Line:    lineOf(n),
		EndLine: endLineOf(n),
	})

	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		switch member.Type() {
		case "method_signature", "property_signature":
			mn := member.ChildByFieldName("name")
			if mn == nil {
				continue
			}
			w.rec.Definitions = append(w.rec.Definitions, model.Definition{
				Name:    name + "." + text(mn, w.source),
				Kind:    model.NodeMethod,
				Line:    lineOf(member),
				EndLine: endLineOf(member),
			})
		}
	}
}

func (w *walker) addTypeAlias(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	w.rec.Definitions = append(w.rec.Definitions, model.Definition{
		Name:    text(nameNode, w.source),
		Kind:    model.NodeType,
		Line:    lineOf(n),
		EndLine: endLineOf(n),
	})
}

// addArrowOrFunctionBinding handles `const foo = () => {}` / `const foo =
// function() {}` — an arrow/function expression bound in a lexical
// variable declarator.
func (w *walker) addArrowOrFunctionBinding(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	valueNode := n.ChildByFieldName("value")
	if nameNode == nil || valueNode == nil {
		return
	}
	if nameNode.Type() != "identifier" {
		return
	}
	switch valueNode.Type() {
	case "arrow_function":
		w.rec.Definitions = append(w.rec.Definitions, model.Definition{
			Name:    text(nameNode, w.source),
			Kind:    model.NodeArrow,
			Line:    lineOf(n),
			EndLine: endLineOf(valueNode),
		})
	case "function_expression", "generator_function":
		w.rec.Definitions = append(w.rec.Definitions, model.Definition{
			Name:    text(nameNode, w.source),
			Kind:    model.NodeFunction,
			Line:    lineOf(n),
			EndLine: endLineOf(valueNode),
		})
	}
}

func (w *walker) addImport(n *sitter.Node) {
	sourceNode := n.ChildByFieldName("source")
	if sourceNode == nil {
		return
	}
	specifier := unquote(text(sourceNode, w.source))

	typeOnly := false
	if n.ChildCount() > 1 && n.Child(1).Type() == "type" {
		typeOnly = true
	}

	var bindings []string
	clause := n.ChildByFieldName("import_clause")
	if clause == nil {
		// tree-sitter-javascript nests the clause without a named field on
		// some grammar versions; scan children defensively.
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c.Type() == "import_clause" {
				clause = c
				break
			}
		}
	}
	if clause != nil {
		bindings = collectImportBindings(clause, w.source)
	}

	w.rec.Imports = append(w.rec.Imports, model.ImportRecord{
		Specifier: specifier,
		Bindings:  bindings,
		Line:      lineOf(n),
		TypeOnly:  typeOnly,
	})
}

func collectImportBindings(clause *sitter.Node, source []byte) []string {
	var out []string
	var visit func(*sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "identifier":
			out = append(out, text(n, source))
		case "namespace_import":
			// "* as X" -> X (normalized to its bound name).
			for i := 0; i < int(n.ChildCount()); i++ {
				if c := n.Child(i); c.Type() == "identifier" {
					out = append(out, text(c, source))
				}
			}
			return
		case "import_specifier":
			nameNode := n.ChildByFieldName("name")
			aliasNode := n.ChildByFieldName("alias")
			if aliasNode != nil {
				out = append(out, text(aliasNode, source))
			} else if nameNode != nil {
				out = append(out, text(nameNode, source))
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(clause)
	return out
}

func (w *walker) addExport(n *sitter.Node) {
	sourceNode := n.ChildByFieldName("source")
	wildcard := false
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "*" {
			wildcard = true
			break
		}
	}

	if sourceNode != nil {
		// export { a, b } from '...'; export * from '...'; export * as ns
		// from '...'.
		specifier := unquote(text(sourceNode, w.source))
		typeOnly := n.ChildCount() > 1 && n.Child(1).Type() == "type"

		var names []string
		clause := n.ChildByFieldName("export_clause")
		if clause == nil {
			for i := 0; i < int(n.ChildCount()); i++ {
				if c := n.Child(i); c.Type() == "export_clause" {
					clause = c
					break
				}
			}
		}
		if clause != nil {
			names = collectExportedNames(clause, w.source)
		}

		w.rec.Imports = append(w.rec.Imports, model.ImportRecord{
			Specifier: specifier,
			Bindings:  names,
			Line:      lineOf(n),
			TypeOnly:  typeOnly,
			Reexport:  true,
			Wildcard:  wildcard,
		})
		return
	}

	// export of a local declaration: export function foo() {} / export
	// class Foo {} / export const x = ...; record the exported names so
	// barrel classification and named-reexport target confirmation can
	// check "does this file actually define X".
	decl := n.ChildByFieldName("declaration")
	if decl == nil {
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			switch c.Type() {
			case "function_declaration", "generator_function_declaration",
				"class_declaration", "interface_declaration",
				"type_alias_declaration", "lexical_declaration", "variable_declaration":
				decl = c
			}
		}
	}
	if decl == nil {
		return
	}
	for _, name := range exportedNamesFromDeclaration(decl, w.source) {
		w.rec.Exports = append(w.rec.Exports, model.Export{Name: name, Line: lineOf(n)})
	}
}

func exportedNamesFromDeclaration(decl *sitter.Node, source []byte) []string {
	switch decl.Type() {
	case "function_declaration", "generator_function_declaration",
		"class_declaration", "interface_declaration", "type_alias_declaration":
		if nameNode := decl.ChildByFieldName("name"); nameNode != nil {
			return []string{text(nameNode, source)}
		}
	case "lexical_declaration", "variable_declaration":
		var names []string
		for i := 0; i < int(decl.ChildCount()); i++ {
			c := decl.Child(i)
			if c.Type() == "variable_declarator" {
				if nameNode := c.ChildByFieldName("name"); nameNode != nil {
					names = append(names, text(nameNode, source))
				}
			}
		}
		return names
	}
	return nil
}

func collectExportedNames(clause *sitter.Node, source []byte) []string {
	var out []string
	for i := 0; i < int(clause.ChildCount()); i++ {
		c := clause.Child(i)
		if c.Type() != "export_specifier" {
			continue
		}
		nameNode := c.ChildByFieldName("name")
		if nameNode != nil {
			out = append(out, text(nameNode, source))
		}
	}
	return out
}

// dispatchMethods are property names that make a call dynamic: invoking
// through call/apply/bind obscures the real target.
var dispatchMethods = map[string]bool{"call": true, "apply": true, "bind": true}

func (w *walker) addCall(n *sitter.Node) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}
	line := lineOf(n)

	switch fn.Type() {
	case "identifier":
		// shape 1: foo(...)
		w.rec.Calls = append(w.rec.Calls, model.CallSite{Name: text(fn, w.source), Line: line})

	case "member_expression":
		obj := fn.ChildByFieldName("object")
		prop := fn.ChildByFieldName("property")
		if prop == nil {
			return
		}
		propName := text(prop, w.source)

		if dispatchMethods[propName] {
			// shape 3: fn.call|apply|bind(...) -> dynamic, name is the inner
			// object or its own property if nested.
			name := propName
			if obj != nil {
				if obj.Type() == "member_expression" {
					if innerProp := obj.ChildByFieldName("property"); innerProp != nil {
						name = text(innerProp, w.source)
					}
				} else {
					name = text(obj, w.source)
				}
			}
			w.rec.Calls = append(w.rec.Calls, model.CallSite{Name: name, Line: line, Dynamic: true})
			return
		}

		// shape 2: obj.foo(...) -> name = foo, non-dynamic.
		w.rec.Calls = append(w.rec.Calls, model.CallSite{Name: propName, Line: line})

	case "subscript_expression":
		obj := fn.ChildByFieldName("object")
		index := fn.ChildByFieldName("index")
		if obj == nil || index == nil {
			return
		}
		if index.Type() == "string" {
			// shape 4: obj["foo"](...) with literal string key -> dynamic.
			lit := unquote(text(index, w.source))
			w.rec.Calls = append(w.rec.Calls, model.CallSite{Name: lit, Line: line, Dynamic: true})
		}
		// Other computed forms (non-literal index) are not recorded.
	}
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '`' && s[len(s)-1] == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
