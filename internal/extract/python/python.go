// Package python extracts function/class definitions (with Class.method
// naming for methods), decorators, rightmost-attribute call names, and
// import statements including relative-aware "from X import Y" forms from
// a Python parse tree.
package python

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codegraph-dev/codegraph/internal/model"
)

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Extract(root *sitter.Node, source []byte, path string) *model.FileRecords {
	rec := &model.FileRecords{Path: path}
	w := &walker{source: source, rec: rec}
	w.walk(root, false)
	return rec
}

type walker struct {
	source            []byte
	rec               *model.FileRecords
	classStack        []string
	pendingDecorators []string
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

// walk descends the tree; inClassBody tracks whether the current scope is
// the direct body of a class, so a nested def becomes a method rather than
// a function even though classes can nest arbitrarily.
func (w *walker) walk(n *sitter.Node, inClassBody bool) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "function_definition":
		w.addFunctionDef(n, inClassBody)
		if body := n.ChildByFieldName("body"); body != nil {
			w.walkBlock(body, false)
		}
		return

	case "class_definition":
		w.addClassDef(n)
		name := text(n.ChildByFieldName("name"), w.source)
		w.classStack = append(w.classStack, name)
		if body := n.ChildByFieldName("body"); body != nil {
			w.walkBlock(body, true)
		}
		w.classStack = w.classStack[:len(w.classStack)-1]
		return

	case "import_statement":
		w.addImportStatement(n)

	case "import_from_statement":
		w.addImportFrom(n)

	case "call":
		w.addCall(n)

	case "decorated_definition":
		decs := collectDecorators(n, w.source)
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c.Type() == "function_definition" || c.Type() == "class_definition" {
				w.pendingDecorators = decs
				w.walk(c, inClassBody)
				w.pendingDecorators = nil
			}
		}
		return
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		w.walk(n.Child(i), inClassBody)
	}
}

// walkBlock walks a statement block (class or function body), used so
// direct children inherit the right inClassBody flag without re-deriving
// it from parent-type checks.
func (w *walker) walkBlock(block *sitter.Node, inClassBody bool) {
	for i := 0; i < int(block.ChildCount()); i++ {
		w.walk(block.Child(i), inClassBody)
	}
}

func collectDecorators(decorated *sitter.Node, source []byte) []string {
	var out []string
	for i := 0; i < int(decorated.ChildCount()); i++ {
		c := decorated.Child(i)
		if c.Type() == "decorator" {
			out = append(out, text(c, source))
		}
	}
	return out
}

func (w *walker) addFunctionDef(n *sitter.Node, inClassBody bool) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := text(nameNode, w.source)
	kind := model.NodeFunction
	if inClassBody && len(w.classStack) > 0 {
		kind = model.NodeMethod
		name = w.classStack[len(w.classStack)-1] + "." + name
	}
	w.rec.Definitions = append(w.rec.Definitions, model.Definition{
		Name:      name,
		Kind:      kind,
		Line:      lineOf(n),
		EndLine:   endLineOf(n),
		Decorator: w.pendingDecorators,
	})
}

func (w *walker) addClassDef(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := text(nameNode, w.source)
	w.rec.Definitions = append(w.rec.Definitions, model.Definition{
		Name:      name,
		Kind:      model.NodeClass,
		Line:      lineOf(n),
		EndLine:   endLineOf(n),
		Decorator: w.pendingDecorators,
	})

	// superclasses: argument_list of identifiers/attributes.
	if sc := n.ChildByFieldName("superclasses"); sc != nil {
		for i := 0; i < int(sc.ChildCount()); i++ {
			c := sc.Child(i)
			if c.Type() == "identifier" || c.Type() == "attribute" {
				w.rec.Classes = append(w.rec.Classes, model.Heritage{
					ClassName:  name,
					Kind:       model.EdgeExtends,
					TargetName: rightmostName(c, w.source),
					Line:       lineOf(c),
				})
			}
		}
	}
}

// addImportStatement handles "import x.y[, a.b as z]".
func (w *walker) addImportStatement(n *sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "dotted_name":
			w.rec.Imports = append(w.rec.Imports, model.ImportRecord{
				Specifier: text(c, w.source),
				Line:      lineOf(n),
			})
		case "aliased_import":
			nameNode := c.ChildByFieldName("name")
			aliasNode := c.ChildByFieldName("alias")
			if nameNode == nil {
				continue
			}
			binding := text(nameNode, w.source)
			if aliasNode != nil {
				binding = text(aliasNode, w.source)
			}
			w.rec.Imports = append(w.rec.Imports, model.ImportRecord{
				Specifier: text(nameNode, w.source),
				Bindings:  []string{binding},
				Line:      lineOf(n),
			})
		}
	}
}

// addImportFrom handles "from x import y[, z as w]" and "from x import *",
// including relative forms ("from . import y", "from ..pkg import y").
func (w *walker) addImportFrom(n *sitter.Node) {
	moduleNode := n.ChildByFieldName("module_name")
	var specifier string
	if moduleNode != nil {
		specifier = text(moduleNode, w.source)
	}

	wildcard := false
	var bindings []string
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "wildcard_import":
			wildcard = true
		case "dotted_name":
			if c == moduleNode {
				continue
			}
			bindings = append(bindings, text(c, w.source))
		case "aliased_import":
			nameNode := c.ChildByFieldName("name")
			aliasNode := c.ChildByFieldName("alias")
			if nameNode == nil {
				continue
			}
			binding := text(nameNode, w.source)
			if aliasNode != nil {
				binding = text(aliasNode, w.source)
			}
			bindings = append(bindings, binding)
		}
	}

	// A leading run of "." / ".." tokens before the module name marks a
	// relative import; leave the dots in the specifier so the relative-aware
	// resolver can tell.
	prefix := ""
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == moduleNode {
			break
		}
		if c.Type() == "import" || c.Type() == "from" {
			continue
		}
		if c.Type() == "." {
			prefix += "."
		}
	}
	specifier = prefix + specifier

	w.rec.Imports = append(w.rec.Imports, model.ImportRecord{
		Specifier: specifier,
		Bindings:  bindings,
		Line:      lineOf(n),
		Wildcard:  wildcard,
	})
}

func (w *walker) addCall(n *sitter.Node) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}
	name := rightmostName(fn, w.source)
	if name == "" {
		return
	}
	w.rec.Calls = append(w.rec.Calls, model.CallSite{Name: name, Line: lineOf(n)})
}

// rightmostName returns the rightmost identifier of a dotted expression:
// for "a.b.c" it's "c"; for a bare identifier it's itself.
func rightmostName(n *sitter.Node, source []byte) string {
	switch n.Type() {
	case "identifier":
		return text(n, source)
	case "attribute":
		if attr := n.ChildByFieldName("attribute"); attr != nil {
			return text(attr, source)
		}
	case "call":
		if fn := n.ChildByFieldName("function"); fn != nil {
			return rightmostName(fn, source)
		}
	}
	return ""
}
