// Package grammar implements a fixed mapping from file extension to parser
// binding, with explicit, once-per-run capability discovery for optional
// grammars rather than lazy-loading them on first use.
package grammar

import (
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	tsJavaScript "github.com/smacker/go-tree-sitter/javascript"
	tsPython "github.com/smacker/go-tree-sitter/python"
	tsTypeScript "github.com/smacker/go-tree-sitter/typescript/typescript"
	tsTSX "github.com/smacker/go-tree-sitter/typescript/tsx"
)

// Language names, stable identifiers used across extract/resolve/graph.
const (
	LangTSX        = "tsx"
	LangTS         = "typescript"
	LangJS         = "javascript"
	LangPython     = "python"
	LangHCL        = "hcl"
)

// extToLang is the fixed extension -> language mapping.
var extToLang = map[string]string{
	".tsx":  LangTSX,
	".ts":   LangTS,
	".js":   LangJS,
	".jsx":  LangJS,
	".mjs":  LangJS,
	".cjs":  LangJS,
	".py":   LangPython,
	".tf":   LangHCL,
	".hcl":  LangHCL,
}

// Capabilities is an immutable table recording which optional grammars
// initialized successfully. Python and HCL are optional: a build must
// tolerate either being entirely absent. TS/TSX/JS are mandatory core
// grammars.
type Capabilities struct {
	available map[string]bool
}

// Dispatcher maps files to parser bindings and exposes the capabilities
// table. Construction probes every optional grammar exactly once; nothing
// downstream re-probes.
type Dispatcher struct {
	caps     Capabilities
	tsLangs  map[string]*sitter.Language // tree-sitter-backed languages only
	warnOnce sync.Once
	onWarn   func(lang string)
}

// New constructs a Dispatcher, probing optional grammars once.
func New() *Dispatcher {
	d := &Dispatcher{
		caps:    Capabilities{available: make(map[string]bool)},
		tsLangs: make(map[string]*sitter.Language),
	}

	d.tsLangs[LangTSX] = tsTSX.GetLanguage()
	d.tsLangs[LangTS] = tsTypeScript.GetLanguage()
	d.tsLangs[LangJS] = tsJavaScript.GetLanguage()
	d.caps.available[LangTSX] = d.tsLangs[LangTSX] != nil
	d.caps.available[LangTS] = d.tsLangs[LangTS] != nil
	d.caps.available[LangJS] = d.tsLangs[LangJS] != nil

	d.caps.available[LangPython] = probePython(d.tsLangs)
	d.caps.available[LangHCL] = true // hclsyntax is a pure-Go parser, always present

	return d
}

func probePython(dst map[string]*sitter.Language) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	lang := tsPython.GetLanguage()
	if lang == nil {
		return false
	}
	dst[LangPython] = lang
	return true
}

// LanguageFor maps a file extension to a language name, or "" if untracked.
func LanguageFor(ext string) string {
	return extToLang[ext]
}

// Available reports whether lang's grammar initialized successfully.
func (d *Dispatcher) Available(lang string) bool {
	return d.caps.available[lang]
}

// TreeSitterLanguage returns the tree-sitter grammar for lang, for the
// tsfamily and python extractors. HCL is not tree-sitter-backed and is not
// available through this method.
func (d *Dispatcher) TreeSitterLanguage(lang string) (*sitter.Language, error) {
	l, ok := d.tsLangs[lang]
	if !ok || l == nil {
		return nil, fmt.Errorf("grammar unavailable: %s", lang)
	}
	return l, nil
}
