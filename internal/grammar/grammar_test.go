package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codegraph-dev/codegraph/internal/grammar"
)

func TestLanguageFor_KnownAndUnknownExtensions(t *testing.T) {
	assert.Equal(t, grammar.LangTS, grammar.LanguageFor(".ts"))
	assert.Equal(t, grammar.LangTSX, grammar.LanguageFor(".tsx"))
	assert.Equal(t, grammar.LangJS, grammar.LanguageFor(".jsx"))
	assert.Equal(t, grammar.LangPython, grammar.LanguageFor(".py"))
	assert.Equal(t, grammar.LangHCL, grammar.LanguageFor(".tf"))
	assert.Equal(t, "", grammar.LanguageFor(".md"))
}

func TestDispatcher_CoreGrammarsAlwaysAvailable(t *testing.T) {
	d := grammar.New()
	assert.True(t, d.Available(grammar.LangTS))
	assert.True(t, d.Available(grammar.LangTSX))
	assert.True(t, d.Available(grammar.LangJS))
	assert.True(t, d.Available(grammar.LangHCL))
}

func TestDispatcher_TreeSitterLanguageForUnavailableErrors(t *testing.T) {
	d := grammar.New()
	_, err := d.TreeSitterLanguage("cobol")
	assert.Error(t, err)
}
