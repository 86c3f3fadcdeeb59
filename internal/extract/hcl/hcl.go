// Package hcl extracts definitions from HCL/Terraform configuration. Each
// top-level block of a type listed in blockKinds becomes a definition whose
// name encodes its block type and labels (other block types are skipped); a module block whose source attribute is a relative path
// yields an import record. HCL produces no call edges.
package hcl

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/codegraph-dev/codegraph/internal/model"
)

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

// blockKinds maps an HCL block type to its graph node kind.
var blockKinds = map[string]model.NodeKind{
	"resource":  model.NodeResource,
	"data":      model.NodeData,
	"variable":  model.NodeVariable,
	"module":    model.NodeModule,
	"output":    model.NodeOutput,
	"locals":    model.NodeLocals,
	"terraform": model.NodeTerraform,
	"provider":  model.NodeProvider,
}

// Extract parses source as HCL and returns its definitions and any
// module-source import records. A parse error is a skippable per-file
// error; the caller decides how to log it.
func (e *Extractor) Extract(source []byte, path string) (*model.FileRecords, error) {
	f, diags := hclsyntax.ParseConfig(source, path, hcl.InitialPos)
	if diags.HasErrors() && f == nil {
		return nil, diags
	}

	rec := &model.FileRecords{Path: path, Language: "hcl"}

	body, ok := f.Body.(*hclsyntax.Body)
	if !ok {
		return rec, nil
	}

	for _, block := range body.Blocks {
		kind, known := blockKinds[block.Type]
		if !known {
			continue
		}

		name := blockName(block.Type, block.Labels)
		line := block.DefRange().Start.Line
		endLine := block.Body.SrcRange.End.Line

		rec.Definitions = append(rec.Definitions, model.Definition{
			Name:    name,
			Kind:    kind,
			Line:    line,
			EndLine: &endLine,
		})

		if block.Type == "module" {
			if attr, ok := block.Body.Attributes["source"]; ok {
				if lit, ok := stringLiteral(attr.Expr); ok && isRelative(lit) {
					rec.Imports = append(rec.Imports, model.ImportRecord{
						Specifier: lit,
						Line:      attr.SrcRange.Start.Line,
					})
				}
			}
		}
	}

	return rec, nil
}

func blockName(blockType string, labels []string) string {
	parts := append([]string{blockType}, labels...)
	return strings.Join(parts, ".")
}

// stringLiteral extracts a bare string literal expression's value,
// handling the common single-part template hclsyntax produces for
// `source = "./modules/x"`.
func stringLiteral(expr hclsyntax.Expression) (string, bool) {
	tmpl, ok := expr.(*hclsyntax.TemplateExpr)
	if !ok || len(tmpl.Parts) != 1 {
		return "", false
	}
	lit, ok := tmpl.Parts[0].(*hclsyntax.LiteralValueExpr)
	if !ok {
		return "", false
	}
	if lit.Val.Type().FriendlyName() != "string" {
		return "", false
	}
	return lit.Val.AsString(), true
}

func isRelative(s string) bool {
	return strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../")
}
