package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"minipy/interpreter-go/pkg/ast"
)

// SyntaxError reports source the front end cannot turn into a program: text
// the grammar rejects, or Python constructs outside Mini-Python.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parser: %d:%d: %s", e.Line, e.Column, e.Message)
}

// parseContext carries the module source so helpers share one view of the
// file, plus whether statements are being read inside a function body.
type parseContext struct {
	source     []byte
	inFunction bool
}

func newParseContext(source []byte) *parseContext {
	return &parseContext{source: source}
}

func (ctx *parseContext) errorf(node *sitter.Node, format string, args ...any) error {
	span := spanFromNode(node)
	return &SyntaxError{Line: span.Start.Line, Column: span.Start.Column, Message: fmt.Sprintf(format, args...)}
}

func (ctx *parseContext) text(node *sitter.Node) string {
	return sliceContent(node, ctx.source)
}

func (ctx *parseContext) parseIdentifier(node *sitter.Node) (*ast.Identifier, error) {
	if node == nil || node.Kind() != "identifier" {
		return nil, ctx.errorf(node, "expected identifier")
	}
	id := ast.ID(ctx.text(node))
	annotateSpan(id, node)
	return id, nil
}

func sliceContent(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := int(node.StartByte())
	end := int(node.EndByte())
	if start < 0 || end < start || end > len(source) {
		return ""
	}
	return string(source[start:end])
}

func isIgnorableNode(node *sitter.Node) bool {
	if node == nil {
		return true
	}
	switch node.Kind() {
	case "comment", "line_continuation":
		return true
	default:
		return false
	}
}

// namedChildren lists the named children of node, skipping comments.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || isIgnorableNode(child) {
			continue
		}
		out = append(out, child)
	}
	return out
}

// operatorTokens lists the anonymous children of node (operator keywords
// and punctuation) in source order.
func operatorTokens(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, 1)
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		out = append(out, child)
	}
	return out
}

// firstErrorNode finds the leftmost ERROR or MISSING node below node.
func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}
