package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"minipy/interpreter-go/pkg/ast"
	"minipy/interpreter-go/pkg/parser/language"
)

// ModuleParser wraps a tree-sitter parser configured for Mini-Python files.
type ModuleParser struct {
	parser *sitter.Parser
}

// NewModuleParser constructs a parser with the Python grammar loaded.
func NewModuleParser() (*ModuleParser, error) {
	lang := language.Python()
	if lang == nil {
		return nil, fmt.Errorf("parser: python language not available")
	}

	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}

	return &ModuleParser{parser: p}, nil
}

// Close releases parser resources.
func (p *ModuleParser) Close() {
	if p == nil || p.parser == nil {
		return
	}
	p.parser.Close()
	p.parser = nil
}

// ParseProgram parses Mini-Python source. Top-level definitions become the
// program's functions; every other top-level statement, in order, forms the
// main block.
func (p *ModuleParser) ParseProgram(source []byte) (*ast.Program, error) {
	if p == nil || p.parser == nil {
		return nil, fmt.Errorf("parser: nil parser")
	}

	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser: no syntax tree produced")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.Kind() != "module" {
		return nil, fmt.Errorf("parser: unexpected root node")
	}

	ctx := newParseContext(source)
	if root.HasError() {
		bad := firstErrorNode(root)
		if bad == nil {
			bad = root
		}
		return nil, ctx.errorf(bad, "syntax error")
	}

	var (
		functions = make([]*ast.FunctionDefinition, 0)
		body      = make([]ast.Statement, 0)
	)
	for _, node := range namedChildren(root) {
		if node.Kind() == "function_definition" {
			fn, err := ctx.parseFunctionDefinition(node)
			if err != nil {
				return nil, err
			}
			functions = append(functions, fn)
			continue
		}
		stmt, err := ctx.parseStatement(node)
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}

	main := ast.NewBlock(body)
	annotateSpan(main, root)
	program := ast.NewProgram(functions, main)
	annotateSpan(program, root)
	return program, nil
}

func (ctx *parseContext) parseFunctionDefinition(node *sitter.Node) (*ast.FunctionDefinition, error) {
	if ctx.inFunction {
		return nil, ctx.errorf(node, "nested function definitions are not supported")
	}
	name, err := ctx.parseIdentifier(node.ChildByFieldName("name"))
	if err != nil {
		return nil, err
	}
	if node.ChildByFieldName("return_type") != nil || node.ChildByFieldName("type_parameters") != nil {
		return nil, ctx.errorf(node, "type annotations are not supported")
	}

	paramsNode := node.ChildByFieldName("parameters")
	params := make([]*ast.Identifier, 0)
	for _, child := range namedChildren(paramsNode) {
		if child.Kind() != "identifier" {
			return nil, ctx.errorf(child, "unsupported parameter %q", child.Kind())
		}
		id, err := ctx.parseIdentifier(child)
		if err != nil {
			return nil, err
		}
		params = append(params, id)
	}

	ctx.inFunction = true
	body, err := ctx.parseSuite(node.ChildByFieldName("body"))
	ctx.inFunction = false
	if err != nil {
		return nil, err
	}

	fn := ast.NewFunctionDefinition(name, params, body)
	annotateSpan(fn, node)
	return fn, nil
}
