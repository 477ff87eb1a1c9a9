package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"minipy/interpreter-go/pkg/ast"
)

func (ctx *parseContext) parseStatement(node *sitter.Node) (ast.Statement, error) {
	if node == nil {
		return nil, ctx.errorf(node, "missing statement")
	}

	switch node.Kind() {
	case "expression_statement":
		return ctx.parseExpressionStatement(node)
	case "print_statement":
		return ctx.parsePrintStatement(node)
	case "return_statement":
		return ctx.parseReturnStatement(node)
	case "if_statement":
		return ctx.parseIfStatement(node)
	case "for_statement":
		return ctx.parseForStatement(node)
	case "pass_statement":
		return annotateStatement(ast.NewBlock(nil), node), nil
	case "block":
		return ctx.parseSuite(node)
	case "function_definition":
		return nil, ctx.errorf(node, "nested function definitions are not supported")
	default:
		return nil, ctx.errorf(node, "unsupported statement %s", node.Kind())
	}
}

// parseSuite reads an indented block into a Block statement.
func (ctx *parseContext) parseSuite(node *sitter.Node) (*ast.Block, error) {
	if node == nil {
		return nil, ctx.errorf(node, "missing block")
	}
	if node.Kind() != "block" {
		stmt, err := ctx.parseStatement(node)
		if err != nil {
			return nil, err
		}
		block := ast.NewBlock([]ast.Statement{stmt})
		annotateSpan(block, node)
		return block, nil
	}

	children := namedChildren(node)
	body := make([]ast.Statement, 0, len(children))
	for _, child := range children {
		stmt, err := ctx.parseStatement(child)
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	block := ast.NewBlock(body)
	annotateSpan(block, node)
	return block, nil
}

func (ctx *parseContext) parseExpressionStatement(node *sitter.Node) (ast.Statement, error) {
	children := namedChildren(node)
	if len(children) != 1 {
		return nil, ctx.errorf(node, "tuple expressions are not supported")
	}
	inner := children[0]

	switch inner.Kind() {
	case "assignment":
		return ctx.parseAssignment(inner, node)
	case "augmented_assignment":
		return nil, ctx.errorf(inner, "augmented assignment is not supported")
	}

	if stmt, ok, err := ctx.parsePrintCall(inner, node); ok || err != nil {
		return stmt, err
	}

	expr, err := ctx.parseExpression(inner)
	if err != nil {
		return nil, err
	}
	return annotateStatement(ast.NewExpressionStatement(expr), node), nil
}

// parsePrintCall recognises print(e) written as a call expression.
func (ctx *parseContext) parsePrintCall(node, stmtNode *sitter.Node) (ast.Statement, bool, error) {
	if node.Kind() != "call" {
		return nil, false, nil
	}
	callee := node.ChildByFieldName("function")
	if callee == nil || callee.Kind() != "identifier" || ctx.text(callee) != "print" {
		return nil, false, nil
	}
	args, err := ctx.parseArguments(node.ChildByFieldName("arguments"))
	if err != nil {
		return nil, true, err
	}
	if len(args) != 1 {
		return nil, true, ctx.errorf(node, "print expects exactly one argument")
	}
	return annotateStatement(ast.NewPrintStatement(args[0]), stmtNode), true, nil
}

// parsePrintStatement accepts the keyword form the grammar still produces
// for `print e`.
func (ctx *parseContext) parsePrintStatement(node *sitter.Node) (ast.Statement, error) {
	children := namedChildren(node)
	if len(children) != 1 || children[0].Kind() == "chevron" {
		return nil, ctx.errorf(node, "print expects exactly one argument")
	}
	arg, err := ctx.parseExpression(children[0])
	if err != nil {
		return nil, err
	}
	return annotateStatement(ast.NewPrintStatement(arg), node), nil
}

func (ctx *parseContext) parseAssignment(node, stmtNode *sitter.Node) (ast.Statement, error) {
	if node.ChildByFieldName("type") != nil {
		return nil, ctx.errorf(node, "type annotations are not supported")
	}
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	if left == nil || right == nil {
		return nil, ctx.errorf(node, "incomplete assignment")
	}
	if right.Kind() == "assignment" {
		return nil, ctx.errorf(right, "chained assignment is not supported")
	}

	value, err := ctx.parseExpression(right)
	if err != nil {
		return nil, err
	}

	switch left.Kind() {
	case "identifier":
		target, err := ctx.parseIdentifier(left)
		if err != nil {
			return nil, err
		}
		return annotateStatement(ast.NewAssignment(target, value), stmtNode), nil
	case "subscript":
		object, index, err := ctx.parseSubscriptParts(left)
		if err != nil {
			return nil, err
		}
		return annotateStatement(ast.NewIndexAssignment(object, index, value), stmtNode), nil
	default:
		return nil, ctx.errorf(left, "cannot assign to %s", left.Kind())
	}
}

func (ctx *parseContext) parseReturnStatement(node *sitter.Node) (ast.Statement, error) {
	if !ctx.inFunction {
		return nil, ctx.errorf(node, "return outside function")
	}
	children := namedChildren(node)
	var arg ast.Expression
	switch len(children) {
	case 0:
		arg = annotateExpression(ast.NewNoneLiteral(), node)
	case 1:
		expr, err := ctx.parseExpression(children[0])
		if err != nil {
			return nil, err
		}
		arg = expr
	default:
		return nil, ctx.errorf(node, "tuple expressions are not supported")
	}
	return annotateStatement(ast.NewReturnStatement(arg), node), nil
}

// parseIfStatement folds elif clauses into nested if statements hanging off
// the else branch.
func (ctx *parseContext) parseIfStatement(node *sitter.Node) (ast.Statement, error) {
	cond, err := ctx.parseExpression(node.ChildByFieldName("condition"))
	if err != nil {
		return nil, err
	}
	then, err := ctx.parseSuite(node.ChildByFieldName("consequence"))
	if err != nil {
		return nil, err
	}

	type branch struct {
		node *sitter.Node
		cond ast.Expression
		body *ast.Block
	}
	var (
		elifs     []branch
		otherwise ast.Statement
	)
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "elif_clause":
			c, err := ctx.parseExpression(child.ChildByFieldName("condition"))
			if err != nil {
				return nil, err
			}
			body, err := ctx.parseSuite(child.ChildByFieldName("consequence"))
			if err != nil {
				return nil, err
			}
			elifs = append(elifs, branch{node: child, cond: c, body: body})
		case "else_clause":
			body, err := ctx.parseSuite(child.ChildByFieldName("body"))
			if err != nil {
				return nil, err
			}
			otherwise = body
		}
	}

	for idx := len(elifs) - 1; idx >= 0; idx-- {
		elif := elifs[idx]
		stmt := ast.NewIfStatement(elif.cond, elif.body, otherwise)
		annotateSpan(stmt, elif.node)
		otherwise = stmt
	}

	return annotateStatement(ast.NewIfStatement(cond, then, otherwise), node), nil
}

func (ctx *parseContext) parseForStatement(node *sitter.Node) (ast.Statement, error) {
	if node.ChildByFieldName("alternative") != nil {
		return nil, ctx.errorf(node, "for-else is not supported")
	}
	left := node.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return nil, ctx.errorf(node, "for loop target must be a name")
	}
	variable, err := ctx.parseIdentifier(left)
	if err != nil {
		return nil, err
	}
	iterable, err := ctx.parseExpression(node.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	body, err := ctx.parseSuite(node.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	return annotateStatement(ast.NewForLoop(variable, iterable, body), node), nil
}
