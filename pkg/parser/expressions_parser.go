package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"minipy/interpreter-go/pkg/ast"
)

var binaryOperators = map[string]ast.BinaryOperator{
	"+":  ast.BinaryOperatorAdd,
	"-":  ast.BinaryOperatorSub,
	"*":  ast.BinaryOperatorMul,
	"/":  ast.BinaryOperatorDiv,
	"//": ast.BinaryOperatorDiv,
	"%":  ast.BinaryOperatorMod,
}

var comparisonOperators = map[string]ast.BinaryOperator{
	"==": ast.BinaryOperatorEq,
	"!=": ast.BinaryOperatorNeq,
	"<>": ast.BinaryOperatorNeq,
	"<":  ast.BinaryOperatorLt,
	"<=": ast.BinaryOperatorLe,
	">":  ast.BinaryOperatorGt,
	">=": ast.BinaryOperatorGe,
}

func (ctx *parseContext) parseExpression(node *sitter.Node) (ast.Expression, error) {
	if node == nil {
		return nil, ctx.errorf(node, "missing expression")
	}

	switch node.Kind() {
	case "identifier":
		return ctx.parseIdentifier(node)
	case "integer":
		return ctx.parseIntegerLiteral(node, false)
	case "string", "concatenated_string":
		return ctx.parseStringLiteral(node)
	case "true":
		return annotateExpression(ast.NewBooleanLiteral(true), node), nil
	case "false":
		return annotateExpression(ast.NewBooleanLiteral(false), node), nil
	case "none":
		return annotateExpression(ast.NewNoneLiteral(), node), nil
	case "list":
		return ctx.parseListLiteral(node)
	case "parenthesized_expression":
		children := namedChildren(node)
		if len(children) != 1 {
			return nil, ctx.errorf(node, "malformed parenthesized expression")
		}
		return ctx.parseExpression(children[0])
	case "call":
		return ctx.parseCall(node)
	case "subscript":
		object, index, err := ctx.parseSubscriptParts(node)
		if err != nil {
			return nil, err
		}
		return annotateExpression(ast.NewIndexExpression(object, index), node), nil
	case "binary_operator":
		return ctx.parseBinaryOperator(node)
	case "unary_operator":
		return ctx.parseUnaryOperator(node)
	case "not_operator":
		operand, err := ctx.parseExpression(node.ChildByFieldName("argument"))
		if err != nil {
			return nil, err
		}
		return annotateExpression(ast.NewUnaryExpression(ast.UnaryOperatorNot, operand), node), nil
	case "boolean_operator":
		return ctx.parseBooleanOperator(node)
	case "comparison_operator":
		return ctx.parseComparison(node)
	case "float":
		return nil, ctx.errorf(node, "floating point numbers are not supported")
	case "tuple", "expression_list":
		return nil, ctx.errorf(node, "tuple expressions are not supported")
	default:
		return nil, ctx.errorf(node, "unsupported expression %s", node.Kind())
	}
}

func (ctx *parseContext) parseListLiteral(node *sitter.Node) (ast.Expression, error) {
	children := namedChildren(node)
	elements := make([]ast.Expression, 0, len(children))
	for _, child := range children {
		expr, err := ctx.parseExpression(child)
		if err != nil {
			return nil, err
		}
		elements = append(elements, expr)
	}
	return annotateExpression(ast.NewListLiteral(elements), node), nil
}

func (ctx *parseContext) parseCall(node *sitter.Node) (ast.Expression, error) {
	callee := node.ChildByFieldName("function")
	if callee == nil || callee.Kind() != "identifier" {
		return nil, ctx.errorf(node, "only named functions can be called")
	}
	id, err := ctx.parseIdentifier(callee)
	if err != nil {
		return nil, err
	}
	args, err := ctx.parseArguments(node.ChildByFieldName("arguments"))
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewFunctionCall(id, args), node), nil
}

func (ctx *parseContext) parseArguments(node *sitter.Node) ([]ast.Expression, error) {
	if node == nil {
		return nil, ctx.errorf(node, "missing argument list")
	}
	if node.Kind() != "argument_list" {
		return nil, ctx.errorf(node, "unsupported argument form %s", node.Kind())
	}
	children := namedChildren(node)
	args := make([]ast.Expression, 0, len(children))
	for _, child := range children {
		switch child.Kind() {
		case "keyword_argument":
			return nil, ctx.errorf(child, "keyword arguments are not supported")
		case "list_splat", "dictionary_splat":
			return nil, ctx.errorf(child, "argument unpacking is not supported")
		}
		expr, err := ctx.parseExpression(child)
		if err != nil {
			return nil, err
		}
		args = append(args, expr)
	}
	return args, nil
}

// parseSubscriptParts splits `value[index]`; the value is always the first
// named child.
func (ctx *parseContext) parseSubscriptParts(node *sitter.Node) (ast.Expression, ast.Expression, error) {
	children := namedChildren(node)
	if len(children) != 2 {
		return nil, nil, ctx.errorf(node, "subscript expects exactly one index")
	}
	for _, tok := range operatorTokens(node) {
		if tok.Kind() == "," {
			return nil, nil, ctx.errorf(tok, "subscript expects exactly one index")
		}
	}
	if children[1].Kind() == "slice" {
		return nil, nil, ctx.errorf(children[1], "slices are not supported")
	}
	object, err := ctx.parseExpression(children[0])
	if err != nil {
		return nil, nil, err
	}
	index, err := ctx.parseExpression(children[1])
	if err != nil {
		return nil, nil, err
	}
	return object, index, nil
}

func (ctx *parseContext) parseBinaryOperator(node *sitter.Node) (ast.Expression, error) {
	opNode := node.ChildByFieldName("operator")
	op, ok := binaryOperators[ctx.text(opNode)]
	if !ok {
		return nil, ctx.errorf(opNode, "unsupported operator %s", ctx.text(opNode))
	}
	left, err := ctx.parseExpression(node.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	right, err := ctx.parseExpression(node.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewBinaryExpression(op, left, right), node), nil
}

// parseUnaryOperator folds a minus sign into an integer literal only when the
// magnitude alone does not fit, so -9223372036854775808 is still expressible.
func (ctx *parseContext) parseUnaryOperator(node *sitter.Node) (ast.Expression, error) {
	opNode := node.ChildByFieldName("operator")
	argNode := node.ChildByFieldName("argument")
	if ctx.text(opNode) != "-" {
		return nil, ctx.errorf(opNode, "unsupported operator %s", ctx.text(opNode))
	}
	if argNode != nil && argNode.Kind() == "integer" && !ctx.integerFits(argNode) {
		lit, err := ctx.parseIntegerLiteral(argNode, true)
		if err != nil {
			return nil, err
		}
		annotateSpan(lit, node)
		return lit, nil
	}
	operand, err := ctx.parseExpression(argNode)
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewUnaryExpression(ast.UnaryOperatorNegate, operand), node), nil
}

func (ctx *parseContext) parseBooleanOperator(node *sitter.Node) (ast.Expression, error) {
	var op ast.BinaryOperator
	switch ctx.text(node.ChildByFieldName("operator")) {
	case "and":
		op = ast.BinaryOperatorAnd
	case "or":
		op = ast.BinaryOperatorOr
	default:
		return nil, ctx.errorf(node, "unsupported boolean operator")
	}
	left, err := ctx.parseExpression(node.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	right, err := ctx.parseExpression(node.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewBinaryExpression(op, left, right), node), nil
}

func (ctx *parseContext) parseComparison(node *sitter.Node) (ast.Expression, error) {
	operands := namedChildren(node)
	operators := operatorTokens(node)
	for idx, tok := range operators {
		symbol := strings.Join(strings.Fields(ctx.text(tok)), " ")
		if _, ok := comparisonOperators[symbol]; ok {
			continue
		}
		// `not in` and `is not` may arrive as two tokens.
		if idx+1 < len(operators) {
			next := ctx.text(operators[idx+1])
			if (symbol == "not" && next == "in") || (symbol == "is" && next == "not") {
				symbol += " " + next
			}
		}
		return nil, ctx.errorf(tok, "unsupported operator %s", symbol)
	}
	if len(operands) != 2 || len(operators) != 1 {
		return nil, ctx.errorf(node, "chained comparisons are not supported")
	}
	op := comparisonOperators[ctx.text(operators[0])]
	left, err := ctx.parseExpression(operands[0])
	if err != nil {
		return nil, err
	}
	right, err := ctx.parseExpression(operands[1])
	if err != nil {
		return nil, err
	}
	return annotateExpression(ast.NewBinaryExpression(op, left, right), node), nil
}
