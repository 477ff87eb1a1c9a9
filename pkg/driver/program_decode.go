package driver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"minipy/interpreter-go/pkg/ast"
)

// ValidationError aggregates problems found in a decoded program tree.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "program: invalid tree"
	}
	var b strings.Builder
	b.WriteString("program validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// DecodeProgram reads a YAML program tree: a mapping with `functions` (a
// list of FunctionDefinition nodes) and `main` (a statement). Every node is
// a mapping tagged by `type`.
func DecodeProgram(data []byte) (*ast.Program, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("program: parse: %w", err)
	}
	return decodeProgramDocument(raw)
}

// DecodeProgramJSON reads the same document shape from JSON. Numbers are
// kept exact so 64-bit literals survive.
func DecodeProgramJSON(data []byte) (*ast.Program, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("program: document is empty")
		}
		return nil, fmt.Errorf("program: parse: %w", err)
	}
	return decodeProgramDocument(raw)
}

func decodeProgramDocument(raw map[string]any) (*ast.Program, error) {
	if raw == nil {
		return nil, fmt.Errorf("program: document is empty")
	}
	if typ, ok := raw["type"]; ok && typ != string(ast.NodeProgram) {
		return nil, fmt.Errorf("program: expected %s document, got %v", ast.NodeProgram, typ)
	}

	fnsVal, err := decodeList(raw["functions"], "functions")
	if err != nil {
		return nil, err
	}
	functions := make([]*ast.FunctionDefinition, 0, len(fnsVal))
	for idx, entry := range fnsVal {
		path := fmt.Sprintf("functions[%d]", idx)
		node, err := decodeNode(entry, path)
		if err != nil {
			return nil, err
		}
		fn, ok := node.(*ast.FunctionDefinition)
		if !ok {
			return nil, fmt.Errorf("program: %s: expected FunctionDefinition, got %s", path, node.NodeType())
		}
		functions = append(functions, fn)
	}

	var main ast.Statement
	if rawMain, ok := raw["main"]; ok && rawMain != nil {
		stmt, err := decodeStatement(rawMain, "main")
		if err != nil {
			return nil, err
		}
		main = stmt
	} else {
		main = ast.NewBlock(nil)
	}

	program := ast.NewProgram(functions, main)
	if err := validateProgram(program); err != nil {
		return nil, err
	}
	return program, nil
}

func decodeNode(raw any, path string) (ast.Node, error) {
	node, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("program: %s: expected node mapping, got %T", path, raw)
	}
	typ, _ := node["type"].(string)
	decoded, err := decodeTypedNode(ast.NodeType(typ), node, path)
	if err != nil {
		return nil, err
	}
	if spanRaw, ok := node["span"]; ok {
		span, err := decodeSpan(spanRaw, path+".span")
		if err != nil {
			return nil, err
		}
		ast.SetSpan(decoded, span)
	}
	return decoded, nil
}

func decodeTypedNode(typ ast.NodeType, node map[string]any, path string) (ast.Node, error) {
	switch typ {
	case ast.NodeIdentifier:
		name, err := stringField(node, "name", path)
		if err != nil {
			return nil, err
		}
		return ast.NewIdentifier(name), nil
	case ast.NodeNoneLiteral:
		return ast.NewNoneLiteral(), nil
	case ast.NodeBooleanLiteral:
		val, ok := node["value"].(bool)
		if !ok {
			return nil, fmt.Errorf("program: %s.value: expected boolean, got %T", path, node["value"])
		}
		return ast.NewBooleanLiteral(val), nil
	case ast.NodeIntegerLiteral:
		val, err := decodeInt64(node["value"], path+".value")
		if err != nil {
			return nil, err
		}
		return ast.NewIntegerLiteral(val), nil
	case ast.NodeStringLiteral:
		val, ok := node["value"].(string)
		if !ok {
			return nil, fmt.Errorf("program: %s.value: expected string, got %T", path, node["value"])
		}
		return ast.NewStringLiteral(val), nil
	case ast.NodeListLiteral:
		elems, err := decodeExpressions(node["elements"], path+".elements")
		if err != nil {
			return nil, err
		}
		return ast.NewListLiteral(elems), nil
	case ast.NodeUnaryExpression:
		op, _ := node["operator"].(string)
		switch ast.UnaryOperator(op) {
		case ast.UnaryOperatorNegate, ast.UnaryOperatorNot:
		default:
			return nil, fmt.Errorf("program: %s.operator: unknown unary operator %q", path, op)
		}
		operand, err := decodeExpression(node["operand"], path+".operand")
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression(ast.UnaryOperator(op), operand), nil
	case ast.NodeBinaryExpression:
		op, _ := node["operator"].(string)
		if !isBinaryOperator(ast.BinaryOperator(op)) {
			return nil, fmt.Errorf("program: %s.operator: unknown binary operator %q", path, op)
		}
		left, err := decodeExpression(node["left"], path+".left")
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(node["right"], path+".right")
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryExpression(ast.BinaryOperator(op), left, right), nil
	case ast.NodeFunctionCall:
		callee, err := decodeName(node["callee"], path+".callee")
		if err != nil {
			return nil, err
		}
		args, err := decodeExpressions(node["arguments"], path+".arguments")
		if err != nil {
			return nil, err
		}
		return ast.NewFunctionCall(callee, args), nil
	case ast.NodeIndexExpression:
		object, err := decodeExpression(node["object"], path+".object")
		if err != nil {
			return nil, err
		}
		index, err := decodeExpression(node["index"], path+".index")
		if err != nil {
			return nil, err
		}
		return ast.NewIndexExpression(object, index), nil
	case ast.NodeExpressionStatement:
		expr, err := decodeExpression(node["expression"], path+".expression")
		if err != nil {
			return nil, err
		}
		return ast.NewExpressionStatement(expr), nil
	case ast.NodePrintStatement:
		arg, err := decodeExpression(node["argument"], path+".argument")
		if err != nil {
			return nil, err
		}
		return ast.NewPrintStatement(arg), nil
	case ast.NodeBlock:
		bodyVal, err := decodeList(node["body"], path+".body")
		if err != nil {
			return nil, err
		}
		body := make([]ast.Statement, 0, len(bodyVal))
		for idx, raw := range bodyVal {
			stmt, err := decodeStatement(raw, fmt.Sprintf("%s.body[%d]", path, idx))
			if err != nil {
				return nil, err
			}
			body = append(body, stmt)
		}
		return ast.NewBlock(body), nil
	case ast.NodeIfStatement:
		cond, err := decodeExpression(node["condition"], path+".condition")
		if err != nil {
			return nil, err
		}
		then, err := decodeStatement(node["then"], path+".then")
		if err != nil {
			return nil, err
		}
		var otherwise ast.Statement
		if raw, ok := node["else"]; ok && raw != nil {
			otherwise, err = decodeStatement(raw, path+".else")
			if err != nil {
				return nil, err
			}
		}
		return ast.NewIfStatement(cond, then, otherwise), nil
	case ast.NodeAssignment:
		target, err := decodeName(node["target"], path+".target")
		if err != nil {
			return nil, err
		}
		value, err := decodeExpression(node["value"], path+".value")
		if err != nil {
			return nil, err
		}
		return ast.NewAssignment(target, value), nil
	case ast.NodeReturnStatement:
		var arg ast.Expression = ast.NewNoneLiteral()
		if raw, ok := node["argument"]; ok && raw != nil {
			expr, err := decodeExpression(raw, path+".argument")
			if err != nil {
				return nil, err
			}
			arg = expr
		}
		return ast.NewReturnStatement(arg), nil
	case ast.NodeForLoop:
		variable, err := decodeName(node["variable"], path+".variable")
		if err != nil {
			return nil, err
		}
		iterable, err := decodeExpression(node["iterable"], path+".iterable")
		if err != nil {
			return nil, err
		}
		body, err := decodeStatement(node["body"], path+".body")
		if err != nil {
			return nil, err
		}
		return ast.NewForLoop(variable, iterable, body), nil
	case ast.NodeIndexAssignment:
		object, err := decodeExpression(node["object"], path+".object")
		if err != nil {
			return nil, err
		}
		index, err := decodeExpression(node["index"], path+".index")
		if err != nil {
			return nil, err
		}
		value, err := decodeExpression(node["value"], path+".value")
		if err != nil {
			return nil, err
		}
		return ast.NewIndexAssignment(object, index, value), nil
	case ast.NodeFunctionDefinition:
		name, err := decodeName(node["name"], path+".name")
		if err != nil {
			return nil, err
		}
		paramsVal, err := decodeList(node["params"], path+".params")
		if err != nil {
			return nil, err
		}
		params := make([]*ast.Identifier, 0, len(paramsVal))
		for idx, raw := range paramsVal {
			param, err := decodeName(raw, fmt.Sprintf("%s.params[%d]", path, idx))
			if err != nil {
				return nil, err
			}
			params = append(params, param)
		}
		body, err := decodeStatement(node["body"], path+".body")
		if err != nil {
			return nil, err
		}
		return ast.NewFunctionDefinition(name, params, body), nil
	case "":
		return nil, fmt.Errorf("program: %s: node missing type", path)
	default:
		return nil, fmt.Errorf("program: %s: unsupported node type %q", path, typ)
	}
}

func decodeExpression(raw any, path string) (ast.Expression, error) {
	if raw == nil {
		return nil, fmt.Errorf("program: %s: missing expression", path)
	}
	node, err := decodeNode(raw, path)
	if err != nil {
		return nil, err
	}
	expr, ok := node.(ast.Expression)
	if !ok {
		return nil, fmt.Errorf("program: %s: expected expression, got %s", path, node.NodeType())
	}
	return expr, nil
}

// decodeList accepts an absent field as empty; any other non-list is an error.
func decodeList(raw any, path string) ([]any, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("program: %s: expected list, got %T", path, raw)
	}
	return items, nil
}

func decodeExpressions(raw any, path string) ([]ast.Expression, error) {
	items, err := decodeList(raw, path)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Expression, 0, len(items))
	for idx, item := range items {
		expr, err := decodeExpression(item, fmt.Sprintf("%s[%d]", path, idx))
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

func decodeStatement(raw any, path string) (ast.Statement, error) {
	if raw == nil {
		return nil, fmt.Errorf("program: %s: missing statement", path)
	}
	node, err := decodeNode(raw, path)
	if err != nil {
		return nil, err
	}
	stmt, ok := node.(ast.Statement)
	if !ok {
		return nil, fmt.Errorf("program: %s: expected statement, got %s", path, node.NodeType())
	}
	return stmt, nil
}

// decodeName accepts either a bare string or an Identifier node.
func decodeName(raw any, path string) (*ast.Identifier, error) {
	switch v := raw.(type) {
	case string:
		return ast.NewIdentifier(v), nil
	case map[string]any:
		node, err := decodeNode(v, path)
		if err != nil {
			return nil, err
		}
		id, ok := node.(*ast.Identifier)
		if !ok {
			return nil, fmt.Errorf("program: %s: expected Identifier, got %s", path, node.NodeType())
		}
		return id, nil
	default:
		return nil, fmt.Errorf("program: %s: expected name, got %T", path, raw)
	}
}

func stringField(node map[string]any, key, path string) (string, error) {
	val, ok := node[key].(string)
	if !ok {
		return "", fmt.Errorf("program: %s.%s: expected string, got %T", path, key, node[key])
	}
	return val, nil
}

func decodeInt64(raw any, path string) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("program: %s: integer %d out of range", path, v)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("program: %s: expected integer, got %v", path, v)
		}
		return int64(v), nil
	case json.Number:
		n, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("program: %s: invalid integer %s", path, v)
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("program: %s: invalid integer %q", path, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("program: %s: expected integer, got %T", path, raw)
	}
}

func decodeSpan(raw any, path string) (ast.Span, error) {
	node, ok := raw.(map[string]any)
	if !ok {
		return ast.Span{}, fmt.Errorf("program: %s: expected mapping, got %T", path, raw)
	}
	start, err := decodePosition(node["start"], path+".start")
	if err != nil {
		return ast.Span{}, err
	}
	end, err := decodePosition(node["end"], path+".end")
	if err != nil {
		return ast.Span{}, err
	}
	return ast.Span{Start: start, End: end}, nil
}

func decodePosition(raw any, path string) (ast.Position, error) {
	if raw == nil {
		return ast.Position{}, nil
	}
	node, ok := raw.(map[string]any)
	if !ok {
		return ast.Position{}, fmt.Errorf("program: %s: expected mapping, got %T", path, raw)
	}
	line, err := decodeInt64(node["line"], path+".line")
	if err != nil {
		return ast.Position{}, err
	}
	column, err := decodeInt64(node["column"], path+".column")
	if err != nil {
		return ast.Position{}, err
	}
	return ast.Position{Line: int(line), Column: int(column)}, nil
}

func isBinaryOperator(op ast.BinaryOperator) bool {
	switch op {
	case ast.BinaryOperatorAdd, ast.BinaryOperatorSub, ast.BinaryOperatorMul,
		ast.BinaryOperatorDiv, ast.BinaryOperatorMod,
		ast.BinaryOperatorAnd, ast.BinaryOperatorOr:
		return true
	default:
		return op.IsComparison()
	}
}

// validateProgram reports every structural problem at once: empty names and
// repeated parameters. Duplicate function names are allowed; the later
// definition wins.
func validateProgram(program *ast.Program) error {
	var errs ValidationError
	for idx, fn := range program.Functions {
		if fn.Name() == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("functions[%d] must have a name", idx))
			continue
		}
		seen := make(map[string]struct{}, len(fn.Params))
		for pidx, param := range fn.Params {
			if param.Name == "" {
				errs.Issues = append(errs.Issues, fmt.Sprintf("function %s: params[%d] must be a non-empty name", fn.Name(), pidx))
				continue
			}
			if _, dup := seen[param.Name]; dup {
				errs.Issues = append(errs.Issues, fmt.Sprintf("function %s: duplicate parameter %s", fn.Name(), param.Name))
			}
			seen[param.Name] = struct{}{}
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}
