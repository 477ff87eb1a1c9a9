package driver

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"minipy/interpreter-go/pkg/ast"
)

// EncodeOptions tunes EncodeProgram output.
type EncodeOptions struct {
	// Spans includes each node's source range when it is known.
	Spans bool
}

// EncodeProgram renders program in the document shape DecodeProgram reads.
// Keys keep a fixed order with `type` first.
func EncodeProgram(program *ast.Program, opts EncodeOptions) ([]byte, error) {
	if program == nil {
		return nil, fmt.Errorf("program: nil program")
	}
	enc := &treeEncoder{spans: opts.Spans}

	functions := sequenceNode()
	for _, fn := range program.Functions {
		node, err := enc.encode(fn)
		if err != nil {
			return nil, err
		}
		functions.Content = append(functions.Content, node)
	}

	doc := mappingNode()
	addScalar(doc, "type", string(ast.NodeProgram))
	addField(doc, "functions", functions)
	if program.Main != nil {
		main, err := enc.encode(program.Main)
		if err != nil {
			return nil, err
		}
		addField(doc, "main", main)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("program: encode: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("program: encode: %w", err)
	}
	return buf.Bytes(), nil
}

type treeEncoder struct {
	spans bool
}

func (e *treeEncoder) encode(node ast.Node) (*yaml.Node, error) {
	if node == nil {
		return nil, fmt.Errorf("program: cannot encode nil node")
	}
	out := mappingNode()
	addScalar(out, "type", string(node.NodeType()))

	switch n := node.(type) {
	case *ast.Identifier:
		addScalar(out, "name", n.Name)
	case *ast.NoneLiteral:
	case *ast.BooleanLiteral:
		addTagged(out, "value", "!!bool", strconv.FormatBool(n.Value))
	case *ast.IntegerLiteral:
		addTagged(out, "value", "!!int", strconv.FormatInt(n.Value, 10))
	case *ast.StringLiteral:
		addScalar(out, "value", n.Value)
	case *ast.ListLiteral:
		if err := e.addExpressions(out, "elements", n.Elements); err != nil {
			return nil, err
		}
	case *ast.UnaryExpression:
		addScalar(out, "operator", string(n.Operator))
		if err := e.addChild(out, "operand", n.Operand); err != nil {
			return nil, err
		}
	case *ast.BinaryExpression:
		addScalar(out, "operator", string(n.Operator))
		if err := e.addChild(out, "left", n.Left); err != nil {
			return nil, err
		}
		if err := e.addChild(out, "right", n.Right); err != nil {
			return nil, err
		}
	case *ast.FunctionCall:
		addScalar(out, "callee", identifierName(n.Callee))
		if err := e.addExpressions(out, "arguments", n.Arguments); err != nil {
			return nil, err
		}
	case *ast.IndexExpression:
		if err := e.addChild(out, "object", n.Object); err != nil {
			return nil, err
		}
		if err := e.addChild(out, "index", n.Index); err != nil {
			return nil, err
		}
	case *ast.ExpressionStatement:
		if err := e.addChild(out, "expression", n.Expression); err != nil {
			return nil, err
		}
	case *ast.PrintStatement:
		if err := e.addChild(out, "argument", n.Argument); err != nil {
			return nil, err
		}
	case *ast.Block:
		body := sequenceNode()
		for _, stmt := range n.Body {
			child, err := e.encode(stmt)
			if err != nil {
				return nil, err
			}
			body.Content = append(body.Content, child)
		}
		addField(out, "body", body)
	case *ast.IfStatement:
		if err := e.addChild(out, "condition", n.Condition); err != nil {
			return nil, err
		}
		if err := e.addChild(out, "then", n.Then); err != nil {
			return nil, err
		}
		if n.Else != nil {
			if err := e.addChild(out, "else", n.Else); err != nil {
				return nil, err
			}
		}
	case *ast.Assignment:
		addScalar(out, "target", identifierName(n.Target))
		if err := e.addChild(out, "value", n.Value); err != nil {
			return nil, err
		}
	case *ast.ReturnStatement:
		if err := e.addChild(out, "argument", n.Argument); err != nil {
			return nil, err
		}
	case *ast.ForLoop:
		addScalar(out, "variable", identifierName(n.Variable))
		if err := e.addChild(out, "iterable", n.Iterable); err != nil {
			return nil, err
		}
		if err := e.addChild(out, "body", n.Body); err != nil {
			return nil, err
		}
	case *ast.IndexAssignment:
		if err := e.addChild(out, "object", n.Object); err != nil {
			return nil, err
		}
		if err := e.addChild(out, "index", n.Index); err != nil {
			return nil, err
		}
		if err := e.addChild(out, "value", n.Value); err != nil {
			return nil, err
		}
	case *ast.FunctionDefinition:
		addScalar(out, "name", n.Name())
		params := sequenceNode()
		for _, param := range n.Params {
			params.Content = append(params.Content, scalarNode(identifierName(param)))
		}
		addField(out, "params", params)
		if err := e.addChild(out, "body", n.Body); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("program: cannot encode %s", node.NodeType())
	}

	if e.spans && !node.Span().IsZero() {
		addField(out, "span", spanNode(node.Span()))
	}
	return out, nil
}

func (e *treeEncoder) addChild(parent *yaml.Node, key string, child ast.Node) error {
	node, err := e.encode(child)
	if err != nil {
		return err
	}
	addField(parent, key, node)
	return nil
}

func (e *treeEncoder) addExpressions(parent *yaml.Node, key string, exprs []ast.Expression) error {
	seq := sequenceNode()
	for _, expr := range exprs {
		node, err := e.encode(expr)
		if err != nil {
			return err
		}
		seq.Content = append(seq.Content, node)
	}
	addField(parent, key, seq)
	return nil
}

func identifierName(id *ast.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Name
}

func spanNode(span ast.Span) *yaml.Node {
	position := func(pos ast.Position) *yaml.Node {
		node := mappingNode()
		node.Style = yaml.FlowStyle
		addTagged(node, "line", "!!int", strconv.Itoa(pos.Line))
		addTagged(node, "column", "!!int", strconv.Itoa(pos.Column))
		return node
	}
	node := mappingNode()
	addField(node, "start", position(span.Start))
	addField(node, "end", position(span.End))
	return node
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func sequenceNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func addField(parent *yaml.Node, key string, value *yaml.Node) {
	parent.Content = append(parent.Content, scalarNode(key), value)
}

func addScalar(parent *yaml.Node, key, value string) {
	addField(parent, key, scalarNode(value))
}

func addTagged(parent *yaml.Node, key, tag, value string) {
	addField(parent, key, &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value})
}
