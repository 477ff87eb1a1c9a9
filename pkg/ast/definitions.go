package ast

// Statements

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type PrintStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument"`
}

func NewPrintStatement(argument Expression) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement), Argument: argument}
}

type Block struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlock(body []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Body: body}
}

// IfStatement runs Then or Else; Else is nil when absent.
type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      Statement  `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIfStatement(condition Expression, then, otherwise Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: otherwise}
}

type Assignment struct {
	nodeImpl
	statementMarker

	Target *Identifier `json:"target"`
	Value  Expression  `json:"value"`
}

func NewAssignment(target *Identifier, value Expression) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Target: target, Value: value}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

type ForLoop struct {
	nodeImpl
	statementMarker

	Variable *Identifier `json:"variable"`
	Iterable Expression  `json:"iterable"`
	Body     Statement   `json:"body"`
}

func NewForLoop(variable *Identifier, iterable Expression, body Statement) *ForLoop {
	return &ForLoop{nodeImpl: newNodeImpl(NodeForLoop), Variable: variable, Iterable: iterable, Body: body}
}

type IndexAssignment struct {
	nodeImpl
	statementMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
	Value  Expression `json:"value"`
}

func NewIndexAssignment(object, index, value Expression) *IndexAssignment {
	return &IndexAssignment{nodeImpl: newNodeImpl(NodeIndexAssignment), Object: object, Index: index, Value: value}
}

// Definitions

type FunctionDefinition struct {
	nodeImpl

	ID     *Identifier   `json:"id"`
	Params []*Identifier `json:"params"`
	Body   Statement     `json:"body"`
}

func NewFunctionDefinition(id *Identifier, params []*Identifier, body Statement) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), ID: id, Params: params, Body: body}
}

// Name returns the declared function name, or "" for a malformed definition.
func (d *FunctionDefinition) Name() string {
	if d == nil || d.ID == nil {
		return ""
	}
	return d.ID.Name
}

// Program is a parsed source file: every definition is registered before
// Main runs.
type Program struct {
	nodeImpl

	Functions []*FunctionDefinition `json:"functions"`
	Main      Statement             `json:"main"`
}

func NewProgram(functions []*FunctionDefinition, main Statement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Functions: functions, Main: main}
}
