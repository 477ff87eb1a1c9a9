package ast

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func None() *NoneLiteral {
	return NewNoneLiteral()
}

func List(elements ...Expression) *ListLiteral {
	return NewListLiteral(elements)
}

// Expression helpers.

func Bin(op BinaryOperator, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Un(op UnaryOperator, operand Expression) *UnaryExpression {
	return NewUnaryExpression(op, operand)
}

func Neg(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryOperatorNegate, operand)
}

func Not(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryOperatorNot, operand)
}

func And(left, right Expression) *BinaryExpression {
	return NewBinaryExpression(BinaryOperatorAnd, left, right)
}

func Or(left, right Expression) *BinaryExpression {
	return NewBinaryExpression(BinaryOperatorOr, left, right)
}

func Call(name string, args ...Expression) *FunctionCall {
	return NewFunctionCall(ID(name), args)
}

func Index(object, index Expression) *IndexExpression {
	return NewIndexExpression(object, index)
}

// Statement helpers.

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func Print(argument Expression) *PrintStatement {
	return NewPrintStatement(argument)
}

func Blk(body ...Statement) *Block {
	return NewBlock(body)
}

func If(condition Expression, then, otherwise Statement) *IfStatement {
	return NewIfStatement(condition, then, otherwise)
}

func Assign(name string, value Expression) *Assignment {
	return NewAssignment(ID(name), value)
}

func Ret(argument Expression) *ReturnStatement {
	return NewReturnStatement(argument)
}

func For(name string, iterable Expression, body Statement) *ForLoop {
	return NewForLoop(ID(name), iterable, body)
}

func SetIndex(object, index, value Expression) *IndexAssignment {
	return NewIndexAssignment(object, index, value)
}

// Definition helpers.

func Fn(name string, params []string, body ...Statement) *FunctionDefinition {
	ids := make([]*Identifier, 0, len(params))
	for _, p := range params {
		ids = append(ids, ID(p))
	}
	return NewFunctionDefinition(ID(name), ids, Blk(body...))
}

func Prog(functions []*FunctionDefinition, main ...Statement) *Program {
	return NewProgram(functions, Blk(main...))
}
