package interpreter

import (
	"github.com/pkg/errors"

	"minipy/interpreter-go/pkg/ast"
	"minipy/interpreter-go/pkg/runtime"
)

// applyBinaryOperator evaluates a strict binary operator on two values.
// "and"/"or" never reach here: they need the unevaluated right operand.
func applyBinaryOperator(op ast.BinaryOperator, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case ast.BinaryOperatorSub, ast.BinaryOperatorMul, ast.BinaryOperatorDiv, ast.BinaryOperatorMod:
		l, err := runtime.AsInt(left)
		if err != nil {
			return nil, err
		}
		r, err := runtime.AsInt(right)
		if err != nil {
			return nil, err
		}
		return applyIntegerArithmetic(op, l, r)
	case ast.BinaryOperatorAdd:
		return applyAdd(left, right)
	case ast.BinaryOperatorEq, ast.BinaryOperatorNeq, ast.BinaryOperatorLt,
		ast.BinaryOperatorLe, ast.BinaryOperatorGt, ast.BinaryOperatorGe:
		return runtime.BoolValue{Val: comparisonOp(op, runtime.Compare(left, right))}, nil
	case ast.BinaryOperatorAnd, ast.BinaryOperatorOr:
		return nil, errors.Errorf("interpreter: operator %s must be evaluated lazily", op)
	default:
		return nil, runtime.TypeError.Errorf("unsupported operator %s", op)
	}
}

// applyIntegerArithmetic wraps on overflow; division and remainder truncate
// toward zero.
func applyIntegerArithmetic(op ast.BinaryOperator, l, r int64) (runtime.Value, error) {
	switch op {
	case ast.BinaryOperatorSub:
		return runtime.IntegerValue{Val: l - r}, nil
	case ast.BinaryOperatorMul:
		return runtime.IntegerValue{Val: l * r}, nil
	case ast.BinaryOperatorDiv:
		if r == 0 {
			return nil, runtime.DivisionByZero.New("division by zero")
		}
		return runtime.IntegerValue{Val: l / r}, nil
	case ast.BinaryOperatorMod:
		if r == 0 {
			return nil, runtime.DivisionByZero.New("division by zero")
		}
		return runtime.IntegerValue{Val: l % r}, nil
	default:
		return nil, runtime.TypeError.Errorf("unsupported operator %s", op)
	}
}

func applyAdd(left, right runtime.Value) (runtime.Value, error) {
	switch l := left.(type) {
	case runtime.IntegerValue:
		if r, ok := right.(runtime.IntegerValue); ok {
			return runtime.IntegerValue{Val: l.Val + r.Val}, nil
		}
	case runtime.StringValue:
		if r, ok := right.(runtime.StringValue); ok {
			return runtime.StringValue{Val: l.Val + r.Val}, nil
		}
	case *runtime.ListValue:
		if r, ok := right.(*runtime.ListValue); ok {
			return runtime.ConcatLists(l, r), nil
		}
	}
	return nil, runtime.TypeError.New("unsupported operand types")
}

func comparisonOp(op ast.BinaryOperator, cmp int) bool {
	switch op {
	case ast.BinaryOperatorLt:
		return cmp < 0
	case ast.BinaryOperatorLe:
		return cmp <= 0
	case ast.BinaryOperatorGt:
		return cmp > 0
	case ast.BinaryOperatorGe:
		return cmp >= 0
	case ast.BinaryOperatorEq:
		return cmp == 0
	case ast.BinaryOperatorNeq:
		return cmp != 0
	default:
		return false
	}
}

func applyUnaryOperator(op ast.UnaryOperator, operand runtime.Value) (runtime.Value, error) {
	switch op {
	case ast.UnaryOperatorNot:
		return runtime.BoolValue{Val: runtime.IsFalse(operand)}, nil
	case ast.UnaryOperatorNegate:
		n, err := runtime.AsInt(operand)
		if err != nil {
			return nil, err
		}
		return runtime.IntegerValue{Val: -n}, nil
	default:
		return nil, runtime.TypeError.Errorf("unsupported unary operator %s", op)
	}
}
