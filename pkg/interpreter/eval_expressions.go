package interpreter

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"minipy/interpreter-go/pkg/ast"
	"minipy/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.NoneLiteral:
		return runtime.NoneValue{}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.Identifier:
		return env.Get(n.Name)
	case *ast.ListLiteral:
		values := make([]runtime.Value, 0, len(n.Elements))
		for _, el := range n.Elements {
			val, err := i.evaluateExpression(el, env)
			if err != nil {
				return nil, err
			}
			values = append(values, val)
		}
		return runtime.NewListFrom(values), nil
	case *ast.UnaryExpression:
		operand, err := i.evaluateExpression(n.Operand, env)
		if err != nil {
			return nil, err
		}
		return applyUnaryOperator(n.Operator, operand)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, env)
	case *ast.IndexExpression:
		return i.evaluateIndexExpression(n, env)
	case nil:
		return nil, errors.New("interpreter: missing expression")
	default:
		return nil, errors.Errorf("unsupported expression type: %s", n.NodeType())
	}
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	leftVal, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case ast.BinaryOperatorAnd:
		if runtime.IsFalse(leftVal) {
			return leftVal, nil
		}
		return i.evaluateExpression(expr.Right, env)
	case ast.BinaryOperatorOr:
		if runtime.IsTrue(leftVal) {
			return leftVal, nil
		}
		return i.evaluateExpression(expr.Right, env)
	default:
		rightVal, err := i.evaluateExpression(expr.Right, env)
		if err != nil {
			return nil, err
		}
		return applyBinaryOperator(expr.Operator, leftVal, rightVal)
	}
}

func (i *Interpreter) evaluateIndexExpression(expr *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	list, idx, err := i.evaluateListIndex(expr.Object, expr.Index, env)
	if err != nil {
		return nil, err
	}
	return list.Get(idx)
}

// evaluateListIndex evaluates a list operand then an integer index, in that order.
func (i *Interpreter) evaluateListIndex(object, index ast.Expression, env *runtime.Environment) (*runtime.ListValue, int64, error) {
	objVal, err := i.evaluateExpression(object, env)
	if err != nil {
		return nil, 0, err
	}
	list, err := runtime.AsList(objVal)
	if err != nil {
		return nil, 0, err
	}
	idxVal, err := i.evaluateExpression(index, env)
	if err != nil {
		return nil, 0, err
	}
	idx, err := runtime.AsInt(idxVal)
	if err != nil {
		return nil, 0, err
	}
	return list, idx, nil
}

func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	if call.Callee == nil {
		return nil, errors.New("interpreter: call without callee")
	}
	name := call.Callee.Name
	if b, ok := lookupBuiltin(name); ok {
		if len(call.Arguments) != b.arity {
			return nil, runtime.ArityError.Errorf("%s expects %d argument(s), got %d", name, b.arity, len(call.Arguments))
		}
		args, err := i.evaluateArguments(call.Arguments, env)
		if err != nil {
			return nil, err
		}
		return b.impl(args)
	}
	def, ok := i.functions.lookup(name)
	if !ok {
		return nil, runtime.NameError.Errorf("unbound function %s", name)
	}
	if len(call.Arguments) != len(def.Params) {
		return nil, arityError(def, len(call.Arguments))
	}
	args, err := i.evaluateArguments(call.Arguments, env)
	if err != nil {
		return nil, err
	}
	return i.invokeFunction(def, args)
}

func (i *Interpreter) evaluateArguments(exprs []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	args := make([]runtime.Value, 0, len(exprs))
	for _, argExpr := range exprs {
		val, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return args, nil
}

// invokeFunction is the call boundary: it runs the body in a fresh
// environment and is the only place a returning completion is consumed.
func (i *Interpreter) invokeFunction(def *ast.FunctionDefinition, args []runtime.Value) (runtime.Value, error) {
	if len(args) != len(def.Params) {
		return nil, arityError(def, len(args))
	}
	if i.maxDepth > 0 && i.depth >= i.maxDepth {
		return nil, runtime.RecursionError.Errorf("maximum call depth %d exceeded in %s", i.maxDepth, def.Name())
	}
	i.depth++
	defer func() { i.depth-- }()
	i.logger.Debug("call", zap.String("function", def.Name()), zap.Int("depth", i.depth))

	localEnv := runtime.NewEnvironment()
	for idx, param := range def.Params {
		localEnv.Define(param.Name, args[idx])
	}
	done, err := i.executeStatement(def.Body, localEnv)
	if err != nil {
		return nil, err
	}
	if done.returning {
		return done.value, nil
	}
	return runtime.NoneValue{}, nil
}

func arityError(def *ast.FunctionDefinition, got int) error {
	return runtime.ArityError.Errorf("function '%s' expects %d arguments, got %d", def.Name(), len(def.Params), got)
}
