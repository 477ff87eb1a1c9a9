package interpreter

import (
	"fmt"

	"github.com/pkg/errors"

	"minipy/interpreter-go/pkg/ast"
	"minipy/interpreter-go/pkg/runtime"
)

// executeStatement runs one statement. A returning completion must be
// passed straight up by every caller until invokeFunction sees it.
func (i *Interpreter) executeStatement(node ast.Statement, env *runtime.Environment) (completion, error) {
	if node == nil {
		return normalCompletion, nil
	}
	done, err := i.dispatchStatement(node, env)
	if err != nil {
		return normalCompletion, runtime.WithSpan(err, node.Span())
	}
	return done, nil
}

func (i *Interpreter) dispatchStatement(node ast.Statement, env *runtime.Environment) (completion, error) {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		_, err := i.evaluateExpression(n.Expression, env)
		return normalCompletion, err
	case *ast.PrintStatement:
		return normalCompletion, i.executePrint(n, env)
	case *ast.Block:
		return i.executeBlock(n, env)
	case *ast.IfStatement:
		return i.executeIf(n, env)
	case *ast.Assignment:
		return normalCompletion, i.executeAssignment(n, env)
	case *ast.ReturnStatement:
		val, err := i.evaluateExpression(n.Argument, env)
		if err != nil {
			return normalCompletion, err
		}
		return returnCompletion(val), nil
	case *ast.ForLoop:
		return i.executeForLoop(n, env)
	case *ast.IndexAssignment:
		return normalCompletion, i.executeIndexAssignment(n, env)
	default:
		return normalCompletion, errors.Errorf("unsupported statement type: %s", n.NodeType())
	}
}

func (i *Interpreter) executePrint(stmt *ast.PrintStatement, env *runtime.Environment) error {
	val, err := i.evaluateExpression(stmt.Argument, env)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(i.out, ValueToString(val)); err != nil {
		return errors.Wrap(err, "print")
	}
	return nil
}

func (i *Interpreter) executeBlock(block *ast.Block, env *runtime.Environment) (completion, error) {
	for _, stmt := range block.Body {
		done, err := i.executeStatement(stmt, env)
		if err != nil || done.returning {
			return done, err
		}
	}
	return normalCompletion, nil
}

func (i *Interpreter) executeIf(stmt *ast.IfStatement, env *runtime.Environment) (completion, error) {
	cond, err := i.evaluateExpression(stmt.Condition, env)
	if err != nil {
		return normalCompletion, err
	}
	if runtime.IsTrue(cond) {
		return i.executeStatement(stmt.Then, env)
	}
	return i.executeStatement(stmt.Else, env)
}

func (i *Interpreter) executeAssignment(stmt *ast.Assignment, env *runtime.Environment) error {
	if stmt.Target == nil {
		return errors.New("interpreter: assignment without target")
	}
	val, err := i.evaluateExpression(stmt.Value, env)
	if err != nil {
		return err
	}
	env.Define(stmt.Target.Name, val)
	return nil
}

// executeForLoop binds the loop variable in env itself, so it stays visible
// with its last value after the loop.
func (i *Interpreter) executeForLoop(loop *ast.ForLoop, env *runtime.Environment) (completion, error) {
	if loop.Variable == nil {
		return normalCompletion, errors.New("interpreter: for-loop without variable")
	}
	iterable, err := i.evaluateExpression(loop.Iterable, env)
	if err != nil {
		return normalCompletion, err
	}
	list, err := runtime.AsList(iterable)
	if err != nil {
		return normalCompletion, err
	}
	for _, el := range list.Elements {
		env.Define(loop.Variable.Name, el)
		done, err := i.executeStatement(loop.Body, env)
		if err != nil || done.returning {
			return done, err
		}
	}
	return normalCompletion, nil
}

// executeIndexAssignment checks the index before evaluating the stored value.
func (i *Interpreter) executeIndexAssignment(stmt *ast.IndexAssignment, env *runtime.Environment) error {
	list, idx, err := i.evaluateListIndex(stmt.Object, stmt.Index, env)
	if err != nil {
		return err
	}
	if err := list.CheckIndex(idx); err != nil {
		return err
	}
	val, err := i.evaluateExpression(stmt.Value, env)
	if err != nil {
		return err
	}
	return list.Set(idx, val)
}
