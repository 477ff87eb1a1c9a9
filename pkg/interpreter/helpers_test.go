package interpreter

import (
	"bytes"
	"testing"

	"minipy/interpreter-go/pkg/ast"
	"minipy/interpreter-go/pkg/runtime"
)

func runProgram(t *testing.T, program *ast.Program) (string, *runtime.Environment, error) {
	t.Helper()
	var out bytes.Buffer
	interp := New(Options{Stdout: &out})
	env, err := interp.EvaluateProgram(program)
	return out.String(), env, err
}

func mustRun(t *testing.T, program *ast.Program) (string, *runtime.Environment) {
	t.Helper()
	out, env, err := runProgram(t, program)
	if err != nil {
		t.Fatalf("program failed: %v", err)
	}
	return out, env
}

// evalExpr evaluates expr with a loaded program supplying the functions.
func evalExpr(t *testing.T, functions []*ast.FunctionDefinition, expr ast.Expression) (runtime.Value, error) {
	t.Helper()
	interp := New(Options{Stdout: &bytes.Buffer{}})
	if err := interp.Load(ast.Prog(functions)); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return interp.evaluateExpression(expr, runtime.NewEnvironment())
}

func mustEval(t *testing.T, expr ast.Expression) runtime.Value {
	t.Helper()
	val, err := evalExpr(t, nil, expr)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	return val
}

func expectKind(t *testing.T, err error, kind runtime.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got no error", kind)
	}
	if got := runtime.KindOf(err); got != kind {
		t.Fatalf("expected %s, got %s (%v)", kind, got, err)
	}
}

func intVal(t *testing.T, v runtime.Value) int64 {
	t.Helper()
	iv, ok := v.(runtime.IntegerValue)
	if !ok {
		t.Fatalf("expected integer, got %#v", v)
	}
	return iv.Val
}
