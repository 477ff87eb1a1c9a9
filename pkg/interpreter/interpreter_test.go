package interpreter

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"minipy/interpreter-go/pkg/ast"
	"minipy/interpreter-go/pkg/runtime"
)

func TestEvaluateIdentifierLookup(t *testing.T) {
	interp := New(Options{})
	env := runtime.NewEnvironment()
	env.Define("greeting", runtime.StringValue{Val: "hello"})

	val, err := interp.evaluateExpression(ast.ID("greeting"), env)
	if err != nil {
		t.Fatalf("identifier lookup failed: %v", err)
	}
	str, ok := val.(runtime.StringValue)
	if !ok || str.Val != "hello" {
		t.Fatalf("unexpected value %#v", val)
	}

	_, err = interp.evaluateExpression(ast.ID("missing"), env)
	expectKind(t, err, runtime.NameError)
}

func TestIntegerArithmeticTruncates(t *testing.T) {
	cases := []struct {
		expr ast.Expression
		want int64
	}{
		{ast.Bin(ast.BinaryOperatorDiv, ast.Int(7), ast.Int(2)), 3},
		{ast.Bin(ast.BinaryOperatorDiv, ast.Int(-7), ast.Int(2)), -3},
		{ast.Bin(ast.BinaryOperatorDiv, ast.Int(7), ast.Int(-2)), -3},
		{ast.Bin(ast.BinaryOperatorMod, ast.Int(7), ast.Int(-2)), 1},
		{ast.Bin(ast.BinaryOperatorMod, ast.Int(-7), ast.Int(2)), -1},
		{ast.Bin(ast.BinaryOperatorSub, ast.Int(3), ast.Int(10)), -7},
		{ast.Bin(ast.BinaryOperatorMul, ast.Int(-4), ast.Int(6)), -24},
		{ast.Neg(ast.Int(5)), -5},
		{ast.Bin(ast.BinaryOperatorAdd, ast.Int(math.MaxInt64), ast.Int(1)), math.MinInt64},
		{ast.Bin(ast.BinaryOperatorDiv, ast.Int(math.MinInt64), ast.Int(-1)), math.MinInt64},
		{ast.Bin(ast.BinaryOperatorMod, ast.Int(math.MinInt64), ast.Int(-1)), 0},
		{ast.Neg(ast.Int(math.MinInt64)), math.MinInt64},
	}
	for idx, tc := range cases {
		got := intVal(t, mustEval(t, tc.expr))
		if got != tc.want {
			t.Fatalf("case %d: expected %d, got %d", idx, tc.want, got)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	for _, op := range []ast.BinaryOperator{ast.BinaryOperatorDiv, ast.BinaryOperatorMod} {
		_, err := evalExpr(t, nil, ast.Bin(op, ast.Int(1), ast.Int(0)))
		expectKind(t, err, runtime.DivisionByZero)
	}
}

func TestArithmeticRequiresIntegers(t *testing.T) {
	exprs := []ast.Expression{
		ast.Bin(ast.BinaryOperatorSub, ast.Str("a"), ast.Int(1)),
		ast.Bin(ast.BinaryOperatorMul, ast.Int(2), ast.List()),
		ast.Bin(ast.BinaryOperatorDiv, ast.Bool(true), ast.Int(1)),
		ast.Neg(ast.Str("x")),
	}
	for _, expr := range exprs {
		_, err := evalExpr(t, nil, expr)
		expectKind(t, err, runtime.TypeError)
	}
}

func TestAddIsPolymorphic(t *testing.T) {
	assert.Equal(t, runtime.StringValue{Val: "foobar"}, mustEval(t, ast.Bin(ast.BinaryOperatorAdd, ast.Str("foo"), ast.Str("bar"))))
	list := mustEval(t, ast.Bin(ast.BinaryOperatorAdd, ast.List(ast.Int(1)), ast.List(ast.Int(2), ast.Int(3))))
	assert.Equal(t, "[1, 2, 3]", ValueToString(list))

	for _, expr := range []ast.Expression{
		ast.Bin(ast.BinaryOperatorAdd, ast.Int(1), ast.Str("a")),
		ast.Bin(ast.BinaryOperatorAdd, ast.Str("a"), ast.List()),
		ast.Bin(ast.BinaryOperatorAdd, ast.None(), ast.None()),
	} {
		_, err := evalExpr(t, nil, expr)
		expectKind(t, err, runtime.TypeError)
	}
}

func TestConcatenationAllocatesFreshList(t *testing.T) {
	out, env := mustRun(t, ast.Prog(nil,
		ast.Assign("a", ast.List(ast.Int(1))),
		ast.Assign("b", ast.Bin(ast.BinaryOperatorAdd, ast.ID("a"), ast.List(ast.Int(2)))),
		ast.SetIndex(ast.ID("b"), ast.Int(0), ast.Int(9)),
		ast.Print(ast.ID("a")),
		ast.Print(ast.ID("b")),
	))
	assert.Equal(t, "[1]\n[9, 2]\n", out)
	assert.Contains(t, env.Keys(), "b")
}

func TestLogicalOperatorsShortCircuit(t *testing.T) {
	// Calling an undefined function would raise NameError if evaluated.
	boom := ast.Call("boom")

	val := mustEval(t, ast.And(ast.Int(0), boom))
	assert.Equal(t, runtime.IntegerValue{Val: 0}, val)

	val = mustEval(t, ast.Or(ast.Str("left"), boom))
	assert.Equal(t, runtime.StringValue{Val: "left"}, val)

	val = mustEval(t, ast.And(ast.Int(1), ast.Str("right")))
	assert.Equal(t, runtime.StringValue{Val: "right"}, val)

	val = mustEval(t, ast.Or(ast.List(), ast.None()))
	assert.Equal(t, runtime.NoneValue{}, val)

	_, err := evalExpr(t, nil, ast.Or(ast.Bool(false), boom))
	expectKind(t, err, runtime.NameError)
}

func TestNotAndComparisons(t *testing.T) {
	cases := []struct {
		expr ast.Expression
		want bool
	}{
		{ast.Not(ast.Int(0)), true},
		{ast.Not(ast.List(ast.None())), false},
		{ast.Bin(ast.BinaryOperatorEq, ast.Int(1), ast.Int(1)), true},
		{ast.Bin(ast.BinaryOperatorEq, ast.Int(1), ast.Str("1")), false},
		{ast.Bin(ast.BinaryOperatorNeq, ast.None(), ast.Bool(false)), true},
		{ast.Bin(ast.BinaryOperatorLt, ast.None(), ast.Bool(false)), true},
		{ast.Bin(ast.BinaryOperatorLt, ast.Bool(true), ast.Int(0)), true},
		{ast.Bin(ast.BinaryOperatorLt, ast.Int(100), ast.Str("")), true},
		{ast.Bin(ast.BinaryOperatorLt, ast.Str("zz"), ast.List()), true},
		{ast.Bin(ast.BinaryOperatorLe, ast.Str("abc"), ast.Str("abd")), true},
		{ast.Bin(ast.BinaryOperatorGt, ast.List(ast.Int(1), ast.Int(2)), ast.List(ast.Int(1))), true},
		{ast.Bin(ast.BinaryOperatorGe, ast.List(ast.Int(1)), ast.List(ast.Int(1))), true},
		{ast.Bin(ast.BinaryOperatorLt, ast.List(ast.Int(2)), ast.List(ast.Int(1), ast.Int(5))), false},
	}
	for idx, tc := range cases {
		val := mustEval(t, tc.expr)
		b, ok := val.(runtime.BoolValue)
		if !ok || b.Val != tc.want {
			t.Fatalf("case %d: expected %v, got %#v", idx, tc.want, val)
		}
	}
}

func TestBuiltins(t *testing.T) {
	assert.Equal(t, int64(5), intVal(t, mustEval(t, ast.Call("len", ast.Str("hello")))))
	assert.Equal(t, int64(2), intVal(t, mustEval(t, ast.Call("len", ast.Str("né")))))
	assert.Equal(t, int64(3), intVal(t, mustEval(t, ast.Call("len", ast.List(ast.Int(1), ast.Int(2), ast.Int(3))))))

	assert.Equal(t, "[0, 1, 2]", ValueToString(mustEval(t, ast.Call("range", ast.Int(3)))))
	assert.Equal(t, "[]", ValueToString(mustEval(t, ast.Call("range", ast.Int(0)))))
	assert.Equal(t, "[]", ValueToString(mustEval(t, ast.Call("range", ast.Int(-4)))))
	assert.Equal(t, runtime.IntegerValue{Val: 7}, mustEval(t, ast.Call("list", ast.Int(7))))

	_, err := evalExpr(t, nil, ast.Call("len", ast.Int(1)))
	expectKind(t, err, runtime.TypeError)
	_, err = evalExpr(t, nil, ast.Call("range", ast.Str("3")))
	expectKind(t, err, runtime.TypeError)
	_, err = evalExpr(t, nil, ast.Call("range", ast.Int(math.MaxInt64)))
	expectKind(t, err, runtime.IndexError)

	_, err = evalExpr(t, nil, ast.Call("len"))
	expectKind(t, err, runtime.ArityError)
	_, err = evalExpr(t, nil, ast.Call("list", ast.Int(1), ast.Int(2)))
	expectKind(t, err, runtime.ArityError)
}

func TestListBuiltinPreservesIdentity(t *testing.T) {
	out, _ := mustRun(t, ast.Prog(nil,
		ast.Assign("a", ast.List(ast.Int(1), ast.Int(2))),
		ast.Assign("b", ast.Call("list", ast.ID("a"))),
		ast.SetIndex(ast.ID("b"), ast.Int(0), ast.Str("x")),
		ast.Print(ast.ID("a")),
	))
	assert.Equal(t, "[x, 2]\n", out)
}

func TestBuiltinsShadowUserFunctions(t *testing.T) {
	fns := []*ast.FunctionDefinition{
		ast.Fn("len", []string{"x"}, ast.Ret(ast.Int(99))),
	}
	val, err := evalExpr(t, fns, ast.Call("len", ast.Str("ab")))
	require.NoError(t, err)
	assert.Equal(t, runtime.IntegerValue{Val: 2}, val)
}

func TestCallOrderingOfChecks(t *testing.T) {
	fns := []*ast.FunctionDefinition{
		ast.Fn("f", []string{"a"}, ast.Ret(ast.ID("a"))),
	}

	// Unknown callee is reported before its arguments are evaluated.
	_, err := evalExpr(t, fns, ast.Call("nope", ast.ID("undefined")))
	expectKind(t, err, runtime.NameError)
	if !strings.Contains(err.Error(), "unbound function nope") {
		t.Fatalf("unexpected message %q", err.Error())
	}

	// Arity is checked before arguments are evaluated.
	_, err = evalExpr(t, fns, ast.Call("f", ast.ID("undefined"), ast.Int(1)))
	expectKind(t, err, runtime.ArityError)
	assert.Equal(t, "ArityError: function 'f' expects 1 arguments, got 2", err.Error())

	// Arguments are evaluated left to right.
	_, err = evalExpr(t, fns, ast.Call("f", ast.Bin(ast.BinaryOperatorDiv, ast.ID("u"), ast.Int(0))))
	expectKind(t, err, runtime.NameError)
}

func TestFunctionsUseFreshEnvironment(t *testing.T) {
	program := ast.Prog(
		[]*ast.FunctionDefinition{
			ast.Fn("peek", nil, ast.Ret(ast.ID("outer"))),
			ast.Fn("set", nil, ast.Assign("outer", ast.Int(2))),
		},
		ast.Assign("outer", ast.Int(1)),
		ast.Expr(ast.Call("set")),
		ast.Print(ast.ID("outer")),
		ast.Print(ast.Call("peek")),
	)
	out, _, err := runProgram(t, program)
	assert.Equal(t, "1\n", out)
	expectKind(t, err, runtime.NameError)
}

func TestReturnUnwindsNestedStatements(t *testing.T) {
	find := ast.Fn("find", []string{"l", "x"},
		ast.For("i", ast.Call("range", ast.Call("len", ast.ID("l"))),
			ast.If(
				ast.Bin(ast.BinaryOperatorEq, ast.Index(ast.ID("l"), ast.ID("i")), ast.ID("x")),
				ast.Blk(ast.Ret(ast.ID("i")), ast.Print(ast.Str("unreachable"))),
				nil,
			),
		),
		ast.Print(ast.Str("not found")),
	)
	out, _ := mustRun(t, ast.Prog([]*ast.FunctionDefinition{find},
		ast.Print(ast.Call("find", ast.List(ast.Int(4), ast.Int(5), ast.Int(6)), ast.Int(5))),
		ast.Print(ast.Call("find", ast.List(), ast.Int(1))),
	))
	assert.Equal(t, "1\nnot found\nNone\n", out)
}

func TestFallingOffTheEndReturnsNone(t *testing.T) {
	fns := []*ast.FunctionDefinition{ast.Fn("noop", nil)}
	val, err := evalExpr(t, fns, ast.Call("noop"))
	require.NoError(t, err)
	assert.Equal(t, runtime.NoneValue{}, val)
}

func TestListsAreSharedByReference(t *testing.T) {
	mutate := ast.Fn("mutate", []string{"l"}, ast.SetIndex(ast.ID("l"), ast.Int(1), ast.Str("changed")))
	out, _ := mustRun(t, ast.Prog([]*ast.FunctionDefinition{mutate},
		ast.Assign("l", ast.List(ast.Int(1), ast.Int(2))),
		ast.Assign("m", ast.ID("l")),
		ast.SetIndex(ast.ID("m"), ast.Int(0), ast.Int(9)),
		ast.Print(ast.ID("l")),
		ast.Expr(ast.Call("mutate", ast.ID("l"))),
		ast.Print(ast.ID("m")),
	))
	assert.Equal(t, "[9, 2]\n[9, changed]\n", out)
}

func TestIndexing(t *testing.T) {
	list := ast.List(ast.Str("a"), ast.Str("b"))
	assert.Equal(t, runtime.StringValue{Val: "b"}, mustEval(t, ast.Index(list, ast.Int(1))))

	for _, idx := range []int64{2, -1} {
		_, err := evalExpr(t, nil, ast.Index(list, ast.Int(idx)))
		expectKind(t, err, runtime.IndexError)
	}

	_, err := evalExpr(t, nil, ast.Index(ast.Str("ab"), ast.Int(0)))
	expectKind(t, err, runtime.TypeError)
	_, err = evalExpr(t, nil, ast.Index(list, ast.Str("0")))
	expectKind(t, err, runtime.TypeError)
}

func TestIndexAssignmentChecksBoundsBeforeValue(t *testing.T) {
	_, _, err := runProgram(t, ast.Prog(nil,
		ast.Assign("l", ast.List(ast.Int(1))),
		ast.SetIndex(ast.ID("l"), ast.Int(1), ast.Call("boom")),
	))
	expectKind(t, err, runtime.IndexError)

	_, _, err = runProgram(t, ast.Prog(nil,
		ast.Assign("l", ast.List(ast.Int(1))),
		ast.SetIndex(ast.ID("l"), ast.Int(0), ast.Call("boom")),
	))
	expectKind(t, err, runtime.NameError)
}

func TestForLoopBindsInEnclosingEnvironment(t *testing.T) {
	out, env := mustRun(t, ast.Prog(nil,
		ast.Assign("total", ast.Int(0)),
		ast.For("i", ast.Call("range", ast.Int(4)),
			ast.Assign("total", ast.Bin(ast.BinaryOperatorAdd, ast.ID("total"), ast.ID("i"))),
		),
		ast.Print(ast.ID("total")),
		ast.Print(ast.ID("i")),
	))
	assert.Equal(t, "6\n3\n", out)
	assert.Equal(t, []string{"i", "total"}, env.Keys())

	_, _, err := runProgram(t, ast.Prog(nil, ast.For("c", ast.Str("abc"), ast.Blk())))
	expectKind(t, err, runtime.TypeError)
}

func TestEmptyLoopLeavesVariableUnbound(t *testing.T) {
	_, env := mustRun(t, ast.Prog(nil, ast.For("i", ast.List(), ast.Blk())))
	assert.Empty(t, env.Keys())
}

func TestIfWithoutElse(t *testing.T) {
	out, _ := mustRun(t, ast.Prog(nil,
		ast.If(ast.Str(""), ast.Print(ast.Str("then")), nil),
		ast.If(ast.Str("x"), ast.Print(ast.Str("then")), ast.Print(ast.Str("else"))),
		ast.If(ast.None(), ast.Print(ast.Str("then")), ast.Print(ast.Str("else"))),
	))
	assert.Equal(t, "then\nelse\n", out)
}

func TestRecursionAndDepthLimit(t *testing.T) {
	sum := ast.Fn("sum", []string{"n"},
		ast.If(
			ast.Bin(ast.BinaryOperatorEq, ast.ID("n"), ast.Int(0)),
			ast.Ret(ast.Int(0)),
			ast.Ret(ast.Bin(ast.BinaryOperatorAdd, ast.ID("n"),
				ast.Call("sum", ast.Bin(ast.BinaryOperatorSub, ast.ID("n"), ast.Int(1))))),
		),
	)
	out, _ := mustRun(t, ast.Prog([]*ast.FunctionDefinition{sum}, ast.Print(ast.Call("sum", ast.Int(5)))))
	assert.Equal(t, "15\n", out)

	forever := ast.Fn("forever", nil, ast.Ret(ast.Call("forever")))
	interp := New(Options{Stdout: &strings.Builder{}, MaxDepth: 25})
	_, err := interp.EvaluateProgram(ast.Prog([]*ast.FunctionDefinition{forever}, ast.Expr(ast.Call("forever"))))
	expectKind(t, err, runtime.RecursionError)
	assert.Contains(t, err.Error(), "maximum call depth 25 exceeded in forever")
	assert.Zero(t, interp.depth)
}

func TestLaterDefinitionWins(t *testing.T) {
	fns := []*ast.FunctionDefinition{
		ast.Fn("f", nil, ast.Ret(ast.Int(1))),
		ast.Fn("f", nil, ast.Ret(ast.Int(2))),
	}
	val, err := evalExpr(t, fns, ast.Call("f"))
	require.NoError(t, err)
	assert.Equal(t, runtime.IntegerValue{Val: 2}, val)
}

func TestLoadValidation(t *testing.T) {
	interp := New(Options{})
	err := interp.Load(ast.Prog([]*ast.FunctionDefinition{ast.Fn("f", []string{"a", "a"})}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate parameter a")

	interp = New(Options{})
	require.NoError(t, interp.Load(ast.Prog(nil)))
	assert.Error(t, interp.Load(ast.Prog(nil)))

	assert.Error(t, New(Options{}).Load(nil))
}

func TestReturnOutsideFunction(t *testing.T) {
	_, _, err := runProgram(t, ast.Prog(nil, ast.Print(ast.Int(1)), ast.Ret(ast.Int(2)), ast.Print(ast.Int(3))))
	require.Error(t, err)
	assert.Equal(t, "return outside function", err.Error())
}

func TestOutputBeforeErrorIsKept(t *testing.T) {
	out, _, err := runProgram(t, ast.Prog(nil,
		ast.Print(ast.Str("first")),
		ast.Print(ast.ID("missing")),
		ast.Print(ast.Str("never")),
	))
	assert.Equal(t, "first\n", out)
	expectKind(t, err, runtime.NameError)
}

func TestErrorsCarryInnermostStatementSpan(t *testing.T) {
	inner := ast.Ret(ast.Bin(ast.BinaryOperatorDiv, ast.ID("a"), ast.Int(0)))
	ast.SetSpan(inner, ast.Span{Start: ast.Position{Line: 2, Column: 5}, End: ast.Position{Line: 2, Column: 17}})
	outer := ast.Print(ast.Call("f", ast.Int(1)))
	ast.SetSpan(outer, ast.Span{Start: ast.Position{Line: 4, Column: 1}, End: ast.Position{Line: 4, Column: 12}})

	_, _, err := runProgram(t, ast.Prog([]*ast.FunctionDefinition{ast.Fn("f", []string{"a"}, inner)}, outer))
	var re *runtime.Error
	require.True(t, errors.As(err, &re), "expected runtime error, got %v", err)
	span, ok := re.Span()
	require.True(t, ok)
	assert.Equal(t, 2, span.Start.Line)
	assert.Equal(t, 5, span.Start.Column)
}

func TestCallFunction(t *testing.T) {
	interp := New(Options{})
	_, err := interp.CallFunction("double", nil)
	assert.Error(t, err)

	require.NoError(t, interp.Load(ast.Prog([]*ast.FunctionDefinition{
		ast.Fn("double", []string{"x"}, ast.Ret(ast.Bin(ast.BinaryOperatorMul, ast.ID("x"), ast.Int(2)))),
	})))
	val, err := interp.CallFunction("double", []runtime.Value{runtime.IntegerValue{Val: 21}})
	require.NoError(t, err)
	assert.Equal(t, runtime.IntegerValue{Val: 42}, val)

	_, err = interp.CallFunction("double", nil)
	expectKind(t, err, runtime.ArityError)
	_, err = interp.CallFunction("triple", nil)
	expectKind(t, err, runtime.NameError)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrintReportsWriteErrors(t *testing.T) {
	interp := New(Options{Stdout: failingWriter{}})
	_, err := interp.EvaluateProgram(ast.Prog(nil, ast.Print(ast.Int(1))))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "print: disk full")
}

func TestLoggerReceivesCallEvents(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	interp := New(Options{Stdout: &strings.Builder{}, Logger: zap.New(core)})
	countdown := ast.Fn("countdown", []string{"n"},
		ast.If(ast.ID("n"), ast.Expr(ast.Call("countdown", ast.Bin(ast.BinaryOperatorSub, ast.ID("n"), ast.Int(1)))), nil),
	)
	_, err := interp.EvaluateProgram(ast.Prog([]*ast.FunctionDefinition{countdown}, ast.Expr(ast.Call("countdown", ast.Int(2)))))
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("program loaded").Len())
	calls := logs.FilterMessage("call").All()
	require.Len(t, calls, 3)
	assert.Equal(t, int64(3), calls[2].ContextMap()["depth"])
}

func TestLoadWarnsWhenBuiltinShadowsFunction(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	interp := New(Options{Stdout: &strings.Builder{}, Logger: zap.New(core)})
	fns := []*ast.FunctionDefinition{
		ast.Fn("range", []string{"n"}, ast.Ret(ast.Int(0))),
		ast.Fn("helper", nil, ast.Ret(ast.Int(1))),
	}
	require.NoError(t, interp.Load(ast.Prog(fns)))

	warnings := logs.FilterMessage("function shadowed by builtin").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "range", warnings[0].ContextMap()["function"])
}

func TestRangeRejectsUnallocatableLengths(t *testing.T) {
	for _, n := range []int64{MaxRangeLength + 1, 1_000_000_000, math.MaxInt32} {
		_, err := evalExpr(t, nil, ast.Call("range", ast.Int(n)))
		expectKind(t, err, runtime.IndexError)
		assert.Contains(t, err.Error(), "too large")
	}

	out, _, err := runProgram(t, ast.Prog(nil,
		ast.Print(ast.Str("before")),
		ast.Assign("r", ast.Call("range", ast.Int(1_000_000_000))),
	))
	expectKind(t, err, runtime.IndexError)
	assert.Equal(t, "before\n", out)
}

func TestSelfContainingListsCompare(t *testing.T) {
	out, _, err := runProgram(t, ast.Prog(nil,
		ast.Print(ast.Str("before")),
		ast.Assign("a", ast.List(ast.Int(0))),
		ast.SetIndex(ast.ID("a"), ast.Int(0), ast.ID("a")),
		ast.Assign("b", ast.List(ast.Int(0))),
		ast.SetIndex(ast.ID("b"), ast.Int(0), ast.ID("b")),
		ast.Print(ast.Bin(ast.BinaryOperatorEq, ast.ID("a"), ast.ID("b"))),
		ast.Print(ast.Bin(ast.BinaryOperatorLt, ast.ID("a"), ast.ID("b"))),
		ast.Print(ast.ID("a")),
	))
	require.NoError(t, err)
	assert.Equal(t, "before\nTrue\nFalse\n[[...]]\n", out)
}
