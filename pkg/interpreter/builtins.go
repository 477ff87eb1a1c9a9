package interpreter

import (
	"unicode/utf8"

	"minipy/interpreter-go/pkg/runtime"
)

// MaxRangeLength is the longest list range builds. Larger requests fail with an
// IndexError instead of exhausting memory.
const MaxRangeLength = 1 << 24

type builtinFunc func(args []runtime.Value) (runtime.Value, error)

// builtin is a native function resolved by name ahead of user definitions.
type builtin struct {
	arity int
	impl  builtinFunc
}

var builtins = map[string]builtin{
	"len":   {arity: 1, impl: builtinLen},
	"list":  {arity: 1, impl: builtinList},
	"range": {arity: 1, impl: builtinRange},
}

func lookupBuiltin(name string) (builtin, bool) {
	b, ok := builtins[name]
	return b, ok
}

func builtinLen(args []runtime.Value) (runtime.Value, error) {
	switch v := args[0].(type) {
	case runtime.StringValue:
		return runtime.IntegerValue{Val: int64(utf8.RuneCountInString(v.Val))}, nil
	case *runtime.ListValue:
		return runtime.IntegerValue{Val: int64(v.Len())}, nil
	default:
		return nil, runtime.TypeError.New("this value has no 'len'")
	}
}

// builtinList hands its argument back unchanged; lists are already fixed
// size, so no copy is made and aliasing is preserved.
func builtinList(args []runtime.Value) (runtime.Value, error) {
	return args[0], nil
}

func builtinRange(args []runtime.Value) (runtime.Value, error) {
	n, err := runtime.AsInt(args[0])
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	if n > MaxRangeLength {
		return nil, runtime.IndexError.Errorf("range length %d too large (limit %d)", n, MaxRangeLength)
	}
	elems := make([]runtime.Value, n)
	for idx := range elems {
		elems[idx] = runtime.IntegerValue{Val: int64(idx)}
	}
	return runtime.NewListFrom(elems), nil
}
