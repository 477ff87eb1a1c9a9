package interpreter

import (
	"testing"

	"minipy/interpreter-go/pkg/runtime"
)

func TestValueToString(t *testing.T) {
	nested := runtime.NewListFrom([]runtime.Value{
		runtime.IntegerValue{Val: -3},
		runtime.StringValue{Val: "two words"},
		runtime.NoneValue{},
		runtime.BoolValue{Val: true},
		runtime.NewListFrom([]runtime.Value{runtime.BoolValue{Val: false}, runtime.NewListFrom(nil)}),
	})
	cases := []struct {
		val  runtime.Value
		want string
	}{
		{runtime.NoneValue{}, "None"},
		{runtime.BoolValue{Val: true}, "True"},
		{runtime.BoolValue{Val: false}, "False"},
		{runtime.IntegerValue{Val: 1234567890123}, "1234567890123"},
		{runtime.StringValue{Val: ""}, ""},
		{runtime.StringValue{Val: "it's"}, "it's"},
		{runtime.NewListFrom(nil), "[]"},
		{nested, "[-3, two words, None, True, [False, []]]"},
	}
	for _, tc := range cases {
		if got := ValueToString(tc.val); got != tc.want {
			t.Fatalf("ValueToString(%#v) = %q, want %q", tc.val, got, tc.want)
		}
	}
}

func TestValueToStringSelfReference(t *testing.T) {
	l := runtime.NewList(2)
	l.Elements[0] = runtime.IntegerValue{Val: 1}
	l.Elements[1] = l
	if got := ValueToString(l); got != "[1, [...]]" {
		t.Fatalf("unexpected rendering %q", got)
	}

	shared := runtime.NewListFrom([]runtime.Value{runtime.IntegerValue{Val: 7}})
	pair := runtime.NewListFrom([]runtime.Value{shared, shared})
	if got := ValueToString(pair); got != "[[7], [7]]" {
		t.Fatalf("repeated (non-cyclic) list should render twice, got %q", got)
	}
}
