package interpreter

import (
	"strconv"
	"strings"

	"minipy/interpreter-go/pkg/runtime"
)

// ValueToString renders a value the way print shows it. Strings appear
// without quotes, also inside lists. A list that contains itself prints
// the nested occurrence as [...].
func ValueToString(val runtime.Value) string {
	var b strings.Builder
	writeValue(&b, val, make(map[*runtime.ListValue]struct{}))
	return b.String()
}

func writeValue(b *strings.Builder, val runtime.Value, active map[*runtime.ListValue]struct{}) {
	switch v := val.(type) {
	case runtime.NoneValue:
		b.WriteString("None")
	case runtime.BoolValue:
		if v.Val {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case runtime.IntegerValue:
		b.WriteString(strconv.FormatInt(v.Val, 10))
	case runtime.StringValue:
		b.WriteString(v.Val)
	case *runtime.ListValue:
		if _, seen := active[v]; seen {
			b.WriteString("[...]")
			return
		}
		active[v] = struct{}{}
		defer delete(active, v)
		b.WriteByte('[')
		for idx, el := range v.Elements {
			if idx > 0 {
				b.WriteString(", ")
			}
			writeValue(b, el, active)
		}
		b.WriteByte(']')
	default:
		b.WriteString("<unknown>")
	}
}
