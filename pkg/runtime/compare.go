package runtime

import (
	"fmt"
	"strings"
)

// Compare orders any two values: by Kind rank when the variants differ,
// otherwise within the variant. Lists compare element-wise and a strict
// prefix ranks first. The result is always -1, 0 or 1.
func Compare(left, right Value) int {
	return compareValues(left, right, nil)
}

// listPair identifies one list-against-list comparison in progress.
type listPair [2]*ListValue

func compareValues(left, right Value, active map[listPair]struct{}) int {
	lk, rk := left.Kind(), right.Kind()
	if lk != rk {
		if lk < rk {
			return -1
		}
		return 1
	}
	switch l := left.(type) {
	case NoneValue:
		return 0
	case BoolValue:
		r := right.(BoolValue)
		switch {
		case l.Val == r.Val:
			return 0
		case r.Val:
			return -1
		default:
			return 1
		}
	case IntegerValue:
		r := right.(IntegerValue)
		switch {
		case l.Val < r.Val:
			return -1
		case l.Val > r.Val:
			return 1
		default:
			return 0
		}
	case StringValue:
		return strings.Compare(l.Val, right.(StringValue).Val)
	case *ListValue:
		return compareLists(l, right.(*ListValue), active)
	default:
		panic(fmt.Sprintf("runtime: unexpected value %T", left))
	}
}

// compareLists treats a pair of lists met again below itself as equal, so
// self-containing lists compare without unbounded recursion.
func compareLists(left, right *ListValue, active map[listPair]struct{}) int {
	if left == right {
		return 0
	}
	pair := listPair{left, right}
	if _, seen := active[pair]; seen {
		return 0
	}
	if active == nil {
		active = make(map[listPair]struct{})
	}
	active[pair] = struct{}{}
	defer delete(active, pair)

	n := len(left.Elements)
	if len(right.Elements) < n {
		n = len(right.Elements)
	}
	for idx := 0; idx < n; idx++ {
		if c := compareValues(left.Elements[idx], right.Elements[idx], active); c != 0 {
			return c
		}
	}
	switch {
	case len(left.Elements) < len(right.Elements):
		return -1
	case len(left.Elements) > len(right.Elements):
		return 1
	default:
		return 0
	}
}
