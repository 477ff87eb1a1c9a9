package runtime

import "fmt"

// Kind identifies the runtime value category. The declaration order is the
// cross-variant rank used by Compare.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindInteger
	KindString
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInteger:
		return "int"
	case KindString:
		return "string"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the closed set of Mini-Python runtime values. The unexported
// method keeps the variant list inside this package.
type Value interface {
	Kind() Kind
	sealed()
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NoneValue struct{}

func (NoneValue) Kind() Kind { return KindNone }
func (NoneValue) sealed()    {}

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }
func (BoolValue) sealed()      {}

// IntegerValue is a machine integer; arithmetic wraps on overflow.
type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }
func (IntegerValue) sealed()      {}

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }
func (StringValue) sealed()      {}

//-----------------------------------------------------------------------------
// Lists
//-----------------------------------------------------------------------------

// ListValue is a fixed-length sequence shared by reference: every binding of
// the same *ListValue sees in-place element updates. The slice is never
// resliced or appended to after construction.
type ListValue struct {
	Elements []Value
}

func (v *ListValue) Kind() Kind { return KindList }
func (*ListValue) sealed()      {}

// NewList allocates a list of n None slots.
func NewList(n int) *ListValue {
	if n < 0 {
		n = 0
	}
	elems := make([]Value, n)
	for idx := range elems {
		elems[idx] = NoneValue{}
	}
	return &ListValue{Elements: elems}
}

// NewListFrom wraps already evaluated elements without copying them.
func NewListFrom(elements []Value) *ListValue {
	if elements == nil {
		elements = []Value{}
	}
	return &ListValue{Elements: elements}
}

// ConcatLists builds fresh storage holding left's elements then right's.
func ConcatLists(left, right *ListValue) *ListValue {
	elems := make([]Value, 0, len(left.Elements)+len(right.Elements))
	elems = append(elems, left.Elements...)
	elems = append(elems, right.Elements...)
	return &ListValue{Elements: elems}
}

func (v *ListValue) Len() int {
	return len(v.Elements)
}

// Get returns the element at index or an IndexError.
func (v *ListValue) Get(index int64) (Value, error) {
	if index < 0 || index >= int64(len(v.Elements)) {
		return nil, IndexError.New("index out of bounds")
	}
	return v.Elements[index], nil
}

// Set overwrites the element at index in place.
func (v *ListValue) Set(index int64, val Value) error {
	if err := v.CheckIndex(index); err != nil {
		return err
	}
	v.Elements[index] = val
	return nil
}

func (v *ListValue) CheckIndex(index int64) error {
	if index < 0 || index >= int64(len(v.Elements)) {
		return IndexError.New("index out of bounds")
	}
	return nil
}

//-----------------------------------------------------------------------------
// Truthiness and coercions
//-----------------------------------------------------------------------------

// IsFalse holds exactly for None, False, 0, "" and [].
func IsFalse(v Value) bool {
	switch val := v.(type) {
	case NoneValue:
		return true
	case BoolValue:
		return !val.Val
	case IntegerValue:
		return val.Val == 0
	case StringValue:
		return val.Val == ""
	case *ListValue:
		return len(val.Elements) == 0
	default:
		panic(fmt.Sprintf("runtime: unexpected value %T", v))
	}
}

func IsTrue(v Value) bool {
	return !IsFalse(v)
}

func AsInt(v Value) (int64, error) {
	if iv, ok := v.(IntegerValue); ok {
		return iv.Val, nil
	}
	return 0, TypeError.New("integer expected")
}

func AsList(v Value) (*ListValue, error) {
	if lv, ok := v.(*ListValue); ok && lv != nil {
		return lv, nil
	}
	return nil, TypeError.New("list expected")
}
