package runtime

import "sort"

// Environment holds the variables of one function activation (or of the
// top-level statement). Scopes do not nest: blocks and loops bind into the
// same Environment as their enclosing call.
type Environment struct {
	values map[string]Value
}

func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// Define binds or rebinds name.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get retrieves a binding or fails with a NameError.
func (e *Environment) Get(name string) (Value, error) {
	if v, ok := e.values[name]; ok {
		return v, nil
	}
	return nil, NameError.Errorf("unbound variable %s", name)
}

// Keys returns the bound names in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
