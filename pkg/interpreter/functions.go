package interpreter

import (
	"github.com/pkg/errors"

	"minipy/interpreter-go/pkg/ast"
)

// functionTable maps function names to their definitions. A later
// definition of the same name replaces an earlier one.
type functionTable struct {
	defs map[string]*ast.FunctionDefinition
}

func newFunctionTable(defs []*ast.FunctionDefinition) (*functionTable, error) {
	table := &functionTable{defs: make(map[string]*ast.FunctionDefinition, len(defs))}
	for idx, def := range defs {
		if def == nil || def.Name() == "" {
			return nil, errors.Errorf("interpreter: function definition %d has no name", idx)
		}
		if def.Body == nil {
			return nil, errors.Errorf("interpreter: function %s has no body", def.Name())
		}
		seen := make(map[string]struct{}, len(def.Params))
		for _, param := range def.Params {
			if param == nil || param.Name == "" {
				return nil, errors.Errorf("interpreter: function %s has an unnamed parameter", def.Name())
			}
			if _, dup := seen[param.Name]; dup {
				return nil, errors.Errorf("interpreter: duplicate parameter %s in function %s", param.Name, def.Name())
			}
			seen[param.Name] = struct{}{}
		}
		table.defs[def.Name()] = def
	}
	return table, nil
}

func (t *functionTable) lookup(name string) (*ast.FunctionDefinition, bool) {
	if t == nil {
		return nil, false
	}
	def, ok := t.defs[name]
	return def, ok
}

func (t *functionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.defs)
}
