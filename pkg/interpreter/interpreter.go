package interpreter

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"minipy/interpreter-go/pkg/ast"
	"minipy/interpreter-go/pkg/runtime"
)

// DefaultMaxDepth bounds nested user function calls when Options.MaxDepth is zero.
const DefaultMaxDepth = 10000

// Options configures an Interpreter. Zero values select os.Stdout, a no-op
// logger and DefaultMaxDepth; a negative MaxDepth disables the limit.
type Options struct {
	Stdout   io.Writer
	Logger   *zap.Logger
	MaxDepth int
}

// Interpreter drives evaluation of Mini-Python program trees.
type Interpreter struct {
	functions *functionTable
	out       io.Writer
	logger    *zap.Logger
	maxDepth  int
	depth     int
}

// New returns an interpreter with no program loaded.
func New(opts Options) *Interpreter {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxDepth := opts.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Interpreter{out: out, logger: logger, maxDepth: maxDepth}
}

// Load registers the program's function definitions. The table is built once
// and is read-only afterwards.
func (i *Interpreter) Load(program *ast.Program) error {
	if program == nil {
		return errors.New("interpreter: nil program")
	}
	if i.functions != nil {
		return errors.New("interpreter: program already loaded")
	}
	table, err := newFunctionTable(program.Functions)
	if err != nil {
		return err
	}
	i.functions = table
	for name := range table.defs {
		if _, ok := lookupBuiltin(name); ok {
			i.logger.Warn("function shadowed by builtin", zap.String("function", name))
		}
	}
	i.logger.Debug("program loaded", zap.Int("functions", table.Len()))
	return nil
}

// EvaluateProgram loads program and runs its main statement in a fresh
// top-level environment, which is returned for inspection.
func (i *Interpreter) EvaluateProgram(program *ast.Program) (*runtime.Environment, error) {
	if err := i.Load(program); err != nil {
		return nil, err
	}
	env := runtime.NewEnvironment()
	if program.Main == nil {
		return env, nil
	}
	done, err := i.executeStatement(program.Main, env)
	if err != nil {
		return env, err
	}
	if done.returning {
		return env, errors.New("return outside function")
	}
	return env, nil
}

// CallFunction invokes a loaded user function with already evaluated arguments.
func (i *Interpreter) CallFunction(name string, args []runtime.Value) (runtime.Value, error) {
	if i.functions == nil {
		return nil, errors.New("interpreter: no program loaded")
	}
	def, ok := i.functions.lookup(name)
	if !ok {
		return nil, runtime.NameError.Errorf("unbound function %s", name)
	}
	return i.invokeFunction(def, args)
}

// completion is the outcome of executing a statement: either normal
// fall-through or a return in progress carrying its value. Only
// invokeFunction consumes a returning completion.
type completion struct {
	returning bool
	value     runtime.Value
}

var normalCompletion = completion{}

func returnCompletion(val runtime.Value) completion {
	return completion{returning: true, value: val}
}
