package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"minipy/interpreter-go/pkg/ast"
	"minipy/interpreter-go/pkg/driver"
	"minipy/interpreter-go/pkg/interpreter"
	"minipy/interpreter-go/pkg/parser"
	"minipy/interpreter-go/pkg/runtime"
)

const cliToolVersion = "minipy 0.1.0-dev"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type options struct {
	showHelp    bool
	showVersion bool
	verbose     bool
	spans       bool
	maxDepth    int
	format      string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("minipy", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVarP(&opts.showHelp, "help", "h", false, "Print usage information (this message) and quit")
	fs.BoolVarP(&opts.showVersion, "version", "V", false, "Print version information and quit")
	fs.BoolVar(&opts.verbose, "verbose", false, "Log loading and call events to stderr")
	fs.IntVar(&opts.maxDepth, "max-depth", interpreter.DefaultMaxDepth, "Maximum nested function calls; negative disables the limit")
	fs.StringVar(&opts.format, "format", string(driver.FormatAuto), "Input format: auto, source or tree")
	fs.BoolVar(&opts.spans, "spans", false, "Include source positions in tree output")
	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		printUsage(stderr, fs)
		return exitUsage
	}
	if opts.showHelp {
		printUsage(stdout, fs)
		return exitOK
	}
	if opts.showVersion {
		fmt.Fprintln(stdout, cliToolVersion)
		return exitOK
	}

	format, err := driver.ParseFormat(opts.format)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	logger := newLogger(stderr, opts.verbose)
	defer logger.Sync()

	command, rest := "run", fs.Args()
	if len(rest) > 0 {
		switch rest[0] {
		case "run", "check", "tree":
			command, rest = rest[0], rest[1:]
		case "version":
			fmt.Fprintln(stdout, cliToolVersion)
			return exitOK
		}
	}
	if len(rest) != 1 {
		if len(rest) == 0 {
			fmt.Fprintf(stderr, "error: minipy %s requires a source file\n", command)
		} else {
			fmt.Fprintf(stderr, "error: unexpected arguments: %s\n", strings.Join(rest[1:], " "))
		}
		printUsage(stderr, fs)
		return exitUsage
	}
	path := rest[0]

	log := logger.Sugar()
	log.Debugf("Loading %s (format %s)", path, format)
	program, err := driver.Load(path, format)
	if err != nil {
		fmt.Fprintln(stderr, describeError(path, err))
		return exitFailure
	}

	switch command {
	case "check":
		fmt.Fprintf(stdout, "%s: ok (%d functions)\n", path, len(program.Functions))
		return exitOK
	case "tree":
		encoded, err := driver.EncodeProgram(program, driver.EncodeOptions{Spans: opts.spans})
		if err != nil {
			fmt.Fprintln(stderr, describeError(path, err))
			return exitFailure
		}
		if _, err := stdout.Write(encoded); err != nil {
			fmt.Fprintln(stderr, describeError(path, err))
			return exitFailure
		}
		return exitOK
	default:
		return execute(path, program, opts, logger, stdout, stderr)
	}
}

// execute runs program with buffered output. Everything printed before a
// failure is flushed ahead of the diagnostic.
func execute(path string, program *ast.Program, opts options, logger *zap.Logger, stdout, stderr io.Writer) int {
	out := bufio.NewWriter(stdout)
	interp := interpreter.New(interpreter.Options{
		Stdout:   out,
		Logger:   logger,
		MaxDepth: opts.maxDepth,
	})

	env, runErr := interp.EvaluateProgram(program)
	if env != nil {
		logger.Debug("top-level bindings", zap.Strings("names", env.Keys()))
	}
	if err := out.Flush(); err != nil && runErr == nil {
		runErr = errors.Wrap(err, "write output")
	}
	if runErr != nil {
		logger.Debug("program failed", zap.String("kind", runtime.KindOf(runErr).String()), zap.Error(runErr))
		fmt.Fprintln(stderr, describeError(path, runErr))
		return exitFailure
	}
	return exitOK
}

// describeError renders the single diagnostic line for a failed load or run,
// prefixed with the source position when one is known.
func describeError(path string, err error) string {
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("%s:%d:%d: error: %s", path, syntaxErr.Line, syntaxErr.Column, syntaxErr.Message)
	}
	var runtimeErr *runtime.Error
	if errors.As(err, &runtimeErr) {
		if span, ok := runtimeErr.Span(); ok {
			return fmt.Sprintf("%s:%d:%d: error: %v", path, span.Start.Line, span.Start.Column, runtimeErr)
		}
		return fmt.Sprintf("error: %v", runtimeErr)
	}
	return fmt.Sprintf("error: %v", err)
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	al := zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		al.SetLevel(zap.DebugLevel)
	}
	ec := zap.NewDevelopmentEncoderConfig()
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(zapcore.AddSync(w)), al))
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  minipy [flags] <file>")
	fmt.Fprintln(w, "  minipy [flags] run <file>")
	fmt.Fprintln(w, "  minipy [flags] check <file>")
	fmt.Fprintln(w, "  minipy [flags] tree <file>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Files ending in .yml, .yaml or .json are read as program trees.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
}
