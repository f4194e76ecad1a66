package hier

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wiktorwojcik112/hier/internal/metrics"
)

// Options configures a Hier instance, the same injectable-facade pattern
// the teacher uses for interp.Options: every piece of ambient I/O and
// host policy is a field here rather than a global, so embedding this
// interpreter in a test or a different CLI never needs package-level
// state.
type Options struct {
	// Path is the module path reported in error locations and used to
	// resolve relative `import` targets. Defaults to "./code".
	Path string

	// ModuleReader loads the contents of an imported module path.
	// Defaults to os.ReadFile.
	ModuleReader ModuleReader

	// ExitHandler terminates the process on (panic ...) or a fatal parse
	// failure. Defaults to os.Exit(1).
	ExitHandler ExitHandler

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Debug       bool
	Breakpoints []string

	// Registerer receives the hier_function_calls_total and
	// hier_runtime_errors_total counters. Defaults to a private registry
	// so multiple Hier instances never collide; pass
	// prometheus.DefaultRegisterer to expose them globally.
	Registerer prometheus.Registerer
}

// Hier is the embeddable facade over one interpreter session: a root
// Environment plus the options used to construct it, grounded on
// original_source's hier/hier.rs Hier struct.
type Hier struct {
	environment *Environment
	options     Options
}

func New(options Options) *Hier {
	if options.Path == "" {
		options.Path = "./code"
	}
	if options.ModuleReader == nil {
		options.ModuleReader = defaultModuleReader
	}
	if options.ExitHandler == nil {
		options.ExitHandler = func() { os.Exit(1) }
	}
	if options.Stdin == nil {
		options.Stdin = os.Stdin
	}
	if options.Stdout == nil {
		options.Stdout = os.Stdout
	}
	if options.Stderr == nil {
		options.Stderr = os.Stderr
	}
	if options.Registerer == nil {
		options.Registerer = prometheus.NewRegistry()
	}

	env := newEnvironment(false, options.Path, options.ModuleReader, options.ExitHandler, options.Debug, options.Breakpoints)
	env.stdin = options.Stdin
	env.stdout = options.Stdout
	env.stderr = options.Stderr
	env.loader = newModuleLoader(options.ModuleReader)
	env.logger = newLogger(options.Path)
	env.metrics = metrics.New(options.Registerer)

	return &Hier{environment: env, options: options}
}

func defaultModuleReader(path string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(contents), nil
}

// Run tokenizes, parses and evaluates code as a single module. A bare
// expression list is wrapped in `(...)` first, matching Hier::run's
// leniency for REPL-style one-liners typed without the outer list.
func (h *Hier) Run(code string) (result Value) {
	if !strings.HasPrefix(strings.TrimSpace(code), "(") {
		code = "(" + code + ")"
	}

	tok := newTokenizer(code, h.options.Path)
	tok.reader = h.options.ModuleReader
	tokens, tokErrs := tok.tokenizeModule()
	if len(tokErrs) > 0 {
		fmt.Fprintln(h.environment.stderr, tokErrs.Error())
		h.options.ExitHandler()
		return NullValue()
	}

	p := newParser(tokens, h.options.Path)
	code2, parseErrs := p.parse()
	if len(parseErrs) > 0 {
		fmt.Fprintln(h.environment.stderr, parseErrs.Error())
		h.options.ExitHandler()
		return NullValue()
	}

	h.environment.code = code2

	if h.options.Debug {
		runDebugger(h.environment, "")
	}

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtimePanic); ok {
				h.options.ExitHandler()
				result = NullValue()
				return
			}
			panic(r)
		}
	}()

	return h.environment.interpret()
}

// AddFunction registers a Go-implemented native function visible to every
// scope. argumentsCount of -1 disables arity checking.
func (h *Hier) AddFunction(name string, argumentsCount int, fn NativeFunc) {
	h.environment.values[varID{0, name}] = NativeFunctionValue(fn, argumentsCount)
}

// AddVariable registers a host-provided value visible to every scope.
func (h *Hier) AddVariable(name string, value Value) {
	h.environment.values[varID{0, name}] = value
}

// Environment exposes the root Environment for callers (notably the REPL)
// that need direct access to clone/interpretBlock semantics.
func (h *Hier) Environment() *Environment { return h.environment }
