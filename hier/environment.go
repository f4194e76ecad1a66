package hier

import (
	"fmt"
	"io"

	"github.com/gobwas/glob"

	"github.com/wiktorwojcik112/hier/internal/metrics"
)

// varID keys a binding by scope depth and name, the same flat
// (scope, name) -> Value table original_source's environment.rs uses
// instead of a parent-pointer frame chain.
type varID struct {
	scope uint64
	name  string
}

// ModuleReader loads the source for an imported or included module path.
type ModuleReader func(path string) (string, error)

// ExitHandler terminates the host process. It is injectable so tests and
// the REPL can avoid actually calling os.Exit (spec section 5, host
// facade options).
type ExitHandler func()

// Environment is Hier's single mutable interpreter state: variable
// bindings, the program being run, and debugger/host wiring. It is
// deliberately a flat struct cloned by value at REPL/import boundaries,
// mirroring original_source's #[derive(Clone)] Environment.
type Environment struct {
	scope uint64
	path  string

	values map[varID]Value
	code   Expression

	isInRepl bool

	moduleReader ModuleReader
	exitHandler  ExitHandler

	currentLocation   Location
	currentExpression Expression

	isDebugging bool
	breakpoints []string
	isAStep     bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logger  *slogLogger
	loader  *moduleLoader
	metrics *metrics.Registry
}

// runtimePanic carries a *RuntimeError through a panic/recover unwind, the
// idiomatic Go replacement for the original's divergent (`!`-returning)
// self.error calls. Recovered at REPL, debugger, and Run boundaries, the
// way yaegi's Panic type is recovered in Interpreter.Eval.
type runtimePanic struct {
	err *RuntimeError
}

func newEnvironment(isInRepl bool, path string, reader ModuleReader, exit ExitHandler, debugging bool, breakpoints []string) *Environment {
	return &Environment{
		scope:        0,
		path:         path,
		values:       make(map[varID]Value),
		code:         valueExpr(emptyLocation(), NullValue()),
		isInRepl:     isInRepl,
		moduleReader: reader,
		exitHandler:  exit,
		isDebugging:  debugging,
		breakpoints:  append([]string{}, breakpoints...),
	}
}

// clone returns an independent copy of e, used by the REPL to isolate a
// crashing statement from the persistent session state (spec section 5).
func (e *Environment) clone() *Environment {
	c := *e
	c.values = make(map[varID]Value, len(e.values))
	for k, v := range e.values {
		c.values[k] = v
	}
	c.breakpoints = append([]string{}, e.breakpoints...)
	return &c
}

func (e *Environment) beginScope() { e.scope++ }

func (e *Environment) endScope() {
	if e.scope == 0 {
		e.error(KindName, "Ended scope that didn't exist.")
		return
	}
	for k := range e.values {
		if k.scope == e.scope {
			delete(e.values, k)
		}
	}
	e.scope--
}

// error records a RuntimeError at the current location and unwinds via
// panic. In REPL mode the panic is caught by the REPL loop per statement;
// otherwise it is caught once at the top of Run, optionally dropping into
// the debugger first.
func (e *Environment) error(kind ErrorKind, format string, args ...interface{}) Value {
	err := newRuntimeError(kind, e.currentLocation, format, args...)
	fmt.Fprintln(e.stderr, err.Error())
	e.metrics.RuntimeError(kind.String())

	if e.isDebugging && !e.isInRepl {
		dbg := e.clone()
		runDebugger(dbg, "ERROR")
	}

	panic(runtimePanic{err: err})
}

func (e *Environment) get(key string) Value {
	if idx := splitDoubleColon(key); idx >= 0 {
		head, tail := key[:idx], key[idx+2:]
		if len(tail) > 0 && tail[0] == '_' {
			return NullValue()
		}

		target := e.get(head)
		if target.kind == valEnvironment {
			return target.env.get(tail)
		}
		if target.kind == valNull {
			return NullValue()
		}
		return e.error(KindType, "%s is not an environment.", head)
	}

	if v, ok := e.values[varID{e.scope, key}]; ok {
		return v
	}
	if e.scope == 0 {
		return NullValue()
	}
	return e.getInScope(key, e.scope-1)
}

func (e *Environment) getInScope(key string, scope uint64) Value {
	if idx := splitDoubleColon(key); idx >= 0 {
		tail := key[idx+2:]
		if len(tail) > 0 && tail[0] == '_' {
			return NullValue()
		}
		if v, ok := e.values[varID{scope, key}]; ok {
			if v.kind == valEnvironment {
				return v.env.get(tail)
			}
			if v.kind == valNull {
				return NullValue()
			}
			return e.error(KindType, "%s is not an environment.", key[:idx])
		}
		return NullValue()
	}

	if v, ok := e.values[varID{scope, key}]; ok {
		return v
	}
	if scope == 0 {
		return NullValue()
	}
	return e.getInScope(key, scope-1)
}

// declare binds key in the current scope. Outside the REPL, redeclaring an
// existing name in the same scope is an error (spec section 3).
func (e *Environment) declare(key string, value Value) {
	id := varID{e.scope, key}
	if e.isInRepl {
		e.values[id] = value
		return
	}
	if _, exists := e.values[id]; exists {
		e.error(KindName, "Variable '%s' already exists in current scope.", key)
		return
	}
	e.values[id] = value
}

func (e *Environment) assign(key string, value Value) {
	e.assignInScope(key, value, e.scope)
}

func (e *Environment) assignInScope(key string, value Value, scope uint64) {
	id := varID{scope, key}
	if _, exists := e.values[id]; exists {
		e.values[id] = value
		return
	}
	if scope == 0 {
		e.error(KindName, "Variable %s doesn't exist.", key)
		return
	}
	e.assignInScope(key, value, scope-1)
}

func (e *Environment) callUserDefinedFunction(name string, arguments []Value) Value {
	target := e.get(name)

	switch target.kind {
	case valFunction:
		if len(arguments) != len(target.funcParams) {
			return e.error(KindArity, "Function %s expects %d arguments, but %d were provided.", name, len(target.funcParams), len(arguments))
		}
		e.beginScope()
		for i, arg := range arguments {
			e.declare(target.funcParams[i], arg)
		}
		value := e.interpretBlock(target.funcBody)
		e.endScope()
		return value
	case valNativeFunction:
		if target.nativeArity != -1 && len(arguments) != target.nativeArity {
			return e.error(KindArity, "Function %s expects %d arguments, but %d were provided.", name, target.nativeArity, len(arguments))
		}
		return target.native(e, arguments)
	default:
		// Deliberately lenient: an unknown name only warns and yields Null.
		warning(e.stderr, fmt.Sprintf("Function %s doesn't exist or is not a function.", name))
		return NullValue()
	}
}

// callFunction is the single dispatch point every (operator ...) list
// form resolves through: module-qualified calls, the fixed operator
// table, declaration (@) / assignment (=) sugar, then user-defined
// functions as the fallback, matching call_function in the original.
func (e *Environment) callFunction(name string, arguments []Value) Value {
	if e.isDebugging && (e.isAStep || e.breakpointMatches(name)) {
		dbg := e
		runDebugger(dbg, name)
	}

	if idx := splitDoubleColon(name); idx >= 0 {
		head, tail := name[:idx], name[idx+2:]
		if len(tail) > 0 && tail[0] == '_' {
			return NullValue()
		}

		target := e.get(head)
		if target.kind == valEnvironment {
			result := target.env.callFunction(tail, arguments)
			e.assign(head, EnvironmentValue(target.env))
			return result
		}
		if target.kind == valNull {
			return NullValue()
		}
		return e.error(KindType, "%s is not an environment.", head)
	}

	e.metrics.FunctionCall(name)

	switch name {
	case "get":
		return e.callGet(arguments)
	case "import":
		return e.callImport(arguments)
	case "&", "list":
		return ListValue(arguments)
	case "+":
		return e.callAddition(arguments)
	case "-":
		return e.callSubtraction(arguments)
	case "*":
		return e.callMultiplication(arguments)
	case "/":
		return e.callDivision(arguments)
	case "!":
		return e.callNegate(arguments)
	case "&&", "||":
		return e.callLogical(name, arguments)
	case "==", "!=", "<=", ">=", "<", ">":
		return e.callComparison(name, arguments)
	case "??":
		return e.callNullCoalescing(arguments)
	case "append":
		return e.callAppend(arguments)
	case "brpoint":
		return e.callBrpoint(arguments)
	case "%":
		return e.callModulo(arguments)
	case "is":
		return e.callIs(arguments)
	case "print":
		return e.callPrint(arguments)
	case "println":
		return e.callPrintln(arguments)
	case "eval":
		return e.callEval(arguments)
	case "break":
		return e.callBreak(arguments)
	case "error":
		return e.callError(arguments)
	case "panic":
		return e.callPanic(arguments)
	case "read":
		return e.callRead(arguments)
	case "insert":
		return e.callInsert(arguments)
	case "round":
		return e.callRound(arguments)
	case "map":
		return e.callMap(arguments)
	case "remove":
		return e.callRemove(arguments)
	case "replace":
		return e.callReplace(arguments)
	case "length":
		return e.callLength(arguments)
	case "string":
		return e.callString(arguments)
	case "number":
		return e.callNumber(arguments)
	case "if":
		return e.callIf(arguments)
	case "while":
		return e.callWhile(arguments)
	case "table", "#":
		return e.callTable(arguments)
	case "repeat":
		return e.callRepeat(arguments)
	case "for":
		return e.callFor(arguments)
	case "run":
		return e.callRun(arguments)
	case "try":
		return e.callTry(arguments)
	}

	if len(name) > 0 && name[0] == '@' {
		return e.declareSugar(name[1:], arguments)
	}
	if len(name) > 0 && name[0] == '=' {
		return e.assignSugar(name[1:], arguments)
	}

	return e.callUserDefinedFunction(name, arguments)
}

func (e *Environment) declareSugar(name string, arguments []Value) Value {
	if name == "" {
		return e.error(KindName, "Name can't be empty (can't be only @).")
	}
	return e.bindSugar(name, arguments, e.declare)
}

func (e *Environment) assignSugar(name string, arguments []Value) Value {
	if name == "" {
		return e.error(KindName, "Name can't be empty (can't be only =).")
	}
	return e.bindSugar(name, arguments, e.assign)
}

func (e *Environment) bindSugar(name string, arguments []Value, bind func(string, Value)) Value {
	switch {
	case len(arguments) > 2:
		v := ListValue(arguments)
		bind(name, v)
		return v
	case len(arguments) == 2:
		if arguments[0].kind != valFunctionArgs {
			return e.error(KindType, "Function definition's first argument must be function arguments.")
		}
		if arguments[1].kind != valBlock {
			return e.error(KindType, "Function definition's second argument must be a block.")
		}
		v := FunctionValue(arguments[0].funcParams, arguments[1].block)
		bind(name, v)
		return v
	case len(arguments) == 1:
		bind(name, arguments[0])
		return arguments[0]
	default:
		return e.error(KindArity, "Variable set operation must have 1 or more arguments.")
	}
}

func (e *Environment) breakpointMatches(name string) bool {
	for _, pattern := range e.breakpoints {
		if pattern == name {
			return true
		}
		if g, err := glob.Compile(pattern); err == nil && g.Match(name) {
			return true
		}
	}
	return false
}

// splitDoubleColon returns the index of the first "::" in key, or -1.
func splitDoubleColon(key string) int {
	for i := 0; i+1 < len(key); i++ {
		if key[i] == ':' && key[i+1] == ':' {
			return i
		}
	}
	return -1
}

func warning(w io.Writer, message string) {
	fmt.Fprintf(w, "?: %s\n", message)
}
