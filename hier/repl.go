package hier

import "fmt"

// RunLine evaluates one REPL line against a clone of e's bindings,
// committing the clone's bindings back to e only if evaluation completes
// without a runtime error. This isolates a crashing statement from the
// persistent session, the Go equivalent of the original's
// panic::catch_unwind-around-a-cloned-Environment REPL loop (expanded
// specification section C.2).
func (e *Environment) RunLine(line string) Value {
	tok := newTokenizer(line, "REPL")
	tok.reader = e.moduleReader
	tok.tokenizeCode()
	if len(tok.errs) > 0 {
		fmt.Fprintln(e.stderr, tok.errs.Error())
		return NullValue()
	}

	p := newParser(tok.tokens, "REPL")
	code, errs := p.parse()
	if len(errs) > 0 {
		fmt.Fprintln(e.stderr, errs.Error())
		return NullValue()
	}

	var block []Expression
	if code.kind == exprBlock {
		block = code.items
	} else {
		block = []Expression{code}
	}

	clone := e.clone()
	clone.isInRepl = true

	result, ok := runIsolated(clone, block)
	if ok {
		e.values = clone.values
	}
	return result
}

func runIsolated(clone *Environment, block []Expression) (result Value, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isRuntime := r.(runtimePanic); isRuntime {
				result = NullValue()
				ok = false
				return
			}
			panic(r)
		}
	}()

	result = clone.interpretBlock(block)
	ok = true
	return
}
