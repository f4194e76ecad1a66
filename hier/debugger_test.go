package hier

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newDebuggerEnvironment(input string) (*Environment, *bytes.Buffer) {
	e := newTestEnvironment()
	e.stdin = strings.NewReader(input)
	var stdout bytes.Buffer
	e.stdout = &stdout
	return e, &stdout
}

func TestRunDebuggerBreakThenContinue(t *testing.T) {
	e, out := newDebuggerEnvironment("b factorial\nlib\nc\n")
	runDebugger(e, "")

	assert.Equal(t, []string{"factorial"}, e.breakpoints)
	assert.Contains(t, out.String(), "0 - factorial")
}

func TestRunDebuggerStepCommandRearmsStepFlag(t *testing.T) {
	e, _ := newDebuggerEnvironment("s\n")
	e.isAStep = true
	runDebugger(e, "some_function")

	assert.True(t, e.isAStep, "step command should re-arm isAStep for the next call")
}

func TestRunDebuggerPrintsVariable(t *testing.T) {
	e, out := newDebuggerEnvironment("p x\nc\n")
	e.declare("x", NumberValue(7))
	runDebugger(e, "")

	assert.Contains(t, out.String(), "7")
}

func TestRunDebuggerUnknownCommand(t *testing.T) {
	e, out := newDebuggerEnvironment("bogus\nc\n")
	runDebugger(e, "")

	assert.Contains(t, out.String(), "Unknown command: bogus")
}

func TestRemoveBreakpointByIndex(t *testing.T) {
	e := newTestEnvironment()
	e.breakpoints = []string{"a", "b", "c"}
	removeBreakpoint(e, "1")
	assert.Equal(t, []string{"a", "c"}, e.breakpoints)
}

func TestRemoveBreakpointByName(t *testing.T) {
	e := newTestEnvironment()
	e.breakpoints = []string{"a", "b", "c"}
	removeBreakpoint(e, "b")
	assert.Equal(t, []string{"a", "c"}, e.breakpoints)
}

func TestRemoveBreakpointUnknownReportsError(t *testing.T) {
	e, out := newDebuggerEnvironment("")
	e.breakpoints = []string{"a"}
	removeBreakpoint(e, "nonexistent")

	assert.Equal(t, []string{"a"}, e.breakpoints)
	assert.Contains(t, out.String(), "doesn't exist")
}

func TestPrintDebuggerHelp(t *testing.T) {
	var buf bytes.Buffer
	printDebuggerHelp(&buf)
	assert.Contains(t, buf.String(), "h/help")
	assert.Contains(t, buf.String(), "b/break")
}

func TestExprDebugStringProperty(t *testing.T) {
	expr := propertyExpr(emptyLocation(), identifierExpr(emptyLocation(), "x"), "name")
	assert.Equal(t, "x.name", exprDebugString(expr))
}
