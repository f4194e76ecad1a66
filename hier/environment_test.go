package hier

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestEnvironment() *Environment {
	e := newEnvironment(false, "./test", nil, func() {}, false, nil)
	var stderr bytes.Buffer
	e.stderr = &stderr
	e.logger = newLogger("test")
	return e
}

func TestEnvironmentDeclareAndGet(t *testing.T) {
	e := newTestEnvironment()
	e.declare("x", NumberValue(42))
	assert.Equal(t, NumberValue(42), e.get("x"))
}

func TestEnvironmentGetUnknownIsNull(t *testing.T) {
	e := newTestEnvironment()
	assert.True(t, e.get("nope").kind == valNull)
}

func TestEnvironmentScopesShadowAndUnwind(t *testing.T) {
	e := newTestEnvironment()
	e.declare("x", NumberValue(1))

	e.beginScope()
	e.declare("x", NumberValue(2))
	assert.Equal(t, NumberValue(2), e.get("x"))
	e.endScope()

	assert.Equal(t, NumberValue(1), e.get("x"))
}

func TestEnvironmentAssignFindsOuterScope(t *testing.T) {
	e := newTestEnvironment()
	e.declare("x", NumberValue(1))

	e.beginScope()
	e.assign("x", NumberValue(9))
	assert.Equal(t, NumberValue(9), e.get("x"))
	e.endScope()

	assert.Equal(t, NumberValue(9), e.get("x"))
}

func TestEnvironmentCloneIsIndependent(t *testing.T) {
	e := newTestEnvironment()
	e.declare("x", NumberValue(1))

	clone := e.clone()
	clone.declare("y", NumberValue(2))

	assert.True(t, e.get("y").kind == valNull)
	assert.Equal(t, NumberValue(2), clone.get("y"))
}

func TestEnvironmentDoubleColonResolvesSubEnvironment(t *testing.T) {
	e := newTestEnvironment()
	inner := newTestEnvironment()
	inner.declare("greeting", StringValue("hi"))
	e.declare("mod", EnvironmentValue(inner))

	assert.Equal(t, StringValue("hi"), e.get("mod::greeting"))
}

func TestEnvironmentDoubleColonSuppressesPrivateNames(t *testing.T) {
	e := newTestEnvironment()
	inner := newTestEnvironment()
	inner.declare("_secret", StringValue("hidden"))
	e.declare("mod", EnvironmentValue(inner))

	assert.True(t, e.get("mod::_secret").kind == valNull)
}

func TestEnvironmentBreakpointMatchesExactAndGlob(t *testing.T) {
	e := newTestEnvironment()
	e.breakpoints = []string{"factorial", "draw_*"}

	assert.True(t, e.breakpointMatches("factorial"))
	assert.True(t, e.breakpointMatches("draw_circle"))
	assert.False(t, e.breakpointMatches("other"))
}

func TestEnvironmentErrorPanicsWithRuntimePanic(t *testing.T) {
	e := newTestEnvironment()

	defer func() {
		r := recover()
		rp, ok := r.(runtimePanic)
		if !ok {
			t.Fatalf("expected runtimePanic, got %#v", r)
		}
		assert.Equal(t, KindName, rp.err.Kind)
	}()

	e.error(KindName, "boom")
}
