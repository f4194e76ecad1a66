package natives_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiktorwojcik112/hier/hier"
	"github.com/wiktorwojcik112/hier/natives"
)

func newTestEnvironment(t *testing.T) *hier.Environment {
	t.Helper()
	var out bytes.Buffer
	h := hier.New(hier.Options{
		Path:   "./test",
		Stdout: &out,
		Stderr: &out,
		ExitHandler: func() {
			t.Fatal("unexpected ExitHandler call")
		},
	})
	return h.Environment()
}

func TestTimeReturnsPositiveUnixSeconds(t *testing.T) {
	env := newTestEnvironment(t)
	result := natives.Time(env, nil)
	assert.Equal(t, hier.TypeNumber, result.Type())
	assert.Greater(t, result.Number(), float64(0))
}

func TestRandReturnsValueWithinRange(t *testing.T) {
	env := newTestEnvironment(t)
	result := natives.Rand(env, []hier.Value{hier.NumberValue(1), hier.NumberValue(2)})
	assert.GreaterOrEqual(t, result.Number(), float64(1))
	assert.Less(t, result.Number(), float64(2))
}

func TestRandPanicsWhenRangeInverted(t *testing.T) {
	env := newTestEnvironment(t)
	assert.Panics(t, func() {
		natives.Rand(env, []hier.Value{hier.NumberValue(5), hier.NumberValue(1)})
	})
}

func TestCmdCapturesStdout(t *testing.T) {
	env := newTestEnvironment(t)
	result := natives.Cmd(env, []hier.Value{hier.StringValue("echo"), hier.StringValue("hello")})
	require.Equal(t, hier.TypeString, result.Type())
	assert.Equal(t, "hello\n", result.Str())
}

func TestCmdReturnsErrorValueOnFailure(t *testing.T) {
	env := newTestEnvironment(t)
	result := natives.Cmd(env, []hier.Value{hier.StringValue("this-command-does-not-exist")})
	assert.True(t, result.IsError())
}

func TestWriteThenFileRoundTrips(t *testing.T) {
	env := newTestEnvironment(t)
	path := filepath.Join(t.TempDir(), "out.txt")

	written := natives.Write(env, []hier.Value{hier.StringValue(path), hier.StringValue("payload")})
	assert.Equal(t, "payload", written.Str())

	read := natives.File(env, []hier.Value{hier.StringValue(path)})
	assert.Equal(t, "payload", read.Str())
}

func TestFileReturnsErrorValueWhenMissing(t *testing.T) {
	env := newTestEnvironment(t)
	result := natives.File(env, []hier.Value{hier.StringValue("/nonexistent/path/to/nothing")})
	assert.True(t, result.IsError())
}
