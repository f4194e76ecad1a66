package hier

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// diffableValue strips the unexported fields cmp can't see into a plain
// map, so cmp.Diff can pinpoint which nested List element differs instead
// of Equal's all-or-nothing bool (useful once values nest several levels
// deep, e.g. a List of Tables of Lists).
func diffableValue(v Value) interface{} {
	switch v.kind {
	case valList:
		out := make([]interface{}, len(v.list))
		for i, item := range v.list {
			out[i] = diffableValue(item)
		}
		return out
	default:
		return v.TextRepresentation()
	}
}

func TestValueEqualStructuralLists(t *testing.T) {
	a := ListValue([]Value{NumberValue(1), StringValue("x")})
	b := ListValue([]Value{NumberValue(1), StringValue("x")})
	c := ListValue([]Value{NumberValue(2)})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestValueEqualNestedLists(t *testing.T) {
	a := ListValue([]Value{ListValue([]Value{NumberValue(1)})})
	b := ListValue([]Value{ListValue([]Value{NumberValue(1)})})
	assert.True(t, a.Equal(b))
}

func TestValueTextRepresentation(t *testing.T) {
	assert.Equal(t, "3", NumberValue(3).TextRepresentation())
	assert.Equal(t, "3.5", NumberValue(3.5).TextRepresentation())
	assert.Equal(t, "true", BoolValue(true).TextRepresentation())
	assert.Equal(t, "NULL", NullValue().TextRepresentation())
}

func TestValueIsLoopExit(t *testing.T) {
	assert.True(t, loopExitValue().IsLoopExit())
	assert.False(t, ErrorValue("oops").IsLoopExit())
	assert.True(t, ErrorValue("oops").IsError())
}

func TestValueEqualDeeplyNestedListsDiffPinpointsElement(t *testing.T) {
	a := ListValue([]Value{ListValue([]Value{NumberValue(1), StringValue("x")})})
	b := ListValue([]Value{ListValue([]Value{NumberValue(1), StringValue("y")})})

	assert.False(t, a.Equal(b))
	diff := cmp.Diff(diffableValue(a), diffableValue(b))
	assert.Contains(t, diff, "x")
	assert.Contains(t, diff, "y")
}

func TestValueType(t *testing.T) {
	assert.Equal(t, TypeList, ListValue(nil).Type())
	assert.Equal(t, TypeTable, TableValue(nil).Type())
	assert.Equal(t, TypeKeyValue, KeyValueValue("k", NumberValue(1)).Type())
}
