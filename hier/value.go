package hier

import (
	"fmt"
	"strings"
)

// valueKind tags the Value variant in play, mirroring the teacher's flat
// struct-with-kind-tag style (see yaegi's node/itype) rather than an
// interface-per-variant design: most Value operations (text representation,
// equality, type tagging) need to inspect the tag anyway, and keeping every
// variant in one struct keeps Value cheap to copy by value.
type valueKind int

const (
	valNumber valueKind = iota
	valString
	valBool
	valNull
	valList
	valTable
	valKeyValue
	valFunction
	valNativeFunction
	valBlock
	valFunctionArgs
	valType
	valError
	valEnvironment
)

// NativeFunc is the signature a host registers for a built-in implemented
// in Go rather than Hier. arity is checked by Environment.callFunction
// before the NativeFunc runs; -1 disables the check (spec section 3).
type NativeFunc func(env *Environment, args []Value) Value

// loopExitMessage is the reserved sentinel Error message produced by
// (break) and consumed by the nearest enclosing loop construct (spec
// section 3, invariant on Value Error "LoopExit").
const loopExitMessage = "LoopExit"

// Value is Hier's sole runtime object. The zero Value is Null.
type Value struct {
	kind valueKind

	number  float64
	str     string
	boolean bool

	list  []Value
	table map[string]Value

	kvKey   string
	kvValue *Value

	funcParams []string
	funcBody   []Expression

	native      NativeFunc
	nativeArity int

	block []Expression

	typeTag TypeTag

	errMessage string

	env *Environment
}

func NumberValue(n float64) Value { return Value{kind: valNumber, number: n} }
func StringValue(s string) Value  { return Value{kind: valString, str: s} }
func BoolValue(b bool) Value      { return Value{kind: valBool, boolean: b} }
func NullValue() Value            { return Value{kind: valNull} }

func ListValue(items []Value) Value {
	return Value{kind: valList, list: items}
}

func TableValue(entries map[string]Value) Value {
	return Value{kind: valTable, table: entries}
}

func KeyValueValue(key string, value Value) Value {
	v := value
	return Value{kind: valKeyValue, kvKey: key, kvValue: &v}
}

func FunctionValue(params []string, body []Expression) Value {
	return Value{kind: valFunction, funcParams: params, funcBody: body}
}

func NativeFunctionValue(fn NativeFunc, arity int) Value {
	return Value{kind: valNativeFunction, native: fn, nativeArity: arity}
}

func BlockValue(body []Expression) Value {
	return Value{kind: valBlock, block: body}
}

func FunctionArgumentsValue(names []string) Value {
	return Value{kind: valFunctionArgs, funcParams: names}
}

func TypeValue(tag TypeTag) Value {
	return Value{kind: valType, typeTag: tag}
}

func ErrorValue(message string) Value {
	return Value{kind: valError, errMessage: message}
}

func EnvironmentValue(env *Environment) Value {
	return Value{kind: valEnvironment, env: env}
}

func loopExitValue() Value { return ErrorValue(loopExitMessage) }

// IsError reports whether v is any Value Error, including the LoopExit
// sentinel.
func (v Value) IsError() bool { return v.kind == valError }

// IsLoopExit reports whether v is specifically the break sentinel.
func (v Value) IsLoopExit() bool { return v.kind == valError && v.errMessage == loopExitMessage }

// Type returns the runtime TypeTag of v, per spec section 3's Value
// variant table. Type(tag) values themselves report Null, matching the
// original's get_type (a Type value has no further type to introspect).
func (v Value) Type() TypeTag {
	switch v.kind {
	case valString:
		return TypeString
	case valNumber:
		return TypeNumber
	case valBool:
		return TypeBool
	case valNull:
		return TypeNull
	case valList:
		return TypeList
	case valFunction, valNativeFunction:
		return TypeFunction
	case valBlock:
		return TypeBlock
	case valType:
		return TypeNull
	case valFunctionArgs:
		return TypeFunctionArgs
	case valKeyValue:
		return TypeKeyValue
	case valTable:
		return TypeTable
	case valError:
		return TypeError
	case valEnvironment:
		return TypeEnvironment
	default:
		return TypeNull
	}
}

// TextRepresentation renders v the way print/println/string() do: the
// human-facing, lossy-by-design stringification used throughout spec
// section 6's built-in table.
func (v Value) TextRepresentation() string {
	switch v.kind {
	case valString:
		return v.str
	case valNumber:
		return formatNumber(v.number)
	case valBool:
		if v.boolean {
			return "true"
		}
		return "false"
	case valNull:
		return "NULL"
	case valList:
		var b strings.Builder
		for _, item := range v.list {
			b.WriteString(item.TextRepresentation())
			b.WriteByte(' ')
		}
		return b.String()
	case valFunction, valNativeFunction:
		return "<FUNCTION>"
	case valBlock:
		return "<BLOCK>"
	case valType:
		return v.typeTag.String()
	case valFunctionArgs:
		return "<FUNCTION_ARGUMENTS>"
	case valKeyValue:
		return fmt.Sprintf("%s(%s)", v.kvKey, v.kvValue.TextRepresentation())
	case valTable:
		return "<TABLE>"
	case valError:
		return v.errMessage
	case valEnvironment:
		return "<ENVIRONMENT>"
	default:
		return "NULL"
	}
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%v", n)
}

// Equal implements structural equality. Spec section 9 open question 4
// flags the original's "a List is never equal to anything, even itself" as
// almost certainly unintended; SPEC_FULL.md's decision is to specify
// structural, recursive equality for Lists instead. Environments (carrying
// mutable host state) are never equal; Strings and Bools compare by
// payload; every other variant, including function and block values,
// compares by TextRepresentation, matching the original for those variants.
func (a Value) Equal(b Value) bool {
	if a.kind == valList || b.kind == valList {
		if a.kind != valList || b.kind != valList {
			return false
		}
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !a.list[i].Equal(b.list[i]) {
				return false
			}
		}
		return true
	}

	if a.kind == valEnvironment || b.kind == valEnvironment {
		return false
	}

	if a.kind == valString || b.kind == valString {
		return a.kind == valString && b.kind == valString && a.str == b.str
	}

	if a.kind == valBool || b.kind == valBool {
		return a.kind == valBool && b.kind == valBool && a.boolean == b.boolean
	}

	return a.TextRepresentation() == b.TextRepresentation()
}
