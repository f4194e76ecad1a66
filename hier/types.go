package hier

// TypeTag names a Value's runtime type for the `is` operator and for the
// Type value produced by evaluating a bare type-name identifier such as
// `Number` or `List` (spec section 4.5, visit_identifier).
type TypeTag int

const (
	TypeString TypeTag = iota
	TypeNumber
	TypeBool
	TypeNull
	TypeList
	TypeFunction
	TypeBlock
	TypeType
	TypeFunctionArgs
	TypeKeyValue
	TypeTable
	TypeError
	TypeEnvironment
)

func (t TypeTag) String() string {
	switch t {
	case TypeString:
		return "String"
	case TypeNumber:
		return "Number"
	case TypeBool:
		return "Bool"
	case TypeNull:
		return "Null"
	case TypeList:
		return "List"
	case TypeFunction:
		return "Function"
	case TypeBlock:
		return "Block"
	case TypeType:
		return "Type"
	case TypeFunctionArgs:
		return "FunctionArgs"
	case TypeKeyValue:
		return "KeyValue"
	case TypeTable:
		return "Table"
	case TypeError:
		return "Error"
	case TypeEnvironment:
		return "Environment"
	default:
		return "Null"
	}
}

// typeTagByName is the inverse of TypeTag.String, used to resolve bare type
// names typed in source (e.g. the `Number` in `(is x Number)`).
var typeTagByName = map[string]TypeTag{
	"String":       TypeString,
	"Number":       TypeNumber,
	"Bool":         TypeBool,
	"Null":         TypeNull,
	"List":         TypeList,
	"Function":     TypeFunction,
	"Block":        TypeBlock,
	"Type":         TypeType,
	"FunctionArgs": TypeFunctionArgs,
	"KeyValue":     TypeKeyValue,
	"Table":        TypeTable,
	"Error":        TypeError,
	"Environment":  TypeEnvironment,
}

func typeTagForName(name string) (TypeTag, bool) {
	t, ok := typeTagByName[name]
	return t, ok
}
