package hier

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

func (e *Environment) callAddition(arguments []Value) Value {
	if len(arguments) == 0 {
		return e.error(KindArity, "Addition requires at least 1 argument.")
	}

	first := arguments[0]
	isNumber := first.kind == valNumber
	if !isNumber && first.kind != valString {
		return e.error(KindType, "Argument must be a number or string in addition. Found %s.", first.TextRepresentation())
	}

	resultNumber := first.number
	resultString := first.str

	for _, argument := range arguments[1:] {
		if isNumber {
			if argument.kind != valNumber {
				return e.error(KindType, "Argument must be a number, but %s of type %s was found.", argument.TextRepresentation(), argument.Type())
			}
			resultNumber += argument.number
		} else {
			if argument.kind != valString {
				return e.error(KindType, "Argument must be a string, but %s of type %s was found.", argument.TextRepresentation(), argument.Type())
			}
			resultString += argument.str
		}
	}

	if isNumber {
		return NumberValue(resultNumber)
	}
	return StringValue(resultString)
}

func (e *Environment) callSubtraction(arguments []Value) Value {
	if len(arguments) == 0 || arguments[0].kind != valNumber {
		return e.error(KindType, "Argument must be a number in subtraction.")
	}
	result := arguments[0].number
	for _, argument := range arguments[1:] {
		if argument.kind != valNumber {
			return e.error(KindType, "Argument must be a number in subtraction. Found %s.", argument.TextRepresentation())
		}
		result -= argument.number
	}
	return NumberValue(result)
}

func (e *Environment) callMultiplication(arguments []Value) Value {
	if len(arguments) == 0 || arguments[0].kind != valNumber {
		return e.error(KindType, "Argument must be a number in multiplication.")
	}
	result := arguments[0].number
	for _, argument := range arguments[1:] {
		if argument.kind != valNumber {
			return e.error(KindType, "Argument must be a number in multiplication. Found %s.", argument.TextRepresentation())
		}
		result *= argument.number
	}
	return NumberValue(result)
}

func (e *Environment) callDivision(arguments []Value) Value {
	if len(arguments) == 0 || arguments[0].kind != valNumber {
		return e.error(KindType, "Argument must be a number in division.")
	}
	result := arguments[0].number
	for _, argument := range arguments[1:] {
		if argument.kind != valNumber {
			return e.error(KindType, "Argument must be a number in division. Found %s.", argument.TextRepresentation())
		}
		if argument.number == 0 {
			return e.error(KindRange, "Dividing by 0 is forbidden.")
		}
		result /= argument.number
	}
	return NumberValue(result)
}

func (e *Environment) callNullCoalescing(arguments []Value) Value {
	for _, argument := range arguments {
		if argument.kind != valNull {
			return argument
		}
	}
	return NullValue()
}

func (e *Environment) callModulo(arguments []Value) Value {
	if len(arguments) != 2 {
		return e.error(KindArity, "Modulo requires only 2 operands")
	}
	if arguments[0].kind != valNumber || arguments[1].kind != valNumber {
		return e.error(KindType, "Modulo requires 2 number arguments.")
	}
	return NumberValue(float64(int64(arguments[0].number) % int64(arguments[1].number)))
}

func (e *Environment) callIs(arguments []Value) Value {
	if len(arguments) != 2 {
		return e.error(KindArity, "Is requires only 2 operands")
	}
	if arguments[1].kind != valType {
		return e.error(KindType, "Is operation requires second argument to be a value type.")
	}
	return BoolValue(arguments[0].Type() == arguments[1].typeTag)
}

func (e *Environment) callComparison(operation string, arguments []Value) Value {
	switch operation {
	case "==":
		for i := 1; i < len(arguments); i++ {
			if !arguments[i].Equal(arguments[i-1]) {
				return BoolValue(false)
			}
		}
		return BoolValue(true)
	case "!=":
		for i := 1; i < len(arguments); i++ {
			if arguments[i].Equal(arguments[i-1]) {
				return BoolValue(false)
			}
		}
		return BoolValue(true)
	case "<", ">", "<=", ">=":
		for i := 1; i < len(arguments); i++ {
			a, b := arguments[i-1], arguments[i]
			if a.kind != valNumber || b.kind != valNumber {
				return e.error(KindType, "%s comparison operands must be numbers.", operation)
			}
			var ok bool
			switch operation {
			case "<":
				ok = a.number < b.number
			case ">":
				ok = a.number > b.number
			case "<=":
				ok = a.number <= b.number
			case ">=":
				ok = a.number >= b.number
			}
			if !ok {
				return BoolValue(false)
			}
		}
		return BoolValue(true)
	default:
		return NullValue()
	}
}

func (e *Environment) callLogical(operation string, arguments []Value) Value {
	if len(arguments) == 0 {
		return BoolValue(true)
	}

	for _, argument := range arguments {
		if argument.kind != valBool {
			return e.error(KindType, "Operands of logical operations must be booleans or boolean expressions.")
		}
		if operation == "&&" {
			if !argument.boolean {
				return BoolValue(false)
			}
		} else if argument.boolean {
			return BoolValue(true)
		}
	}

	return BoolValue(operation == "&&")
}

func (e *Environment) callNegate(arguments []Value) Value {
	if len(arguments) != 1 || arguments[0].kind != valBool {
		return e.error(KindType, "Negation requires 1 boolean argument.")
	}
	return BoolValue(!arguments[0].boolean)
}

// callIf implements conditional branching. Unlike the original, whose
// scope is only ever closed on the taken branch (a leak flagged as an
// open question), a scope opened here is closed on every return path.
func (e *Environment) callIf(arguments []Value) Value {
	if len(arguments) != 2 && len(arguments) != 3 {
		return e.error(KindArity, "If must have only 2 or 3 arguments: condition and block (optionally else block).")
	}
	if arguments[0].kind != valBool {
		return e.error(KindType, "If's condition must evaluate to a boolean.")
	}

	e.beginScope()
	defer e.endScope()

	if arguments[0].boolean {
		if arguments[1].kind == valBlock {
			return e.interpretBlock(arguments[1].block)
		}
		return arguments[1]
	} else if len(arguments) == 3 {
		if arguments[2].kind == valBlock {
			return e.interpretBlock(arguments[2].block)
		}
		return arguments[2]
	}

	return NullValue()
}

func (e *Environment) callWhile(arguments []Value) Value {
	if len(arguments) != 2 {
		return e.error(KindArity, "While must have 2 arguments: a condition block and an execution block.")
	}
	if arguments[0].kind != valBlock {
		return e.error(KindType, "While's first argument must be a block.")
	}
	if arguments[1].kind != valBlock {
		return e.error(KindType, "While's second argument must be a block.")
	}

	e.beginScope()
	defer e.endScope()

	for {
		condition := e.interpretBlock(arguments[0].block)
		if condition.kind != valBool {
			return e.error(KindType, "While's condition must return a boolean (boolean must be the last expression's result).")
		}
		if !condition.boolean {
			break
		}

		e.beginScope()
		result := e.interpretBlock(arguments[1].block)
		e.endScope()
		if result.IsLoopExit() {
			break
		}
	}

	return NullValue()
}

func (e *Environment) callTry(arguments []Value) Value {
	if len(arguments) != 2 {
		return e.error(KindArity, "Try must have 2 arguments: a value and execution block.")
	}

	e.beginScope()
	defer e.endScope()

	if arguments[0].kind != valError {
		return arguments[0]
	}
	if arguments[1].kind != valBlock {
		return e.error(KindType, "Try's second argument must be a block.")
	}

	e.declare("error", StringValue(arguments[0].errMessage))
	return e.interpretBlock(arguments[1].block)
}

func (e *Environment) callFor(arguments []Value) Value {
	if len(arguments) != 2 {
		return e.error(KindArity, "For must have 2 arguments: a list or a string and execution block.")
	}
	if arguments[1].kind != valBlock {
		return e.error(KindType, "For's second argument must be a block.")
	}
	block := arguments[1].block

	e.beginScope()
	defer e.endScope()

	runOne := func(element Value) bool {
		e.beginScope()
		e.declare("element", element)
		result := e.interpretBlock(block)
		e.endScope()
		return result.IsLoopExit()
	}

	switch arguments[0].kind {
	case valList:
		for _, item := range arguments[0].list {
			if runOne(item) {
				break
			}
		}
	case valString:
		for _, r := range arguments[0].str {
			if runOne(StringValue(string(r))) {
				break
			}
		}
	case valTable:
		for key, value := range arguments[0].table {
			if runOne(KeyValueValue(key, value)) {
				break
			}
		}
	default:
		return e.error(KindType, "For's first argument must be a list, string or table.")
	}

	return NullValue()
}

func (e *Environment) callRepeat(arguments []Value) Value {
	if len(arguments) != 1 && len(arguments) != 2 {
		return e.error(KindArity, "Repeat must have only 2 arguments: a number (optional) and execution block.")
	}

	e.beginScope()
	defer e.endScope()

	runOne := func(block []Expression) bool {
		e.beginScope()
		result := e.interpretBlock(block)
		e.endScope()
		return result.IsLoopExit()
	}

	if len(arguments) == 2 {
		if arguments[0].kind != valNumber || arguments[0].number < 1 {
			return e.error(KindType, "Repeat's first argument must be a number greater than 0.")
		}
		if arguments[1].kind != valBlock {
			return e.error(KindType, "Repeat's second argument must be a block.")
		}
		for i := int64(0); i < int64(arguments[0].number); i++ {
			if runOne(arguments[1].block) {
				break
			}
		}
	} else {
		if arguments[0].kind != valBlock {
			return e.error(KindType, "Repeat's argument must be a block.")
		}
		for {
			if runOne(arguments[0].block) {
				break
			}
		}
	}

	return NullValue()
}

func (e *Environment) callRun(arguments []Value) Value {
	last := NullValue()
	for _, argument := range arguments {
		if argument.kind == valBlock {
			last = e.interpretBlock(argument.block)
		} else {
			last = argument
		}
	}
	return last
}

func (e *Environment) callMap(arguments []Value) Value {
	if len(arguments) != 2 {
		return e.error(KindArity, "Map function requires 2 arguments: a object and a block.")
	}
	if arguments[1].kind != valBlock {
		return e.error(KindType, "Map functions 2nd argument must be a block.")
	}
	block := arguments[1].block

	if arguments[0].kind == valList {
		result := make([]Value, 0, len(arguments[0].list))
		for _, item := range arguments[0].list {
			e.beginScope()
			e.declare("element", item)
			result = append(result, e.interpretBlock(block))
			e.endScope()
		}
		return ListValue(result)
	}

	e.beginScope()
	e.declare("element", arguments[0])
	result := e.interpretBlock(block)
	e.endScope()
	return result
}

func (e *Environment) callPrint(arguments []Value) Value {
	for _, argument := range arguments {
		fmt.Fprint(e.stdout, argument.TextRepresentation())
	}
	return NullValue()
}

func (e *Environment) callPrintln(arguments []Value) Value {
	for _, argument := range arguments {
		fmt.Fprint(e.stdout, argument.TextRepresentation())
	}
	fmt.Fprint(e.stdout, "\n")
	return NullValue()
}

func (e *Environment) callRead(arguments []Value) Value {
	if len(arguments) != 0 {
		return e.error(KindArity, "Read operation requires 0 arguments.")
	}
	line, err := bufio.NewReader(e.stdin).ReadString('\n')
	if err != nil && line == "" {
		return e.error(KindIO, "Failed to read line: %s.", err)
	}
	return StringValue(strings.TrimRight(line, "\n"))
}

func (e *Environment) callImport(arguments []Value) Value {
	if len(arguments) != 1 || arguments[0].kind != valString {
		return e.error(KindType, "Import requires 1 string argument.")
	}

	path := resolveImportPath(e.path, arguments[0].str)
	code, errs, err := e.loader.load(path)
	if err != nil {
		return e.error(KindIO, "Failed to import file %s: %s.", path, err)
	}
	if len(errs) > 0 {
		return e.error(KindSyntax, "Failed to import file %s.", path)
	}

	imported := newEnvironment(false, path, e.moduleReader, e.exitHandler, e.isDebugging, e.breakpoints)
	imported.stdin, imported.stdout, imported.stderr = e.stdin, e.stdout, e.stderr
	imported.loader = e.loader
	imported.metrics = e.metrics
	imported.logger = e.logger
	imported.code = code
	imported.interpret()

	return EnvironmentValue(imported)
}

// callNumber is deliberately lenient on bad input: a non-string argument
// warns and yields Null, an unparsable string warns and yields 0.
func (e *Environment) callNumber(arguments []Value) Value {
	if len(arguments) != 1 {
		return e.error(KindArity, "Number conversion requires 1 argument.")
	}

	if arguments[0].kind != valString {
		fmt.Fprintf(e.stdout, "Warning: Failed to convert to number from %s, because it is an unsupported type. Returning NULL.\n", arguments[0].Type())
		return NullValue()
	}

	str := arguments[0].str
	if !strings.Contains(str, ".") {
		str += ".0"
	}

	n, err := strconv.ParseFloat(str, 64)
	if err != nil {
		fmt.Fprintf(e.stdout, "Warning: Failed to convert number %s due to an error: %s. Returning 0.\n", str, err)
		return NumberValue(0)
	}
	return NumberValue(n)
}

func (e *Environment) callTable(arguments []Value) Value {
	table := make(map[string]Value, len(arguments))
	for _, argument := range arguments {
		if argument.kind != valKeyValue {
			return e.error(KindType, "Table operation's all arguments must be key-values, but %s was found.", argument.TextRepresentation())
		}
		table[argument.kvKey] = *argument.kvValue
	}
	return TableValue(table)
}

func (e *Environment) callString(arguments []Value) Value {
	if len(arguments) != 1 {
		return e.error(KindArity, "String conversion requires 1 argument.")
	}
	return StringValue(arguments[0].TextRepresentation())
}

func (e *Environment) callLength(arguments []Value) Value {
	if len(arguments) != 1 {
		return e.error(KindArity, "Length operation requires 1 argument that is an array (list or string).")
	}
	switch arguments[0].kind {
	case valList:
		return NumberValue(float64(len(arguments[0].list)))
	case valString:
		return NumberValue(float64(len([]rune(arguments[0].str))))
	default:
		return e.error(KindType, "Length operation requires 1 argument that is an array (list or string).")
	}
}

func (e *Environment) callAppend(arguments []Value) Value {
	if len(arguments) != 2 {
		return e.error(KindArity, "Append operation requires 2 arguments: an array (list or string) and a value.")
	}

	switch arguments[0].kind {
	case valList:
		values := append(append([]Value{}, arguments[0].list...), arguments[1])
		return ListValue(values)
	case valString:
		if arguments[1].kind != valString {
			return e.error(KindType, "Append expected a second string.")
		}
		return StringValue(arguments[0].str + arguments[1].str)
	default:
		return e.error(KindType, "Append operation requires 2 arguments: an array (list or string) and a value.")
	}
}

func (e *Environment) callRemove(arguments []Value) Value {
	switch len(arguments) {
	case 1:
		switch arguments[0].kind {
		case valList:
			list := arguments[0].list
			if len(list) == 0 {
				return e.error(KindRange, "Remove operation requires a non-empty list.")
			}
			return ListValue(append([]Value{}, list[:len(list)-1]...))
		case valString:
			runes := []rune(arguments[0].str)
			if len(runes) == 0 {
				return e.error(KindRange, "Remove operation requires a non-empty string.")
			}
			return StringValue(string(runes[:len(runes)-1]))
		default:
			return e.error(KindType, "Remove operation requires first argument to be an array (list or string).")
		}
	case 2:
		if arguments[1].kind != valNumber {
			return e.error(KindType, "Remove operation requires second argument to be a number.")
		}
		index := int(arguments[1].number)
		switch arguments[0].kind {
		case valList:
			list := arguments[0].list
			if index < 0 || index >= len(list) {
				return e.error(KindRange, "Index %d is out of bounds (%d elements).", index, len(list))
			}
			result := append([]Value{}, list[:index]...)
			result = append(result, list[index+1:]...)
			return ListValue(result)
		case valString:
			runes := []rune(arguments[0].str)
			if index < 0 || index >= len(runes) {
				return e.error(KindRange, "Index %d is out of bounds (%d elements).", index, len(runes))
			}
			result := append(append([]rune{}, runes[:index]...), runes[index+1:]...)
			return StringValue(string(result))
		default:
			return e.error(KindType, "Remove operation requires first argument to be an array (list or string).")
		}
	default:
		return e.error(KindArity, "Remove operation requires 1 or 2 arguments: an array (list or string) and index (optional, if none, operate on last element).")
	}
}

func (e *Environment) callReplace(arguments []Value) Value {
	if len(arguments) != 3 {
		return e.error(KindArity, "Replace operation requires 3 arguments: an array (list or string), index and value.")
	}
	if arguments[1].kind != valNumber {
		return e.error(KindType, "Replace operation requires second argument to be a number.")
	}
	index := int(arguments[1].number)

	switch arguments[0].kind {
	case valList:
		list := append([]Value{}, arguments[0].list...)
		if index < 0 || index >= len(list) {
			return e.error(KindRange, "Index %d is out of bounds (%d elements).", index, len(list))
		}
		list[index] = arguments[2]
		return ListValue(list)
	case valString:
		if arguments[2].kind != valString {
			return e.error(KindType, "Replace operation requires third argument to be an string if array is a string.")
		}
		runes := []rune(arguments[0].str)
		if index < 0 || index >= len(runes) {
			return e.error(KindRange, "Index %d is out of bounds (%d elements).", index, len(runes))
		}
		result := string(runes[:index]) + arguments[2].str + string(runes[index+1:])
		return StringValue(result)
	default:
		return e.error(KindType, "Replace operation requires first argument to be an array (list or string).")
	}
}

func (e *Environment) callInsert(arguments []Value) Value {
	switch len(arguments) {
	case 2:
		switch arguments[0].kind {
		case valList:
			list := append(append([]Value{}, arguments[0].list...), arguments[1])
			return ListValue(list)
		case valString:
			if arguments[1].kind != valString {
				return e.error(KindType, "Insert operation requires second argument to be a string when array is a string.")
			}
			return StringValue(arguments[0].str + arguments[1].str)
		default:
			return e.error(KindType, "Insert operation requires first argument to be an array (list or string).")
		}
	case 3:
		if arguments[2].kind != valNumber {
			return e.error(KindType, "Insert operation requires third argument to be a number.")
		}
		index := int(arguments[2].number)
		switch arguments[0].kind {
		case valList:
			list := arguments[0].list
			if index < 0 || index > len(list) {
				return e.error(KindRange, "Index %d is out of bounds (%d elements).", index, len(list))
			}
			result := append([]Value{}, list[:index]...)
			result = append(result, arguments[1])
			result = append(result, list[index:]...)
			return ListValue(result)
		case valString:
			if arguments[1].kind != valString {
				return e.error(KindType, "Insert operation requires second argument to be a string when array is a string.")
			}
			runes := []rune(arguments[0].str)
			if index < 0 || index > len(runes) {
				return e.error(KindRange, "Index %d is out of bounds (%d elements).", index, len(runes))
			}
			result := string(runes[:index]) + arguments[1].str + string(runes[index:])
			return StringValue(result)
		default:
			return e.error(KindType, "Insert operation requires first argument to be an array (list or string).")
		}
	default:
		return e.error(KindArity, "Insert operation requires 2 or 3 arguments: an array (list or string), value and index (optional, if none, operate on last element).")
	}
}

func (e *Environment) callBreak(arguments []Value) Value {
	if len(arguments) != 0 {
		return e.error(KindArity, "Break operation requires 0 arguments.")
	}
	return loopExitValue()
}

func (e *Environment) callRound(arguments []Value) Value {
	if len(arguments) != 1 || arguments[0].kind != valNumber {
		return e.error(KindType, "Round operation requires 1 number argument.")
	}
	return NumberValue(float64(int64(arguments[0].number)))
}

func (e *Environment) callError(arguments []Value) Value {
	if len(arguments) != 1 {
		return e.error(KindArity, "Error operation requires 1 argument.")
	}
	return ErrorValue(arguments[0].TextRepresentation())
}

func (e *Environment) callPanic(arguments []Value) Value {
	if len(arguments) != 1 {
		return e.error(KindArity, "Panic operation requires 1 argument.")
	}
	fmt.Fprintf(e.stderr, "! Panic: %s\n", arguments[0].TextRepresentation())
	e.exitHandler()
	return NullValue()
}

func (e *Environment) callEval(arguments []Value) Value {
	if len(arguments) != 1 || arguments[0].kind != valString {
		return e.error(KindType, "Evaluate operation requires 1 string argument.")
	}

	sub := New(Options{
		Path:         e.path,
		ModuleReader: e.moduleReader,
		ExitHandler:  e.exitHandler,
		Stdin:        e.stdin,
		Stdout:       e.stdout,
		Stderr:       e.stderr,
	})
	return sub.Run(arguments[0].str)
}

func (e *Environment) callBrpoint(arguments []Value) Value {
	for _, argument := range arguments {
		e.breakpoints = append(e.breakpoints, argument.TextRepresentation())
	}
	return NullValue()
}

func (e *Environment) callGet(arguments []Value) Value {
	if len(arguments) != 1 && len(arguments) != 2 {
		return e.error(KindArity, "Get operation requires max 2 arguments: object and key (number or string, optional).")
	}
	if len(arguments) == 1 {
		return arguments[0]
	}

	switch arguments[1].kind {
	case valString:
		property := arguments[1].str
		switch arguments[0].kind {
		case valKeyValue:
			if property == "value" {
				return *arguments[0].kvValue
			}
			if property == "key" {
				return StringValue(arguments[0].kvKey)
			}
			return NullValue()
		case valTable:
			if v, ok := arguments[0].table[property]; ok {
				return v
			}
			return NullValue()
		default:
			return NullValue()
		}
	case valNumber:
		index := arguments[1].number
		switch arguments[0].kind {
		case valList:
			list := arguments[0].list
			if index < 0 || int(index) >= len(list) {
				return e.error(KindRange, "Index %v is out of bounds (%d elements).", index, len(list))
			}
			return list[int(index)]
		case valString:
			runes := []rune(arguments[0].str)
			if index < 0 || int(index) >= len(runes) {
				return e.error(KindRange, "Index %v is out of bounds (%d elements).", index, len(runes))
			}
			return StringValue(string(runes[int(index)]))
		default:
			if index == 0 {
				return arguments[0]
			}
			return NullValue()
		}
	default:
		return e.error(KindType, "Get operation requires second arguments to be a number or string.")
	}
}
