package hier

// interpret runs e.code: a top-level Block is unwrapped into
// interpretBlock directly, otherwise the single root Expression is
// visited on its own (spec section 4, evaluation entry point).
func (e *Environment) interpret() Value {
	if e.code.kind == exprBlock {
		return e.interpretBlock(e.code.items)
	}
	return e.eval(e.code)
}

// interpretBlock evaluates each expression in sequence, short-circuiting
// on the LoopExit sentinel so `break` unwinds exactly one enclosing loop
// construct rather than the whole block (spec section 3).
func (e *Environment) interpretBlock(block []Expression) Value {
	last := NullValue()
	for _, expr := range block {
		last = e.eval(expr)
		if last.IsLoopExit() {
			break
		}
	}
	return last
}

// eval dispatches one Expression node through the matching visit method
// and returns a Value. It never itself panics, but the underlying visit
// may via Environment.error, which is caught by the nearest wrapping
// recover point.
func (e *Environment) eval(expr Expression) (v Value) {
	e.currentLocation = expr.location

	switch expr.kind {
	case exprString:
		return e.visitString(expr)
	case exprValue:
		return expr.value
	case exprNumber:
		return NumberValue(expr.number)
	case exprIdentifier:
		return e.visitIdentifier(expr)
	case exprList:
		return e.visitList(expr)
	case exprBlock:
		return BlockValue(expr.items)
	case exprKeyValue:
		return e.visitKeyValue(expr)
	case exprProperty:
		return e.visitProperty(expr)
	default:
		return NullValue()
	}
}

func (e *Environment) visitProperty(expr Expression) Value {
	e.currentLocation = expr.location
	target := e.eval(*expr.target)
	return e.callFunction("get", []Value{target, StringValue(expr.property)})
}

func (e *Environment) visitList(expr Expression) Value {
	e.currentLocation = expr.location

	items := expr.items
	if len(items) == 0 {
		return ListValue(nil)
	}

	if items[0].kind == exprIdentifier {
		name := items[0].name

		if name == "|" {
			var params []string
			for _, param := range items[1:] {
				if param.kind != exprIdentifier {
					return e.error(KindType, "Function arguments must be identifiers.")
				}
				params = append(params, param.name)
			}
			return FunctionArgumentsValue(params)
		}

		values := make([]Value, 0, len(items)-1)
		for _, arg := range items[1:] {
			values = append(values, e.eval(arg))
		}
		e.currentExpression = expr
		return e.callFunction(name, values)
	}

	if items[0].kind == exprProperty {
		prop := items[0]
		values := make([]Value, 0, len(items))
		values = append(values, e.eval(*prop.target))
		for _, arg := range items[1:] {
			values = append(values, e.eval(arg))
		}
		e.currentExpression = expr
		return e.callFunction(prop.property, values)
	}

	head := e.eval(items[0])
	if head.kind == valFunctionArgs {
		if len(items) != 2 {
			return e.error(KindArity, "Anonymous function's must have 2 arguments: function arguments and a block")
		}
		if items[1].kind != exprBlock {
			return e.error(KindType, "Anonymous function's second argument must be a block.")
		}
		return FunctionValue(head.funcParams, items[1].items)
	}

	values := make([]Value, 0, len(items))
	values = append(values, head)
	for _, item := range items[1:] {
		values = append(values, e.eval(item))
	}
	return ListValue(values)
}

func (e *Environment) visitIdentifier(expr Expression) Value {
	e.currentLocation = expr.location

	switch expr.name {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	case "null":
		return NullValue()
	}

	if tag, ok := typeTagForName(expr.name); ok {
		return TypeValue(tag)
	}

	return e.get(expr.name)
}

func (e *Environment) visitKeyValue(expr Expression) Value {
	e.currentLocation = expr.location
	return KeyValueValue(expr.kvKey, e.eval(*expr.kvValue))
}

func (e *Environment) visitString(expr Expression) Value {
	e.currentLocation = expr.location
	return StringValue(expr.str.resolve(e))
}
