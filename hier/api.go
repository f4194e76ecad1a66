package hier

// This file collects the small exported surface native-function
// implementations outside this package need: reading argument payloads
// and raising a properly-located, properly-counted RuntimeError the same
// way a built-in does. Everything else about Value and Environment stays
// unexported so natives can't reach into interpreter internals.

// Number returns v's numeric payload. Callers should check Type() first.
func (v Value) Number() float64 { return v.number }

// Str returns v's string payload. Callers should check Type() first.
func (v Value) Str() string { return v.str }

// Bool returns v's boolean payload. Callers should check Type() first.
func (v Value) Bool() bool { return v.boolean }

// ErrorArg raises a KindType RuntimeError from a native function, the
// same unwind path (panic/recover to Run or the REPL) a built-in's own
// argument checks use.
func (e *Environment) ErrorArg(format string, args ...interface{}) Value {
	return e.error(KindType, format, args...)
}

// ErrorIO raises a KindIO RuntimeError from a native function.
func (e *Environment) ErrorIO(format string, args ...interface{}) Value {
	return e.error(KindIO, format, args...)
}
