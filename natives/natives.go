// Package natives implements the host-level native functions a CLI binary
// registers on top of core Hier: time, rand, cmd, write and file. They
// live outside the hier package because they reach the filesystem,
// subprocesses and the system clock, none of which the embeddable
// interpreter core should touch on its own (expanded specification
// section C.4, grounded on original_source's src/functions.rs).
package natives

import (
	"bytes"
	"math/rand"
	"os"
	"os/exec"
	"time"

	"github.com/wiktorwojcik112/hier/hier"
)

// Time returns the current Unix time in seconds.
func Time(env *hier.Environment, _ []hier.Value) hier.Value {
	return hier.NumberValue(float64(time.Now().Unix()))
}

// Rand returns a pseudo-random number in [low, high).
func Rand(env *hier.Environment, arguments []hier.Value) hier.Value {
	low, high := arguments[0], arguments[1]
	if low.Type() != hier.TypeNumber {
		return env.ErrorArg("Random operation's first argument must be a number.")
	}
	if high.Type() != hier.TypeNumber {
		return env.ErrorArg("Random operation's second argument must be a number.")
	}
	lowN, highN := low.Number(), high.Number()
	if lowN >= highN {
		return env.ErrorArg("Random operation's first argument must be smaller than second.")
	}
	return hier.NumberValue(lowN + rand.Float64()*(highN-lowN))
}

// Cmd runs arguments[0] as a command with the remaining arguments as its
// argv, returning captured stdout as a string (or an in-band Error Value
// on failure, never a fatal host error).
func Cmd(env *hier.Environment, arguments []hier.Value) hier.Value {
	if len(arguments) == 0 || arguments[0].Type() != hier.TypeString {
		return env.ErrorArg("Cmd operation requires a string argument.")
	}

	args := make([]string, 0, len(arguments)-1)
	for _, argument := range arguments[1:] {
		args = append(args, argument.TextRepresentation())
	}

	cmd := exec.Command(arguments[0].Str(), args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return hier.ErrorValue(err.Error())
	}
	return hier.StringValue(out.String())
}

// Write writes arguments[1] to the file path in arguments[0].
func Write(env *hier.Environment, arguments []hier.Value) hier.Value {
	if arguments[0].Type() != hier.TypeString {
		return env.ErrorArg("Write operation requires first argument to be a string path to file.")
	}
	if arguments[1].Type() != hier.TypeString {
		return env.ErrorArg("Write operation requires second argument to be a string to write.")
	}

	if err := os.WriteFile(arguments[0].Str(), []byte(arguments[1].Str()), 0o644); err != nil {
		return hier.ErrorValue("Failed to write to file: " + err.Error())
	}
	return arguments[1]
}

// File reads the contents of the file path in arguments[0].
func File(env *hier.Environment, arguments []hier.Value) hier.Value {
	if arguments[0].Type() != hier.TypeString {
		return env.ErrorArg("Read operation requires first argument to be a string path to file.")
	}

	contents, err := os.ReadFile(arguments[0].Str())
	if err != nil {
		return hier.ErrorValue(err.Error())
	}
	return hier.StringValue(string(contents))
}
