package hier

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	debuggerPromptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	debuggerInfoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	debuggerErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// runDebugger implements the line-oriented debugger session described in
// spec section 5, grounded on original_source's hier/debugger.rs: one
// command per line, read until "c"/"continue" or "x"/"exit".
func runDebugger(e *Environment, breakFunction string) {
	if breakFunction != "" && !e.isAStep {
		fmt.Fprintln(e.stdout, debuggerInfoStyle.Render(fmt.Sprintf(
			"Breakpoint %s at %d:%d in %s",
			breakFunction, e.currentLocation.Line, e.currentLocation.Offset, e.currentLocation.Module,
		)))
	}

	if e.isAStep {
		e.isAStep = false
	}

	reader := bufio.NewReader(e.stdin)

	for {
		fmt.Fprint(e.stdout, debuggerPromptStyle.Render("HDB > "))

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintln(e.stderr, debuggerErrorStyle.Render("Failed to read line: "+err.Error()+"."))
			e.exitHandler()
			return
		}

		line = strings.TrimSpace(line)
		parts := strings.Split(line, " ")
		command := parts[0]
		argument := strings.Join(parts[1:], " ")

		switch command {
		case "h", "help":
			printDebuggerHelp(e.stdout)
		case "b", "break":
			e.breakpoints = append(e.breakpoints, argument)
		case "rb", "rebreak":
			removeBreakpoint(e, argument)
		case "lib", "libreak":
			for i, bp := range e.breakpoints {
				fmt.Fprintf(e.stdout, "%d - %s\n", i, bp)
			}
		case "c", "continue":
			return
		case "s", "step":
			e.isAStep = true
			return
		case "l", "location":
			fmt.Fprintf(e.stdout, "%s at %d:%d in %s\n", breakFunction, e.currentLocation.Line, e.currentLocation.Offset, e.currentLocation.Module)
		case "e", "expression":
			fmt.Fprintln(e.stdout, exprDebugString(e.currentExpression))
		case "p", "print":
			fmt.Fprintln(e.stdout, e.get(argument).TextRepresentation())
		case "x", "exit":
			e.exitHandler()
			return
		default:
			fmt.Fprintln(e.stdout, "Unknown command: "+line)
		}
	}
}

func removeBreakpoint(e *Environment, argument string) {
	if id, err := strconv.Atoi(argument); err == nil {
		if id < 0 || id >= len(e.breakpoints) {
			fmt.Fprintf(e.stdout, "Error: Breakpoint with id %d doesn't exist.\n", id)
			return
		}
		e.breakpoints = append(e.breakpoints[:id], e.breakpoints[id+1:]...)
		return
	}

	for i, bp := range e.breakpoints {
		if bp == argument {
			e.breakpoints = append(e.breakpoints[:i], e.breakpoints[i+1:]...)
			return
		}
	}
	fmt.Fprintf(e.stdout, "Error: Breakpoint %s doesn't exist.\n", argument)
}

func printDebuggerHelp(w io.Writer) {
	fmt.Fprintln(w, "== HDB help ==")
	fmt.Fprintln(w, "Notation:")
	fmt.Fprintln(w, "Each command has a long and short form which can be used interchangeably. Some accept an argument: everything after the command name.")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "h/help - print this information.")
	fmt.Fprintln(w, "b/break <function identifier or glob> - start the debugger before the function is run.")
	fmt.Fprintln(w, "rb/rebreak <function identifier>/<breakpoint id> - remove a breakpoint.")
	fmt.Fprintln(w, "lib/libreak - print breakpoints.")
	fmt.Fprintln(w, "c/continue - continue execution until the end of the program or the next breakpoint.")
	fmt.Fprintln(w, "s/step - continue to the next function call.")
	fmt.Fprintln(w, "e/expression - print the current expression (inaccurate).")
	fmt.Fprintln(w, "p/print <variable identifier> - print the value of a variable.")
	fmt.Fprintln(w, "l/location - print the current location.")
	fmt.Fprintln(w, "x/exit - stop running the program and exit.")
}

func exprDebugString(e Expression) string {
	switch e.kind {
	case exprNumber:
		return formatNumber(e.number)
	case exprString:
		return e.str.raw
	case exprIdentifier:
		return e.name
	case exprList:
		return "(...)"
	case exprBlock:
		return "{...}"
	case exprProperty:
		return exprDebugString(*e.target) + "." + e.property
	case exprKeyValue:
		return e.kvKey + ":" + exprDebugString(*e.kvValue)
	default:
		return "<expression>"
	}
}
