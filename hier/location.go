package hier

import "fmt"

// Location pins a token or expression to a line and column within a named
// module. It is attached to every token and to every Expression node
// (synthesized nodes may carry an empty Location), and propagates into runtime error
// messages so a script author always gets a "where" alongside a "what".
type Location struct {
	Module string
	Line   int64
	Offset int64
}

// emptyLocation is used for synthesized nodes that have no real source
// position (e.g. the root Expression before a tokenizer has run).
func emptyLocation() Location {
	return Location{}
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d in %s", l.Line, l.Offset, l.Module)
}
