package expr

import "fmt"

// Error is returned for syntax errors and for constructs or operand
// combinations outside of the grammar.
type Error struct {
	Source string // The expression being evaluated
	Pos    int    // Byte offset of the failure, -1 if not positional
	Reason string
}

func (e *Error) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("expression %q: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("expression %q: %s at offset %d", e.Source, e.Reason, e.Pos)
}
