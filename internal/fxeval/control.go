// Package fxeval implements the per-record FilterX evaluation context:
// the message(s) being evaluated, template options, a scratch-buffer
// mark stack, the scoped variable table, the error stack, and the
// cooperative DROP/DONE control modifier that short-circuits compound
// expression evaluation.
package fxeval

// ControlModifier is the cooperative cancellation signal observed by
// the compound expression loop before each child (spec.md section 4.4
// step 1). It is not an error: DROP/DONE short-circuit evaluation but
// the compound expression still reports success.
type ControlModifier int

const (
	ControlNone ControlModifier = iota
	ControlDrop
	ControlDone
)

func (c ControlModifier) String() string {
	switch c {
	case ControlDrop:
		return "DROP"
	case ControlDone:
		return "DONE"
	default:
		return "NONE"
	}
}
