package fxeval

import (
	"filterx/internal/fxhost"
	"filterx/internal/fxvar"
)

// Message is the log message store bound to a FilterXEvalContext for
// one record; it is exactly fxhost.MessageStore, named locally so
// fxeval's exported surface reads in FilterX's own vocabulary.
type Message = fxhost.MessageStore

// TemplateOptions carries the rendering options the host passes to the
// template engine (time zone, value-pair scope, ...). FilterX treats
// it as opaque and only forwards it.
type TemplateOptions map[string]string

// Context is the FilterXEvalContext: the per-record execution
// environment. It is single-threaded for its lifetime; evaluation
// never suspends inside it (spec.md section 3).
type Context struct {
	Messages []Message
	Options  TemplateOptions

	Scratch ScratchAllocator
	Vars    *fxvar.Scope
	Errors  ErrorStack

	// Dir is the process-wide name directory variable references were
	// interned through. It is nil unless the host wires it in (see
	// cmd/filterx/main.go); vars()/load_vars() are the only callers
	// that need it, to translate between a variable's Handle and its
	// name (internal/fxfunc/vars.go).
	Dir *fxvar.Directory

	control   ControlModifier
	openMarks []*ScratchMark

	// Debug/trace toggles, consulted by the compound expression loop
	// and by fxexpr node Eval implementations when tracing is enabled.
	Debug bool
	Trace bool
}

// NewContext creates a fresh per-record context bound to msgs. The
// floatingSlots hint sizes the scope table's dense floating-variable
// slice; it is typically the number of distinct floating handles the
// expression tree's Init pass interned.
func NewContext(msgs []Message, opts TemplateOptions, floatingSlots int) *Context {
	return &Context{
		Messages: msgs,
		Options:  opts,
		Vars:     fxvar.NewScope(floatingSlots),
	}
}

// PrimaryMessage returns the first bound message, which is what every
// unqualified message-tied variable reference resolves against.
func (c *Context) PrimaryMessage() Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[0]
}

// AcquireScratch opens a new scratch region scoped to the current
// record: it is tracked on the context and reclaimed in bulk by
// ReclaimScratch, rather than by the acquiring node itself, because a
// MessageValue returned from, say, a Template expression must remain
// valid for the rest of the record's evaluation (e.g. long enough to
// be compared by a later binary operator), not just for the duration
// of the Template node's own Eval call.
func (c *Context) AcquireScratch() *ScratchMark {
	m := c.Scratch.Mark()
	c.openMarks = append(c.openMarks, m)
	return m
}

// ReclaimScratch reclaims every scratch region opened during this
// record's evaluation. The host driver calls this once per record,
// after it has finished consuming the evaluation result — mirroring
// spec.md section 2's data flow ("invokes eval ... observes the
// resulting ... object ... and then disposes the context").
func (c *Context) ReclaimScratch() {
	for _, m := range c.openMarks {
		m.Reclaim()
	}
	c.openMarks = c.openMarks[:0]
}

func (c *Context) Control() ControlModifier { return c.control }

func (c *Context) SetControl(m ControlModifier) { c.control = m }

// ShouldStop reports whether the compound expression loop must halt
// before evaluating the next child, per spec.md section 4.4 step 1.
func (c *Context) ShouldStop() bool {
	return c.control == ControlDrop || c.control == ControlDone
}

// Reset prepares the context for reuse against the next record: it
// clears non-declared floating variables, drops message-tied
// variables, resets the control modifier and clears the error stack.
// DECLARED_FLOATING variables are intentionally left alone, since they
// persist across iterations within the declaring block per spec.md
// section 3.
func (c *Context) Reset(msgs []Message) {
	c.ReclaimScratch()
	c.Vars.ClearNonDeclared()
	c.Vars.ClearMessageTied()
	c.Messages = msgs
	c.control = ControlNone
	c.Errors.Reset()
}
