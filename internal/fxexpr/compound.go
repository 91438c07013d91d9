package fxexpr

import (
	"filterx/internal/fxeval"
	"filterx/internal/fxlog"
	"filterx/internal/fxobject"
)

// Compound is the FilterX compound expression: an ordered list of
// children evaluated with short-circuit AND semantics (spec.md
// section 4.4). ReturnValueOfLastExpr selects statement-expression
// mode (return the last child's result) vs. block mode (return `true`
// on full success, regardless of the last result).
type Compound struct {
	Base
	children              []Expr
	ReturnValueOfLastExpr bool
}

func NewCompound(loc string, children []Expr, returnLast bool) *Compound {
	return &Compound{Base: NewBase(loc), children: children, ReturnValueOfLastExpr: returnLast}
}

func (c *Compound) Init(cfg *Config) error {
	c.registerStat(cfg, "compound")
	return initChildren(cfg, c.children)
}
func (c *Compound) Deinit(cfg *Config) { deinitChildren(cfg, c.children) }
func (c *Compound) Free()              { freeChildren(c.children) }

func (c *Compound) Optimize() Expr {
	for i, child := range c.children {
		if opt := child.Optimize(); opt != nil {
			c.children[i] = opt
		}
	}
	return nil
}

// Eval implements spec.md section 4.4 verbatim:
//  1. for each child, unref the prior result, then check the control
//     modifier; DROP/DONE stops with success and no further children.
//  2. evaluating a child to an error halts with failure ("bailing out
//     due to a falsy expr").
//  3. a child is successful iff it opts out via IgnoreFalsyResult or
//     its result is truthy; a falsy result halts with failure,
//     reporting the falsy value.
//  4. on full success, ReturnValueOfLastExpr selects the last result
//     or boolean true; an empty list returns true.
func (c *Compound) Eval(ctx *fxeval.Context) (fxobject.Object, error) {
	c.bumpEval()

	var last fxobject.Object
	for _, child := range c.children {
		if last != nil {
			last.Unref()
			last = nil
		}
		if ctx.ShouldStop() {
			result := fxobject.NewBoolean(true)
			c.trace(ctx, "compound", result, nil)
			return result, nil
		}

		result, err := child.Eval(ctx)
		if err != nil {
			ctx.Errors.Push(c.Location(), "bailing out due to a falsy expr")
			c.trace(ctx, "compound", nil, err)
			return nil, err
		}

		truthy := true
		if !child.IgnoreFalsyResult() {
			tr, ok := result.(fxobject.Truthy)
			truthy = !ok || tr.Truthy()
		}
		if !truthy {
			// The pushed frame carries the falsy value's repr; when
			// ctx.Debug is set the value is also logged at debug level.
			repr := ""
			if r, ok := result.(fxobject.Reprer); ok {
				repr = r.Repr()
			}
			ctx.Errors.PushWithObject(c.Location(), "bailing out due to a falsy expr", repr)
			if ctx.Debug {
				fxlog.Debug("%s: bailing out due to a falsy expr: %s", c.Location(), repr)
			}
			result.Unref()
			c.trace(ctx, "compound", nil, errFalsyExpr)
			return nil, errFalsyExpr
		}

		last = result
	}

	if c.ReturnValueOfLastExpr && last != nil {
		c.trace(ctx, "compound", last, nil)
		return last, nil
	}
	if last != nil {
		last.Unref()
	}
	result := fxobject.NewBoolean(true)
	c.trace(ctx, "compound", result, nil)
	return result, nil
}

// errFalsyExpr is the sentinel evaluation error pushed when a compound
// halts on a falsy, non-opted-out child. Callers that want the actual
// falsy value should inspect the error stack rather than this error's
// text, matching spec.md section 7 ("propagation ... pushes a frame
// onto the context's error stack").
var errFalsyExpr = compoundFalsyError{}

type compoundFalsyError struct{}

func (compoundFalsyError) Error() string { return "bailing out due to a falsy expr" }
