package fxexpr

import (
	"filterx/internal/fxeval"
	"filterx/internal/fxobject"
)

// Done is the FilterX `done` expression (original_source's
// expr-done.c): evaluating it sets the context's control modifier to
// DONE and returns boolean true. A compound's evaluation loop observes
// the modifier via ctx.ShouldStop before evaluating its next child
// (spec.md section 4.4 step 1), so `{ done; side_effect() }` halts the
// block without side_effect ever running, without that halt being
// reported as a failure.
type Done struct {
	Base
	modifier fxeval.ControlModifier
}

// NewDone builds a `done` expression node.
func NewDone(loc string) *Done {
	return &Done{Base: NewBase(loc), modifier: fxeval.ControlDone}
}

// NewDrop builds a `drop` expression node: same mechanics as `done`,
// but the control modifier it sets is DROP rather than DONE. FilterX
// does not distinguish the two at the compound-loop level (both
// satisfy ShouldStop); the host driver is the one expected to treat
// DROP and DONE differently once it inspects ctx.Control() after
// evaluation completes.
func NewDrop(loc string) *Done {
	return &Done{Base: NewBase(loc), modifier: fxeval.ControlDrop}
}

func (d *Done) Init(cfg *Config) error {
	d.registerStat(cfg, d.modifier.String())
	return nil
}
func (d *Done) Deinit(cfg *Config) {}
func (d *Done) Optimize() Expr     { return nil }
func (d *Done) Free()              {}

func (d *Done) Eval(ctx *fxeval.Context) (fxobject.Object, error) {
	d.bumpEval()
	ctx.SetControl(d.modifier)
	result := fxobject.NewBoolean(true)
	d.trace(ctx, d.modifier.String(), result, nil)
	return result, nil
}
