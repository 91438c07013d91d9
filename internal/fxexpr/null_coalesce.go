package fxexpr

import (
	"filterx/internal/fxeval"
	"filterx/internal/fxobject"
)

// NullCoalesce implements the `??` operator (original_source's
// expr-null-coalesce.c): evaluate the left operand; if it is null (or
// evaluating it failed), discard that outcome and evaluate the right
// operand instead. Unlike BinaryOp's eager operators, the right
// operand is only evaluated when the left one turns out to be null,
// so it cannot be built on top of BinaryOp's eval-both-sides Eval.
type NullCoalesce struct {
	Base
	left, right Expr
}

func NewNullCoalesce(loc string, left, right Expr) *NullCoalesce {
	return &NullCoalesce{Base: NewBase(loc), left: left, right: right}
}

func (n *NullCoalesce) Init(cfg *Config) error {
	n.registerStat(cfg, "null_coalesce")
	if err := n.left.Init(cfg); err != nil {
		return err
	}
	if err := n.right.Init(cfg); err != nil {
		n.left.Deinit(cfg)
		return err
	}
	return nil
}
func (n *NullCoalesce) Deinit(cfg *Config) {
	n.right.Deinit(cfg)
	n.left.Deinit(cfg)
}
func (n *NullCoalesce) Free() {
	n.left.Free()
	n.right.Free()
}

// Optimize folds `literal ?? rhs` at configuration time, matching
// expr-null-coalesce.c's filterx_null_coalesce_new constant-folding
// path: a non-null literal left operand makes the whole expression
// that literal, and a null one makes it the right operand outright.
func (n *NullCoalesce) Optimize() Expr {
	if opt := n.left.Optimize(); opt != nil {
		n.left = opt
	}
	if opt := n.right.Optimize(); opt != nil {
		n.right = opt
	}
	lv, ok := AsLiteral(n.left)
	if !ok {
		return nil
	}
	if isNullObject(lv) {
		return n.right
	}
	return n.left
}

// isNullObject reports whether v represents FilterX null, covering
// both the dedicated Null type and a message value typed as null.
func isNullObject(v fxobject.Object) bool {
	if v.Type() == fxobject.TypeNull {
		return true
	}
	if mv, ok := v.(*fxobject.MessageValue); ok {
		return mv.LogType() == fxobject.LogTypeNull
	}
	return false
}

func (n *NullCoalesce) Eval(ctx *fxeval.Context) (fxobject.Object, error) {
	n.bumpEval()
	l, err := n.left.Eval(ctx)
	if err != nil {
		// expr-null-coalesce.c treats a failed left-hand evaluation the
		// same as a null result: clear the pushed error frame and fall
		// through to the right operand instead of propagating it.
		ctx.Errors.Reset()
	} else if !isNullObject(l) {
		n.trace(ctx, "null_coalesce", l, nil)
		return l, nil
	} else {
		l.Unref()
	}

	r, err := n.right.Eval(ctx)
	if err != nil {
		ctx.Errors.Push(n.Location(), "%v", err)
		n.trace(ctx, "null_coalesce", nil, err)
		return nil, err
	}
	n.trace(ctx, "null_coalesce", r, nil)
	return r, nil
}
