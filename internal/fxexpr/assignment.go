package fxexpr

import (
	"fmt"

	"filterx/internal/fxeval"
	"filterx/internal/fxobject"
)

// AssignmentTarget is anything an Assignment can store a value into: a
// plain variable reference, or a subscript (dict key / list index) on
// a value reached through another expression.
type AssignmentTarget interface {
	Assign(ctx *fxeval.Context, value fxobject.Object) error
}

// Assignment evaluates Value and stores it into Target, returning the
// stored value — this is what makes `x = 1` usable both as a
// statement and, per spec.md section 8 scenario 5, as the first child
// of a statement-expression compound whose overall truthiness chains
// into the next child.
type Assignment struct {
	Base
	target AssignmentTarget
	value  Expr
}

func NewAssignment(loc string, target AssignmentTarget, value Expr) *Assignment {
	a := &Assignment{Base: NewBase(loc), target: target, value: value}
	a.SetIgnoreFalsyResult(true) // an assignment's own truthiness never halts a compound
	return a
}

func (a *Assignment) Init(cfg *Config) error {
	a.registerStat(cfg, "assign")
	return a.value.Init(cfg)
}
func (a *Assignment) Deinit(cfg *Config) { a.value.Deinit(cfg) }
func (a *Assignment) Optimize() Expr     { return nil }
func (a *Assignment) Free()              { a.value.Free() }

func (a *Assignment) Eval(ctx *fxeval.Context) (fxobject.Object, error) {
	a.bumpEval()
	v, err := a.value.Eval(ctx)
	if err != nil {
		a.trace(ctx, "assign", nil, err)
		return nil, err
	}
	if err := a.target.Assign(ctx, v); err != nil {
		v.Unref()
		ctx.Errors.Push(a.Location(), "assignment failed: %v", err)
		a.trace(ctx, "assign", nil, err)
		return nil, err
	}
	result := v.Ref()
	a.trace(ctx, "assign", result, nil)
	return result, nil
}

// SubscriptTarget assigns into a container reached by evaluating
// Container, at the key produced by evaluating Key — the assignment
// form of `container[key] = value`. It implements the "set_subscript
// accepts a pointer-to-value" contract from spec.md section 4.1: the
// container's SetSubscript may substitute a different object (a
// clone, if the stored value was scratch-backed), and the substituted
// pointer is discarded here since the caller of Assign already holds
// its own strong reference to the original value.
type SubscriptTarget struct {
	Container Expr
	Key       Expr
}

func (t *SubscriptTarget) Assign(ctx *fxeval.Context, value fxobject.Object) error {
	container, err := t.Container.Eval(ctx)
	if err != nil {
		return err
	}
	defer container.Unref()

	key, err := t.Key.Eval(ctx)
	if err != nil {
		return err
	}
	defer key.Unref()

	sub, ok := container.(fxobject.Subscriptable)
	if !ok {
		return fmt.Errorf("filterx: %s does not support subscript assignment", container.Type())
	}
	owned := value.Ref()
	if err := sub.SetSubscript(key, &owned); err != nil {
		owned.Unref()
		return err
	}
	return nil
}
