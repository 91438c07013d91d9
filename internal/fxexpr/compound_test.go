package fxexpr

import (
	"testing"

	"filterx/internal/fxeval"
	"filterx/internal/fxobject"
	"filterx/internal/fxvar"
)

func mustEval(t *testing.T, e Expr, ctx *fxeval.Context) fxobject.Object {
	t.Helper()
	if err := e.Init(nil); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer e.Deinit(nil)
	v, err := e.Eval(ctx)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	return v
}

// scenario 5 from spec.md section 8: `{ x = 1; x == 1 }`.
func TestCompoundAssignmentThenComparisonStatementExpression(t *testing.T) {
	ctx := fxeval.NewContext(nil, nil, 1)
	x := fxvar.NewDirectory().InternFloating("x")
	target := NewVarRef("x", "x", x, false)
	assign := NewAssignment("x = 1", target, NewLiteral("1", fxobject.NewInteger(1)))
	cmp := NewBinaryOp("x == 1", OpEq, NewVarRef("x", "x", x, false), NewLiteral("1", fxobject.NewInteger(1)))

	compound := NewCompound("block", []Expr{assign, cmp}, true)
	v := mustEval(t, compound, ctx)
	defer v.Unref()
	b, ok := v.(*fxobject.Boolean)
	if !ok || !b.Value {
		t.Errorf("expected true, got %#v", v)
	}
}

func TestCompoundBlockModeReturnsTrueNotLastValue(t *testing.T) {
	ctx := fxeval.NewContext(nil, nil, 0)
	a := NewLiteral("a", fxobject.NewBoolean(true))
	b := NewLiteral("b", fxobject.NewInteger(42))
	compound := NewCompound("block", []Expr{a, b}, false)
	v := mustEval(t, compound, ctx)
	defer v.Unref()
	bo, ok := v.(*fxobject.Boolean)
	if !ok || !bo.Value {
		t.Errorf("block mode on full success should return true, got %#v", v)
	}
}

func TestCompoundEmptyReturnsTrue(t *testing.T) {
	ctx := fxeval.NewContext(nil, nil, 0)
	compound := NewCompound("empty", nil, true)
	v := mustEval(t, compound, ctx)
	defer v.Unref()
	b, ok := v.(*fxobject.Boolean)
	if !ok || !b.Value {
		t.Errorf("empty compound should return true, got %#v", v)
	}
}

// scenario 6 from spec.md section 8: `{ false; side_effect() }`.
func TestCompoundShortCircuitsOnFalsyChild(t *testing.T) {
	ctx := fxeval.NewContext(nil, nil, 0)
	called := false
	sideEffect := &recordingExpr{Base: NewBase("side_effect"), onEval: func() { called = true }}

	compound := NewCompound("block", []Expr{
		NewLiteral("false", fxobject.NewBoolean(false)),
		sideEffect,
	}, false)

	if err := compound.Init(nil); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer compound.Deinit(nil)

	_, err := compound.Eval(ctx)
	if err == nil {
		t.Fatalf("expected an error from a falsy non-last child")
	}
	if called {
		t.Errorf("side_effect should not have been called after a falsy child halted evaluation")
	}
	if ctx.Errors.Empty() {
		t.Errorf("expected an error frame to be pushed")
	}
}

func TestCompoundDropStopsEvaluationAndReturnsTrue(t *testing.T) {
	ctx := fxeval.NewContext(nil, nil, 0)
	called := false
	dropper := &recordingExpr{Base: NewBase("dropper"), onEval: func() {
		ctx.SetControl(fxeval.ControlDrop)
	}}
	after := &recordingExpr{Base: NewBase("after"), onEval: func() { called = true }}

	compound := NewCompound("block", []Expr{dropper, after}, false)
	v := mustEval(t, compound, ctx)
	defer v.Unref()

	if called {
		t.Errorf("expected evaluation to stop after DROP was set")
	}
	b, ok := v.(*fxobject.Boolean)
	if !ok || !b.Value {
		t.Errorf("DROP should not be reported as an error, want true, got %#v", v)
	}
}

// Same scenario as TestCompoundDropStopsEvaluationAndReturnsTrue, but
// driven through a real, constructible `drop` expression node rather
// than a test double poking the context directly.
func TestCompoundDropNodeStopsEvaluation(t *testing.T) {
	ctx := fxeval.NewContext(nil, nil, 0)
	called := false
	after := &recordingExpr{Base: NewBase("after"), onEval: func() { called = true }}

	compound := NewCompound("block", []Expr{NewDrop("drop"), after}, false)
	v := mustEval(t, compound, ctx)
	defer v.Unref()

	if called {
		t.Errorf("expected evaluation to stop after a drop node ran")
	}
	if ctx.Control() != fxeval.ControlDrop {
		t.Errorf("expected the context's control modifier to be DROP, got %v", ctx.Control())
	}
	b, ok := v.(*fxobject.Boolean)
	if !ok || !b.Value {
		t.Errorf("DROP should not be reported as an error, want true, got %#v", v)
	}
}

func TestCompoundDoneNodeStopsEvaluation(t *testing.T) {
	ctx := fxeval.NewContext(nil, nil, 0)
	called := false
	after := &recordingExpr{Base: NewBase("after"), onEval: func() { called = true }}

	compound := NewCompound("block", []Expr{NewDone("done"), after}, false)
	v := mustEval(t, compound, ctx)
	defer v.Unref()

	if called {
		t.Errorf("expected evaluation to stop after a done node ran")
	}
	if ctx.Control() != fxeval.ControlDone {
		t.Errorf("expected the context's control modifier to be DONE, got %v", ctx.Control())
	}
	b, ok := v.(*fxobject.Boolean)
	if !ok || !b.Value {
		t.Errorf("DONE should not be reported as an error, want true, got %#v", v)
	}
}

func TestCompoundIgnoreFalsyResultOptsOut(t *testing.T) {
	ctx := fxeval.NewContext(nil, nil, 0)
	falsy := NewLiteral("false", fxobject.NewBoolean(false))
	falsy.SetIgnoreFalsyResult(true)
	next := NewLiteral("true", fxobject.NewBoolean(true))

	compound := NewCompound("block", []Expr{falsy, next}, true)
	v := mustEval(t, compound, ctx)
	defer v.Unref()
	b, ok := v.(*fxobject.Boolean)
	if !ok || !b.Value {
		t.Errorf("ignore_falsy_result should let evaluation continue, got %#v", v)
	}
}

// recordingExpr is a minimal Expr used to observe whether Eval was
// called, for the short-circuit and control-flow tests above.
type recordingExpr struct {
	Base
	onEval func()
}

func (r *recordingExpr) Init(cfg *Config) error { return nil }
func (r *recordingExpr) Deinit(cfg *Config)      {}
func (r *recordingExpr) Optimize() Expr          { return nil }
func (r *recordingExpr) Free()                   {}
func (r *recordingExpr) Eval(ctx *fxeval.Context) (fxobject.Object, error) {
	r.onEval()
	return fxobject.NewBoolean(true), nil
}
