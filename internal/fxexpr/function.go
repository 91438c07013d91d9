package fxexpr

import (
	"filterx/internal/fxeval"
	"filterx/internal/fxobject"
)

// FunctionImpl is a host-provided callable node: startswith, endswith,
// includes, and the supplemental predicates in SPEC_FULL.md section
// 4.10 all implement this, registered into a FunctionExpr by
// fxfunc.Registry at configuration time.
type FunctionImpl interface {
	Init(cfg *Config, args []Expr) error
	Deinit(cfg *Config)
	Call(ctx *fxeval.Context, args []Expr) (fxobject.Object, error)
}

// FunctionExpr adapts a FunctionImpl into an Expr, owning the argument
// subtree's lifecycle so individual FunctionImpls only implement
// Call's evaluation logic.
type FunctionExpr struct {
	Base
	Name string
	Args []Expr
	impl FunctionImpl
}

func NewFunctionExpr(loc, name string, args []Expr, impl FunctionImpl) *FunctionExpr {
	return &FunctionExpr{Base: NewBase(loc), Name: name, Args: args, impl: impl}
}

func (f *FunctionExpr) Init(cfg *Config) error {
	f.registerStat(cfg, "func:"+f.Name)
	if err := initChildren(cfg, f.Args); err != nil {
		return err
	}
	if err := f.impl.Init(cfg, f.Args); err != nil {
		deinitChildren(cfg, f.Args)
		return err
	}
	return nil
}

func (f *FunctionExpr) Deinit(cfg *Config) {
	f.impl.Deinit(cfg)
	deinitChildren(cfg, f.Args)
}

func (f *FunctionExpr) Optimize() Expr {
	for i, a := range f.Args {
		if opt := a.Optimize(); opt != nil {
			f.Args[i] = opt
		}
	}
	return nil
}

func (f *FunctionExpr) Free() { freeChildren(f.Args) }

func (f *FunctionExpr) Eval(ctx *fxeval.Context) (fxobject.Object, error) {
	f.bumpEval()
	out, err := f.impl.Call(ctx, f.Args)
	if err != nil {
		ctx.Errors.Push(f.Location(), "%s: %v", f.Name, err)
		f.trace(ctx, "func:"+f.Name, nil, err)
		return nil, err
	}
	f.trace(ctx, "func:"+f.Name, out, nil)
	return out, nil
}
