package fxexpr

import (
	"filterx/internal/fxeval"
	"filterx/internal/fxobject"
)

// GeneratorFuncImpl is what a generator-function (spec.md section 4.5,
// exemplified by regexp_search in section 4.8) supplies: a container
// factory and a fill step, mirroring LiteralGenerator's
// CreateContainer/Generate shape but driven by host logic (a regex
// match) instead of a fixed element list.
type GeneratorFuncImpl interface {
	// Init/Deinit let the implementation validate configuration-time
	// state (e.g. compile a literal regex pattern), initialize any
	// argument subtrees it owns, and release both.
	Init(cfg *Config) error
	Deinit(cfg *Config)
	CreateContainer() fxobject.Object
	Generate(ctx *fxeval.Context, fillable fxobject.Object) error
	// Free releases the implementation's owned argument subtrees,
	// mirroring FunctionExpr's freeChildren step.
	Free()
}

// GeneratorFuncExpr adapts a GeneratorFuncImpl into an Expr, giving
// every generator-function the same create-then-fill Eval contract a
// LiteralGenerator has.
type GeneratorFuncExpr struct {
	Base
	Name string
	impl GeneratorFuncImpl
}

func NewGeneratorFuncExpr(loc, name string, impl GeneratorFuncImpl) *GeneratorFuncExpr {
	return &GeneratorFuncExpr{Base: NewBase(loc), Name: name, impl: impl}
}

func (g *GeneratorFuncExpr) Init(cfg *Config) error {
	g.registerStat(cfg, "genfunc:"+g.Name)
	return g.impl.Init(cfg)
}
func (g *GeneratorFuncExpr) Deinit(cfg *Config) { g.impl.Deinit(cfg) }
func (g *GeneratorFuncExpr) Optimize() Expr     { return nil }
func (g *GeneratorFuncExpr) Free()              { g.impl.Free() }

func (g *GeneratorFuncExpr) Eval(ctx *fxeval.Context) (fxobject.Object, error) {
	g.bumpEval()
	container := g.impl.CreateContainer()
	if err := g.impl.Generate(ctx, container); err != nil {
		container.Unref()
		ctx.Errors.Push(g.Location(), "%s: %v", g.Name, err)
		g.trace(ctx, "genfunc:"+g.Name, nil, err)
		return nil, err
	}
	g.trace(ctx, "genfunc:"+g.Name, container, nil)
	return container, nil
}
