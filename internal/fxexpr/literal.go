package fxexpr

import (
	"filterx/internal/fxeval"
	"filterx/internal/fxobject"
)

// Literal wraps a constant Object known at tree-construction time. It
// is the base case Optimize folds other nodes down to (e.g. a binary
// op over two Literal operands).
type Literal struct {
	Base
	value fxobject.Object
}

func NewLiteral(loc string, value fxobject.Object) *Literal {
	return &Literal{Base: NewBase(loc), value: value}
}

func (l *Literal) Init(cfg *Config) error {
	l.registerStat(cfg, "literal")
	return nil
}

func (l *Literal) Deinit(cfg *Config) {}

func (l *Literal) Optimize() Expr { return nil }

func (l *Literal) Eval(ctx *fxeval.Context) (fxobject.Object, error) {
	l.bumpEval()
	result := l.value.Ref()
	l.trace(ctx, "literal", result, nil)
	return result, nil
}

func (l *Literal) Free() {
	if l.value != nil {
		l.value.Unref()
	}
}

// Value exposes the wrapped constant for callers that want to inspect
// a literal at configuration time without evaluating it (e.g. the
// literal-needle caching in the string-affix functions, and the
// literal-generator foreach helpers).
func (l *Literal) Value() fxobject.Object { return l.value }

// AsLiteral reports whether e is a Literal (possibly after
// optimization folded it down to one) and returns its constant value.
// This is the mechanism startswith/endswith/includes use to detect a
// compile-time-literal needle (spec.md section 4.7) and regexp_search
// uses to require a compile-time-literal pattern (spec.md section
// 4.8).
func AsLiteral(e Expr) (fxobject.Object, bool) {
	if lit, ok := e.(*Literal); ok {
		return lit.value, true
	}
	return nil, false
}
