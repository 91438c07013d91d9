package fxexpr

import (
	"fmt"

	"filterx/internal/fxeval"
	"filterx/internal/fxobject"
)

type UnaryOpKind int

const (
	UnaryNot UnaryOpKind = iota
	UnaryNeg
)

// UnaryOp implements `not x` and unary `-x`.
type UnaryOp struct {
	Base
	op      UnaryOpKind
	operand Expr
}

func NewUnaryOp(loc string, op UnaryOpKind, operand Expr) *UnaryOp {
	return &UnaryOp{Base: NewBase(loc), op: op, operand: operand}
}

func (u *UnaryOp) Init(cfg *Config) error {
	u.registerStat(cfg, "unary")
	return u.operand.Init(cfg)
}
func (u *UnaryOp) Deinit(cfg *Config) { u.operand.Deinit(cfg) }
func (u *UnaryOp) Free()              { u.operand.Free() }

func (u *UnaryOp) Optimize() Expr {
	if v, ok := AsLiteral(u.operand); ok {
		out, err := u.apply(v)
		if err != nil {
			return nil
		}
		return NewLiteral(u.Location(), out)
	}
	return nil
}

func (u *UnaryOp) apply(v fxobject.Object) (fxobject.Object, error) {
	switch u.op {
	case UnaryNot:
		tr, ok := v.(fxobject.Truthy)
		if !ok {
			return nil, fmt.Errorf("filterx: %s: `not` requires a truthy-capable operand, got %s", u.Location(), v.Type())
		}
		return fxobject.NewBoolean(!tr.Truthy()), nil
	case UnaryNeg:
		switch n := v.(type) {
		case *fxobject.Integer:
			return fxobject.NewInteger(-n.Value), nil
		case *fxobject.Double:
			return fxobject.NewDouble(-n.Value), nil
		default:
			return nil, fmt.Errorf("filterx: %s: unary `-` requires a number, got %s", u.Location(), v.Type())
		}
	}
	return nil, fmt.Errorf("filterx: unknown unary op")
}

func (u *UnaryOp) Eval(ctx *fxeval.Context) (fxobject.Object, error) {
	u.bumpEval()
	v, err := u.operand.Eval(ctx)
	if err != nil {
		return nil, err
	}
	defer v.Unref()
	out, err := u.apply(v)
	if err != nil {
		ctx.Errors.Push(u.Location(), "%v", err)
		u.trace(ctx, "unary", nil, err)
		return nil, err
	}
	u.trace(ctx, "unary", out, nil)
	return out, nil
}
