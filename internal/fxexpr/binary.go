package fxexpr

import (
	"fmt"

	"filterx/internal/fxeval"
	"filterx/internal/fxobject"
)

type BinaryOpKind int

const (
	OpAdd BinaryOpKind = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd // eager logical and (the short-circuiting AND lives in Compound)
	OpOr
)

// BinaryOp implements arithmetic, comparison and eager logical
// operators over two operands. Short-circuit AND-of-statements is a
// property of Compound (spec.md section 4.4), not of this node; OpAnd/
// OpOr here evaluate both operands unconditionally, matching how a
// value-producing `a and b` expression (as opposed to a statement
// sequence) behaves.
type BinaryOp struct {
	Base
	op          BinaryOpKind
	left, right Expr
}

func NewBinaryOp(loc string, op BinaryOpKind, left, right Expr) *BinaryOp {
	return &BinaryOp{Base: NewBase(loc), op: op, left: left, right: right}
}

func (b *BinaryOp) Init(cfg *Config) error {
	b.registerStat(cfg, "binary")
	if err := b.left.Init(cfg); err != nil {
		return err
	}
	if err := b.right.Init(cfg); err != nil {
		b.left.Deinit(cfg)
		return err
	}
	return nil
}
func (b *BinaryOp) Deinit(cfg *Config) {
	b.right.Deinit(cfg)
	b.left.Deinit(cfg)
}
func (b *BinaryOp) Free() {
	b.left.Free()
	b.right.Free()
}

func (b *BinaryOp) Optimize() Expr {
	lv, lok := AsLiteral(b.left)
	rv, rok := AsLiteral(b.right)
	if !lok || !rok {
		return nil
	}
	out, err := b.apply(lv, rv)
	if err != nil {
		return nil
	}
	return NewLiteral(b.Location(), out)
}

func numericValue(o fxobject.Object) (float64, bool, error) {
	switch n := o.(type) {
	case *fxobject.Integer:
		return float64(n.Value), true, nil
	case *fxobject.Double:
		return n.Value, false, nil
	default:
		return 0, false, fmt.Errorf("expected a number, got %s", o.Type())
	}
}

func (b *BinaryOp) apply(l, r fxobject.Object) (fxobject.Object, error) {
	switch b.op {
	case OpEq, OpNe:
		eq := objectsEqual(l, r)
		if b.op == OpNe {
			eq = !eq
		}
		return fxobject.NewBoolean(eq), nil
	case OpAnd, OpOr:
		lt, ok := l.(fxobject.Truthy)
		if !ok {
			return nil, fmt.Errorf("filterx: %s: operand is not truthy-capable", b.Location())
		}
		rt, ok := r.(fxobject.Truthy)
		if !ok {
			return nil, fmt.Errorf("filterx: %s: operand is not truthy-capable", b.Location())
		}
		if b.op == OpAnd {
			return fxobject.NewBoolean(lt.Truthy() && rt.Truthy()), nil
		}
		return fxobject.NewBoolean(lt.Truthy() || rt.Truthy()), nil
	}

	lf, lIsInt, lerr := numericValue(l)
	rf, rIsInt, rerr := numericValue(r)
	if lerr != nil || rerr != nil {
		return nil, fmt.Errorf("filterx: %s: arithmetic/comparison requires numbers", b.Location())
	}
	bothInt := lIsInt && rIsInt

	switch b.op {
	case OpAdd:
		if bothInt {
			return fxobject.NewInteger(int64(lf) + int64(rf)), nil
		}
		return fxobject.NewDouble(lf + rf), nil
	case OpSub:
		if bothInt {
			return fxobject.NewInteger(int64(lf) - int64(rf)), nil
		}
		return fxobject.NewDouble(lf - rf), nil
	case OpMul:
		if bothInt {
			return fxobject.NewInteger(int64(lf) * int64(rf)), nil
		}
		return fxobject.NewDouble(lf * rf), nil
	case OpDiv:
		if rf == 0 {
			return nil, fmt.Errorf("filterx: %s: division by zero", b.Location())
		}
		return fxobject.NewDouble(lf / rf), nil
	case OpLt:
		return fxobject.NewBoolean(lf < rf), nil
	case OpLe:
		return fxobject.NewBoolean(lf <= rf), nil
	case OpGt:
		return fxobject.NewBoolean(lf > rf), nil
	case OpGe:
		return fxobject.NewBoolean(lf >= rf), nil
	}
	return nil, fmt.Errorf("filterx: unknown binary op")
}

func objectsEqual(l, r fxobject.Object) bool {
	if l.Type() != r.Type() {
		if lr, ok := l.(fxobject.Reprer); ok {
			if rr, ok := r.(fxobject.Reprer); ok {
				return lr.Repr() == rr.Repr()
			}
		}
		return false
	}
	if lr, ok := l.(fxobject.Reprer); ok {
		if rr, ok := r.(fxobject.Reprer); ok {
			return lr.Repr() == rr.Repr()
		}
	}
	return l == r
}

func (b *BinaryOp) Eval(ctx *fxeval.Context) (fxobject.Object, error) {
	b.bumpEval()
	l, err := b.left.Eval(ctx)
	if err != nil {
		return nil, err
	}
	defer l.Unref()
	r, err := b.right.Eval(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Unref()
	out, err := b.apply(l, r)
	if err != nil {
		ctx.Errors.Push(b.Location(), "%v", err)
		b.trace(ctx, "binary", nil, err)
		return nil, err
	}
	b.trace(ctx, "binary", out, nil)
	return out, nil
}
