package fxfunc

import (
	"fmt"
	"strings"

	"filterx/internal/fxeval"
	"filterx/internal/fxexpr"
	"filterx/internal/fxobject"
)

// lenFunc implements len(value), grounded on the teacher's fnBuiltinLen
// (internal/evaluator/slug_fn_builtin.go): length capability forwarding
// over every type that exposes one.
type lenFunc struct{}

func (lenFunc) Init(cfg *fxexpr.Config, args []fxexpr.Expr) error {
	if len(args) != 1 {
		return fmt.Errorf("wrong number of arguments: got %d, want 1", len(args))
	}
	return nil
}
func (lenFunc) Deinit(cfg *fxexpr.Config) {}

func (lenFunc) Call(ctx *fxeval.Context, args []fxexpr.Expr) (fxobject.Object, error) {
	v, err := args[0].Eval(ctx)
	if err != nil {
		return nil, err
	}
	defer v.Unref()
	l, ok := v.(fxobject.Lenner)
	if !ok {
		return nil, fmt.Errorf("len: argument of type %s has no length", v.Type())
	}
	return fxobject.NewInteger(int64(l.Len())), nil
}

func NewLen(loc string, args []fxexpr.Expr) *fxexpr.FunctionExpr {
	return fxexpr.NewFunctionExpr(loc, "len", args, lenFunc{})
}

// caseFunc implements lower(value)/upper(value): Unicode case
// conversion over the repr-rendered string form of value.
type caseFunc struct {
	upper bool
}

func (caseFunc) Init(cfg *fxexpr.Config, args []fxexpr.Expr) error {
	if len(args) != 1 {
		return fmt.Errorf("wrong number of arguments: got %d, want 1", len(args))
	}
	return nil
}
func (caseFunc) Deinit(cfg *fxexpr.Config) {}

func (c caseFunc) Call(ctx *fxeval.Context, args []fxexpr.Expr) (fxobject.Object, error) {
	v, err := args[0].Eval(ctx)
	if err != nil {
		return nil, err
	}
	defer v.Unref()
	s, err := reprString(v)
	if err != nil {
		return nil, err
	}
	if c.upper {
		return fxobject.NewString(strings.ToUpper(s)), nil
	}
	return fxobject.NewString(strings.ToLower(s)), nil
}

func NewLower(loc string, args []fxexpr.Expr) *fxexpr.FunctionExpr {
	return fxexpr.NewFunctionExpr(loc, "lower", args, caseFunc{upper: false})
}

func NewUpper(loc string, args []fxexpr.Expr) *fxexpr.FunctionExpr {
	return fxexpr.NewFunctionExpr(loc, "upper", args, caseFunc{upper: true})
}

// isNullFunc implements is_null(value), grounded on the object model's
// Truthy/Type capability table rather than a dedicated nil check, since
// FilterX represents absence as a typed Null value, not a Go nil.
type isNullFunc struct{}

func (isNullFunc) Init(cfg *fxexpr.Config, args []fxexpr.Expr) error {
	if len(args) != 1 {
		return fmt.Errorf("wrong number of arguments: got %d, want 1", len(args))
	}
	return nil
}
func (isNullFunc) Deinit(cfg *fxexpr.Config) {}

func (isNullFunc) Call(ctx *fxeval.Context, args []fxexpr.Expr) (fxobject.Object, error) {
	v, err := args[0].Eval(ctx)
	if err != nil {
		return nil, err
	}
	defer v.Unref()
	return fxobject.NewBoolean(v.Type() == fxobject.TypeNull), nil
}

func NewIsNull(loc string, args []fxexpr.Expr) *fxexpr.FunctionExpr {
	return fxexpr.NewFunctionExpr(loc, "is_null", args, isNullFunc{})
}

// hasKeyFunc implements has_key(dict, key), grounded on the teacher's
// Map.Get pattern (internal/object/object.go): probe GetSubscript and
// report presence without surfacing its "key not found" error.
type hasKeyFunc struct{}

func (hasKeyFunc) Init(cfg *fxexpr.Config, args []fxexpr.Expr) error {
	if len(args) != 2 {
		return fmt.Errorf("wrong number of arguments: got %d, want 2", len(args))
	}
	return nil
}
func (hasKeyFunc) Deinit(cfg *fxexpr.Config) {}

func (hasKeyFunc) Call(ctx *fxeval.Context, args []fxexpr.Expr) (fxobject.Object, error) {
	d, err := args[0].Eval(ctx)
	if err != nil {
		return nil, err
	}
	defer d.Unref()
	sub, ok := d.(fxobject.Subscriptable)
	if !ok {
		return nil, fmt.Errorf("has_key: first argument of type %s is not subscriptable", d.Type())
	}
	k, err := args[1].Eval(ctx)
	if err != nil {
		return nil, err
	}
	defer k.Unref()
	v, err := sub.GetSubscript(k)
	if err != nil {
		return fxobject.NewBoolean(false), nil
	}
	v.Unref()
	return fxobject.NewBoolean(true), nil
}

func NewHasKey(loc string, args []fxexpr.Expr) *fxexpr.FunctionExpr {
	return fxexpr.NewFunctionExpr(loc, "has_key", args, hasKeyFunc{})
}
