package fxfunc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"filterx/internal/fxeval"
	"filterx/internal/fxexpr"
	"filterx/internal/fxobject"
)

// affixKind selects which byte-wise predicate an affixFunc applies,
// per spec.md section 4.7.
type affixKind int

const (
	affixPrefix affixKind = iota
	affixSuffix
	affixSubstring
)

func (k affixKind) test(haystack, needle string) bool {
	switch k {
	case affixPrefix:
		return strings.HasPrefix(haystack, needle)
	case affixSuffix:
		return strings.HasSuffix(haystack, needle)
	default:
		return strings.Contains(haystack, needle)
	}
}

// affixFunc implements startswith/endswith/includes: a string or list
// of strings needle tested against a repr-rendered haystack, with an
// optional literal ignorecase flag and literal-needle caching at Init
// time (spec.md section 4.7).
type affixFunc struct {
	kind affixKind

	ignorecase bool

	// cached holds the pre-rendered, pre-folded needle set when the
	// needle argument was a compile-time literal. nil means the
	// needle must be (re-)evaluated on every Call.
	cached []string
}

func newAffixFunc(kind affixKind) *affixFunc {
	return &affixFunc{kind: kind}
}

func (f *affixFunc) Init(cfg *fxexpr.Config, args []fxexpr.Expr) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("wrong number of arguments: got %d, want 2 or 3", len(args))
	}
	if len(args) == 3 {
		lit, ok := fxexpr.AsLiteral(args[2])
		if !ok {
			return fmt.Errorf("ignorecase argument must be a compile-time literal boolean")
		}
		b, ok := lit.(*fxobject.Boolean)
		if !ok {
			return fmt.Errorf("ignorecase argument must be a boolean, got %s", lit.Type())
		}
		f.ignorecase = b.Value
	}

	if lit, ok := fxexpr.AsLiteral(args[1]); ok {
		needles, err := literalNeedles(lit)
		if err != nil {
			return err
		}
		f.cached = make([]string, len(needles))
		for i, n := range needles {
			f.cached[i] = fold(n, f.ignorecase)
		}
	}
	return nil
}

func (f *affixFunc) Deinit(cfg *fxexpr.Config) {}

func (f *affixFunc) Call(ctx *fxeval.Context, args []fxexpr.Expr) (fxobject.Object, error) {
	haystackObj, err := args[0].Eval(ctx)
	if err != nil {
		return nil, err
	}
	defer haystackObj.Unref()
	haystack, err := reprString(haystackObj)
	if err != nil {
		return nil, err
	}
	if f.ignorecase && !utf8.ValidString(haystack) {
		return nil, fmt.Errorf("ignorecase comparison requires a valid UTF-8 haystack")
	}
	haystack = fold(haystack, f.ignorecase)

	needles := f.cached
	if needles == nil {
		needleObj, err := args[1].Eval(ctx)
		if err != nil {
			return nil, err
		}
		defer needleObj.Unref()
		raw, err := literalNeedles(needleObj)
		if err != nil {
			return nil, err
		}
		needles = make([]string, len(raw))
		for i, n := range raw {
			needles[i] = fold(n, f.ignorecase)
		}
	}

	for _, needle := range needles {
		if len(needle) > len(haystack) {
			continue
		}
		if f.kind.test(haystack, needle) {
			return fxobject.NewBoolean(true), nil
		}
	}
	return fxobject.NewBoolean(false), nil
}

// literalNeedles normalizes the needle argument: a single string
// renders to a one-element slice, a list of strings renders to its
// elements in order. Any other shape is a configuration/evaluation
// error.
func literalNeedles(o fxobject.Object) ([]string, error) {
	switch v := o.(type) {
	case *fxobject.String:
		return []string{v.Value}, nil
	case *fxobject.List:
		out := make([]string, 0, v.Len())
		for _, e := range v.Elements() {
			s, err := reprString(e)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("needle must be a string or list of strings, got %s", o.Type())
	}
}

func reprString(o fxobject.Object) (string, error) {
	r, ok := o.(fxobject.Reprer)
	if !ok {
		return "", fmt.Errorf("value of type %s cannot be rendered as a string", o.Type())
	}
	return r.Repr(), nil
}

// fold applies FilterX's approximation of Unicode case-folding: a
// plain lower-case mapping, which per spec.md section 9(c) is correct
// only when both sides of a comparison fold identically.
func fold(s string, ignorecase bool) string {
	if !ignorecase {
		return s
	}
	return strings.ToLower(s)
}

// NewStartsWith, NewEndsWith and NewIncludes build the three
// fxexpr.FunctionExpr nodes spec.md section 4.7 names.
func NewStartsWith(loc string, args []fxexpr.Expr) *fxexpr.FunctionExpr {
	return fxexpr.NewFunctionExpr(loc, "startswith", args, newAffixFunc(affixPrefix))
}

func NewEndsWith(loc string, args []fxexpr.Expr) *fxexpr.FunctionExpr {
	return fxexpr.NewFunctionExpr(loc, "endswith", args, newAffixFunc(affixSuffix))
}

func NewIncludes(loc string, args []fxexpr.Expr) *fxexpr.FunctionExpr {
	return fxexpr.NewFunctionExpr(loc, "includes", args, newAffixFunc(affixSubstring))
}
