package fxfunc

import (
	"testing"

	"filterx/internal/fxeval"
	"filterx/internal/fxexpr"
	"filterx/internal/fxobject"
)

func evalFunc(t *testing.T, fn *fxexpr.FunctionExpr) fxobject.Object {
	t.Helper()
	if err := fn.Init(nil); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer fn.Deinit(nil)
	defer fn.Free()
	ctx := fxeval.NewContext(nil, nil, 0)
	v, err := fn.Eval(ctx)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	return v
}

func litStr(s string) *fxexpr.Literal { return fxexpr.NewLiteral("lit", fxobject.NewString(s)) }
func litBool(b bool) *fxexpr.Literal  { return fxexpr.NewLiteral("lit", fxobject.NewBoolean(b)) }

// scenario 1 from spec.md section 8.
func TestStartsWithIgnorecase(t *testing.T) {
	fn := NewStartsWith("sw", []fxexpr.Expr{litStr("Hello, World"), litStr("hello"), litBool(true)})
	v := evalFunc(t, fn)
	defer v.Unref()
	if b, ok := v.(*fxobject.Boolean); !ok || !b.Value {
		t.Errorf("expected true, got %#v", v)
	}
}

// scenario 2 from spec.md section 8.
func TestEndsWithListNeedle(t *testing.T) {
	needles := fxobject.NewListFrom([]fxobject.Object{fxobject.NewString(".zip"), fxobject.NewString(".gz")})
	fn := NewEndsWith("ew", []fxexpr.Expr{litStr("file.tar.gz"), fxexpr.NewLiteral("lit", needles)})
	v := evalFunc(t, fn)
	defer v.Unref()
	if b, ok := v.(*fxobject.Boolean); !ok || !b.Value {
		t.Errorf("expected true, got %#v", v)
	}

	miss := fxobject.NewListFrom([]fxobject.Object{fxobject.NewString(".zip")})
	fn2 := NewEndsWith("ew", []fxexpr.Expr{litStr("file.tar.gz"), fxexpr.NewLiteral("lit", miss)})
	v2 := evalFunc(t, fn2)
	defer v2.Unref()
	if b, ok := v2.(*fxobject.Boolean); !ok || b.Value {
		t.Errorf("expected false, got %#v", v2)
	}
}

// scenario 3 from spec.md section 8.
func TestIncludes(t *testing.T) {
	fn := NewIncludes("in", []fxexpr.Expr{litStr("abcdef"), litStr("cd")})
	v := evalFunc(t, fn)
	defer v.Unref()
	if b, ok := v.(*fxobject.Boolean); !ok || !b.Value {
		t.Errorf("expected true, got %#v", v)
	}

	fn2 := NewIncludes("in", []fxexpr.Expr{litStr("abc"), litStr("abcd")})
	v2 := evalFunc(t, fn2)
	defer v2.Unref()
	if b, ok := v2.(*fxobject.Boolean); !ok || b.Value {
		t.Errorf("expected false for needle longer than haystack, got %#v", v2)
	}
}

// open question (a): an empty needle is explicitly true for all three.
func TestAffixEmptyNeedleIsTrue(t *testing.T) {
	for _, ctor := range []func(string, []fxexpr.Expr) *fxexpr.FunctionExpr{NewStartsWith, NewEndsWith, NewIncludes} {
		fn := ctor("aff", []fxexpr.Expr{litStr("anything"), litStr("")})
		v := evalFunc(t, fn)
		b, ok := v.(*fxobject.Boolean)
		v.Unref()
		if !ok || !b.Value {
			t.Errorf("expected true for empty needle, got %#v", v)
		}
	}
}

func TestAffixLiteralNeedleIsCachedAtInit(t *testing.T) {
	impl := newAffixFunc(affixPrefix)
	args := []fxexpr.Expr{litStr("haystack"), litStr("hay")}
	if err := impl.Init(nil, args); err != nil {
		t.Fatalf("init: %v", err)
	}
	if impl.cached == nil {
		t.Fatalf("expected a literal needle to be cached at init time")
	}
	if len(impl.cached) != 1 || impl.cached[0] != "hay" {
		t.Errorf("unexpected cached needle set: %#v", impl.cached)
	}
}

// spec.md section 8 edge case: a non-UTF-8 haystack under ignorecase
// fails the call rather than folding garbage bytes.
func TestAffixIgnorecaseRejectsInvalidUTF8Haystack(t *testing.T) {
	bad := fxexpr.NewLiteral("lit", fxobject.NewString("abc\xffdef"))
	fn := NewStartsWith("sw", []fxexpr.Expr{bad, litStr("abc"), litBool(true)})
	if err := fn.Init(nil); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer fn.Deinit(nil)
	defer fn.Free()
	ctx := fxeval.NewContext(nil, nil, 0)
	if _, err := fn.Eval(ctx); err == nil {
		t.Errorf("expected an error for a non-UTF-8 haystack under ignorecase")
	}
}

func TestAffixIgnorecaseMustBeLiteral(t *testing.T) {
	target := fxexpr.NewVarRef("x", "x", 0, false)
	impl := newAffixFunc(affixPrefix)
	err := impl.Init(nil, []fxexpr.Expr{litStr("a"), litStr("b"), target})
	if err == nil {
		t.Errorf("expected a configuration error for a non-literal ignorecase argument")
	}
}
