package fxfunc

import (
	"testing"

	"filterx/internal/fxexpr"
	"filterx/internal/fxobject"
)

func TestLenAcrossTypes(t *testing.T) {
	cases := []struct {
		name string
		arg  fxexpr.Expr
		want int64
	}{
		{"string", litStr("hello"), 5},
		{"bytes", fxexpr.NewLiteral("lit", fxobject.NewBytes([]byte{1, 2, 3})), 3},
		{"list", fxexpr.NewLiteral("lit", fxobject.NewListFrom([]fxobject.Object{fxobject.NewInteger(1), fxobject.NewInteger(2)})), 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fn := NewLen("len", []fxexpr.Expr{c.arg})
			v := evalFunc(t, fn)
			defer v.Unref()
			i, ok := v.(*fxobject.Integer)
			if !ok || i.Value != c.want {
				t.Errorf("expected %d, got %#v", c.want, v)
			}
		})
	}
}

func TestLowerUpper(t *testing.T) {
	lower := evalFunc(t, NewLower("lower", []fxexpr.Expr{litStr("MiXeD")}))
	defer lower.Unref()
	if s, ok := lower.(*fxobject.String); !ok || s.Value != "mixed" {
		t.Errorf("expected \"mixed\", got %#v", lower)
	}

	upper := evalFunc(t, NewUpper("upper", []fxexpr.Expr{litStr("MiXeD")}))
	defer upper.Unref()
	if s, ok := upper.(*fxobject.String); !ok || s.Value != "MIXED" {
		t.Errorf("expected \"MIXED\", got %#v", upper)
	}
}

func TestIsNull(t *testing.T) {
	yes := evalFunc(t, NewIsNull("isn", []fxexpr.Expr{fxexpr.NewLiteral("lit", fxobject.NewNull())}))
	defer yes.Unref()
	if b, ok := yes.(*fxobject.Boolean); !ok || !b.Value {
		t.Errorf("expected true for null, got %#v", yes)
	}

	no := evalFunc(t, NewIsNull("isn", []fxexpr.Expr{litStr("x")}))
	defer no.Unref()
	if b, ok := no.(*fxobject.Boolean); !ok || b.Value {
		t.Errorf("expected false for a string, got %#v", no)
	}
}

func TestHasKey(t *testing.T) {
	d := fxobject.NewDict()
	var v fxobject.Object = fxobject.NewInteger(1)
	var k fxobject.Object = fxobject.NewString("present")
	if err := d.SetSubscript(k, &v); err != nil {
		t.Fatalf("setup: %v", err)
	}

	yes := evalFunc(t, NewHasKey("hk", []fxexpr.Expr{fxexpr.NewLiteral("lit", d), litStr("present")}))
	defer yes.Unref()
	if b, ok := yes.(*fxobject.Boolean); !ok || !b.Value {
		t.Errorf("expected true, got %#v", yes)
	}

	no := evalFunc(t, NewHasKey("hk", []fxexpr.Expr{fxexpr.NewLiteral("lit", d), litStr("absent")}))
	defer no.Unref()
	if b, ok := no.(*fxobject.Boolean); !ok || b.Value {
		t.Errorf("expected false, got %#v", no)
	}
}
