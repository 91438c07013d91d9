package fxfunc

import (
	"testing"

	"filterx/internal/fxeval"
	"filterx/internal/fxexpr"
	"filterx/internal/fxhost"
	"filterx/internal/fxobject"
)

// fakeRegexCode and fakeRegexEngine let these tests exercise
// regexp_search's generator logic without depending on a real PCRE2-
// compatible binding; the scripted match mirrors what
// dlclark/regexp2 would report for the pattern `(?<n>\d+)` against
// "foo123bar" (spec.md section 8 scenario 4).
type fakeRegexCode struct {
	names map[string]int
}

func (c *fakeRegexCode) NameTable() map[string]int { return c.names }

type fakeRegexEngine struct{}

func (fakeRegexEngine) Compile(pattern string) (fxhost.RegexCode, error) {
	return &fakeRegexCode{names: map[string]int{"n": 1}}, nil
}

func (fakeRegexEngine) Match(code fxhost.RegexCode, subject string) (fxhost.RegexMatch, error) {
	if subject != "foo123bar" {
		return fxhost.RegexMatch{}, nil
	}
	return fxhost.RegexMatch{
		Groups:      []string{"foo123bar", "123"},
		Present:     []bool{true, true},
		NameToGroup: map[string]int{"n": 1},
	}, nil
}

func evalGen(t *testing.T, g *fxexpr.GeneratorFuncExpr) fxobject.Object {
	t.Helper()
	if err := g.Init(nil); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer g.Deinit(nil)
	defer g.Free()
	ctx := fxeval.NewContext(nil, nil, 0)
	v, err := g.Eval(ctx)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	return v
}

func TestRegexpSearchDictModeElidesGroupZero(t *testing.T) {
	g := NewRegexpSearch("rx", fakeRegexEngine{}, litStr("foo123bar"), litStr(`(?<n>\d+)`), false, false)
	v := evalGen(t, g)
	defer v.Unref()
	d, ok := v.(*fxobject.Dict)
	if !ok {
		t.Fatalf("expected a dict, got %#v", v)
	}
	if got := d.Keys(); len(got) != 1 || got[0] != "n" {
		t.Errorf("expected keys [n], got %#v", got)
	}
}

func TestRegexpSearchKeepZero(t *testing.T) {
	g := NewRegexpSearch("rx", fakeRegexEngine{}, litStr("foo123bar"), litStr(`(?<n>\d+)`), true, false)
	v := evalGen(t, g)
	defer v.Unref()
	d, ok := v.(*fxobject.Dict)
	if !ok {
		t.Fatalf("expected a dict, got %#v", v)
	}
	keys := d.SortedKeys()
	if len(keys) != 2 || keys[0] != "0" || keys[1] != "n" {
		t.Errorf("expected keys [0 n], got %#v", keys)
	}
}

func TestRegexpSearchListMode(t *testing.T) {
	g := NewRegexpSearch("rx", fakeRegexEngine{}, litStr("foo123bar"), litStr(`(?<n>\d+)`), false, true)
	v := evalGen(t, g)
	defer v.Unref()
	l, ok := v.(*fxobject.List)
	if !ok {
		t.Fatalf("expected a list, got %#v", v)
	}
	if l.Len() != 1 {
		t.Errorf("expected one element, got %d", l.Len())
	}
}

func TestRegexpSearchNoMatchYieldsEmptyContainer(t *testing.T) {
	g := NewRegexpSearch("rx", fakeRegexEngine{}, litStr("no digits here"), litStr(`(?<n>\d+)`), false, false)
	v := evalGen(t, g)
	defer v.Unref()
	d, ok := v.(*fxobject.Dict)
	if !ok || d.Len() != 0 {
		t.Errorf("expected an empty dict, got %#v", v)
	}
}

func TestRegexpSearchRejectsNonLiteralPattern(t *testing.T) {
	target := fxexpr.NewVarRef("x", "x", 0, false)
	g := NewRegexpSearch("rx", fakeRegexEngine{}, litStr("subject"), target, false, false)
	if err := g.Init(nil); err == nil {
		t.Errorf("expected a configuration error for a non-literal pattern")
	}
}
