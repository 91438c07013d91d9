package fxfunc

import (
	"fmt"
	"strconv"

	"filterx/internal/fxeval"
	"filterx/internal/fxexpr"
	"filterx/internal/fxhost"
	"filterx/internal/fxobject"
)

// regexpSearch implements the regexp_search generator-function from
// spec.md section 4.8: string, pattern, keep_zero, list_mode. pattern
// must be a compile-time literal — compilation happens once in Init,
// never in Generate, matching "compilation failure is a configuration
// error".
type regexpSearch struct {
	engine fxhost.RegexEngine

	subjectExpr fxexpr.Expr
	patternExpr fxexpr.Expr
	code        fxhost.RegexCode
	keepZero    bool
	listMode    bool
}

func newRegexpSearch(engine fxhost.RegexEngine, subject, pattern fxexpr.Expr, keepZero, listMode bool) *regexpSearch {
	return &regexpSearch{
		engine:      engine,
		subjectExpr: subject,
		patternExpr: pattern,
		keepZero:    keepZero,
		listMode:    listMode,
	}
}

func (r *regexpSearch) Init(cfg *fxexpr.Config) error {
	lit, ok := fxexpr.AsLiteral(r.patternExpr)
	if !ok {
		return fmt.Errorf("regexp_search: pattern must be a compile-time literal")
	}
	ps, ok := lit.(*fxobject.String)
	if !ok {
		return fmt.Errorf("regexp_search: pattern must be a string literal, got %s", lit.Type())
	}
	code, err := r.engine.Compile(ps.Value)
	if err != nil {
		return fmt.Errorf("regexp_search: pattern compilation failed: %w", err)
	}
	r.code = code
	return r.subjectExpr.Init(cfg)
}

func (r *regexpSearch) Deinit(cfg *fxexpr.Config) { r.subjectExpr.Deinit(cfg) }
func (r *regexpSearch) Free()                     { r.subjectExpr.Free() }

func (r *regexpSearch) CreateContainer() fxobject.Object {
	if r.listMode {
		return fxobject.NewList()
	}
	return fxobject.NewDict()
}

func (r *regexpSearch) Generate(ctx *fxeval.Context, fillable fxobject.Object) error {
	subjObj, err := r.subjectExpr.Eval(ctx)
	if err != nil {
		return err
	}
	defer subjObj.Unref()
	subject, err := reprString(subjObj)
	if err != nil {
		return err
	}

	match, err := r.engine.Match(r.code, subject)
	if err != nil {
		return fmt.Errorf("regexp_search: match failed: %w", err)
	}
	if len(match.Groups) == 0 {
		// no match: empty container, not an error (spec.md section 4.8).
		return nil
	}

	skipZero := !r.keepZero || len(match.Groups) == 1
	nameByGroup := make(map[int]string, len(match.NameToGroup))
	for name, idx := range match.NameToGroup {
		nameByGroup[idx] = name
	}

	if r.listMode {
		list := fillable.(*fxobject.List)
		for i := range match.Groups {
			if i == 0 && skipZero {
				continue
			}
			if !match.Present[i] {
				if err := list.Append(fxobject.NewNull()); err != nil {
					return err
				}
				continue
			}
			if err := list.Append(fxobject.NewString(match.Groups[i])); err != nil {
				return err
			}
		}
		return nil
	}

	dict := fillable.(*fxobject.Dict)
	for i := range match.Groups {
		if i == 0 && skipZero {
			continue
		}
		if !match.Present[i] {
			continue
		}
		key := strconv.Itoa(i)
		if name, ok := nameByGroup[i]; ok {
			key = name
		}
		var kv fxobject.Object = fxobject.NewString(key)
		var vv fxobject.Object = fxobject.NewString(match.Groups[i])
		if err := dict.SetSubscript(kv, &vv); err != nil {
			kv.Unref()
			return err
		}
		kv.Unref()
	}
	return nil
}

// NewRegexpSearch builds the regexp_search generator-function node.
// pattern must be a Literal by the time Init runs; compilation is deferred to the node's Init, so a bad pattern surfaces
// as a configuration error rather than at construction time.
func NewRegexpSearch(loc string, engine fxhost.RegexEngine, subject, pattern fxexpr.Expr, keepZero, listMode bool) *fxexpr.GeneratorFuncExpr {
	impl := newRegexpSearch(engine, subject, pattern, keepZero, listMode)
	return fxexpr.NewGeneratorFuncExpr(loc, "regexp_search", impl)
}
