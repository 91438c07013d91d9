package fxfunc

import (
	"fmt"

	"filterx/internal/fxexpr"
	"filterx/internal/fxhost"
)

// Registry is FilterX's host-provided callable-node table: a
// configuration-time lookup from function name to the FunctionExpr
// constructor that builds a tree node for it, mirroring the teacher's
// own name-to-implementation tables (internal/evaluator/foreign.go's
// builtins/getForeignFunctions maps) but keyed by string args
// constructors instead of *object.Foreign values, since FilterX builds
// trees directly rather than interpreting call expressions.
type Registry struct {
	functions map[string]func(loc string, args []fxexpr.Expr) *fxexpr.FunctionExpr
}

// NewRegistry builds the registry with startswith/endswith/includes
// and the supplemental functions from SPEC_FULL.md section 4.10
// already registered. regexp_search and template are not included
// here — they take extra host collaborators (a RegexEngine, a
// TemplateEngine) the generic FunctionExpr constructor signature
// doesn't carry, so callers build those nodes directly via
// NewRegexpSearch / fxexpr.NewTemplate.
func NewRegistry() *Registry {
	r := &Registry{functions: make(map[string]func(string, []fxexpr.Expr) *fxexpr.FunctionExpr)}
	r.Register("startswith", NewStartsWith)
	r.Register("endswith", NewEndsWith)
	r.Register("includes", NewIncludes)
	r.Register("len", NewLen)
	r.Register("lower", NewLower)
	r.Register("upper", NewUpper)
	r.Register("is_null", NewIsNull)
	r.Register("has_key", NewHasKey)
	r.Register("vars", NewVars)
	r.Register("load_vars", NewLoadVars)
	return r
}

// Register adds or replaces a function under name; a host embedding
// FilterX calls this at configuration time to extend the library
// beyond the built-in set, exactly as spec.md section 6 describes
// functions as "registered at configuration time".
func (r *Registry) Register(name string, ctor func(loc string, args []fxexpr.Expr) *fxexpr.FunctionExpr) {
	r.functions[name] = ctor
}

// Build looks up name and constructs the corresponding FunctionExpr
// node. It returns an error rather than panicking because an unknown
// function name is a configuration-time error, not a programmer bug —
// a host's parser will call this for every call expression it sees.
func (r *Registry) Build(loc, name string, args []fxexpr.Expr) (*fxexpr.FunctionExpr, error) {
	ctor, ok := r.functions[name]
	if !ok {
		return nil, fmt.Errorf("filterx: unknown function %q", name)
	}
	return ctor(loc, args), nil
}

// Names reports every registered function name, for introspection and
// for the CLI driver's --list-functions mode.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.functions))
	for name := range r.functions {
		out = append(out, name)
	}
	return out
}

// BuildTemplate and BuildRegexpSearch complete the function library
// with the two host-collaborator-dependent nodes the Registry's
// uniform constructor signature can't carry.
func BuildTemplate(loc, source string, engine fxhost.TemplateEngine) *fxexpr.Template {
	return fxexpr.NewTemplate(loc, source, engine)
}

func BuildRegexpSearch(loc string, engine fxhost.RegexEngine, subject, pattern fxexpr.Expr, keepZero, listMode bool) *fxexpr.GeneratorFuncExpr {
	return NewRegexpSearch(loc, engine, subject, pattern, keepZero, listMode)
}
