package fxfunc

import (
	"encoding/json"
	"fmt"
	"strings"

	"filterx/internal/fxeval"
	"filterx/internal/fxexpr"
	"filterx/internal/fxobject"
	"filterx/internal/fxvar"
)

// varsFunc implements vars(), grounded on original_source's
// func-vars.c (filterx_simple_function_vars /
// filterx_scope_foreach_variable): build a dict snapshot of every live
// variable in the current scope, keyed "$name" for message-tied
// variables and bare "name" for floating ones, each value cloned so
// the snapshot outlives the variable it was read from.
type varsFunc struct{}

func (varsFunc) Init(cfg *fxexpr.Config, args []fxexpr.Expr) error {
	if len(args) != 0 {
		return fmt.Errorf("wrong number of arguments: got %d, want 0", len(args))
	}
	return nil
}
func (varsFunc) Deinit(cfg *fxexpr.Config) {}

func (varsFunc) Call(ctx *fxeval.Context, args []fxexpr.Expr) (fxobject.Object, error) {
	result := fxobject.NewDict()
	if ctx.Vars == nil {
		return result, nil
	}
	ctx.Vars.Iterate(func(h fxvar.Handle, v *fxvar.Variable) {
		name := ""
		if ctx.Dir != nil {
			if n, ok := ctx.Dir.NameOf(h); ok {
				name = n
			}
		}
		if name == "" {
			return
		}
		if h.IsMessageTied() {
			name = "$" + name
		}
		cloned := cloneValue(v.Value())
		key := fxobject.Object(fxobject.NewString(name))
		_ = result.SetSubscript(key, &cloned)
	})
	return result, nil
}

func NewVars(loc string, args []fxexpr.Expr) *fxexpr.FunctionExpr {
	return fxexpr.NewFunctionExpr(loc, "vars", args, varsFunc{})
}

// loadVarsFunc implements load_vars(dict), grounded on func-vars.c's
// filterx_simple_function_load_vars / _load_from_dict: register every
// key/value pair of its one dict-typed argument as a variable in the
// current scope. Keys starting with "$" become message-tied variables
// (stripped of the sigil); every other key becomes a DECLARED_FLOATING
// variable, matching the original's register_declared_variable call
// for the is_floating branch.
type loadVarsFunc struct{}

func (loadVarsFunc) Init(cfg *fxexpr.Config, args []fxexpr.Expr) error {
	if len(args) != 1 {
		return fmt.Errorf("wrong number of arguments: got %d, want 1", len(args))
	}
	return nil
}
func (loadVarsFunc) Deinit(cfg *fxexpr.Config) {}

func (loadVarsFunc) Call(ctx *fxeval.Context, args []fxexpr.Expr) (fxobject.Object, error) {
	if ctx.Dir == nil {
		return nil, fmt.Errorf("load_vars: no variable directory bound to this context")
	}
	v, err := args[0].Eval(ctx)
	if err != nil {
		return nil, err
	}
	defer v.Unref()

	dict, err := asDict(v)
	if err != nil {
		return nil, err
	}

	var loadErr error
	dict.Iterate(func(key, value fxobject.Object) bool {
		name, ok := key.(*fxobject.String)
		if !ok {
			loadErr = fmt.Errorf("load_vars: variable name must be a string, got %s", key.Type())
			return false
		}
		if name.Value == "" {
			loadErr = fmt.Errorf("load_vars: variable name must not be empty")
			return false
		}

		cloned := cloneValue(value)
		if strings.HasPrefix(name.Value, "$") {
			fieldName := name.Value[1:]
			handle, err := messageTiedHandle(ctx, fieldName)
			if err != nil {
				loadErr = err
				return false
			}
			ctx.Vars.Get(handle).Assign(cloned)
		} else {
			handle := ctx.Dir.InternFloating(name.Value)
			ctx.Vars.Declare(handle).Assign(cloned)
		}
		return true
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return fxobject.NewBoolean(true), nil
}

func NewLoadVars(loc string, args []fxexpr.Expr) *fxexpr.FunctionExpr {
	return fxexpr.NewFunctionExpr(loc, "load_vars", args, loadVarsFunc{})
}

// messageTiedHandle resolves fieldName against the context's primary
// message store and interns it into the directory, mirroring how
// seedRecord/messageVarRef wire a message-tied name into both
// collaborators (cmd/filterx/main.go).
func messageTiedHandle(ctx *fxeval.Context, fieldName string) (fxvar.Handle, error) {
	msg := ctx.PrimaryMessage()
	if msg == nil {
		return 0, fmt.Errorf("load_vars: no message bound to assign %q", "$"+fieldName)
	}
	fieldID := msg.RegisterName(fieldName)
	return ctx.Dir.InternMessageTied(fieldName, fieldID), nil
}

func cloneValue(value fxobject.Object) fxobject.Object {
	if c, ok := value.(fxobject.Cloner); ok {
		return c.Clone()
	}
	return value
}

// asDict accepts a dict directly, or a JSON-typed MessageValue that it
// unmarshals into one first — the two argument shapes
// filterx_simple_function_load_vars accepts via filterx_object_unmarshal.
func asDict(v fxobject.Object) (fxobject.Iterable, error) {
	if d, ok := v.(*fxobject.Dict); ok {
		return d, nil
	}
	mv, ok := v.(*fxobject.MessageValue)
	if !ok || mv.LogType() != fxobject.LogTypeJSON {
		return nil, fmt.Errorf("load_vars: argument must be dict typed, got %s", v.Type())
	}
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(mv.AsString()), &raw); err != nil {
		return nil, fmt.Errorf("load_vars: argument must be dict typed, got unparsable json: %w", err)
	}
	d := fxobject.NewDict()
	for k, val := range raw {
		obj := jsonToObject(val)
		key := fxobject.Object(fxobject.NewString(k))
		_ = d.SetSubscript(key, &obj)
	}
	return d, nil
}

// jsonToObject converts a decoded encoding/json value (map, slice,
// string, float64, bool, nil) into the corresponding FilterX object,
// recursively for nested structures.
func jsonToObject(v interface{}) fxobject.Object {
	switch t := v.(type) {
	case nil:
		return fxobject.NewNull()
	case bool:
		return fxobject.NewBoolean(t)
	case float64:
		return fxobject.NewDouble(t)
	case string:
		return fxobject.NewString(t)
	case []interface{}:
		elems := make([]fxobject.Object, len(t))
		for i, e := range t {
			elems[i] = jsonToObject(e)
		}
		return fxobject.NewListFrom(elems)
	case map[string]interface{}:
		d := fxobject.NewDict()
		for k, val := range t {
			obj := jsonToObject(val)
			key := fxobject.Object(fxobject.NewString(k))
			_ = d.SetSubscript(key, &obj)
		}
		return d
	default:
		return fxobject.NewNull()
	}
}
