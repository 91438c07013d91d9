package fxexpr

import (
	"fmt"

	"filterx/internal/fxeval"
	"filterx/internal/fxobject"
	"filterx/internal/fxvar"
)

// VarRef evaluates to the current value of a FilterXVariable, or null
// if the variable is unset (live iff value != null, per spec.md
// section 3). Declared floating variables are registered with the
// context's scope on the first Eval or Assign (Init does not touch the
// scope) so they survive ClearNonDeclared across records within the
// block that declared them.
type VarRef struct {
	Base
	handle     fxvar.Handle
	declared   bool
	name       string // for message-tied handles, used to register against the message store
}

func NewVarRef(loc, name string, handle fxvar.Handle, declared bool) *VarRef {
	return &VarRef{Base: NewBase(loc), handle: handle, declared: declared, name: name}
}

func (v *VarRef) Init(cfg *Config) error {
	v.registerStat(cfg, "var:"+v.name)
	return nil
}
func (v *VarRef) Deinit(cfg *Config) {}
func (v *VarRef) Optimize() Expr     { return nil }
func (v *VarRef) Free()              {}

func (v *VarRef) slot(ctx *fxeval.Context) *fxvar.Variable {
	if v.declared {
		return ctx.Vars.Declare(v.handle)
	}
	return ctx.Vars.Get(v.handle)
}

func (v *VarRef) Eval(ctx *fxeval.Context) (fxobject.Object, error) {
	v.bumpEval()
	slot := v.slot(ctx)
	if slot.Live() {
		result := slot.Value().Ref()
		v.trace(ctx, "var:"+v.name, result, nil)
		return result, nil
	}
	if v.handle.IsMessageTied() {
		if msg := ctx.PrimaryMessage(); msg != nil {
			if raw, logType, ok := msg.GetValue(uint32(v.handle)); ok {
				mv := fxobject.NewMessageValue(raw, fxobject.LogMessageValueType(logType), true)
				slot.Assign(mv.Ref())
				v.trace(ctx, "var:"+v.name, mv, nil)
				return mv, nil
			}
		}
	}
	result := fxobject.NewNull()
	v.trace(ctx, "var:"+v.name, result, nil)
	return result, nil
}

// Assign stores value into the referenced variable slot, and — for a
// message-tied handle — writes it back through to the message store,
// matching the ordering guarantee in spec.md section 5 ("assignments
// to a variable are observed by subsequent reads in the same
// context").
func (v *VarRef) Assign(ctx *fxeval.Context, value fxobject.Object) error {
	slot := v.slot(ctx)
	slot.Assign(value.Ref())
	if v.handle.IsMessageTied() {
		msg := ctx.PrimaryMessage()
		if msg == nil {
			return fmt.Errorf("filterx: %s: no message bound to assign %q", v.Location(), v.name)
		}
		if m, ok := value.(fxobject.Marshaler); ok {
			raw, tag := m.Marshal()
			msg.SetValue(uint32(v.handle), []byte(raw), string(tag))
		}
	}
	return nil
}

// Name reports the interned name this reference resolves, used by
// error messages and traces.
func (v *VarRef) Name() string { return v.name }
