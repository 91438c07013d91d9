package fxvar

import "filterx/internal/fxobject"

// Kind is the 2-bit variable_type field from spec.md section 3.
type Kind uint8

const (
	MessageTied Kind = iota
	Floating
	DeclaredFloating
)

// Variable is a FilterXVariable: a handle, its kind, whether it has
// ever been assigned, a generation counter that discriminates stale
// holders when a slot pool is reused, and the owned value (nil means
// unset).
type Variable struct {
	Handle     Handle
	Kind       Kind
	Assigned   bool
	Generation uint16
	value      fxobject.Object
}

// Live reports whether the variable currently holds a value, per the
// invariant "a variable is considered live iff value != null".
func (v *Variable) Live() bool { return v.value != nil }

func (v *Variable) Value() fxobject.Object { return v.value }

// Assign stores value, dropping any previously owned value's
// reference. Passing nil models an explicit null assignment, which is
// distinct from Unset (Unset additionally bumps the generation).
func (v *Variable) Assign(value fxobject.Object) {
	if v.value != nil {
		v.value.Unref()
	}
	v.value = value
	v.Assigned = true
}

// Unset drops the value and bumps the generation so stale holders of
// this slot (from a reused pool entry) can detect staleness.
func (v *Variable) Unset() {
	if v.value != nil {
		v.value.Unref()
		v.value = nil
	}
	v.Generation++
}
