package fxobject

import (
	"fmt"
	"sync/atomic"
	"sort"
	"strings"
)

// Dict is FilterX's string-keyed container. Pairs preserve insertion
// order for Repr/Iterate, matching the literal generator's invariant
// that a dict generator's entries appear keyed by their evaluated keys
// without an implied ordering guarantee beyond "as inserted".
type Dict struct {
	Base
	order []string
	pairs map[string]Object
}

func NewDict() *Dict {
	return &Dict{Base: NewBase(), pairs: make(map[string]Object)}
}

func (d *Dict) Type() Type   { return TypeDict }
func (d *Dict) Ref() Object  { atomic.AddInt32(&d.refs, 1); return d }
func (d *Dict) Unref()       { atomic.AddInt32(&d.refs, -1) }
func (d *Dict) Truthy() bool { return len(d.pairs) > 0 }
func (d *Dict) Len() int     { return len(d.pairs) }

func (d *Dict) Repr() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range d.order {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('"')
		sb.WriteString(k)
		sb.WriteString("\": ")
		if r, ok := d.pairs[k].(Reprer); ok {
			sb.WriteString(r.Repr())
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

func (d *Dict) Clone() Object {
	out := NewDict()
	for _, k := range d.order {
		v := d.pairs[k]
		if c, ok := v.(Cloner); ok {
			v = c.Clone()
		}
		out.putOrdered(k, v)
	}
	return out
}

func (d *Dict) putOrdered(key string, value Object) {
	if _, exists := d.pairs[key]; !exists {
		d.order = append(d.order, key)
	}
	d.pairs[key] = value
}

func keyString(key Object) (string, error) {
	s, ok := key.(*String)
	if !ok {
		return "", fmt.Errorf("filterx: dict key must be a string, got %s", key.Type())
	}
	return s.Value, nil
}

func (d *Dict) GetSubscript(key Object) (Object, error) {
	k, err := keyString(key)
	if err != nil {
		return nil, err
	}
	v, ok := d.pairs[k]
	if !ok {
		return nil, fmt.Errorf("filterx: key %q not found", k)
	}
	return v.Ref(), nil
}

// SetSubscript stores *value under key. Scratch-backed values
// (MessageValue without an owned clone) are cloned before storage so
// the dict never outlives the scratch mark that produced them.
func (d *Dict) SetSubscript(key Object, value *Object) error {
	if err := mustNotBeFrozen(d, "set_subscript"); err != nil {
		return err
	}
	k, err := keyString(key)
	if err != nil {
		return err
	}
	v := *value
	if mv, ok := v.(*MessageValue); ok {
		cloned := mv.Clone()
		v.Unref()
		v = cloned
		*value = v
	}
	d.markDirty()
	d.putOrdered(k, v)
	return nil
}

func (d *Dict) UnsetKey(key Object) error {
	if err := mustNotBeFrozen(d, "unset_key"); err != nil {
		return err
	}
	k, err := keyString(key)
	if err != nil {
		return err
	}
	if old, ok := d.pairs[k]; ok {
		old.Unref()
		delete(d.pairs, k)
		for i, o := range d.order {
			if o == k {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}
	d.markDirty()
	return nil
}

func (d *Dict) Iterate(fn func(key, value Object) bool) {
	for _, k := range d.order {
		if !fn(NewString(k), d.pairs[k]) {
			return
		}
	}
}

// Keys returns the dict's keys in insertion order.
func (d *Dict) Keys() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// SortedKeys is a convenience for deterministic debug output.
func (d *Dict) SortedKeys() []string {
	out := d.Keys()
	sort.Strings(out)
	return out
}

// List is FilterX's index-addressed container.
type List struct {
	Base
	elems []Object
}

func NewList() *List                     { return &List{Base: NewBase()} }
func NewListFrom(elems []Object) *List    { return &List{Base: NewBase(), elems: elems} }
func (l *List) Type() Type                { return TypeList }
func (l *List) Ref() Object               { atomic.AddInt32(&l.refs, 1); return l }
func (l *List) Unref()                    { atomic.AddInt32(&l.refs, -1) }
func (l *List) Truthy() bool              { return len(l.elems) > 0 }
func (l *List) Len() int                  { return len(l.elems) }
func (l *List) Elements() []Object        { return l.elems }

func (l *List) Repr() string {
	parts := make([]string, len(l.elems))
	for i, e := range l.elems {
		if r, ok := e.(Reprer); ok {
			parts[i] = r.Repr()
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *List) Clone() Object {
	out := make([]Object, len(l.elems))
	for i, e := range l.elems {
		if c, ok := e.(Cloner); ok {
			out[i] = c.Clone()
		} else {
			out[i] = e
		}
	}
	return NewListFrom(out)
}

func indexOf(key Object, length int) (int, error) {
	idx, ok := key.(*Integer)
	if !ok {
		return 0, fmt.Errorf("filterx: list index must be an integer, got %s", key.Type())
	}
	i := int(idx.Value)
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, fmt.Errorf("filterx: list index %d out of range", idx.Value)
	}
	return i, nil
}

func (l *List) GetSubscript(key Object) (Object, error) {
	i, err := indexOf(key, len(l.elems))
	if err != nil {
		return nil, err
	}
	return l.elems[i].Ref(), nil
}

func (l *List) SetSubscript(key Object, value *Object) error {
	if err := mustNotBeFrozen(l, "set_subscript"); err != nil {
		return err
	}
	i, err := indexOf(key, len(l.elems))
	if err != nil {
		return err
	}
	v := *value
	if mv, ok := v.(*MessageValue); ok {
		cloned := mv.Clone()
		v.Unref()
		v = cloned
		*value = v
	}
	l.markDirty()
	l.elems[i].Unref()
	l.elems[i] = v
	return nil
}

func (l *List) UnsetKey(key Object) error {
	if err := mustNotBeFrozen(l, "unset_key"); err != nil {
		return err
	}
	i, err := indexOf(key, len(l.elems))
	if err != nil {
		return err
	}
	l.elems[i].Unref()
	l.elems = append(l.elems[:i], l.elems[i+1:]...)
	l.markDirty()
	return nil
}

func (l *List) Append(value Object) error {
	if err := mustNotBeFrozen(l, "append"); err != nil {
		return err
	}
	if mv, ok := value.(*MessageValue); ok {
		cloned := mv.Clone()
		value.Unref()
		value = cloned
	}
	l.markDirty()
	l.elems = append(l.elems, value)
	return nil
}

func (l *List) Iterate(fn func(key, value Object) bool) {
	for i, e := range l.elems {
		if !fn(NewInteger(int64(i)), e) {
			return
		}
	}
}
