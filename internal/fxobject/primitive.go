package fxobject

import (
	"strconv"
	"sync/atomic"
)

// Null is FilterX's unit/absent value. The variable layer's liveness
// rule checks for a missing value, not for Null: a variable holding a
// Null object is live.
type Null struct{ Base }

func NewNull() *Null                  { return &Null{Base: NewBase()} }
func (n *Null) Type() Type             { return TypeNull }
func (n *Null) Ref() Object            { atomic.AddInt32(&n.refs, 1); return n }
func (n *Null) Unref()                 { atomic.AddInt32(&n.refs, -1) }
func (n *Null) Truthy() bool           { return false }
func (n *Null) Repr() string           { return "null" }
func (n *Null) Clone() Object          { return n }
func (n *Null) Marshal() (string, LogMessageValueType) { return "", LogTypeNull }

type Boolean struct {
	Base
	Value bool
}

func NewBoolean(v bool) *Boolean { return &Boolean{Base: NewBase(), Value: v} }
func (b *Boolean) Type() Type    { return TypeBoolean }
func (b *Boolean) Ref() Object   { atomic.AddInt32(&b.refs, 1); return b }
func (b *Boolean) Unref()        { atomic.AddInt32(&b.refs, -1) }
func (b *Boolean) Truthy() bool  { return b.Value }
func (b *Boolean) Repr() string  { return strconv.FormatBool(b.Value) }
func (b *Boolean) Clone() Object { return NewBoolean(b.Value) }
func (b *Boolean) Marshal() (string, LogMessageValueType) {
	return b.Repr(), LogTypeBoolean
}

type Integer struct {
	Base
	Value int64
}

func NewInteger(v int64) *Integer { return &Integer{Base: NewBase(), Value: v} }
func (i *Integer) Type() Type     { return TypeInteger }
func (i *Integer) Ref() Object    { atomic.AddInt32(&i.refs, 1); return i }
func (i *Integer) Unref()        { atomic.AddInt32(&i.refs, -1) }
func (i *Integer) Truthy() bool  { return i.Value != 0 }
func (i *Integer) Repr() string  { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) Clone() Object { return NewInteger(i.Value) }
func (i *Integer) Marshal() (string, LogMessageValueType) {
	return i.Repr(), LogTypeInteger
}

type Double struct {
	Base
	Value float64
}

func NewDouble(v float64) *Double { return &Double{Base: NewBase(), Value: v} }
func (d *Double) Type() Type      { return TypeDouble }
func (d *Double) Ref() Object     { atomic.AddInt32(&d.refs, 1); return d }
func (d *Double) Unref()         { atomic.AddInt32(&d.refs, -1) }
func (d *Double) Truthy() bool   { return d.Value != 0 }
func (d *Double) Repr() string   { return strconv.FormatFloat(d.Value, 'g', -1, 64) }
func (d *Double) Clone() Object  { return NewDouble(d.Value) }
func (d *Double) Marshal() (string, LogMessageValueType) {
	return d.Repr(), LogTypeDouble
}

// String is FilterX's owned, heap-resident string value. Compare with
// MessageValue, which borrows text from a scratch buffer instead of
// owning it.
type String struct {
	Base
	Value string
}

func NewString(v string) *String { return &String{Base: NewBase(), Value: v} }
func (s *String) Type() Type     { return TypeString }
func (s *String) Ref() Object    { atomic.AddInt32(&s.refs, 1); return s }
func (s *String) Unref()        { atomic.AddInt32(&s.refs, -1) }
func (s *String) Truthy() bool  { return s.Value != "" }
func (s *String) Repr() string  { return s.Value }
func (s *String) Len() int      { return len([]rune(s.Value)) }
func (s *String) Clone() Object { return NewString(s.Value) }
func (s *String) Marshal() (string, LogMessageValueType) {
	return s.Value, LogTypeString
}

type Bytes struct {
	Base
	Value []byte
}

func NewBytes(v []byte) *Bytes { return &Bytes{Base: NewBase(), Value: v} }
func (b *Bytes) Type() Type    { return TypeBytes }
func (b *Bytes) Ref() Object   { atomic.AddInt32(&b.refs, 1); return b }
func (b *Bytes) Unref()       { atomic.AddInt32(&b.refs, -1) }
func (b *Bytes) Truthy() bool { return len(b.Value) != 0 }
func (b *Bytes) Repr() string { return string(b.Value) }
func (b *Bytes) Len() int     { return len(b.Value) }
func (b *Bytes) Clone() Object {
	cp := make([]byte, len(b.Value))
	copy(cp, b.Value)
	return NewBytes(cp)
}
func (b *Bytes) Marshal() (string, LogMessageValueType) {
	return string(b.Value), LogTypeString
}
