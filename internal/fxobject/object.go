// Package fxobject implements the FilterX polymorphic value universe:
// primitives, containers, the lazily-resolved message value, and the
// copy-on-write reference wrapper that lets containers share structure
// safely across evaluation contexts.
package fxobject

import (
	"fmt"
	"sync/atomic"
)

// Type identifies the concrete kind of a FilterXObject. Dispatch on
// capability is by interface assertion, not by Type; Type exists for
// marshaling tags, error messages and the object layer's own tests.
type Type string

const (
	TypeNull    Type = "null"
	TypeBoolean Type = "boolean"
	TypeInteger Type = "integer"
	TypeDouble  Type = "double"
	TypeString  Type = "string"
	TypeBytes   Type = "bytes"
	TypeDict    Type = "dict"
	TypeList    Type = "list"
	TypeMessage Type = "message_value"
)

// LogMessageValueType is the typed-text tag used by marshal and by the
// host message store; it mirrors the type tags a real log message
// store would attach to a raw field (string, JSON, datetime, ...).
type LogMessageValueType string

const (
	LogTypeString   LogMessageValueType = "string"
	LogTypeJSON     LogMessageValueType = "json"
	LogTypeInteger  LogMessageValueType = "integer"
	LogTypeDouble   LogMessageValueType = "double"
	LogTypeBoolean  LogMessageValueType = "boolean"
	LogTypeDatetime LogMessageValueType = "datetime"
	LogTypeNull     LogMessageValueType = "null"
)

// Object is the universal FilterX value. Every concrete type embeds
// Base, which supplies the reference count and the frozen/dirty/weak
// flags; capabilities beyond the methods below are expressed as additional
// interfaces (Truthy, Reprer, Marshaler, Cloner, Lenner, Subscriptable,
// Appender, KeyUnsetter, Iterable) that a concrete type implements only
// if it supports them — there is no virtual table of nil function
// pointers to guard against.
type Object interface {
	Type() Type
	Ref() Object
	Unref()
	RefCount() int32
	Frozen() bool
	Freeze()
}

// Base provides the atomic refcount and inline state flags shared by
// every concrete object. A freshly constructed object starts at one
// strong reference, matching the "eval returns one strong reference"
// borrowing rule in the object layer's invariants.
//
// The counters are plain int32s accessed through the sync/atomic
// function API rather than the atomic.Int32/atomic.Bool wrapper types,
// since every concrete object type embeds a Base by value (returned
// from NewBase, copied into a struct literal) before it is ever
// shared across goroutines — embedding the wrapper types here would
// make that one-time, pre-sharing copy look to go vet like copying a
// live lock.
type Base struct {
	refs   int32
	frozen int32
	dirty  int32
}

func NewBase() Base {
	return Base{refs: 1}
}

func (b *Base) RefCount() int32 { return atomic.LoadInt32(&b.refs) }
func (b *Base) Frozen() bool    { return atomic.LoadInt32(&b.frozen) != 0 }
func (b *Base) Freeze()         { atomic.StoreInt32(&b.frozen, 1) }
func (b *Base) Dirty() bool     { return atomic.LoadInt32(&b.dirty) != 0 }
func (b *Base) markDirty()      { atomic.StoreInt32(&b.dirty, 1) }

// Truthy reports a value's boolean interpretation in control-flow
// positions (compound expression success, condition operands).
type Truthy interface {
	Truthy() bool
}

// Reprer renders a human-readable, round-trippable-for-primitives text
// form of the value. repr(o) followed by parsing back into the same
// primitive type must yield an equal value, per the testable property
// in spec section 8.
type Reprer interface {
	Repr() string
}

// Marshaler renders a typed text form tagged with the log message
// value type the host message store would use to store this value
// back into a record.
type Marshaler interface {
	Marshal() (string, LogMessageValueType)
}

// Cloner performs a deep copy for containers (and a trivial self-copy
// for primitives); clone(o) must preserve Truthy and Len.
type Cloner interface {
	Clone() Object
}

// Lenner reports a container or string/bytes length capability.
type Lenner interface {
	Len() int
}

// Subscriptable is implemented by Dict (string keys) and List (integer
// index keys). SetSubscript takes a pointer to the replacement value
// because copy-on-write may substitute a different object than the one
// the caller passed in; the caller must adopt whatever is left in *value
// on return.
type Subscriptable interface {
	GetSubscript(key Object) (Object, error)
	SetSubscript(key Object, value *Object) error
}

// KeyUnsetter removes a key from a dict, or an index from a list by
// shifting, without requiring the caller to know the container kind.
type KeyUnsetter interface {
	UnsetKey(key Object) error
}

// Appender is implemented by List.
type Appender interface {
	Append(value Object) error
}

// Iterable exposes ordered (key, value) pairs: for List, key is an
// Integer index; for Dict, key is the String key.
type Iterable interface {
	Iterate(func(key, value Object) bool)
}

// mustNotBeFrozen returns an error (it does not panic) if a mutating
// capability is invoked on a frozen object; the mutating methods on
// Dict and List call this first, matching the object layer invariant
// that frozen objects reject mutation.
func mustNotBeFrozen(o Object, op string) error {
	if o.Frozen() {
		return fmt.Errorf("filterx: %s: object is frozen", op)
	}
	return nil
}
