package fxobject

import (
	"strconv"
	"sync/atomic"

	"filterx/internal/fxlog"
)

// scratchGuard is satisfied by *fxeval.ScratchMark (duck-typed, to
// avoid fxobject depending on fxeval): Guard reports whether the
// mark's region is still open. A MessageValue built over memory that
// isn't scratch-borrowed (e.g. bytes read straight out of a message
// store, or test fixtures) carries a nil guard and is always valid.
type scratchGuard interface {
	Guard() bool
}

// MessageValue is a dynamically-resolved value that may lazily borrow
// its text payload from a scratch buffer owned by the evaluation
// context that produced it (see fxeval.ScratchAllocator). Per spec.md
// section 5's "scratch-borrowed objects become dangling after
// reclaim" requirement, a MessageValue constructed with a guard
// refuses to read m.raw once that guard reports invalid, rather than
// handing back whatever the scratch pool has since reused the buffer
// for. Storing one into a Dict or List triggers Clone() (see
// Dict.SetSubscript / List.Append), which copies the borrowed bytes
// into an owned primitive (String, Integer, Double, Boolean or Null,
// by the value's type tag) before the scratch region goes away.
type MessageValue struct {
	Base
	raw      []byte
	logType  LogMessageValueType
	borrowed bool
	guard    scratchGuard
}

// NewMessageValue wraps raw bytes tagged with the message store's type.
// borrowed indicates raw aliases memory the caller doesn't own outright
// (e.g. a message store's internal buffer); it carries no scratch guard,
// since that memory's lifetime isn't tied to a scratch mark. Use
// NewScratchMessageValue for values that borrow directly from a scratch
// region and must be guarded.
func NewMessageValue(raw []byte, logType LogMessageValueType, borrowed bool) *MessageValue {
	return &MessageValue{Base: NewBase(), raw: raw, logType: logType, borrowed: borrowed}
}

// NewScratchMessageValue wraps raw bytes that alias guard's scratch
// region. Every read accessor checks guard.Guard() first and falls
// back to a safe zero value once the region has been reclaimed.
func NewScratchMessageValue(raw []byte, logType LogMessageValueType, guard scratchGuard) *MessageValue {
	return &MessageValue{Base: NewBase(), raw: raw, logType: logType, borrowed: true, guard: guard}
}

func (m *MessageValue) Type() Type  { return TypeMessage }
func (m *MessageValue) Ref() Object { atomic.AddInt32(&m.refs, 1); return m }
func (m *MessageValue) Unref()      { atomic.AddInt32(&m.refs, -1) }

// valid reports whether m.raw is still safe to read. A nil guard means
// the bytes are not scratch-borrowed and are always valid.
func (m *MessageValue) valid() bool {
	return m.guard == nil || m.guard.Guard()
}

func (m *MessageValue) Truthy() bool {
	if !m.valid() {
		fxlog.Error("filterx: read of scratch-borrowed message value after its region was reclaimed")
		return false
	}
	switch m.logType {
	case LogTypeNull:
		return false
	case LogTypeBoolean:
		return string(m.raw) == "true"
	default:
		return len(m.raw) > 0
	}
}

func (m *MessageValue) Repr() string {
	if !m.valid() {
		fxlog.Error("filterx: read of scratch-borrowed message value after its region was reclaimed")
		return ""
	}
	return string(m.raw)
}

func (m *MessageValue) Len() int {
	if !m.valid() {
		fxlog.Error("filterx: read of scratch-borrowed message value after its region was reclaimed")
		return 0
	}
	return len(m.raw)
}

func (m *MessageValue) Marshal() (string, LogMessageValueType) {
	if !m.valid() {
		fxlog.Error("filterx: read of scratch-borrowed message value after its region was reclaimed")
		return "", LogTypeNull
	}
	return string(m.raw), m.logType
}

// Clone copies the borrowed bytes into an owned object whose dynamic
// type matches the message store's type tag, breaking the scratch
// lifetime dependency. Containers call this automatically on store.
func (m *MessageValue) Clone() Object {
	if !m.valid() {
		fxlog.Error("filterx: clone of scratch-borrowed message value after its region was reclaimed")
		return NewNull()
	}
	switch m.logType {
	case LogTypeInteger:
		if n, err := strconv.ParseInt(string(m.raw), 10, 64); err == nil {
			return NewInteger(n)
		}
	case LogTypeDouble:
		if f, err := strconv.ParseFloat(string(m.raw), 64); err == nil {
			return NewDouble(f)
		}
	case LogTypeBoolean:
		return NewBoolean(string(m.raw) == "true")
	case LogTypeNull:
		return NewNull()
	}
	cp := make([]byte, len(m.raw))
	copy(cp, m.raw)
	return NewString(string(cp))
}

// AsString returns the message value's raw text (load_vars reads dict
// keys through it); the string-affix functions and regexp_search read
// their haystack/subject through Repr instead.
func (m *MessageValue) AsString() string {
	if !m.valid() {
		fxlog.Error("filterx: read of scratch-borrowed message value after its region was reclaimed")
		return ""
	}
	return string(m.raw)
}

// LogType reports the message store's type tag for this borrowed value.
func (m *MessageValue) LogType() LogMessageValueType { return m.logType }

// Borrowed reports whether the underlying bytes alias memory the
// MessageValue doesn't own outright.
func (m *MessageValue) Borrowed() bool { return m.borrowed }
