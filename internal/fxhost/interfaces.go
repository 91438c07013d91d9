// Package fxhost defines the narrow interfaces FilterX uses to reach
// its external collaborators (spec.md section 6): the log message
// store, the template engine, the regex engine, the transport, and the
// statistics registry. Concrete, pack-grounded reference
// implementations live in the sibling store/, template/, regex/,
// transport/ and stats/ packages; FilterX's own core
// (internal/fxexpr, internal/fxfunc) depends only on the interfaces
// defined here.
package fxhost

import "bytes"

// MessageStore is the log message store: a key/value/typed-value pair
// store reachable by opaque name handles (spec.md section 6).
type MessageStore interface {
	// RegisterName interns name, returning the handle FilterX variable
	// references use to address it. The top bit is reserved by
	// FilterX to mark floating variables; implementations must not
	// hand out a handle with that bit set.
	RegisterName(name string) uint32
	GetValue(handle uint32) (raw []byte, logType string, ok bool)
	SetValue(handle uint32, raw []byte, logType string)
}

// TemplateEngine formats a template against one or more messages under
// rendering options, producing a typed value (string, integer, double,
// datetime, ...) written into out. The type tag mirrors
// fxobject.LogMessageValueType.
type TemplateEngine interface {
	FormatValueAndType(template string, msgs []MessageStore, options map[string]string, out *bytes.Buffer) (typeTag string, err error)
}

// RegexMatch is the subset of a PCRE2 ovector this package needs:
// ordered capture groups (group 0 is the whole match) and a
// name-to-group-index table for named captures.
type RegexMatch struct {
	Groups     []string // Groups[i] is empty and Present[i] false if group i did not participate
	Present    []bool
	NameToGroup map[string]int
}

// RegexCode is a compiled pattern handle.
type RegexCode interface {
	// NameTable returns the name-to-group-index table PCRE2's
	// NAMETABLE/NAMEENTRYSIZE/NAMECOUNT introspection would produce.
	NameTable() map[string]int
}

// RegexEngine is the PCRE2-compatible 8-bit regex binding interface
// (spec.md section 6).
type RegexEngine interface {
	Compile(pattern string) (RegexCode, error)
	Match(code RegexCode, subject string) (RegexMatch, error)
}

// Transport is the TLS-wrapped socket transport feeding FilterX a
// record stream (spec.md section 4.9). FilterX itself never calls
// this directly — it is consumed by the host daemon — but it is
// specified here because the retrieval pack's domain stack includes a
// concrete reference implementation (fxhost/transport); the CLI driver
// does not use it.
type Transport interface {
	Read(buf []byte) (n int, err error)
	Write(buf []byte) (n int, err error)
	// PollMask reports which of PollIn/PollOut the caller should wait
	// for before retrying a short read/write.
	PollMask() PollEvent
	Shutdown() error
}

type PollEvent int

const (
	PollNone PollEvent = 0
	PollIn   PollEvent = 1 << 0
	PollOut  PollEvent = 1 << 1
)

// StatsRegistry is the process-wide counter registry (spec.md section
// 6).
type StatsRegistry interface {
	RegisterCounter(key string, labels map[string]string, ptr *int64)
	UnregisterCounter(key string, labels map[string]string)
}
