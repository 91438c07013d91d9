// Package fxexpr implements the FilterX expression tree: literals,
// operators, compound (sequence) expressions, assignment targets,
// literal dict/list generators, generator-functions, and the template
// expression. Trees are assembled directly as Go values by
// constructors (NewCompound, NewBinaryOp, ...) rather than produced by
// a parser, since the source-text parser is an external collaborator
// (spec.md section 4.9/section 6) — exactly the role a real FilterX
// host's configuration-time parser plays, just out of scope here.
package fxexpr

import (
	"fmt"
	"sync/atomic"

	"filterx/internal/fxeval"
	"filterx/internal/fxlog"
	"filterx/internal/fxobject"
)

// Config is passed to Init/Deinit; it carries whatever configuration-
// time context a node needs (the statistics registry, debug flags).
// It is intentionally thin — FilterX's own Go-level configuration
// lives in internal/fxconfig and is threaded through by the caller
// that builds the tree, not rediscovered here.
type Config struct {
	Debug bool
	// RegisterCounter, if non-nil, is called once per node during
	// Init to register its eval_count statistic, mirroring spec.md
	// section 4.3 ("register statistics counters").
	RegisterCounter func(name string, ptr *int64)
}

// Expr is a FilterXExpr: a node in the expression tree. Eval may be
// called only between a successful Init and the matching Deinit
// (spec.md section 3 invariant).
type Expr interface {
	Init(cfg *Config) error
	Deinit(cfg *Config)
	// Optimize may return a replacement node (constant folding,
	// literal trivialization) or nil to keep this node unchanged.
	Optimize() Expr
	Eval(ctx *fxeval.Context) (fxobject.Object, error)
	Free()

	// IgnoreFalsyResult reports whether a falsy result from this node
	// should still count as "successful" inside a Compound (spec.md
	// section 4.4 step 3) — set on statement expressions.
	IgnoreFalsyResult() bool
	SetIgnoreFalsyResult(bool)

	// SuppressFromTrace reports whether this node's Eval calls should
	// be omitted from the context's trace log even when tracing is
	// enabled.
	SuppressFromTrace() bool

	Location() string
	EvalCount() int64
}

// Base is embedded by every concrete Expr and supplies the refcount,
// location, eval-count statistic and the two flag bits every node
// carries, per spec.md section 3's FilterXExpr attributes.
//
// refs and evalCount are plain int32/int64 fields driven through the
// sync/atomic function API rather than atomic.Int32/atomic.Int64,
// since NewBase returns a Base by value that every concrete node type
// then copies into its own struct literal before the node is ever
// shared — the wrapper types' noCopy marker would make go vet flag
// that construction-time copy.
type Base struct {
	refs              int32
	location          string
	evalCount         int64
	ignoreFalsyResult bool
	suppressFromTrace bool
	statPtr           *int64
}

func NewBase(location string) Base {
	return Base{location: location, refs: 1}
}

func (b *Base) Location() string { return b.location }
func (b *Base) EvalCount() int64 { return atomic.LoadInt64(&b.evalCount) }

func (b *Base) IgnoreFalsyResult() bool     { return b.ignoreFalsyResult }
func (b *Base) SetIgnoreFalsyResult(v bool) { b.ignoreFalsyResult = v }
func (b *Base) SuppressFromTrace() bool     { return b.suppressFromTrace }
func (b *Base) SetSuppressFromTrace(v bool) { b.suppressFromTrace = v }

// Ref/Unref let a tree be shared by multiple root entry points, per
// spec.md section 3 ("trees may be shared by multiple root entry-
// points"). A node reaching zero refs is not automatically freed here
// (callers of Free are expected to have already deinitialized); Ref
// counting exists so a shared subtree knows when it is safe to Free.
func (b *Base) Ref() int32   { return atomic.AddInt32(&b.refs, 1) }
func (b *Base) Unref() int32 { return atomic.AddInt32(&b.refs, -1) }

// bumpEval increments the eval-count statistic and mirrors it to the
// registered counter pointer, if any (spec.md section 4.3's "register
// statistics counters").
func (b *Base) bumpEval() {
	n := atomic.AddInt64(&b.evalCount, 1)
	if b.statPtr != nil {
		atomic.StoreInt64(b.statPtr, n)
	}
}

// trace emits one FilterXEvalTraceEntry for this eval step when the
// context's Trace flag is set, per spec.md section 7 ("every eval
// step emits a trace entry when tracing is enabled"). A node that
// opted out via SetSuppressFromTrace is skipped, matching the
// suppress_from_trace attribute spec.md section 3 assigns every
// FilterXExpr.
func (b *Base) trace(ctx *fxeval.Context, kind string, result fxobject.Object, err error) {
	if ctx == nil || !ctx.Trace || b.suppressFromTrace {
		return
	}
	entry := fxlog.TraceEntry{
		Location:  b.location,
		Kind:      kind,
		EvalCount: atomic.LoadInt64(&b.evalCount),
		Err:       err,
	}
	if err == nil && result != nil {
		if r, ok := result.(fxobject.Reprer); ok {
			entry.Result = r.Repr()
		}
	}
	fxlog.EvalTrace(entry)
}

func (b *Base) registerStat(cfg *Config, name string) {
	if cfg == nil || cfg.RegisterCounter == nil {
		return
	}
	var v int64
	b.statPtr = &v
	cfg.RegisterCounter(name, b.statPtr)
}

// initChildren runs Init on each child in order; on failure it
// deinits every already-initialized child in reverse, per spec.md
// section 4.3.
func initChildren(cfg *Config, children []Expr) error {
	for i, c := range children {
		if err := c.Init(cfg); err != nil {
			for j := i - 1; j >= 0; j-- {
				children[j].Deinit(cfg)
			}
			return fmt.Errorf("init child %d: %w", i, err)
		}
	}
	return nil
}

func deinitChildren(cfg *Config, children []Expr) {
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Deinit(cfg)
	}
}

func freeChildren(children []Expr) {
	for _, c := range children {
		c.Free()
	}
}
