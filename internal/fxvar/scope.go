package fxvar

// Scope is the evaluation context's scoped variable table: an O(1)
// handle-indexed slot map, plus the block-exit bookkeeping that
// implements the variable layer's second invariant — DECLARED_FLOATING
// variables persist across iterations within the declaring block, and
// non-declared floatings are cleared each record.
//
// The table is split by kind rather than keyed uniformly because a
// message-tied handle's low bits are a message store field id, not a
// small dense index; floating handles, by contrast, are dense local
// indices assigned by the Directory and index directly into a slice.
type Scope struct {
	messageTied map[Handle]*Variable
	floating    []*Variable // indexed by Handle.FieldID() after clearing the MSB
	declared    map[Handle]bool
}

func NewScope(floatingCount int) *Scope {
	return &Scope{
		messageTied: make(map[Handle]*Variable),
		floating:    make([]*Variable, floatingCount),
		declared:    make(map[Handle]bool),
	}
}

func (s *Scope) slotFor(h Handle, kind Kind) *Variable {
	if h.IsMessageTied() {
		v, ok := s.messageTied[h]
		if !ok {
			v = &Variable{Handle: h, Kind: MessageTied}
			s.messageTied[h] = v
		}
		return v
	}
	idx := int(h.FieldID())
	if idx >= len(s.floating) {
		grown := make([]*Variable, idx+1)
		copy(grown, s.floating)
		s.floating = grown
	}
	if s.floating[idx] == nil {
		s.floating[idx] = &Variable{Handle: h, Kind: kind}
	}
	return s.floating[idx]
}

// Declare marks a floating handle as DECLARED_FLOATING: its slot
// survives ClearNonDeclared calls at the end of a record.
func (s *Scope) Declare(h Handle) *Variable {
	v := s.slotFor(h, DeclaredFloating)
	v.Kind = DeclaredFloating
	s.declared[h] = true
	return v
}

// Get returns the live slot for h, creating an empty one on first
// lookup (an empty slot is unset, not an error — reading an
// unreferenced variable evaluates to null at the expression layer).
func (s *Scope) Get(h Handle) *Variable {
	kind := Floating
	if s.declared[h] {
		kind = DeclaredFloating
	}
	return s.slotFor(h, kind)
}

// ClearNonDeclared drops every variable that is not DECLARED_FLOATING
// and not message-tied, readying the scope for reuse on the next
// record. Message-tied variables are left alone here;
// ClearMessageTied drops them.
func (s *Scope) ClearNonDeclared() {
	for i, v := range s.floating {
		if v == nil {
			continue
		}
		if v.Kind == DeclaredFloating {
			continue
		}
		v.Unset()
		s.floating[i] = nil
	}
}

// ClearMessageTied drops all message-tied variables, since their
// lifetime is the record currently bound to the context, not the
// block that declared them.
func (s *Scope) ClearMessageTied() {
	for h, v := range s.messageTied {
		v.Unset()
		delete(s.messageTied, h)
	}
}

// Iterate calls fn once for every live variable currently held in the
// scope (message-tied and floating alike), mirroring func-vars.c's
// filterx_scope_foreach_variable — the enumeration vars() builds its
// result dict from. An empty or unset slot is skipped; Live() is the
// same "value != null" test VarRef.Eval itself uses.
func (s *Scope) Iterate(fn func(Handle, *Variable)) {
	for _, v := range s.messageTied {
		if v.Live() {
			fn(v.Handle, v)
		}
	}
	for _, v := range s.floating {
		if v != nil && v.Live() {
			fn(v.Handle, v)
		}
	}
}

// Reset fully clears the scope, including declared and message-tied
// variables, for reuse across unrelated records (e.g. a pooled
// evaluation context returning to a free list).
func (s *Scope) Reset() {
	for h, v := range s.messageTied {
		v.Unset()
		delete(s.messageTied, h)
	}
	for i, v := range s.floating {
		if v != nil {
			v.Unset()
			s.floating[i] = nil
		}
	}
	s.declared = make(map[Handle]bool)
}
