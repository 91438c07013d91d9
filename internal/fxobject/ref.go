package fxobject

// Ref is the mutable shared handle wrapping an Object (FilterXRef in
// spec terms). Read operations unwrap transparently; write operations
// unshare the underlying object first if it has more than one strong
// holder, giving containers copy-on-write sharing without requiring
// every caller to reason about aliasing.
//
// Ref itself is not an Object — callers hold a *Ref the way the source
// project holds a FILTERX_REF wrapper: as a box around a value slot
// that may be swapped out from under a reader between evaluations of
// the same compound expression (e.g. reassignment of a declared
// floating variable).
type Ref struct {
	value Object
}

func NewRef(value Object) *Ref {
	return &Ref{value: value}
}

// Get returns the wrapped value without copying; callers that only
// read must not mutate the result in place.
func (r *Ref) Get() Object {
	return r.value
}

// Unshare returns a value the caller may mutate freely: if the wrapped
// object has exactly one strong reference (this Ref's own), it is
// returned as-is; otherwise a clone is taken, the old value is
// unref'd, and the clone becomes the new wrapped value.
func (r *Ref) Unshare() Object {
	if r.value.RefCount() <= 1 {
		return r.value
	}
	c, ok := r.value.(Cloner)
	if !ok {
		return r.value
	}
	cloned := c.Clone()
	r.value.Unref()
	r.value = cloned
	return cloned
}

// Set replaces the wrapped value, dropping the Ref's own strong
// reference to the previous value.
func (r *Ref) Set(value Object) {
	if r.value != nil {
		r.value.Unref()
	}
	r.value = value
}
