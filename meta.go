package typeshape

// Meta carries externally supplied offset tables for the variable
// dimensions of a type, outermost dimension first.  The arrays are
// borrowed from the caller while a call is in flight; a var-dim node
// that accepts one takes ownership of it for the node's lifetime, so
// the caller must not mutate an array after a successful call.
type Meta struct {
	OffsetArrays [][]int32
}

// NumDims returns the number of ragged dimensions described by m.  A
// nil Meta describes none.
func (m *Meta) NumDims() int {
	if m == nil {
		return 0
	}
	return len(m.OffsetArrays)
}
