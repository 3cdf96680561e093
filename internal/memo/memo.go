// Package memo holds the compute-once accessor used for every derived field
// of a request context.
//
// A Value is owned by one request goroutine, so it carries no lock.  Errors
// are returned to the caller but not stored; the next Get recomputes.
package memo

// Value stores the first successful result of a computation.
type Value[T any] struct {
	v    T
	done bool
}

// Get returns the stored value, computing it with fn on first use.
func (m *Value[T]) Get(fn func() (T, error)) (T, error) {
	if m.done {
		return m.v, nil
	}
	v, err := fn()
	if err != nil {
		var zero T
		return zero, err
	}
	m.v, m.done = v, true
	return v, nil
}

// Set stores v, short-circuiting any later computation.
func (m *Value[T]) Set(v T) {
	m.v, m.done = v, true
}

// Peek returns the stored value and whether one exists.
func (m *Value[T]) Peek() (T, bool) { return m.v, m.done }
