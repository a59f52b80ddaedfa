// Package ptr provides pointer helper functions for working with the
// optional entity fields modeled as pointers.
package ptr

// To returns a pointer to the given value.
func To[T any](v T) *T {
	return &v
}

// Deref dereferences p and returns the value it points to if non-nil,
// or else returns def.
func Deref[T any](p *T, def T) T {
	if p != nil {
		return *p
	}
	return def
}
