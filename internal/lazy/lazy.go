// Package lazy provides a memoised field that is loaded on first access.
package lazy

// Field holds a value that is either unloaded or loaded. The zero value
// is unloaded.
type Field[T any] struct {
	value  T
	loaded bool
}

// Loaded returns a field already holding v.
func Loaded[T any](v T) Field[T] {
	return Field[T]{value: v, loaded: true}
}

// Get returns the cached value, calling load to fill it first if the field
// is unloaded. A failed load leaves the field unloaded.
func (f *Field[T]) Get(load func() (T, error)) (T, error) {
	if f.loaded {
		return f.value, nil
	}
	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	f.value, f.loaded = v, true
	return v, nil
}

// Set replaces the cached value and marks the field loaded.
func (f *Field[T]) Set(v T) {
	f.value, f.loaded = v, true
}

// Clear drops the cached value.
func (f *Field[T]) Clear() {
	var zero T
	f.value, f.loaded = zero, false
}

// Value returns the cached value without loading.
func (f *Field[T]) Value() (T, bool) {
	return f.value, f.loaded
}

// IsLoaded reports whether the field holds a value.
func (f *Field[T]) IsLoaded() bool {
	return f.loaded
}
