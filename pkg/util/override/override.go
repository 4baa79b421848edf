// Package override holds the "use the override when present, otherwise the
// base value" combinator shared by working hours and task configuration.
package override

// Resolve returns *override when it is non-nil and base otherwise.
func Resolve[T any](base T, override *T) T {
	if override != nil {
		return *override
	}
	return base
}

// Find returns a pointer to the first element of items matching pred, or nil.
func Find[T any](items []T, pred func(T) bool) *T {
	for i := range items {
		if pred(items[i]) {
			return &items[i]
		}
	}
	return nil
}

// Map applies fn to a non-nil pointer and returns the result, nil otherwise.
func Map[T, U any](v *T, fn func(T) U) *U {
	if v == nil {
		return nil
	}
	u := fn(*v)
	return &u
}
