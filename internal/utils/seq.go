package utils

// Optional results in this module use the comma-ok form (T, bool). The
// helpers below compose them over slices. Returned slices are never nil.

// Choose applies f to every element and keeps the results that are present
func Choose[T, U any](in []T, f func(T) (U, bool)) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		if u, ok := f(v); ok {
			out = append(out, u)
		}
	}
	return out
}

// Filter keeps the elements for which keep returns true
func Filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Map applies f to every element
func Map[T, U any](in []T, f func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

// Bind feeds a present value into f and passes absence through
func Bind[T, U any](v T, ok bool, f func(T) (U, bool)) (U, bool) {
	if !ok {
		var zero U
		return zero, false
	}
	return f(v)
}
