package utils

// Ptr returns a pointer to v, for filling optional request fields inline.
func Ptr[T any](v T) *T {
	return &v
}
