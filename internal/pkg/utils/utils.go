// Package utils holds small helpers shared across packages.
package utils

// Ptr returns a pointer to v. Handy for optional fields in literals.
func Ptr[T any](v T) *T {
	return &v
}
