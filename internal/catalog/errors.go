package catalog

import "errors"

// Sentinel errors for template lookup and import.
var (
	// ErrNotFound indicates a template key or file path that resolves to no content.
	ErrNotFound = errors.New("template not found")
	// ErrInvalidArgument indicates an empty or whitespace-only required argument.
	ErrInvalidArgument = errors.New("invalid argument")
)
