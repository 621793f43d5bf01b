package space

import "errors"

// Sentinel errors for space and document operations.
var (
	// ErrInvalidArgument indicates an empty name, unknown type or unsafe path.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSpaceNotFound indicates a space name the registry does not hold.
	ErrSpaceNotFound = errors.New("space not found")
	// ErrDocumentNotFound indicates a document ID or name the space does not hold.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrNoManifest indicates a directory without a .templatespace manifest.
	ErrNoManifest = errors.New("no space manifest")
)
