package marchive

import (
	"errors"

	"github.com/meigma/marchive/internal/descriptor"
)

// Sentinel errors re-exported from internal/descriptor.
var (
	// ErrInvalidFormat is returned when a descriptor is malformed or is not an
	// archive descriptor (wrong object type or version).
	ErrInvalidFormat = descriptor.ErrInvalidFormat

	// ErrSizeOverflow is returned when offsets or sizes exceed supported limits.
	ErrSizeOverflow = descriptor.ErrSizeOverflow
)

// Sentinel errors specific to the marchive package.
var (
	// ErrMissingDependency is returned when an operation needs a capability
	// the caller did not supply, e.g. a compressed descriptor without a
	// Decompressor.
	ErrMissingDependency = errors.New("marchive: missing dependency")

	// ErrTooManyFiles is returned when the file count exceeds the configured limit.
	ErrTooManyFiles = errors.New("marchive: too many files")
)
