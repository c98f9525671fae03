// Package platform isolates OS-specific file opening used while packing.
package platform

import "errors"

// ErrSymlink is returned when attempting to open a symbolic link.
var ErrSymlink = errors.New("symbolic links not supported")
