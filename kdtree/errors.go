package kdtree

import "errors"

var (
	ErrInvalidOptions = errors.New("kdtree: invalid build options")
	ErrInvalidBounds  = errors.New("kdtree: root bounds are invalid or do not enclose the input")
	ErrArenaExhausted = errors.New("kdtree: node or triangle arena exhausted")
	ErrBuildFailed    = errors.New("kdtree: build worker failed")
	ErrCorruptArchive = errors.New("kdtree: corrupt tree archive")
)
