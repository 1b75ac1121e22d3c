package media

import "errors"

var (
	// ErrDisabled means no bucket is configured.
	ErrDisabled = errors.New("media storage disabled")
	// ErrBadConfig means the bucket settings are incomplete.
	ErrBadConfig = errors.New("invalid media configuration")
	// ErrEmptyKey means an object key was missing.
	ErrEmptyKey = errors.New("empty object key")
)
