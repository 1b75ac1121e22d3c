package kafka

import "errors"

// ErrBadEvent means an event lacks its type or tournament id.
var ErrBadEvent = errors.New("event needs a type and a tournament id")
