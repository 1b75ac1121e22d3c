package scheduler

import "errors"

var (
	// ErrBadSpec means the cron expression could not be parsed.
	ErrBadSpec = errors.New("invalid cron spec")
	// ErrStarted means Start was called twice.
	ErrStarted = errors.New("scheduler already started")
)
