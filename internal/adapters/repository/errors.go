package repository

import (
	"errors"
	"fmt"

	"github.com/okian/fcleague/internal/domain/model"
)

// Sentinel kinds for store errors. They are the domain kinds so callers can
// match either.
var (
	ErrNotFound      = model.ErrNotFound
	ErrConflict      = model.ErrConflict
	ErrUnknownDriver = errors.New("unknown storage driver")
	// ErrSchedulePlayed refuses replacing a schedule with completed matches.
	ErrSchedulePlayed = fmt.Errorf("%w: schedule has completed matches", ErrConflict)
)

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

func conflict(kind, reason string) error {
	return fmt.Errorf("%s: %s: %w", kind, reason, ErrConflict)
}
