package service

import (
	"fmt"

	"github.com/okian/fcleague/internal/domain/model"
)

var (
	// ErrBettingClosed is returned for coupon changes on an inactive tournament.
	ErrBettingClosed = fmt.Errorf("%w: betting is closed for this tournament", model.ErrConflict)
	// ErrScheduleLocked is returned when regenerating a schedule with played matches.
	ErrScheduleLocked = fmt.Errorf("%w: tournament already has completed matches", model.ErrConflict)
	// ErrUnknownMediaKind is returned for an unsupported tournament media slot.
	ErrUnknownMediaKind = model.Invalid("kind", "expected photo, video or thumbnail")
)
