package schedule

import "github.com/okian/fcleague/internal/domain/model"

// Sentinel kinds for schedule errors. All of them match model.ErrValidation.
var (
	ErrTooFewParticipants   = model.Invalid("participants", "at least 2 participants are required")
	ErrDuplicateParticipant = model.Invalid("participants", "participant listed twice")
	ErrMissingTeam          = model.Invalid("teams", "participant has no team assignment")
	ErrNotEnoughTeams       = model.Invalid("teams", "not enough distinct teams for every participant")
)
