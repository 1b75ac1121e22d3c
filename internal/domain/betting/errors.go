package betting

import "github.com/okian/fcleague/internal/domain/model"

// Sentinel kinds for betting errors.
var (
	// ErrNotReady matches both model.ErrNotReady and model.ErrValidation.
	ErrNotReady = model.NotReady("scoring needs a non-empty, fully completed match set")
	// ErrNotAdjudicable is returned when a prediction type is scored automatically.
	ErrNotAdjudicable = model.Invalid("type", "only surprise_player predictions can be adjudicated")
)
