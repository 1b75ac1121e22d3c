// Package types contains read shapes shared by the service and its adapters.
package types

import "github.com/okian/fcleague/internal/domain/model"

// BettorEntry is one player's line in the betting leaderboard.
type BettorEntry struct {
	Rank        int     `json:"rank"`
	PlayerID    string  `json:"player_id"`
	Nickname    string  `json:"nickname,omitempty"`
	TotalPoints int     `json:"total_points"`
	Correct     int     `json:"correct"`
	Predictions int     `json:"predictions"`
	Accuracy    float64 `json:"accuracy_percentage"`
}

// StandingsEntry decorates a standings row with the player's nickname.
type StandingsEntry struct {
	model.StandingsRow
	Nickname string `json:"nickname,omitempty"`
}

// PlayerHistory is a player's record across tournaments.
type PlayerHistory struct {
	Player       model.Player        `json:"player"`
	Tournaments  []TournamentLine    `json:"tournaments"`
	Achievements []model.Achievement `json:"achievements"`
	Totals       model.StandingsRow  `json:"totals"`
}

// TournamentLine is a player's standings row within one tournament.
type TournamentLine struct {
	TournamentID   string             `json:"tournament_id"`
	TournamentName string             `json:"tournament_name"`
	Row            model.StandingsRow `json:"row"`
}

// ScheduleRequest describes a round robin to generate.
type ScheduleRequest struct {
	Participants []string          `json:"participants"`
	Teams        map[string]string `json:"teams,omitempty"`
	// RandomTeams draws one distinct stored team per participant and
	// ignores Teams.
	RandomTeams bool `json:"random_teams,omitempty"`
}

// MediaKind names a tournament media slot.
type MediaKind string

// Tournament media slots.
const (
	MediaPhoto     MediaKind = "photo"
	MediaVideo     MediaKind = "video"
	MediaThumbnail MediaKind = "thumbnail"
)
