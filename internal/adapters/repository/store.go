// Package repository persists league records behind the Store port.
package repository

import (
	"context"

	"github.com/okian/fcleague/internal/domain/model"
)

// Store provides read/write access to league records.
//
// Create methods assign ID and CreatedAt when empty. Unknown ids return an
// error matching ErrNotFound; unique nickname or team name violations return
// an error matching ErrConflict.
type Store interface {
	CreatePlayer(ctx context.Context, p *model.Player) error
	GetPlayer(ctx context.Context, id string) (model.Player, error)
	ListPlayers(ctx context.Context) ([]model.Player, error)
	UpdatePlayer(ctx context.Context, p model.Player) error
	// DeletePlayer removes the player with their matches, achievements and coupons.
	DeletePlayer(ctx context.Context, id string) error

	CreateTeam(ctx context.Context, t *model.Team) error
	GetTeam(ctx context.Context, id string) (model.Team, error)
	ListTeams(ctx context.Context) ([]model.Team, error)
	UpdateTeam(ctx context.Context, t model.Team) error
	// DeleteTeam refuses with ErrConflict while a match references the team.
	DeleteTeam(ctx context.Context, id string) error

	CreateTournament(ctx context.Context, t *model.Tournament) error
	GetTournament(ctx context.Context, id string) (model.Tournament, error)
	ListTournaments(ctx context.Context) ([]model.Tournament, error)
	UpdateTournament(ctx context.Context, t model.Tournament) error
	// DeleteTournament removes the tournament with its matches, achievements and coupons.
	DeleteTournament(ctx context.Context, id string) error

	// ReplaceMatches swaps the tournament's schedule for matches in one step;
	// list order follows matches. While any current match is completed it
	// fails with ErrSchedulePlayed and leaves the schedule unchanged.
	ReplaceMatches(ctx context.Context, tournamentID string, matches []model.Match) error
	GetMatch(ctx context.Context, id string) (model.Match, error)
	ListMatches(ctx context.Context, tournamentID string) ([]model.Match, error)
	ListMatchesByPlayer(ctx context.Context, playerID string) ([]model.Match, error)
	UpdateMatch(ctx context.Context, m model.Match) error

	// ReplaceAchievements deletes the tournament's achievements and inserts set.
	ReplaceAchievements(ctx context.Context, tournamentID string, set []model.Achievement) error
	ListAchievements(ctx context.Context, tournamentID string) ([]model.Achievement, error)
	ListAchievementsByPlayer(ctx context.Context, playerID string) ([]model.Achievement, error)

	CreateCoupon(ctx context.Context, c *model.Coupon) error
	GetCoupon(ctx context.Context, id string) (model.Coupon, error)
	// ListCoupons returns the tournament's coupons in creation order.
	ListCoupons(ctx context.Context, tournamentID string) ([]model.Coupon, error)
	// UpdateCoupon stores the header and replaces the predictions.
	UpdateCoupon(ctx context.Context, c model.Coupon) error
	DeleteCoupon(ctx context.Context, id string) error

	Close() error
}
