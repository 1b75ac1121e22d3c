package leaguesim

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/fcleague/internal/domain/model"
	"github.com/okian/fcleague/internal/domain/types"
	"github.com/okian/fcleague/pkg/logger"
)

// Run plays a complete tournament against the server and verifies the
// reported standings and podium.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	cfg := config.withDefaults()
	log := logger.Named("leaguesim")
	client := NewClient(cfg.BaseURL, cfg.Timeout, cfg.Verbose)
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible results, not security sensitive
	stats := &Stats{StartTime: time.Now(), Players: cfg.Players}

	log.Info(ctx, "starting league simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("players", cfg.Players),
		logger.Int("workers", cfg.Workers),
		logger.Any("seed", cfg.Seed))

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Register players and teams
	run := fmt.Sprintf("%d-%d", cfg.Seed, stats.StartTime.UnixNano())
	participants, err := register(ctx, client, cfg, run)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	// Step 3: Open the tournament and draw the schedule
	tour, err := client.CreateTournament(ctx, "Simulated Cup "+run)
	if err != nil {
		return nil, fmt.Errorf("create tournament: %w", err)
	}
	stats.TournamentID = tour.ID

	matches, err := client.GenerateSchedule(ctx, tour.ID, types.ScheduleRequest{
		Participants: participants,
		RandomTeams:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("generate schedule: %w", err)
	}
	stats.Matches = len(matches)
	log.Info(ctx, "schedule generated", logger.String("tournament", tour.ID), logger.Int("matches", len(matches)))

	// Step 4: Play every match concurrently
	posted, err := play(ctx, client, cfg, rng, matches)
	stats.ResultsPosted = posted
	if err != nil {
		return nil, fmt.Errorf("record results: %w", err)
	}

	// Step 5: Finalize
	set, err := client.Finalize(ctx, tour.ID)
	if err != nil {
		return nil, fmt.Errorf("finalize: %w", err)
	}
	stats.Achievements = len(set)

	// Step 6: Fetch and verify
	var (
		played []model.Match
		table  []types.StandingsEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		played, err = client.Matches(gctx, tour.ID)
		return err
	})
	g.Go(func() error {
		var err error
		table, err = client.Standings(gctx, tour.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch results: %w", err)
	}
	stats.StandingsRows = len(table)

	if err := VerifyStandings(played, table); err != nil {
		return stats, err
	}
	if err := VerifyPodium(table, set); err != nil {
		return stats, err
	}
	if len(table) > 0 {
		stats.ChampionID = table[0].PlayerID
		stats.ChampionPoints = table[0].Points
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats, table)
	return stats, nil
}

// register creates one player and one team per participant and returns the
// player ids in creation order.
func register(ctx context.Context, client *Client, cfg Config, run string) ([]string, error) {
	ids := make([]string, cfg.Players)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range cfg.Players {
		g.Go(func() error {
			p, err := client.CreatePlayer(gctx, fmt.Sprintf("sim-%s-p%02d", run, i+1))
			if err != nil {
				return err
			}
			if _, err := client.CreateTeam(gctx, fmt.Sprintf("Sim %s FC %02d", run, i+1)); err != nil {
				return err
			}
			ids[i] = p.ID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

// play draws every score up front from rng, so a seed reproduces the same
// results, then posts them concurrently.
func play(ctx context.Context, client *Client, cfg Config, rng *rand.Rand, matches []model.Match) (int, error) {
	scores := make([][2]int, len(matches))
	for i := range scores {
		scores[i] = [2]int{rng.Intn(cfg.MaxGoals + 1), rng.Intn(cfg.MaxGoals + 1)}
	}

	var posted atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, m := range matches {
		g.Go(func() error {
			got, err := client.RecordResult(gctx, m.ID, scores[i][0], scores[i][1])
			if err != nil {
				return err
			}
			if !got.IsCompleted() {
				return fmt.Errorf("match %s not completed after posting a result", m.ID)
			}
			matches[i] = got
			posted.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(posted.Load()), err
}

// displayFinalStats logs the run summary and the top of the table.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats, table []types.StandingsEntry) {
	for _, row := range table[:min(podiumSize, len(table))] {
		log.Info(ctx, "podium",
			logger.Int("position", row.Position),
			logger.String("nickname", row.Nickname),
			logger.Int("points", row.Points),
			logger.Int("goalDifference", row.GoalDifference))
	}
	log.Info(ctx, "final statistics",
		logger.String("tournament", stats.TournamentID),
		logger.Int("players", stats.Players),
		logger.Int("matches", stats.Matches),
		logger.Int("resultsPosted", stats.ResultsPosted),
		logger.Int("achievements", stats.Achievements),
		logger.String("duration", stats.Duration.String()))
}
