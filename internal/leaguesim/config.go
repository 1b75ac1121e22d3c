// Package leaguesim drives a running league server through a whole
// tournament and checks the tables it reports against a local computation.
package leaguesim

import "time"

// Defaults for the simulation.
const (
	DefaultPlayers  = 8
	DefaultTimeout  = 30 * time.Second
	DefaultWorkers  = 8
	DefaultMaxGoals = 5
)

// Config holds the simulation settings.
type Config struct {
	BaseURL  string        // Base URL of the service
	Players  int           // Number of players (and teams) to create
	Seed     int64         // Seed for results and names
	Timeout  time.Duration // HTTP request timeout
	Workers  int           // Concurrent requests
	MaxGoals int           // Upper bound for a side's goals
	Verbose  bool          // Log every request
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.Players < 2 {
		out.Players = DefaultPlayers
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.Workers <= 0 {
		out.Workers = DefaultWorkers
	}
	if out.MaxGoals <= 0 {
		out.MaxGoals = DefaultMaxGoals
	}
	return out
}

// Stats summarizes a run.
type Stats struct {
	TournamentID   string
	Players        int
	Matches        int
	ResultsPosted  int
	Achievements   int
	StandingsRows  int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	ChampionID     string
	ChampionPoints int
}
