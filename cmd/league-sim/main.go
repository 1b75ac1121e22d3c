package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/fcleague/internal/leaguesim"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the league service")
		players = flag.Int("players", leaguesim.DefaultPlayers, "Number of players (and teams) to create")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "Seed for simulated results")
		timeout = flag.Duration("timeout", leaguesim.DefaultTimeout, "HTTP request timeout")
		workers = flag.Int("workers", leaguesim.DefaultWorkers, "Concurrent requests")
		verbose = flag.Bool("verbose", false, "Log every request")
	)
	flag.Parse()

	if err := leaguesim.SetupLogging(os.Stdout, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	_, err := leaguesim.Run(ctx, &leaguesim.Config{
		BaseURL: *baseURL,
		Players: *players,
		Seed:    *seed,
		Timeout: *timeout,
		Workers: *workers,
		Verbose: *verbose,
	})
	if err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
