package leaguesim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/fcleague/internal/domain/model"
	"github.com/okian/fcleague/internal/domain/types"
	"github.com/okian/fcleague/pkg/logger"
)

// APIError is a non-2xx reply from the server.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Status, e.Code, e.Message)
}

// Client calls the league HTTP API.
type Client struct {
	base    string
	http    *http.Client
	verbose bool
	log     logger.Logger
}

// NewClient creates a client for the server at base.
func NewClient(base string, timeout time.Duration, verbose bool) *Client {
	return &Client{
		base:    base,
		http:    &http.Client{Timeout: timeout},
		verbose: verbose,
		log:     logger.Named("leaguesim"),
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s body: %w", path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if c.verbose {
		c.log.Debug(ctx, "request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", resp.StatusCode),
			logger.String("took", time.Since(start).String()))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Health checks /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// CreatePlayer registers a player.
func (c *Client) CreatePlayer(ctx context.Context, nickname string) (model.Player, error) {
	var p model.Player
	err := c.do(ctx, http.MethodPost, "/players", map[string]string{"nickname": nickname}, &p)
	return p, err
}

// CreateTeam registers a team.
func (c *Client) CreateTeam(ctx context.Context, name string) (model.Team, error) {
	var t model.Team
	err := c.do(ctx, http.MethodPost, "/teams", map[string]string{"name": name}, &t)
	return t, err
}

// CreateTournament opens a tournament.
func (c *Client) CreateTournament(ctx context.Context, name string) (model.Tournament, error) {
	var t model.Tournament
	err := c.do(ctx, http.MethodPost, "/tournaments", map[string]string{"name": name}, &t)
	return t, err
}

// GenerateSchedule creates the round robin.
func (c *Client) GenerateSchedule(ctx context.Context, tournamentID string, req types.ScheduleRequest) ([]model.Match, error) {
	var matches []model.Match
	err := c.do(ctx, http.MethodPost, "/tournaments/"+tournamentID+"/schedule", req, &matches)
	return matches, err
}

// RecordResult posts a final score.
func (c *Client) RecordResult(ctx context.Context, matchID string, score1, score2 int) (model.Match, error) {
	var m model.Match
	err := c.do(ctx, http.MethodPut, "/matches/"+matchID+"/result", map[string]int{"score1": score1, "score2": score2}, &m)
	return m, err
}

// Matches lists a tournament's matches.
func (c *Client) Matches(ctx context.Context, tournamentID string) ([]model.Match, error) {
	var matches []model.Match
	err := c.do(ctx, http.MethodGet, "/tournaments/"+tournamentID+"/matches", nil, &matches)
	return matches, err
}

// Standings fetches the table.
func (c *Client) Standings(ctx context.Context, tournamentID string) ([]types.StandingsEntry, error) {
	var rows []types.StandingsEntry
	err := c.do(ctx, http.MethodGet, "/tournaments/"+tournamentID+"/standings", nil, &rows)
	return rows, err
}

// Finalize closes the tournament and returns its achievements.
func (c *Client) Finalize(ctx context.Context, tournamentID string) ([]model.Achievement, error) {
	var set []model.Achievement
	err := c.do(ctx, http.MethodPost, "/tournaments/"+tournamentID+"/finalize", nil, &set)
	return set, err
}
