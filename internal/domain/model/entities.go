// Package model contains the league records passed between layers.
package model

import (
	"strings"
	"time"
)

// Player is a league participant.
type Player struct {
	ID        string    `json:"id" db:"id"`
	Nickname  string    `json:"nickname" db:"nickname"`
	Email     *string   `json:"email,omitempty" db:"email"`
	PhotoURL  *string   `json:"photo_url,omitempty" db:"photo_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Validate checks the player's required fields.
func (p Player) Validate() error {
	if strings.TrimSpace(p.Nickname) == "" {
		return Invalid("nickname", "must not be empty")
	}
	return nil
}

// Team is a club a player plays a match with.
type Team struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Validate checks the team's required fields.
func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return Invalid("name", "must not be empty")
	}
	return nil
}

// Tournament groups the matches, achievements and coupons of one league run.
type Tournament struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Active    bool       `json:"active"`
	// Seeding is the expected finishing order, best first. Optional.
	Seeding      []string  `json:"seeding,omitempty"`
	PhotoURL     *string   `json:"photo_url,omitempty"`
	VideoURL     *string   `json:"video_url,omitempty"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks the tournament's required fields.
func (t Tournament) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return Invalid("name", "must not be empty")
	}
	if t.EndDate != nil && t.EndDate.Before(t.StartDate) {
		return Invalid("end_date", "must not be before start_date")
	}
	seen := make(map[string]struct{}, len(t.Seeding))
	for _, id := range t.Seeding {
		if _, dup := seen[id]; dup {
			return Invalid("seeding", "duplicate player "+id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
