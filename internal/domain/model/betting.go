package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PredictionType selects which payload a Prediction carries.
type PredictionType string

// Prediction types.
const (
	PredictionGoalsOverUnder   PredictionType = "goals_over_under"
	PredictionFinalRanking     PredictionType = "final_ranking"
	PredictionTopScorer        PredictionType = "top_scorer"
	PredictionWorstDefense     PredictionType = "worst_defense"
	PredictionTournamentWinner PredictionType = "tournament_winner"
	PredictionSurprisePlayer   PredictionType = "surprise_player"
)

// PredictionTypes lists every prediction type in presentation order.
var PredictionTypes = []PredictionType{
	PredictionGoalsOverUnder,
	PredictionFinalRanking,
	PredictionTopScorer,
	PredictionWorstDefense,
	PredictionTournamentWinner,
	PredictionSurprisePlayer,
}

// Valid reports whether t is a known prediction type.
func (t PredictionType) Valid() bool {
	for _, known := range PredictionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// SinglePlayer reports whether t carries a single player id.
func (t PredictionType) SinglePlayer() bool {
	switch t {
	case PredictionTopScorer, PredictionWorstDefense, PredictionTournamentWinner, PredictionSurprisePlayer:
		return true
	}
	return false
}

// OverUnder is the side picked by a goals_over_under prediction.
type OverUnder string

// Over/under sides.
const (
	Over  OverUnder = "over"
	Under OverUnder = "under"
)

// Prediction is one bet inside a coupon. Exactly one payload field is set,
// selected by Type: Side for goals_over_under, Ranking for final_ranking and
// PlayerID for the single-player types.
type Prediction struct {
	ID       string
	CouponID string
	Type     PredictionType

	Side     OverUnder
	Ranking  []string
	PlayerID string

	// IsCorrect is nil until the prediction is judged.
	IsCorrect *bool
	Points    int
}

// NewOverUnder builds a goals_over_under prediction.
func NewOverUnder(side OverUnder) Prediction {
	return Prediction{Type: PredictionGoalsOverUnder, Side: side}
}

// NewFinalRanking builds a final_ranking prediction from a predicted order.
func NewFinalRanking(order ...string) Prediction {
	return Prediction{Type: PredictionFinalRanking, Ranking: append([]string(nil), order...)}
}

// NewPlayerPick builds a single-player prediction of type t.
func NewPlayerPick(t PredictionType, playerID string) Prediction {
	return Prediction{Type: t, PlayerID: playerID}
}

// Validate checks that the payload matches the prediction type.
func (p *Prediction) Validate() error {
	switch {
	case p.Type == PredictionGoalsOverUnder:
		if p.Side != Over && p.Side != Under {
			return Invalid("value", `goals_over_under expects "over" or "under"`)
		}
		if len(p.Ranking) > 0 || p.PlayerID != "" {
			return Invalid("value", "goals_over_under carries only a side")
		}
	case p.Type == PredictionFinalRanking:
		if len(p.Ranking) == 0 {
			return Invalid("value", "final_ranking expects at least one player")
		}
		seen := make(map[string]struct{}, len(p.Ranking))
		for _, id := range p.Ranking {
			if strings.TrimSpace(id) == "" {
				return Invalid("value", "final_ranking contains an empty player id")
			}
			if _, dup := seen[id]; dup {
				return Invalid("value", "final_ranking lists "+id+" twice")
			}
			seen[id] = struct{}{}
		}
		if p.Side != "" || p.PlayerID != "" {
			return Invalid("value", "final_ranking carries only an ordered list")
		}
	case p.Type.SinglePlayer():
		if strings.TrimSpace(p.PlayerID) == "" {
			return Invalid("value", string(p.Type)+" expects a player id")
		}
		if p.Side != "" || len(p.Ranking) > 0 {
			return Invalid("value", string(p.Type)+" carries only a player id")
		}
	default:
		return Invalid("type", fmt.Sprintf("unknown prediction type %q", p.Type))
	}
	return nil
}

// Judged reports whether the prediction has been scored.
func (p *Prediction) Judged() bool { return p.IsCorrect != nil }

// Payload encodes the typed value as text for storage.
func (p *Prediction) Payload() (string, error) {
	switch {
	case p.Type == PredictionGoalsOverUnder:
		return string(p.Side), nil
	case p.Type == PredictionFinalRanking:
		b, err := json.Marshal(p.Ranking)
		if err != nil {
			return "", fmt.Errorf("encode ranking: %w", err)
		}
		return string(b), nil
	case p.Type.SinglePlayer():
		return p.PlayerID, nil
	}
	return "", Invalid("type", fmt.Sprintf("unknown prediction type %q", p.Type))
}

// SetPayload decodes a stored text value according to p.Type.
func (p *Prediction) SetPayload(raw string) error {
	p.Side, p.Ranking, p.PlayerID = "", nil, ""
	switch {
	case p.Type == PredictionGoalsOverUnder:
		p.Side = OverUnder(raw)
	case p.Type == PredictionFinalRanking:
		if err := json.Unmarshal([]byte(raw), &p.Ranking); err != nil {
			return Invalid("value", "final_ranking is not a JSON list: "+err.Error())
		}
	case p.Type.SinglePlayer():
		p.PlayerID = raw
	default:
		return Invalid("type", fmt.Sprintf("unknown prediction type %q", p.Type))
	}
	return p.Validate()
}

type predictionWire struct {
	ID        string          `json:"id,omitempty"`
	CouponID  string          `json:"coupon_id,omitempty"`
	Type      PredictionType  `json:"type"`
	Value     json.RawMessage `json:"value"`
	IsCorrect *bool           `json:"is_correct"`
	Points    int             `json:"points"`
}

// MarshalJSON writes the prediction as {"type": ..., "value": <typed>}.
func (p Prediction) MarshalJSON() ([]byte, error) {
	var value any
	switch {
	case p.Type == PredictionGoalsOverUnder:
		value = p.Side
	case p.Type == PredictionFinalRanking:
		value = p.Ranking
	default:
		value = p.PlayerID
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(predictionWire{
		ID:        p.ID,
		CouponID:  p.CouponID,
		Type:      p.Type,
		Value:     raw,
		IsCorrect: p.IsCorrect,
		Points:    p.Points,
	})
}

// UnmarshalJSON decodes the value according to type and rejects mismatches.
func (p *Prediction) UnmarshalJSON(data []byte) error {
	var w predictionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := Prediction{ID: w.ID, CouponID: w.CouponID, Type: w.Type, IsCorrect: w.IsCorrect, Points: w.Points}
	var err error
	switch {
	case w.Type == PredictionGoalsOverUnder:
		err = json.Unmarshal(w.Value, &out.Side)
	case w.Type == PredictionFinalRanking:
		err = json.Unmarshal(w.Value, &out.Ranking)
	case w.Type.SinglePlayer():
		err = json.Unmarshal(w.Value, &out.PlayerID)
	default:
		return Invalid("type", fmt.Sprintf("unknown prediction type %q", w.Type))
	}
	if err != nil {
		return Invalid("value", fmt.Sprintf("%s: %v", w.Type, err))
	}
	*p = out
	return nil
}

// Coupon is a player's bundle of predictions for a tournament.
type Coupon struct {
	ID           string       `json:"id"`
	TournamentID string       `json:"tournament_id"`
	PlayerID     string       `json:"player_id"`
	Name         string       `json:"name"`
	CreatedAt    time.Time    `json:"created_at"`
	TotalPoints  int          `json:"total_points"`
	Submitted    bool         `json:"submitted"`
	Predictions  []Prediction `json:"predictions"`
}

// Validate checks the coupon header and every prediction payload.
func (c *Coupon) Validate() error {
	if strings.TrimSpace(c.TournamentID) == "" {
		return Invalid("tournament_id", "must not be empty")
	}
	if strings.TrimSpace(c.PlayerID) == "" {
		return Invalid("player_id", "must not be empty")
	}
	if len(c.Predictions) == 0 {
		return Invalid("predictions", "a coupon needs at least one prediction")
	}
	for i := range c.Predictions {
		if err := c.Predictions[i].Validate(); err != nil {
			return fmt.Errorf("prediction %d: %w", i, err)
		}
	}
	return nil
}

// Correct returns the number of predictions judged correct.
func (c *Coupon) Correct() int {
	n := 0
	for i := range c.Predictions {
		if p := c.Predictions[i]; p.IsCorrect != nil && *p.IsCorrect {
			n++
		}
	}
	return n
}

// Total recomputes the coupon total as the sum of prediction points.
func (c *Coupon) Total() int {
	total := 0
	for i := range c.Predictions {
		total += c.Predictions[i].Points
	}
	return total
}
