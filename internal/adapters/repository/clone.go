package repository

import (
	"slices"
	"time"

	"github.com/okian/fcleague/internal/domain/model"
)

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func clonePlayer(p model.Player) model.Player {
	p.Email = clonePtr(p.Email)
	p.PhotoURL = clonePtr(p.PhotoURL)
	return p
}

func cloneTournament(t model.Tournament) model.Tournament {
	t.EndDate = clonePtr[time.Time](t.EndDate)
	t.Seeding = slices.Clone(t.Seeding)
	t.PhotoURL = clonePtr(t.PhotoURL)
	t.VideoURL = clonePtr(t.VideoURL)
	t.ThumbnailURL = clonePtr(t.ThumbnailURL)
	return t
}

func cloneMatch(m model.Match) model.Match {
	m.Score1 = clonePtr(m.Score1)
	m.Score2 = clonePtr(m.Score2)
	m.ScheduledAt = clonePtr(m.ScheduledAt)
	return m
}

func cloneAchievement(a model.Achievement) model.Achievement {
	a.Rank = clonePtr(a.Rank)
	return a
}

func cloneCoupon(c model.Coupon) model.Coupon {
	preds := make([]model.Prediction, len(c.Predictions))
	for i, p := range c.Predictions {
		p.Ranking = slices.Clone(p.Ranking)
		p.IsCorrect = clonePtr(p.IsCorrect)
		preds[i] = p
	}
	c.Predictions = preds
	return c
}
