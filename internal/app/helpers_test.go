package service_test

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/fcleague/internal/adapters/mq/kafka"
	service "github.com/okian/fcleague/internal/app"
	"github.com/okian/fcleague/internal/domain/model"
	"github.com/okian/fcleague/internal/domain/types"
	"github.com/okian/fcleague/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var epoch = time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)

type recordingBoard struct {
	mu        sync.Mutex
	published map[string][]types.BettorEntry
}

func (b *recordingBoard) Publish(_ context.Context, tournamentID string, entries []types.BettorEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.published == nil {
		b.published = map[string][]types.BettorEntry{}
	}
	b.published[tournamentID] = append([]types.BettorEntry(nil), entries...)
	return nil
}

func (b *recordingBoard) entries(tournamentID string) []types.BettorEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.published[tournamentID]
}

type recordingEvents struct {
	mu     sync.Mutex
	events []kafka.Event
}

func (r *recordingEvents) Publish(_ context.Context, e kafka.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingEvents) Close() error { return nil }

func (r *recordingEvents) counts() map[kafka.EventType]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[kafka.EventType]int{}
	for _, e := range r.events {
		out[e.Type]++
	}
	return out
}

type memUploader struct {
	objects map[string]string
}

func (u *memUploader) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if u.objects == nil {
		u.objects = map[string]string{}
	}
	u.objects[key] = string(raw)
	return "https://cdn.test/" + key, nil
}

func (u *memUploader) Delete(_ context.Context, key string) error {
	delete(u.objects, key)
	return nil
}

// league is four players with a team each and one open tournament.
type league struct {
	svc        *service.Service
	board      *recordingBoard
	events     *recordingEvents
	players    map[string]model.Player
	teams      map[string]string
	order      []string
	tournament model.Tournament
}

func newLeague(opts ...service.Option) *league {
	ctx := context.Background()
	l := &league{
		board:   &recordingBoard{},
		events:  &recordingEvents{},
		players: map[string]model.Player{},
		teams:   map[string]string{},
	}
	base := []service.Option{
		service.WithClock(func() time.Time { return epoch }),
		service.WithRand(rand.New(rand.NewSource(7))),
		service.WithBoard(l.board),
		service.WithPublisher(l.events),
		service.WithWorkerCount(2),
	}
	l.svc = service.New(append(base, opts...)...)

	clubs := []string{"Arsenal", "Barcelona", "Celtic", "Dortmund"}
	for i, nick := range []string{"A", "B", "C", "D"} {
		p, err := l.svc.CreatePlayer(ctx, model.Player{Nickname: nick})
		if err != nil {
			panic(err)
		}
		team, err := l.svc.CreateTeam(ctx, model.Team{Name: clubs[i]})
		if err != nil {
			panic(err)
		}
		l.players[nick] = p
		l.teams[p.ID] = team.ID
		l.order = append(l.order, p.ID)
	}

	t, err := l.svc.CreateTournament(ctx, model.Tournament{Name: "Spring Cup", StartDate: epoch})
	if err != nil {
		panic(err)
	}
	l.tournament = t
	return l
}

func (l *league) id(nick string) string { return l.players[nick].ID }

func (l *league) schedule() []model.Match {
	matches, err := l.svc.GenerateSchedule(context.Background(), l.tournament.ID, types.ScheduleRequest{
		Participants: l.order,
		Teams:        l.teams,
	})
	if err != nil {
		panic(err)
	}
	return matches
}

// playScenario records A-B 3-1, A-C 1-1, A-D 2-0, B-C 2-1, B-D 0-0, C-D 2-0.
func (l *league) playScenario(matches []model.Match) {
	scores := [][2]int{{3, 1}, {1, 1}, {2, 0}, {2, 1}, {0, 0}, {2, 0}}
	for i, m := range matches {
		if _, err := l.svc.RecordResult(context.Background(), m.ID, scores[i][0], scores[i][1]); err != nil {
			panic(err)
		}
	}
}

func (l *league) coupon(picks ...model.Prediction) model.Coupon {
	c, err := l.svc.CreateCoupon(context.Background(), model.Coupon{
		TournamentID: l.tournament.ID,
		PlayerID:     l.id("D"),
		Name:         "my picks",
		Predictions:  picks,
	})
	if err != nil {
		panic(err)
	}
	return c
}
