package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/okian/fcleague/internal/domain/model"
)

// MemStore is an in-memory Store. Records are copied on the way in and out.
type MemStore struct {
	mu  sync.RWMutex
	set settings

	players     map[string]model.Player
	teams       map[string]model.Team
	tournaments map[string]model.Tournament

	// Insertion ordered.
	matches      []model.Match
	achievements []model.Achievement
	coupons      []model.Coupon
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		set:         defaultSettings(),
		players:     make(map[string]model.Player),
		teams:       make(map[string]model.Team),
		tournaments: make(map[string]model.Tournament),
	}
	for _, opt := range opts {
		opt(&s.set)
	}
	return s
}

func (s *MemStore) Close() error { return nil }

// Players

func (s *MemStore) CreatePlayer(_ context.Context, p *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nicknameTaken(p.Nickname, "") {
		return conflict("player", "nickname already taken")
	}
	s.set.stamp(&p.ID, &p.CreatedAt)
	if _, ok := s.players[p.ID]; ok {
		return conflict("player", "id already exists")
	}
	s.players[p.ID] = clonePlayer(*p)
	return nil
}

func (s *MemStore) GetPlayer(_ context.Context, id string) (model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return model.Player{}, notFound("player", id)
	}
	return clonePlayer(p), nil
}

func (s *MemStore) ListPlayers(_ context.Context) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, clonePlayer(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nickname < out[j].Nickname })
	return out, nil
}

func (s *MemStore) UpdatePlayer(_ context.Context, p model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.players[p.ID]
	if !ok {
		return notFound("player", p.ID)
	}
	if s.nicknameTaken(p.Nickname, p.ID) {
		return conflict("player", "nickname already taken")
	}
	p.CreatedAt = old.CreatedAt
	s.players[p.ID] = clonePlayer(p)
	return nil
}

func (s *MemStore) DeletePlayer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[id]; !ok {
		return notFound("player", id)
	}
	delete(s.players, id)
	s.matches = slices.DeleteFunc(s.matches, func(m model.Match) bool { return m.Involves(id) })
	s.achievements = slices.DeleteFunc(s.achievements, func(a model.Achievement) bool { return a.PlayerID == id })
	s.coupons = slices.DeleteFunc(s.coupons, func(c model.Coupon) bool { return c.PlayerID == id })
	return nil
}

func (s *MemStore) nicknameTaken(nickname, except string) bool {
	for id, p := range s.players {
		if id != except && p.Nickname == nickname {
			return true
		}
	}
	return false
}

// Teams

func (s *MemStore) CreateTeam(_ context.Context, t *model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.teamNameTaken(t.Name, "") {
		return conflict("team", "name already taken")
	}
	s.set.stamp(&t.ID, &t.CreatedAt)
	if _, ok := s.teams[t.ID]; ok {
		return conflict("team", "id already exists")
	}
	s.teams[t.ID] = *t
	return nil
}

func (s *MemStore) GetTeam(_ context.Context, id string) (model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[id]
	if !ok {
		return model.Team{}, notFound("team", id)
	}
	return t, nil
}

func (s *MemStore) ListTeams(_ context.Context) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemStore) UpdateTeam(_ context.Context, t model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.teams[t.ID]
	if !ok {
		return notFound("team", t.ID)
	}
	if s.teamNameTaken(t.Name, t.ID) {
		return conflict("team", "name already taken")
	}
	t.CreatedAt = old.CreatedAt
	s.teams[t.ID] = t
	return nil
}

func (s *MemStore) DeleteTeam(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[id]; !ok {
		return notFound("team", id)
	}
	for _, m := range s.matches {
		if m.Team1ID == id || m.Team2ID == id {
			return conflict("team", "used by scheduled matches")
		}
	}
	delete(s.teams, id)
	return nil
}

func (s *MemStore) teamNameTaken(name, except string) bool {
	for id, t := range s.teams {
		if id != except && t.Name == name {
			return true
		}
	}
	return false
}

// Tournaments

func (s *MemStore) CreateTournament(_ context.Context, t *model.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.set.stamp(&t.ID, &t.CreatedAt)
	if _, ok := s.tournaments[t.ID]; ok {
		return conflict("tournament", "id already exists")
	}
	s.tournaments[t.ID] = cloneTournament(*t)
	return nil
}

func (s *MemStore) GetTournament(_ context.Context, id string) (model.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tournaments[id]
	if !ok {
		return model.Tournament{}, notFound("tournament", id)
	}
	return cloneTournament(t), nil
}

func (s *MemStore) ListTournaments(_ context.Context) ([]model.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Tournament, 0, len(s.tournaments))
	for _, t := range s.tournaments {
		out = append(out, cloneTournament(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *MemStore) UpdateTournament(_ context.Context, t model.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.tournaments[t.ID]
	if !ok {
		return notFound("tournament", t.ID)
	}
	t.CreatedAt = old.CreatedAt
	s.tournaments[t.ID] = cloneTournament(t)
	return nil
}

func (s *MemStore) DeleteTournament(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tournaments[id]; !ok {
		return notFound("tournament", id)
	}
	delete(s.tournaments, id)
	s.matches = slices.DeleteFunc(s.matches, func(m model.Match) bool { return m.TournamentID == id })
	s.achievements = slices.DeleteFunc(s.achievements, func(a model.Achievement) bool { return a.TournamentID == id })
	s.coupons = slices.DeleteFunc(s.coupons, func(c model.Coupon) bool { return c.TournamentID == id })
	return nil
}

// Matches

func (s *MemStore) ReplaceMatches(_ context.Context, tournamentID string, matches []model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.matches {
		if s.matches[i].TournamentID == tournamentID && s.matches[i].IsCompleted() {
			return ErrSchedulePlayed
		}
	}
	for i := range matches {
		if matches[i].ID == "" {
			matches[i].ID = s.set.newID()
		}
		if j := s.matchIndex(matches[i].ID); j >= 0 && s.matches[j].TournamentID != tournamentID {
			return conflict("match", "id already exists")
		}
	}

	s.matches = slices.DeleteFunc(s.matches, func(m model.Match) bool { return m.TournamentID == tournamentID })
	for _, m := range matches {
		m.TournamentID = tournamentID
		s.matches = append(s.matches, cloneMatch(m))
	}
	return nil
}

func (s *MemStore) GetMatch(_ context.Context, id string) (model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.matchIndex(id)
	if i < 0 {
		return model.Match{}, notFound("match", id)
	}
	return cloneMatch(s.matches[i]), nil
}

func (s *MemStore) ListMatches(_ context.Context, tournamentID string) ([]model.Match, error) {
	return s.filterMatches(func(m *model.Match) bool { return m.TournamentID == tournamentID }), nil
}

func (s *MemStore) ListMatchesByPlayer(_ context.Context, playerID string) ([]model.Match, error) {
	return s.filterMatches(func(m *model.Match) bool { return m.Involves(playerID) }), nil
}

func (s *MemStore) UpdateMatch(_ context.Context, m model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.matchIndex(m.ID)
	if i < 0 {
		return notFound("match", m.ID)
	}
	s.matches[i] = cloneMatch(m)
	return nil
}

func (s *MemStore) matchIndex(id string) int {
	return slices.IndexFunc(s.matches, func(m model.Match) bool { return m.ID == id })
}

func (s *MemStore) filterMatches(keep func(*model.Match) bool) []model.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Match, 0)
	for i := range s.matches {
		if keep(&s.matches[i]) {
			out = append(out, cloneMatch(s.matches[i]))
		}
	}
	return out
}

// Achievements

func (s *MemStore) ReplaceAchievements(_ context.Context, tournamentID string, set []model.Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.achievements = slices.DeleteFunc(s.achievements, func(a model.Achievement) bool { return a.TournamentID == tournamentID })
	for _, a := range set {
		a.TournamentID = tournamentID
		s.set.stamp(&a.ID, &a.CreatedAt)
		s.achievements = append(s.achievements, cloneAchievement(a))
	}
	return nil
}

func (s *MemStore) ListAchievements(_ context.Context, tournamentID string) ([]model.Achievement, error) {
	return s.filterAchievements(func(a *model.Achievement) bool { return a.TournamentID == tournamentID }), nil
}

func (s *MemStore) ListAchievementsByPlayer(_ context.Context, playerID string) ([]model.Achievement, error) {
	return s.filterAchievements(func(a *model.Achievement) bool { return a.PlayerID == playerID }), nil
}

func (s *MemStore) filterAchievements(keep func(*model.Achievement) bool) []model.Achievement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Achievement, 0)
	for i := range s.achievements {
		if keep(&s.achievements[i]) {
			out = append(out, cloneAchievement(s.achievements[i]))
		}
	}
	return out
}

// Coupons

func (s *MemStore) CreateCoupon(_ context.Context, c *model.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.set.stamp(&c.ID, &c.CreatedAt)
	if s.couponIndex(c.ID) >= 0 {
		return conflict("coupon", "id already exists")
	}
	for i := range c.Predictions {
		c.Predictions[i].CouponID = c.ID
		if c.Predictions[i].ID == "" {
			c.Predictions[i].ID = s.set.newID()
		}
	}
	s.coupons = append(s.coupons, cloneCoupon(*c))
	return nil
}

func (s *MemStore) GetCoupon(_ context.Context, id string) (model.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.couponIndex(id)
	if i < 0 {
		return model.Coupon{}, notFound("coupon", id)
	}
	return cloneCoupon(s.coupons[i]), nil
}

func (s *MemStore) ListCoupons(_ context.Context, tournamentID string) ([]model.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Coupon, 0)
	for _, c := range s.coupons {
		if c.TournamentID == tournamentID {
			out = append(out, cloneCoupon(c))
		}
	}
	return out, nil
}

func (s *MemStore) UpdateCoupon(_ context.Context, c model.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.couponIndex(c.ID)
	if i < 0 {
		return notFound("coupon", c.ID)
	}
	c.CreatedAt = s.coupons[i].CreatedAt
	for j := range c.Predictions {
		c.Predictions[j].CouponID = c.ID
		if c.Predictions[j].ID == "" {
			c.Predictions[j].ID = s.set.newID()
		}
	}
	s.coupons[i] = cloneCoupon(c)
	return nil
}

func (s *MemStore) DeleteCoupon(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.couponIndex(id)
	if i < 0 {
		return notFound("coupon", id)
	}
	s.coupons = slices.Delete(s.coupons, i, i+1)
	return nil
}

func (s *MemStore) couponIndex(id string) int {
	return slices.IndexFunc(s.coupons, func(c model.Coupon) bool { return c.ID == id })
}
