package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/okian/fcleague/internal/domain/model"
	"github.com/okian/fcleague/internal/domain/types"
	"github.com/okian/fcleague/pkg/logger"
)

// CreatePlayer validates and stores a new player.
func (s *Service) CreatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	p.Nickname = strings.TrimSpace(p.Nickname)
	if err := p.Validate(); err != nil {
		return model.Player{}, err
	}
	p.ID = ""
	if err := s.store.CreatePlayer(ctx, &p); err != nil {
		return model.Player{}, err
	}
	s.logger.Info(ctx, "player created", logger.String("player_id", p.ID), logger.String("nickname", p.Nickname))
	return p, nil
}

func (s *Service) GetPlayer(ctx context.Context, id string) (model.Player, error) {
	return s.store.GetPlayer(ctx, id)
}

func (s *Service) ListPlayers(ctx context.Context) ([]model.Player, error) {
	return s.store.ListPlayers(ctx)
}

// UpdatePlayer changes a player's nickname and email. Photo and creation
// time are kept.
func (s *Service) UpdatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	p.Nickname = strings.TrimSpace(p.Nickname)
	if err := p.Validate(); err != nil {
		return model.Player{}, err
	}
	current, err := s.store.GetPlayer(ctx, p.ID)
	if err != nil {
		return model.Player{}, err
	}
	current.Nickname = p.Nickname
	current.Email = p.Email
	if err := s.store.UpdatePlayer(ctx, current); err != nil {
		return model.Player{}, err
	}
	return current, nil
}

// DeletePlayer removes a player with their matches, achievements and coupons.
func (s *Service) DeletePlayer(ctx context.Context, id string) error {
	if err := s.store.DeletePlayer(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "player deleted", logger.String("player_id", id))
	return nil
}

// SetPlayerPhoto uploads a photo and stores its URL on the player.
func (s *Service) SetPlayerPhoto(ctx context.Context, id, filename, contentType string, body io.Reader) (model.Player, error) {
	p, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		return model.Player{}, err
	}
	location, err := s.media.Upload(ctx, mediaKey("players", id, "photo", filename), contentType, body)
	if err != nil {
		return model.Player{}, fmt.Errorf("upload player photo: %w", err)
	}
	p.PhotoURL = &location
	if err := s.store.UpdatePlayer(ctx, p); err != nil {
		return model.Player{}, err
	}
	return p, nil
}

// CreateTeam validates and stores a new team.
func (s *Service) CreateTeam(ctx context.Context, t model.Team) (model.Team, error) {
	t.Name = strings.TrimSpace(t.Name)
	if err := t.Validate(); err != nil {
		return model.Team{}, err
	}
	t.ID = ""
	if err := s.store.CreateTeam(ctx, &t); err != nil {
		return model.Team{}, err
	}
	return t, nil
}

func (s *Service) GetTeam(ctx context.Context, id string) (model.Team, error) {
	return s.store.GetTeam(ctx, id)
}

func (s *Service) ListTeams(ctx context.Context) ([]model.Team, error) {
	return s.store.ListTeams(ctx)
}

// UpdateTeam renames a team.
func (s *Service) UpdateTeam(ctx context.Context, t model.Team) (model.Team, error) {
	t.Name = strings.TrimSpace(t.Name)
	if err := t.Validate(); err != nil {
		return model.Team{}, err
	}
	current, err := s.store.GetTeam(ctx, t.ID)
	if err != nil {
		return model.Team{}, err
	}
	current.Name = t.Name
	if err := s.store.UpdateTeam(ctx, current); err != nil {
		return model.Team{}, err
	}
	return current, nil
}

// DeleteTeam removes a team no match uses.
func (s *Service) DeleteTeam(ctx context.Context, id string) error {
	return s.store.DeleteTeam(ctx, id)
}

// CreateTournament stores a new tournament. New tournaments are active,
// which keeps betting open until they are finalized.
func (s *Service) CreateTournament(ctx context.Context, t model.Tournament) (model.Tournament, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.StartDate.IsZero() {
		t.StartDate = s.now()
	}
	if err := t.Validate(); err != nil {
		return model.Tournament{}, err
	}
	if err := s.checkPlayers(ctx, t.Seeding); err != nil {
		return model.Tournament{}, err
	}
	t.ID = ""
	t.Active = true
	if err := s.store.CreateTournament(ctx, &t); err != nil {
		return model.Tournament{}, err
	}
	s.logger.Info(ctx, "tournament created", logger.String("tournament_id", t.ID), logger.String("name", t.Name))
	return t, nil
}

func (s *Service) GetTournament(ctx context.Context, id string) (model.Tournament, error) {
	return s.store.GetTournament(ctx, id)
}

func (s *Service) ListTournaments(ctx context.Context) ([]model.Tournament, error) {
	return s.store.ListTournaments(ctx)
}

// UpdateTournament changes name, dates and seeding. Activity changes only
// through finalization; media URLs only through uploads.
func (s *Service) UpdateTournament(ctx context.Context, t model.Tournament) (model.Tournament, error) {
	current, err := s.store.GetTournament(ctx, t.ID)
	if err != nil {
		return model.Tournament{}, err
	}
	current.Name = strings.TrimSpace(t.Name)
	if !t.StartDate.IsZero() {
		current.StartDate = t.StartDate
	}
	current.EndDate = t.EndDate
	current.Seeding = t.Seeding
	if err := current.Validate(); err != nil {
		return model.Tournament{}, err
	}
	if err := s.checkPlayers(ctx, current.Seeding); err != nil {
		return model.Tournament{}, err
	}
	if err := s.store.UpdateTournament(ctx, current); err != nil {
		return model.Tournament{}, err
	}
	return current, nil
}

// DeleteTournament removes a tournament with its matches, achievements and coupons.
func (s *Service) DeleteTournament(ctx context.Context, id string) error {
	if err := s.store.DeleteTournament(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "tournament deleted", logger.String("tournament_id", id))
	return nil
}

// SetTournamentMedia uploads a photo, video or thumbnail for a tournament.
func (s *Service) SetTournamentMedia(ctx context.Context, id string, kind types.MediaKind, filename, contentType string, body io.Reader) (model.Tournament, error) {
	t, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return model.Tournament{}, err
	}

	var slot **string
	switch kind {
	case types.MediaPhoto:
		slot = &t.PhotoURL
	case types.MediaVideo:
		slot = &t.VideoURL
	case types.MediaThumbnail:
		slot = &t.ThumbnailURL
	default:
		return model.Tournament{}, ErrUnknownMediaKind
	}

	location, err := s.media.Upload(ctx, mediaKey("tournaments", id, string(kind), filename), contentType, body)
	if err != nil {
		return model.Tournament{}, fmt.Errorf("upload tournament %s: %w", kind, err)
	}
	*slot = &location
	if err := s.store.UpdateTournament(ctx, t); err != nil {
		return model.Tournament{}, err
	}
	return t, nil
}

func (s *Service) checkPlayers(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := s.store.GetPlayer(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// mediaKey builds "<collection>/<id>/<slot><ext>" keeping only the upload's extension.
func mediaKey(collection, id, slot, filename string) string {
	return path.Join(collection, id, slot+strings.ToLower(path.Ext(filename)))
}
