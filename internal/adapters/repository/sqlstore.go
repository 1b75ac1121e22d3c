package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/okian/fcleague/internal/domain/model"
	"github.com/okian/fcleague/pkg/metrics"
)

// Storage drivers understood by OpenSQL.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const pgUniqueViolation = "23505"

// SQLStore is a Store on top of sqlx. Queries are written with ? placeholders
// and rebound for the driver.
type SQLStore struct {
	db  *sqlx.DB
	set settings
}

var _ Store = (*SQLStore)(nil)

// OpenSQL connects to dsn with the given driver, applies migrations and
// returns the store.
func OpenSQL(ctx context.Context, driver, dsn string, opts ...Option) (*SQLStore, error) {
	var sqlDriver string
	switch driver {
	case DriverSQLite:
		sqlDriver = "sqlite3"
	case DriverPostgres:
		sqlDriver = "pgx"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := sqlx.ConnectContext(ctx, sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One connection keeps in-memory databases alive and serializes writers.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	if err := Migrate(db.DB, driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLStore(db, opts...), nil
}

// NewSQLStore wraps an already migrated database.
func NewSQLStore(db *sqlx.DB, opts ...Option) *SQLStore {
	s := &SQLStore{db: db, set: defaultSettings()}
	for _, opt := range opts {
		opt(&s.set)
	}
	return s
}

// Close closes the underlying database.
func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) q(query string) string { return s.db.Rebind(query) }

func observe(op string, start time.Time) {
	metrics.RecordRepositoryLatency(op, float64(time.Since(start).Microseconds())/1000)
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pe *pgconn.PgError
	return errors.As(err, &pe) && pe.Code == pgUniqueViolation
}

// mapErr converts driver errors into store kinds.
func mapErr(kind, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound(kind, id)
	case isUniqueViolation(err):
		return conflict(kind, "already exists")
	}
	return fmt.Errorf("%s %q: %w", kind, id, err)
}

func expectOne(kind, id string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %q: %w", kind, id, err)
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}

// Players

const playerColumns = "id, nickname, email, photo_url, created_at"

func (s *SQLStore) CreatePlayer(ctx context.Context, p *model.Player) error {
	defer observe("create_player", time.Now())
	s.set.stamp(&p.ID, &p.CreatedAt)
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO players (`+playerColumns+`) VALUES (?, ?, ?, ?, ?)`),
		p.ID, p.Nickname, p.Email, p.PhotoURL, p.CreatedAt)
	return mapErr("player", p.ID, err)
}

func (s *SQLStore) GetPlayer(ctx context.Context, id string) (model.Player, error) {
	defer observe("get_player", time.Now())
	var p model.Player
	err := s.db.GetContext(ctx, &p, s.q(`SELECT `+playerColumns+` FROM players WHERE id = ?`), id)
	return p, mapErr("player", id, err)
}

func (s *SQLStore) ListPlayers(ctx context.Context) ([]model.Player, error) {
	defer observe("list_players", time.Now())
	out := make([]model.Player, 0)
	err := s.db.SelectContext(ctx, &out, `SELECT `+playerColumns+` FROM players ORDER BY nickname`)
	return out, mapErr("player", "*", err)
}

func (s *SQLStore) UpdatePlayer(ctx context.Context, p model.Player) error {
	defer observe("update_player", time.Now())
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE players SET nickname = ?, email = ?, photo_url = ? WHERE id = ?`),
		p.Nickname, p.Email, p.PhotoURL, p.ID)
	if err != nil {
		return mapErr("player", p.ID, err)
	}
	return expectOne("player", p.ID, res)
}

func (s *SQLStore) DeletePlayer(ctx context.Context, id string) error {
	defer observe("delete_player", time.Now())
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM predictions WHERE coupon_id IN (SELECT id FROM coupons WHERE player_id = ?)`,
			`DELETE FROM coupons WHERE player_id = ?`,
			`DELETE FROM achievements WHERE player_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, tx.Rebind(stmt), id); err != nil {
				return mapErr("player", id, err)
			}
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM matches WHERE player1_id = ? OR player2_id = ?`), id, id); err != nil {
			return mapErr("player", id, err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM players WHERE id = ?`), id)
		if err != nil {
			return mapErr("player", id, err)
		}
		return expectOne("player", id, res)
	})
}

// Teams

const teamColumns = "id, name, created_at"

func (s *SQLStore) CreateTeam(ctx context.Context, t *model.Team) error {
	defer observe("create_team", time.Now())
	s.set.stamp(&t.ID, &t.CreatedAt)
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO teams (`+teamColumns+`) VALUES (?, ?, ?)`),
		t.ID, t.Name, t.CreatedAt)
	return mapErr("team", t.ID, err)
}

func (s *SQLStore) GetTeam(ctx context.Context, id string) (model.Team, error) {
	defer observe("get_team", time.Now())
	var t model.Team
	err := s.db.GetContext(ctx, &t, s.q(`SELECT `+teamColumns+` FROM teams WHERE id = ?`), id)
	return t, mapErr("team", id, err)
}

func (s *SQLStore) ListTeams(ctx context.Context) ([]model.Team, error) {
	defer observe("list_teams", time.Now())
	out := make([]model.Team, 0)
	err := s.db.SelectContext(ctx, &out, `SELECT `+teamColumns+` FROM teams ORDER BY name`)
	return out, mapErr("team", "*", err)
}

func (s *SQLStore) UpdateTeam(ctx context.Context, t model.Team) error {
	defer observe("update_team", time.Now())
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE teams SET name = ? WHERE id = ?`), t.Name, t.ID)
	if err != nil {
		return mapErr("team", t.ID, err)
	}
	return expectOne("team", t.ID, res)
}

func (s *SQLStore) DeleteTeam(ctx context.Context, id string) error {
	defer observe("delete_team", time.Now())
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var used int
		if err := tx.GetContext(ctx, &used,
			tx.Rebind(`SELECT COUNT(*) FROM matches WHERE team1_id = ? OR team2_id = ?`), id, id); err != nil {
			return mapErr("team", id, err)
		}
		if used > 0 {
			return conflict("team", "used by scheduled matches")
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM teams WHERE id = ?`), id)
		if err != nil {
			return mapErr("team", id, err)
		}
		return expectOne("team", id, res)
	})
}

// Tournaments

const tournamentColumns = "id, name, start_date, end_date, active, seeding, photo_url, video_url, thumbnail_url, created_at"

type tournamentRow struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	StartDate    time.Time  `db:"start_date"`
	EndDate      *time.Time `db:"end_date"`
	Active       bool       `db:"active"`
	Seeding      string     `db:"seeding"`
	PhotoURL     *string    `db:"photo_url"`
	VideoURL     *string    `db:"video_url"`
	ThumbnailURL *string    `db:"thumbnail_url"`
	CreatedAt    time.Time  `db:"created_at"`
}

func (r tournamentRow) model() (model.Tournament, error) {
	t := model.Tournament{
		ID:           r.ID,
		Name:         r.Name,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Active:       r.Active,
		PhotoURL:     r.PhotoURL,
		VideoURL:     r.VideoURL,
		ThumbnailURL: r.ThumbnailURL,
		CreatedAt:    r.CreatedAt,
	}
	if err := json.Unmarshal([]byte(r.Seeding), &t.Seeding); err != nil {
		return t, fmt.Errorf("tournament %q seeding: %w", r.ID, err)
	}
	return t, nil
}

func encodeSeeding(seeding []string) (string, error) {
	if seeding == nil {
		seeding = []string{}
	}
	b, err := json.Marshal(seeding)
	return string(b), err
}

func (s *SQLStore) CreateTournament(ctx context.Context, t *model.Tournament) error {
	defer observe("create_tournament", time.Now())
	s.set.stamp(&t.ID, &t.CreatedAt)
	seeding, err := encodeSeeding(t.Seeding)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.q(`INSERT INTO tournaments (`+tournamentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		t.ID, t.Name, t.StartDate, t.EndDate, t.Active, seeding, t.PhotoURL, t.VideoURL, t.ThumbnailURL, t.CreatedAt)
	return mapErr("tournament", t.ID, err)
}

func (s *SQLStore) GetTournament(ctx context.Context, id string) (model.Tournament, error) {
	defer observe("get_tournament", time.Now())
	var row tournamentRow
	if err := s.db.GetContext(ctx, &row, s.q(`SELECT `+tournamentColumns+` FROM tournaments WHERE id = ?`), id); err != nil {
		return model.Tournament{}, mapErr("tournament", id, err)
	}
	return row.model()
}

func (s *SQLStore) ListTournaments(ctx context.Context) ([]model.Tournament, error) {
	defer observe("list_tournaments", time.Now())
	var rows []tournamentRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+tournamentColumns+` FROM tournaments ORDER BY start_date DESC, name`); err != nil {
		return nil, mapErr("tournament", "*", err)
	}
	out := make([]model.Tournament, 0, len(rows))
	for _, r := range rows {
		t, err := r.model()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *SQLStore) UpdateTournament(ctx context.Context, t model.Tournament) error {
	defer observe("update_tournament", time.Now())
	seeding, err := encodeSeeding(t.Seeding)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE tournaments SET name = ?, start_date = ?, end_date = ?, active = ?,
		seeding = ?, photo_url = ?, video_url = ?, thumbnail_url = ? WHERE id = ?`),
		t.Name, t.StartDate, t.EndDate, t.Active, seeding, t.PhotoURL, t.VideoURL, t.ThumbnailURL, t.ID)
	if err != nil {
		return mapErr("tournament", t.ID, err)
	}
	return expectOne("tournament", t.ID, res)
}

func (s *SQLStore) DeleteTournament(ctx context.Context, id string) error {
	defer observe("delete_tournament", time.Now())
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM predictions WHERE coupon_id IN (SELECT id FROM coupons WHERE tournament_id = ?)`,
			`DELETE FROM coupons WHERE tournament_id = ?`,
			`DELETE FROM achievements WHERE tournament_id = ?`,
			`DELETE FROM matches WHERE tournament_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, tx.Rebind(stmt), id); err != nil {
				return mapErr("tournament", id, err)
			}
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM tournaments WHERE id = ?`), id)
		if err != nil {
			return mapErr("tournament", id, err)
		}
		return expectOne("tournament", id, res)
	})
}

// Matches

const matchColumns = "id, tournament_id, player1_id, player2_id, team1_id, team2_id, score1, score2, completed, scheduled_at"

func (s *SQLStore) ReplaceMatches(ctx context.Context, tournamentID string, matches []model.Match) error {
	defer observe("replace_matches", time.Now())
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		// Unplayed rows go first; a result recorded concurrently keeps its row
		// out of the delete and shows up in the count.
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM matches WHERE tournament_id = ?
			AND (score1 IS NULL OR score2 IS NULL)`), tournamentID); err != nil {
			return mapErr("match", "*", err)
		}
		var played int
		if err := tx.GetContext(ctx, &played,
			tx.Rebind(`SELECT COUNT(*) FROM matches WHERE tournament_id = ?`), tournamentID); err != nil {
			return mapErr("match", "*", err)
		}
		if played > 0 {
			return ErrSchedulePlayed
		}

		insert := tx.Rebind(`INSERT INTO matches (seq, ` + matchColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		for i := range matches {
			m := &matches[i]
			if m.ID == "" {
				m.ID = s.set.newID()
			}
			m.TournamentID = tournamentID
			if _, err := tx.ExecContext(ctx, insert, i+1, m.ID, m.TournamentID, m.Player1ID, m.Player2ID,
				m.Team1ID, m.Team2ID, m.Score1, m.Score2, m.Completed, m.ScheduledAt); err != nil {
				return mapErr("match", m.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLStore) GetMatch(ctx context.Context, id string) (model.Match, error) {
	defer observe("get_match", time.Now())
	var m model.Match
	err := s.db.GetContext(ctx, &m, s.q(`SELECT `+matchColumns+` FROM matches WHERE id = ?`), id)
	return m, mapErr("match", id, err)
}

func (s *SQLStore) ListMatches(ctx context.Context, tournamentID string) ([]model.Match, error) {
	defer observe("list_matches", time.Now())
	out := make([]model.Match, 0)
	err := s.db.SelectContext(ctx, &out,
		s.q(`SELECT `+matchColumns+` FROM matches WHERE tournament_id = ? ORDER BY seq`), tournamentID)
	return out, mapErr("match", "*", err)
}

func (s *SQLStore) ListMatchesByPlayer(ctx context.Context, playerID string) ([]model.Match, error) {
	defer observe("list_matches_by_player", time.Now())
	out := make([]model.Match, 0)
	err := s.db.SelectContext(ctx, &out,
		s.q(`SELECT `+matchColumns+` FROM matches WHERE player1_id = ? OR player2_id = ? ORDER BY tournament_id, seq`),
		playerID, playerID)
	return out, mapErr("match", "*", err)
}

func (s *SQLStore) UpdateMatch(ctx context.Context, m model.Match) error {
	defer observe("update_match", time.Now())
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE matches SET team1_id = ?, team2_id = ?, score1 = ?, score2 = ?,
		completed = ?, scheduled_at = ? WHERE id = ?`),
		m.Team1ID, m.Team2ID, m.Score1, m.Score2, m.Completed, m.ScheduledAt, m.ID)
	if err != nil {
		return mapErr("match", m.ID, err)
	}
	return expectOne("match", m.ID, res)
}

// Achievements

const achievementColumns = "id, tournament_id, player_id, type, podium_rank, title, description, value, created_at"

func (s *SQLStore) ReplaceAchievements(ctx context.Context, tournamentID string, set []model.Achievement) error {
	defer observe("replace_achievements", time.Now())
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM achievements WHERE tournament_id = ?`), tournamentID); err != nil {
			return mapErr("achievement", tournamentID, err)
		}
		insert := tx.Rebind(`INSERT INTO achievements (seq, ` + achievementColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		for i, a := range set {
			s.set.stamp(&a.ID, &a.CreatedAt)
			if _, err := tx.ExecContext(ctx, insert, i+1, a.ID, tournamentID, a.PlayerID, string(a.Type), a.Rank,
				a.Title, a.Description, a.Value, a.CreatedAt); err != nil {
				return mapErr("achievement", a.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLStore) ListAchievements(ctx context.Context, tournamentID string) ([]model.Achievement, error) {
	defer observe("list_achievements", time.Now())
	out := make([]model.Achievement, 0)
	err := s.db.SelectContext(ctx, &out,
		s.q(`SELECT `+achievementColumns+` FROM achievements WHERE tournament_id = ? ORDER BY seq`), tournamentID)
	return out, mapErr("achievement", "*", err)
}

func (s *SQLStore) ListAchievementsByPlayer(ctx context.Context, playerID string) ([]model.Achievement, error) {
	defer observe("list_achievements_by_player", time.Now())
	out := make([]model.Achievement, 0)
	err := s.db.SelectContext(ctx, &out,
		s.q(`SELECT `+achievementColumns+` FROM achievements WHERE player_id = ? ORDER BY created_at, tournament_id, seq`), playerID)
	return out, mapErr("achievement", "*", err)
}

// Coupons

const (
	couponColumns     = "id, tournament_id, player_id, name, total_points, submitted, created_at"
	predictionColumns = "id, coupon_id, type, value, is_correct, points"
)

type couponRow struct {
	ID           string    `db:"id"`
	TournamentID string    `db:"tournament_id"`
	PlayerID     string    `db:"player_id"`
	Name         string    `db:"name"`
	TotalPoints  int       `db:"total_points"`
	Submitted    bool      `db:"submitted"`
	CreatedAt    time.Time `db:"created_at"`
}

type predictionRow struct {
	ID        string `db:"id"`
	CouponID  string `db:"coupon_id"`
	Type      string `db:"type"`
	Value     string `db:"value"`
	IsCorrect *bool  `db:"is_correct"`
	Points    int    `db:"points"`
}

func (r predictionRow) model() (model.Prediction, error) {
	p := model.Prediction{
		ID:        r.ID,
		CouponID:  r.CouponID,
		Type:      model.PredictionType(r.Type),
		IsCorrect: r.IsCorrect,
		Points:    r.Points,
	}
	if err := p.SetPayload(r.Value); err != nil {
		return p, fmt.Errorf("prediction %q: %w", r.ID, err)
	}
	return p, nil
}

func (s *SQLStore) insertPredictions(ctx context.Context, tx *sqlx.Tx, couponID string, preds []model.Prediction) error {
	insert := tx.Rebind(`INSERT INTO predictions (seq, ` + predictionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for i := range preds {
		p := &preds[i]
		p.CouponID = couponID
		if p.ID == "" {
			p.ID = s.set.newID()
		}
		value, err := p.Payload()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insert, i+1, p.ID, couponID, string(p.Type), value, p.IsCorrect, p.Points); err != nil {
			return mapErr("prediction", p.ID, err)
		}
	}
	return nil
}

func (s *SQLStore) CreateCoupon(ctx context.Context, c *model.Coupon) error {
	defer observe("create_coupon", time.Now())
	s.set.stamp(&c.ID, &c.CreatedAt)
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var next int
		if err := tx.GetContext(ctx, &next,
			tx.Rebind(`SELECT COALESCE(MAX(seq), 0) + 1 FROM coupons WHERE tournament_id = ?`), c.TournamentID); err != nil {
			return mapErr("coupon", "*", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO coupons (seq, `+couponColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			next, c.ID, c.TournamentID, c.PlayerID, c.Name, c.TotalPoints, c.Submitted, c.CreatedAt); err != nil {
			return mapErr("coupon", c.ID, err)
		}
		return s.insertPredictions(ctx, tx, c.ID, c.Predictions)
	})
}

func (s *SQLStore) GetCoupon(ctx context.Context, id string) (model.Coupon, error) {
	defer observe("get_coupon", time.Now())
	var row couponRow
	if err := s.db.GetContext(ctx, &row, s.q(`SELECT `+couponColumns+` FROM coupons WHERE id = ?`), id); err != nil {
		return model.Coupon{}, mapErr("coupon", id, err)
	}
	coupons, err := s.attachPredictions(ctx, []couponRow{row},
		s.q(`SELECT `+predictionColumns+` FROM predictions WHERE coupon_id = ? ORDER BY seq`), id)
	if err != nil {
		return model.Coupon{}, err
	}
	return coupons[0], nil
}

func (s *SQLStore) ListCoupons(ctx context.Context, tournamentID string) ([]model.Coupon, error) {
	defer observe("list_coupons", time.Now())
	var rows []couponRow
	if err := s.db.SelectContext(ctx, &rows,
		s.q(`SELECT `+couponColumns+` FROM coupons WHERE tournament_id = ? ORDER BY seq, created_at, id`), tournamentID); err != nil {
		return nil, mapErr("coupon", "*", err)
	}
	return s.attachPredictions(ctx, rows,
		s.q(`SELECT p.id, p.coupon_id, p.type, p.value, p.is_correct, p.points FROM predictions p
			JOIN coupons c ON c.id = p.coupon_id WHERE c.tournament_id = ? ORDER BY p.coupon_id, p.seq`), tournamentID)
}

func (s *SQLStore) attachPredictions(ctx context.Context, rows []couponRow, query string, args ...any) ([]model.Coupon, error) {
	var preds []predictionRow
	if err := s.db.SelectContext(ctx, &preds, query, args...); err != nil {
		return nil, mapErr("prediction", "*", err)
	}
	byCoupon := make(map[string][]model.Prediction, len(rows))
	for _, r := range preds {
		p, err := r.model()
		if err != nil {
			return nil, err
		}
		byCoupon[r.CouponID] = append(byCoupon[r.CouponID], p)
	}

	out := make([]model.Coupon, 0, len(rows))
	for _, r := range rows {
		c := model.Coupon{
			ID:           r.ID,
			TournamentID: r.TournamentID,
			PlayerID:     r.PlayerID,
			Name:         r.Name,
			TotalPoints:  r.TotalPoints,
			Submitted:    r.Submitted,
			CreatedAt:    r.CreatedAt,
			Predictions:  byCoupon[r.ID],
		}
		if c.Predictions == nil {
			c.Predictions = []model.Prediction{}
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *SQLStore) UpdateCoupon(ctx context.Context, c model.Coupon) error {
	defer observe("update_coupon", time.Now())
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE coupons SET name = ?, total_points = ?, submitted = ? WHERE id = ?`),
			c.Name, c.TotalPoints, c.Submitted, c.ID)
		if err != nil {
			return mapErr("coupon", c.ID, err)
		}
		if err := expectOne("coupon", c.ID, res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM predictions WHERE coupon_id = ?`), c.ID); err != nil {
			return mapErr("coupon", c.ID, err)
		}
		return s.insertPredictions(ctx, tx, c.ID, c.Predictions)
	})
}

func (s *SQLStore) DeleteCoupon(ctx context.Context, id string) error {
	defer observe("delete_coupon", time.Now())
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM predictions WHERE coupon_id = ?`), id); err != nil {
			return mapErr("coupon", id, err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM coupons WHERE id = ?`), id)
		if err != nil {
			return mapErr("coupon", id, err)
		}
		return expectOne("coupon", id, res)
	})
}
