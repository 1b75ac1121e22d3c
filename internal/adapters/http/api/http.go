// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/fcleague/pkg/logger"
	"github.com/okian/fcleague/pkg/metrics"
)

const (
	defaultMaxLimit = 100
	maxBodyBytes    = 1 << 20
	maxUploadBytes  = 32 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PlayerDependencies
	TeamDependencies
	TournamentDependencies
	MediaDependencies
	ScheduleDependencies
	StandingsDependencies
	AchievementDependencies
	CouponDependencies
	LeaderboardDependencies
	StatsProvider
}

// Server wires HTTP routes for the league API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	playerHandler      *PlayerHandler
	teamHandler        *TeamHandler
	tournamentHandler  *TournamentHandler
	mediaHandler       *MediaHandler
	scheduleHandler    *ScheduleHandler
	standingsHandler   *StandingsHandler
	achievementHandler *AchievementHandler
	couponHandler      *CouponHandler
	leaderboardHandler *LeaderboardHandler

	corsOrigins []string
}

// Option applies a configuration option to the Server.
type Option func(*serverConfig)

type serverConfig struct {
	maxLimit    int
	corsOrigins []string
}

// WithMaxLeaderboardLimit caps the limit query parameter.
func WithMaxLeaderboardLimit(n int) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxLimit = n
		}
	}
}

// WithCORSOrigins sets the allowed cross-origin callers.
func WithCORSOrigins(origins []string) Option {
	return func(c *serverConfig) {
		c.corsOrigins = origins
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	cfg := serverConfig{maxLimit: defaultMaxLimit, corsOrigins: []string{"*"}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		playerHandler:      NewPlayerHandler(deps),
		teamHandler:        NewTeamHandler(deps),
		tournamentHandler:  NewTournamentHandler(deps),
		mediaHandler:       NewMediaHandler(deps),
		scheduleHandler:    NewScheduleHandler(deps),
		standingsHandler:   NewStandingsHandler(deps),
		achievementHandler: NewAchievementHandler(deps),
		couponHandler:      NewCouponHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, cfg.maxLimit),
		corsOrigins:        cfg.corsOrigins,
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/players", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.playerHandler.HandleList, "players"))
		r.Post("/", MetricsMiddleware(s.playerHandler.HandleCreate, "players"))
		r.Get("/{id}", MetricsMiddleware(s.playerHandler.HandleGet, "player"))
		r.Put("/{id}", MetricsMiddleware(s.playerHandler.HandleUpdate, "player"))
		r.Delete("/{id}", MetricsMiddleware(s.playerHandler.HandleDelete, "player"))
		r.Get("/{id}/history", MetricsMiddleware(s.playerHandler.HandleHistory, "player_history"))
		r.Post("/{id}/photo", MetricsMiddleware(s.mediaHandler.HandlePlayerPhoto, "player_photo"))
	})

	r.Route("/teams", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.teamHandler.HandleList, "teams"))
		r.Post("/", MetricsMiddleware(s.teamHandler.HandleCreate, "teams"))
		r.Get("/{id}", MetricsMiddleware(s.teamHandler.HandleGet, "team"))
		r.Put("/{id}", MetricsMiddleware(s.teamHandler.HandleUpdate, "team"))
		r.Delete("/{id}", MetricsMiddleware(s.teamHandler.HandleDelete, "team"))
	})

	r.Route("/tournaments", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.tournamentHandler.HandleList, "tournaments"))
		r.Post("/", MetricsMiddleware(s.tournamentHandler.HandleCreate, "tournaments"))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", MetricsMiddleware(s.tournamentHandler.HandleGet, "tournament"))
			r.Put("/", MetricsMiddleware(s.tournamentHandler.HandleUpdate, "tournament"))
			r.Delete("/", MetricsMiddleware(s.tournamentHandler.HandleDelete, "tournament"))
			r.Post("/media/{kind}", MetricsMiddleware(s.mediaHandler.HandleTournamentMedia, "tournament_media"))
			r.Post("/schedule", MetricsMiddleware(s.scheduleHandler.HandleGenerate, "schedule"))
			r.Get("/matches", MetricsMiddleware(s.scheduleHandler.HandleListMatches, "matches"))
			r.Get("/standings", MetricsMiddleware(s.standingsHandler.HandleGet, "standings"))
			r.Post("/finalize", MetricsMiddleware(s.achievementHandler.HandleFinalize, "finalize"))
			r.Get("/achievements", MetricsMiddleware(s.achievementHandler.HandleList, "achievements"))
			r.Get("/coupons", MetricsMiddleware(s.couponHandler.HandleList, "coupons"))
			r.Post("/coupons", MetricsMiddleware(s.couponHandler.HandleCreate, "coupons"))
			r.Post("/coupons/score", MetricsMiddleware(s.couponHandler.HandleScore, "coupons_score"))
			r.Get("/betting/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "betting_leaderboard"))
		})
	})

	r.Put("/matches/{id}/result", MetricsMiddleware(s.scheduleHandler.HandleRecordResult, "match_result"))
	r.Delete("/matches/{id}/result", MetricsMiddleware(s.scheduleHandler.HandleClearResult, "match_result"))

	r.Route("/coupons/{id}", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.couponHandler.HandleGet, "coupon"))
		r.Post("/submit", MetricsMiddleware(s.couponHandler.HandleSubmit, "coupon_submit"))
		r.Put("/predictions/{pid}/adjudication", MetricsMiddleware(s.couponHandler.HandleAdjudicate, "adjudication"))
	})
}

// Handler builds a chi router with every route registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// respondError classifies err and writes it. Server errors are logged since
// their detail is not meant for the caller.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Named("api").Error(r.Context(), "request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.Error(err))
		if status == http.StatusInternalServerError {
			err = nil
		}
	}
	writeError(w, status, code, err)
}

// decodeJSON reads a single JSON document into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", ErrBadRequest, err)
	}
	return nil
}
