package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/fcleague/internal/domain/model"
)

// CouponDependencies defines the interface for betting coupons.
type CouponDependencies interface {
	CreateCoupon(ctx context.Context, c model.Coupon) (model.Coupon, error)
	GetCoupon(ctx context.Context, id string) (model.Coupon, error)
	ListCoupons(ctx context.Context, tournamentID string) ([]model.Coupon, error)
	SubmitCoupon(ctx context.Context, id string) (model.Coupon, error)
	ScoreCoupons(ctx context.Context, tournamentID string) ([]model.Coupon, error)
	AdjudicatePrediction(ctx context.Context, couponID, predictionID string, correct bool) (model.Coupon, error)
}

// CouponHandler handles coupon requests.
type CouponHandler struct {
	deps CouponDependencies
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(deps CouponDependencies) *CouponHandler {
	return &CouponHandler{deps: deps}
}

type couponRequest struct {
	PlayerID    string             `json:"player_id"`
	Name        string             `json:"name"`
	Predictions []model.Prediction `json:"predictions"`
}

type adjudicationRequest struct {
	Correct *bool `json:"correct"`
}

// HandleList handles GET /tournaments/{id}/coupons.
func (h *CouponHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.deps.ListCoupons(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, Wrap("api.list_coupons", err))
		return
	}
	writeJSON(w, http.StatusOK, coupons)
}

// HandleCreate handles POST /tournaments/{id}/coupons.
func (h *CouponHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_coupon"
	var req couponRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	c, err := h.deps.CreateCoupon(r.Context(), model.Coupon{
		TournamentID: chi.URLParam(r, "id"),
		PlayerID:     req.PlayerID,
		Name:         req.Name,
		Predictions:  req.Predictions,
	})
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// HandleGet handles GET /coupons/{id}.
func (h *CouponHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.deps.GetCoupon(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, Wrap("api.get_coupon", err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleSubmit handles POST /coupons/{id}/submit.
func (h *CouponHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	c, err := h.deps.SubmitCoupon(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, Wrap("api.submit_coupon", err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleScore handles POST /tournaments/{id}/coupons/score.
func (h *CouponHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.deps.ScoreCoupons(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, Wrap("api.score_coupons", err))
		return
	}
	writeJSON(w, http.StatusOK, coupons)
}

// HandleAdjudicate handles PUT /coupons/{id}/predictions/{pid}/adjudication.
func (h *CouponHandler) HandleAdjudicate(w http.ResponseWriter, r *http.Request) {
	const op = "api.adjudicate"
	var req adjudicationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	if req.Correct == nil {
		respondError(w, r, NewKind(op, ErrBadRequest, "correct is required"))
		return
	}
	c, err := h.deps.AdjudicatePrediction(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "pid"), *req.Correct)
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}
