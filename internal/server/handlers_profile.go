package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kapu/collabhub-go/internal/constants"
	"github.com/kapu/collabhub-go/internal/dashboard"
	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/social"
	"github.com/kapu/collabhub-go/internal/util"
	apperrors "github.com/kapu/collabhub-go/pkg/errors"
	"go.uber.org/zap"
)

type connectRequest struct {
	Username string `json:"username"`
}

func (h *handlers) connect(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	platform, err := domain.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		respondError(w, h.logger, apperrors.NewNotFoundError(err.Error(), nil))
		return
	}
	var req connectRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	account, err := h.Social.Connect(r.Context(), platform, req.Username)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"account": account})
}

type connectManyRequest struct {
	Accounts []social.ConnectRequest `json:"accounts"`
}

func (h *handlers) connectMany(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	var req connectManyRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	fields := make(map[string]string)
	for i, acc := range req.Accounts {
		p, err := domain.ParsePlatform(string(acc.Platform))
		if err != nil {
			fields[fmt.Sprintf("accounts[%d].platform", i)] = "Unknown platform"
			continue
		}
		req.Accounts[i].Platform = p
	}
	if len(req.Accounts) == 0 {
		fields["accounts"] = "At least one account is required"
	}
	if len(fields) > 0 {
		respondError(w, h.logger, apperrors.NewValidationError("invalid accounts", fields))
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"results": h.Social.ConnectAll(r.Context(), req.Accounts),
	})
}

func (h *handlers) youtubeAuthorize(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if h.YouTubeOAuth == nil {
		respondError(w, h.logger, apperrors.NewAppError("YouTube sign-in is not configured", apperrors.CodeProvider, http.StatusNotImplemented, nil))
		return
	}
	state, err := s.BeginOAuth()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	http.Redirect(w, r, h.YouTubeOAuth.AuthCodeURL(state), http.StatusFound)
}

func (h *handlers) youtubeCallback(w http.ResponseWriter, r *http.Request) {
	if h.YouTubeOAuth == nil {
		respondError(w, h.logger, apperrors.NewAppError("YouTube sign-in is not configured", apperrors.CodeProvider, http.StatusNotImplemented, nil))
		return
	}
	q := r.URL.Query()
	sid, nonce, err := social.ParseState(q.Get("state"))
	if err != nil {
		respondError(w, h.logger, badRequest("invalid oauth state", err))
		return
	}
	s, err := h.Sessions.Get(sid)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if !s.FinishOAuth(nonce) {
		respondError(w, h.logger, badRequest("invalid oauth state", social.ErrInvalidState))
		return
	}
	if reason := q.Get("error"); reason != "" {
		respondError(w, h.logger, apperrors.NewProviderError("YouTube sign-in was not completed", "youtube-oauth", domain.PlatformYouTube.String(), errors.New(util.TruncateString(reason, constants.StringLimits.ProviderMsg))))
		return
	}

	account, err := h.YouTubeOAuth.Connect(r.Context(), q.Get("code"))
	if err != nil {
		h.logger.Warn("YouTube OAuth connect failed", zap.String("session_id", sid), zap.Error(err))
		respondError(w, h.logger, apperrors.NewProviderError("YouTube sign-in failed", "youtube-oauth", domain.PlatformYouTube.String(), err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"account": account})
}

type profileResponse struct {
	UserType   domain.UserType           `json:"userType,omitempty"`
	Influencer *domain.InfluencerProfile `json:"influencer"`
	Brand      *domain.BrandProfile      `json:"brand"`
}

func (h *handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	inf, err := s.Store().InfluencerProfile(ctx)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	brand, err := s.Store().BrandProfile(ctx)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, profileResponse{UserType: s.UserType(), Influencer: inf, Brand: brand})
}

func (h *handlers) patchInfluencer(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var u domain.InfluencerProfileUpdate
	if err := decodeJSON(r.Body, &u); err != nil {
		respondError(w, h.logger, err)
		return
	}
	ctx := r.Context()
	if err := s.Store().UpdateInfluencerProfile(ctx, u); err != nil {
		respondError(w, h.logger, err)
		return
	}
	p, err := s.Store().InfluencerProfile(ctx)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"influencer": p})
}

func (h *handlers) patchBrand(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var u domain.BrandProfileUpdate
	if err := decodeJSON(r.Body, &u); err != nil {
		respondError(w, h.logger, err)
		return
	}
	ctx := r.Context()
	if err := s.Store().UpdateBrandProfile(ctx, u); err != nil {
		respondError(w, h.logger, err)
		return
	}
	p, err := s.Store().BrandProfile(ctx)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"brand": p})
}

func (h *handlers) getDashboard(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	ctx := s.Context(r.Context())
	switch s.View() {
	case domain.ViewInfluencerDashboard:
		d, err := h.Dashboards.Influencer(ctx)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		respondJSON(w, http.StatusOK, d)
	case domain.ViewBrandDashboard:
		d, err := h.Dashboards.Brand(ctx)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		respondJSON(w, http.StatusOK, d)
	default:
		respondError(w, h.logger, apperrors.NewSessionError("no dashboard on the "+s.View().String()+" view", s.ID(), http.StatusConflict))
	}
}

func (h *handlers) discovery(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if s.View() != domain.ViewBrandDashboard {
		respondError(w, h.logger, apperrors.NewSessionError("discovery is only available on the brand dashboard", s.ID(), http.StatusConflict))
		return
	}
	filter, err := dashboard.ParseDiscoveryFilter(r.URL.Query())
	if err != nil {
		respondError(w, h.logger, badRequest("invalid discovery filter", err))
		return
	}
	d, err := h.Dashboards.Brand(s.Context(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"filter":      filter,
		"influencers": filter.Apply(d.Discovery),
	})
}
