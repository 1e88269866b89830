package server

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kapu/collabhub-go/internal/constants"
	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/events"
	"github.com/kapu/collabhub-go/internal/onboarding"
	apperrors "github.com/kapu/collabhub-go/pkg/errors"
	"go.uber.org/zap"
)

type stepInfo struct {
	domain.StepDescriptor
	Delayed         bool   `json:"delayed"`
	ProcessingLabel string `json:"processingLabel,omitempty"`
}

func (h *handlers) catalogSteps(w http.ResponseWriter, r *http.Request) {
	u, err := domain.ParseUserType(r.URL.Query().Get("userType"))
	if err != nil {
		respondError(w, h.logger, badRequest("userType must be influencer or brand", err))
		return
	}

	out := make([]stepInfo, 0)
	for _, step := range domain.Steps(u) {
		info := stepInfo{StepDescriptor: step}
		if entry, err := h.Registry.Lookup(step.Kind); err == nil {
			info.Delayed = entry.Delayed
			info.ProcessingLabel = entry.ProcessingLabel
		}
		out = append(out, info)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"userType":    u,
		"displayName": u.DisplayName(),
		"steps":       out,
	})
}

type planInfo struct {
	domain.Plan
	DiscountPercent int `json:"discountPercent"`
}

func (h *handlers) catalogPlans(w http.ResponseWriter, r *http.Request) {
	plans := domain.Plans()
	out := make([]planInfo, 0, len(plans))
	for _, p := range plans {
		out = append(out, planInfo{Plan: p, DiscountPercent: p.DiscountPercent()})
	}
	respondJSON(w, http.StatusOK, map[string]any{"plans": out})
}

func (h *handlers) catalogTags(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"tags": domain.PopularTags})
}

func (h *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	s := h.Sessions.Create()
	w.Header().Set("Location", "/api/sessions/"+s.ID())
	respondJSON(w, http.StatusCreated, s.Snapshot())
}

func (h *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

func (h *handlers) endSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.End(r.Context(), chi.URLParam(r, "sid")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Logout(); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := events.Serve(w, r, s.Hub(), h.logger.With(zap.String("session_id", s.ID()))); err != nil {
		h.logger.Debug("Event stream upgrade failed", zap.Error(err))
	}
}

type startRequest struct {
	UserType string `json:"userType"`
}

func (h *handlers) startOnboarding(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req startRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	u, err := domain.ParseUserType(req.UserType)
	if err != nil {
		u = domain.UserType(req.UserType)
	}
	st, err := s.GetStarted(u)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, st)
}

func (h *handlers) onboardingState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	st, err := s.FlowState()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (h *handlers) submitStep(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	res, err := s.Submit(r.Context(), http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	status := http.StatusOK
	if res.Outcome == onboarding.OutcomeProcessing {
		status = http.StatusAccepted
	}
	respondJSON(w, status, res)
}

func (h *handlers) back(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	outcome, err := s.Back()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"outcome": outcome,
		"view":    s.View(),
	})
}

func (h *handlers) upload(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, constants.UploadLimits.MaxFileSize+(1<<20))
	if err := r.ParseMultipartForm(constants.UploadLimits.MaxMemory); err != nil {
		respondError(w, h.logger, badRequest("invalid multipart upload", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, h.logger, apperrors.NewValidationError("file is required", map[string]string{
			"file": "Please choose a file",
		}))
		return
	}
	defer file.Close()

	ref, err := s.AddUpload(header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"file": ref,
		"url":  s.FileURL(ref),
	})
}

func (h *handlers) download(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	up, found := s.Upload(chi.URLParam(r, "fid"))
	if !found {
		respondError(w, h.logger, apperrors.NewNotFoundError("upload not found", nil))
		return
	}
	w.Header().Set("Content-Type", up.Ref.ContentType)
	http.ServeContent(w, r, up.Ref.Name, s.Snapshot().CreatedAt, bytes.NewReader(up.Data))
}
