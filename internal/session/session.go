package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kapu/collabhub-go/internal/constants"
	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/events"
	"github.com/kapu/collabhub-go/internal/onboarding"
	"github.com/kapu/collabhub-go/internal/router"
	"github.com/kapu/collabhub-go/internal/social"
	"github.com/kapu/collabhub-go/internal/steps"
	"github.com/kapu/collabhub-go/internal/store"
	apperrors "github.com/kapu/collabhub-go/pkg/errors"
	"go.uber.org/zap"
)

// Upload is a file held in memory for the lifetime of its session.
type Upload struct {
	Ref  domain.FileRef
	Data []byte
}

// Snapshot is the client view of a session.
type Snapshot struct {
	ID        string          `json:"id"`
	View      domain.View     `json:"view"`
	UserType  domain.UserType `json:"userType,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Session owns one visitor's view switch, onboarding run, profile store and
// uploads. Lock order is session, then flow, then router. uploadsMu is a
// leaf and may be taken under any of them.
type Session struct {
	id        string
	createdAt time.Time
	registry  *steps.Registry
	store     store.Store
	hub       *events.Hub
	router    *router.Router
	verifier  *onboarding.Verifier
	now       func() time.Time
	logger    *zap.Logger

	mu         sync.Mutex
	flow       *onboarding.Flow
	lastSeen   time.Time
	oauthNonce string
	ended      bool

	uploadsMu sync.RWMutex
	uploads   map[string]Upload
}

func (s *Session) ID() string { return s.id }

func (s *Session) Hub() *events.Hub { return s.hub }

func (s *Session) Store() store.Store { return s.store }

// Context carries the session's profile store for dashboard and step reads.
func (s *Session) Context(ctx context.Context) context.Context {
	return store.NewContext(ctx, s.store)
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:        s.id,
		View:      s.router.View(),
		UserType:  s.router.UserType(),
		CreatedAt: s.createdAt,
	}
}

func (s *Session) View() domain.View { return s.router.View() }

func (s *Session) UserType() domain.UserType { return s.router.UserType() }

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) checkOpen() error {
	if s.ended {
		return apperrors.NewSessionError("session has ended", s.id, http.StatusGone)
	}
	return nil
}

// GetStarted picks the user type on the landing view and starts onboarding.
func (s *Session) GetStarted(u domain.UserType) (onboarding.FlowState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return onboarding.FlowState{}, err
	}
	if v := s.router.View(); v != domain.ViewLanding {
		return onboarding.FlowState{}, apperrors.NewFlowError(fmt.Sprintf("cannot start onboarding from %s", v), "")
	}
	if !u.IsValid() {
		return onboarding.FlowState{}, apperrors.NewValidationError("invalid user type", map[string]string{
			"userType": "Choose influencer or brand",
		})
	}

	if s.flow != nil {
		s.flow.Close()
	}
	s.flow = onboarding.NewFlow(onboarding.FlowConfig{
		SessionID: s.id,
		UserType:  u,
		Registry:  s.registry,
		Verifier:  s.verifier,
		Store:     s.store,
		Publisher: s.hub,
		Files:     s.lookupFile,
		FileURL:   s.FileURL,
		Now:       s.now,
		Logger:    s.logger,
	}, func(domain.Data) {
		s.router.Complete()
	}, func() {
		s.router.Abandon()
	})
	if err := s.router.GetStarted(u); err != nil {
		return onboarding.FlowState{}, err
	}

	s.logger.Info("Onboarding started",
		zap.String("session_id", s.id),
		zap.String("user_type", u.String()))
	return s.flow.State(), nil
}

// activeFlow returns the run while the session is on the onboarding view.
func (s *Session) activeFlow() (*onboarding.Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if s.flow == nil || s.router.View() != domain.ViewOnboarding {
		return nil, apperrors.NewFlowError("session is not onboarding", "")
	}
	return s.flow, nil
}

func (s *Session) FlowState() (onboarding.FlowState, error) {
	f, err := s.activeFlow()
	if err != nil {
		return onboarding.FlowState{}, err
	}
	return f.State(), nil
}

func (s *Session) Submit(ctx context.Context, body io.Reader) (onboarding.SubmitResult, error) {
	f, err := s.activeFlow()
	if err != nil {
		return onboarding.SubmitResult{}, err
	}
	return f.Submit(s.Context(ctx), body)
}

func (s *Session) Back() (onboarding.Outcome, error) {
	f, err := s.activeFlow()
	if err != nil {
		return "", err
	}
	return f.Back()
}

// Logout returns to landing, clears the user type and cancels any pending
// verification. Profiles stay in the store.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.flow != nil {
		s.flow.Close()
		s.flow = nil
	}
	s.router.Logout()
	return nil
}

// AddUpload reads r into memory and returns its file reference.
func (s *Session) AddUpload(name, contentType string, r io.Reader) (domain.FileRef, error) {
	data, err := io.ReadAll(io.LimitReader(r, constants.UploadLimits.MaxFileSize+1))
	if err != nil {
		return domain.FileRef{}, apperrors.NewAppError("failed to read upload", apperrors.CodeAppError, http.StatusBadRequest, nil).WithCause(err)
	}
	if int64(len(data)) > constants.UploadLimits.MaxFileSize {
		return domain.FileRef{}, apperrors.NewValidationError("file too large", map[string]string{
			"file": fmt.Sprintf("File must be at most %d MB", constants.UploadLimits.MaxFileSize>>20),
		})
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return domain.FileRef{}, err
	}
	s.uploadsMu.Lock()
	defer s.uploadsMu.Unlock()
	if len(s.uploads) >= constants.UploadLimits.MaxFilesPerSession {
		return domain.FileRef{}, apperrors.NewValidationError("too many uploads", map[string]string{
			"file": fmt.Sprintf("At most %d files per session", constants.UploadLimits.MaxFilesPerSession),
		})
	}

	ref := domain.FileRef{
		ID:          uuid.NewString(),
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
	}
	s.uploads[ref.ID] = Upload{Ref: ref, Data: data}

	s.logger.Debug("Upload stored",
		zap.String("session_id", s.id),
		zap.String("file_id", ref.ID),
		zap.String("content_type", contentType),
		zap.Int64("size", ref.Size))
	return ref, nil
}

func (s *Session) Upload(id string) (Upload, bool) {
	s.uploadsMu.RLock()
	defer s.uploadsMu.RUnlock()
	u, ok := s.uploads[id]
	return u, ok
}

// lookupFile resolves step form file references. It runs under the flow lock.
func (s *Session) lookupFile(id string) (domain.FileRef, bool) {
	u, ok := s.Upload(id)
	return u.Ref, ok
}

// FileURL is where the session serves an uploaded file.
func (s *Session) FileURL(ref domain.FileRef) string {
	if ref.ID == "" {
		return ""
	}
	return fmt.Sprintf("/api/sessions/%s/uploads/%s", s.id, ref.ID)
}

// BeginOAuth issues the state for a consent round trip. A later call replaces
// the earlier state.
func (s *Session) BeginOAuth() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	state, nonce := social.NewState(s.id)
	s.oauthNonce = nonce
	return state, nil
}

// FinishOAuth consumes the pending state. It reports false for a replayed or
// foreign nonce.
func (s *Session) FinishOAuth(nonce string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended || s.oauthNonce == "" || s.oauthNonce != nonce {
		return false
	}
	s.oauthNonce = ""
	return true
}

// end cancels pending verification, drops profiles and uploads and closes the
// event stream. Safe to call more than once.
func (s *Session) end(ctx context.Context) error {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return nil
	}
	s.ended = true
	if s.flow != nil {
		s.flow.Close()
		s.flow = nil
	}
	s.uploadsMu.Lock()
	s.uploads = nil
	s.uploadsMu.Unlock()
	s.mu.Unlock()

	s.verifier.Close()
	s.hub.Close()
	return s.store.Clear(ctx)
}
