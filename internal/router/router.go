// Package router holds the top-level view switch of a session.
package router

import (
	"fmt"
	"sync"
	"time"

	"github.com/kapu/collabhub-go/internal/domain"
)

// Publisher receives view change events.
type Publisher interface {
	Publish(event domain.Event)
}

// Router is a four-state view switch with no history stack.
type Router struct {
	sessionID string
	publisher Publisher
	now       func() time.Time

	mu       sync.RWMutex
	view     domain.View
	userType domain.UserType
}

func New(sessionID string, publisher Publisher) *Router {
	return &Router{
		sessionID: sessionID,
		publisher: publisher,
		now:       time.Now,
		view:      domain.ViewLanding,
	}
}

func (r *Router) View() domain.View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view
}

// UserType is empty until GetStarted and after Logout.
func (r *Router) UserType() domain.UserType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.userType
}

// GetStarted fixes the user type and switches to onboarding.
func (r *Router) GetStarted(u domain.UserType) error {
	if !u.IsValid() {
		return fmt.Errorf("get started: invalid user type %q", u)
	}
	r.mu.Lock()
	r.userType = u
	r.mu.Unlock()
	r.switchTo(domain.ViewOnboarding)
	return nil
}

// Complete shows the dashboard matching the user type.
func (r *Router) Complete() {
	r.switchTo(domain.DashboardView(r.UserType()))
}

// Abandon returns to the landing view.
func (r *Router) Abandon() {
	r.switchTo(domain.ViewLanding)
}

// Logout returns to landing and clears the user type. Store contents are not touched.
func (r *Router) Logout() {
	r.mu.Lock()
	r.userType = ""
	r.mu.Unlock()
	r.switchTo(domain.ViewLanding)
}

func (r *Router) switchTo(v domain.View) {
	r.mu.Lock()
	changed := r.view != v
	r.view = v
	r.mu.Unlock()

	if changed && r.publisher != nil {
		r.publisher.Publish(domain.Event{
			Type:      domain.EventViewChanged,
			SessionID: r.sessionID,
			View:      v,
			Timestamp: r.now(),
		})
	}
}
