package router

import (
	"testing"

	"github.com/kapu/collabhub-go/internal/domain"
)

type fakePublisher struct {
	views []domain.View
}

func (f *fakePublisher) Publish(e domain.Event) {
	f.views = append(f.views, e.View)
}

func TestRouterInfluencerLifecycle(t *testing.T) {
	pub := &fakePublisher{}
	r := New("s1", pub)

	if r.View() != domain.ViewLanding {
		t.Fatalf("expected landing first, got %s", r.View())
	}
	if err := r.GetStarted(domain.UserTypeInfluencer); err != nil {
		t.Fatalf("get started: %v", err)
	}
	if r.View() != domain.ViewOnboarding {
		t.Fatalf("expected onboarding, got %s", r.View())
	}
	r.Complete()
	if r.View() != domain.ViewInfluencerDashboard {
		t.Fatalf("expected influencer dashboard, got %s", r.View())
	}
	r.Logout()
	if r.View() != domain.ViewLanding || r.UserType() != "" {
		t.Fatalf("expected landing with cleared user type, got %s / %q", r.View(), r.UserType())
	}

	want := []domain.View{domain.ViewOnboarding, domain.ViewInfluencerDashboard, domain.ViewLanding}
	if len(pub.views) != len(want) {
		t.Fatalf("expected %v, got %v", want, pub.views)
	}
	for i := range want {
		if pub.views[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, pub.views)
		}
	}
}

func TestRouterBrandCompletionAndAbandon(t *testing.T) {
	r := New("s1", nil)
	_ = r.GetStarted(domain.UserTypeBrand)
	r.Complete()
	if r.View() != domain.ViewBrandDashboard {
		t.Fatalf("expected brand dashboard, got %s", r.View())
	}

	_ = r.GetStarted(domain.UserTypeBrand)
	r.Abandon()
	if r.View() != domain.ViewLanding {
		t.Fatalf("expected landing after abandon, got %s", r.View())
	}
	if r.UserType() != domain.UserTypeBrand {
		t.Fatalf("abandon keeps the selected user type, got %q", r.UserType())
	}
}

func TestRouterRejectsInvalidUserType(t *testing.T) {
	r := New("s1", nil)
	if err := r.GetStarted("agency"); err == nil {
		t.Fatalf("expected invalid user type to be rejected")
	}
	if r.View() != domain.ViewLanding {
		t.Fatalf("expected to stay on landing, got %s", r.View())
	}
}
