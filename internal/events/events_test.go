package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kapu/collabhub-go/internal/domain"
	"go.uber.org/zap"
)

func TestHubSubscribeAndUnsubscribe(t *testing.T) {
	h := NewHub("s1", zap.NewNop())
	var got []domain.EventType
	unsubscribe := h.Subscribe(func(e domain.Event) { got = append(got, e.Type) })

	h.Publish(domain.Event{Type: domain.EventStepAdvanced})
	unsubscribe()
	h.Publish(domain.Event{Type: domain.EventCompleted})

	if len(got) != 1 || got[0] != domain.EventStepAdvanced {
		t.Fatalf("unexpected events %v", got)
	}
	if h.Subscribers() != 0 {
		t.Fatalf("expected no subscribers left")
	}
}

func TestHubCloseDropsSubscribers(t *testing.T) {
	h := NewHub("s1", zap.NewNop())
	calls := 0
	h.Subscribe(func(domain.Event) { calls++ })
	h.Close()
	h.Close()
	h.Publish(domain.Event{Type: domain.EventViewChanged})
	h.Subscribe(func(domain.Event) { calls++ })
	h.Publish(domain.Event{Type: domain.EventViewChanged})

	if calls != 0 || h.Subscribers() != 0 {
		t.Fatalf("closed hub must not deliver, calls=%d", calls)
	}
	select {
	case <-h.Done():
	default:
		t.Fatalf("expected Done to be closed")
	}
}

func TestServeStreamsEvents(t *testing.T) {
	h := NewHub("s1", zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = Serve(w, r, h, zap.NewNop())
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for h.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("stream never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	h.Publish(domain.Event{Type: domain.EventViewChanged, SessionID: "s1", View: domain.ViewOnboarding})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var e domain.Event
	if err := conn.ReadJSON(&e); err != nil {
		t.Fatalf("read: %v", err)
	}
	if e.Type != domain.EventViewChanged || e.View != domain.ViewOnboarding {
		t.Fatalf("unexpected event %+v", e)
	}

	h.Close()
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected normal close after hub shutdown, got %v", err)
	}
}
