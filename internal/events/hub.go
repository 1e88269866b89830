// Package events fans session events out to subscribers such as websocket clients.
package events

import (
	"sync"

	"github.com/kapu/collabhub-go/internal/domain"
	"go.uber.org/zap"
)

type Callback func(event domain.Event)

type callbackEntry struct {
	id       int
	callback Callback
}

// Hub is a per-session callback registry. Publish runs callbacks synchronously
// on the caller's goroutine, often with the flow lock held, so callbacks must
// not block and must not call back into the flow.
type Hub struct {
	sessionID      string
	logger         *zap.Logger
	callbacks      []callbackEntry
	nextCallbackID int
	closed         bool
	mu             sync.RWMutex
	closeOnce      sync.Once
	done           chan struct{}
}

func NewHub(sessionID string, logger *zap.Logger) *Hub {
	return &Hub{
		sessionID:      sessionID,
		logger:         logger,
		callbacks:      make([]callbackEntry, 0),
		nextCallbackID: 1,
		done:           make(chan struct{}),
	}
}

// Subscribe registers callback and returns its unsubscribe func.
func (h *Hub) Subscribe(callback Callback) func() {
	h.mu.Lock()
	id := h.nextCallbackID
	h.nextCallbackID++
	if !h.closed {
		h.callbacks = append(h.callbacks, callbackEntry{
			id:       id,
			callback: callback,
		})
	}
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, entry := range h.callbacks {
			if entry.id == id {
				h.callbacks = append(h.callbacks[:i], h.callbacks[i+1:]...)
				break
			}
		}
	}
}

func (h *Hub) Publish(event domain.Event) {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	callbacks := make([]callbackEntry, len(h.callbacks))
	copy(callbacks, h.callbacks)
	h.mu.RUnlock()

	h.logger.Debug("Session event",
		zap.String("session_id", h.sessionID),
		zap.String("type", event.Type.String()),
		zap.Int("subscribers", len(callbacks)),
	)

	for _, entry := range callbacks {
		entry.callback(event)
	}
}

// Subscribers returns the number of registered callbacks.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.callbacks)
}

// Done is closed when the hub shuts down.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Close drops every subscriber and ignores later publishes.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		h.callbacks = make([]callbackEntry, 0)
		h.mu.Unlock()
		close(h.done)
	})
}
