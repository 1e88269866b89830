package events

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kapu/collabhub-go/internal/constants"
	"github.com/kapu/collabhub-go/internal/domain"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Serve upgrades the request and writes hub events as JSON frames until the
// client disconnects or the hub closes. A client that falls behind loses
// events rather than stalling the publisher.
func Serve(w http.ResponseWriter, r *http.Request, hub *Hub, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	send := make(chan domain.Event, constants.WebSocketConfig.SendBuffer)
	var dropped atomic.Int64
	unsubscribe := hub.Subscribe(func(event domain.Event) {
		select {
		case send <- event:
		default:
			dropped.Add(1)
		}
	})
	defer unsubscribe()

	conn.SetReadLimit(constants.WebSocketConfig.ReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(constants.WebSocketConfig.PongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(constants.WebSocketConfig.PongTimeout))
	})

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	defer func() {
		conn.Close()
		<-readDone
		if n := dropped.Load(); n > 0 {
			logger.Warn("Slow event subscriber dropped events", zap.Int64("dropped", n))
		}
	}()

	logger.Info("Event stream opened", zap.String("remote", r.RemoteAddr))

	ticker := time.NewTicker(constants.WebSocketConfig.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case event := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(constants.WebSocketConfig.WriteTimeout))
			if err := conn.WriteJSON(event); err != nil {
				logger.Debug("Event stream write failed", zap.Error(err))
				return nil
			}
		case <-ticker.C:
			deadline := time.Now().Add(constants.WebSocketConfig.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return nil
			}
		case <-hub.Done():
			deadline := time.Now().Add(constants.WebSocketConfig.WriteTimeout)
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended")
			_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
			return nil
		case <-readDone:
			logger.Info("Event stream closed by client", zap.String("remote", r.RemoteAddr))
			return nil
		}
	}
}
