package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"panelprofits/internal/config"
)

// Envelope is the wire format of one stream message.
type Envelope struct {
	Topic     string    `json:"topic"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

type subscriber struct {
	msgs chan []byte
}

// Hub fans narrative lifecycle events out to websocket subscribers. Slow
// clients get messages dropped rather than blocking publishers.
type Hub struct {
	cfg config.StreamConfig
	log *zap.Logger

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

func NewHub(cfg config.StreamConfig, log *zap.Logger) *Hub {
	return &Hub{
		cfg:  cfg,
		log:  log,
		subs: make(map[*subscriber]struct{}),
	}
}

// Publish broadcasts one message to every connected subscriber. Marshal
// failures drop the message; per-subscriber buffers that are full drop it
// for that subscriber only.
func (h *Hub) Publish(topic string, payload any) {
	raw, err := json.Marshal(Envelope{
		Topic:     topic,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		if h.log != nil {
			h.log.Warn("stream message marshal failed", zap.String("topic", topic), zap.Error(err))
		}
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		select {
		case s.msgs <- raw:
		default:
		}
	}
}

// Subscribe upgrades the request to a websocket and streams messages until
// the client disconnects or the request context ends.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request) error {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return err
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	sub := &subscriber{msgs: make(chan []byte, h.cfg.BufferSize)}
	if !h.add(sub) {
		conn.Close(websocket.StatusGoingAway, "hub shutting down")
		return nil
	}
	defer h.remove(sub)

	ctx := r.Context()

	// Reader only watches for close; clients never send anything we act on.
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return nil
		case msg := <-sub.msgs:
			writeCtx, cancel := context.WithTimeout(ctx, h.cfg.WriteTimeout)
			err := conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

// Close detaches all subscribers; subsequent Subscribe calls are rejected.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	h.subs = make(map[*subscriber]struct{})
	h.mu.Unlock()
}

// Subscribers reports the current connection count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) add(s *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subs[s] = struct{}{}
	return true
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}
