package ws

import (
	"encoding/json"
	"sync"

	"github.com/dfryer1193/signboard/display/domain"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

// subscriberBuffer is the number of pending messages held per viewer before
// the hub starts dropping events for it.
const subscriberBuffer = 16

// Message is the wire envelope for push events.
type Message struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// subscriber is one registered viewer connection.
type subscriber struct {
	id   uuid.UUID
	send chan []byte
}

// Hub fans events out to every registered viewer. It satisfies
// domain.Notifier. Publish never blocks: a viewer whose buffer is full has
// the event dropped and the write path moves on.
type Hub struct {
	mu   sync.Mutex
	subs map[uuid.UUID]*subscriber
}

var _ domain.Notifier = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		subs: make(map[uuid.UUID]*subscriber),
	}
}

// Publish encodes the event envelope once and hands it to every registered
// subscriber. Per-subscriber failure is isolated; the caller never sees an
// error from fan-out.
func (h *Hub) Publish(event string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("Failed to encode push payload")
		return
	}

	data, err := json.Marshal(Message{Event: event, Payload: body})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("Failed to encode push envelope")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subs {
		select {
		case sub.send <- data:
		default:
			log.Warn().Str("subscriber", id.String()).Str("event", event).Msg("Subscriber lagging, dropping event")
		}
	}
}

// SubscriberCount returns the number of registered viewers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) register(sub *subscriber) {
	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()
	log.Info().Str("subscriber", sub.id.String()).Msg("Viewer connected")
}

// unregister removes the subscriber and closes its channel. Safe to call
// more than once for the same subscriber.
func (h *Hub) unregister(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub.id]; !ok {
		return
	}
	delete(h.subs, sub.id)
	close(sub.send)
	log.Info().Str("subscriber", sub.id.String()).Msg("Viewer disconnected")
}
