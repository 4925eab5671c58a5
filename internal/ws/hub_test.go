package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/gorilla/websocket"
)

func newTestSubscriber(t *testing.T, buffer int) *subscriber {
	t.Helper()
	id, err := uuid.NewV4()
	if err != nil {
		t.Fatalf("Failed to generate subscriber id: %v", err)
	}
	return &subscriber{id: id, send: make(chan []byte, buffer)}
}

func decodeMessage(t *testing.T, data []byte) Message {
	t.Helper()
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	return msg
}

func TestHub_PublishDeliversToAllSubscribers(t *testing.T) {
	hub := NewHub()
	sub1 := newTestSubscriber(t, 4)
	sub2 := newTestSubscriber(t, 4)
	hub.register(sub1)
	hub.register(sub2)

	hub.Publish("image_updated", map[string]string{"image_url": "/static/images/a.png"})

	for _, sub := range []*subscriber{sub1, sub2} {
		select {
		case data := <-sub.send:
			msg := decodeMessage(t, data)
			if msg.Event != "image_updated" {
				t.Errorf("event = %q, want image_updated", msg.Event)
			}
			if !strings.Contains(string(msg.Payload), "a.png") {
				t.Errorf("payload = %s, want it to carry a.png", msg.Payload)
			}
		default:
			t.Error("subscriber did not receive event")
		}
	}
}

func TestHub_UnregisteredSubscriberReceivesNothing(t *testing.T) {
	hub := NewHub()
	sub := newTestSubscriber(t, 4)
	hub.register(sub)
	hub.unregister(sub)

	hub.Publish("image_updated", map[string]string{"image_url": "/static/images/a.png"})

	if _, open := <-sub.send; open {
		t.Error("channel should be closed and drained after unregister")
	}
	if hub.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount = %d, want 0", hub.SubscriberCount())
	}
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	sub := newTestSubscriber(t, 4)
	hub.register(sub)

	hub.unregister(sub)
	hub.unregister(sub) // must not panic on double close
}

func TestHub_PublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	hub := NewHub()
	stuck := newTestSubscriber(t, 1)
	healthy := newTestSubscriber(t, 4)
	hub.register(stuck)
	hub.register(healthy)

	// Fill the stuck subscriber's buffer, then publish again. The second
	// publish must complete and still reach the healthy subscriber.
	done := make(chan struct{})
	go func() {
		hub.Publish("image_updated", map[string]string{"image_url": "/static/images/1.png"})
		hub.Publish("image_updated", map[string]string{"image_url": "/static/images/2.png"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}

	if got := len(healthy.send); got != 2 {
		t.Errorf("healthy subscriber has %d pending events, want 2", got)
	}
	if got := len(stuck.send); got != 1 {
		t.Errorf("stuck subscriber has %d pending events, want 1 (overflow dropped)", got)
	}
}

func TestHub_DeliveryOrderMatchesPublishOrder(t *testing.T) {
	hub := NewHub()
	sub := newTestSubscriber(t, 8)
	hub.register(sub)

	urls := []string{"/static/images/1.png", "/static/images/2.png", "/static/images/3.png"}
	for _, u := range urls {
		hub.Publish("image_updated", map[string]string{"image_url": u})
	}

	for i, want := range urls {
		data := <-sub.send
		msg := decodeMessage(t, data)
		if !strings.Contains(string(msg.Payload), want) {
			t.Errorf("event %d payload = %s, want %q", i, msg.Payload, want)
		}
	}
}

func TestHub_ServeWS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()

	router := gin.New()
	router.GET("/ws", hub.ServeWS)
	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusSwitchingProtocols)
	}

	// Registration happens synchronously inside ServeWS, so once the dial
	// returns the subscriber is visible.
	if hub.SubscriberCount() != 1 {
		t.Fatalf("SubscriberCount = %d, want 1", hub.SubscriberCount())
	}

	hub.Publish("image_updated", map[string]string{"image_url": "/static/images/live.png"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read pushed event: %v", err)
	}
	msg := decodeMessage(t, data)
	if msg.Event != "image_updated" {
		t.Errorf("event = %q, want image_updated", msg.Event)
	}
	if !strings.Contains(string(msg.Payload), "live.png") {
		t.Errorf("payload = %s, want it to carry live.png", msg.Payload)
	}

	conn.Close()

	// The hub notices the disconnect via the read pump.
	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber was not removed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
