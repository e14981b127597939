package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func dialClient(t *testing.T, hub *Hub, userID uuid.UUID) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(conn, hub, userID)
		hub.Register(client)
		client.Run(context.Background())
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.Connected(userID) == 1 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestHub_PublishDeliversToUser(t *testing.T) {
	hub, _ := startHub(t)
	userID := uuid.New()
	conn := dialClient(t, hub, userID)

	related := uuid.New()
	hub.Publish(&entity.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      valueobject.NotificationPaymentReleased,
		Title:     "Платёж выпущен",
		Message:   "Ваш платёж 1500.00 USD по проекту выпущен.",
		RelatedID: &related,
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string              `json:"type"`
		Data NotificationPayload `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, EventNotification, msg.Type)
	assert.Equal(t, "payment_released", msg.Data.Type)
	assert.Equal(t, "Платёж выпущен", msg.Data.Title)
	require.NotNil(t, msg.Data.RelatedID)
	assert.Equal(t, related, *msg.Data.RelatedID)
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	hub, _ := startHub(t)
	userID := uuid.New()
	conn := dialClient(t, hub, userID)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Connected(userID) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishWithoutClientsDoesNotBlock(t *testing.T) {
	hub, _ := startHub(t)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish(&entity.Notification{ID: uuid.New(), UserID: uuid.New()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish заблокировался")
	}
}

func TestHub_StoppedHubRejectsBroadcast(t *testing.T) {
	hub, cancel := startHub(t)
	cancel()
	<-hub.done

	err := hub.BroadcastToUser(uuid.New(), EventNotification, nil)
	assert.Error(t, err)
}
