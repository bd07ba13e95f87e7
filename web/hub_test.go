package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sports "sportx"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_Broadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil)
	go hub.Run(ctx)

	conn := dialHub(t, hub)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(MessageTypeSelection, map[string]string{"selectedCountry": "Spain"})

	msg := readMessage(t, conn)
	assert.Equal(t, MessageTypeSelection, msg.Type)
	assert.Equal(t, map[string]any{"selectedCountry": "Spain"}, msg.Data)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestHub_Ping(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil)
	go hub.Run(ctx)

	conn := dialHub(t, hub)
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))

	assert.Equal(t, MessageTypePong, readMessage(t, conn).Type)
}

func TestHub_Disconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil)
	go hub.Run(ctx)

	conn := dialHub(t, hub)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.NotPanics(t, func() { hub.Broadcast(MessageTypePong, nil) })
}

func TestPushUpdates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil)
	go hub.Run(ctx)

	cfg := sports.DefaultConfig()
	state := sports.NewStateStore(nil, cfg, nil)
	dashboard := sports.NewDashboard(sports.NewAggregator(stubGateway{}, cfg, nil), state, nil)
	PushUpdates(ctx, state, dashboard, hub)

	conn := dialHub(t, hub)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	state.ToggleFavorite("4328")
	msg := readMessage(t, conn)
	assert.Equal(t, MessageTypeSelection, msg.Type)

	dashboard.Refresh(ctx, "England")
	seen := map[string]bool{}
	for j := 0; j < 2; j++ {
		seen[readMessage(t, conn).Type] = true
	}
	assert.True(t, seen[MessageTypeDashboard])
}
