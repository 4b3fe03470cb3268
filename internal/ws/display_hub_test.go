package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*DisplayHub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewDisplayHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	r := gin.New()
	r.GET("/ws/display/:id", DisplayHandler(hub))
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		<-done
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, base, deviceID string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(base+"/ws/display/"+deviceID, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) (Message, error) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return Message{}, err
	}
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg, nil
}

func TestDisplayHub_BroadcastReachesEveryDisplay(t *testing.T) {
	hub, base := startHub(t)
	a := dial(t, base, "d1")
	b := dial(t, base, "d2")
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast(Message{Type: MessageReload})

	for _, conn := range []*websocket.Conn{a, b} {
		msg, err := readMessage(t, conn)
		require.NoError(t, err)
		assert.Equal(t, MessageReload, msg.Type)
	}
}

func TestDisplayHub_NotifyIsScopedToDevice(t *testing.T) {
	hub, base := startHub(t)
	a := dial(t, base, "d1")
	b := dial(t, base, "d2")
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Notify("d2", Message{Type: MessageReload})

	msg, err := readMessage(t, b)
	require.NoError(t, err)
	assert.Equal(t, "d2", msg.DeviceID)

	a.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = a.ReadMessage()
	assert.Error(t, err, "d1 must not receive d2's notice")
}

func TestDisplayHub_UnregistersOnClose(t *testing.T) {
	hub, base := startHub(t)
	conn := dial(t, base, "d1")
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestDisplayHub_NilIsSafe(t *testing.T) {
	var hub *DisplayHub
	assert.NotPanics(t, func() { hub.Broadcast(Message{Type: MessageReload}) })
	assert.Equal(t, 0, hub.Clients())
}
