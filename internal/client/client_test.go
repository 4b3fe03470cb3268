package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/signage_backend/internal/analytics"
	"github.com/zaqqye/signage_backend/internal/config"
	"github.com/zaqqye/signage_backend/internal/database"
	"github.com/zaqqye/signage_backend/internal/models"
	"github.com/zaqqye/signage_backend/internal/playlist"
	"github.com/zaqqye/signage_backend/internal/routes"
	"github.com/zaqqye/signage_backend/internal/tasks"
	"github.com/zaqqye/signage_backend/internal/ws"
)

type server struct {
	url   string
	store database.Store
	hubs  *ws.Hubs
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	c := models.NewContent()
	c.Users = []models.User{{User: "admin", Password: "password"}}
	c.MediaItems = []models.MediaItem{{ID: "m1", Name: "Welcome", Type: "image/png"}}
	c.Playlists = []models.Playlist{{ID: "1", Name: "Main", DeviceIDs: []string{"d1"},
		Items: []models.PlaylistItem{{MediaID: "m1", Duration: 15}}}}
	c.Devices = []models.Device{{ID: "d1", Name: "Lobby"}, {ID: "d2", Name: "Hall"}}
	data, err := database.Encode(c)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), database.ContentDocument, data))

	rec, err := analytics.NewRecorder(store, "UTC")
	require.NoError(t, err)
	dispatcher := tasks.NewDispatcher(zerolog.Nop())

	hubs := ws.NewHubs()
	ctx, cancel := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		hubs.Run(ctx)
		close(hubDone)
	}()

	r := gin.New()
	routes.Register(r, routes.Deps{Store: store, Recorder: rec, Tasks: dispatcher, Hubs: hubs, Cfg: &config.Config{LoginRatePerMinute: 10}})
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		<-hubDone
		srv.Close()
		dispatcher.Wait()
	})
	return &server{url: srv.URL, store: store, hubs: hubs}
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com", zerolog.Nop())
	assert.Error(t, err)
	_, err = New("://", zerolog.Nop())
	assert.Error(t, err)
}

func TestClient_Display(t *testing.T) {
	s := newServer(t)
	c, err := New(s.url+"/", zerolog.Nop())
	require.NoError(t, err)

	state, err := c.Display(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, playlist.StatusPopulated, state.Status)
	require.Len(t, state.Playlist.Items, 1)
	assert.Equal(t, "m1", state.Playlist.Items[0].ID)
	assert.Equal(t, 15, state.Playlist.Items[0].Duration)
	assert.True(t, state.Settings.EnableAnalytics)

	state, err = c.Display(context.Background(), "d2")
	require.NoError(t, err)
	assert.Equal(t, playlist.StatusNotFound, state.Status)
}

func TestClient_Reports(t *testing.T) {
	s := newServer(t)
	c, err := New(s.url, zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Exposure(ctx, "m1"))
	require.NoError(t, c.Analytics(ctx))
	assert.Error(t, c.Exposure(ctx, ""), "a missing media id is a 400")

	exposure, err := database.LoadExposure(ctx, s.store)
	require.NoError(t, err)
	assert.Equal(t, models.ExposureMap{"m1": 1}, exposure)

	history, err := database.LoadAnalytics(ctx, s.store)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].Devices["Lobby"])
}

func TestClient_SubscribeReceivesReload(t *testing.T) {
	s := newServer(t)
	c, err := New(s.url, zerolog.Nop())
	require.NoError(t, err)

	var reloads atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Subscribe(ctx, "d1", func() { reloads.Add(1) }) }()

	require.Eventually(t, func() bool { return s.hubs.Display.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	body := []byte(`{"action":"UPDATE_MEDIA","payload":{"id":"m1","updates":{"name":"Hello"}}}`)
	resp, err := http.Post(s.url+"/api/data", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Eventually(t, func() bool { return reloads.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not stop")
	}
}
