package display

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zaqqye/signage_backend/internal/models"
	"github.com/zaqqye/signage_backend/internal/playlist"
)

func TestPlayer_CyclesAndWraps(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := start(t, serve(populated(true, image("m1", 10), image("m2", 5))))

	h.render.expect(t, "state:loading", "state:playing", "show:0:m1")
	h.clock.Advance(10 * time.Second)
	h.render.expect(t, "show:1:m2")
	h.clock.Advance(5 * time.Second)
	h.render.expect(t, "show:0:m1")
	h.report.waitCalls(t, 4)

	h.stop(t)
	exposures, analytics := h.report.snapshot()
	assert.ElementsMatch(t, []string{"m1", "m2", "m1"}, exposures)
	assert.Equal(t, 1, analytics)
	assert.Zero(t, h.clock.active(), "every timer is stopped on exit")
}

func TestPlayer_SingleItemReportsOncePerMount(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := start(t, serve(populated(true, image("m1", 10))))

	h.render.expect(t, "state:loading", "state:playing", "show:0:m1")
	for i := 0; i < 5; i++ {
		h.clock.Advance(10 * time.Second)
	}
	h.render.expectNone(t)

	h.stop(t)
	exposures, _ := h.report.snapshot()
	assert.Equal(t, []string{"m1"}, exposures)
}

func TestPlayer_AnalyticsDisabled(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := start(t, serve(populated(false, image("m1", 10), image("m2", 10))))

	h.render.expect(t, "state:loading", "state:playing", "show:0:m1")
	h.clock.Advance(10 * time.Second)
	h.render.expect(t, "show:1:m2")
	h.clock.Advance(time.Hour)
	h.render.expect(t, "show:0:m1")

	h.stop(t)
	exposures, analytics := h.report.snapshot()
	assert.Empty(t, exposures)
	assert.Zero(t, analytics)
}

func TestPlayer_HourlyAnalytics(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := start(t, serve(populated(true, image("m1", 10))))

	h.render.expect(t, "state:loading", "state:playing", "show:0:m1")
	h.report.waitCalls(t, 2) // exposure and the analytics report at mount

	h.clock.Advance(time.Hour)
	h.report.waitCalls(t, 1)
	h.clock.Advance(time.Hour)
	h.report.waitCalls(t, 1)

	h.stop(t)
	_, analytics := h.report.snapshot()
	assert.Equal(t, 3, analytics)
}

func TestPlayer_TerminalStates(t *testing.T) {
	cases := []struct {
		name   string
		status playlist.Status
		want   string
	}{
		{"not found", playlist.StatusNotFound, "state:not_found"},
		{"empty", playlist.StatusEmpty, "state:empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)
			state := playlist.DisplayState{
				Resolution: playlist.Resolution{Status: tc.status},
				Settings:   models.Settings{EnableAnalytics: true},
			}
			h := start(t, serve(result{state: state}))

			h.render.expect(t, "state:loading", tc.want)
			h.report.waitCalls(t, 1)
			h.clock.Advance(time.Minute)
			h.render.expectNone(t)

			h.stop(t)
			exposures, analytics := h.report.snapshot()
			assert.Empty(t, exposures)
			assert.Equal(t, 1, analytics)
		})
	}
}

func TestPlayer_ReloadRefetchesAndStopsOldTimers(t *testing.T) {
	defer goleak.VerifyNone(t)
	src := serve(
		populated(true, image("m1", 10), image("m2", 10)),
		populated(true, image("m3", 10)),
	)
	h := start(t, src)
	h.render.expect(t, "state:loading", "state:playing", "show:0:m1")

	h.player.Reload()
	h.render.expect(t, "state:loading", "state:playing", "show:0:m3")
	assert.Equal(t, 1, h.clock.active(), "only the new session's analytics ticker remains")

	h.clock.Advance(10 * time.Second)
	h.render.expectNone(t)

	h.stop(t)
	exposures, _ := h.report.snapshot()
	assert.ElementsMatch(t, []string{"m1", "m3"}, exposures)
}

func TestPlayer_IframeReloadsWhileVisible(t *testing.T) {
	defer goleak.VerifyNone(t)
	frame := playlist.Entry{
		MediaItem: models.MediaItem{ID: "f1", Type: models.MediaTypeIframe, Src: "https://example.com", IframeReloadInterval: 1},
		Duration:  90,
	}
	h := start(t, serve(populated(false, frame, image("m1", 100))))

	h.render.expect(t, "state:loading", "state:playing", "show:0:f1")
	h.clock.Advance(time.Minute)
	h.render.expect(t, "frame:f1")
	h.clock.Advance(30 * time.Second)
	h.render.expect(t, "show:1:m1")
	h.clock.Advance(time.Minute)
	h.render.expectNone(t)

	h.stop(t)
}

func TestPlayer_IframeNoReload(t *testing.T) {
	defer goleak.VerifyNone(t)
	frame := playlist.Entry{
		MediaItem: models.MediaItem{ID: "f1", Type: models.MediaTypeIframe, IframeReloadInterval: 1, IframeNoReload: true},
		Duration:  90,
	}
	h := start(t, serve(populated(false, frame, image("m1", 100))))

	h.render.expect(t, "state:loading", "state:playing", "show:0:f1")
	h.clock.Advance(time.Minute)
	h.render.expectNone(t)

	h.stop(t)
}

func TestPlayer_IframeHugeIntervalIsClamped(t *testing.T) {
	defer goleak.VerifyNone(t)
	frame := playlist.Entry{
		MediaItem: models.MediaItem{ID: "f1", Type: models.MediaTypeIframe, IframeReloadInterval: 1e12},
		Duration:  30,
	}
	h := start(t, serve(populated(false, frame)))

	h.render.expect(t, "state:loading", "state:playing", "show:0:f1")
	h.clock.Advance(24 * time.Hour)
	h.render.expectNone(t)
	h.clock.Advance(6 * 24 * time.Hour)
	h.render.expect(t, "frame:f1")

	h.stop(t)
}

func TestPlayer_RetriesAfterFetchError(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := start(t, serve(
		result{err: errors.New("connection refused")},
		populated(false, image("m1", 10)),
	))

	h.render.expect(t, "state:loading", "state:not_found")
	h.clock.Advance(DefaultRetryInterval)
	h.render.expect(t, "state:loading", "state:playing", "show:0:m1")

	h.stop(t)
}

func TestNewPlayer_Validation(t *testing.T) {
	_, err := NewPlayer(Config{})
	assert.Error(t, err)

	_, err = NewPlayer(Config{DeviceID: "d1"})
	assert.Error(t, err)

	p, err := NewPlayer(Config{DeviceID: "d1", Source: serve(populated(true)), Reporter: newReporter(), Renderer: newRecorder()})
	require.NoError(t, err)
	assert.Equal(t, DefaultAnalyticsInterval, p.cfg.AnalyticsInterval)
	assert.IsType(t, SystemClock{}, p.cfg.Clock)
}

func TestPlayer_StopsWhileLoading(t *testing.T) {
	defer goleak.VerifyNone(t)
	blocked := make(chan struct{})
	src := sourceFunc(func(ctx context.Context, _ string) (playlist.DisplayState, error) {
		close(blocked)
		<-ctx.Done()
		return playlist.DisplayState{}, ctx.Err()
	})
	h := start(t, src)
	<-blocked
	h.stop(t)
	h.render.expect(t, "state:loading")
	h.render.expectNone(t)
}

type sourceFunc func(ctx context.Context, deviceID string) (playlist.DisplayState, error)

func (f sourceFunc) Display(ctx context.Context, deviceID string) (playlist.DisplayState, error) {
	return f(ctx, deviceID)
}
