package display

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zaqqye/signage_backend/internal/models"
	"github.com/zaqqye/signage_backend/internal/playlist"
)

type fakeTimer struct {
	clock    *fakeClock
	c        chan time.Time
	deadline time.Time
	period   time.Duration
	stopped  bool
}

func (t *fakeTimer) C() <-chan time.Time { return t.c }

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeTicker struct{ *fakeTimer }

func (t fakeTicker) Stop() { t.fakeTimer.Stop() }

// fakeClock fires timers only when the test advances it.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) add(d, period time.Duration) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, c: make(chan time.Time, 1), deadline: c.now.Add(d), period: period}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) NewTimer(d time.Duration) Timer { return c.add(d, 0) }
func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("non-positive interval for NewTicker")
	}
	return fakeTicker{c.add(d, d)}
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	for _, t := range c.timers {
		if t.stopped || t.deadline.After(c.now) {
			continue
		}
		select {
		case t.c <- c.now:
		default:
		}
		if t.period > 0 {
			for !t.deadline.After(c.now) {
				t.deadline = t.deadline.Add(t.period)
			}
		} else {
			t.stopped = true
		}
	}
}

// active counts timers that were started and neither fired nor stopped.
func (c *fakeClock) active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

type recorder struct {
	events chan string
}

func newRecorder() *recorder { return &recorder{events: make(chan string, 64)} }

func (r *recorder) State(s State) { r.events <- "state:" + s.String() }

func (r *recorder) Show(index int, item playlist.Entry, _ models.Transition) {
	r.events <- fmt.Sprintf("show:%d:%s", index, item.ID)
}

func (r *recorder) ReloadFrame(item playlist.Entry) { r.events <- "frame:" + item.ID }

func (r *recorder) expect(t *testing.T, want ...string) {
	t.Helper()
	for _, w := range want {
		select {
		case got := <-r.events:
			require.Equal(t, w, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", w)
		}
	}
}

func (r *recorder) expectNone(t *testing.T) {
	t.Helper()
	select {
	case got := <-r.events:
		t.Fatalf("unexpected render %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}

type reporter struct {
	mu        sync.Mutex
	exposures []string
	analytics int
	calls     chan string
}

func newReporter() *reporter { return &reporter{calls: make(chan string, 64)} }

func (r *reporter) Exposure(_ context.Context, mediaID string) error {
	r.mu.Lock()
	r.exposures = append(r.exposures, mediaID)
	r.mu.Unlock()
	r.calls <- "exposure:" + mediaID
	return nil
}

func (r *reporter) Analytics(context.Context) error {
	r.mu.Lock()
	r.analytics++
	r.mu.Unlock()
	r.calls <- "analytics"
	return nil
}

func (r *reporter) waitCalls(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for report %d of %d", i+1, n)
		}
	}
}

func (r *reporter) snapshot() ([]string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.exposures...), r.analytics
}

// sequence serves the given results in order and repeats the last one.
type sequence struct {
	mu      sync.Mutex
	results []result
	calls   int
}

type result struct {
	state playlist.DisplayState
	err   error
}

func (s *sequence) Display(context.Context, string) (playlist.DisplayState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	s.calls++
	return s.results[i].state, s.results[i].err
}

func serve(results ...result) *sequence { return &sequence{results: results} }

func populated(enabled bool, items ...playlist.Entry) result {
	return result{state: playlist.DisplayState{
		Resolution: playlist.Resolution{
			Status:   playlist.StatusPopulated,
			Playlist: &playlist.Combined{ID: "device-d1-combined", Transition: models.TransitionSlide, Items: items},
		},
		Settings: models.Settings{EnableAnalytics: enabled},
	}}
}

func image(id string, seconds int) playlist.Entry {
	return playlist.Entry{MediaItem: models.MediaItem{ID: id, Name: id, Type: "image/png"}, Duration: seconds}
}

type harness struct {
	player *Player
	clock  *fakeClock
	render *recorder
	report *reporter
	cancel context.CancelFunc
	done   chan error
}

func start(t *testing.T, src Source) *harness {
	t.Helper()
	h := &harness{clock: newFakeClock(), render: newRecorder(), report: newReporter(), done: make(chan error, 1)}
	p, err := NewPlayer(Config{
		DeviceID: "d1",
		Source:   src,
		Reporter: h.report,
		Renderer: h.render,
		Clock:    h.clock,
	})
	require.NoError(t, err)
	h.player = p

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- p.Run(ctx) }()
	return h
}

func (h *harness) stop(t *testing.T) {
	t.Helper()
	h.cancel()
	select {
	case err := <-h.done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("player did not stop")
	}
}
