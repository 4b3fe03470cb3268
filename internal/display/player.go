// Package display runs a device's carousel: it fetches the combined playlist,
// advances through it on per-item timers and reports what was shown.
package display

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/zaqqye/signage_backend/internal/playlist"
	"github.com/zaqqye/signage_backend/internal/tasks"
)

const (
	DefaultAnalyticsInterval = time.Hour
	DefaultRetryInterval     = 30 * time.Second
)

// State is what the display currently shows.
type State int

const (
	StateLoading State = iota
	StateNotFound
	StateEmpty
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateNotFound:
		return "not_found"
	case StateEmpty:
		return "empty"
	case StatePlaying:
		return "playing"
	}
	return "loading"
}

// Source fetches the display state of a device.
type Source interface {
	Display(ctx context.Context, deviceID string) (playlist.DisplayState, error)
}

// Reporter receives best-effort analytics from the player.
type Reporter interface {
	Exposure(ctx context.Context, mediaID string) error
	Analytics(ctx context.Context) error
}

type Config struct {
	DeviceID          string
	AnalyticsInterval time.Duration
	RetryInterval     time.Duration
	Source            Source
	Reporter          Reporter
	Renderer          Renderer
	Clock             Clock
	Logger            zerolog.Logger
}

type Player struct {
	cfg    Config
	tasks  *tasks.Dispatcher
	reload chan struct{}
}

func NewPlayer(cfg Config) (*Player, error) {
	if cfg.DeviceID == "" {
		return nil, errors.New("display: device id is required")
	}
	if cfg.Source == nil || cfg.Reporter == nil || cfg.Renderer == nil {
		return nil, errors.New("display: source, reporter and renderer are required")
	}
	if cfg.AnalyticsInterval <= 0 {
		cfg.AnalyticsInterval = DefaultAnalyticsInterval
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	cfg.Logger = cfg.Logger.With().Str("device_id", cfg.DeviceID).Logger()
	return &Player{
		cfg:    cfg,
		tasks:  tasks.NewDispatcher(cfg.Logger),
		reload: make(chan struct{}, 1),
	}, nil
}

// Reload asks the player to tear down the current session and fetch the
// playlist again. Extra requests while one is pending are merged.
func (p *Player) Reload() {
	select {
	case p.reload <- struct{}{}:
	default:
	}
}

// Run plays until ctx is done, then waits for in-flight reports.
func (p *Player) Run(ctx context.Context) error {
	defer p.tasks.Wait()
	for {
		p.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
	}
}

// session is one mount: fetch, play, and return on reload or cancellation.
// Every timer it starts is stopped before it returns.
func (p *Player) session(ctx context.Context) {
	r := p.cfg.Renderer
	r.State(StateLoading)

	state, err := p.cfg.Source.Display(ctx, p.cfg.DeviceID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.cfg.Logger.Warn().Err(err).Msg("failed to load playlist")
		r.State(StateNotFound)
		retry := p.cfg.Clock.NewTimer(p.cfg.RetryInterval)
		defer retry.Stop()
		select {
		case <-ctx.Done():
		case <-p.reload:
		case <-retry.C():
		}
		return
	}

	enabled := state.Settings.EnableAnalytics
	var analyticsC <-chan time.Time
	if enabled {
		ticker := p.cfg.Clock.NewTicker(p.cfg.AnalyticsInterval)
		defer ticker.Stop()
		analyticsC = ticker.C()
	}

	var (
		items     []playlist.Entry
		index     int
		itemTimer Timer
		itemC     <-chan time.Time
		frameTick Ticker
		frameC    <-chan time.Time
	)
	stopItem := func() {
		if itemTimer != nil {
			itemTimer.Stop()
			itemTimer, itemC = nil, nil
		}
		if frameTick != nil {
			frameTick.Stop()
			frameTick, frameC = nil, nil
		}
	}
	defer stopItem()

	// mount starts the timers for items[index]; they exist before anything
	// is drawn so a drawn item always has a running schedule.
	mount := func() {
		stopItem()
		item := items[index]
		if len(items) > 1 {
			itemTimer = p.cfg.Clock.NewTimer(seconds(item.Duration))
			itemC = itemTimer.C()
		}
		if item.ReloadsItself() {
			frameTick = p.cfg.Clock.NewTicker(item.ReloadEvery())
			frameC = frameTick.C()
		}
		r.Show(index, item, state.Playlist.Transition)
		if enabled {
			p.reportExposure(ctx, item.ID)
		}
	}

	switch state.Status {
	case playlist.StatusNotFound:
		r.State(StateNotFound)
	case playlist.StatusEmpty:
		r.State(StateEmpty)
	default:
		items = state.Playlist.Items
		r.State(StatePlaying)
		mount()
	}
	if enabled {
		p.reportAnalytics(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.reload:
			p.cfg.Logger.Info().Msg("reloading playlist")
			return
		case <-analyticsC:
			p.reportAnalytics(ctx)
		case <-itemC:
			index = (index + 1) % len(items)
			mount()
		case <-frameC:
			r.ReloadFrame(items[index])
		}
	}
}

func (p *Player) reportExposure(ctx context.Context, mediaID string) {
	p.tasks.Go(ctx, "exposure", func(ctx context.Context) error {
		return p.cfg.Reporter.Exposure(ctx, mediaID)
	})
}

func (p *Player) reportAnalytics(ctx context.Context) {
	p.tasks.Go(ctx, "analytics", func(ctx context.Context) error {
		return p.cfg.Reporter.Analytics(ctx)
	})
}

func seconds(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	return time.Duration(n) * time.Second
}
