// Package analytics records schedule snapshots and media exposure.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"

	"github.com/zaqqye/signage_backend/internal/database"
	xlog "github.com/zaqqye/signage_backend/internal/log"
	"github.com/zaqqye/signage_backend/internal/metrics"
	"github.com/zaqqye/signage_backend/internal/models"
	"github.com/zaqqye/signage_backend/internal/playlist"
)

// DefaultTimezone is where snapshot dates and times are taken.
const DefaultTimezone = "America/Sao_Paulo"

// ErrDisabled is returned when the settings switch analytics off.
var ErrDisabled = errors.New("analytics collection is disabled")

// ErrMissingMediaID rejects an exposure without a media id.
var ErrMissingMediaID = errors.New("mediaId is required")

type Recorder struct {
	store  database.Store
	loc    *time.Location
	now    func() time.Time
	logger zerolog.Logger
}

func NewRecorder(store database.Store, timezone string) (*Recorder, error) {
	if strings.TrimSpace(timezone) == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("analytics timezone %q: %w", timezone, err)
	}
	return &Recorder{
		store:  store,
		loc:    loc,
		now:    time.Now,
		logger: xlog.WithComponent("analytics"),
	}, nil
}

// WithClock replaces the time source.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

func (r *Recorder) Location() *time.Location { return r.loc }

// BuildSnapshot records, per device name, the minutes of one pass over the
// playlist resolved for that device. Devices without one count zero. Two
// devices sharing a name share a column, and the later one wins.
func BuildSnapshot(c *models.Content, at time.Time) models.AnalyticsDataPoint {
	point := models.AnalyticsDataPoint{
		Date:    at.Format("2006-01-02"),
		Time:    at.Format("15:04:05"),
		Devices: make(map[string]int, len(c.Devices)),
	}
	for _, d := range c.Devices {
		point.Devices[d.Name] = playlist.Resolve(d.ID, c).Playlist.Minutes()
	}
	return point
}

// Snapshot appends one analytics row taken now.
func (r *Recorder) Snapshot(ctx context.Context) (models.AnalyticsDataPoint, error) {
	c, err := database.LoadContent(ctx, r.store)
	if err != nil {
		metrics.RecordSnapshot("failed")
		return models.AnalyticsDataPoint{}, err
	}
	if !c.Settings.EnableAnalytics {
		metrics.RecordSnapshot("disabled")
		return models.AnalyticsDataPoint{}, ErrDisabled
	}

	point := BuildSnapshot(c, r.now().In(r.loc))
	if err := database.AppendAnalytics(ctx, r.store, point); err != nil {
		metrics.RecordSnapshot("failed")
		return models.AnalyticsDataPoint{}, fmt.Errorf("append snapshot: %w", err)
	}
	metrics.RecordSnapshot("recorded")
	r.logger.Debug().
		Str("date", point.Date).
		Str("time", point.Time).
		Int("devices", len(point.Devices)).
		Msg("analytics snapshot recorded")
	return point, nil
}

// Enabled reports the current settings.enableAnalytics value.
func (r *Recorder) Enabled(ctx context.Context) (bool, error) {
	c, err := database.LoadContent(ctx, r.store)
	if err != nil {
		return false, err
	}
	return c.Settings.EnableAnalytics, nil
}

// RecordExposure counts one view of mediaID and returns the updated map.
func (r *Recorder) RecordExposure(ctx context.Context, mediaID string) (models.ExposureMap, error) {
	c, err := database.LoadContent(ctx, r.store)
	if err != nil {
		return nil, err
	}
	if !c.Settings.EnableAnalytics {
		return nil, ErrDisabled
	}
	mediaID = strings.TrimSpace(mediaID)
	if mediaID == "" {
		return nil, ErrMissingMediaID
	}
	exposure, err := database.IncrementExposure(ctx, r.store, mediaID)
	if err != nil {
		return nil, fmt.Errorf("increment exposure: %w", err)
	}
	metrics.ExposureEventsTotal.Inc()
	return exposure, nil
}
