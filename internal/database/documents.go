package database

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/goccy/go-json"

	"github.com/zaqqye/signage_backend/internal/models"
)

// Encode renders a document the way it is stored on disk.
func Encode(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// LoadContent reads the content document. A missing document yields an
// empty one; a malformed one is an error.
func LoadContent(ctx context.Context, s Store) (*models.Content, error) {
	data, err := s.Load(ctx, ContentDocument)
	if errors.Is(err, ErrNotExist) {
		return models.NewContent(), nil
	}
	if err != nil {
		return nil, err
	}
	c, err := models.DecodeContent(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ContentDocument, err)
	}
	return c, nil
}

// ErrUnchanged may be returned by an update callback to skip the write.
var ErrUnchanged = errors.New("document unchanged")

// UpdateContent applies fn to the content document and rewrites it whole.
// The document passed to fn is the one that gets stored; an error from fn
// leaves storage untouched.
func UpdateContent(ctx context.Context, s Store, fn func(*models.Content) error) (*models.Content, error) {
	var result *models.Content
	err := s.Update(ctx, ContentDocument, func(current []byte) ([]byte, error) {
		c := models.NewContent()
		if current != nil {
			decoded, err := models.DecodeContent(current)
			if err != nil {
				return nil, fmt.Errorf("decode %s: %w", ContentDocument, err)
			}
			c = decoded
		}
		if err := fn(c); err != nil {
			if errors.Is(err, ErrUnchanged) {
				result = c
			}
			return nil, err
		}
		c.Normalize()
		result = c
		return Encode(c)
	})
	if err != nil && !errors.Is(err, ErrUnchanged) {
		return nil, err
	}
	return result, nil
}

func LoadAnalytics(ctx context.Context, s Store) ([]models.AnalyticsDataPoint, error) {
	data, err := s.Load(ctx, AnalyticsDocument)
	if errors.Is(err, ErrNotExist) {
		return []models.AnalyticsDataPoint{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeAnalytics(data)
}

func decodeAnalytics(data []byte) ([]models.AnalyticsDataPoint, error) {
	points := []models.AnalyticsDataPoint{}
	if len(data) == 0 {
		return points, nil
	}
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("decode %s: %w", AnalyticsDocument, err)
	}
	if points == nil {
		points = []models.AnalyticsDataPoint{}
	}
	return points, nil
}

// AppendAnalytics adds a snapshot row and keeps the history in chronological
// order. Existing rows are kept as stored, including columns that are not
// device minutes.
func AppendAnalytics(ctx context.Context, s Store, point models.AnalyticsDataPoint) error {
	return s.Update(ctx, AnalyticsDocument, func(current []byte) ([]byte, error) {
		rows, err := DecodeAnalyticsRows(current)
		if err != nil {
			return nil, err
		}
		row, err := json.Marshal(point)
		if err != nil {
			return nil, err
		}
		rows, err = SortAnalyticsRows(append(rows, row))
		if err != nil {
			return nil, err
		}
		return Encode(rows)
	})
}

// LoadAnalyticsRows reads the analytics history as stored, one raw object per row.
func LoadAnalyticsRows(ctx context.Context, s Store) ([]json.RawMessage, error) {
	data, err := s.Load(ctx, AnalyticsDocument)
	if errors.Is(err, ErrNotExist) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	return DecodeAnalyticsRows(data)
}

// DecodeAnalyticsRows splits an analytics document into its raw rows.
func DecodeAnalyticsRows(data []byte) ([]json.RawMessage, error) {
	rows := []json.RawMessage{}
	if len(bytes.TrimSpace(data)) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", AnalyticsDocument, err)
	}
	if rows == nil {
		rows = []json.RawMessage{}
	}
	return rows, nil
}

// SortAnalyticsRows orders raw rows by date and time. Every row must be an
// object; its bytes are not rewritten.
func SortAnalyticsRows(rows []json.RawMessage) ([]json.RawMessage, error) {
	type keyed struct {
		at  models.AnalyticsDataPoint
		raw json.RawMessage
	}
	all := make([]keyed, len(rows))
	for i, row := range rows {
		all[i].raw = row
		if err := json.Unmarshal(row, &all[i].at); err != nil {
			return nil, fmt.Errorf("decode %s row %d: %w", AnalyticsDocument, i, err)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })
	out := make([]json.RawMessage, len(all))
	for i := range all {
		out[i] = all[i].raw
	}
	return out, nil
}

func LoadExposure(ctx context.Context, s Store) (models.ExposureMap, error) {
	data, err := s.Load(ctx, ExposureDocument)
	if errors.Is(err, ErrNotExist) {
		return models.ExposureMap{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeExposure(data)
}

func decodeExposure(data []byte) (models.ExposureMap, error) {
	exposure := models.ExposureMap{}
	if len(data) == 0 {
		return exposure, nil
	}
	if err := json.Unmarshal(data, &exposure); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ExposureDocument, err)
	}
	if exposure == nil {
		exposure = models.ExposureMap{}
	}
	return exposure, nil
}

// IncrementExposure adds one view to mediaID and returns the updated map.
func IncrementExposure(ctx context.Context, s Store, mediaID string) (models.ExposureMap, error) {
	var result models.ExposureMap
	err := s.Update(ctx, ExposureDocument, func(current []byte) ([]byte, error) {
		exposure, err := decodeExposure(current)
		if err != nil {
			return nil, err
		}
		exposure[mediaID]++
		result = exposure
		return Encode(exposure)
	})
	return result, err
}

// ClearVisualization resets analytics to [] and exposure to {}.
func ClearVisualization(ctx context.Context, s Store) error {
	if err := s.Save(ctx, AnalyticsDocument, []byte("[]")); err != nil {
		return err
	}
	return s.Save(ctx, ExposureDocument, []byte("{}"))
}
