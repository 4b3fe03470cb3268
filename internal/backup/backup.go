// Package backup exports and imports the stored documents.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/zaqqye/signage_backend/internal/database"
	"github.com/zaqqye/signage_backend/internal/models"
	"github.com/zaqqye/signage_backend/internal/utils"
)

// Kind selects which documents a backup covers.
type Kind string

const (
	KindContent       Kind = "content"
	KindVisualization Kind = "visualization"
)

// ParseKind maps the type parameter; empty means content.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindContent:
		return KindContent, nil
	case KindVisualization:
		return KindVisualization, nil
	}
	return "", Invalid("invalid backup type")
}

func (k Kind) Filename() string {
	return string(k) + "-backup.json"
}

// InvalidError is an upload that was rejected before anything was written.
type InvalidError struct {
	Message string
}

func (e *InvalidError) Error() string { return e.Message }

func Invalid(message string) error {
	return &InvalidError{Message: message}
}

func IsInvalid(err error) bool {
	var ie *InvalidError
	return errors.As(err, &ie)
}

// Visualization is the combined analytics and exposure backup file. Both
// documents travel as stored.
type Visualization struct {
	AnalyticsData json.RawMessage `json:"analyticsData"`
	ExposureData  json.RawMessage `json:"exposureData"`
}

// File is an export ready to be served as an attachment.
type File struct {
	Filename string
	Body     []byte
	ETag     string
}

// Export renders the backup of the given kind.
func Export(ctx context.Context, s database.Store, kind Kind) (File, error) {
	var (
		body []byte
		err  error
	)
	switch kind {
	case KindContent:
		body, err = s.Load(ctx, database.ContentDocument)
		if errors.Is(err, database.ErrNotExist) {
			body, err = database.Encode(models.NewContent())
		}
	case KindVisualization:
		body, err = exportVisualization(ctx, s)
	default:
		return File{}, Invalid("invalid backup type")
	}
	if err != nil {
		return File{}, fmt.Errorf("export %s: %w", kind, err)
	}
	return File{
		Filename: kind.Filename(),
		Body:     body,
		ETag:     `"` + utils.SHA256Hex(body) + `"`,
	}, nil
}

func exportVisualization(ctx context.Context, s database.Store) ([]byte, error) {
	analytics, err := loadRaw(ctx, s, database.AnalyticsDocument, "[]")
	if err != nil {
		return nil, err
	}
	exposure, err := loadRaw(ctx, s, database.ExposureDocument, "{}")
	if err != nil {
		return nil, err
	}
	return database.Encode(Visualization{AnalyticsData: analytics, ExposureData: exposure})
}

func loadRaw(ctx context.Context, s database.Store, doc database.Document, empty string) (json.RawMessage, error) {
	data, err := s.Load(ctx, doc)
	if errors.Is(err, database.ErrNotExist) || (err == nil && len(bytes.TrimSpace(data)) == 0) {
		return json.RawMessage(empty), nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Import validates body and replaces the documents of the given kind. A
// content backup is stored byte for byte.
func Import(ctx context.Context, s database.Store, kind Kind, body []byte) error {
	if !json.Valid(body) {
		return Invalid("file content is not valid JSON")
	}
	switch kind {
	case KindContent:
		if _, err := models.DecodeContent(body); err != nil {
			return Invalid("file is not a valid content backup")
		}
		return s.Save(ctx, database.ContentDocument, body)
	case KindVisualization:
		return importVisualization(ctx, s, body)
	}
	return Invalid("invalid backup type")
}

func importVisualization(ctx context.Context, s database.Store, body []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return Invalid("visualization backup must be a JSON object")
	}
	if isAbsent(raw["analyticsData"]) || isAbsent(raw["exposureData"]) {
		return Invalid("visualization backup is missing analyticsData or exposureData")
	}

	rows, err := database.DecodeAnalyticsRows(raw["analyticsData"])
	if err != nil {
		return Invalid("visualization backup analyticsData must be an array of rows")
	}
	rows, err = database.SortAnalyticsRows(rows)
	if err != nil {
		return Invalid("visualization backup analyticsData must be an array of rows")
	}
	// counts must stay readable by the exposure endpoints
	var exposure models.ExposureMap
	if err := json.Unmarshal(raw["exposureData"], &exposure); err != nil {
		return Invalid("visualization backup exposureData must map media ids to counts")
	}

	analytics, err := database.Encode(rows)
	if err != nil {
		return err
	}
	if err := s.Save(ctx, database.AnalyticsDocument, analytics); err != nil {
		return err
	}
	return s.Save(ctx, database.ExposureDocument, raw["exposureData"])
}

func isAbsent(v json.RawMessage) bool {
	trimmed := bytes.TrimSpace(v)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
