// Package playlist derives what each device plays from the content graph.
package playlist

import (
	"fmt"
	"math"

	"github.com/zaqqye/signage_backend/internal/models"
)

// Status tells a display which terminal state it is in.
type Status int

const (
	StatusNotFound Status = iota
	StatusEmpty
	StatusPopulated
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusPopulated:
		return "populated"
	}
	return "not_found"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "empty":
		*s = StatusEmpty
	case "populated":
		*s = StatusPopulated
	case "not_found":
		*s = StatusNotFound
	default:
		return fmt.Errorf("unknown playlist status %q", text)
	}
	return nil
}

// Entry is a media item scheduled for Duration seconds.
type Entry struct {
	models.MediaItem
	Duration int `json:"duration"`
}

// Combined is the concatenation of every playlist linked to one device.
type Combined struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Transition models.Transition `json:"transition"`
	Items      []Entry           `json:"items"`
	Sources    []string          `json:"sources"`
}

// TotalSeconds is the runtime of one pass over the combined items.
func (c *Combined) TotalSeconds() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, it := range c.Items {
		total += it.Duration
	}
	return total
}

// Minutes rounds the runtime up to whole minutes.
func (c *Combined) Minutes() int {
	return int(math.Ceil(float64(c.TotalSeconds()) / 60))
}

type Resolution struct {
	Status   Status    `json:"status"`
	Playlist *Combined `json:"playlist,omitempty"`
}

// DisplayState is everything a display needs to start playing.
type DisplayState struct {
	Resolution
	Settings models.Settings `json:"settings"`
}

// Resolve builds the combined playlist for deviceID. Playlists listing the
// device in deviceIds win; the device's own playlistId is consulted only when
// none do. Items whose media no longer exists are dropped.
func Resolve(deviceID string, content *models.Content) Resolution {
	var linked []models.Playlist
	for _, p := range content.Playlists {
		if p.HasDevice(deviceID) {
			linked = append(linked, p)
		}
	}

	if len(linked) == 0 {
		device, ok := content.Device(deviceID)
		if !ok || device.PlaylistID == "" {
			return Resolution{Status: StatusNotFound}
		}
		p, ok := content.Playlist(device.PlaylistID)
		if !ok {
			return Resolution{Status: StatusNotFound}
		}
		linked = append(linked, p)
	}

	media := make(map[string]models.MediaItem, len(content.MediaItems))
	for _, m := range content.MediaItems {
		if _, dup := media[m.ID]; !dup {
			media[m.ID] = m
		}
	}

	combined := &Combined{
		ID:         fmt.Sprintf("device-%s-combined", deviceID),
		Name:       fmt.Sprintf("Combined Playlist for Device %s", deviceID),
		Transition: models.TransitionSlide,
		Items:      []Entry{},
		Sources:    make([]string, 0, len(linked)),
	}
	for _, p := range linked {
		combined.Sources = append(combined.Sources, p.ID)
		if p.Transition == models.TransitionFade {
			combined.Transition = models.TransitionFade
		}
		for _, item := range p.Items {
			m, ok := media[item.MediaID]
			if !ok {
				continue
			}
			combined.Items = append(combined.Items, Entry{MediaItem: m, Duration: item.Duration})
		}
	}

	if len(combined.Items) == 0 {
		return Resolution{Status: StatusEmpty, Playlist: combined}
	}
	return Resolution{Status: StatusPopulated, Playlist: combined}
}
