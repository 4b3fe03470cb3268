package models

// Transition is the carousel animation between slides.
type Transition string

const (
	TransitionSlide Transition = "slide"
	TransitionFade  Transition = "fade"
)

// PlaylistItem references a media item; the playlist does not own it.
type PlaylistItem struct {
	MediaID  string `json:"mediaId" validate:"required"`
	Duration int    `json:"duration" validate:"gt=0"`
}

type Playlist struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Items      []PlaylistItem `json:"items"`
	DeviceIDs  []string       `json:"deviceIds"`
	Transition Transition     `json:"transition,omitempty"`
}

// HasDevice reports whether deviceID is in the playlist's device set.
func (p Playlist) HasDevice(deviceID string) bool {
	for _, id := range p.DeviceIDs {
		if id == deviceID {
			return true
		}
	}
	return false
}

// TotalSeconds is the scheduled runtime of one pass over the items.
func (p Playlist) TotalSeconds() int {
	total := 0
	for _, it := range p.Items {
		total += it.Duration
	}
	return total
}

// PlaylistPatch carries the fields of an UPDATE_PLAYLIST request.
type PlaylistPatch struct {
	Name       *string         `json:"name"`
	Items      *[]PlaylistItem `json:"items" validate:"omitempty,dive"`
	DeviceIDs  *[]string       `json:"deviceIds"`
	Transition *Transition     `json:"transition"`
}

func (p PlaylistPatch) Apply(pl *Playlist) {
	setString(&pl.Name, p.Name)
	if p.Items != nil {
		pl.Items = append([]PlaylistItem{}, (*p.Items)...)
	}
	if p.DeviceIDs != nil {
		pl.DeviceIDs = append([]string{}, (*p.DeviceIDs)...)
	}
	if p.Transition != nil {
		pl.Transition = *p.Transition
	}
}
