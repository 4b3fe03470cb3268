package models

import "github.com/goccy/go-json"

// Content is the whole content document (data.json).
type Content struct {
	Users      []User      `json:"users"`
	MediaItems []MediaItem `json:"mediaItems"`
	Playlists  []Playlist  `json:"playlists"`
	Devices    []Device    `json:"devices"`
	Settings   Settings    `json:"settings"`
}

// NewContent returns an empty document with default settings.
func NewContent() *Content {
	c := &Content{Settings: DefaultSettings()}
	c.Normalize()
	return c
}

// DecodeContent parses a content document and fills in missing parts.
func DecodeContent(data []byte) (*Content, error) {
	c := &Content{Settings: DefaultSettings()}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	c.Normalize()
	return c, nil
}

// Normalize replaces absent collections with empty ones so the document
// always serializes with arrays rather than nulls.
func (c *Content) Normalize() {
	if c.Users == nil {
		c.Users = []User{}
	}
	if c.MediaItems == nil {
		c.MediaItems = []MediaItem{}
	}
	if c.Playlists == nil {
		c.Playlists = []Playlist{}
	}
	if c.Devices == nil {
		c.Devices = []Device{}
	}
	for i := range c.Playlists {
		if c.Playlists[i].DeviceIDs == nil {
			c.Playlists[i].DeviceIDs = []string{}
		}
		if c.Playlists[i].Items == nil {
			c.Playlists[i].Items = []PlaylistItem{}
		}
	}
}

func (c *Content) Media(id string) (MediaItem, bool) {
	for _, m := range c.MediaItems {
		if m.ID == id {
			return m, true
		}
	}
	return MediaItem{}, false
}

func (c *Content) Playlist(id string) (Playlist, bool) {
	for _, p := range c.Playlists {
		if p.ID == id {
			return p, true
		}
	}
	return Playlist{}, false
}

func (c *Content) Device(id string) (Device, bool) {
	for _, d := range c.Devices {
		if d.ID == id {
			return d, true
		}
	}
	return Device{}, false
}

// ClientContent is the content document with passwords stripped.
type ClientContent struct {
	Users      []PublicUser `json:"users"`
	MediaItems []MediaItem  `json:"mediaItems"`
	Playlists  []Playlist   `json:"playlists"`
	Devices    []Device     `json:"devices"`
	Settings   Settings     `json:"settings"`
}

func (c *Content) ClientSafe() ClientContent {
	return ClientContent{
		Users:      PublicUsers(c.Users),
		MediaItems: c.MediaItems,
		Playlists:  c.Playlists,
		Devices:    c.Devices,
		Settings:   c.Settings,
	}
}
