package models

// Device is a screen that shows the playlist resolved for it.
type Device struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// PlaylistID is the legacy single-playlist link. Playlist.DeviceIDs takes
	// precedence when the device appears in any of them.
	PlaylistID string `json:"playlistId,omitempty"`
}

type DevicePatch struct {
	Name       *string `json:"name"`
	PlaylistID *string `json:"playlistId"`
}

func (p DevicePatch) Apply(d *Device) {
	setString(&d.Name, p.Name)
	setString(&d.PlaylistID, p.PlaylistID)
}
