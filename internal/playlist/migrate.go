package playlist

import "github.com/zaqqye/signage_backend/internal/models"

// MigrateLegacyLinks copies Device.PlaylistID links into Playlist.DeviceIDs
// for devices that no playlist lists yet. Resolution and exposure results are
// unchanged by the migration. PlaylistID itself is left in place for older
// clients. It returns the number of links migrated.
func MigrateLegacyLinks(content *models.Content) int {
	listed := make(map[string]bool)
	for _, p := range content.Playlists {
		for _, id := range p.DeviceIDs {
			listed[id] = true
		}
	}

	migrated := 0
	for _, d := range content.Devices {
		if d.PlaylistID == "" || listed[d.ID] {
			continue
		}
		for i := range content.Playlists {
			if content.Playlists[i].ID != d.PlaylistID {
				continue
			}
			content.Playlists[i].DeviceIDs = append(content.Playlists[i].DeviceIDs, d.ID)
			listed[d.ID] = true
			migrated++
			break
		}
	}
	return migrated
}
