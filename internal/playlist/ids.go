package playlist

import (
	"strconv"

	"github.com/zaqqye/signage_backend/internal/models"
)

// NextID returns max(numeric ids)+1 as a string, or "1" for an empty set.
// IDs that are not numbers count as zero.
func NextID(ids []string) string {
	maxID := 0
	for _, id := range ids {
		if n, err := strconv.Atoi(id); err == nil && n > maxID {
			maxID = n
		}
	}
	return strconv.Itoa(maxID + 1)
}

func NextPlaylistID(content *models.Content) string {
	ids := make([]string, 0, len(content.Playlists))
	for _, p := range content.Playlists {
		ids = append(ids, p.ID)
	}
	return NextID(ids)
}

func NextDeviceID(content *models.Content) string {
	ids := make([]string, 0, len(content.Devices))
	for _, d := range content.Devices {
		ids = append(ids, d.ID)
	}
	return NextID(ids)
}
