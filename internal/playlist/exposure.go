package playlist

import (
	"sort"

	"github.com/zaqqye/signage_backend/internal/models"
)

// DeviceViews is the aggregated exposure attributed to one device.
type DeviceViews struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Views int64  `json:"views"`
}

// AggregateExposure sums, per playlist, the raw counters of its items' media
// and attributes that total to every device linked to the playlist through
// either deviceIds or the legacy playlistId. A device reached by both paths
// counts the playlist once. Devices without playlists report zero.
// The result is ordered by views, highest first.
func AggregateExposure(exposure models.ExposureMap, content *models.Content) []DeviceViews {
	views := make([]DeviceViews, len(content.Devices))
	index := make(map[string]int, len(content.Devices))
	for i, d := range content.Devices {
		views[i] = DeviceViews{ID: d.ID, Name: d.Name}
		if _, dup := index[d.ID]; !dup {
			index[d.ID] = i
		}
	}

	for _, p := range content.Playlists {
		var total int64
		for _, item := range p.Items {
			total += exposure[item.MediaID]
		}

		linked := make(map[string]struct{})
		for _, id := range p.DeviceIDs {
			linked[id] = struct{}{}
		}
		for _, d := range content.Devices {
			if d.PlaylistID == p.ID {
				linked[d.ID] = struct{}{}
			}
		}
		for id := range linked {
			if i, ok := index[id]; ok {
				views[i].Views += total
			}
		}
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Views > views[j].Views
	})
	return views
}
