package playlist

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/signage_backend/internal/models"
)

func fixture() *models.Content {
	c := models.NewContent()
	c.MediaItems = []models.MediaItem{
		{ID: "m1", Name: "Welcome", Type: "image/png"},
		{ID: "m2", Name: "Promo", Type: "video/mp4"},
		{ID: "m3", Name: "Menu", Type: models.MediaTypeText},
	}
	c.Playlists = []models.Playlist{
		{ID: "1", Name: "Morning", Transition: models.TransitionFade, DeviceIDs: []string{"d1"},
			Items: []models.PlaylistItem{{MediaID: "m1", Duration: 10}, {MediaID: "m2", Duration: 20}}},
		{ID: "2", Name: "Evening", Transition: models.TransitionSlide, DeviceIDs: []string{"d1"},
			Items: []models.PlaylistItem{{MediaID: "m3", Duration: 5}}},
		{ID: "3", Name: "Legacy", DeviceIDs: []string{},
			Items: []models.PlaylistItem{{MediaID: "m2", Duration: 15}, {MediaID: "m1", Duration: 7}}},
		{ID: "4", Name: "Blank", DeviceIDs: []string{"d4"}, Items: []models.PlaylistItem{}},
	}
	c.Devices = []models.Device{
		{ID: "d1", Name: "Lobby"},
		{ID: "d3", Name: "Hall", PlaylistID: "3"},
		{ID: "d4", Name: "Back office"},
		{ID: "d5", Name: "Dangling", PlaylistID: "99"},
	}
	return c
}

func mediaIDs(c *Combined) []string {
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ID)
	}
	return ids
}

func TestResolve_CombinesLinkedPlaylistsInOrder(t *testing.T) {
	res := Resolve("d1", fixture())

	require.Equal(t, StatusPopulated, res.Status)
	assert.Equal(t, []string{"m1", "m2", "m3"}, mediaIDs(res.Playlist))
	assert.Equal(t, []string{"1", "2"}, res.Playlist.Sources)
	assert.Equal(t, 10, res.Playlist.Items[0].Duration)
	assert.Equal(t, "device-d1-combined", res.Playlist.ID)
}

func TestResolve_FadeWins(t *testing.T) {
	res := Resolve("d1", fixture())
	assert.Equal(t, models.TransitionFade, res.Playlist.Transition)

	c := fixture()
	c.Playlists[0].Transition = ""
	res = Resolve("d1", c)
	assert.Equal(t, models.TransitionSlide, res.Playlist.Transition)
}

func TestResolve_LegacyPlaylistID(t *testing.T) {
	res := Resolve("d3", fixture())

	require.Equal(t, StatusPopulated, res.Status)
	assert.Equal(t, []string{"m2", "m1"}, mediaIDs(res.Playlist))
	assert.Equal(t, 15, res.Playlist.Items[0].Duration)
	assert.Equal(t, 7, res.Playlist.Items[1].Duration)
}

func TestResolve_DeviceIDsBeatLegacyLink(t *testing.T) {
	c := fixture()
	c.Devices[0].PlaylistID = "3"

	res := Resolve("d1", c)
	assert.Equal(t, []string{"1", "2"}, res.Playlist.Sources)
}

func TestResolve_NotFound(t *testing.T) {
	c := fixture()
	assert.Equal(t, StatusNotFound, Resolve("unknown", c).Status)
	assert.Equal(t, StatusNotFound, Resolve("d5", c).Status, "legacy link to a missing playlist")
	assert.Nil(t, Resolve("unknown", c).Playlist)
}

func TestResolve_EmptyIsDistinct(t *testing.T) {
	res := Resolve("d4", fixture())

	assert.Equal(t, StatusEmpty, res.Status)
	require.NotNil(t, res.Playlist)
	assert.Empty(t, res.Playlist.Items)
}

func TestResolve_DropsDeletedMedia(t *testing.T) {
	c := fixture()
	c.MediaItems = c.MediaItems[1:]

	res := Resolve("d1", c)
	assert.Equal(t, []string{"m2", "m3"}, mediaIDs(res.Playlist))

	c.MediaItems = nil
	assert.Equal(t, StatusEmpty, Resolve("d1", c).Status)
}

func TestCombined_Minutes(t *testing.T) {
	res := Resolve("d1", fixture())
	assert.Equal(t, 35, res.Playlist.TotalSeconds())
	assert.Equal(t, 1, res.Playlist.Minutes())

	var nilCombined *Combined
	assert.Equal(t, 0, nilCombined.Minutes())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "not_found", StatusNotFound.String())
	assert.Equal(t, "empty", StatusEmpty.String())
	assert.Equal(t, "populated", StatusPopulated.String())
}

func TestDisplayState_JSON(t *testing.T) {
	state := DisplayState{Resolution: Resolve("d4", fixture()), Settings: models.DefaultSettings()}

	data, err := json.Marshal(state)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"empty"`)
	assert.Contains(t, string(data), `"enableAnalytics":true`)

	var back DisplayState
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, StatusEmpty, back.Status)
	require.NotNil(t, back.Playlist)
	assert.Equal(t, "device-d4-combined", back.Playlist.ID)

	assert.Error(t, json.Unmarshal([]byte(`{"status":"broken"}`), &back))
}
