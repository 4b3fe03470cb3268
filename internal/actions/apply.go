package actions

import (
	"fmt"
	"strings"
	"time"

	"github.com/zaqqye/signage_backend/internal/models"
	"github.com/zaqqye/signage_backend/internal/playlist"
	"github.com/zaqqye/signage_backend/internal/utils"
)

// Options tune how mutations are applied.
type Options struct {
	HashPasswords bool
	Now           func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Outcome describes the side effects a successful mutation asks for.
type Outcome struct {
	// Analytics is set when device schedules may have changed and a snapshot
	// should be recorded after the write.
	Analytics bool
}

// Apply mutates c in place. On error c may be partially modified and must
// not be stored.
func Apply(c *models.Content, m Mutation, opts Options) (Outcome, error) {
	switch a := m.(type) {
	case UpdateSettings:
		a.SettingsPatch.Apply(&c.Settings)
		return Outcome{}, nil
	case CreateUser:
		return Outcome{}, createUser(c, a, opts)
	case UpdateUser:
		return Outcome{}, updateUser(c, a, opts)
	case DeleteUser:
		return Outcome{}, deleteUser(c, a)
	case CreateMedia:
		return Outcome{}, createMedia(c, a, opts)
	case UpdateMedia:
		for i := range c.MediaItems {
			if c.MediaItems[i].ID == a.ID.String() {
				a.Updates.Apply(&c.MediaItems[i])
			}
		}
		return Outcome{}, nil
	case DeleteMedia:
		return deleteMedia(c, []FlexibleString{a.ID}), nil
	case BulkDeleteMedia:
		return deleteMedia(c, a.IDs), nil
	case CreatePlaylist:
		return Outcome{}, createPlaylist(c, a)
	case UpdatePlaylist:
		return updatePlaylist(c, a)
	case DeletePlaylist:
		return deletePlaylist(c, a), nil
	case CreateDevice:
		c.Devices = append(c.Devices, models.Device{
			ID:         playlist.NextDeviceID(c),
			Name:       a.Name,
			PlaylistID: a.PlaylistID.String(),
		})
		return Outcome{Analytics: true}, nil
	case UpdateDevice:
		return updateDevice(c, a), nil
	case DeleteDevice:
		return deleteDevice(c, a), nil
	}
	return Outcome{}, fmt.Errorf("unhandled mutation %T", m)
}

func hashIfEnabled(password string, opts Options) (string, error) {
	if !opts.HashPasswords || utils.IsHashed(password) {
		return password, nil
	}
	return utils.HashPassword(password)
}

func userIndex(c *models.Content, name string) int {
	for i, u := range c.Users {
		if u.User == name {
			return i
		}
	}
	return -1
}

func createUser(c *models.Content, a CreateUser, opts Options) error {
	if userIndex(c, a.User) >= 0 {
		return conflict("user already exists")
	}
	password, err := hashIfEnabled(a.Password, opts)
	if err != nil {
		return err
	}
	c.Users = append(c.Users, models.User{User: a.User, Password: password})
	return nil
}

func updateUser(c *models.Content, a UpdateUser, opts Options) error {
	i := userIndex(c, a.OriginalUser)
	if i < 0 {
		return notFound("original user not found")
	}
	if a.User != a.OriginalUser && userIndex(c, a.User) >= 0 {
		return conflict("new user name is already in use")
	}
	c.Users[i].User = a.User
	if a.Password != "" {
		password, err := hashIfEnabled(a.Password, opts)
		if err != nil {
			return err
		}
		c.Users[i].Password = password
	}
	return nil
}

func deleteUser(c *models.Content, a DeleteUser) error {
	if len(c.Users) <= 1 {
		return badRequest("cannot delete the only user")
	}
	kept := c.Users[:0]
	for _, u := range c.Users {
		if u.User != a.User {
			kept = append(kept, u)
		}
	}
	c.Users = kept
	return nil
}

func createMedia(c *models.Content, a CreateMedia, opts Options) error {
	item := a.MediaItem
	if strings.TrimSpace(item.Name) == "" {
		return badRequest("%s: name is required", NameCreateMedia)
	}
	if strings.TrimSpace(item.Type) == "" {
		return badRequest("%s: type is required", NameCreateMedia)
	}
	item.ID = mediaIDOrNew(item.ID)
	if item.Date == "" {
		item.Date = opts.now().Format("2006-01-02")
	}
	c.MediaItems = append(c.MediaItems, item)
	return nil
}

// deleteMedia removes the media items and prunes every playlist item that
// referenced them.
func deleteMedia(c *models.Content, ids []FlexibleString) Outcome {
	doomed := stringSet(ids)

	kept := c.MediaItems[:0]
	for _, m := range c.MediaItems {
		if _, gone := doomed[m.ID]; !gone {
			kept = append(kept, m)
		}
	}
	c.MediaItems = kept

	var out Outcome
	for i := range c.Playlists {
		before := len(c.Playlists[i].Items)
		items := make([]models.PlaylistItem, 0, before)
		for _, it := range c.Playlists[i].Items {
			if _, gone := doomed[it.MediaID]; !gone {
				items = append(items, it)
			}
		}
		c.Playlists[i].Items = items
		if len(items) != before {
			out.Analytics = true
		}
	}
	return out
}

func createPlaylist(c *models.Content, a CreatePlaylist) error {
	if !IsValidTransition(a.Transition) {
		return badRequest("invalid transition %q", a.Transition)
	}
	items := a.Items
	if items == nil {
		items = []models.PlaylistItem{}
	}
	c.Playlists = append(c.Playlists, models.Playlist{
		ID:         playlist.NextPlaylistID(c),
		Name:       a.Name,
		Items:      items,
		DeviceIDs:  []string{},
		Transition: a.Transition,
	})
	return nil
}

func updatePlaylist(c *models.Content, a UpdatePlaylist) (Outcome, error) {
	if a.Updates.Transition != nil && !IsValidTransition(*a.Updates.Transition) {
		return Outcome{}, badRequest("invalid transition %q", *a.Updates.Transition)
	}
	var out Outcome
	for i := range c.Playlists {
		if c.Playlists[i].ID == a.ID.String() {
			a.Updates.Apply(&c.Playlists[i])
			out.Analytics = true
		}
	}
	return out, nil
}

func deletePlaylist(c *models.Content, a DeletePlaylist) Outcome {
	var out Outcome
	kept := c.Playlists[:0]
	for _, p := range c.Playlists {
		if p.ID == a.ID.String() {
			if len(p.DeviceIDs) > 0 {
				out.Analytics = true
			}
			continue
		}
		kept = append(kept, p)
	}
	c.Playlists = kept
	return out
}

func updateDevice(c *models.Content, a UpdateDevice) Outcome {
	var out Outcome
	for i := range c.Devices {
		if c.Devices[i].ID != a.ID.String() {
			continue
		}
		// A patch without playlistId compares as an empty link.
		var next string
		if a.Updates.PlaylistID != nil {
			next = *a.Updates.PlaylistID
		}
		if next != c.Devices[i].PlaylistID {
			out.Analytics = true
		}
		a.Updates.Apply(&c.Devices[i])
	}
	return out
}

// deleteDevice removes the device and strips it from every playlist's device set.
func deleteDevice(c *models.Content, a DeleteDevice) Outcome {
	id := a.ID.String()
	var out Outcome
	kept := c.Devices[:0]
	for _, d := range c.Devices {
		if d.ID == id {
			out.Analytics = true
			continue
		}
		kept = append(kept, d)
	}
	c.Devices = kept

	for i := range c.Playlists {
		ids := make([]string, 0, len(c.Playlists[i].DeviceIDs))
		for _, did := range c.Playlists[i].DeviceIDs {
			if did != id {
				ids = append(ids, did)
			}
		}
		c.Playlists[i].DeviceIDs = ids
	}
	return out
}
