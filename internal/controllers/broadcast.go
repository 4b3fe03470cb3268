package controllers

import (
	"github.com/zaqqye/signage_backend/internal/actions"
	"github.com/zaqqye/signage_backend/internal/ws"
)

// notifyDisplays tells connected displays to reload after a content write.
// Device edits only concern that device; everything else may change any
// device's schedule.
func notifyDisplays(hubs *ws.Hubs, action actions.Action) {
	if hubs == nil || hubs.Display == nil {
		return
	}
	reload := ws.Message{Type: ws.MessageReload}
	switch a := action.(type) {
	case actions.UpdateDevice:
		if a.Updates.PlaylistID == nil {
			return
		}
		hubs.Display.Notify(a.ID.String(), reload)
	case actions.DeleteDevice:
		hubs.Display.Notify(a.ID.String(), reload)
	case actions.CreateUser, actions.UpdateUser, actions.DeleteUser:
		// Accounts are invisible to displays.
	default:
		hubs.Display.Broadcast(reload)
	}
}

// NotifyAll is used when documents change outside a request, such as a
// backup import or an edit on disk.
func NotifyAll(hubs *ws.Hubs) {
	if hubs == nil || hubs.Display == nil {
		return
	}
	hubs.Display.Broadcast(ws.Message{Type: ws.MessageReload})
}
