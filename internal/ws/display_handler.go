package ws

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// Displays are unauthenticated kiosks served from any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// DisplayHandler upgrades /ws/display/:id and keeps the connection until
// either side closes it.
func DisplayHandler(hub *DisplayHub) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hub == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "realtime not available"})
			return
		}
		deviceID := strings.TrimSpace(c.Param("id"))
		if deviceID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "device id is required"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		client := newDisplayClient(hub, conn, deviceID)
		select {
		case hub.register <- client:
		case <-hub.done:
			conn.Close()
			return
		}
		hub.logger.Debug().Str("device_id", deviceID).Msg("display connected")

		go client.writePump()
		client.readPump()
	}
}
