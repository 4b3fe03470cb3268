package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/signage_backend/internal/database"
	"github.com/zaqqye/signage_backend/internal/playlist"
)

type DisplayController struct {
	Store database.Store
}

// Get returns the combined playlist a display should run.
func (dc *DisplayController) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	content, err := database.LoadContent(c.Request.Context(), dc.Store)
	if err != nil {
		serverError(c, "display", "failed to read content", err)
		return
	}
	state := playlist.DisplayState{
		Resolution: playlist.Resolve(id, content),
		Settings:   content.Settings,
	}
	if state.Status == playlist.StatusNotFound {
		c.JSON(http.StatusNotFound, state)
		return
	}
	c.JSON(http.StatusOK, state)
}
