package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/signage_backend/internal/actions"
	xlog "github.com/zaqqye/signage_backend/internal/log"
)

// serverError logs err and answers 500 with the message and error text.
func serverError(c *gin.Context, component, message string, err error) {
	logger := xlog.Tagged(c.Request.Context(), xlog.WithComponent(component))
	logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	c.JSON(http.StatusInternalServerError, gin.H{"message": message, "error": err.Error()})
}

// actionError maps a rejected action to its status; anything else is a 500.
func actionError(c *gin.Context, message string, err error) {
	var aerr *actions.Error
	if errors.As(err, &aerr) {
		c.JSON(aerr.Status, gin.H{"message": aerr.Message})
		return
	}
	serverError(c, "data", message, err)
}
