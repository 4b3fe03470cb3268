package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/signage_backend/internal/database"
	"github.com/zaqqye/signage_backend/internal/metrics"
	"github.com/zaqqye/signage_backend/internal/utils"
)

type AuthController struct {
	Store database.Store
}

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// Login checks the credentials against the content document. No session is
// issued; the dashboard keeps its own logged-in flag.
func (a *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	content, err := database.LoadContent(c.Request.Context(), a.Store)
	if err != nil {
		serverError(c, "auth", "server error", err)
		return
	}
	for _, u := range content.Users {
		if u.User == req.User && utils.VerifyPassword(u.Password, req.Password) {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "login successful"})
			return
		}
	}
	metrics.LoginRejectedTotal.WithLabelValues("invalid_credentials").Inc()
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid user or password"})
}
