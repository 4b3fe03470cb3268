package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/zaqqye/signage_backend/internal/analytics"
	"github.com/zaqqye/signage_backend/internal/database"
	"github.com/zaqqye/signage_backend/internal/models"
	"github.com/zaqqye/signage_backend/internal/playlist"
)

type AnalyticsController struct {
	Store    database.Store
	Recorder *analytics.Recorder
}

func (ac *AnalyticsController) List(c *gin.Context) {
	rows, err := database.LoadAnalyticsRows(c.Request.Context(), ac.Store)
	if err != nil {
		serverError(c, "analytics", "failed to read analytics data", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (ac *AnalyticsController) Record(c *gin.Context) {
	point, err := ac.Recorder.Snapshot(c.Request.Context())
	if errors.Is(err, analytics.ErrDisabled) {
		c.JSON(http.StatusOK, gin.H{"message": "analytics collection is disabled"})
		return
	}
	if err != nil {
		serverError(c, "analytics", "failed to update analytics data", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "analytics data updated", "data": point})
}

type ExposureController struct {
	Store    database.Store
	Recorder *analytics.Recorder
}

type exposureRequest struct {
	MediaID string `json:"mediaId"`
}

func (ec *ExposureController) Get(c *gin.Context) {
	exposure, err := database.LoadExposure(c.Request.Context(), ec.Store)
	if err != nil {
		serverError(c, "exposure", "failed to read exposure data", err)
		return
	}
	c.JSON(http.StatusOK, exposure)
}

func (ec *ExposureController) Record(c *gin.Context) {
	enabled, err := ec.Recorder.Enabled(c.Request.Context())
	if err != nil {
		serverError(c, "exposure", "failed to update exposure data", err)
		return
	}
	if !enabled {
		c.JSON(http.StatusOK, gin.H{"message": "exposure collection is disabled"})
		return
	}
	var req exposureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	exposure, err := ec.Recorder.RecordExposure(c.Request.Context(), req.MediaID)
	switch {
	case errors.Is(err, analytics.ErrDisabled):
		c.JSON(http.StatusOK, gin.H{"message": "exposure collection is disabled"})
	case errors.Is(err, analytics.ErrMissingMediaID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "no exposure recorded, mediaId is required"})
	case err != nil:
		serverError(c, "exposure", "failed to update exposure data", err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "exposure data updated", "data": exposure})
	}
}

// Devices answers with the exposure attributed to each device.
func (ec *ExposureController) Devices(c *gin.Context) {
	var (
		content  *models.Content
		exposure models.ExposureMap
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		content, err = database.LoadContent(ctx, ec.Store)
		return err
	})
	g.Go(func() error {
		var err error
		exposure, err = database.LoadExposure(ctx, ec.Store)
		return err
	})
	if err := g.Wait(); err != nil {
		serverError(c, "exposure", "failed to read exposure data", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": playlist.AggregateExposure(exposure, content)})
}
