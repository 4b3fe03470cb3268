package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/zaqqye/signage_backend/internal/actions"
	"github.com/zaqqye/signage_backend/internal/analytics"
	"github.com/zaqqye/signage_backend/internal/database"
	"github.com/zaqqye/signage_backend/internal/metrics"
	"github.com/zaqqye/signage_backend/internal/models"
	"github.com/zaqqye/signage_backend/internal/tasks"
	"github.com/zaqqye/signage_backend/internal/ws"
)

type DataController struct {
	Store    database.Store
	Recorder *analytics.Recorder
	Tasks    *tasks.Dispatcher
	Hubs     *ws.Hubs
	Options  actions.Options
}

// DashboardData is the GET_DASHBOARD_DATA response: the client-safe content
// with the visualization documents alongside.
type DashboardData struct {
	models.ClientContent
	AnalyticsData []json.RawMessage  `json:"analyticsData"`
	ExposureData  models.ExposureMap `json:"exposureData"`
}

func (dc *DataController) Dispatch(c *gin.Context) {
	var env actions.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	action, err := actions.Decode(env)
	if err != nil {
		metrics.RecordAction(env.Action, "rejected")
		actionError(c, "failed to process action", err)
		return
	}

	switch a := action.(type) {
	case actions.GetDashboardData:
		dc.dashboard(c)
	case actions.ClearVisualizationData:
		dc.clearVisualization(c)
	case actions.Mutation:
		dc.mutate(c, a)
	}
}

func (dc *DataController) dashboard(c *gin.Context) {
	var (
		content  *models.Content
		history  []json.RawMessage
		exposure models.ExposureMap
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		content, err = database.LoadContent(ctx, dc.Store)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = database.LoadAnalyticsRows(ctx, dc.Store)
		return err
	})
	g.Go(func() error {
		var err error
		exposure, err = database.LoadExposure(ctx, dc.Store)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.RecordAction(string(actions.NameGetDashboardData), "error")
		serverError(c, "data", "failed to read dashboard data", err)
		return
	}
	metrics.RecordAction(string(actions.NameGetDashboardData), "ok")
	c.JSON(http.StatusOK, DashboardData{
		ClientContent: content.ClientSafe(),
		AnalyticsData: history,
		ExposureData:  exposure,
	})
}

func (dc *DataController) clearVisualization(c *gin.Context) {
	if err := database.ClearVisualization(c.Request.Context(), dc.Store); err != nil {
		metrics.RecordAction(string(actions.NameClearVisualizationData), "error")
		serverError(c, "data", "failed to clear visualization data", err)
		return
	}
	metrics.RecordAction(string(actions.NameClearVisualizationData), "ok")
	c.JSON(http.StatusOK, gin.H{"message": "visualization data cleared"})
}

func (dc *DataController) mutate(c *gin.Context, m actions.Mutation) {
	name := string(m.ActionName())
	var outcome actions.Outcome
	content, err := database.UpdateContent(c.Request.Context(), dc.Store, func(doc *models.Content) error {
		out, err := actions.Apply(doc, m, dc.Options)
		outcome = out
		return err
	})
	if err != nil {
		var aerr *actions.Error
		if errors.As(err, &aerr) {
			metrics.RecordAction(name, "rejected")
		} else {
			metrics.RecordAction(name, "error")
		}
		actionError(c, "failed to process action", err)
		return
	}
	metrics.RecordAction(name, "ok")

	if outcome.Analytics && content.Settings.EnableAnalytics && dc.Recorder != nil && dc.Tasks != nil {
		dc.Tasks.Go(c.Request.Context(), "analytics_snapshot", dc.snapshot)
	}
	notifyDisplays(dc.Hubs, m)

	c.JSON(http.StatusOK, gin.H{"message": "data updated", "data": content.ClientSafe()})
}

func (dc *DataController) snapshot(ctx context.Context) error {
	_, err := dc.Recorder.Snapshot(ctx)
	if errors.Is(err, analytics.ErrDisabled) {
		return nil
	}
	return err
}
