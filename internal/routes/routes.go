package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zaqqye/signage_backend/internal/actions"
	"github.com/zaqqye/signage_backend/internal/analytics"
	"github.com/zaqqye/signage_backend/internal/config"
	"github.com/zaqqye/signage_backend/internal/controllers"
	"github.com/zaqqye/signage_backend/internal/database"
	"github.com/zaqqye/signage_backend/internal/middleware"
	"github.com/zaqqye/signage_backend/internal/tasks"
	"github.com/zaqqye/signage_backend/internal/ws"
)

// Deps are the shared services handlers are built from.
type Deps struct {
	Store    database.Store
	Recorder *analytics.Recorder
	Tasks    *tasks.Dispatcher
	Hubs     *ws.Hubs
	Cfg      *config.Config
}

func Register(r *gin.Engine, d Deps) {
	dataCtrl := &controllers.DataController{
		Store:    d.Store,
		Recorder: d.Recorder,
		Tasks:    d.Tasks,
		Hubs:     d.Hubs,
		Options:  actions.Options{HashPasswords: d.Cfg.HashPasswords},
	}
	analyticsCtrl := &controllers.AnalyticsController{Store: d.Store, Recorder: d.Recorder}
	exposureCtrl := &controllers.ExposureController{Store: d.Store, Recorder: d.Recorder}
	backupCtrl := &controllers.BackupController{Store: d.Store, Hubs: d.Hubs}
	authCtrl := &controllers.AuthController{Store: d.Store}
	mediaCtrl := &controllers.MediaController{Store: d.Store}
	displayCtrl := &controllers.DisplayController{Store: d.Store}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/data", dataCtrl.Dispatch)

		api.GET("/analytics", analyticsCtrl.List)
		api.POST("/analytics", analyticsCtrl.Record)

		api.GET("/exposure", exposureCtrl.Get)
		api.POST("/exposure", exposureCtrl.Record)
		api.GET("/exposure/devices", exposureCtrl.Devices)

		api.GET("/backup", backupCtrl.Export)
		api.POST("/backup", backupCtrl.Import)

		limiter := middleware.NewLoginLimiter(d.Cfg.LoginRatePerMinute)
		api.POST("/login", limiter.Middleware(), authCtrl.Login)

		api.GET("/media", mediaCtrl.ListMedia)
		api.GET("/display/:id", displayCtrl.Get)
	}

	var display *ws.DisplayHub
	if d.Hubs != nil {
		display = d.Hubs.Display
	}
	r.GET("/ws/display/:id", ws.DisplayHandler(display))
}
