package routes

import (
	"net/http"

	"github.com/hakimbdev/NutriSnap/controllers"
	"github.com/hakimbdev/NutriSnap/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers groups the controllers mounted by SetupRouter.
type Handlers struct {
	Analyses *controllers.AnalysisController
	Profiles *controllers.ProfileController
	Trends   *controllers.TrendController
	Alerts   *controllers.AlertController
	Devices  *controllers.DeviceController
	Realtime *controllers.RealtimeController
	Foods    *controllers.FoodController
}

func SetupRouter(h Handlers, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/foods", h.Foods.List)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	user := r.Group("/users/:userID")
	user.Use(middlewares.UserFromPath())
	{
		user.POST("/analyses", h.Analyses.Create)
		user.POST("/analyses/recognized", h.Analyses.CreateRecognized)
		user.GET("/analyses", h.Analyses.List)
		user.GET("/analyses/:id", h.Analyses.Get)
		user.DELETE("/analyses/:id", h.Analyses.Delete)

		user.GET("/profile", h.Profiles.Get)
		user.PUT("/profile", h.Profiles.Update)
		user.GET("/targets", h.Profiles.Targets)

		user.GET("/trends", h.Trends.Trends)
		user.GET("/progress", h.Trends.Progress)
		user.POST("/trends/email", h.Trends.Email)

		user.GET("/alerts", h.Alerts.List)
		user.POST("/devices", h.Devices.Register)
		user.POST("/notifications/toggle", h.Devices.ToggleNotifications)
		user.GET("/ws", h.Realtime.Events)
	}

	return r
}
