package controllers

import (
	"net/http"
	"strconv"

	"github.com/hakimbdev/NutriSnap/services"

	"github.com/gin-gonic/gin"
)

type AlertController struct {
	Bus *services.AlertBus
}

func NewAlertController(bus *services.AlertBus) *AlertController {
	return &AlertController{Bus: bus}
}

// GET /users/:userID/alerts?limit=50
func (h *AlertController) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	alerts, err := h.Bus.List(c.Request.Context(), uid, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}
