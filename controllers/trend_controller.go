package controllers

import (
	"net/http"
	"strconv"

	"github.com/hakimbdev/NutriSnap/services"

	"github.com/gin-gonic/gin"
)

type TrendController struct {
	Svc *services.TrendService
}

func NewTrendController(svc *services.TrendService) *TrendController {
	return &TrendController{Svc: svc}
}

func windowParam(c *gin.Context) (int, bool) {
	v := c.Query("window")
	if v == "" {
		return 0, true
	}
	w, err := strconv.Atoi(v)
	if err != nil || w <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window"})
		return 0, false
	}
	return w, true
}

// GET /users/:userID/trends?window=7
func (h *TrendController) Trends(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	w, ok := windowParam(c)
	if !ok {
		return
	}
	report, err := h.Svc.Trends(c.Request.Context(), uid, w)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /users/:userID/progress
func (h *TrendController) Progress(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	p, err := h.Svc.Progress(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type emailTrendsReq struct {
	To     string `json:"to"`
	Window int    `json:"window"`
}

// POST /users/:userID/trends/email
func (h *TrendController) Email(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req emailTrendsReq
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if err := h.Svc.EmailTrends(c.Request.Context(), uid, req.To, req.Window); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "report sent"})
}
