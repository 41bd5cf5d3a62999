package controllers

import (
	"net/http"
	"time"

	"github.com/hakimbdev/NutriSnap/nutrition"
	"github.com/hakimbdev/NutriSnap/services"

	"github.com/gin-gonic/gin"
)

type AnalysisController struct {
	Svc *services.AnalysisService
}

func NewAnalysisController(svc *services.AnalysisService) *AnalysisController {
	return &AnalysisController{Svc: svc}
}

type analyzeImageReq struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
	MealType    string `json:"meal_type"`
}

type analyzeRecognizedReq struct {
	nutrition.RecognitionOutput
	ImageURL string `json:"image_url"`
	MealType string `json:"meal_type"`
}

// POST /users/:userID/analyses
func (h *AnalysisController) Create(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}

	var req analyzeImageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.Svc.AnalyzeImage(c.Request.Context(), uid, req.ImageBase64, req.MealType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// POST /users/:userID/analyses/recognized
func (h *AnalysisController) CreateRecognized(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}

	var req analyzeRecognizedReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.Svc.AnalyzeRecognized(c.Request.Context(), uid, req.RecognitionOutput, req.ImageURL, req.MealType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /users/:userID/analyses?from=YYYY-MM-DD&to=YYYY-MM-DD (to inclusive)
func (h *AnalysisController) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}

	var from, to time.Time
	if v := c.Query("from"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		from = d
	}
	if v := c.Query("to"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		to = d.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "`to` must be on/after `from`"})
		return
	}

	out, err := h.Svc.List(c.Request.Context(), uid, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /users/:userID/analyses/:id
func (h *AnalysisController) Get(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}

	res, err := h.Svc.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /users/:userID/analyses/:id
func (h *AnalysisController) Delete(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
