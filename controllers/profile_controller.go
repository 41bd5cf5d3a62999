package controllers

import (
	"net/http"

	"github.com/hakimbdev/NutriSnap/services"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	Svc *services.ProfileService
}

func NewProfileController(svc *services.ProfileService) *ProfileController {
	return &ProfileController{Svc: svc}
}

// GET /users/:userID/profile
func (h *ProfileController) Get(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	view, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PUT /users/:userID/profile
func (h *ProfileController) Update(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.Svc.UpsertProfile(c.Request.Context(), uid, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /users/:userID/targets
func (h *ProfileController) Targets(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	t, err := h.Svc.Targets(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
