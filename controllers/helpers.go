package controllers

import (
	"errors"
	"net/http"

	"github.com/hakimbdev/NutriSnap/nutrition"
	"github.com/hakimbdev/NutriSnap/services"

	"github.com/gin-gonic/gin"
)

func userIDFromCtx(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// respondError maps service errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidImage),
		errors.Is(err, services.ErrInvalidWindow),
		errors.Is(err, services.ErrUnknownPlatform),
		errors.Is(err, services.ErrNoRecipient),
		errors.Is(err, nutrition.ErrInvalidProfile):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrRecognitionFailed):
		status = http.StatusBadGateway
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

// requireUser returns the caller id set by the path middleware, responding
// 400 when it is missing.
func requireUser(c *gin.Context) (uint, bool) {
	uid, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user id"})
	}
	return uid, ok
}
