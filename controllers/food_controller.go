package controllers

import (
	"net/http"

	"github.com/hakimbdev/NutriSnap/nutrition"

	"github.com/gin-gonic/gin"
)

type FoodController struct {
	Table *nutrition.Table
}

func NewFoodController(t *nutrition.Table) *FoodController {
	return &FoodController{Table: t}
}

// GET /foods lists the reference table in match order.
func (h *FoodController) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.Table.Foods())
}
