package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UserFromPath reads the :userID path parameter into the context as "userID".
// Authentication happens upstream; this only validates the shape of the id.
func UserFromPath() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("userID"), 10, 32)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		c.Set("userID", uint(id))
		c.Next()
	}
}
