package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// home godoc
// @Summary API root
// @Description Returns a basic service identity payload.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "hirelens-backend",
		"status":  "ok",
	})
}
