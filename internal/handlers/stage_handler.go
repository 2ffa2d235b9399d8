package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/versin01/vertical-systems-crm/internal/pipeline"
)

// Stages godoc
// @Summary  Registered pipeline stages in board order
// @Tags     pipeline
// @Produce  json
// @Success  200 {array} pipeline.StageInfo
// @Router   /stages [get]
func Stages(c *gin.Context) {
	c.JSON(http.StatusOK, pipeline.Stages())
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
