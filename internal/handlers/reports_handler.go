package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/versin01/vertical-systems-crm/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// Owners godoc
// @Summary  Setter and closer performance
// @Tags     reports
// @Produce  json
// @Success  200 {array} pipeline.OwnerPerformance
// @Router   /reports/owners [get]
func (h *ReportHandler) Owners(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	perf, err := h.Service.OwnerPerformance(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, perf)
}

// PipelinePDF godoc
// @Summary  Pipeline report as PDF
// @Tags     reports
// @Produce  application/pdf
// @Router   /reports/pipeline.pdf [get]
func (h *ReportHandler) PipelinePDF(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc, err := h.Service.PipelinePDF(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	name := fmt.Sprintf("pipeline_%s.pdf", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/pdf", doc)
}
