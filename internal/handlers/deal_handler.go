package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/versin01/vertical-systems-crm/internal/authz"
	"github.com/versin01/vertical-systems-crm/internal/models"
	"github.com/versin01/vertical-systems-crm/internal/pipeline"
	"github.com/versin01/vertical-systems-crm/internal/services"
)

type DealHandler struct {
	Service *services.DealService
}

func NewDealHandler(service *services.DealService) *DealHandler {
	return &DealHandler{Service: service}
}

// loadOwned fetches a deal and checks the caller may touch it.
func (h *DealHandler) loadOwned(c *gin.Context) (*models.Deal, bool) {
	deal, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	userID, role := getUserAndRole(c)
	if authz.IsElevated(role) || authz.IsReadOnly(role) {
		return deal, true
	}
	if deal.OwnerID == nil || *deal.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}
	return deal, true
}

// List godoc
// @Summary  List deals
// @Tags     deals
// @Produce  json
// @Param    stage query string false "stage id"
// @Param    owner_id query string false "owner id"
// @Param    q query string false "search in name and notes"
// @Success  200 {array} models.Deal
// @Router   /deals [get]
func (h *DealHandler) List(c *gin.Context) {
	f, ok := scopedFilter(c)
	if !ok {
		return
	}
	deals, err := h.Service.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, deals)
}

func (h *DealHandler) GetByID(c *gin.Context) {
	deal, ok := h.loadOwned(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, deal)
}

type createDealRequest struct {
	Name              string       `json:"name" binding:"required"`
	DealValue         float64      `json:"deal_value"`
	Probability       int          `json:"probability"`
	Stage             models.Stage `json:"stage"`
	OwnerID           *string      `json:"owner_id"`
	ServiceType       *string      `json:"service_type"`
	Source            *string      `json:"source"`
	Notes             string       `json:"notes"`
	LeadID            *string      `json:"lead_id"`
	ExpectedCloseDate *time.Time   `json:"expected_close_date"`
}

// Create godoc
// @Summary  Create a deal
// @Tags     deals
// @Accept   json
// @Produce  json
// @Success  201 {object} models.Deal
// @Router   /deals [post]
func (h *DealHandler) Create(c *gin.Context) {
	var req createDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, role := getUserAndRole(c)
	deal := models.Deal{
		Name:        req.Name,
		DealValue:   req.DealValue,
		Probability: req.Probability,
		Stage:       req.Stage,
		OwnerID:     req.OwnerID,
		ServiceType: req.ServiceType,
		Source:      req.Source,
		Notes:       req.Notes,
		LeadID:      req.LeadID,

		ExpectedCloseDate: req.ExpectedCloseDate,
	}
	if deal.OwnerID == nil || !authz.IsElevated(role) {
		deal.OwnerID = &userID
	}

	if err := h.Service.Create(c.Request.Context(), &deal); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deal)
}

// Update godoc
// @Summary  Partially update a deal
// @Tags     deals
// @Accept   json
// @Produce  json
// @Param    id path string true "deal id"
// @Success  200 {object} models.Deal
// @Router   /deals/{id} [put]
func (h *DealHandler) Update(c *gin.Context) {
	current, ok := h.loadOwned(c)
	if !ok {
		return
	}
	var body models.DealUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, role := getUserAndRole(c)
	if !authz.IsElevated(role) {
		body.OwnerID = nil
	}

	updated, err := h.Service.Update(c.Request.Context(), current.ID, body, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DealHandler) Delete(c *gin.Context) {
	deal, ok := h.loadOwned(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), deal.ID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type moveStageRequest struct {
	Stage models.Stage `json:"stage" binding:"required"`
}

// MoveStage godoc
// @Summary  Move a deal to another stage (board drag and drop)
// @Tags     pipeline
// @Accept   json
// @Produce  json
// @Param    id path string true "deal id"
// @Success  200 {object} models.Deal
// @Failure  409 {object} map[string]string
// @Router   /deals/{id}/stage [post]
func (h *DealHandler) MoveStage(c *gin.Context) {
	var req moveStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	current, ok := h.loadOwned(c)
	if !ok {
		return
	}
	userID, _ := getUserAndRole(c)
	updated, err := h.Service.MoveStage(c.Request.Context(), current.ID, req.Stage, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Board godoc
// @Summary  Deals grouped into one column per stage
// @Tags     pipeline
// @Produce  json
// @Success  200 {object} pipeline.Board
// @Router   /pipeline/board [get]
func (h *DealHandler) Board(c *gin.Context) {
	f, ok := scopedFilter(c)
	if !ok {
		return
	}
	board, err := h.Service.Board(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

type metricsResponse struct {
	pipeline.Metrics
	Stages []stageMetrics `json:"stages"`
}

type stageMetrics struct {
	Stage              models.Stage `json:"stage"`
	Count              int          `json:"count"`
	Value              float64      `json:"value"`
	AverageProbability float64      `json:"average_probability"`
}

// Metrics godoc
// @Summary  Pipeline metrics
// @Tags     pipeline
// @Produce  json
// @Success  200 {object} metricsResponse
// @Router   /pipeline/metrics [get]
func (h *DealHandler) Metrics(c *gin.Context) {
	f, ok := scopedFilter(c)
	if !ok {
		return
	}
	m, err := h.Service.Summary(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := metricsResponse{Metrics: m}
	for _, id := range pipeline.StageIDs() {
		agg := m.Stage(id)
		resp.Stages = append(resp.Stages, stageMetrics{
			Stage:              id,
			Count:              agg.Count,
			Value:              agg.Value,
			AverageProbability: agg.AverageProbability(),
		})
	}
	c.JSON(http.StatusOK, resp)
}
