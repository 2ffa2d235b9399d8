package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/versin01/vertical-systems-crm/internal/models"
	"github.com/versin01/vertical-systems-crm/internal/services"
)

type LeadHandler struct {
	Service *services.LeadService
}

func NewLeadHandler(service *services.LeadService) *LeadHandler {
	return &LeadHandler{Service: service}
}

func (h *LeadHandler) List(c *gin.Context) {
	leads, err := h.Service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

func (h *LeadHandler) GetByID(c *gin.Context) {
	lead, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

type createLeadRequest struct {
	Name    string `json:"name" binding:"required"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Source  string `json:"source"`
}

func (h *LeadHandler) Create(c *gin.Context) {
	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	lead := models.Lead{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Source:  req.Source,
		OwnerID: &userID,
	}
	if err := h.Service.Create(c.Request.Context(), &lead); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}
