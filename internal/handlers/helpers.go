package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/versin01/vertical-systems-crm/internal/authz"
	"github.com/versin01/vertical-systems-crm/internal/middleware"
	"github.com/versin01/vertical-systems-crm/internal/models"
	"github.com/versin01/vertical-systems-crm/internal/pipeline"
	"github.com/versin01/vertical-systems-crm/internal/repositories"
	"github.com/versin01/vertical-systems-crm/internal/services"
)

func getUserAndRole(c *gin.Context) (userID string, role authz.Role) {
	if v, ok := c.Get(middleware.CtxUserID); ok {
		userID, _ = v.(string)
	}
	role, _ = middleware.RoleFrom(c)
	return
}

// filterFromQuery reads the shared deal filter parameters.
func filterFromQuery(c *gin.Context) (pipeline.Filter, error) {
	f := pipeline.Filter{
		OwnerID:     c.Query("owner_id"),
		Stage:       models.Stage(c.Query("stage")),
		ServiceType: c.Query("service_type"),
		Source:      c.Query("source"),
		Search:      c.Query("q"),
	}
	if v := c.Query("value_min"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, errors.New("invalid value_min")
		}
		f.MinValue = &n
	}
	if v := c.Query("value_max"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, errors.New("invalid value_max")
		}
		f.MaxValue = &n
	}
	return f, nil
}

// scopedFilter restricts closers and setters to their own deals.
func scopedFilter(c *gin.Context) (pipeline.Filter, bool) {
	f, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return f, false
	}
	userID, role := getUserAndRole(c)
	if !authz.IsElevated(role) && !authz.IsReadOnly(role) {
		f.OwnerID = userID
	}
	return f, true
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repositories.ErrDealNotFound), errors.Is(err, repositories.ErrLeadNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrUnknownStage),
		errors.Is(err, services.ErrDealNameRequired),
		errors.Is(err, services.ErrLeadNameRequired),
		errors.Is(err, services.ErrEmptyUpdate):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrTransitionDenied):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
