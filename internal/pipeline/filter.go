package pipeline

import (
	"strings"

	"github.com/versin01/vertical-systems-crm/internal/models"
)

// Filter narrows a deal collection in memory. Zero fields match everything.
type Filter struct {
	OwnerID     string
	Stage       models.Stage
	ServiceType string
	Source      string
	Search      string
	MinValue    *float64
	MaxValue    *float64
}

func (f Filter) match(d models.Deal) bool {
	if f.OwnerID != "" && (d.OwnerID == nil || *d.OwnerID != f.OwnerID) {
		return false
	}
	if f.Stage != "" && d.Stage != f.Stage {
		return false
	}
	if f.ServiceType != "" && (d.ServiceType == nil || *d.ServiceType != f.ServiceType) {
		return false
	}
	if f.Source != "" && (d.Source == nil || *d.Source != f.Source) {
		return false
	}
	if f.MinValue != nil && d.DealValue < *f.MinValue {
		return false
	}
	if f.MaxValue != nil && d.DealValue > *f.MaxValue {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(d.Name), q) && !strings.Contains(strings.ToLower(d.Notes), q) {
			return false
		}
	}
	return true
}

// Apply returns the deals matching f, in input order.
func (f Filter) Apply(deals []models.Deal) []models.Deal {
	out := make([]models.Deal, 0, len(deals))
	for _, d := range deals {
		if f.match(d) {
			out = append(out, d)
		}
	}
	return out
}
