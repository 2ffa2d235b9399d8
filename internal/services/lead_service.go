package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/versin01/vertical-systems-crm/internal/models"
	"github.com/versin01/vertical-systems-crm/internal/repositories"
)

var ErrLeadNameRequired = errors.New("lead name is required")

type LeadService struct {
	Repo repositories.LeadRepository
}

func NewLeadService(repo repositories.LeadRepository) *LeadService {
	return &LeadService{Repo: repo}
}

func (s *LeadService) List(ctx context.Context) ([]models.Lead, error) {
	return s.Repo.List(ctx)
}

func (s *LeadService) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *LeadService) Create(ctx context.Context, lead *models.Lead) error {
	if lead.Name == "" {
		return ErrLeadNameRequired
	}
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.Status == "" {
		lead.Status = "new"
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}
	return s.Repo.Create(ctx, lead)
}
