package services

import (
	"context"
	"errors"
	"testing"

	"github.com/versin01/vertical-systems-crm/internal/models"
	"github.com/versin01/vertical-systems-crm/internal/repositories"
)

func TestLeadServiceCreate(t *testing.T) {
	svc := NewLeadService(repositories.NewMemoryLeadRepository())
	lead := &models.Lead{Name: "Jane Roe", Company: "Initech", Email: "jane@initech.test"}
	if err := svc.Create(context.Background(), lead); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if lead.ID == "" || lead.Status != "new" || lead.CreatedAt.IsZero() {
		t.Fatalf("defaults not applied: %+v", lead)
	}
	got, err := svc.GetByID(context.Background(), lead.ID)
	if err != nil || got.Company != "Initech" {
		t.Fatalf("GetByID: %v %+v", err, got)
	}
	if err := svc.Create(context.Background(), &models.Lead{}); !errors.Is(err, ErrLeadNameRequired) {
		t.Fatalf("expected ErrLeadNameRequired, got %v", err)
	}
}
