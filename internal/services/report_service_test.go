package services

import (
	"context"
	"testing"

	"github.com/versin01/vertical-systems-crm/internal/models"
	"github.com/versin01/vertical-systems-crm/internal/pdf"
	"github.com/versin01/vertical-systems-crm/internal/pipeline"
	"github.com/versin01/vertical-systems-crm/internal/repositories"
)

type capturingGenerator struct {
	data pdf.PipelineReportData
}

func (g *capturingGenerator) PipelineReport(data pdf.PipelineReportData) ([]byte, error) {
	g.data = data
	return []byte("%PDF-fake"), nil
}

func TestReportServicePipelinePDF(t *testing.T) {
	owner := "closer-a"
	repo := repositories.NewMemoryDealRepository(
		models.Deal{ID: "a", DealValue: 100, Probability: 10, Stage: models.StageNegotiation, OwnerID: &owner},
		models.Deal{ID: "b", DealValue: 300, Probability: 100, Stage: models.StageContractSigned, OwnerID: &owner},
		models.Deal{ID: "c", DealValue: 50, Probability: 5, Stage: models.StageNewOpportunity},
	)
	gen := &capturingGenerator{}
	svc := NewReportService(repo, gen)

	out, err := svc.PipelinePDF(context.Background(), pipeline.Filter{OwnerID: owner})
	if err != nil {
		t.Fatalf("PipelinePDF: %v", err)
	}
	if string(out) != "%PDF-fake" {
		t.Fatalf("unexpected output %q", out)
	}
	if gen.data.Metrics.TotalDeals != 2 || gen.data.Metrics.TotalValue != 400 {
		t.Fatalf("filter not applied: %+v", gen.data.Metrics)
	}
	if len(gen.data.Board.Columns) != 12 || len(gen.data.Owners) != 1 {
		t.Fatalf("unexpected report data: %+v", gen.data)
	}
}

func TestReportServiceOwnerPerformance(t *testing.T) {
	a, b := "setter-a", "closer-b"
	repo := repositories.NewMemoryDealRepository(
		models.Deal{ID: "1", DealValue: 100, Stage: models.StageContractSigned, OwnerID: &a},
		models.Deal{ID: "2", DealValue: 900, Stage: models.StageContractSigned, OwnerID: &b},
	)
	svc := NewReportService(repo, &capturingGenerator{})
	perf, err := svc.OwnerPerformance(context.Background(), pipeline.Filter{})
	if err != nil {
		t.Fatalf("OwnerPerformance: %v", err)
	}
	if len(perf) != 2 || perf[0].OwnerID != b {
		t.Fatalf("unexpected ranking: %+v", perf)
	}
}
