package services

import (
	"context"
	"time"

	"github.com/versin01/vertical-systems-crm/internal/pdf"
	"github.com/versin01/vertical-systems-crm/internal/pipeline"
	"github.com/versin01/vertical-systems-crm/internal/repositories"
)

type ReportService struct {
	deals repositories.DealRepository
	pdf   pdf.Generator
	now   func() time.Time
}

func NewReportService(deals repositories.DealRepository, gen pdf.Generator) *ReportService {
	return &ReportService{deals: deals, pdf: gen, now: time.Now}
}

// OwnerPerformance ranks setters and closers by won value.
func (s *ReportService) OwnerPerformance(ctx context.Context, filter pipeline.Filter) ([]pipeline.OwnerPerformance, error) {
	deals, err := s.deals.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.ByOwner(filter.Apply(deals)), nil
}

// PipelinePDF renders the pipeline summary and per-stage table as a PDF.
func (s *ReportService) PipelinePDF(ctx context.Context, filter pipeline.Filter) ([]byte, error) {
	deals, err := s.deals.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	deals = filter.Apply(deals)
	return s.pdf.PipelineReport(pdf.PipelineReportData{
		GeneratedAt: s.now(),
		Metrics:     pipeline.Calculate(deals),
		Board:       pipeline.GroupByStage(deals),
		Owners:      pipeline.ByOwner(deals),
	})
}
