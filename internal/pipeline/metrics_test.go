package pipeline

import (
	"math"
	"testing"

	"github.com/versin01/vertical-systems-crm/internal/models"
)

func deal(id string, value float64, prob int, stage models.Stage) models.Deal {
	return models.Deal{ID: id, Name: "deal " + id, DealValue: value, Probability: prob, Stage: stage}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateScenario(t *testing.T) {
	deals := []models.Deal{
		deal("a", 10000, 50, models.StageNewOpportunity),
		deal("b", 20000, 100, models.StageContractSigned),
	}
	m := Calculate(deals)

	if m.TotalDeals != 2 {
		t.Fatalf("total deals = %d", m.TotalDeals)
	}
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"total value", m.TotalValue, 30000},
		{"weighted value", m.WeightedValue, 25000},
		{"average deal size", m.AverageDealSize, 15000},
		{"conversion rate", m.ConversionRate, 50},
	}
	for _, c := range checks {
		if !almostEqual(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestCalculateEmpty(t *testing.T) {
	m := Calculate(nil)
	if m.TotalDeals != 0 || m.TotalValue != 0 || m.WeightedValue != 0 || m.AverageDealSize != 0 || m.ConversionRate != 0 {
		t.Fatalf("expected zero metrics, got %+v", m)
	}
	if len(m.ByStage) != StageCount {
		t.Fatalf("expected %d stage aggregates, got %d", StageCount, len(m.ByStage))
	}
	for id, agg := range m.ByStage {
		if agg.Count != 0 || agg.AverageProbability() != 0 {
			t.Fatalf("stage %q not empty: %+v", id, agg)
		}
	}
}

func TestCalculateSums(t *testing.T) {
	deals := []models.Deal{
		deal("a", 1250.5, 10, models.StageProposalSent),
		deal("b", 300, 35, models.StageProposalSent),
		deal("c", 0, 0, models.StageLost),
		deal("d", 99999.99, 90, models.StageContractSent),
		deal("e", 42, 100, models.StageContractSigned),
	}
	var total, weighted float64
	for _, d := range deals {
		total += d.DealValue
		weighted += d.DealValue * float64(d.Probability) / 100
	}

	m := Calculate(deals)
	if !almostEqual(m.TotalValue, total) {
		t.Fatalf("total value = %v, want %v", m.TotalValue, total)
	}
	if !almostEqual(m.WeightedValue, weighted) {
		t.Fatalf("weighted value = %v, want %v", m.WeightedValue, weighted)
	}
	if !almostEqual(m.AverageDealSize, total/5) {
		t.Fatalf("average = %v", m.AverageDealSize)
	}
	if !almostEqual(m.ConversionRate, 20) {
		t.Fatalf("conversion = %v", m.ConversionRate)
	}

	sent := m.Stage(models.StageProposalSent)
	if sent.Count != 2 || !almostEqual(sent.Value, 1550.5) || sent.ProbabilitySum != 45 {
		t.Fatalf("proposal_sent aggregate = %+v", sent)
	}
	if !almostEqual(sent.AverageProbability(), 22.5) {
		t.Fatalf("average probability = %v", sent.AverageProbability())
	}
}

func TestCalculateTrustsInput(t *testing.T) {
	deals := []models.Deal{
		deal("neg", -500, 150, models.StageNegotiation),
		deal("odd", 100, 50, "closed_won"),
	}
	m := Calculate(deals)
	if !almostEqual(m.TotalValue, -400) {
		t.Fatalf("negative value was altered: %v", m.TotalValue)
	}
	if !almostEqual(m.WeightedValue, -750+50) {
		t.Fatalf("weighted value = %v", m.WeightedValue)
	}
	if m.Stage("closed_won").Count != 1 {
		t.Fatal("unknown stage dropped from breakdown")
	}
}
