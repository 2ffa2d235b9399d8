package pipeline

import "github.com/versin01/vertical-systems-crm/internal/models"

// StageAggregate accumulates the deals of one stage.
type StageAggregate struct {
	Count          int     `json:"count"`
	Value          float64 `json:"value"`
	ProbabilitySum int     `json:"probability_sum"`
}

// AverageProbability is ProbabilitySum / Count, 0 for an empty stage.
func (a StageAggregate) AverageProbability() float64 {
	if a.Count == 0 {
		return 0
	}
	return float64(a.ProbabilitySum) / float64(a.Count)
}

func (a *StageAggregate) add(d models.Deal) {
	a.Count++
	a.Value += d.DealValue
	a.ProbabilitySum += d.Probability
}

// Metrics are the aggregate figures of a deal collection.
type Metrics struct {
	TotalDeals      int                              `json:"total_deals"`
	TotalValue      float64                          `json:"total_value"`
	WeightedValue   float64                          `json:"weighted_value"`
	AverageDealSize float64                          `json:"average_deal_size"`
	ConversionRate  float64                          `json:"conversion_rate"`
	ByStage         map[models.Stage]*StageAggregate `json:"by_stage"`
}

// Calculate derives pipeline metrics from deals. Inputs are trusted as is:
// negative values or out-of-range probabilities flow straight into the sums.
func Calculate(deals []models.Deal) Metrics {
	m := Metrics{ByStage: make(map[models.Stage]*StageAggregate, StageCount)}
	for _, id := range StageIDs() {
		m.ByStage[id] = &StageAggregate{}
	}

	signed := 0
	for _, d := range deals {
		m.TotalDeals++
		m.TotalValue += d.DealValue
		m.WeightedValue += d.DealValue * float64(d.Probability) / 100

		agg, ok := m.ByStage[d.Stage]
		if !ok {
			agg = &StageAggregate{}
			m.ByStage[d.Stage] = agg
		}
		agg.add(d)

		if d.Stage == models.StageContractSigned {
			signed++
		}
	}

	if m.TotalDeals > 0 {
		m.AverageDealSize = m.TotalValue / float64(m.TotalDeals)
		m.ConversionRate = float64(signed) / float64(m.TotalDeals) * 100
	}
	return m
}

// Stage returns the aggregate of one stage, zero if no deal is in it.
func (m Metrics) Stage(id models.Stage) StageAggregate {
	if agg, ok := m.ByStage[id]; ok && agg != nil {
		return *agg
	}
	return StageAggregate{}
}
