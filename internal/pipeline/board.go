package pipeline

import "github.com/versin01/vertical-systems-crm/internal/models"

// Column is one stage bucket of the board.
type Column struct {
	Stage              StageInfo     `json:"stage"`
	Deals              []models.Deal `json:"deals"`
	Count              int           `json:"count"`
	TotalValue         float64       `json:"total_value"`
	AverageProbability float64       `json:"average_probability"`
}

// Board is the stage projection of a deal collection.
type Board struct {
	Columns []Column `json:"columns"`
	// Unstaged holds deals whose stage is not registered.
	Unstaged []models.Deal `json:"unstaged,omitempty"`
}

// GroupByStage buckets deals into one column per registered stage, keeping
// the input order inside each column.
func GroupByStage(deals []models.Deal) Board {
	b := Board{Columns: make([]Column, StageCount)}
	for i, info := range registry {
		b.Columns[i] = Column{Stage: info, Deals: []models.Deal{}}
	}

	var aggs [StageCount]StageAggregate
	for _, d := range deals {
		i := Position(d.Stage)
		if i < 0 {
			b.Unstaged = append(b.Unstaged, d)
			continue
		}
		b.Columns[i].Deals = append(b.Columns[i].Deals, d)
		aggs[i].add(d)
	}

	for i := range b.Columns {
		b.Columns[i].Count = aggs[i].Count
		b.Columns[i].TotalValue = aggs[i].Value
		b.Columns[i].AverageProbability = aggs[i].AverageProbability()
	}
	return b
}

// Column returns the column of a stage.
func (b Board) Column(id models.Stage) (Column, bool) {
	i := Position(id)
	if i < 0 || i >= len(b.Columns) {
		return Column{}, false
	}
	return b.Columns[i], true
}
