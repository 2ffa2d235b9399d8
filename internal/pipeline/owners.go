package pipeline

import (
	"sort"

	"github.com/versin01/vertical-systems-crm/internal/models"
)

// Unassigned is the owner key for deals without an owner.
const Unassigned = "unassigned"

// OwnerPerformance is the pipeline of one setter or closer.
type OwnerPerformance struct {
	OwnerID  string  `json:"owner_id"`
	Metrics  Metrics `json:"metrics"`
	Won      int     `json:"won"`
	Lost     int     `json:"lost"`
	WonValue float64 `json:"won_value"`
	WinRate  float64 `json:"win_rate"`
}

// ByOwner computes metrics per owner, ordered by won value then owner id.
func ByOwner(deals []models.Deal) []OwnerPerformance {
	groups := map[string][]models.Deal{}
	for _, d := range deals {
		key := Unassigned
		if d.OwnerID != nil && *d.OwnerID != "" {
			key = *d.OwnerID
		}
		groups[key] = append(groups[key], d)
	}

	out := make([]OwnerPerformance, 0, len(groups))
	for owner, ds := range groups {
		p := OwnerPerformance{OwnerID: owner, Metrics: Calculate(ds)}
		for _, d := range ds {
			switch d.Stage {
			case models.StageContractSigned:
				p.Won++
				p.WonValue += d.DealValue
			case models.StageLost:
				p.Lost++
			}
		}
		if closed := p.Won + p.Lost; closed > 0 {
			p.WinRate = float64(p.Won) / float64(closed) * 100
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].WonValue != out[j].WonValue {
			return out[i].WonValue > out[j].WonValue
		}
		return out[i].OwnerID < out[j].OwnerID
	})
	return out
}
