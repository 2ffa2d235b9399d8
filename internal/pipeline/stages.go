// Package pipeline holds the deal stage model and everything derived from it:
// the stage registry, pipeline metrics, stage-change field updates and the
// board projection. Nothing here performs I/O.
package pipeline

import "github.com/versin01/vertical-systems-crm/internal/models"

// StageInfo is the display metadata of a stage.
type StageInfo struct {
	ID          models.Stage `json:"id"`
	Label       string       `json:"label"`
	Color       string       `json:"color"`
	Description string       `json:"description"`
}

var registry = [...]StageInfo{
	{ID: models.StageNewOpportunity, Label: "New Opportunity", Color: "slate", Description: "Fresh opportunity, not yet qualified"},
	{ID: models.StageDiscoveryCallScheduled, Label: "Discovery Call Scheduled", Color: "blue", Description: "First call booked with the prospect"},
	{ID: models.StageDiscoveryCallCompleted, Label: "Discovery Call Completed", Color: "indigo", Description: "Needs and budget captured on the call"},
	{ID: models.StageProposalPreparation, Label: "Proposal Preparation", Color: "violet", Description: "Proposal is being drafted"},
	{ID: models.StageProposalSent, Label: "Proposal Sent", Color: "purple", Description: "Proposal delivered to the prospect"},
	{ID: models.StageProposalReview, Label: "Proposal Review", Color: "fuchsia", Description: "Prospect is reviewing the proposal"},
	{ID: models.StageNegotiation, Label: "Negotiation", Color: "amber", Description: "Scope and pricing under negotiation"},
	{ID: models.StageContractSent, Label: "Contract Sent", Color: "orange", Description: "Contract out for signature"},
	{ID: models.StageContractSigned, Label: "Contract Signed", Color: "green", Description: "Deal won, contract signed"},
	{ID: models.StageProjectKickoff, Label: "Project Kickoff", Color: "emerald", Description: "Delivery has started"},
	{ID: models.StageOnHold, Label: "On Hold", Color: "gray", Description: "Paused by the prospect or by us"},
	{ID: models.StageLost, Label: "Lost", Color: "red", Description: "Opportunity closed without a deal"},
}

var positions = func() map[models.Stage]int {
	m := make(map[models.Stage]int, len(registry))
	for i, s := range registry {
		m[s.ID] = i
	}
	return m
}()

// StageCount is the number of registered stages.
const StageCount = len(registry)

// Stages returns the registered stages in board order.
func Stages() []StageInfo {
	out := make([]StageInfo, len(registry))
	copy(out, registry[:])
	return out
}

// StageIDs returns the registered stage identifiers in board order.
func StageIDs() []models.Stage {
	out := make([]models.Stage, len(registry))
	for i, s := range registry {
		out[i] = s.ID
	}
	return out
}

// Lookup returns the metadata of a stage.
func Lookup(id models.Stage) (StageInfo, bool) {
	i, ok := positions[id]
	if !ok {
		return StageInfo{}, false
	}
	return registry[i], true
}

// IsKnown reports whether id is one of the registered stages.
func IsKnown(id models.Stage) bool {
	_, ok := positions[id]
	return ok
}

// Position is the board index of a stage, or -1.
func Position(id models.Stage) int {
	if i, ok := positions[id]; ok {
		return i
	}
	return -1
}
