package pipeline

import (
	"time"

	"github.com/versin01/vertical-systems-crm/internal/models"
)

// TransitionFields returns the fields that moving a deal to target sets in
// addition to the stage itself.
func TransitionFields(target models.Stage, now time.Time) models.DealUpdate {
	switch target {
	case models.StageContractSigned:
		won, closed := now, now
		return models.DealUpdate{WonDate: &won, ActualCloseDate: &closed}
	case models.StageLost:
		lost := now
		return models.DealUpdate{LostDate: &lost}
	default:
		return models.DealUpdate{}
	}
}

// StageChange is the full update for moving a deal to target: the stage plus
// whatever TransitionFields stamps.
func StageChange(target models.Stage, now time.Time) models.DealUpdate {
	stage := target
	return models.DealUpdate{Stage: &stage}.Merge(TransitionFields(target, now))
}

// Policy decides which stage moves are accepted.
type Policy string

const (
	// PolicyAny accepts a move from any stage to any stage.
	PolicyAny Policy = "any"
	// PolicyForwardOnly accepts moves further down the board, parking moves
	// to on_hold or lost, and any move out of on_hold.
	PolicyForwardOnly Policy = "forward_only"
)

// ParsePolicy maps a config value to a Policy, defaulting to PolicyAny.
func ParsePolicy(s string) Policy {
	if Policy(s) == PolicyForwardOnly {
		return PolicyForwardOnly
	}
	return PolicyAny
}

// CanTransition reports whether policy accepts moving a deal from one stage to another.
func CanTransition(from, to models.Stage, policy Policy) bool {
	if policy != PolicyForwardOnly {
		return true
	}
	if !IsKnown(to) {
		return false
	}
	if from == "" || from == to || !IsKnown(from) {
		return true
	}
	switch {
	case to == models.StageOnHold || to == models.StageLost:
		return from != models.StageLost
	case from == models.StageOnHold:
		return true
	case from == models.StageLost:
		return false
	}
	return Position(to) > Position(from)
}
