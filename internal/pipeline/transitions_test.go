package pipeline

import (
	"testing"
	"time"

	"github.com/versin01/vertical-systems-crm/internal/models"
)

func TestTransitionFields(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 30, 0, 0, time.UTC)

	signed := TransitionFields(models.StageContractSigned, now)
	if signed.WonDate == nil || !signed.WonDate.Equal(now) {
		t.Fatalf("won date = %v", signed.WonDate)
	}
	if signed.ActualCloseDate == nil || !signed.ActualCloseDate.Equal(now) {
		t.Fatalf("actual close date = %v", signed.ActualCloseDate)
	}
	if signed.LostDate != nil || signed.Stage != nil {
		t.Fatalf("unexpected fields: %+v", signed)
	}

	lost := TransitionFields(models.StageLost, now)
	if lost.LostDate == nil || !lost.LostDate.Equal(now) {
		t.Fatalf("lost date = %v", lost.LostDate)
	}
	lost.LostDate = nil
	if !lost.IsEmpty() {
		t.Fatalf("lost transition set extra fields: %+v", lost)
	}

	for _, s := range StageIDs() {
		if s == models.StageContractSigned || s == models.StageLost {
			continue
		}
		if u := TransitionFields(s, now); !u.IsEmpty() {
			t.Fatalf("stage %q produced extra fields: %+v", s, u)
		}
	}
}

func TestStageChangeIncludesStage(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 30, 0, 0, time.UTC)

	u := StageChange(models.StageContractSigned, now)
	if u.Stage == nil || *u.Stage != models.StageContractSigned {
		t.Fatalf("stage = %v", u.Stage)
	}
	if u.WonDate == nil || u.ActualCloseDate == nil {
		t.Fatalf("won fields missing: %+v", u)
	}

	u = StageChange(models.StageProposalSent, now)
	stageOnly := u
	stageOnly.Stage = nil
	if u.Stage == nil || !stageOnly.IsEmpty() {
		t.Fatalf("expected only stage, got %+v", u)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name   string
		from   models.Stage
		to     models.Stage
		policy Policy
		allow  bool
	}{
		{"any backwards", models.StageContractSigned, models.StageNewOpportunity, PolicyAny, true},
		{"any out of lost", models.StageLost, models.StageNegotiation, PolicyAny, true},
		{"forward next", models.StageProposalSent, models.StageProposalReview, PolicyForwardOnly, true},
		{"forward skip", models.StageNewOpportunity, models.StageContractSent, PolicyForwardOnly, true},
		{"forward backwards", models.StageNegotiation, models.StageProposalSent, PolicyForwardOnly, false},
		{"forward to hold", models.StageNegotiation, models.StageOnHold, PolicyForwardOnly, true},
		{"forward out of hold", models.StageOnHold, models.StageDiscoveryCallScheduled, PolicyForwardOnly, true},
		{"forward to lost", models.StageProposalReview, models.StageLost, PolicyForwardOnly, true},
		{"forward out of lost", models.StageLost, models.StageNegotiation, PolicyForwardOnly, false},
		{"forward same", models.StageNegotiation, models.StageNegotiation, PolicyForwardOnly, true},
		{"forward unknown target", models.StageNegotiation, "closed_won", PolicyForwardOnly, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to, tc.policy); got != tc.allow {
				t.Fatalf("CanTransition(%q, %q, %q) = %v, want %v", tc.from, tc.to, tc.policy, got, tc.allow)
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	if ParsePolicy("forward_only") != PolicyForwardOnly {
		t.Fatal("forward_only not parsed")
	}
	if ParsePolicy("") != PolicyAny || ParsePolicy("strict") != PolicyAny {
		t.Fatal("unknown policy should default to any")
	}
}
