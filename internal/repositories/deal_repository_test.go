package repositories

import (
	"strings"
	"testing"
	"time"

	"github.com/versin01/vertical-systems-crm/internal/models"
)

func TestUpdateClausesOnlySetFields(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	stage := models.StageContractSigned
	sets, args := updateClauses(models.DealUpdate{Stage: &stage, WonDate: &now, ActualCloseDate: &now})

	want := []string{"stage = $1", "won_date = $2", "actual_close_date = $3"}
	if strings.Join(sets, ", ") != strings.Join(want, ", ") {
		t.Fatalf("sets = %v", sets)
	}
	if len(args) != 3 || args[0] != models.StageContractSigned {
		t.Fatalf("args = %v", args)
	}
}

func TestUpdateClausesEmpty(t *testing.T) {
	sets, args := updateClauses(models.DealUpdate{})
	if len(sets) != 0 || len(args) != 0 {
		t.Fatalf("expected no clauses, got %v %v", sets, args)
	}
}

func TestMigrationVersionsSorted(t *testing.T) {
	versions, err := migrationVersions()
	if err != nil {
		t.Fatalf("migrationVersions: %v", err)
	}
	if len(versions) == 0 || versions[0] != "0001_pipeline.up.sql" {
		t.Fatalf("unexpected versions: %v", versions)
	}
	for i := 1; i < len(versions); i++ {
		if versions[i-1] >= versions[i] {
			t.Fatalf("versions not sorted: %v", versions)
		}
	}
}
