package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/versin01/vertical-systems-crm/internal/models"
	"github.com/versin01/vertical-systems-crm/internal/pipeline"
)

func TestRecordStageMove(t *testing.T) {
	r := NewRecorder()
	r.RecordStageMove(models.StageContractSigned)
	r.RecordStageMove(models.StageContractSigned)
	r.RecordStageMove(models.StageLost)

	if got := testutil.ToFloat64(r.stageMoves.WithLabelValues("contract_signed")); got != 2 {
		t.Fatalf("contract_signed moves = %v", got)
	}
	if got := testutil.ToFloat64(r.stageMoves.WithLabelValues("lost")); got != 1 {
		t.Fatalf("lost moves = %v", got)
	}
}

func TestObservePipeline(t *testing.T) {
	r := NewRecorder()
	m := pipeline.Calculate([]models.Deal{
		{ID: "a", DealValue: 10000, Probability: 50, Stage: models.StageNewOpportunity},
		{ID: "b", DealValue: 20000, Probability: 100, Stage: models.StageContractSigned},
	})
	r.ObservePipeline(m)

	if got := testutil.ToFloat64(r.weightedValue); got != 25000 {
		t.Fatalf("weighted = %v", got)
	}
	if got := testutil.ToFloat64(r.conversion); got != 50 {
		t.Fatalf("conversion = %v", got)
	}
	if got := testutil.ToFloat64(r.stageValue.WithLabelValues("contract_signed")); got != 20000 {
		t.Fatalf("stage value = %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.RecordHTTPRequest("GET", "/deals", 200, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `crm_http_requests_total{method="GET",route="/deals",status="200"} 1`) {
		t.Fatalf("request counter missing:\n%s", body)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
	r.RecordStageMove(models.StageLost)
	r.ObservePipeline(pipeline.Metrics{})
}
