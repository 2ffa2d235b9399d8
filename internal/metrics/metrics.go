// Package metrics exposes prometheus collectors for the HTTP layer and the deal pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/versin01/vertical-systems-crm/internal/models"
	"github.com/versin01/vertical-systems-crm/internal/pipeline"
)

// Recorder owns a private registry so tests can build as many as they like.
type Recorder struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	stageMoves    *prometheus.CounterVec
	stageDeals    *prometheus.GaugeVec
	stageValue    *prometheus.GaugeVec
	weightedValue prometheus.Gauge
	conversion    prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crm",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		stageMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "deal_stage_moves_total",
			Help:      "Deal stage changes by target stage.",
		}, []string{"stage"}),
		stageDeals: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "crm",
			Name:      "pipeline_stage_deals",
			Help:      "Deals per stage at the last pipeline summary.",
		}, []string{"stage"}),
		stageValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "crm",
			Name:      "pipeline_stage_value",
			Help:      "Summed deal value per stage at the last pipeline summary.",
		}, []string{"stage"}),
		weightedValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crm",
			Name:      "pipeline_weighted_value",
			Help:      "Probability weighted pipeline value.",
		}),
		conversion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crm",
			Name:      "pipeline_conversion_rate",
			Help:      "Share of deals in contract_signed, percent.",
		}),
	}
	r.registry.MustRegister(r.requests, r.latency, r.stageMoves, r.stageDeals, r.stageValue, r.weightedValue, r.conversion)
	return r
}

// RecordHTTPRequest counts one served request.
func (r *Recorder) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordStageMove counts a deal moved to stage.
func (r *Recorder) RecordStageMove(stage models.Stage) {
	if r == nil {
		return
	}
	r.stageMoves.WithLabelValues(string(stage)).Inc()
}

// ObservePipeline publishes the figures of the latest pipeline summary.
func (r *Recorder) ObservePipeline(m pipeline.Metrics) {
	if r == nil {
		return
	}
	for _, id := range pipeline.StageIDs() {
		agg := m.Stage(id)
		r.stageDeals.WithLabelValues(string(id)).Set(float64(agg.Count))
		r.stageValue.WithLabelValues(string(id)).Set(agg.Value)
	}
	r.weightedValue.Set(m.WeightedValue)
	r.conversion.Set(m.ConversionRate)
}

// Handler serves the registry in the prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
