// Package metrics holds the Prometheus counters of the moderation workflow.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	submissions        *prometheus.CounterVec
	claimDecisions     *prometheus.CounterVec
	dedupRetries       prometheus.Counter
	contactTransitions *prometheus.CounterVec
}

// New registers all counters on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "whodidit_submissions_total",
			Help: "Accepted submissions by kind (review, claim, contact).",
		}, []string{"kind"}),
		claimDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "whodidit_claim_decisions_total",
			Help: "Claim decision attempts by decision and result kind.",
		}, []string{"decision", "result"}),
		dedupRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "whodidit_provider_dedup_retries_total",
			Help: "Provider inserts that lost a uniqueness race and re-ran the lookup.",
		}),
		contactTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "whodidit_contact_transitions_total",
			Help: "Applied contact message status transitions by target status.",
		}, []string{"to"}),
	}

	reg.MustRegister(
		m.submissions,
		m.claimDecisions,
		m.dedupRetries,
		m.contactTransitions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Submission(kind string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(kind).Inc()
}

// ClaimDecision records one approve/reject attempt. result is "ok" or an
// error kind such as "conflict".
func (m *Metrics) ClaimDecision(decision, result string) {
	if m == nil {
		return
	}
	m.claimDecisions.WithLabelValues(decision, result).Inc()
}

func (m *Metrics) DedupRetry() {
	if m == nil {
		return
	}
	m.dedupRetries.Inc()
}

func (m *Metrics) ContactTransition(to string) {
	if m == nil {
		return
	}
	m.contactTransitions.WithLabelValues(to).Inc()
}
