// Package metrics records transaction lifecycle events with Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the lifecycle collectors. A nil *Recorder records nothing.
type Recorder struct {
	submitted        *prometheus.CounterVec
	precheckFailures *prometheus.CounterVec
	receiptQueries   prometheus.Counter
	receiptOutcomes  *prometheus.CounterVec
	receiptWait      prometheus.Histogram
}

// New creates a Recorder and registers its collectors with reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_tx_submitted_total",
			Help: "Transactions submitted to a node, by operation.",
		}, []string{"method"}),
		precheckFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_tx_precheck_failures_total",
			Help: "Non-OK precheck verdicts, by stage and status.",
		}, []string{"stage", "status"}),
		receiptQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_receipt_queries_total",
			Help: "Receipt queries sent while waiting for consensus.",
		}),
		receiptOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_receipt_outcomes_total",
			Help: "Terminal receipt wait outcomes.",
		}, []string{"outcome"}),
		receiptWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_receipt_wait_seconds",
			Help:    "Time from the start of a receipt wait to its terminal outcome.",
			Buckets: []float64{0.5, 1, 2, 3, 5, 10, 30, 60, 120, 180},
		}),
	}

	for _, c := range []prometheus.Collector{r.submitted, r.precheckFailures, r.receiptQueries, r.receiptOutcomes, r.receiptWait} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Submitted counts a submission of method.
func (r *Recorder) Submitted(method string) {
	if r == nil {
		return
	}
	r.submitted.WithLabelValues(method).Inc()
}

// PrecheckFailed counts a non-OK precheck at stage ("submit" or "query").
func (r *Recorder) PrecheckFailed(stage, status string) {
	if r == nil {
		return
	}
	r.precheckFailures.WithLabelValues(stage, status).Inc()
}

// ReceiptQueried counts one receipt query.
func (r *Recorder) ReceiptQueried() {
	if r == nil {
		return
	}
	r.receiptQueries.Inc()
}

// ReceiptResolved records the outcome of a receipt wait and how long it took.
func (r *Recorder) ReceiptResolved(outcome string, waited time.Duration) {
	if r == nil {
		return
	}
	r.receiptOutcomes.WithLabelValues(outcome).Inc()
	r.receiptWait.Observe(waited.Seconds())
}
