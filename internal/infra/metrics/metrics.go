package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "labstock_requests_approved_total",
		Help: "Approved requisitions (stock debited).",
	})
	requestsRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "labstock_requests_revoked_total",
		Help: "Revoked approvals (stock credited back).",
	})
	requestsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "labstock_requests_rejected_total",
		Help: "Rejected requisitions.",
	})
	txConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "labstock_tx_conflicts_total",
		Help: "Serialization conflicts on ledger transactions.",
	})
	lowStockAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "labstock_low_stock_alerts_total",
		Help: "Low stock alerts emitted after approvals.",
	})
)

// Recorder реализует requests.Counters поверх prometheus.
type Recorder struct{}

func (Recorder) Approved() { requestsApproved.Inc() }
func (Recorder) Revoked()  { requestsRevoked.Inc() }
func (Recorder) Rejected() { requestsRejected.Inc() }
func (Recorder) Conflict() { txConflicts.Inc() }
func (Recorder) LowStock() { lowStockAlerts.Inc() }
