package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the account-opening workflow and staff logins.
type Metrics struct {
	Registry *prometheus.Registry

	ApplicationsSubmitted prometheus.Counter
	Transitions           *prometheus.CounterVec
	TransitionsRefused    *prometheus.CounterVec
	SnapshotConflicts     prometheus.Counter
	PersistDuration       prometheus.Histogram
	StaffLogins           *prometheus.CounterVec
	OTPIssued             prometheus.Counter
}

// New registers every collector on a fresh registry, not the global default.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		ApplicationsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "vaultix_applications_submitted_total",
			Help: "Total number of account-opening applications submitted",
		}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultix_application_transitions_total",
			Help: "Applied workflow transitions by event kind",
		}, []string{"kind"}),
		TransitionsRefused: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultix_application_transitions_refused_total",
			Help: "Transitions refused by a precondition, missing application, or storage failure",
		}, []string{"kind", "reason"}),
		SnapshotConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "vaultix_snapshot_conflicts_total",
			Help: "Snapshot writes rejected because another writer got there first",
		}),
		PersistDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vaultix_snapshot_persist_duration_seconds",
			Help:    "Duration of snapshot persistence",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		StaffLogins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultix_staff_logins_total",
			Help: "Staff login verifications by outcome",
		}, []string{"outcome"}),
		OTPIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "vaultix_otp_issued_total",
			Help: "One-time codes issued to staff",
		}),
	}
}

// ObservePersist records the duration of a snapshot write.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObservePersist(start time.Time) {
	m.PersistDuration.Observe(time.Since(start).Seconds())
}
