package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels of ReconcileRunsTotal.
const (
	ResultChanged   = "changed"
	ResultUnchanged = "unchanged"
	ResultFailed    = "failed"
)

// Registry holds every collector of a run. It is separate from the default
// registry so a push only carries reconciliation metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	ReconcileRunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "replsync",
		Subsystem: "reconcile",
		Name:      "runs_total",
		Help:      "Reconciliation runs by result",
	}, []string{"result"})

	ReconcileFailuresTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "replsync",
		Subsystem: "reconcile",
		Name:      "failures_total",
		Help:      "Failed reconciliation runs by error kind",
	}, []string{"kind"})

	MembersAddedTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "replsync",
		Subsystem: "reconcile",
		Name:      "members_added_total",
		Help:      "Members added by submitted configurations",
	})

	AuthFailuresTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "replsync",
		Subsystem: "reconcile",
		Name:      "auth_failures_total",
		Help:      "Authentication attempts that were refused and skipped",
	})

	ConfigVersion = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "replsync",
		Subsystem: "reconcile",
		Name:      "config_version",
		Help:      "Replica set configuration version after the run",
	})

	ConfigMembers = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "replsync",
		Subsystem: "reconcile",
		Name:      "config_members",
		Help:      "Members in the replica set configuration after the run",
	})

	ReconcileDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: "replsync",
		Subsystem: "reconcile",
		Name:      "duration_seconds",
		Help:      "Wall time of a reconciliation run",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 15),
	})
)
