package reconcile

import (
	"errors"
	"replsync/internal/admin"
	"replsync/internal/credentials"
	"replsync/internal/endpoint"
	"replsync/internal/metrics"
	"replsync/internal/replset"
	"time"
)

func observe(res *Result, err error, elapsed time.Duration) {
	metrics.ReconcileDuration.Observe(elapsed.Seconds())

	if err != nil {
		metrics.ReconcileRunsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		metrics.ReconcileFailuresTotal.WithLabelValues(ErrorKind(err)).Inc()
		return
	}

	// a dry run leaves the cluster at its current version
	if res.Config != nil && !res.DryRun {
		metrics.ConfigVersion.Set(float64(res.Config.Version))
		metrics.ConfigMembers.Set(float64(len(res.Config.Members)))
	}

	if !res.Changed {
		metrics.ReconcileRunsTotal.WithLabelValues(metrics.ResultUnchanged).Inc()
		return
	}
	metrics.ReconcileRunsTotal.WithLabelValues(metrics.ResultChanged).Inc()
	if !res.DryRun {
		metrics.MembersAddedTotal.Add(float64(len(res.Added)))
	}
}

// ErrorKind names the failure class of err for metrics and exit reporting.
func ErrorKind(err error) string {
	var (
		malformed *endpoint.MalformedInputError
		credErr   *credentials.ConfigurationError
		connErr   *admin.ConnectionError
		removal   *replset.UnsupportedRemovalError
		cmdErr    *admin.CommandError
	)

	switch {
	case errors.As(err, &malformed):
		return "malformed_input"
	case errors.As(err, &credErr):
		return "credential_configuration"
	case errors.As(err, &connErr):
		return "connection"
	case errors.As(err, &removal):
		return "unsupported_removal"
	case errors.As(err, &cmdErr):
		return "admin_command"
	case errors.Is(err, ErrReplicaSetRequired):
		return "invalid_request"
	case errors.Is(err, replset.ErrNameMismatch):
		return "name_mismatch"
	case errors.Is(err, ErrConfigMissing):
		return "inconsistent_state"
	default:
		return "other"
	}
}
