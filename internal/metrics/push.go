package metrics

import (
	"context"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"log/slog"
	"time"
)

type Pusher struct {
	gateway  string
	job      string
	timeout  time.Duration
	gatherer prometheus.Gatherer
}

func NewPusher(gateway, job string, timeout time.Duration) *Pusher {
	if job == "" {
		job = "replsync"
	}
	return &Pusher{gateway: gateway, job: job, timeout: timeout, gatherer: Registry}
}

func (p *Pusher) Enabled() bool {
	return p != nil && p.gateway != ""
}

// Push sends the registry to the gateway grouped by replica set. Errors are
// logged and returned; callers treat them as non-fatal.
func (p *Pusher) Push(ctx context.Context, replicaSet string) error {
	if !p.Enabled() {
		return nil
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	pusher := push.New(p.gateway, p.job).Gatherer(p.gatherer)
	if replicaSet != "" {
		pusher = pusher.Grouping("replica_set", replicaSet)
	}

	if err := pusher.PushContext(ctx); err != nil {
		slog.Warn("metrics push failed", "gateway", p.gateway, "reason", err)
		return err
	}

	slog.Debug("metrics pushed", "gateway", p.gateway, "job", p.job)
	return nil
}
