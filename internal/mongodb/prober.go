package mongodb

import (
	"context"
	"errors"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"log/slog"
	"replsync/internal/admin"
	"replsync/internal/endpoint"
)

const (
	modeReplicaSet = "replica set"
	modeDirect     = "direct"
)

// Prober decides whether the replica set exists by connecting in replica
// set mode first and falling back to a direct connection.
type Prober struct {
	opts    Options
	connect connectFunc
}

func NewProber(opts Options) *Prober {
	return &Prober{opts: opts, connect: connect}
}

func (p *Prober) Probe(ctx context.Context, req admin.ProbeRequest) (*admin.ProbeResult, error) {
	seeds := endpoint.Strings(req.Seeds)

	rsOpts := p.opts.clientOptions(seeds).SetReplicaSet(req.ReplicaSet)
	client, err := p.connect(ctx, rsOpts, readpref.Nearest())
	if err == nil {
		slog.Debug("replica set reachable", "replicaSet", req.ReplicaSet, "seeds", seeds)
		return &admin.ProbeResult{
			Initiated: true,
			Session:   newSession(client, rsOpts, readpref.PrimaryPreferred(), p.opts, p.connect),
		}, nil
	}

	err = classifyProbeError(err)
	if !errors.Is(err, admin.ErrNotInitiated) {
		return nil, &admin.ConnectionError{Mode: modeReplicaSet, Hosts: req.Seeds, Err: err}
	}

	slog.Info("replica set not initiated, connecting directly",
		"replicaSet", req.ReplicaSet,
		"host", req.Direct.String(),
	)

	// no primary exists yet, so reads must tolerate a secondary
	directRP := readpref.SecondaryPreferred()
	directOpts := p.opts.clientOptions([]string{req.Direct.String()}).
		SetDirect(true).
		SetReadPreference(directRP)

	client, err = p.connect(ctx, directOpts, directRP)
	if err != nil {
		return nil, &admin.ConnectionError{
			Mode:  modeDirect,
			Hosts: []endpoint.Endpoint{req.Direct},
			Err:   err,
		}
	}

	return &admin.ProbeResult{
		Initiated: false,
		Session:   newSession(client, directOpts, directRP, p.opts, p.connect),
	}, nil
}
