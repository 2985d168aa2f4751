package admin

import (
	"context"
	"replsync/internal/credentials"
	"replsync/internal/endpoint"
	"replsync/internal/replset"
)

// ProbeRequest describes first contact with the cluster.
type ProbeRequest struct {
	ReplicaSet string
	// Seeds is the list used for the replica set aware attempt.
	Seeds []endpoint.Endpoint
	// Direct is the single node contacted when the set is not initiated.
	Direct endpoint.Endpoint
}

// ProbeResult carries the connection mode decided by the probe.
type ProbeResult struct {
	Initiated bool
	Session   Session
}

type Prober interface {
	Probe(ctx context.Context, req ProbeRequest) (*ProbeResult, error)
}

// Session is an open administrative channel to the cluster.
type Session interface {
	// Authenticate switches the session to the given credential. It
	// returns *AuthenticationError when the server refuses the login and
	// leaves the session usable unauthenticated in that case.
	Authenticate(ctx context.Context, cred credentials.Credential) error

	// ReadConfig returns the live configuration, or nil when the node has
	// no configuration yet.
	ReadConfig(ctx context.Context) (*replset.Config, error)

	// ApplyConfig submits cfg with replSetInitiate or replSetReconfig.
	ApplyConfig(ctx context.Context, mode replset.Mode, cfg *replset.Config) error

	Close(ctx context.Context) error
}
