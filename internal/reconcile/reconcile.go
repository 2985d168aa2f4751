package reconcile

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"log/slog"
	"replsync/internal/admin"
	"replsync/internal/credentials"
	"replsync/internal/endpoint"
	"replsync/internal/metrics"
	"replsync/internal/replset"
	"time"
)

const DefaultLoginHost = "localhost"

var (
	ErrNoAdminChannel     = errors.New("no administrative channel available")
	ErrReplicaSetRequired = errors.New("replica set name is required")
	// ErrConfigMissing means the probe saw an initiated replica set but
	// replSetGetConfig returned no document.
	ErrConfigMissing = errors.New("reported as initiated but has no configuration")
)

type Request struct {
	ReplicaSet string
	// Hosts is the comma separated desired member list.
	Hosts string

	LoginHost     string
	LoginPort     int
	LoginUser     string
	LoginPassword string

	DryRun bool
}

// Result of a successful run. Config is the submitted document, or the
// live one when nothing changed.
type Result struct {
	Changed    bool
	DryRun     bool
	Mode       string
	ReplicaSet string
	Added      []endpoint.Endpoint
	Config     *replset.Config
}

type Reconciler struct {
	prober      admin.Prober
	credentials credentials.Source
	defaultPort int
}

// New fails when prober is nil so a missing admin channel is reported once
// at startup instead of in the middle of a run.
func New(prober admin.Prober, creds credentials.Source, defaultPort int) (*Reconciler, error) {
	if prober == nil {
		return nil, ErrNoAdminChannel
	}
	if defaultPort <= 0 {
		defaultPort = endpoint.DefaultPort
	}
	return &Reconciler{prober: prober, credentials: creds, defaultPort: defaultPort}, nil
}

// Run performs one reconciliation. Nothing is submitted unless every
// earlier step succeeded.
func (r *Reconciler) Run(ctx context.Context, req Request) (res *Result, err error) {
	start := time.Now()
	log := slog.With("run", uuid.NewString(), "replicaSet", req.ReplicaSet)

	defer func() {
		observe(res, err, time.Since(start))
	}()

	if req.ReplicaSet == "" {
		return nil, ErrReplicaSetRequired
	}

	desired, err := endpoint.ParseList(req.Hosts, r.defaultPort)
	if err != nil {
		return nil, err
	}

	cred, err := credentials.Resolve(req.LoginUser, req.LoginPassword, r.credentials)
	if err != nil {
		return nil, err
	}

	direct := r.loginEndpoint(req)
	probe, err := r.prober.Probe(ctx, admin.ProbeRequest{
		ReplicaSet: req.ReplicaSet,
		Seeds:      seedList(desired, direct),
		Direct:     direct,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := probe.Session.Close(context.WithoutCancel(ctx)); cerr != nil {
			log.Debug("closing admin session", "reason", cerr)
		}
	}()

	log.Info("cluster probed", "initiated", probe.Initiated, "desired", endpoint.Strings(desired))

	if cred != nil {
		if err := r.authenticate(ctx, log, probe.Session, *cred); err != nil {
			return nil, err
		}
	}

	var current *replset.Config
	if probe.Initiated {
		current, err = probe.Session.ReadConfig(ctx)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, fmt.Errorf("replica set %q: %w", req.ReplicaSet, ErrConfigMissing)
		}
		log.Debug("current configuration", "version", current.Version, "members", current.Hosts())
	}

	plan, err := replset.Build(replset.DesiredState{Name: req.ReplicaSet, Endpoints: desired}, current, r.defaultPort)
	if err != nil {
		return nil, err
	}

	res = &Result{
		Mode:       plan.Mode.String(),
		ReplicaSet: req.ReplicaSet,
		Added:      plan.Added,
		Config:     plan.Config,
	}

	if plan.Noop() {
		log.Info("replica set already converged", "version", current.Version)
		return res, nil
	}

	res.Changed = true
	if req.DryRun {
		res.DryRun = true
		log.Info("dry run, configuration not submitted",
			"mode", plan.Mode, "version", plan.Config.Version, "added", endpoint.Strings(plan.Added))
		return res, nil
	}

	if err := probe.Session.ApplyConfig(ctx, plan.Mode, plan.Config); err != nil {
		return nil, err
	}

	log.Info("configuration submitted",
		"mode", plan.Mode, "version", plan.Config.Version, "added", endpoint.Strings(plan.Added))
	return res, nil
}

func (r *Reconciler) authenticate(ctx context.Context, log *slog.Logger, s admin.Session, cred credentials.Credential) error {
	err := s.Authenticate(ctx, cred)
	if err == nil {
		log.Debug("authenticated", "user", cred.User)
		return nil
	}

	var authErr *admin.AuthenticationError
	if errors.As(err, &authErr) {
		metrics.AuthFailuresTotal.Inc()
		log.Warn("authentication failed, continuing unauthenticated", "user", cred.User, "reason", authErr.Err)
		return nil
	}
	return err
}

func (r *Reconciler) loginEndpoint(req Request) endpoint.Endpoint {
	host := req.LoginHost
	if host == "" {
		host = DefaultLoginHost
	}
	port := req.LoginPort
	if port <= 0 {
		port = r.defaultPort
	}
	return endpoint.New(host, port)
}

// seedList is the desired list followed by the login endpoint when it is
// not already part of it.
func seedList(desired []endpoint.Endpoint, login endpoint.Endpoint) []endpoint.Endpoint {
	seeds := make([]endpoint.Endpoint, 0, len(desired)+1)
	seeds = append(seeds, desired...)
	for _, ep := range desired {
		if ep.String() == login.String() {
			return seeds
		}
	}
	return append(seeds, login)
}
