package reconcile

import (
	"context"
	"errors"
	"fmt"
	"replsync/internal/admin"
	"replsync/internal/credentials"
	"replsync/internal/replset"
)

// fakeCluster is an in-memory replica set that validates submissions the
// way the server does for version and name.
type fakeCluster struct {
	name   string
	config *replset.Config

	probeErr    error
	authErr     error
	readErr     error
	readMissing bool
	applyErr    error
	validLogins map[string]string

	probes  []admin.ProbeRequest
	applied []appliedConfig
	logins  []string
	closed  int
	authed  bool
}

type appliedConfig struct {
	mode replset.Mode
	cfg  *replset.Config
}

func newFakeCluster(name string) *fakeCluster {
	return &fakeCluster{name: name}
}

func (c *fakeCluster) Probe(_ context.Context, req admin.ProbeRequest) (*admin.ProbeResult, error) {
	c.probes = append(c.probes, req)
	if c.probeErr != nil {
		return nil, c.probeErr
	}
	return &admin.ProbeResult{
		Initiated: c.config != nil,
		Session:   &fakeSession{cluster: c},
	}, nil
}

type fakeSession struct {
	cluster *fakeCluster
}

func (s *fakeSession) Authenticate(_ context.Context, cred credentials.Credential) error {
	c := s.cluster
	c.logins = append(c.logins, cred.User)
	if c.authErr != nil {
		return c.authErr
	}
	if pw, ok := c.validLogins[cred.User]; !ok || pw != cred.Password {
		return &admin.AuthenticationError{User: cred.User, Err: errors.New("AuthenticationFailed")}
	}
	c.authed = true
	return nil
}

func (s *fakeSession) ReadConfig(context.Context) (*replset.Config, error) {
	if s.cluster.readErr != nil {
		return nil, s.cluster.readErr
	}
	if s.cluster.readMissing {
		return nil, nil
	}
	// hand out a copy, the server never shares its document
	return s.cluster.config.Clone(), nil
}

func (s *fakeSession) ApplyConfig(_ context.Context, mode replset.Mode, cfg *replset.Config) error {
	c := s.cluster
	if c.applyErr != nil {
		return c.applyErr
	}

	switch mode {
	case replset.ModeInitiate:
		if c.config != nil {
			return &admin.CommandError{Command: "replSetInitiate", Code: 23, CodeName: "AlreadyInitialized", Reason: "already initialized"}
		}
	case replset.ModeReconfigure:
		if c.config == nil {
			return &admin.CommandError{Command: "replSetReconfig", Code: 94, CodeName: "NotYetInitialized", Reason: "no replset config has been received"}
		}
		if cfg.Version != c.config.Version+1 {
			return &admin.CommandError{Command: "replSetReconfig", Code: 103, Reason: fmt.Sprintf("version %d is not current+1", cfg.Version)}
		}
	}
	if cfg.Name != c.name {
		return &admin.CommandError{Command: mode.String(), Code: 93, Reason: "name mismatch"}
	}

	c.applied = append(c.applied, appliedConfig{mode: mode, cfg: cfg.Clone()})
	c.config = cfg.Clone()
	return nil
}

func (s *fakeSession) Close(context.Context) error {
	s.cluster.closed++
	return nil
}

type fakeCredentials struct {
	cred *credentials.Credential
}

func (f fakeCredentials) Load() (*credentials.Credential, bool) {
	return f.cred, f.cred != nil
}
