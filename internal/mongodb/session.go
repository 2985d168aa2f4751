package mongodb

import (
	"context"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"log/slog"
	"replsync/internal/admin"
	"replsync/internal/credentials"
	"replsync/internal/endpoint"
	"replsync/internal/replset"
)

const adminDatabase = "admin"

type session struct {
	client   adminClient
	base     *options.ClientOptions
	readPref *readpref.ReadPref
	opts     Options
	connect  connectFunc
}

func newSession(client adminClient, base *options.ClientOptions, rp *readpref.ReadPref, opts Options, connect connectFunc) *session {
	return &session{client: client, base: base, readPref: rp, opts: opts, connect: connect}
}

// Authenticate reconnects with the credential. The driver authenticates
// during the connection handshake, so a login is only observable by
// opening a new client.
func (s *session) Authenticate(ctx context.Context, cred credentials.Credential) error {
	authOpts := options.MergeClientOptions(s.base, options.Client().SetAuth(s.opts.credential(cred.User, cred.Password)))

	client, err := s.connect(ctx, authOpts, s.readPref)
	if err != nil {
		if isAuthError(err) {
			return &admin.AuthenticationError{User: cred.User, Err: err}
		}
		return &admin.ConnectionError{Mode: "authenticated", Hosts: hostsOf(s.base), Err: err}
	}

	prev := s.client
	s.client = client
	s.base = authOpts
	if err := prev.Disconnect(ctx); err != nil {
		slog.Debug("closing unauthenticated client", "error", err)
	}
	return nil
}

func (s *session) ReadConfig(ctx context.Context) (*replset.Config, error) {
	var resp struct {
		Config replset.Config `bson:"config"`
	}

	res := s.client.RunAdminCommand(ctx, bson.D{{Key: "replSetGetConfig", Value: 1}}, s.readPref)
	if err := res.Decode(&resp); err != nil {
		if hasServerCode(err, codeNotYetInitialized) {
			return nil, nil
		}
		return nil, commandError("replSetGetConfig", err)
	}

	return &resp.Config, nil
}

func (s *session) ApplyConfig(ctx context.Context, mode replset.Mode, cfg *replset.Config) error {
	command, err := submitCommand(mode)
	if err != nil {
		return err
	}

	// writes go to the primary, or to the only server on a direct connection
	if err := s.client.RunAdminCommand(ctx, bson.D{{Key: command, Value: cfg}}, nil).Err(); err != nil {
		return commandError(command, err)
	}
	return nil
}

func submitCommand(mode replset.Mode) (string, error) {
	switch mode {
	case replset.ModeInitiate:
		return "replSetInitiate", nil
	case replset.ModeReconfigure:
		return "replSetReconfig", nil
	default:
		return "", fmt.Errorf("unsupported submit mode %s", mode)
	}
}

func (s *session) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func hostsOf(opts *options.ClientOptions) []endpoint.Endpoint {
	out := make([]endpoint.Endpoint, 0, len(opts.Hosts))
	for _, h := range opts.Hosts {
		ep, err := endpoint.Parse(h, endpoint.DefaultPort)
		if err != nil {
			continue
		}
		out = append(out, ep)
	}
	return out
}
