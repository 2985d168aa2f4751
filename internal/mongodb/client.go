package mongodb

import (
	"context"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// adminClient is the slice of *mongo.Client the prober and session use.
type adminClient interface {
	RunAdminCommand(ctx context.Context, cmd any, rp *readpref.ReadPref) *mongo.SingleResult
	Disconnect(ctx context.Context) error
}

// connectFunc opens a client and pings it with rp.
type connectFunc func(ctx context.Context, opts *options.ClientOptions, rp *readpref.ReadPref) (adminClient, error)

type driverClient struct {
	client *mongo.Client
}

func (c driverClient) RunAdminCommand(ctx context.Context, cmd any, rp *readpref.ReadPref) *mongo.SingleResult {
	runOpts := options.RunCmd()
	if rp != nil {
		runOpts.SetReadPreference(rp)
	}
	return c.client.Database(adminDatabase).RunCommand(ctx, cmd, runOpts)
}

func (c driverClient) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

func connect(ctx context.Context, opts *options.ClientOptions, rp *readpref.ReadPref) (adminClient, error) {
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, rp); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return driverClient{client: client}, nil
}
