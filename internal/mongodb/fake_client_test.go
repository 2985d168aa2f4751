package mongodb

import (
	"context"
	"errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// fakeClient answers admin commands from canned replies keyed by command
// name. Commands without a reply succeed with {ok: 1}.
type fakeClient struct {
	replies map[string]*mongo.SingleResult

	commands     []bson.D
	readPrefs    []*readpref.ReadPref
	disconnected bool
}

func (c *fakeClient) RunAdminCommand(_ context.Context, cmd any, rp *readpref.ReadPref) *mongo.SingleResult {
	d := cmd.(bson.D)
	c.commands = append(c.commands, d)
	c.readPrefs = append(c.readPrefs, rp)
	if r, ok := c.replies[d[0].Key]; ok {
		return r
	}
	return mongo.NewSingleResultFromDocument(bson.D{{Key: "ok", Value: 1}}, nil, nil)
}

func (c *fakeClient) Disconnect(context.Context) error {
	c.disconnected = true
	return nil
}

func reply(doc bson.D) *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(doc, nil, nil)
}

func failure(err error) *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(bson.D{}, err, nil)
}

type dialStep struct {
	client adminClient
	err    error
}

// fakeDialer hands out one step per connect call and records what the
// caller asked for.
type fakeDialer struct {
	steps []dialStep

	opts      []*options.ClientOptions
	readPrefs []*readpref.ReadPref
}

func (d *fakeDialer) connect(_ context.Context, opts *options.ClientOptions, rp *readpref.ReadPref) (adminClient, error) {
	d.opts = append(d.opts, opts)
	d.readPrefs = append(d.readPrefs, rp)
	if len(d.steps) == 0 {
		return nil, errors.New("unexpected connect")
	}
	step := d.steps[0]
	d.steps = d.steps[1:]
	return step.client, step.err
}
