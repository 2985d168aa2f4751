package mongodb

import (
	"go.mongodb.org/mongo-driver/mongo/options"
	"time"
)

const appName = "replsync"

type Options struct {
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	AuthSource             string
	AuthMechanism          string
	// DriverLogLevel is "off", "info" or "debug".
	DriverLogLevel string
}

func DefaultOptions() Options {
	return Options{
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 10 * time.Second,
		AuthSource:             "admin",
	}
}

func (o Options) clientOptions(hosts []string) *options.ClientOptions {
	opts := options.Client().
		SetAppName(appName).
		SetHosts(hosts)

	if o.ConnectTimeout > 0 {
		opts.SetConnectTimeout(o.ConnectTimeout)
	}
	if o.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(o.ServerSelectionTimeout)
	}
	if lo := loggerOptions(o.DriverLogLevel); lo != nil {
		opts.SetLoggerOptions(lo)
	}
	return opts
}

func (o Options) credential(user, password string) options.Credential {
	source := o.AuthSource
	if source == "" {
		source = "admin"
	}
	return options.Credential{
		AuthMechanism: o.AuthMechanism,
		AuthSource:    source,
		Username:      user,
		Password:      password,
	}
}
