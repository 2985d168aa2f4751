package main

import (
	"replsync/internal/admin"
	"replsync/internal/configuration"
	"replsync/internal/credentials"
	"replsync/internal/metrics"
	"replsync/internal/mongodb"
	"replsync/internal/reconcile"
)

type Services struct {
	Reconciler *reconcile.Reconciler
	Pusher     *metrics.Pusher
}

type proberFactory func(opts mongodb.Options) admin.Prober

func newMongoProber(opts mongodb.Options) admin.Prober {
	return mongodb.NewProber(opts)
}

func NewServices(provider configuration.ConfigProvider, newProber proberFactory) (*Services, error) {
	mongoCfg := provider.GetMongo()
	credCfg := provider.GetCredentials()
	metricsCfg := provider.GetMetrics()

	prober := newProber(mongodb.Options{
		ConnectTimeout:         mongoCfg.ConnectTimeout,
		ServerSelectionTimeout: mongoCfg.ServerSelectionTimeout,
		AuthSource:             mongoCfg.AuthSource,
		AuthMechanism:          mongoCfg.AuthMechanism,
		DriverLogLevel:         mongoCfg.DriverLogLevel,
	})

	reconciler, err := reconcile.New(
		prober,
		credentials.NewFile(credCfg.File, credCfg.Section),
		mongoCfg.DefaultPort,
	)
	if err != nil {
		return nil, err
	}

	return &Services{
		Reconciler: reconciler,
		Pusher:     metrics.NewPusher(metricsCfg.PushGateway, metricsCfg.Job, metricsCfg.PushTimeout),
	}, nil
}
