package main

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"io"
	"log/slog"
	"replsync/internal/configuration"
	"replsync/internal/logging"
	"replsync/internal/reconcile"
)

type cmdRoot struct {
	stdout io.Writer
	stderr io.Writer

	newProber proberFactory

	flagConfigDir       string
	flagProfile         string
	flagLogLevel        string
	flagHosts           string
	flagReplicaSet      string
	flagLoginHost       string
	flagLoginPort       int
	flagLoginUser       string
	flagLoginPassword   string
	flagCredentialsFile string
	flagPushGateway     string
	flagDryRun          bool
	flagOutput          string
}

func newRootCmd(stdout, stderr io.Writer) *cmdRoot {
	return &cmdRoot{stdout: stdout, stderr: stderr, newProber: newMongoProber}
}

func (c *cmdRoot) command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "replsync --replica-set <name> --hosts <host[:port],...>"
	cmd.Short = "Converge a MongoDB replica set to a list of members"
	cmd.Long = `Description:
  Initiates the replica set when it does not exist yet, or adds the
  missing members to a running one. Members are never removed; a host
  list that omits a current member is rejected.

  Prints "changed" or "unchanged". Running it again after a change is a
  no-op.
`
	cmd.Example = `  replsync --replica-set rs0 --hosts m0,m1:27011,m2:27012
  replsync --replica-set rs0 --hosts m0,m1,m2,m3 --login-user admin --login-password secret --output json`
	cmd.Args = cobra.NoArgs
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.CompletionOptions = cobra.CompletionOptions{DisableDefaultCmd: true}
	cmd.RunE = c.run

	flags := cmd.Flags()
	flags.StringVar(&c.flagHosts, "hosts", "", "Comma separated desired members, host[:port]")
	flags.StringVar(&c.flagReplicaSet, "replica-set", "", "Replica set name")
	flags.StringVar(&c.flagLoginHost, "login-host", reconcile.DefaultLoginHost, "Host contacted directly when the set is not initiated")
	flags.IntVar(&c.flagLoginPort, "login-port", 0, "Port of --login-host (default: mongo.default-port)")
	flags.StringVar(&c.flagLoginUser, "login-user", "", "Administrative user")
	flags.StringVar(&c.flagLoginPassword, "login-password", "", "Password of --login-user")
	flags.StringVar(&c.flagCredentialsFile, "credentials-file", "", "ini file with [client] user/pass (default: credentials.file)")
	flags.BoolVar(&c.flagDryRun, "dry-run", false, "Compute the change without submitting it")
	flags.StringVarP(&c.flagOutput, "output", "o", outputText, "Output format: text, json or yaml")
	_ = cmd.MarkFlagRequired("hosts")
	_ = cmd.MarkFlagRequired("replica-set")

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&c.flagConfigDir, "config-dir", "", "Directory holding application.yml")
	persistent.StringVar(&c.flagProfile, "profile", "", "Configuration profile overlay")
	persistent.StringVar(&c.flagLogLevel, "log-level", "", "debug, info, warn or error (default: app.log-level)")
	persistent.StringVar(&c.flagPushGateway, "push-gateway", "", "Prometheus Pushgateway URL (default: metrics.push-gateway)")

	return cmd
}

func (c *cmdRoot) run(cmd *cobra.Command, _ []string) error {
	if err := validateOutput(c.flagOutput); err != nil {
		return c.fail(err)
	}

	cfg, err := configuration.Load(c.flagConfigDir, c.flagProfile)
	if err != nil {
		return c.fail(fmt.Errorf("load configuration: %w", err))
	}
	c.applyOverrides(cfg)

	logging.Init(cfg.App.LogLevel)

	services, err := NewServices(configuration.NewProvider(cfg), c.newProber)
	if err != nil {
		return c.fail(err)
	}

	res, runErr := services.Reconciler.Run(cmd.Context(), reconcile.Request{
		ReplicaSet:    c.flagReplicaSet,
		Hosts:         c.flagHosts,
		LoginHost:     c.flagLoginHost,
		LoginPort:     c.flagLoginPort,
		LoginUser:     c.flagLoginUser,
		LoginPassword: c.flagLoginPassword,
		DryRun:        c.flagDryRun,
	})

	_ = services.Pusher.Push(context.WithoutCancel(cmd.Context()), c.flagReplicaSet)

	if runErr != nil {
		slog.Error("reconciliation failed", "kind", reconcile.ErrorKind(runErr), "reason", runErr)
		return c.fail(runErr)
	}

	return renderResult(c.stdout, c.flagOutput, res)
}

// applyOverrides lays explicitly set flags over the loaded configuration.
func (c *cmdRoot) applyOverrides(cfg *configuration.Properties) {
	if c.flagLogLevel != "" {
		cfg.App.LogLevel = c.flagLogLevel
	}
	if c.flagCredentialsFile != "" {
		cfg.Credentials.File = c.flagCredentialsFile
	}
	if c.flagPushGateway != "" {
		cfg.Metrics.PushGateway = c.flagPushGateway
	}
}

// reportedError marks an error already written to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func (c *cmdRoot) fail(err error) error {
	if rerr := renderFailure(c.stdout, c.stderr, c.flagOutput, err); rerr != nil {
		slog.Error("rendering failure", "reason", rerr)
	}
	return &reportedError{err: err}
}
