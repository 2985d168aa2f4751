package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"io"
	"replsync/internal/admin"
	"replsync/internal/endpoint"
	"replsync/internal/reconcile"
	"replsync/internal/replset"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type resultView struct {
	Changed    bool             `json:"changed" yaml:"changed"`
	DryRun     bool             `json:"dryRun,omitempty" yaml:"dryRun,omitempty"`
	Mode       string           `json:"mode" yaml:"mode"`
	ReplicaSet string           `json:"replicaSet" yaml:"replicaSet"`
	Version    int              `json:"version,omitempty" yaml:"version,omitempty"`
	Added      []string         `json:"added,omitempty" yaml:"added,omitempty"`
	Members    []replset.Member `json:"members,omitempty" yaml:"members,omitempty"`
}

type failureView struct {
	Failed  bool     `json:"failed" yaml:"failed"`
	Kind    string   `json:"kind" yaml:"kind"`
	Message string   `json:"msg" yaml:"msg"`
	Members []string `json:"members,omitempty" yaml:"members,omitempty"`
}

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderResult(w io.Writer, format string, res *reconcile.Result) error {
	if format == outputText {
		state := "unchanged"
		if res.Changed {
			state = "changed"
		}
		if res.DryRun {
			state += " (dry run)"
		}
		_, err := fmt.Fprintln(w, state)
		return err
	}

	view := resultView{
		Changed:    res.Changed,
		DryRun:     res.DryRun,
		Mode:       res.Mode,
		ReplicaSet: res.ReplicaSet,
		Added:      endpoint.Strings(res.Added),
	}
	if res.Config != nil {
		view.Version = res.Config.Version
		view.Members = res.Config.Members
	}
	return encode(w, format, view)
}

// renderFailure writes structured failures to stdout and text failures to
// stderr.
func renderFailure(stdout, stderr io.Writer, format string, err error) error {
	if format != outputJSON && format != outputYAML {
		_, werr := fmt.Fprintf(stderr, "Error: %v\n", err)
		return werr
	}

	return encode(stdout, format, failureView{
		Failed:  true,
		Kind:    reconcile.ErrorKind(err),
		Message: err.Error(),
		Members: failureMembers(err),
	})
}

func failureMembers(err error) []string {
	var removal *replset.UnsupportedRemovalError
	if errors.As(err, &removal) {
		return endpoint.Strings(removal.Endpoints)
	}
	var connErr *admin.ConnectionError
	if errors.As(err, &connErr) {
		return endpoint.Strings(connErr.Hosts)
	}
	return nil
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
