// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/clusterkit/gntsync/internal/config"
	"github.com/clusterkit/gntsync/internal/platform/rapi"
	"github.com/clusterkit/gntsync/internal/reconcile"
)

const defaultConfigFile = "gntsync.yaml"

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// newClient creates a cluster client from connection settings.
	newClient = func(cc config.ClusterConfig) rapi.Client {
		var opts []rapi.ClientOption
		if cc.User != "" && cc.Password != "" {
			opts = append(opts, rapi.WithBasicAuth(cc.User, cc.Password))
		}
		return rapi.NewRealClient(cc.Host, cc.Port, opts...)
	}

	// newReconciler creates the reconciler for a desired spec.
	newReconciler = func(client rapi.Client, spec *config.InstanceSpec) Reconciler {
		return reconcile.NewReconciler(client, spec)
	}

	// printf writes user-facing output.
	printf = fmt.Printf
)

// Reconciler interface for testing - matches reconcile.Reconciler.
type Reconciler interface {
	Reconcile(ctx context.Context) (*reconcile.Result, error)
}

// Apply runs one reconciliation of the configured instance.
//
// With dryRun set, mutating calls are intercepted before transmission and
// the reported actions describe what a real run would submit.
func Apply(ctx context.Context, configPath string, dryRun bool) error {
	if configPath == "" {
		configPath = defaultConfigFile
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	client := newClient(cfg.Cluster)
	if dryRun {
		client = rapi.NewDryRunClient(client)
	}

	res, err := newReconciler(client, &cfg.Instance).Reconcile(ctx)
	if err != nil {
		return fmt.Errorf("reconcile %s: %w", cfg.Instance.Name, err)
	}

	switch {
	case !res.Changed:
		printf("%s: no changes\n", cfg.Instance.Name)
	case dryRun:
		printf("%s: would submit %s\n", cfg.Instance.Name, strings.Join(res.Actions, ", "))
	default:
		printf("%s: submitted %s\n", cfg.Instance.Name, strings.Join(res.Actions, ", "))
	}

	return nil
}
