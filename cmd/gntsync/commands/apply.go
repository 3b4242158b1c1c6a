package commands

import (
	"github.com/spf13/cobra"

	"github.com/clusterkit/gntsync/cmd/gntsync/handlers"
)

// Apply returns the command for reconciling an instance.
//
// Optional flags:
//
//	--config, -c: Path to the instance configuration YAML file (default: gntsync.yaml)
//	--dry-run:    Plan only, submit nothing to the cluster
//
// Environment variables:
//
//	GNT_RAPI_PASSWORD: RAPI password, overrides the config file value
func Apply() *cobra.Command {
	var configPath string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile the instance toward its declared state",
		Long: `Reconcile a Ganeti instance toward the state declared in the
configuration file.

The run observes the instance fresh, corrects attribute drift (memory, vcpus,
disk template, OS) in the required order, then applies the final desired-state
action (create, delete, startup, shutdown, reboot, migrate, reinstall).

Examples:
  # Reconcile using gntsync.yaml in the current directory
  gntsync apply

  # Reconcile using a specific config file
  gntsync apply -c production.yaml

  # Show what would change without touching the cluster
  gntsync apply --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath, dryRun)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: gntsync.yaml)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan only, submit nothing to the cluster")

	return cmd
}

// Plan returns the command for a side-effect-free reconciliation preview.
// It is apply with the dry-run flag forced on.
func Plan() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the mutations apply would submit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath, true)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: gntsync.yaml)")

	return cmd
}
