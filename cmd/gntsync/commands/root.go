// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/clusterkit/gntsync/internal/log"
)

// Root returns the root command for the gntsync CLI.
func Root() *cobra.Command {
	var logLevel string
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "gntsync",
		Short: "Reconcile Ganeti instances against a declared desired state",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			log.Init(log.Config{Level: logLevel, JSONOutput: logJSON})
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON lines")

	cmd.AddCommand(Apply())
	cmd.AddCommand(Plan())
	cmd.AddCommand(Version())

	return cmd
}
