package cmd

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nfrund/mqbind/cmd/mqbind-cli/internal/source"
)

// appFs is the filesystem catalog files are read from. Tests swap it for an
// in-memory one.
var appFs = afero.NewOsFs()

var rootCmd = &cobra.Command{
	Use:   "mqbind-cli",
	Short: "Inspect event catalogs and broker topology",
	Long: `mqbind-cli inspects the event catalog of a service and the broker topology
derived from it.

Available commands:
  catalog      List and validate event catalogs
  topology     Plan or declare the exchanges, queues and bindings of a service
  queue-name   Print the queue name for an exchange, event and service

Catalogs are read from a YAML file with --file, or default to the catalog
compiled into the service.

Use "mqbind-cli [command] --help" for more information about a specific command.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		source.Quiet()
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
