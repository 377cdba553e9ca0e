package cmd

import (
	"github.com/spf13/cobra"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List and validate event catalogs",
	Long: `The catalog command lists the events a service produces and consumes and
checks that every descriptor can be routed.

Examples:
  # List the built-in catalog
  mqbind-cli catalog list

  # List a catalog file as JSON
  mqbind-cli catalog list --file catalog.yaml --format json

  # Validate a catalog file
  mqbind-cli catalog validate --file catalog.yaml`,
}

var catalogFile string

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.PersistentFlags().StringVar(&catalogFile, "file", "", "YAML catalog file (default: built-in catalog)")
}
