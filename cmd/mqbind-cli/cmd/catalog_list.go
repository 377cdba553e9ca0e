package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/mqbind/cmd/mqbind-cli/internal/display"
	"github.com/nfrund/mqbind/cmd/mqbind-cli/internal/source"
)

var listOutputFormat string

// catalogListCmd represents the catalog list command
var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the events of a catalog",
	Long: `List every event in the catalog with its direction, exchange and routing key.

Output formats:
  table - Human-readable table format (default)
  json  - Machine-readable JSON format with payload fields
  yaml  - Catalog file format, readable again with --file`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := source.Load(appFs, catalogFile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch listOutputFormat {
		case display.FormatJSON:
			return display.DisplayCatalogJSON(out, catalog.Catalog, catalog.Service)
		case display.FormatYAML:
			return display.DisplayCatalogYAML(out, catalog.Catalog, catalog.Service)
		case display.FormatTable:
			display.DisplayCatalogTable(out, catalog.Catalog)
			return nil
		default:
			return fmt.Errorf("unsupported output format '%s', use 'table', 'json' or 'yaml'", listOutputFormat)
		}
	},
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogListCmd.Flags().StringVarP(&listOutputFormat, "format", "f", display.FormatTable, "Output format (table, json, yaml)")
}
