package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/mqbind/cmd/mqbind-cli/internal/display"
	"github.com/nfrund/mqbind/internal/topology"
)

var planOutputFormat string

// topologyPlanCmd represents the topology plan command
var topologyPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the topology without contacting a broker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, identity, err := loadTopologyInputs()
		if err != nil {
			return err
		}

		topo, err := topology.Plan(catalog.Catalog, identity)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch planOutputFormat {
		case display.FormatJSON:
			return display.DisplayTopologyJSON(out, topo)
		case display.FormatTable:
			display.DisplayTopologyTable(out, topo)
			return nil
		default:
			return fmt.Errorf("unsupported output format '%s', use 'table' or 'json'", planOutputFormat)
		}
	},
}

func init() {
	topologyCmd.AddCommand(topologyPlanCmd)
	topologyPlanCmd.Flags().StringVarP(&planOutputFormat, "format", "f", display.FormatTable, "Output format (table, json)")
}
