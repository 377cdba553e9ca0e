package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nfrund/mqbind/internal/rabbitmq"
	"github.com/nfrund/mqbind/internal/topology"
)

var declareAMQPURL string

// topologyDeclareCmd represents the topology declare command
var topologyDeclareCmd = &cobra.Command{
	Use:   "declare",
	Short: "Declare the topology on a broker",
	Long: `Declare the exchanges, queues and bindings of a service on a RabbitMQ broker.
Declaration is idempotent; resources that already exist with the same
properties are left unchanged.

The broker URL defaults to the AMQP_URL environment variable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, identity, err := loadTopologyInputs()
		if err != nil {
			return err
		}

		url := declareAMQPURL
		if url == "" {
			url = os.Getenv("AMQP_URL")
		}
		if url == "" {
			return fmt.Errorf("no broker URL, set --amqp-url or AMQP_URL")
		}

		transport, err := rabbitmq.Dial(url, "mqbind-cli", slog.Default())
		if err != nil {
			return err
		}
		defer transport.Close()

		topo, err := topology.NewDeclarator(transport, slog.Default()).Declare(cmd.Context(), catalog.Catalog, identity)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Declared %d exchanges, %d queues and %d bindings for '%s'\n",
			len(topo.Exchanges), len(topo.Queues), len(topo.Bindings), topo.Service)
		return nil
	},
}

func init() {
	topologyCmd.AddCommand(topologyDeclareCmd)
	topologyDeclareCmd.Flags().StringVar(&declareAMQPURL, "amqp-url", "", "Broker URL (default: $AMQP_URL)")
}
