package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/mqbind/internal/naming"
)

var queueNameCmd = &cobra.Command{
	Use:   "queue-name <exchange> <event> <service>",
	Short: "Print the queue a service consumes an event from",
	Long: `Print the name of the queue that service declares to consume event from
exchange. Useful for finding a service's queue in the broker's management UI.

Example:
  mqbind-cli queue-name users UserCreated billing-service
  # users.UserCreated.billing-service`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), naming.QueueName(args[0], args[1], args[2]))
	},
}

func init() {
	rootCmd.AddCommand(queueNameCmd)
}
