package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/nfrund/mqbind/cmd/mqbind-cli/internal/display"
	"github.com/nfrund/mqbind/cmd/mqbind-cli/internal/source"
)

// errInvalidCatalog is returned after the validation failure has been printed.
var errInvalidCatalog = errors.New("catalog is invalid")

// catalogValidateCmd represents the catalog validate command
var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a catalog",
	Long: `Validate every descriptor of a catalog. The checks are:
- exchange and routing key are not blank
- exchange names use only characters the broker accepts and avoid the amq. prefix
- routing keys have no whitespace and wildcards occupy whole words
- events sharing a name agree on exchange and routing key`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := source.Load(appFs, catalogFile)
		if err != nil {
			return err
		}

		err = catalog.Validate()
		display.DisplayValidationResult(cmd.OutOrStdout(), catalog.Catalog, catalog.Origin, err)
		if err != nil {
			return errInvalidCatalog
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
}
