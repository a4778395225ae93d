package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/deploytx/internal/cli/render"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var contract string

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Decode a transaction file and check it against an artifact",
		Long: `Decode a transaction file written by build or proxy.

Creation transactions are checked against the creation code of --contract and
their constructor arguments decoded. Calls are decoded with the ABI of
--contract, or as upgradeToAndCall when no contract is given.`,
		Example: `  deploytx inspect --contract Token
  deploytx inspect out/upgrade.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.InspectTransactionParams{Contract: contract}
			if len(args) == 1 {
				params.Path = args[0]
			}

			result, err := app.InspectTransaction.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewTransactionRenderer(cmd.OutOrStdout(), useColor()).RenderInspect(result)
		},
	}

	cmd.Flags().StringVar(&contract, "contract", "", "Artifact the transaction was built from")

	return cmd
}
