package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/deploytx/internal/cli/render"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// NewBuildCmd creates the build command
func NewBuildCmd() *cobra.Command {
	var (
		argsFile string
		value    string
		output   string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "build <contract> [args...]",
		Short: "Build an unsigned deployment transaction",
		Long: `Build an unsigned contract-creation transaction from a compiled artifact.

The contract may be given as a bare name (Token) or qualified by its source
file (contracts/Token.sol:Token). Constructor arguments follow the contract
name in declaration order, or come from a JSON/YAML file with --args-file.

The transaction is written as {"to": "", "value": "", "data": "0x..."} to
deploytxobj.json in the project root unless --out is given.`,
		Example: `  # Deploy a token with two string arguments
  deploytx build Token "Test Coin" TC

  # Arguments from a file, keyed by constructor parameter name
  deploytx build Token --args-file token.args.yaml

  # Payable constructor with 1 ether attached
  deploytx build Vault 0x5FbDB2315678afecb367f032d93F642f64180aa3 --value 1000000000000000000

  # Link a library and compile first
  deploytx build Calculator --library MathLib=0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512 --compile`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			// --library is folded into the runtime config
			params := usecase.BuildDeploymentTransactionParams{
				Contract: args[0],
				Args:     args[1:],
				ArgsFile: argsFile,
				Value:    value,
				Output:   output,
				DryRun:   dryRun,
			}

			result, err := app.BuildDeploymentTransaction.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewTransactionRenderer(cmd.OutOrStdout(), useColor())
			return renderer.Render(result)
		},
	}

	cmd.Flags().StringVar(&argsFile, "args-file", "", "JSON or YAML file with constructor arguments")
	cmd.Flags().StringVar(&value, "value", "", "Wei to send with the deployment (decimal or 0x hex)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output file (default deploytxobj.json)")
	cmd.Flags().StringSlice("library", nil, "Library address as Name=0xAddress (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the transaction without writing it")

	return cmd
}
