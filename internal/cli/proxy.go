package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/deploytx/internal/cli/render"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// NewProxyCmd creates the proxy command group
func NewProxyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Prepare upgradeable proxy transactions",
		Long: `Prepare unsigned transactions for ERC1967/UUPS proxies.

These commands are independent of "build": they deploy a proxy in front of
an implementation that is already on chain, or upgrade an existing proxy.`,
	}

	cmd.AddCommand(newProxyDeployCmd())
	cmd.AddCommand(newProxyUpgradeCmd())

	return cmd
}

func newProxyDeployCmd() *cobra.Command {
	var (
		proxy         string
		contract      string
		initializer   string
		noInitializer bool
		value         string
		output        string
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:   "deploy <implementation> [init-args...]",
		Short: "Build a proxy deployment transaction",
		Long: `Build the creation transaction of a proxy pointing at a deployed implementation.

The initializer call is encoded with the ABI of --contract. When --initializer
is not given, initialize, init and initializer are tried in that order.`,
		Example: `  # ERC1967Proxy in front of Box, calling initialize(42)
  deploytx proxy deploy 0x5FbDB2315678afecb367f032d93F642f64180aa3 42 --contract Box

  # Without an initializer call
  deploytx proxy deploy 0x5FbDB2315678afecb367f032d93F642f64180aa3 --no-initializer`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.PrepareProxyTransaction.Deploy(cmd.Context(), usecase.ProxyDeployParams{
				Proxy:                  proxy,
				Implementation:         args[0],
				ImplementationContract: contract,
				Initializer:            initializer,
				NoInitializer:          noInitializer,
				InitArgs:               args[1:],
				Value:                  value,
				Output:                 output,
				DryRun:                 dryRun,
			})
			if err != nil {
				return err
			}

			return render.NewTransactionRenderer(cmd.OutOrStdout(), useColor()).RenderProxy(result)
		},
	}

	cmd.Flags().StringVar(&proxy, "proxy", "", "Proxy artifact (default from config, ERC1967Proxy)")
	cmd.Flags().StringVar(&contract, "contract", "", "Implementation artifact used to encode the initializer")
	cmd.Flags().StringVar(&initializer, "initializer", "", "Initializer function name or signature")
	cmd.Flags().BoolVar(&noInitializer, "no-initializer", false, "Deploy with empty initialization data")
	cmd.Flags().StringVar(&value, "value", "", "Wei to send with the deployment")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output file (default deploytxobj.json)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the transaction without writing it")

	return cmd
}

func newProxyUpgradeCmd() *cobra.Command {
	var (
		contract string
		call     string
		value    string
		output   string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "upgrade <proxy> <new-implementation> [call-args...]",
		Short: "Build an upgradeToAndCall transaction",
		Example: `  # Plain upgrade
  deploytx proxy upgrade 0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512 0x5FbDB2315678afecb367f032d93F642f64180aa3

  # Upgrade and call migrate(2) on the new implementation
  deploytx proxy upgrade 0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512 0x5FbDB2315678afecb367f032d93F642f64180aa3 2 --contract BoxV2 --call migrate`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.PrepareProxyTransaction.Upgrade(cmd.Context(), usecase.ProxyUpgradeParams{
				Proxy:                  args[0],
				NewImplementation:      args[1],
				ImplementationContract: contract,
				Call:                   call,
				CallArgs:               args[2:],
				Value:                  value,
				Output:                 output,
				DryRun:                 dryRun,
			})
			if err != nil {
				return err
			}

			return render.NewTransactionRenderer(cmd.OutOrStdout(), useColor()).RenderProxy(result)
		},
	}

	cmd.Flags().StringVar(&contract, "contract", "", "New implementation artifact")
	cmd.Flags().StringVar(&call, "call", "", "Function to call after the upgrade")
	cmd.Flags().StringVar(&value, "value", "", "Wei to send with the upgrade")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output file (default deploytxobj.json)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the transaction without writing it")

	return cmd
}
