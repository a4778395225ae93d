package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/deploytx/internal/adapters/progress"
	"github.com/trebuchet-org/deploytx/internal/app"
	"github.com/trebuchet-org/deploytx/internal/config"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// skipInit lists commands that run without a project
var skipInit = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "deploytx",
		Short: "Prepare unsigned contract deployment transactions",
		Long: `deploytx turns a compiled contract artifact and constructor arguments into an
unsigned deployment transaction and writes it to deploytxobj.json for review
and signing with the wallet of your choice.

Artifacts are read from Hardhat (artifacts/) and Foundry (out/) build outputs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipInit[cmd.Name()] {
				return nil
			}

			projectRoot, _ := cmd.Flags().GetString("project-root")
			if projectRoot == "" {
				var err error
				projectRoot, err = config.FindProjectRoot()
				if err != nil {
					return err
				}
			}

			v := config.SetupViper(projectRoot, cmd)

			// Spinners only make sense for an interactive terminal
			var sink usecase.ProgressSink = progress.NewNopSink()
			if !v.GetBool("non_interactive") && !v.GetBool("debug") && !color.NoColor {
				spinnerSink := progress.NewSpinnerSink()
				sink = spinnerSink
				cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
					spinnerSink.Stop()
				}
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("compile", false, "Compile the project before reading artifacts")
	rootCmd.PersistentFlags().String("project-root", "", "Project root (defaults to the nearest directory with a project marker)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspection",
		Title: "Inspection Commands",
	})

	buildCmd := NewBuildCmd()
	buildCmd.GroupID = "main"
	rootCmd.AddCommand(buildCmd)

	proxyCmd := NewProxyCmd()
	proxyCmd.GroupID = "main"
	rootCmd.AddCommand(proxyCmd)

	inspectCmd := NewInspectCmd()
	inspectCmd.GroupID = "inspection"
	rootCmd.AddCommand(inspectCmd)

	artifactsCmd := NewArtifactsCmd()
	artifactsCmd.GroupID = "inspection"
	rootCmd.AddCommand(artifactsCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// useColor reports whether output should be colored
func useColor() bool {
	return !color.NoColor
}
