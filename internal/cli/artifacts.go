package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/deploytx/internal/cli/render"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// NewArtifactsCmd creates the artifacts command
func NewArtifactsCmd() *cobra.Command {
	var deployable bool

	cmd := &cobra.Command{
		Use:     "artifacts [filter]",
		Aliases: []string{"ls"},
		Short:   "List compiled contract artifacts",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListArtifactsParams{Deployable: deployable}
			if len(args) == 1 {
				params.Filter = args[0]
			}

			result, err := app.ListArtifacts.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewArtifactsRenderer(cmd.OutOrStdout(), useColor()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&deployable, "deployable", false, "Only show artifacts with creation code")

	return cmd
}
