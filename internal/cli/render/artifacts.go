package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// ArtifactsRenderer renders artifact lists
type ArtifactsRenderer struct {
	out   io.Writer
	color bool
}

// NewArtifactsRenderer creates a new artifacts renderer
func NewArtifactsRenderer(out io.Writer, color bool) *ArtifactsRenderer {
	return &ArtifactsRenderer{
		out:   out,
		color: color,
	}
}

// Render renders the artifacts as a table
func (r *ArtifactsRenderer) Render(result *usecase.ListArtifactsResult) error {
	if len(result.Artifacts) == 0 {
		fmt.Fprintln(r.out, "No artifacts found")
		return nil
	}

	prev := color.NoColor
	color.NoColor = !r.color
	defer func() { color.NoColor = prev }()

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"Contract", "Source", "Format", "Constructor"})

	for _, a := range result.Artifacts {
		ctor := a.ConstructorSignature()
		if !a.HasCreationCode() {
			ctor = labelStyle.Sprint("(not deployable)")
		} else if a.NeedsLinking() {
			ctor += labelStyle.Sprint(" [links libraries]")
		}
		t.AppendRow(table.Row{contractName.Sprint(a.Name), a.SourceName, title(string(a.Format)), ctor})
	}

	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintf(r.out, "\n%d artifact(s)\n", len(result.Artifacts))
	return nil
}

var _ Renderer[*usecase.ListArtifactsResult] = (*ArtifactsRenderer)(nil)
