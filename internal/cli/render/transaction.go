package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// TransactionRenderer renders prepared and inspected transactions
type TransactionRenderer struct {
	out   io.Writer
	color bool
}

// NewTransactionRenderer creates a new transaction renderer
func NewTransactionRenderer(out io.Writer, color bool) *TransactionRenderer {
	return &TransactionRenderer{
		out:   out,
		color: color,
	}
}

// Render renders the result of a build
func (r *TransactionRenderer) Render(result *usecase.BuildDeploymentTransactionResult) error {
	r.withColor(func() {
		fmt.Fprintf(r.out, "%s %s\n", headerStyle.Sprint("Deployment transaction for"), contractName.Sprint(result.Artifact.Name))
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Artifact:"), result.Artifact.ID())
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Constructor:"), result.Artifact.ConstructorSignature())
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Value:"), valueStyle.Sprint(formatWei(result.Transaction.Value)))
		fmt.Fprintf(r.out, "  %s %d bytes (creation code %d bytes)\n",
			labelStyle.Sprint("Data:"), byteLen(result.Transaction.Data), result.CreationCodeSize)

		if len(result.Arguments) > 0 {
			fmt.Fprintln(r.out)
			fmt.Fprintln(r.out, r.argumentsTable(result.Arguments))
		}

		fmt.Fprintln(r.out)
		r.renderWritten(result.Output, result.Written)
	})
	return nil
}

// RenderProxy renders a prepared proxy deployment or upgrade
func (r *TransactionRenderer) RenderProxy(result *usecase.ProxyTransactionResult) error {
	r.withColor(func() {
		if result.Kind == "upgrade" {
			fmt.Fprintf(r.out, "%s %s\n", headerStyle.Sprint("Upgrade transaction for proxy"), addressStyle.Sprint(result.Transaction.To))
		} else {
			fmt.Fprintf(r.out, "%s %s\n", headerStyle.Sprint("Proxy deployment transaction using"), contractName.Sprint(result.Proxy.ID()))
		}

		call := result.CallSignature
		if call == "" {
			call = "none"
		}
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Call:"), call)
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Value:"), valueStyle.Sprint(formatWei(result.Transaction.Value)))
		fmt.Fprintf(r.out, "  %s %d bytes\n", labelStyle.Sprint("Data:"), byteLen(result.Transaction.Data))
		fmt.Fprintln(r.out)
		r.renderWritten(result.Output, result.Written)
	})
	return nil
}

// RenderInspect renders a decoded transaction file
func (r *TransactionRenderer) RenderInspect(result *usecase.InspectTransactionResult) error {
	r.withColor(func() {
		fmt.Fprintf(r.out, "%s %s\n", headerStyle.Sprint("Transaction file"), result.Path)

		to := result.Transaction.To
		if result.Creation {
			to = "(contract creation)"
		}
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("To:"), addressStyle.Sprint(to))
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Value:"), valueStyle.Sprint(formatWei(result.Transaction.Value)))
		fmt.Fprintf(r.out, "  %s %d bytes\n", labelStyle.Sprint("Data:"), result.DataSize)

		if result.Artifact != nil {
			fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Artifact:"), result.Artifact.ID())
		}
		if result.Creation {
			fmt.Fprintf(r.out, "  %s %d bytes\n", labelStyle.Sprint("Creation code:"), result.CreationCodeSize)
			fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Constructor:"), result.Artifact.ConstructorSignature())
		} else {
			fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Method:"), result.Method)
		}

		if len(result.Arguments) > 0 {
			fmt.Fprintln(r.out)
			fmt.Fprintln(r.out, r.argumentsTable(result.Arguments))
		}

		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, FormatSuccess("Payload matches"))
	})
	return nil
}

func (r *TransactionRenderer) renderWritten(path string, written bool) {
	if written {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Wrote %s", path)))
		return
	}
	fmt.Fprintln(r.out, FormatWarning("Dry run, no file written"))
}

func (r *TransactionRenderer) argumentsTable(args []usecase.DecodedArgument) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.AppendHeader(table.Row{"#", "Name", "Type", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, WidthMax: 80},
	})

	for i, arg := range args {
		t.AppendRow(table.Row{i, arg.Name, arg.Type, formatValue(arg.Value)})
	}
	return t.Render()
}

// withColor runs fn with color output forced on or off
func (r *TransactionRenderer) withColor(fn func()) {
	prev := color.NoColor
	color.NoColor = !r.color
	defer func() { color.NoColor = prev }()
	fn()
}

var _ Renderer[*usecase.BuildDeploymentTransactionResult] = (*TransactionRenderer)(nil)
