package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// The spinner itself stays inactive without a terminal, so only messages are checked.
func TestSpinnerSink(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	sink := NewSpinnerSink()
	sink.out = &buf
	ctx := context.Background()

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "compile", Message: "Compiling contracts...", Spinner: true})
	assert.Equal(t, " Compiling contracts...", sink.spinner.Suffix)

	sink.Info("using cached artifacts")

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "encode", Message: "Encoded constructor"})
	assert.False(t, sink.spinner.Active())
	assert.Equal(t, "encode", sink.stage)

	sink.Error("boom")
	sink.Stop()

	out := buf.String()
	assert.Contains(t, out, "using cached artifacts")
	assert.Contains(t, out, "Encoded constructor")
	assert.Contains(t, out, "boom")
}
