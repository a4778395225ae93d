package progress

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// SpinnerSink shows a spinner on stderr while long stages such as compilation run
type SpinnerSink struct {
	spinner *spinner.Spinner
	out     io.Writer
	stage   string
}

// NewSpinnerSink creates a new spinner-based progress sink
func NewSpinnerSink() *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.HideCursor = false

	return &SpinnerSink{spinner: s, out: os.Stderr}
}

// OnProgress starts, updates or stops the spinner
func (s *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.stage = event.Stage

	if event.Spinner {
		s.spinner.Suffix = " " + event.Message
		if !s.spinner.Active() {
			s.spinner.Start()
		}
		return
	}

	if s.spinner.Active() {
		s.spinner.Stop()
	}
	if event.Message != "" {
		color.New(color.FgWhite, color.Faint).Fprintln(s.out, event.Message)
	}
}

// Info prints an info message
func (s *SpinnerSink) Info(message string) {
	s.pause(func() {
		color.New(color.FgCyan).Fprintln(s.out, message)
	})
}

// Error prints an error message
func (s *SpinnerSink) Error(message string) {
	s.pause(func() {
		color.New(color.FgRed).Fprintln(s.out, message)
	})
}

// pause stops the spinner around fn so messages are not overwritten
func (s *SpinnerSink) pause(fn func()) {
	wasActive := s.spinner.Active()
	if wasActive {
		s.spinner.Stop()
	}

	fn()

	if wasActive {
		s.spinner.Start()
	}
}

// Stop halts the spinner if a stage left it running
func (s *SpinnerSink) Stop() {
	if s.spinner.Active() {
		s.spinner.Stop()
	}
}

// Ensure SpinnerSink implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerSink)(nil)
