package cli

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Progress shows a spinner on stderr while a slow action runs. On a
// non-interactive stderr it prints nothing.
type Progress struct {
	spinner *spinner.Spinner
}

// NewProgress creates a spinner labelled with message.
func NewProgress(message string) *Progress {
	return newProgress(message, os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
}

func newProgress(message string, f *os.File, interactive bool) *Progress {
	if !interactive {
		return &Progress{}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(f))
	s.Suffix = " " + message
	return &Progress{spinner: s}
}

// Run shows the spinner while fn runs and returns fn's error.
func (p *Progress) Run(fn func() error) error {
	if p.spinner == nil {
		return fn()
	}
	p.spinner.Start()
	defer p.spinner.Stop()
	return fn()
}
