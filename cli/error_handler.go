package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/logging"
)

// ErrorHandler turns errors into the one-line failure notification shown to
// the user, followed by a hint where one helps.
type ErrorHandler struct {
	Verbose bool
	out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{Verbose: verbose, out: os.Stderr}
}

// WithWriter redirects the notifications.
func (h *ErrorHandler) WithWriter(w io.Writer) *ErrorHandler {
	h.out = w
	return h
}

// Handle reports err and returns it unchanged. A nil err prints nothing.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	pretty := logging.NewPrettyLogger().WithWriter(h.out)
	ce, _ := errors.As(err)
	detail := func(key string) interface{} {
		if ce == nil {
			return ""
		}
		return ce.Details[key]
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		pretty.ErrorPretty(fmt.Sprintf("Configuration not found: %v", detail("path")), nil)
		h.hint("Check the --config flag or COMPANION_CONFIG.")

	case errors.ErrCodeConfigInvalid:
		pretty.ErrorPretty("Invalid configuration", err)
		h.hint("Run 'companion config schema' to see the accepted keys.")

	case errors.ErrCodeCorruptData:
		pretty.ErrorPretty(fmt.Sprintf("Stored data for '%v' is unreadable", detail("key")), err)
		h.hint("Nothing was changed. Fix or remove the stored value and retry.")

	case errors.ErrCodeNotFound, errors.ErrCodeAlreadyExists, errors.ErrCodeNotADirectory, errors.ErrCodeInvalidInput:
		pretty.ErrorPretty(messageOf(err, ce), nil)

	case errors.ErrCodeRevisionConflict:
		pretty.ErrorPretty("The record changed while it was being updated", nil)
		h.hint("Another companion process wrote the same data; run the command again.")

	case errors.ErrCodeCommandNotFound:
		pretty.ErrorPretty(fmt.Sprintf("Required command '%v' not found", detail("command")), nil)
		h.hint("Install it or set its path in companion.yml.")

	case errors.ErrCodeCommandFailed:
		pretty.ErrorPretty("Command failed", err)
		if stderr, ok := detail("stderr").(string); ok && stderr != "" {
			fmt.Fprintln(h.out, stderr)
		}

	default:
		pretty.ErrorPretty("Error", err)
	}

	if h.Verbose && ce != nil {
		fmt.Fprintf(h.out, "\nError details:\n%s\n", ce.ToJSON())
	}
	return err
}

func (h *ErrorHandler) hint(text string) {
	fmt.Fprintln(h.out, text)
}

func messageOf(err error, ce *errors.CompanionError) string {
	if ce != nil {
		return ce.Message
	}
	return err.Error()
}
