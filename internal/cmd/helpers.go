package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thinkglobalschool/spot-cli/internal/api"
	"github.com/thinkglobalschool/spot-cli/internal/dryrun"
	"github.com/thinkglobalschool/spot-cli/internal/iocontext"
	"github.com/thinkglobalschool/spot-cli/internal/outfmt"
)

// errAlreadyHandled is a sentinel error indicating the error was already printed to stderr.
// Commands using RunE return this to signal Cobra that an error occurred (for exit code)
// without Cobra printing it again (since SilenceErrors is true on root command).
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() []error {
	return []error{errAlreadyHandled, e.err}
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		ioStreams := iocontext.GetIO(cmd.Context())
		if isJSON(cmd) {
			_ = outfmt.WriteJSON(ioStreams.ErrOut, map[string]any{"error": api.StructuredErrorFromError(err)})
		} else {
			_, _ = fmt.Fprint(ioStreams.ErrOut, HandleError(err))
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}

// isJSON checks if the command context wants JSON output
func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}

func formatter(cmd *cobra.Command) *outfmt.Formatter {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
}

// printJSON outputs data as JSON filtered by --jq
func printJSON(cmd *cobra.Command, v any) error {
	return formatter(cmd).Output(v)
}

// printText writes a line to stdout in text mode. It is silent in JSON mode
// and with --quiet.
func printText(cmd *cobra.Command, format string, args ...any) {
	if isJSON(cmd) {
		return
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	_, _ = fmt.Fprintf(ioStreams.Out, format+"\n", args...)
}

// printStatus writes progress to stderr in text mode.
func printStatus(cmd *cobra.Command, format string, args ...any) {
	if isJSON(cmd) || flags.Quiet {
		return
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	_, _ = fmt.Fprintf(ioStreams.ErrOut, format+"\n", args...)
}

// splitCommaList splits a comma-separated flag value, dropping blanks.
func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// isDryRun reports whether --dry-run is set.
func isDryRun(cmd *cobra.Command) bool {
	return dryrun.IsEnabled(cmd.Context())
}

// writePreviews prints the requests a dry run would have sent.
func writePreviews(cmd *cobra.Command, previews ...*dryrun.Preview) error {
	if isJSON(cmd) {
		return printJSON(cmd, map[string]any{"dry_run": true, "requests": previews})
	}
	dryrun.WriteAll(iocontext.GetIO(cmd.Context()).Out, previews)
	return nil
}
