// Package cli implements the snipdoc command line interface. It is the host
// adapter around the selection pipeline: flags are translated into directive
// options, diagnostics are reported to stderr, and blocks go to stdout.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/snipdoc/snipdoc/internal/include"
)

// Version is the snipdoc version. It is a var (not a const) so build tooling
// can override it via `-ldflags "-X .../internal/cli.Version=1.2.3"`.
var Version = "0.3.0"

// RunOptions overrides the standard output streams; nil fields keep the
// defaults. Overriding is useful for testing.
type RunOptions struct {
	Out io.Writer
	Err io.Writer
}

// Run runs the CLI with args (typically os.Args[1:]) and returns the
// recommended process exit code: 0 on success, 1 on any failure. Error
// messages have already been written to Err (or stderr) when Run returns 1.
func Run(args []string, opts *RunOptions) int {
	var out io.Writer = os.Stdout
	var errW io.Writer = os.Stderr
	if opts != nil {
		if opts.Out != nil {
			out = opts.Out
		}
		if opts.Err != nil {
			errW = opts.Err
		}
	}

	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errW)

	if err := root.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(errW, "snipdoc: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "snipdoc",
		Short:         "Extract annotated source snippets for documentation",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newExtractCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the snipdoc version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "snipdoc %s\n", Version)
			return err
		},
	}
}

// reportedError marks an error whose message was already written to stderr,
// so Run doesn't print it twice.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// reportDiagnostic writes a pipeline diagnostic to the command's error
// stream, colored when that stream is a terminal.
func reportDiagnostic(cmd *cobra.Command, d *include.Diagnostic) error {
	w := cmd.ErrOrStderr()
	label := fmt.Sprintf("error[%s]", d.Kind)
	if isTerminal(w) {
		color.New(color.FgRed, color.Bold).Fprint(w, label+":")
		fmt.Fprintf(w, " %s\n", d.Error())
	} else {
		fmt.Fprintf(w, "%s: %s\n", label, d.Error())
	}
	return &reportedError{err: d}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
