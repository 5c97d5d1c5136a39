// Command matrixdiff compares ALS folder/form matrices with SSD exports
// from the command line.
//
// Usage:
//
//	matrixdiff matrices study.xlsx
//	matrixdiff hierarchy study.xlsx --matrix LOGS --out folders.csv
//	matrixdiff compare study.xlsx ssd.csv --json
//	matrixdiff fields study.xlsx DM --role Monitor
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/matrixdiff/internal/core"
	_ "github.com/JonMunkholm/matrixdiff/internal/core/formats" // Register SSD formats
	"github.com/JonMunkholm/matrixdiff/internal/logging"
	"github.com/JonMunkholm/matrixdiff/internal/workbook"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints the user message for err. Errors without a catalogue
// entry also get their technical text, which is all a user has to go on.
func reportError(w io.Writer, err error) {
	uerr := core.NewUserError(err)
	if uerr == nil {
		return
	}
	slog.Debug("command failed", "code", uerr.User.Code, "error", uerr.Technical)
	fmt.Fprintln(w, core.FormatUserError(uerr.Technical))
	if !core.IsUserFacing(uerr.Technical) {
		fmt.Fprintf(w, "detail: %v\n", uerr.Technical)
	}
}

// options are the flags shared by every subcommand.
type options struct {
	matrix    string
	preferred string
	out       string
	json      bool
	logLevel  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "matrixdiff",
		Short:         "Reconcile ALS folder/form matrices with SSD exports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupWriter(cmd.ErrOrStderr(), opts.logLevel, "text")
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&opts.preferred, "preferred", core.DefaultMatrixOID, "Matrix used when --matrix is not given")

	root.AddCommand(
		newMatricesCmd(opts),
		newHierarchyCmd(opts),
		newCompareCmd(opts),
		newRolesCmd(opts),
		newFieldsCmd(opts),
	)
	return root
}

// readWorkbook loads an ALS workbook from disk.
func readWorkbook(path string) (*workbook.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return workbook.Open(f)
}

// output returns the destination for a report: --out or stdout.
func output(cmd *cobra.Command, opts *options) (io.Writer, func() error, error) {
	if opts.out == "" || opts.out == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(opts.out)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// emit writes text to the configured output.
func emit(cmd *cobra.Command, opts *options, text string) error {
	w, closeFn, err := output(cmd, opts)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, text); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}
