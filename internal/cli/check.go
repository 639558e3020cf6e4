package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/skin/internal/checks"
	"github.com/roach88/skin/internal/reporter"
	"github.com/roach88/skin/internal/run"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Filter string // check file filter (glob on the base name)
	Blink  bool   // blink failure marks
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Run check files",
		Long: `Run declarative check files against their documents.

Paths may be check files or directories. Directories are searched
recursively for *.check.yaml, *.check.yml, *.check.json and *.check.cue.

Exit codes:
  0 - All checks passed
  1 - One or more checks failed or errored
  2 - Command error (invalid paths, unloadable check files, etc.)

Examples:
  skin check ./checks
  skin check ./checks --filter "service*"
  skin check config.check.yaml --format json
  skin check ./checks --report-file report.jsonl`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter check files by glob pattern")
	cmd.Flags().BoolVar(&opts.Blink, "blink", false, "blink failure marks")

	return cmd
}

func runCheck(opts *CheckOptions, paths []string, cmd *cobra.Command) error {
	// Diagnostics go to stderr so JSON output on stdout stays parseable.
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.ErrOrStderr(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("path not found: %s", p), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("%s: path not found: %s", ErrCodeNotFound, p))
		}
	}

	files, err := checks.Find(paths, opts.Filter)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to find check files", err)
	}
	if len(files) == 0 {
		_ = formatter.Error(ErrCodeNoFiles, "no check files found", paths)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: no check files found in %s", ErrCodeNoFiles, strings.Join(paths, ", ")))
	}
	formatter.VerboseLog("Found %d check file(s)", len(files))

	rep, closeReport, err := newReporter(opts, cmd.OutOrStdout())
	if err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open report file", err)
	}

	logger := newLogger(opts.Verbose, cmd.ErrOrStderr())
	r := run.New(rep, run.WithLogger(logger))
	formatter.RunID = r.Result().RunID
	executor := checks.NewExecutor(checks.Builtins(), checks.WithLogger(logger))

	var loadErrors []error
	for _, file := range files {
		formatter.VerboseLog("Running %s", file)
		if err := executor.RunFile(r, file); err != nil {
			_ = formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
			loadErrors = append(loadErrors, err)
		}
	}
	result := r.Finish()

	if err := closeReport(); err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to write report", err)
	}

	if len(loadErrors) > 0 {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("%s: %d check file(s) could not be loaded", ErrCodeLoadFailed, len(loadErrors)))
	}
	if result.HasFailed() {
		return NewExitError(ExitFailure,
			fmt.Sprintf("%d of %d checks did not pass", result.Failed+result.Errors, result.Len()))
	}
	return nil
}

// newReporter builds the reporter for the configured format, teed into the
// report file when one is set. The returned func flushes and closes outputs.
func newReporter(opts *CheckOptions, out io.Writer) (run.Reporter, func() error, error) {
	var (
		primary run.Reporter
		outputs []*reporter.JSON
	)

	if opts.Format == "json" {
		j := reporter.NewJSON(out)
		primary = j
		outputs = append(outputs, j)
	} else {
		mode := reporter.ColorAuto
		if opts.Color != "" {
			m, err := reporter.ParseColorMode(opts.Color)
			if err != nil {
				return nil, nil, err
			}
			mode = m
		}
		primary = reporter.NewTerminal(out,
			reporter.WithColor(mode),
			reporter.WithBlink(opts.Blink),
			reporter.WithVerbose(opts.Verbose),
		)
	}

	if opts.ReportFile == "" {
		return primary, func() error { return firstErr(outputs) }, nil
	}

	f, err := os.Create(opts.ReportFile)
	if err != nil {
		return nil, nil, err
	}
	file := reporter.NewJSON(f)
	outputs = append(outputs, file)

	closeReport := func() error {
		if err := firstErr(outputs); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return reporter.NewMulti(primary, file), closeReport, nil
}

func firstErr(outputs []*reporter.JSON) error {
	for _, o := range outputs {
		if err := o.Err(); err != nil {
			return err
		}
	}
	return nil
}

// newLogger returns a debug text logger on w when verbose, else a discarding one.
func newLogger(verbose bool, w io.Writer) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
