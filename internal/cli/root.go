package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/skin/internal/reporter"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Color      string // "auto" | "always" | "never"
	ReportFile string // additional NDJSON copy of the report
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the skin CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "skin",
		Short: "skin - behaviour-driven assertions",
		Long:  "Run declarative checks against YAML, JSON and CUE documents and report every outcome.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if _, err := reporter.ParseColorMode(opts.Color); err != nil {
				return err
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Color, "color", string(reporter.ColorAuto), "colour output (auto|always|never)")
	cmd.PersistentFlags().StringVar(&opts.ReportFile, "report-file", "", "also write the report as JSON lines to this file")

	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewFuncsCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
