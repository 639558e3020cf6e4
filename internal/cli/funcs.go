package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/skin/internal/checks"
)

// FuncsResult lists the functions check files can call.
type FuncsResult struct {
	Funcs []string `json:"funcs"`
}

// NewFuncsCommand creates the funcs command.
func NewFuncsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "funcs",
		Short:         "List functions available to check files",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format: rootOpts.Format,
				Writer: cmd.OutOrStdout(),
			}

			names := checks.Builtins().Names()
			if formatter.Format == "json" {
				return formatter.Success(FuncsResult{Funcs: names})
			}
			for _, name := range names {
				fmt.Fprintln(formatter.Writer, name)
			}
			return nil
		},
	}
}
