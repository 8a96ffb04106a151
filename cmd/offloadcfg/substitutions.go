package main

import (
	"github.com/spf13/cobra"

	"github.com/reglet-dev/offloadcfg/internal/infrastructure/output"
)

var substitutionsOpts = DefaultCommonOptions()

// substitutionsCmd prints the substitution registry.
var substitutionsCmd = &cobra.Command{
	Use:     "substitutions",
	Aliases: []string{"subs"},
	Short:   "Print the tool substitutions bound for this machine",
	Long: `Print every placeholder token and the command it expands to, in the order
the runner applies them (longest token first). With --explain, tools that were
skipped because their feature gate is closed or an optional tool is missing are
listed too.`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return substitutionsOpts.ValidateFlags()
	},
	RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
		resp, err := ctx.load(&substitutionsOpts)
		if err != nil {
			return err
		}
		return ctx.render(cmd, &substitutionsOpts, output.ViewSubstitutions, resp)
	}),
}

func init() {
	substitutionsOpts.RegisterFlags(substitutionsCmd)
	rootCmd.AddCommand(substitutionsCmd)
}
