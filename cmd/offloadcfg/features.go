package main

import (
	"github.com/spf13/cobra"

	"github.com/reglet-dev/offloadcfg/internal/infrastructure/output"
)

var featuresOpts = DefaultCommonOptions()

// featuresCmd prints the derived feature set.
var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Query devices and print the derived feature flags",
	Example: `  offloadcfg features --d3d12 --vulkan
  offloadcfg features --devices-file devices.yaml --explain --format yaml`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return featuresOpts.ValidateFlags()
	},
	RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
		resp, err := ctx.load(&featuresOpts)
		if err != nil {
			return err
		}
		return ctx.render(cmd, &featuresOpts, output.ViewFeatures, resp)
	}),
}

func init() {
	featuresOpts.RegisterFlags(featuresCmd)
	rootCmd.AddCommand(featuresCmd)
}
