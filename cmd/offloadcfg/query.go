package main

import (
	"github.com/spf13/cobra"

	"github.com/reglet-dev/offloadcfg/internal/application/dto"
	"github.com/reglet-dev/offloadcfg/internal/infrastructure/devices"
	"github.com/reglet-dev/offloadcfg/internal/infrastructure/output"
)

var (
	queryOpts = DefaultCommonOptions()
	queryRaw  bool
)

// queryCmd prints the devices reported by the capability source.
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print the devices reported by the capability source",
	Long: `Run the device query and print what it reported, without deriving features.
With --raw the output is an api-query document that can be passed back with
--devices-file, e.g. to reproduce a CI machine's feature set locally.`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return queryOpts.ValidateFlags()
	},
	RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
		qctx, cancel := queryOpts.ApplyToContext(ctx.Context)
		defer cancel()

		found, err := ctx.Container.LoadConfigurationUseCase().QueryDevices(qctx)
		if err != nil {
			return err
		}

		if queryRaw {
			data, err := devices.EncodeDocument(found)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}

		return ctx.render(cmd, &queryOpts, output.ViewDevices, &dto.LoadResponse{
			Source:  ctx.Container.CapabilitySource().Name(),
			Devices: found,
		})
	}),
}

func init() {
	queryOpts.RegisterFlags(queryCmd)
	queryCmd.Flags().BoolVar(&queryRaw, "raw", false, "Print an api-query document")
	rootCmd.AddCommand(queryCmd)
}
