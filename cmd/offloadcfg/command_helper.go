package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reglet-dev/offloadcfg/internal/application/dto"
	"github.com/reglet-dev/offloadcfg/internal/infrastructure/container"
)

// CommandContext provides common command dependencies.
type CommandContext struct {
	Container *container.Container
	Logger    *slog.Logger
	Context   context.Context
}

// CommandHandler is a function that executes with initialized dependencies.
type CommandHandler func(*CommandContext, *cobra.Command, []string) error

// withContainer wraps a command handler with container initialization:
// harness config loading, overrides from flags and environment, wiring.
func withContainer(handler CommandHandler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		c, err := container.New(container.Options{
			ConfigPath: cfgFile,
			Overrides:  viper.GetViper(),
			Logger:     logger,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		ctx := &CommandContext{
			Container: c,
			Logger:    logger,
			Context:   cmd.Context(),
		}
		if ctx.Context == nil {
			ctx.Context = context.Background()
		}

		return handler(ctx, cmd, args)
	}
}

// load runs one configuration load with the options' timeout applied.
func (c *CommandContext) load(opts *CommonOptions) (*dto.LoadResponse, error) {
	req, err := c.Container.LoadRequest()
	if err != nil {
		return nil, err
	}

	ctx, cancel := opts.ApplyToContext(c.Context)
	defer cancel()

	return c.Container.LoadConfigurationUseCase().Execute(ctx, req)
}

// render writes resp in the requested format and view.
func (c *CommandContext) render(cmd *cobra.Command, opts *CommonOptions, view string, resp *dto.LoadResponse) error {
	formatter, err := c.Container.FormatterFactory().Create(opts.Format, cmd.OutOrStdout(), opts.FormatterOptions(view))
	if err != nil {
		return err
	}
	return formatter.Format(resp)
}
