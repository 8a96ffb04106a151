package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/offloadcfg/internal/application/ports"
)

var validFormats = []string{"table", "json", "yaml"}

// CommonOptions contains flags shared by the reporting commands.
type CommonOptions struct {
	Format  string
	Timeout time.Duration
	Explain bool
	Compact bool
}

// DefaultCommonOptions returns sensible defaults.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{
		Format:  "table",
		Timeout: 2 * time.Minute,
	}
}

// RegisterFlags adds common flags to a cobra command.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&opts.Format, "format", opts.Format,
		"Output format: table, json, yaml")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout,
		"Timeout for the whole load including the device query (0 to disable)")
	cmd.Flags().BoolVar(&opts.Explain, "explain", false,
		"Show why each feature was derived and why tools were skipped")
	cmd.Flags().BoolVar(&opts.Compact, "compact", false,
		"Compact JSON output")
}

// ApplyToContext applies timeout to context.
// Returns new context and cancel function.
func (opts *CommonOptions) ApplyToContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	// No timeout - return no-op cancel
	return ctx, func() {}
}

// ValidateFlags validates common options.
func (opts *CommonOptions) ValidateFlags() error {
	for _, f := range validFormats {
		if opts.Format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format: %s (valid: %v)", opts.Format, validFormats)
}

// FormatterOptions converts the flags for the given view.
func (opts *CommonOptions) FormatterOptions(view string) ports.FormatterOptions {
	return ports.FormatterOptions{
		View:    view,
		Indent:  !opts.Compact,
		Explain: opts.Explain,
	}
}
