// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"
	"io"

	"github.com/reglet-dev/offloadcfg/internal/application/dto"
	"github.com/reglet-dev/offloadcfg/internal/domain/capabilities"
)

// CapabilitySource enumerates the devices available to the test suite.
// Implementations treat the underlying query as a single atomic step.
type CapabilitySource interface {
	// Query returns the device descriptors in the order the source reported them.
	Query(ctx context.Context) ([]capabilities.DeviceDescriptor, error)
	// Name identifies the source in logs and errors.
	Name() string
}

// ToolLocator resolves logical tool names to executable paths.
type ToolLocator interface {
	// Locate returns the absolute path of the named tool.
	Locate(logicalName string) (string, bool)
	// Exists reports whether a literal path names an existing file.
	Exists(path string) bool
	// WithOverrides returns a locator that resolves the named tools to the
	// given paths instead of searching. The receiver is not modified.
	WithOverrides(overrides map[string]string) ToolLocator
}

// ReportFormatter formats a configuration load for display.
type ReportFormatter interface {
	Format(report *dto.LoadResponse) error
}

// FormatterFactory creates formatters by name.
type FormatterFactory interface {
	Create(format string, writer io.Writer, options FormatterOptions) (ReportFormatter, error)
	SupportedFormats() []string
}

// FormatterOptions configure report formatters.
type FormatterOptions struct {
	// View selects what the report shows: "features", "substitutions" or "devices".
	View   string
	Indent bool
	// Explain includes the reason each feature was derived.
	Explain bool
}
