// Package container provides dependency injection for the application.
package container

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/reglet-dev/offloadcfg/internal/application/dto"
	"github.com/reglet-dev/offloadcfg/internal/application/ports"
	"github.com/reglet-dev/offloadcfg/internal/application/services"
	"github.com/reglet-dev/offloadcfg/internal/infrastructure/config"
	"github.com/reglet-dev/offloadcfg/internal/infrastructure/devices"
	"github.com/reglet-dev/offloadcfg/internal/infrastructure/locator"
	"github.com/reglet-dev/offloadcfg/internal/infrastructure/output"
	"github.com/reglet-dev/offloadcfg/internal/version"
)

// Container holds all application dependencies.
type Container struct {
	source           ports.CapabilitySource
	locator          ports.ToolLocator
	formatterFactory ports.FormatterFactory
	loadUseCase      *services.LoadConfigurationUseCase
	cfg              *config.Config
	logger           *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger *slog.Logger
	// Overrides holds flag and environment values that win over the file.
	Overrides *viper.Viper
	// Source replaces the configured capability source. Used by tests.
	Source     ports.CapabilitySource
	ConfigPath string
}

// New loads the harness configuration and wires the load use case.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	cfg, err := config.NewConfigLoader().Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyOverrides(opts.Overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.CheckCompatibility(version.Get().Version); err != nil {
		return nil, err
	}

	toolLocator := locator.NewPathLocator(cfg.ToolsDirs, opts.Logger)

	// A captured device document takes precedence over running the query tool
	source := opts.Source
	if source == nil {
		source = newCapabilitySource(cfg, toolLocator, opts.Logger)
	}

	loadUseCase := services.NewLoadConfigurationUseCase(source, toolLocator, opts.Logger)

	return &Container{
		source:           source,
		locator:          toolLocator,
		formatterFactory: output.NewFormatterFactory(),
		loadUseCase:      loadUseCase,
		cfg:              cfg,
		logger:           opts.Logger,
	}, nil
}

func newCapabilitySource(cfg *config.Config, finder devices.ToolFinder, logger *slog.Logger) ports.CapabilitySource {
	if cfg.Query.DevicesFile != "" {
		return devices.NewFileSource(cfg.Query.DevicesFile)
	}
	return devices.NewProcessSource(cfg.Query.Tool, finder,
		devices.WithArgs(cfg.Query.Args...),
		devices.WithTimeout(cfg.Query.Timeout),
		devices.WithLogger(logger))
}

// LoadRequest builds the immutable input of a configuration load.
func (c *Container) LoadRequest() (dto.LoadRequest, error) {
	rules, err := c.cfg.DomainRules()
	if err != nil {
		return dto.LoadRequest{}, fmt.Errorf("invalid rule table: %w", err)
	}

	return dto.LoadRequest{
		Overrides: c.cfg.Overrides,
		Rules:     rules,
		Tools:     c.cfg.ToolRequests(),
		Toggles:   c.cfg.Toggles(c.logger),
	}, nil
}

// LoadConfigurationUseCase returns the load configuration use case.
func (c *Container) LoadConfigurationUseCase() *services.LoadConfigurationUseCase {
	return c.loadUseCase
}

// FormatterFactory returns the output formatter factory.
func (c *Container) FormatterFactory() ports.FormatterFactory {
	return c.formatterFactory
}

// CapabilitySource returns the configured capability source.
func (c *Container) CapabilitySource() ports.CapabilitySource {
	return c.source
}

// Config returns the effective harness configuration.
func (c *Container) Config() *config.Config {
	return c.cfg
}

// Logger returns the configured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}
