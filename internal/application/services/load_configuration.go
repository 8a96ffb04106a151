// Package services contains application use cases.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/reglet-dev/offloadcfg/internal/application/dto"
	apperrors "github.com/reglet-dev/offloadcfg/internal/application/errors"
	"github.com/reglet-dev/offloadcfg/internal/application/ports"
	"github.com/reglet-dev/offloadcfg/internal/domain/capabilities"
	"github.com/reglet-dev/offloadcfg/internal/domain/entities"
	"github.com/reglet-dev/offloadcfg/internal/domain/services"
	"github.com/reglet-dev/offloadcfg/internal/domain/values"
)

// LoadConfigurationUseCase runs one configuration load:
// query devices, derive features, resolve tools, build the registry.
// Every step is fail-fast; no partial result is ever returned.
type LoadConfigurationUseCase struct {
	source  ports.CapabilitySource
	locator ports.ToolLocator
	logger  *slog.Logger
}

// NewLoadConfigurationUseCase creates a new load configuration use case.
func NewLoadConfigurationUseCase(source ports.CapabilitySource, locator ports.ToolLocator, logger *slog.Logger) *LoadConfigurationUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	return &LoadConfigurationUseCase{
		source:  source,
		locator: locator,
		logger:  logger,
	}
}

// Execute performs the load.
func (uc *LoadConfigurationUseCase) Execute(ctx context.Context, req dto.LoadRequest) (*dto.LoadResponse, error) {
	startTime := time.Now()
	loadID := values.NewLoadID()
	logger := uc.logger.With("load_id", loadID.String())

	// 1. Reject conflicting toggles before touching any external tool
	if err := req.Toggles.Validate(); err != nil {
		if errors.Is(err, capabilities.ErrWARPRequiresDirectX) {
			return nil, apperrors.NewConfigurationConflictError(err.Error(), err, "use_warp", "enable_d3d12")
		}
		return nil, apperrors.NewConfigurationConflictError(err.Error(), err)
	}

	// 2. Query devices
	devices, err := uc.queryDevices(ctx, logger)
	if err != nil {
		return nil, err
	}

	// 3. Derive features
	deriver := services.NewFeatureDeriver(req.Rules)
	features, derivations := deriver.DeriveWithTrace(devices, req.Toggles)
	logger.Info("features derived", "count", features.Len(), "features", features.Names())

	// 4-5. Resolve tools and build the registry
	builder := entities.NewRegistryBuilder()
	registry, skipped, err := uc.buildRegistry(builder, req, features, logger)
	if err != nil {
		logger.Error("registry build failed", "state", builder.State().String(), "error", err)
		return nil, err
	}

	duration := time.Since(startTime)
	logger.Info("configuration loaded",
		"devices", len(devices),
		"features", features.Len(),
		"substitutions", registry.Len(),
		"skipped_tools", len(skipped),
		"duration", duration)

	return &dto.LoadResponse{
		LoadID:      loadID,
		Source:      uc.source.Name(),
		Devices:     devices,
		Features:    features,
		Derivations: derivations,
		Registry:    registry,
		Skipped:     skipped,
		Duration:    duration,
	}, nil
}

// QueryDevices returns the raw device list without deriving anything.
func (uc *LoadConfigurationUseCase) QueryDevices(ctx context.Context) ([]capabilities.DeviceDescriptor, error) {
	return uc.queryDevices(ctx, uc.logger)
}

func (uc *LoadConfigurationUseCase) queryDevices(ctx context.Context, logger *slog.Logger) ([]capabilities.DeviceDescriptor, error) {
	logger.Debug("querying capability source", "source", uc.source.Name())

	devices, err := uc.source.Query(ctx)
	if err != nil {
		var queryErr *apperrors.CapabilityQueryError
		if errors.As(err, &queryErr) {
			return nil, err
		}
		return nil, apperrors.NewCapabilityQueryError(uc.source.Name(), err)
	}

	for _, d := range devices {
		logger.Debug("device found", "api", d.API().String(), "description", d.Description())
	}
	return devices, nil
}

func (uc *LoadConfigurationUseCase) buildRegistry(
	builder *entities.RegistryBuilder,
	req dto.LoadRequest,
	features capabilities.FeatureSet,
	logger *slog.Logger,
) (*entities.SubstitutionRegistry, []services.SkippedTool, error) {
	// Overrides are scoped to this load; the shared locator stays untouched.
	locator := uc.locator.WithOverrides(req.Overrides)

	resolution, err := services.NewToolResolver(locator).Resolve(req.Tools, features)
	if err != nil {
		return nil, nil, builder.Fail(err)
	}

	for _, s := range resolution.Skipped {
		logger.Debug("tool skipped", "tool", s.Request.LogicalName, "reason", string(s.Reason))
	}

	registry, err := builder.Build(resolution.Bindings)
	if err != nil {
		return nil, nil, err
	}
	return registry, resolution.Skipped, nil
}
