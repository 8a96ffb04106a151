package dto

import (
	"time"

	"github.com/reglet-dev/offloadcfg/internal/domain/capabilities"
	"github.com/reglet-dev/offloadcfg/internal/domain/entities"
	"github.com/reglet-dev/offloadcfg/internal/domain/services"
	"github.com/reglet-dev/offloadcfg/internal/domain/values"
)

// LoadResponse is the result of a successful configuration load.
// Features and Registry are read-only and may be shared between goroutines.
type LoadResponse struct {
	Registry    *entities.SubstitutionRegistry
	Features    capabilities.FeatureSet
	Source      string
	Devices     []capabilities.DeviceDescriptor
	Derivations []services.Derivation
	Skipped     []services.SkippedTool
	Duration    time.Duration
	LoadID      values.LoadID
}
