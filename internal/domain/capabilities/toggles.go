package capabilities

import (
	"errors"

	"github.com/reglet-dev/offloadcfg/internal/domain/values"
)

// ErrWARPRequiresDirectX is returned when WARP mode is requested while the
// DirectX API is disabled.
var ErrWARPRequiresDirectX = errors.New("WARP requires the DirectX API to be enabled")

// Toggles are the static enablement switches supplied by configuration.
// They gate which base features the deriver may emit.
type Toggles struct {
	enabled map[values.GPUAPI]bool
	static  []values.FeatureFlag
	useWARP bool
}

// NewToggles creates toggles with the given APIs enabled.
func NewToggles(apis ...values.GPUAPI) Toggles {
	t := Toggles{enabled: make(map[values.GPUAPI]bool, len(apis))}
	for _, api := range apis {
		if api.IsKnown() {
			t.enabled[api] = true
		}
	}
	return t
}

// WithWARP returns a copy that restricts DirectX devices to the WARP adapter.
func (t Toggles) WithWARP(use bool) Toggles {
	t.useWARP = use
	return t
}

// WithStaticFeatures returns a copy that adds flags implied by configuration
// alone (for example "Clang" when the clang driver is under test).
func (t Toggles) WithStaticFeatures(flags ...values.FeatureFlag) Toggles {
	static := make([]values.FeatureFlag, 0, len(t.static)+len(flags))
	static = append(static, t.static...)
	static = append(static, flags...)
	t.static = static
	return t
}

// IsEnabled reports whether the API may contribute features.
func (t Toggles) IsEnabled(api values.GPUAPI) bool {
	return t.enabled[api]
}

// UseWARP reports whether only the WARP adapter may contribute DirectX features.
func (t Toggles) UseWARP() bool {
	return t.useWARP
}

// StaticFeatures returns the configuration-implied flags.
func (t Toggles) StaticFeatures() []values.FeatureFlag {
	out := make([]values.FeatureFlag, len(t.static))
	copy(out, t.static)
	return out
}

// EnabledAPIs returns the enabled APIs in declaration order.
func (t Toggles) EnabledAPIs() []values.GPUAPI {
	var apis []values.GPUAPI
	for _, api := range values.AllAPIs {
		if t.enabled[api] {
			apis = append(apis, api)
		}
	}
	return apis
}

// Validate rejects mutually exclusive toggle combinations.
func (t Toggles) Validate() error {
	if t.useWARP && !t.enabled[values.APIDirectX] {
		return ErrWARPRequiresDirectX
	}
	return nil
}
