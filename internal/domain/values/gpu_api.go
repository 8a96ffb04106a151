// Package values contains domain value objects that encapsulate
// primitive types with validation.
package values

import (
	"fmt"
	"strings"
)

// GPUAPI identifies the graphics API a device was enumerated through.
type GPUAPI int

const (
	APIUnknown GPUAPI = iota
	APIDirectX
	APIVulkan
	APIMetal
)

// AllAPIs lists the known APIs in declaration order.
var AllAPIs = []GPUAPI{APIDirectX, APIVulkan, APIMetal}

// ParseGPUAPI parses the literal reported by the capability source.
// Surrounding whitespace is ignored; otherwise matching is exact and
// case-sensitive ("DirectX", "Vulkan", "Metal").
func ParseGPUAPI(s string) (GPUAPI, error) {
	switch strings.TrimSpace(s) {
	case "DirectX":
		return APIDirectX, nil
	case "Vulkan":
		return APIVulkan, nil
	case "Metal":
		return APIMetal, nil
	default:
		return APIUnknown, fmt.Errorf("invalid GPU API: %q", s)
	}
}

// String returns the literal name of the API.
func (a GPUAPI) String() string {
	switch a {
	case APIDirectX:
		return "DirectX"
	case APIVulkan:
		return "Vulkan"
	case APIMetal:
		return "Metal"
	default:
		return "Unknown"
	}
}

// IsKnown returns true for every API except APIUnknown.
func (a GPUAPI) IsKnown() bool {
	return a != APIUnknown
}

// BaseFeature returns the feature flag every enabled device of this API contributes.
func (a GPUAPI) BaseFeature() FeatureFlag {
	if !a.IsKnown() {
		return FeatureFlag{}
	}
	return FeatureFlag{value: a.String()}
}

// MarshalText implements encoding.TextMarshaler
func (a GPUAPI) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *GPUAPI) UnmarshalText(data []byte) error {
	api, err := ParseGPUAPI(string(data))
	if err != nil {
		return err
	}
	*a = api
	return nil
}
