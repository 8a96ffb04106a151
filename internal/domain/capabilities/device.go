// Package capabilities defines domain types for device capabilities and the
// feature flags derived from them.
package capabilities

import (
	"sort"

	"github.com/reglet-dev/offloadcfg/internal/domain/values"
)

// DeviceDescriptor describes one device reported by the capability source.
// This is a pure value object; it is never mutated after construction.
type DeviceDescriptor struct {
	capabilities map[string]string
	description  string
	api          values.GPUAPI
}

// NewDeviceDescriptor creates a device descriptor.
// The capabilities map is copied so later changes by the caller are not observed.
func NewDeviceDescriptor(api values.GPUAPI, description string, caps map[string]string) DeviceDescriptor {
	copied := make(map[string]string, len(caps))
	for k, v := range caps {
		copied[k] = v
	}
	return DeviceDescriptor{
		api:          api,
		description:  description,
		capabilities: copied,
	}
}

// API returns the API the device was enumerated through.
func (d DeviceDescriptor) API() values.GPUAPI {
	return d.api
}

// Description returns the free-text adapter description.
func (d DeviceDescriptor) Description() string {
	return d.description
}

// Capability returns the reported value of a named device capability.
func (d DeviceDescriptor) Capability(name string) (string, bool) {
	v, ok := d.capabilities[name]
	return v, ok
}

// CapabilityNames returns the reported capability names, sorted.
func (d DeviceDescriptor) CapabilityNames() []string {
	names := make([]string, 0, len(d.capabilities))
	for name := range d.capabilities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns "<API>: <description>".
func (d DeviceDescriptor) String() string {
	return d.api.String() + ": " + d.description
}
