// Package services contains pure domain services.
package services

import (
	"github.com/reglet-dev/offloadcfg/internal/domain/capabilities"
	"github.com/reglet-dev/offloadcfg/internal/domain/values"
)

// Derivation records why a flag was added to a FeatureSet.
type Derivation struct {
	Flag   values.FeatureFlag
	Reason string
}

// FeatureDeriver maps device descriptors and enablement toggles to feature flags.
// This is a pure domain service: it never sees tool resolution state, so every
// flag it emits depends only on its inputs.
type FeatureDeriver struct {
	rules []capabilities.Rule
}

// NewFeatureDeriver creates a deriver with the given rule table.
// A nil table selects capabilities.DefaultRules().
func NewFeatureDeriver(rules []capabilities.Rule) *FeatureDeriver {
	if rules == nil {
		rules = capabilities.DefaultRules()
	}
	copied := make([]capabilities.Rule, len(rules))
	copy(copied, rules)
	return &FeatureDeriver{rules: copied}
}

// Rules returns the rule table in evaluation order.
func (d *FeatureDeriver) Rules() []capabilities.Rule {
	out := make([]capabilities.Rule, len(d.rules))
	copy(out, d.rules)
	return out
}

// Derive returns the feature set for the devices under the given toggles.
func (d *FeatureDeriver) Derive(devices []capabilities.DeviceDescriptor, toggles capabilities.Toggles) capabilities.FeatureSet {
	set, _ := d.DeriveWithTrace(devices, toggles)
	return set
}

// DeriveWithTrace is Derive plus the first reason each flag was added, in
// the order flags were first derived.
//
// Devices are visited in input order. A device contributes only when its API
// is enabled; it then adds the API base flag followed by every matching rule's
// flag. In WARP mode DirectX devices other than the software adapter are skipped.
func (d *FeatureDeriver) DeriveWithTrace(devices []capabilities.DeviceDescriptor, toggles capabilities.Toggles) (capabilities.FeatureSet, []Derivation) {
	seen := make(map[string]bool)
	var trace []Derivation

	add := func(flag values.FeatureFlag, reason string) {
		if flag.IsEmpty() || seen[flag.String()] {
			return
		}
		seen[flag.String()] = true
		trace = append(trace, Derivation{Flag: flag, Reason: reason})
	}

	for _, flag := range toggles.StaticFeatures() {
		add(flag, "enabled by configuration")
	}

	for _, device := range devices {
		if !d.contributes(device, toggles) {
			continue
		}

		add(device.API().BaseFeature(), "device "+device.String())

		for _, rule := range d.rules {
			if rule.Matches(device) {
				add(rule.Flag, "rule "+rule.String()+" on "+device.String())
			}
		}
	}

	flags := make([]values.FeatureFlag, 0, len(trace))
	for _, t := range trace {
		flags = append(flags, t.Flag)
	}
	return capabilities.NewFeatureSet(flags...), trace
}

func (d *FeatureDeriver) contributes(device capabilities.DeviceDescriptor, toggles capabilities.Toggles) bool {
	if !device.API().IsKnown() || !toggles.IsEnabled(device.API()) {
		return false
	}
	if toggles.UseWARP() && device.API() == values.APIDirectX {
		return device.Description() == capabilities.WARPDescription
	}
	return true
}
