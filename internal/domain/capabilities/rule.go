package capabilities

import (
	"fmt"
	"strings"

	"github.com/reglet-dev/offloadcfg/internal/domain/values"
)

// MatchKind selects how a rule pattern is compared against a device.
type MatchKind string

const (
	// MatchContains fires when the description contains the pattern.
	MatchContains MatchKind = "contains"
	// MatchEquals fires when the description equals the pattern exactly.
	MatchEquals MatchKind = "equals"
	// MatchCapability fires when the device reports the capability named by
	// the pattern with the value "true".
	MatchCapability MatchKind = "capability"
)

// WARPDescription is the adapter description of the Direct3D software rasterizer.
const WARPDescription = "Microsoft Basic Render Driver"

// ParseMatchKind parses a match kind, defaulting to contains when empty.
func ParseMatchKind(s string) (MatchKind, error) {
	switch MatchKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchContains:
		return MatchContains, nil
	case MatchEquals:
		return MatchEquals, nil
	case MatchCapability:
		return MatchCapability, nil
	default:
		return "", fmt.Errorf("invalid match kind: %q", s)
	}
}

// Rule derives a vendor/model flag from devices of one API.
type Rule struct {
	Flag    values.FeatureFlag
	Match   MatchKind
	Pattern string
	API     values.GPUAPI
}

// NewRule creates a validated rule.
func NewRule(api values.GPUAPI, match MatchKind, pattern string, flag values.FeatureFlag) (Rule, error) {
	r := Rule{API: api, Match: match, Pattern: pattern, Flag: flag}
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// Validate checks the rule is well formed.
func (r Rule) Validate() error {
	if !r.API.IsKnown() {
		return fmt.Errorf("rule %q: unknown API", r.Flag.String())
	}
	if r.Flag.IsEmpty() {
		return fmt.Errorf("rule for %s %q: flag is required", r.API, r.Pattern)
	}
	if r.Pattern == "" {
		return fmt.Errorf("rule %q: pattern is required", r.Flag.String())
	}
	switch r.Match {
	case MatchContains, MatchEquals, MatchCapability:
		return nil
	default:
		return fmt.Errorf("rule %q: invalid match kind %q", r.Flag.String(), r.Match)
	}
}

// Matches reports whether the rule fires for the device.
// Rules are scoped to their API and never fire for devices of another API.
func (r Rule) Matches(d DeviceDescriptor) bool {
	if r.API != d.API() {
		return false
	}
	switch r.Match {
	case MatchContains:
		return strings.Contains(d.Description(), r.Pattern)
	case MatchEquals:
		return d.Description() == r.Pattern
	case MatchCapability:
		v, ok := d.Capability(r.Pattern)
		return ok && strings.EqualFold(v, "true")
	default:
		return false
	}
}

// String returns a human-readable representation of the rule.
func (r Rule) String() string {
	return fmt.Sprintf("%s %s %q -> %s", r.API, r.Match, r.Pattern, r.Flag)
}

// DefaultRules returns the vendor/model table used when configuration
// does not supply one.
func DefaultRules() []Rule {
	return []Rule{
		{API: values.APIDirectX, Match: MatchContains, Pattern: "Intel", Flag: values.MustNewFeatureFlag("DirectX-Intel")},
		{API: values.APIDirectX, Match: MatchEquals, Pattern: WARPDescription, Flag: values.MustNewFeatureFlag("DirectX-WARP")},
		{API: values.APIVulkan, Match: MatchContains, Pattern: "NVIDIA", Flag: values.MustNewFeatureFlag("Vulkan-NV")},
	}
}
