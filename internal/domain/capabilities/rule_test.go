package capabilities

import (
	"testing"

	"github.com/reglet-dev/offloadcfg/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchKind(t *testing.T) {
	tests := []struct {
		input   string
		want    MatchKind
		wantErr bool
	}{
		{"", MatchContains, false},
		{"contains", MatchContains, false},
		{"EQUALS", MatchEquals, false},
		{"capability", MatchCapability, false},
		{"regex", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMatchKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRule_Matches(t *testing.T) {
	intel := values.MustNewFeatureFlag("DirectX-Intel")
	warp := values.MustNewFeatureFlag("DirectX-WARP")
	native16 := values.MustNewFeatureFlag("DirectX-Native16Bit")

	tests := []struct {
		name   string
		rule   Rule
		device DeviceDescriptor
		want   bool
	}{
		{
			name:   "contains matches substring",
			rule:   Rule{API: values.APIDirectX, Match: MatchContains, Pattern: "Intel", Flag: intel},
			device: NewDeviceDescriptor(values.APIDirectX, "Intel(R) UHD Graphics 770", nil),
			want:   true,
		},
		{
			name:   "contains is case sensitive",
			rule:   Rule{API: values.APIDirectX, Match: MatchContains, Pattern: "Intel", Flag: intel},
			device: NewDeviceDescriptor(values.APIDirectX, "intel uhd", nil),
			want:   false,
		},
		{
			name:   "rule scoped to its API",
			rule:   Rule{API: values.APIDirectX, Match: MatchContains, Pattern: "Intel", Flag: intel},
			device: NewDeviceDescriptor(values.APIVulkan, "Intel(R) UHD Graphics 770", nil),
			want:   false,
		},
		{
			name:   "equals requires exact description",
			rule:   Rule{API: values.APIDirectX, Match: MatchEquals, Pattern: WARPDescription, Flag: warp},
			device: NewDeviceDescriptor(values.APIDirectX, WARPDescription, nil),
			want:   true,
		},
		{
			name:   "equals rejects superstring",
			rule:   Rule{API: values.APIDirectX, Match: MatchEquals, Pattern: WARPDescription, Flag: warp},
			device: NewDeviceDescriptor(values.APIDirectX, WARPDescription+" (v2)", nil),
			want:   false,
		},
		{
			name:   "capability true",
			rule:   Rule{API: values.APIDirectX, Match: MatchCapability, Pattern: "Native16BitShaderOpsSupported", Flag: native16},
			device: NewDeviceDescriptor(values.APIDirectX, "AMD Radeon", map[string]string{"Native16BitShaderOpsSupported": "true"}),
			want:   true,
		},
		{
			name:   "capability false",
			rule:   Rule{API: values.APIDirectX, Match: MatchCapability, Pattern: "Native16BitShaderOpsSupported", Flag: native16},
			device: NewDeviceDescriptor(values.APIDirectX, "AMD Radeon", map[string]string{"Native16BitShaderOpsSupported": "false"}),
			want:   false,
		},
		{
			name:   "capability missing",
			rule:   Rule{API: values.APIDirectX, Match: MatchCapability, Pattern: "Native16BitShaderOpsSupported", Flag: native16},
			device: NewDeviceDescriptor(values.APIDirectX, "AMD Radeon", nil),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Matches(tt.device))
		})
	}
}

func TestNewRule_Validation(t *testing.T) {
	flag := values.MustNewFeatureFlag("Vulkan-NV")

	_, err := NewRule(values.APIVulkan, MatchContains, "NVIDIA", flag)
	require.NoError(t, err)

	_, err = NewRule(values.APIUnknown, MatchContains, "NVIDIA", flag)
	assert.ErrorContains(t, err, "unknown API")

	_, err = NewRule(values.APIVulkan, MatchContains, "", flag)
	assert.ErrorContains(t, err, "pattern is required")

	_, err = NewRule(values.APIVulkan, MatchContains, "NVIDIA", values.FeatureFlag{})
	assert.ErrorContains(t, err, "flag is required")

	_, err = NewRule(values.APIVulkan, MatchKind("glob"), "NVIDIA", flag)
	assert.ErrorContains(t, err, "invalid match kind")
}

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()
	require.Len(t, rules, 3)
	for _, r := range rules {
		assert.NoError(t, r.Validate(), r.String())
	}
}

func TestDeviceDescriptor_CopiesCapabilities(t *testing.T) {
	caps := map[string]string{"WaveOps": "true"}
	d := NewDeviceDescriptor(values.APIVulkan, "NVIDIA RTX 4090", caps)
	caps["WaveOps"] = "false"

	v, ok := d.Capability("WaveOps")
	assert.True(t, ok)
	assert.Equal(t, "true", v)
	assert.Equal(t, []string{"WaveOps"}, d.CapabilityNames())
	assert.Equal(t, "Vulkan: NVIDIA RTX 4090", d.String())
}
