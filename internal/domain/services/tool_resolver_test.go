package services

import (
	"testing"

	"github.com/reglet-dev/offloadcfg/internal/domain/capabilities"
	"github.com/reglet-dev/offloadcfg/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocator struct {
	tools   map[string]string
	files   map[string]bool
	located []string
}

func (f *fakeLocator) Locate(name string) (string, bool) {
	f.located = append(f.located, name)
	p, ok := f.tools[name]
	return p, ok
}

func (f *fakeLocator) Exists(path string) bool {
	return f.files[path]
}

func newFakeLocator() *fakeLocator {
	return &fakeLocator{
		tools: map[string]string{
			"FileCheck":  "/llvm/bin/FileCheck",
			"split-file": "/llvm/bin/split-file",
			"gpu-exec":   "/build/bin/gpu-exec",
			"clang-dxc":  "/llvm/bin/clang-dxc",
			"dxc":        "/usr/bin/clang-dxc",
		},
		files: map[string]bool{"/opt/dxc": true},
	}
}

func TestToolResolver_Basic(t *testing.T) {
	resolver := NewToolResolver(newFakeLocator())

	res, err := resolver.Resolve([]entities.ToolRequest{
		{Token: "%gpu-exec", LogicalName: "gpu-exec"},
		{LogicalName: "FileCheck"},
		{LogicalName: "split-file", ExtraArgs: []string{"--leading-lines"}},
	}, capabilities.FeatureSet{})
	require.NoError(t, err)
	require.Len(t, res.Bindings, 3)
	assert.Empty(t, res.Skipped)

	assert.Equal(t, "%gpu-exec", res.Bindings[0].Token)
	assert.Equal(t, "/build/bin/gpu-exec", res.Bindings[0].Command())
	assert.Equal(t, "FileCheck", res.Bindings[1].Token)
	assert.Equal(t, "/llvm/bin/split-file --leading-lines", res.Bindings[2].Command())
}

func TestToolResolver_LastWriteWins(t *testing.T) {
	locator := newFakeLocator()
	resolver := NewToolResolver(locator)

	res, err := resolver.Resolve([]entities.ToolRequest{
		{LogicalName: "dxc"},
		{LogicalName: "FileCheck"},
		{LogicalName: "dxc", Strategy: entities.StrategyLiteral, Path: "/opt/dxc"},
	}, capabilities.FeatureSet{})
	require.NoError(t, err)
	require.Len(t, res.Bindings, 2)

	assert.Equal(t, "FileCheck", res.Bindings[0].Token)
	assert.Equal(t, "dxc", res.Bindings[1].Token)
	assert.Equal(t, "/opt/dxc", res.Bindings[1].Path)

	reg, err := entities.NewRegistryBuilder().Build(res.Bindings)
	require.NoError(t, err)
	cmd, ok := reg.Lookup("dxc")
	require.True(t, ok)
	assert.Equal(t, "/opt/dxc", cmd)
}

func TestToolResolver_LiteralBypassesLocator(t *testing.T) {
	locator := newFakeLocator()
	resolver := NewToolResolver(locator)

	res, err := resolver.Resolve([]entities.ToolRequest{
		{LogicalName: "dxc", Strategy: entities.StrategyLiteral, Path: "/opt/dxc"},
	}, capabilities.FeatureSet{})
	require.NoError(t, err)
	require.Len(t, res.Bindings, 1)
	assert.Equal(t, "/opt/dxc", res.Bindings[0].Path)
	assert.Empty(t, locator.located)
}

func TestToolResolver_LiteralMissing(t *testing.T) {
	tests := []struct {
		name     string
		optional bool
	}{
		{name: "optional is skipped", optional: true},
		{name: "required is not found", optional: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locator := newFakeLocator()
			resolver := NewToolResolver(locator)

			res, err := resolver.Resolve([]entities.ToolRequest{
				{LogicalName: "dxc", Strategy: entities.StrategyLiteral, Path: "/typo/dxc", Optional: tt.optional},
			}, capabilities.FeatureSet{})
			assert.Empty(t, locator.located, "a literal path never falls back to the search")

			if tt.optional {
				require.NoError(t, err)
				assert.Empty(t, res.Bindings)
				require.Len(t, res.Skipped, 1)
				assert.Equal(t, SkipOptionalMissing, res.Skipped[0].Reason)
				return
			}

			var notFound *entities.ToolNotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, "dxc", notFound.LogicalName)
			assert.Equal(t, "/typo/dxc", notFound.Path)
		})
	}
}

func TestToolResolver_SharedTokenLastRequestWins(t *testing.T) {
	resolver := NewToolResolver(newFakeLocator())

	res, err := resolver.Resolve([]entities.ToolRequest{
		{LogicalName: "dxc"},
		{Token: "dxc", LogicalName: "clang-dxc", FeatureGate: "Clang"},
		{LogicalName: "dxc", Strategy: entities.StrategyLiteral, Path: "/opt/dxc"},
	}, featureSet("Clang"))
	require.NoError(t, err)
	require.Len(t, res.Bindings, 1)
	assert.Equal(t, "/opt/dxc", res.Bindings[0].Path)

	reg, err := entities.NewRegistryBuilder().Build(res.Bindings)
	require.NoError(t, err)
	cmd, ok := reg.Lookup("dxc")
	require.True(t, ok)
	assert.Equal(t, "/opt/dxc", cmd)
}

func TestToolResolver_FeatureGate(t *testing.T) {
	resolver := NewToolResolver(newFakeLocator())
	requests := []entities.ToolRequest{
		{LogicalName: "FileCheck"},
		{LogicalName: "clang-dxc", FeatureGate: "Clang"},
	}

	res, err := resolver.Resolve(requests, capabilities.FeatureSet{})
	require.NoError(t, err)
	require.Len(t, res.Bindings, 1)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, SkipGateClosed, res.Skipped[0].Reason)
	assert.Equal(t, "clang-dxc", res.Skipped[0].Request.LogicalName)

	res, err = resolver.Resolve(requests, featureSet("Clang"))
	require.NoError(t, err)
	require.Len(t, res.Bindings, 2)
	assert.Equal(t, "Clang", res.Bindings[1].FeatureGate)
}

func TestToolResolver_GateClosedRequiredToolIsNotAnError(t *testing.T) {
	resolver := NewToolResolver(&fakeLocator{})

	res, err := resolver.Resolve([]entities.ToolRequest{
		{LogicalName: "not-installed", FeatureGate: "Metal"},
	}, featureSet("DirectX"))
	require.NoError(t, err)
	assert.Empty(t, res.Bindings)
}

func TestToolResolver_ExpressionGate(t *testing.T) {
	resolver := NewToolResolver(newFakeLocator())
	requests := []entities.ToolRequest{
		{Token: "%gpu-exec", LogicalName: "gpu-exec", ExtraArgs: []string{"-api", "dx", "-warp"}, FeatureGate: `has("DirectX-WARP")`},
	}

	res, err := resolver.Resolve(requests, featureSet("DirectX", "DirectX-WARP"))
	require.NoError(t, err)
	require.Len(t, res.Bindings, 1)
	assert.Equal(t, "/build/bin/gpu-exec -api dx -warp", res.Bindings[0].Command())

	_, err = resolver.Resolve([]entities.ToolRequest{
		{LogicalName: "gpu-exec", FeatureGate: `has(`},
	}, featureSet())
	assert.ErrorContains(t, err, "gpu-exec")
}

func TestToolResolver_NotFound(t *testing.T) {
	resolver := NewToolResolver(newFakeLocator())

	_, err := resolver.Resolve([]entities.ToolRequest{
		{LogicalName: "FileCheck"},
		{LogicalName: "imgdiff"},
	}, capabilities.FeatureSet{})

	var notFound *entities.ToolNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "imgdiff", notFound.LogicalName)
}

func TestToolResolver_OptionalMissing(t *testing.T) {
	resolver := NewToolResolver(newFakeLocator())

	res, err := resolver.Resolve([]entities.ToolRequest{
		{LogicalName: "dxc", Strategy: entities.StrategyLiteral, Path: "/opt/dxc"},
		{LogicalName: "imgdiff", Optional: true},
	}, capabilities.FeatureSet{})
	require.NoError(t, err)
	require.Len(t, res.Bindings, 1)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, SkipOptionalMissing, res.Skipped[0].Reason)
}

func TestToolResolver_InvalidRequest(t *testing.T) {
	resolver := NewToolResolver(newFakeLocator())

	_, err := resolver.Resolve([]entities.ToolRequest{{}}, capabilities.FeatureSet{})
	assert.ErrorContains(t, err, "logical name is required")
}

func TestToolResolver_Deterministic(t *testing.T) {
	resolver := NewToolResolver(newFakeLocator())
	requests := []entities.ToolRequest{
		{Token: "%gpu-exec", LogicalName: "gpu-exec"},
		{LogicalName: "FileCheck"},
		{LogicalName: "clang-dxc", FeatureGate: "Clang"},
		{LogicalName: "dxc", Strategy: entities.StrategyLiteral, Path: "/opt/dxc"},
	}
	set := featureSet("Clang")

	first, err := resolver.Resolve(requests, set)
	require.NoError(t, err)
	second, err := resolver.Resolve(requests, set)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
