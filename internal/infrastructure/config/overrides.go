package config

import (
	"github.com/spf13/viper"
)

// Keys recognised by ApplyOverrides. They mirror the YAML layout so the same
// names work as flags, environment variables (OFFLOADCFG_APIS_D3D12, ...) and
// entries of the CLI's global config file.
const (
	KeyD3D12       = "apis.d3d12"
	KeyMetal       = "apis.metal"
	KeyVulkan      = "apis.vulkan"
	KeyUseWARP     = "use_warp"
	KeyTestClang   = "test_clang"
	KeyCompiler    = "compiler"
	KeyToolsDirs   = "tools_dirs"
	KeyDevicesFile = "capability_query.devices_file"
	KeyQueryTool   = "capability_query.tool"
)

// ApplyOverrides copies every key explicitly set in v onto the configuration.
// Keys that are not set leave the file's value untouched.
func (c *Config) ApplyOverrides(v *viper.Viper) {
	if v == nil {
		return
	}

	if v.IsSet(KeyD3D12) {
		c.APIs.D3D12 = v.GetBool(KeyD3D12)
	}
	if v.IsSet(KeyMetal) {
		c.APIs.Metal = v.GetBool(KeyMetal)
	}
	if v.IsSet(KeyVulkan) {
		c.APIs.Vulkan = v.GetBool(KeyVulkan)
	}
	if v.IsSet(KeyUseWARP) {
		c.UseWARP = v.GetBool(KeyUseWARP)
	}
	if v.IsSet(KeyTestClang) {
		c.TestClang = v.GetBool(KeyTestClang)
	}
	if v.IsSet(KeyCompiler) {
		c.Compiler = v.GetString(KeyCompiler)
	}
	if v.IsSet(KeyToolsDirs) {
		c.ToolsDirs = v.GetStringSlice(KeyToolsDirs)
	}
	if v.IsSet(KeyDevicesFile) {
		c.Query.DevicesFile = v.GetString(KeyDevicesFile)
	}
	if v.IsSet(KeyQueryTool) {
		c.Query.Tool = v.GetString(KeyQueryTool)
	}
}
