// Package config provides infrastructure for loading the harness configuration
// file (offloadcfg.yaml) and turning it into the immutable inputs of a
// configuration load.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	apperrors "github.com/reglet-dev/offloadcfg/internal/application/errors"
	"github.com/reglet-dev/offloadcfg/internal/domain/capabilities"
	"github.com/reglet-dev/offloadcfg/internal/domain/entities"
	"github.com/reglet-dev/offloadcfg/internal/domain/services"
	"github.com/reglet-dev/offloadcfg/internal/domain/values"
)

const (
	// DefaultQueryTool is the logical name of the device query tool.
	DefaultQueryTool = "api-query"
	// DefaultQueryTimeout bounds a single capability query.
	DefaultQueryTimeout = 60 * time.Second

	clangFeature       = "Clang"
	goldenImageFeature = "goldenimage"
	compilerToolName   = "dxc"
)

// Config represents the harness configuration file (offloadcfg.yaml).
type Config struct {
	Name            string            `yaml:"name"`
	Requires        string            `yaml:"requires"`
	Compiler        string            `yaml:"compiler"`
	GoldenImagesDir string            `yaml:"golden_images_dir"`
	ToolsDirs       []string          `yaml:"tools_dirs"`
	Tools           []ToolConfig      `yaml:"tools"`
	Rules           []RuleConfig      `yaml:"rules"`
	Overrides       map[string]string `yaml:"overrides"`
	Vars            map[string]any    `yaml:"vars,omitempty"`
	Query           QueryConfig       `yaml:"capability_query"`
	APIs            APIConfig         `yaml:"apis"`
	UseWARP         bool              `yaml:"use_warp"`
	TestClang       bool              `yaml:"test_clang"`
}

// APIConfig enables each API family.
type APIConfig struct {
	D3D12  bool `yaml:"d3d12"`
	Metal  bool `yaml:"metal"`
	Vulkan bool `yaml:"vulkan"`
}

// QueryConfig configures the capability source.
type QueryConfig struct {
	// Tool is the logical name or path of the query executable.
	Tool string `yaml:"tool"`
	// DevicesFile, when set, is read instead of running Tool.
	DevicesFile string        `yaml:"devices_file"`
	Args        []string      `yaml:"args"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ToolConfig declares one tool substitution.
type ToolConfig struct {
	Name     string   `yaml:"name"`
	Token    string   `yaml:"token"`
	Path     string   `yaml:"path"`
	Gate     string   `yaml:"gate"`
	Args     []string `yaml:"args"`
	Optional bool     `yaml:"optional"`
}

// RuleConfig declares one vendor/model rule.
type RuleConfig struct {
	API     string `yaml:"api"`
	Match   string `yaml:"match"`
	Pattern string `yaml:"pattern"`
	Flag    string `yaml:"flag"`
}

// DefaultConfig returns a Config with the standard tool list and every API
// disabled. This is used when no configuration file exists.
func DefaultConfig() *Config {
	return &Config{
		Name:      "OffloadTest",
		ToolsDirs: []string{},
		Tools: []ToolConfig{
			{Name: "gpu-exec", Token: "%gpu-exec"},
			{Name: "FileCheck"},
			{Name: "split-file"},
			{Name: "clang-dxc", Gate: clangFeature},
		},
		Rules:     []RuleConfig{},
		Overrides: map[string]string{},
		Query: QueryConfig{
			Tool:    DefaultQueryTool,
			Args:    []string{},
			Timeout: DefaultQueryTimeout,
		},
	}
}

// Toggles converts the enablement switches into domain toggles.
// Static features: "Clang" when test_clang is set, "goldenimage" when the
// golden image directory exists. A configured but missing directory only
// logs a warning.
func (c *Config) Toggles(logger *slog.Logger) capabilities.Toggles {
	if logger == nil {
		logger = slog.Default()
	}

	var apis []values.GPUAPI
	if c.APIs.D3D12 {
		apis = append(apis, values.APIDirectX)
	}
	if c.APIs.Metal {
		apis = append(apis, values.APIMetal)
	}
	if c.APIs.Vulkan {
		apis = append(apis, values.APIVulkan)
	}

	var static []values.FeatureFlag
	if c.TestClang {
		static = append(static, values.MustNewFeatureFlag(clangFeature))
	}
	if c.GoldenImagesDir != "" {
		if info, err := os.Stat(c.GoldenImagesDir); err == nil && info.IsDir() {
			static = append(static, values.MustNewFeatureFlag(goldenImageFeature))
		} else {
			logger.Warn("golden image directory not found, image comparison tests disabled",
				"path", c.GoldenImagesDir)
		}
	}

	return capabilities.NewToggles(apis...).
		WithWARP(c.UseWARP).
		WithStaticFeatures(static...)
}

// DomainRules converts the configured rules. An empty list returns nil,
// which selects the default rule table.
func (c *Config) DomainRules() ([]capabilities.Rule, error) {
	if len(c.Rules) == 0 {
		return nil, nil
	}

	rules := make([]capabilities.Rule, 0, len(c.Rules))
	for i, rc := range c.Rules {
		rule, err := rc.toDomain()
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (rc RuleConfig) toDomain() (capabilities.Rule, error) {
	api, err := values.ParseGPUAPI(rc.API)
	if err != nil {
		return capabilities.Rule{}, err
	}
	match, err := capabilities.ParseMatchKind(rc.Match)
	if err != nil {
		return capabilities.Rule{}, err
	}
	flag, err := values.NewFeatureFlag(rc.Flag)
	if err != nil {
		return capabilities.Rule{}, err
	}
	return capabilities.NewRule(api, match, rc.Pattern, flag)
}

// ToolRequests converts the tool list in declaration order. When a compiler
// path is configured it is appended last as an optional literal "dxc"
// request, so it overrides any earlier dxc entry when the path exists.
func (c *Config) ToolRequests() []entities.ToolRequest {
	requests := make([]entities.ToolRequest, 0, len(c.Tools)+1)
	for _, tc := range c.Tools {
		requests = append(requests, tc.toDomain())
	}

	if c.Compiler != "" {
		requests = append(requests, entities.ToolRequest{
			LogicalName: compilerToolName,
			Strategy:    entities.StrategyLiteral,
			Path:        c.Compiler,
			Optional:    true,
		})
	}
	return requests
}

func (tc ToolConfig) toDomain() entities.ToolRequest {
	req := entities.ToolRequest{
		Token:       tc.Token,
		LogicalName: tc.Name,
		FeatureGate: tc.Gate,
		ExtraArgs:   append([]string(nil), tc.Args...),
		Optional:    tc.Optional,
	}
	if tc.Path != "" {
		req.Strategy = entities.StrategyLiteral
		req.Path = tc.Path
	}
	return req
}

// Validate checks the configuration and reports every problem found.
// Conflicting toggles are reported as a ConfigurationConflictError.
func (c *Config) Validate() error {
	if c.UseWARP && !c.APIs.D3D12 {
		return apperrors.NewConfigurationConflictError(
			capabilities.ErrWARPRequiresDirectX.Error(),
			capabilities.ErrWARPRequiresDirectX,
			"use_warp", "apis.d3d12")
	}

	var details []string

	for i, tc := range c.Tools {
		if err := tc.toDomain().Validate(); err != nil {
			details = append(details, fmt.Sprintf("tools[%d]: %v", i, err))
			continue
		}
		if _, err := services.CompileGate(tc.Gate); err != nil {
			details = append(details, fmt.Sprintf("tools[%d]: %v", i, err))
		}
	}

	for i, rc := range c.Rules {
		if _, err := rc.toDomain(); err != nil {
			details = append(details, fmt.Sprintf("rules[%d]: %v", i, err))
		}
	}

	if c.Query.Tool == "" && c.Query.DevicesFile == "" {
		details = append(details, "capability_query: tool or devices_file is required")
	}
	if c.Query.Timeout < 0 {
		details = append(details, "capability_query.timeout: must not be negative")
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("config", "invalid configuration", details...)
	}
	return nil
}
