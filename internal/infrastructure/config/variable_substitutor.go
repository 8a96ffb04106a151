package config

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
)

// Variable pattern: {{ .vars.key }}
var varPattern = regexp.MustCompile(`\{\{\s*\.vars\.([a-zA-Z0-9_.]+)\s*\}\}`)

// Environment pattern: {{ env "NAME" }}
var envPattern = regexp.MustCompile(`\{\{\s*env\s+"([a-zA-Z_][a-zA-Z0-9_]*)"\s*\}\}`)

// VariableSubstitutor expands placeholders in the path-like fields of a
// Config, so a build tree layout is declared once:
//
//	vars:
//	  llvm_tools_dir: /build/llvm/bin
//	tools_dirs:
//	  - "{{ .vars.llvm_tools_dir }}"
//	compiler: '{{ env "DXC_DIR" }}/bin/dxc'
type VariableSubstitutor struct {
	lookupEnv func(string) (string, bool)
}

// NewVariableSubstitutor creates a substitutor reading the process environment.
func NewVariableSubstitutor() *VariableSubstitutor {
	return &VariableSubstitutor{lookupEnv: os.LookupEnv}
}

// Substitute expands placeholders in place.
// Returns an error naming the field if a referenced variable is not found.
func (s *VariableSubstitutor) Substitute(cfg *Config) error {
	var err error
	sub := func(field string, value *string) {
		if err != nil {
			return
		}
		var out string
		if out, err = s.substituteInString(*value, cfg.Vars); err != nil {
			err = fmt.Errorf("%s: %w", field, err)
			return
		}
		*value = out
	}

	sub("compiler", &cfg.Compiler)
	sub("golden_images_dir", &cfg.GoldenImagesDir)
	sub("capability_query.tool", &cfg.Query.Tool)
	sub("capability_query.devices_file", &cfg.Query.DevicesFile)
	for i := range cfg.Query.Args {
		sub(fmt.Sprintf("capability_query.args[%d]", i), &cfg.Query.Args[i])
	}
	for i := range cfg.ToolsDirs {
		sub(fmt.Sprintf("tools_dirs[%d]", i), &cfg.ToolsDirs[i])
	}
	for i := range cfg.Tools {
		tool := &cfg.Tools[i]
		sub(fmt.Sprintf("tools[%d].path", i), &tool.Path)
		for j := range tool.Args {
			sub(fmt.Sprintf("tools[%d].args[%d]", i, j), &tool.Args[j])
		}
	}
	for name, path := range cfg.Overrides {
		p := path
		sub("overrides."+name, &p)
		cfg.Overrides[name] = p
	}

	return err
}

// substituteInString replaces patterns with values.
func (s *VariableSubstitutor) substituteInString(str string, vars map[string]interface{}) (string, error) {
	if !strings.Contains(str, "{{") {
		return str, nil
	}

	var lastErr error

	// 1. Substitute variables: {{ .vars.key }}
	result := varPattern.ReplaceAllStringFunc(str, func(match string) string {
		submatches := varPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			lastErr = fmt.Errorf("invalid variable pattern: %s", match)
			return match
		}

		value, err := lookupVar(vars, submatches[1])
		if err != nil {
			lastErr = err
			return match
		}
		return fmt.Sprintf("%v", value)
	})

	if lastErr != nil {
		return "", lastErr
	}

	// 2. Substitute environment variables: {{ env "NAME" }}
	result = envPattern.ReplaceAllStringFunc(result, func(match string) string {
		submatches := envPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			lastErr = fmt.Errorf("invalid env pattern: %s", match)
			return match
		}

		value, ok := s.lookupEnv(submatches[1])
		if !ok {
			lastErr = fmt.Errorf("environment variable not set: %s", submatches[1])
			return match
		}
		return value
	})

	if lastErr != nil {
		return "", lastErr
	}

	if strings.Contains(result, "{{") {
		return "", fmt.Errorf("unsupported placeholder in %q", str)
	}

	return result, nil
}

// lookupVar looks up a variable value by path (e.g., "llvm.bin").
// Supports nested paths using dot notation.
func lookupVar(vars map[string]interface{}, path string) (interface{}, error) {
	parts := strings.Split(path, ".")
	current := interface{}(vars)

	for i, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("variable path %s: cannot access %s (not a map)", path, strings.Join(parts[:i+1], "."))
		}

		value, exists := m[part]
		if !exists {
			return nil, fmt.Errorf("variable not found: %s", path)
		}

		current = value
	}

	switch v := current.(type) {
	case string, int, int64, uint64, float64, bool:
		return v, nil
	case map[string]interface{}:
		return nil, fmt.Errorf("variable %s is a map, not a value", path)
	default:
		val := reflect.ValueOf(v)
		if val.Kind() == reflect.Int || val.Kind() == reflect.Int64 {
			return val.Int(), nil
		}
		return v, nil
	}
}
