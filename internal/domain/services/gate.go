package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
	"github.com/reglet-dev/offloadcfg/internal/domain/capabilities"
	"github.com/reglet-dev/offloadcfg/internal/domain/values"
)

// A gate made only of these characters is a single feature flag name.
var flagNamePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.+-]*$`)

// Gate decides whether a feature-gated tool request applies.
//
// A gate is either a single flag name ("Clang") or an expression evaluated
// against the feature set, e.g. `DirectX && !has("DirectX-WARP")` or
// `"Vulkan" in features`. Inside an expression, flags whose names are valid
// identifiers may be used bare; others need has("...").
type Gate struct {
	program *vm.Program
	raw     string
	flag    values.FeatureFlag
	names   []string
}

// compile-time environment; values are replaced per evaluation
func gateEnv(set capabilities.FeatureSet, names []string) map[string]any {
	env := map[string]any{
		"features": set.Names(),
		"has":      set.Has,
	}
	for _, name := range names {
		env[name] = set.Has(name)
	}
	return env
}

// bareFlags returns the identifiers an expression reads as feature names.
func bareFlags(s string) ([]string, error) {
	tree, err := parser.Parse(s)
	if err != nil {
		return nil, err
	}

	c := &identCollector{callees: map[string]bool{}}
	ast.Walk(&tree.Node, c)

	seen := map[string]bool{"features": true, "has": true}
	var names []string
	for _, name := range c.idents {
		if seen[name] || c.callees[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

type identCollector struct {
	callees map[string]bool
	idents  []string
}

func (c *identCollector) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		c.idents = append(c.idents, n.Value)
	case *ast.CallNode:
		if id, ok := n.Callee.(*ast.IdentifierNode); ok {
			c.callees[id.Value] = true
		}
	}
}

// CompileGate parses a gate. The empty string yields an empty gate that always holds.
func CompileGate(s string) (Gate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Gate{}, nil
	}

	if flagNamePattern.MatchString(s) {
		flag, err := values.NewFeatureFlag(s)
		if err != nil {
			return Gate{}, err
		}
		return Gate{raw: s, flag: flag}, nil
	}

	names, err := bareFlags(s)
	if err != nil {
		return Gate{}, fmt.Errorf("invalid feature gate %q: %w", s, err)
	}

	program, err := expr.Compile(s, expr.Env(gateEnv(capabilities.FeatureSet{}, names)), expr.AsBool())
	if err != nil {
		return Gate{}, fmt.Errorf("invalid feature gate %q: %w", s, err)
	}
	return Gate{raw: s, program: program, names: names}, nil
}

// IsEmpty returns true for the gate that always holds.
func (g Gate) IsEmpty() bool {
	return g.raw == ""
}

// String returns the gate source.
func (g Gate) String() string {
	return g.raw
}

// Holds evaluates the gate against the feature set.
func (g Gate) Holds(set capabilities.FeatureSet) (bool, error) {
	if g.IsEmpty() {
		return true, nil
	}
	if g.program == nil {
		return set.Contains(g.flag), nil
	}

	output, err := expr.Run(g.program, gateEnv(set, g.names))
	if err != nil {
		return false, fmt.Errorf("feature gate %q: %w", g.raw, err)
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("feature gate %q did not return boolean: %v", g.raw, output)
	}
	return result, nil
}
