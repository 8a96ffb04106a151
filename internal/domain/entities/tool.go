package entities

import (
	"fmt"
	"strings"
)

// LookupStrategy selects how a tool request is turned into an executable path.
type LookupStrategy int

const (
	// StrategyLocate resolves the logical name through the tool locator.
	StrategyLocate LookupStrategy = iota
	// StrategyLiteral uses a configured path verbatim when it exists.
	StrategyLiteral
)

// String returns the strategy name.
func (s LookupStrategy) String() string {
	switch s {
	case StrategyLocate:
		return "locate"
	case StrategyLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// ToolRequest asks for a logical tool to be bound to a placeholder token.
type ToolRequest struct {
	// Token is the placeholder used in test scripts. Defaults to LogicalName.
	Token string
	// LogicalName is the tool name handed to the locator (e.g. "FileCheck").
	LogicalName string
	// Path is the literal executable path used by StrategyLiteral.
	Path string
	// FeatureGate, when set, restricts the request to loads where the gate holds.
	FeatureGate string
	ExtraArgs   []string
	Strategy    LookupStrategy
	// Optional requests that cannot be located produce no binding instead of an error.
	Optional bool
}

// PlaceholderToken returns the token this request binds.
func (r ToolRequest) PlaceholderToken() string {
	if r.Token != "" {
		return r.Token
	}
	return r.LogicalName
}

// Validate checks the request is well formed.
func (r ToolRequest) Validate() error {
	if strings.TrimSpace(r.LogicalName) == "" {
		return fmt.Errorf("tool request: logical name is required")
	}
	if strings.ContainsAny(r.PlaceholderToken(), " \t\r\n") {
		return fmt.Errorf("tool %s: token %q cannot contain whitespace", r.LogicalName, r.PlaceholderToken())
	}
	if r.Strategy == StrategyLiteral && r.Path == "" {
		return fmt.Errorf("tool %s: literal strategy requires a path", r.LogicalName)
	}
	return nil
}

// ToolBinding is a resolved tool request.
type ToolBinding struct {
	Token       string
	LogicalName string
	Path        string
	FeatureGate string
	ExtraArgs   []string
}

// Command returns the executable path followed by the extra arguments.
func (b ToolBinding) Command() string {
	if len(b.ExtraArgs) == 0 {
		return b.Path
	}
	return b.Path + " " + strings.Join(b.ExtraArgs, " ")
}
