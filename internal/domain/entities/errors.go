package entities

import "fmt"

// ToolNotFoundError indicates a required tool could not be located.
type ToolNotFoundError struct {
	LogicalName string
	Path        string // literal path that was tried, if any
}

func (e *ToolNotFoundError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("tool not found: %s (tried %s)", e.LogicalName, e.Path)
	}
	return fmt.Sprintf("tool not found: %s", e.LogicalName)
}

// RegistryStateError indicates an operation that is illegal in the builder's current state.
type RegistryStateError struct {
	Op    string
	State RegistryState
}

func (e *RegistryStateError) Error() string {
	return fmt.Sprintf("substitution registry: cannot %s in state %s", e.Op, e.State)
}
