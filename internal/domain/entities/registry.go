package entities

import (
	"fmt"
	"sort"
	"strings"
)

// RegistryState is the lifecycle state of a RegistryBuilder.
type RegistryState int

const (
	RegistryUnbuilt RegistryState = iota
	RegistryBuilding
	RegistryBuilt
	RegistryFailed
)

// String returns the state name.
func (s RegistryState) String() string {
	switch s {
	case RegistryUnbuilt:
		return "unbuilt"
	case RegistryBuilding:
		return "building"
	case RegistryBuilt:
		return "built"
	case RegistryFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal returns true for Built and Failed.
func (s RegistryState) IsTerminal() bool {
	return s == RegistryBuilt || s == RegistryFailed
}

// Substitution is one placeholder token and the command it expands to.
type Substitution struct {
	Token   string `json:"token" yaml:"token"`
	Command string `json:"command" yaml:"command"`
}

// SubstitutionRegistry maps placeholder tokens to concrete commands.
// It is read-only once built and safe for concurrent readers.
type SubstitutionRegistry struct {
	entries map[string]string
	ordered []Substitution
}

// Lookup returns the command bound to token.
func (r *SubstitutionRegistry) Lookup(token string) (string, bool) {
	cmd, ok := r.entries[token]
	return cmd, ok
}

// Len returns the number of bound tokens.
func (r *SubstitutionRegistry) Len() int {
	return len(r.entries)
}

// Substitutions returns the bound pairs in application order: longest token
// first, ties broken by token. The returned slice is a copy.
func (r *SubstitutionRegistry) Substitutions() []Substitution {
	out := make([]Substitution, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Expand applies every substitution to a single command line.
// A token is replaced only where it stands alone: it may not be preceded by a
// word character, '-', '.', '/' or '%', nor followed by a word character, '-'
// or '.'. Replaced text is never scanned again.
func (r *SubstitutionRegistry) Expand(line string) string {
	if len(r.ordered) == 0 {
		return line
	}

	var b strings.Builder
	b.Grow(len(line))

	for i := 0; i < len(line); {
		if sub, ok := r.matchAt(line, i); ok {
			b.WriteString(sub.Command)
			i += len(sub.Token)
			continue
		}
		b.WriteByte(line[i])
		i++
	}
	return b.String()
}

func (r *SubstitutionRegistry) matchAt(line string, i int) (Substitution, bool) {
	if i > 0 && isLeadingBoundaryBlocker(line[i-1]) {
		return Substitution{}, false
	}
	for _, sub := range r.ordered {
		if !strings.HasPrefix(line[i:], sub.Token) {
			continue
		}
		end := i + len(sub.Token)
		if end < len(line) && isTrailingBoundaryBlocker(line[end]) {
			continue
		}
		return sub, true
	}
	return Substitution{}, false
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isLeadingBoundaryBlocker(c byte) bool {
	return isWordByte(c) || c == '-' || c == '.' || c == '/' || c == '%'
}

func isTrailingBoundaryBlocker(c byte) bool {
	return isWordByte(c) || c == '-' || c == '.'
}

// RegistryBuilder folds tool bindings into a SubstitutionRegistry.
//
// State machine: Unbuilt -> Building -> Built | Failed. Built and Failed are
// terminal; Failed keeps the first error it was given.
type RegistryBuilder struct {
	entries map[string]string
	err     error
	state   RegistryState
}

// NewRegistryBuilder creates a builder in the Unbuilt state.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{state: RegistryUnbuilt}
}

// State returns the current builder state.
func (b *RegistryBuilder) State() RegistryState {
	return b.state
}

// Err returns the error that moved the builder to Failed, if any.
func (b *RegistryBuilder) Err() error {
	return b.err
}

// Begin moves the builder from Unbuilt to Building.
func (b *RegistryBuilder) Begin() error {
	if b.state != RegistryUnbuilt {
		return &RegistryStateError{Op: "begin", State: b.state}
	}
	b.entries = make(map[string]string)
	b.state = RegistryBuilding
	return nil
}

// Add records a binding. A later binding for the same token overwrites an earlier one.
// An invalid binding fails the build.
func (b *RegistryBuilder) Add(binding ToolBinding) error {
	if b.state != RegistryBuilding {
		return &RegistryStateError{Op: "add", State: b.state}
	}
	if binding.Token == "" {
		return b.Fail(fmt.Errorf("binding for tool %q has no token", binding.LogicalName))
	}
	if binding.Path == "" {
		return b.Fail(fmt.Errorf("binding for token %q has no path", binding.Token))
	}
	b.entries[binding.Token] = binding.Command()
	return nil
}

// Fail moves the builder to Failed. Only the first error is kept; failing a
// builder that is already terminal returns the recorded error or a state error.
func (b *RegistryBuilder) Fail(err error) error {
	switch b.state {
	case RegistryFailed:
		return b.err
	case RegistryBuilt:
		return &RegistryStateError{Op: "fail", State: b.state}
	}
	if err == nil {
		err = fmt.Errorf("registry build failed")
	}
	b.err = err
	b.entries = nil
	b.state = RegistryFailed
	return err
}

// Finish moves the builder from Building to Built and returns the registry.
func (b *RegistryBuilder) Finish() (*SubstitutionRegistry, error) {
	if b.state != RegistryBuilding {
		if b.state == RegistryFailed {
			return nil, b.err
		}
		return nil, &RegistryStateError{Op: "finish", State: b.state}
	}

	ordered := make([]Substitution, 0, len(b.entries))
	for token, cmd := range b.entries {
		ordered = append(ordered, Substitution{Token: token, Command: cmd})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i].Token) != len(ordered[j].Token) {
			return len(ordered[i].Token) > len(ordered[j].Token)
		}
		return ordered[i].Token < ordered[j].Token
	})

	reg := &SubstitutionRegistry{entries: b.entries, ordered: ordered}
	b.entries = nil
	b.state = RegistryBuilt
	return reg, nil
}

// Build runs Begin, Add for each binding in order, and Finish.
func (b *RegistryBuilder) Build(bindings []ToolBinding) (*SubstitutionRegistry, error) {
	if err := b.Begin(); err != nil {
		return nil, err
	}
	for _, binding := range bindings {
		if err := b.Add(binding); err != nil {
			return nil, err
		}
	}
	return b.Finish()
}
