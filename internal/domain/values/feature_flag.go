package values

import (
	"fmt"
	"strings"
)

// FeatureFlag is a named boolean capability recognized by test selection.
// A flag carries no value; it is either present in a FeatureSet or absent.
type FeatureFlag struct {
	value string
}

// NewFeatureFlag creates a FeatureFlag with validation.
// Names are trimmed and must not be empty or contain whitespace.
func NewFeatureFlag(name string) (FeatureFlag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FeatureFlag{}, fmt.Errorf("feature flag cannot be empty")
	}
	if strings.ContainsAny(name, " \t\r\n") {
		return FeatureFlag{}, fmt.Errorf("feature flag %q cannot contain whitespace", name)
	}
	return FeatureFlag{value: name}, nil
}

// MustNewFeatureFlag creates a FeatureFlag or panics
func MustNewFeatureFlag(name string) FeatureFlag {
	f, err := NewFeatureFlag(name)
	if err != nil {
		panic(err)
	}
	return f
}

// String returns the flag name
func (f FeatureFlag) String() string {
	return f.value
}

// IsEmpty returns true if this is the zero value
func (f FeatureFlag) IsEmpty() bool {
	return f.value == ""
}

// Equals checks if two flags are equal
func (f FeatureFlag) Equals(other FeatureFlag) bool {
	return f.value == other.value
}

// MarshalText implements encoding.TextMarshaler
func (f FeatureFlag) MarshalText() ([]byte, error) {
	return []byte(f.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (f *FeatureFlag) UnmarshalText(data []byte) error {
	flag, err := NewFeatureFlag(string(data))
	if err != nil {
		return err
	}
	*f = flag
	return nil
}
