package capabilities

import (
	"sort"

	"github.com/reglet-dev/offloadcfg/internal/domain/values"
)

// FeatureSet is an immutable set of feature flags.
// The zero value is an empty set and is safe for concurrent reads.
type FeatureSet struct {
	flags map[string]struct{}
}

// NewFeatureSet creates a set from the given flags. Duplicates collapse and
// empty flags are ignored.
func NewFeatureSet(flags ...values.FeatureFlag) FeatureSet {
	set := FeatureSet{flags: make(map[string]struct{}, len(flags))}
	for _, f := range flags {
		if f.IsEmpty() {
			continue
		}
		set.flags[f.String()] = struct{}{}
	}
	return set
}

// Contains reports whether the flag is present.
func (s FeatureSet) Contains(flag values.FeatureFlag) bool {
	_, ok := s.flags[flag.String()]
	return ok
}

// Has reports whether a flag with the given name is present.
func (s FeatureSet) Has(name string) bool {
	_, ok := s.flags[name]
	return ok
}

// Len returns the number of flags in the set.
func (s FeatureSet) Len() int {
	return len(s.flags)
}

// Names returns the flag names in sorted order.
func (s FeatureSet) Names() []string {
	names := make([]string, 0, len(s.flags))
	for name := range s.flags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flags returns the flags in sorted order.
func (s FeatureSet) Flags() []values.FeatureFlag {
	names := s.Names()
	flags := make([]values.FeatureFlag, 0, len(names))
	for _, name := range names {
		flags = append(flags, values.MustNewFeatureFlag(name))
	}
	return flags
}

// Equals checks if two sets hold exactly the same flags.
func (s FeatureSet) Equals(other FeatureSet) bool {
	if len(s.flags) != len(other.flags) {
		return false
	}
	for name := range s.flags {
		if _, ok := other.flags[name]; !ok {
			return false
		}
	}
	return true
}
