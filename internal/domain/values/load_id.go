package values

import (
	"fmt"

	"github.com/google/uuid"
)

// LoadID uniquely identifies one configuration load.
// Every log line emitted while building a registry carries it.
type LoadID struct {
	value uuid.UUID
}

// NewLoadID creates a new random load ID
func NewLoadID() LoadID {
	return LoadID{value: uuid.New()}
}

// ParseLoadID parses a string into a LoadID
func ParseLoadID(s string) (LoadID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return LoadID{}, fmt.Errorf("invalid load ID: %w", err)
	}
	return LoadID{value: id}, nil
}

// String returns the string representation
func (l LoadID) String() string {
	return l.value.String()
}

// IsZero returns true if this is the zero value
func (l LoadID) IsZero() bool {
	return l.value == uuid.Nil
}

// MarshalText implements encoding.TextMarshaler
func (l LoadID) MarshalText() ([]byte, error) {
	return []byte(l.value.String()), nil
}
