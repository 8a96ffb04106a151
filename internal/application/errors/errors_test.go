package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("tools[0]", "logical name is required")
	assert.Equal(t, "validation failed: tools[0]: logical name is required", err.Error())

	err = NewValidationError("rules", "invalid rules", "a", "b")
	assert.Equal(t, "validation failed: rules: invalid rules (2 issues)", err.Error())
}

func TestCapabilityQueryError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := NewCapabilityQueryError("api-query", cause)

	assert.Equal(t, "capability query failed (api-query): exit status 1", err.Error())
	assert.ErrorIs(t, err, cause)

	var target *CapabilityQueryError
	assert.ErrorAs(t, error(err), &target)
}

func TestConfigurationConflictError(t *testing.T) {
	cause := errors.New("WARP requires DirectX")
	err := NewConfigurationConflictError("WARP requires DirectX", cause, "use_warp", "enable_d3d12")

	assert.Equal(t, "configuration conflict (use_warp, enable_d3d12): WARP requires DirectX", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("config", "failed to parse", errors.New("bad yaml"))
	assert.Equal(t, "configuration error (config): failed to parse: bad yaml", err.Error())

	err = NewConfigurationError("requires", "harness too old", nil)
	assert.Equal(t, "configuration error (requires): harness too old", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
