package devices

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/reglet-dev/offloadcfg/internal/application/errors"
	"github.com/reglet-dev/offloadcfg/internal/domain/capabilities"
	"github.com/reglet-dev/offloadcfg/internal/domain/entities"
	"github.com/reglet-dev/offloadcfg/internal/domain/values"
)

type mapFinder map[string]string

func (f mapFinder) Locate(name string) (string, bool) {
	p, ok := f[name]
	return p, ok
}

// writeScript creates an executable shell script in a temp directory.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}

	path := filepath.Join(t.TempDir(), "api-query")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755)) //nolint:gosec // test script must be executable
	return path
}

func TestProcessSource_Query(t *testing.T) {
	script := writeScript(t, "cat <<'DOC'\n"+queryOutput+"DOC\n")

	source := NewProcessSource(script, nil, WithTimeout(10*time.Second))
	devices, err := source.Query(context.Background())

	require.NoError(t, err)
	require.Len(t, devices, 3)
	assert.Equal(t, values.APIDirectX, devices[0].API())
	assert.Equal(t, "process:"+script, source.Name())
}

func TestProcessSource_ResolvesLogicalName(t *testing.T) {
	script := writeScript(t, "cat <<'DOC'\nDevices:\n- API: Metal\n  Description: Apple M1\nDOC\n")

	source := NewProcessSource("api-query", mapFinder{"api-query": script})
	devices, err := source.Query(context.Background())

	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "Apple M1", devices[0].Description())
}

func TestProcessSource_PassesArgs(t *testing.T) {
	script := writeScript(t, `printf 'Devices:\n- API: Vulkan\n  Description: %s\n' "$1"`+"\n")

	source := NewProcessSource(script, nil, WithArgs("lavapipe"))
	devices, err := source.Query(context.Background())

	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "lavapipe", devices[0].Description())
}

func TestProcessSource_Errors(t *testing.T) {
	t.Run("tool not found", func(t *testing.T) {
		_, err := NewProcessSource("api-query", mapFinder{}).Query(context.Background())

		var queryErr *apperrors.CapabilityQueryError
		require.ErrorAs(t, err, &queryErr)
		var notFound *entities.ToolNotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		script := writeScript(t, "echo 'api-query: error: no adapters' >&2\nexit 3\n")

		_, err := NewProcessSource(script, nil).Query(context.Background())

		var queryErr *apperrors.CapabilityQueryError
		require.ErrorAs(t, err, &queryErr)
		assert.Contains(t, err.Error(), "exit code 3")
		assert.Contains(t, err.Error(), "no adapters")
	})

	t.Run("malformed output", func(t *testing.T) {
		script := writeScript(t, "echo 'hello world'\n")

		_, err := NewProcessSource(script, nil).Query(context.Background())

		var queryErr *apperrors.CapabilityQueryError
		require.ErrorAs(t, err, &queryErr)
		assert.ErrorIs(t, err, ErrMalformedDocument)
	})

	t.Run("timeout", func(t *testing.T) {
		script := writeScript(t, "exec sleep 10\n")

		_, err := NewProcessSource(script, nil, WithTimeout(100*time.Millisecond)).Query(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestProcessSource_StderrIsNotFatal(t *testing.T) {
	script := writeScript(t, "echo 'api-query: error: Vulkan unavailable' >&2\nprintf 'Devices:\\n- API: DirectX\\n  Description: WARP\\n'\n")

	devices, err := NewProcessSource(script, nil).Query(context.Background())

	require.NoError(t, err)
	assert.Len(t, devices, 1)
}

func TestFileSource_Query(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.yaml")
	require.NoError(t, os.WriteFile(path, []byte(queryOutput), 0o600))

	source := NewFileSource(path)
	devices, err := source.Query(context.Background())

	require.NoError(t, err)
	assert.Len(t, devices, 3)
	assert.Equal(t, "file:"+path, source.Name())
}

func TestFileSource_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileSource(filepath.Join(t.TempDir(), "none.yaml")).Query(context.Background())

		var queryErr *apperrors.CapabilityQueryError
		require.ErrorAs(t, err, &queryErr)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewFileSource("devices.yaml").Query(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestStaticSource(t *testing.T) {
	devices := []capabilities.DeviceDescriptor{
		capabilities.NewDeviceDescriptor(values.APIVulkan, "NVIDIA", nil),
	}
	source := &StaticSource{Devices: devices}

	got, err := source.Query(context.Background())
	require.NoError(t, err)
	assert.Equal(t, devices, got)

	source.Err = errors.New("boom")
	_, err = source.Query(context.Background())
	assert.EqualError(t, err, "boom")
}
