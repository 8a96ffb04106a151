package devices

import (
	"context"
	"fmt"
	"os"

	apperrors "github.com/reglet-dev/offloadcfg/internal/application/errors"
	"github.com/reglet-dev/offloadcfg/internal/domain/capabilities"
)

// FileSource reads a device document captured earlier, for example with
// `api-query > devices.yaml` on the machine under test.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements ports.CapabilitySource.
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Query reads and decodes the document.
func (s *FileSource) Query(ctx context.Context) ([]capabilities.DeviceDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewCapabilityQueryError(s.Name(), err)
	}

	//nolint:gosec // G304: path is provided by the user on purpose
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, apperrors.NewCapabilityQueryError(s.Name(), fmt.Errorf("failed to read device document: %w", err))
	}

	devices, err := ParseDocument(data)
	if err != nil {
		return nil, apperrors.NewCapabilityQueryError(s.Name(), err)
	}
	return devices, nil
}

// StaticSource returns a fixed device list. It never fails unless Err is set.
type StaticSource struct {
	Err     error
	Devices []capabilities.DeviceDescriptor
}

// Name implements ports.CapabilitySource.
func (s *StaticSource) Name() string {
	return "static"
}

// Query returns a copy of the configured devices.
func (s *StaticSource) Query(context.Context) ([]capabilities.DeviceDescriptor, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]capabilities.DeviceDescriptor(nil), s.Devices...), nil
}
