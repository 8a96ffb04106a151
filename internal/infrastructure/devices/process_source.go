package devices

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/reglet-dev/offloadcfg/internal/application/errors"
	"github.com/reglet-dev/offloadcfg/internal/domain/capabilities"
	"github.com/reglet-dev/offloadcfg/internal/domain/entities"
)

// maxOutputSize caps the captured stdout and stderr of the query tool.
const maxOutputSize = 10 * 1024 * 1024

// ToolFinder resolves the query tool's logical name to a path.
type ToolFinder interface {
	Locate(logicalName string) (string, bool)
}

// ProcessSource runs the device query tool and decodes its stdout.
type ProcessSource struct {
	finder  ToolFinder
	logger  *slog.Logger
	tool    string
	args    []string
	timeout time.Duration
}

// ProcessOption configures a ProcessSource.
type ProcessOption func(*ProcessSource)

// WithArgs passes extra arguments to the query tool.
func WithArgs(args ...string) ProcessOption {
	return func(s *ProcessSource) {
		s.args = append([]string(nil), args...)
	}
}

// WithTimeout bounds the query. Zero means no limit beyond the caller's context.
func WithTimeout(d time.Duration) ProcessOption {
	return func(s *ProcessSource) {
		s.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ProcessOption {
	return func(s *ProcessSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewProcessSource creates a source for tool, which is either a path or a
// logical name resolved through finder.
func NewProcessSource(tool string, finder ToolFinder, opts ...ProcessOption) *ProcessSource {
	s := &ProcessSource{
		tool:   tool,
		finder: finder,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements ports.CapabilitySource.
func (s *ProcessSource) Name() string {
	return "process:" + s.tool
}

// Query runs the tool once. Any failure, including a non-zero exit or an
// unparseable document, is a CapabilityQueryError.
func (s *ProcessSource) Query(ctx context.Context) ([]capabilities.DeviceDescriptor, error) {
	path, err := s.resolve()
	if err != nil {
		return nil, apperrors.NewCapabilityQueryError(s.Name(), err)
	}

	execCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	//nolint:gosec // G204: the query tool comes from the harness configuration; no shell interpretation
	cmd := exec.CommandContext(execCtx, path, s.args...)
	stdout := NewBoundedBuffer(maxOutputSize)
	stderr := NewBoundedBuffer(maxOutputSize)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	s.logger.DebugContext(ctx, "executed capability query",
		"command", path,
		"args", s.args,
		"duration", duration,
		"error", runErr)

	if runErr != nil {
		return nil, apperrors.NewCapabilityQueryError(s.Name(), s.runError(execCtx, runErr, stderr.String()))
	}
	if stdout.Truncated {
		return nil, apperrors.NewCapabilityQueryError(s.Name(),
			fmt.Errorf("output exceeds %d bytes", maxOutputSize))
	}

	// The query tool reports per-API initialization failures on stderr but
	// still lists the devices it could enumerate.
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		s.logger.WarnContext(ctx, "capability query reported errors", "stderr", msg)
	}

	devices, err := ParseDocument(stdout.Bytes())
	if err != nil {
		return nil, apperrors.NewCapabilityQueryError(s.Name(), err)
	}
	return devices, nil
}

func (s *ProcessSource) resolve() (string, error) {
	if filepath.IsAbs(s.tool) || strings.ContainsRune(s.tool, filepath.Separator) {
		return s.tool, nil
	}
	if s.finder != nil {
		if path, ok := s.finder.Locate(s.tool); ok {
			return path, nil
		}
	}
	return "", &entities.ToolNotFoundError{LogicalName: s.tool}
}

func (s *ProcessSource) runError(execCtx context.Context, err error, stderr string) error {
	if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("timed out after %s: %w", s.timeout, execCtx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return fmt.Errorf("exit code %d: %s", exitErr.ExitCode(), msg)
		}
		return fmt.Errorf("exit code %d", exitErr.ExitCode())
	}
	return err
}

// BoundedBuffer is an io.Writer that keeps at most limit bytes.
type BoundedBuffer struct {
	buffer    bytes.Buffer
	limit     int
	Truncated bool
}

// NewBoundedBuffer creates a buffer holding at most limit bytes.
func NewBoundedBuffer(limit int) *BoundedBuffer {
	return &BoundedBuffer{
		limit: limit,
	}
}

// Write implements io.Writer. Excess bytes are dropped and reported as written.
func (b *BoundedBuffer) Write(p []byte) (int, error) {
	remaining := b.limit - b.buffer.Len()
	if remaining <= 0 {
		b.Truncated = true
		return len(p), nil
	}
	if len(p) > remaining {
		b.Truncated = true
		if _, err := b.buffer.Write(p[:remaining]); err != nil {
			return 0, err
		}
		return len(p), nil
	}
	return b.buffer.Write(p)
}

// Bytes returns the buffered data.
func (b *BoundedBuffer) Bytes() []byte {
	return b.buffer.Bytes()
}

// String returns the buffer contents as a string.
func (b *BoundedBuffer) String() string {
	return b.buffer.String()
}
