// Package locator finds external tools on the local filesystem.
package locator

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/reglet-dev/offloadcfg/internal/application/ports"
)

// Stage is one step of the lookup chain.
type Stage interface {
	// Find returns the path of name, or false to let the next stage try.
	Find(name string) (string, bool)
	// Name identifies the stage in debug logs.
	Name() string
}

// PathLocator implements ports.ToolLocator. Lookup order: explicit
// overrides, the configured tool directories, then PATH.
type PathLocator struct {
	overrides *OverrideStage
	logger    *slog.Logger
	stages    []Stage
}

// NewPathLocator creates a locator searching dirs before PATH.
func NewPathLocator(dirs []string, logger *slog.Logger) *PathLocator {
	if logger == nil {
		logger = slog.Default()
	}

	overrides := NewOverrideStage()
	return &PathLocator{
		overrides: overrides,
		logger:    logger,
		stages: []Stage{
			overrides,
			NewDirStage(dirs),
			PathStage{},
		},
	}
}

// Locate returns the path of the named tool.
func (l *PathLocator) Locate(logicalName string) (string, bool) {
	if logicalName == "" {
		return "", false
	}

	for _, stage := range l.stages {
		if path, ok := stage.Find(logicalName); ok {
			l.logger.Debug("tool located", "tool", logicalName, "path", path, "stage", stage.Name())
			return path, true
		}
		// An override that points nowhere hides the tool instead of
		// silently picking another binary.
		if stage == Stage(l.overrides) && l.overrides.Has(logicalName) {
			l.logger.Warn("tool override does not exist", "tool", logicalName, "path", l.overrides.Path(logicalName))
			return "", false
		}
	}

	l.logger.Debug("tool not found", "tool", logicalName)
	return "", false
}

// Exists reports whether path names an existing regular file.
func (l *PathLocator) Exists(path string) bool {
	return isFile(path)
}

// WithOverrides returns a locator that consults overrides before searching.
// The receiver is left untouched, so overrides never outlive one load.
func (l *PathLocator) WithOverrides(overrides map[string]string) ports.ToolLocator {
	stage := NewOverrideStage()
	for name, path := range l.overrides.Snapshot() {
		stage.Set(name, path)
	}
	for name, path := range overrides {
		stage.Set(name, path)
	}

	stages := make([]Stage, 0, len(l.stages))
	stages = append(stages, stage)
	stages = append(stages, l.stages[1:]...)

	return &PathLocator{
		overrides: stage,
		logger:    l.logger,
		stages:    stages,
	}
}

// OverrideStage resolves names registered from configuration.
type OverrideStage struct {
	paths map[string]string
	mu    sync.RWMutex
}

// NewOverrideStage creates an empty override stage.
func NewOverrideStage() *OverrideStage {
	return &OverrideStage{paths: make(map[string]string)}
}

// Set registers an override. Later calls replace earlier ones.
func (s *OverrideStage) Set(name, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths[name] = path
}

// Has reports whether name has an override.
func (s *OverrideStage) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.paths[name]
	return ok
}

// Snapshot returns a copy of the registered overrides.
func (s *OverrideStage) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.paths))
	for name, path := range s.paths {
		out[name] = path
	}
	return out
}

// Path returns the registered override for name.
func (s *OverrideStage) Path(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paths[name]
}

// Find implements Stage.
func (s *OverrideStage) Find(name string) (string, bool) {
	path := s.Path(name)
	if path == "" || !isFile(path) {
		return "", false
	}
	return absolute(path), true
}

// Name implements Stage.
func (s *OverrideStage) Name() string { return "override" }

// DirStage searches a fixed list of directories in order.
type DirStage struct {
	dirs []string
}

// NewDirStage creates a stage over dirs. Empty entries are ignored.
func NewDirStage(dirs []string) *DirStage {
	kept := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d != "" {
			kept = append(kept, d)
		}
	}
	return &DirStage{dirs: kept}
}

// Find implements Stage.
func (s *DirStage) Find(name string) (string, bool) {
	for _, dir := range s.dirs {
		for _, candidate := range candidates(filepath.Join(dir, name)) {
			if isExecutable(candidate) {
				return absolute(candidate), true
			}
		}
	}
	return "", false
}

// Name implements Stage.
func (s *DirStage) Name() string { return "tools_dirs" }

// PathStage searches the PATH environment variable.
type PathStage struct{}

// Find implements Stage.
func (PathStage) Find(name string) (string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return absolute(path), true
}

// Name implements Stage.
func (PathStage) Name() string { return "PATH" }

func candidates(base string) []string {
	if runtime.GOOS == "windows" && filepath.Ext(base) == "" {
		return []string{base + ".exe", base}
	}
	return []string{base}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
