// Package storage resolves the directories floyd reads configuration from,
// with XDG support.
package storage

import (
	"os"
	"path/filepath"
	"sync"
)

// AppName names the per-user directories.
const AppName = "floyd"

// Dirs holds the per-user directories.
type Dirs struct {
	Config string // User configuration (config.yaml)
	State  string // Runtime state (logs)
}

// ProjectDirs holds the directories of a project checkout.
type ProjectDirs struct {
	Root   string // .floyd/
	Config string // .floyd/config.yaml (committed)
	Local  string // .floyd/local/ (gitignored)
}

var (
	globalDirs     *Dirs
	globalDirsOnce sync.Once
)

// ResolveDirs returns platform-appropriate directories.
// Results are cached after first call.
func ResolveDirs() *Dirs {
	globalDirsOnce.Do(func() {
		globalDirs = &Dirs{
			Config: resolveDir("XDG_CONFIG_HOME", platformConfigDefault()),
			State:  resolveDir("XDG_STATE_HOME", platformStateDefault()),
		}
	})
	return globalDirs
}

func resolveDir(envVar, fallback string) string {
	if dir := os.Getenv(envVar); dir != "" {
		return filepath.Join(dir, AppName)
	}
	return fallback
}

// ResolveProjectDirs returns project-local directories for the given project root.
func ResolveProjectDirs(projectRoot string) *ProjectDirs {
	root := filepath.Join(projectRoot, "."+AppName)
	return &ProjectDirs{
		Root:   root,
		Config: filepath.Join(root, "config.yaml"),
		Local:  filepath.Join(root, "local"),
	}
}

// LocalConfig returns the path of the gitignored project config file.
func (p *ProjectDirs) LocalConfig() string {
	return filepath.Join(p.Local, "config.yaml")
}

// EnsureDir creates a directory with the specified permissions if it doesn't exist.
// A zero perm means 0700.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = 0700
	}
	return os.MkdirAll(path, perm)
}

// EnsureSensitiveDir creates a directory with restricted permissions (0700).
func EnsureSensitiveDir(path string) error {
	return EnsureDir(path, 0700)
}

// ConfigDir returns the config subdirectory path.
func (d *Dirs) ConfigDir(subpath ...string) string {
	return filepath.Join(append([]string{d.Config}, subpath...)...)
}

// StateDir returns the state subdirectory path.
func (d *Dirs) StateDir(subpath ...string) string {
	return filepath.Join(append([]string{d.State}, subpath...)...)
}

// LogDir returns the log directory.
func (d *Dirs) LogDir() string {
	return d.StateDir("logs")
}
