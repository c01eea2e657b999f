// Package paths resolves where ratrak keeps its files.
//
//	Config:  ~/.config/ratrak/config.yaml    (override: RATRAK_CONFIG_DIR)
//	State:   ~/.local/state/ratrak/          (override: RATRAK_STATE_DIR)
//	Runtime: /tmp/ratrak-*                   (override: RATRAK_RUNTIME_DIR)
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type dir struct {
	env  string
	home []string // path under $HOME when env is unset

	once   sync.Once
	cached string
}

func (d *dir) resolve() string {
	d.once.Do(func() {
		if v := os.Getenv(d.env); v != "" {
			d.cached = v
			return
		}
		if d.home == nil {
			d.cached = os.TempDir()
			return
		}
		home, err := os.UserHomeDir()
		if err != nil {
			d.cached = "."
			return
		}
		d.cached = filepath.Join(append([]string{home}, d.home...)...)
	})
	return d.cached
}

var (
	configDir  = &dir{env: "RATRAK_CONFIG_DIR", home: []string{".config", "ratrak"}}
	stateDir   = &dir{env: "RATRAK_STATE_DIR", home: []string{".local", "state", "ratrak"}}
	runtimeDir = &dir{env: "RATRAK_RUNTIME_DIR"}
)

// ConfigDir resolves the config directory.
func ConfigDir() string { return configDir.resolve() }

// StateDir resolves the state directory.
func StateDir() string { return stateDir.resolve() }

// RuntimeDir holds sockets and logs. Defaults to the system temp dir.
func RuntimeDir() string { return runtimeDir.resolve() }

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StatePath returns the full path to a state file (e.g. "quote_buffer.txt").
func StatePath(filename string) string {
	return filepath.Join(StateDir(), filename)
}

// SocketPath returns the control socket for a session name.
func SocketPath(session string) string {
	if session == "" {
		session = "default"
	}
	return filepath.Join(RuntimeDir(), fmt.Sprintf("ratrak-%s.sock", session))
}

// LogPath returns the per-process debug log path.
func LogPath(pid int) string {
	return filepath.Join(RuntimeDir(), fmt.Sprintf("ratrak-%d.log", pid))
}

// EnsureConfigDir creates the config directory if it doesn't exist and returns its path.
func EnsureConfigDir() (string, error) {
	return ensure(ConfigDir(), "config")
}

// EnsureStateDir creates the state directory if it doesn't exist and returns its path.
func EnsureStateDir() (string, error) {
	return ensure(StateDir(), "state")
}

func ensure(path, kind string) (string, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("create %s dir %s: %w", kind, path, err)
	}
	return path, nil
}

// ResetForTest clears cached values so tests can re-run resolution logic.
// Only use in tests.
func ResetForTest() {
	for _, d := range []*dir{configDir, stateDir, runtimeDir} {
		d.once = sync.Once{}
		d.cached = ""
	}
}
