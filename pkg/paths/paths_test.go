package paths

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points HOME at a temp dir and clears every override.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	for _, env := range []string{"RATRAK_CONFIG_DIR", "RATRAK_STATE_DIR", "RATRAK_RUNTIME_DIR"} {
		t.Setenv(env, "")
	}
	t.Setenv("HOME", home)
	ResetForTest()
	return home
}

func TestDirs(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		resolve  func() string
		fallback func(home string) string
	}{
		{"config", "RATRAK_CONFIG_DIR", ConfigDir, func(h string) string { return filepath.Join(h, ".config", "ratrak") }},
		{"state", "RATRAK_STATE_DIR", StateDir, func(h string) string { return filepath.Join(h, ".local", "state", "ratrak") }},
		{"runtime", "RATRAK_RUNTIME_DIR", RuntimeDir, func(string) string { return os.TempDir() }},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/default", func(t *testing.T) {
			home := isolate(t)
			if got, want := tt.resolve(), tt.fallback(home); got != want {
				t.Fatalf("got %q, want %q", got, want)
			}
		})
		t.Run(tt.name+"/override", func(t *testing.T) {
			home := isolate(t)
			override := filepath.Join(home, "elsewhere")
			t.Setenv(tt.env, override)
			ResetForTest()
			if got := tt.resolve(); got != override {
				t.Fatalf("got %q, want %q", got, override)
			}
		})
	}
}

func TestResolutionIsCached(t *testing.T) {
	home := isolate(t)
	first := ConfigDir()
	t.Setenv("RATRAK_CONFIG_DIR", filepath.Join(home, "later"))
	if got := ConfigDir(); got != first {
		t.Fatalf("ConfigDir changed without reset: %q -> %q", first, got)
	}
}

func TestFilePaths(t *testing.T) {
	home := isolate(t)
	t.Setenv("RATRAK_RUNTIME_DIR", filepath.Join(home, "run"))
	ResetForTest()

	run := filepath.Join(home, "run")
	tests := []struct {
		got, want string
	}{
		{ConfigPath(), filepath.Join(home, ".config", "ratrak", "config.yaml")},
		{StatePath("quote_buffer.txt"), filepath.Join(home, ".local", "state", "ratrak", "quote_buffer.txt")},
		{SocketPath("main"), filepath.Join(run, "ratrak-main.sock")},
		{SocketPath(""), filepath.Join(run, "ratrak-default.sock")},
		{LogPath(42), filepath.Join(run, "ratrak-42.log")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestEnsureCreatesDirs(t *testing.T) {
	isolate(t)
	for name, ensure := range map[string]func() (string, error){
		"config": EnsureConfigDir,
		"state":  EnsureStateDir,
	} {
		dir, err := ensure()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s: %q was not created", name, dir)
		}
	}
}
