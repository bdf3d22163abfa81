package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGlobalPath(t *testing.T) {
	tests := []struct {
		name        string
		xdgConfig   string
		wantContain string
	}{
		{
			name:        "with XDG_CONFIG_HOME set",
			xdgConfig:   "/custom/config",
			wantContain: "/custom/config/skyvault/skyvault.yml",
		},
		{
			name:        "without XDG_CONFIG_HOME",
			xdgConfig:   "",
			wantContain: ".config/skyvault/skyvault.yml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origXDG := os.Getenv("XDG_CONFIG_HOME")
			defer func() {
				if origXDG != "" {
					_ = os.Setenv("XDG_CONFIG_HOME", origXDG)
				} else {
					_ = os.Unsetenv("XDG_CONFIG_HOME")
				}
			}()

			if tt.xdgConfig != "" {
				_ = os.Setenv("XDG_CONFIG_HOME", tt.xdgConfig)
			} else {
				_ = os.Unsetenv("XDG_CONFIG_HOME")
			}

			got := GlobalPath()
			if tt.xdgConfig != "" {
				if got != tt.wantContain {
					t.Errorf("GlobalPath() = %v, want %v", got, tt.wantContain)
				}
			} else {
				if !filepath.IsAbs(got) {
					t.Errorf("GlobalPath() should return absolute path, got %v", got)
				}
				if filepath.Base(got) != "skyvault.yml" {
					t.Errorf("GlobalPath() should end with skyvault.yml, got %v", got)
				}
			}
		})
	}
}

func TestProjectPath(t *testing.T) {
	got := ProjectPath()
	want := "skyvault.yml"
	if got != want {
		t.Errorf("ProjectPath() = %v, want %v", got, want)
	}
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()

	origWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(origWd) }()

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp dir: %v", err)
	}

	origXDG := os.Getenv("XDG_CONFIG_HOME")
	defer func() {
		if origXDG != "" {
			_ = os.Setenv("XDG_CONFIG_HOME", origXDG)
		} else {
			_ = os.Unsetenv("XDG_CONFIG_HOME")
		}
	}()

	xdgDir := filepath.Join(tmpDir, "config")
	_ = os.Setenv("XDG_CONFIG_HOME", xdgDir)

	t.Run("no config exists", func(t *testing.T) {
		if Exists() {
			t.Error("Exists() = true, want false when no config files present")
		}
	})

	t.Run("project config exists", func(t *testing.T) {
		if err := os.WriteFile(ProjectPath(), []byte("backend_url: http://localhost:9000\n"), 0644); err != nil {
			t.Fatalf("writing project config: %v", err)
		}
		defer func() { _ = os.Remove(ProjectPath()) }()

		if !Exists() {
			t.Error("Exists() = false, want true with project config present")
		}
	})

	t.Run("global config exists", func(t *testing.T) {
		globalPath := GlobalPath()
		if err := os.MkdirAll(filepath.Dir(globalPath), 0755); err != nil {
			t.Fatalf("creating global config dir: %v", err)
		}
		if err := os.WriteFile(globalPath, []byte("backend_url: http://localhost:9000\n"), 0644); err != nil {
			t.Fatalf("writing global config: %v", err)
		}
		defer func() { _ = os.Remove(globalPath) }()

		if !Exists() {
			t.Error("Exists() = false, want true with global config present")
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	origWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp dir: %v", err)
	}

	origXDG := os.Getenv("XDG_CONFIG_HOME")
	defer func() {
		if origXDG != "" {
			_ = os.Setenv("XDG_CONFIG_HOME", origXDG)
		} else {
			_ = os.Unsetenv("XDG_CONFIG_HOME")
		}
	}()
	_ = os.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BackendURL != "" {
		t.Errorf("default BackendURL = %q, want empty", cfg.BackendURL)
	}
	if cfg.DataDir != ".skyvault" {
		t.Errorf("default DataDir = %q, want .skyvault", cfg.DataDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("default LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.RequestTimeout != 15 {
		t.Errorf("default RequestTimeout = %d, want 15", cfg.RequestTimeout)
	}
	if cfg.NamingPrefix != "skyv" {
		t.Errorf("default NamingPrefix = %q, want skyv", cfg.NamingPrefix)
	}
}

func TestLoadProjectOverridesGlobal(t *testing.T) {
	tmpDir := t.TempDir()

	origWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp dir: %v", err)
	}

	origXDG := os.Getenv("XDG_CONFIG_HOME")
	defer func() {
		if origXDG != "" {
			_ = os.Setenv("XDG_CONFIG_HOME", origXDG)
		} else {
			_ = os.Unsetenv("XDG_CONFIG_HOME")
		}
	}()
	_ = os.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))

	globalPath := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(globalPath), 0755); err != nil {
		t.Fatalf("creating global config dir: %v", err)
	}
	global := "backend_url: http://global:9000\nnaming_prefix: glob\n"
	if err := os.WriteFile(globalPath, []byte(global), 0644); err != nil {
		t.Fatalf("writing global config: %v", err)
	}

	project := "backend_url: http://project:9000\n"
	if err := os.WriteFile(ProjectPath(), []byte(project), 0644); err != nil {
		t.Fatalf("writing project config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BackendURL != "http://project:9000" {
		t.Errorf("BackendURL = %q, want project value", cfg.BackendURL)
	}
	// Keys absent from the project config keep their global value.
	if cfg.NamingPrefix != "glob" {
		t.Errorf("NamingPrefix = %q, want glob from global config", cfg.NamingPrefix)
	}
}

func TestWriteProjectRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	origWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp dir: %v", err)
	}

	want := &Config{
		BackendURL:     "http://localhost:9000",
		DataDir:        ".skyvault",
		LogLevel:       "debug",
		RequestTimeout: 30,
		NamingPrefix:   "acme",
	}
	if err := WriteProject(want); err != nil {
		t.Fatalf("WriteProject() error = %v", err)
	}

	data, err := os.ReadFile(ProjectPath())
	if err != nil {
		t.Fatalf("reading written config: %v", err)
	}
	for _, line := range []string{
		"backend_url: http://localhost:9000",
		"log_level: debug",
		"request_timeout_seconds: 30",
		"naming_prefix: acme",
	} {
		if !strings.Contains(string(data), line) {
			t.Errorf("written config missing %q:\n%s", line, data)
		}
	}
}
