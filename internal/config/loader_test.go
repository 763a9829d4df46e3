package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	yaml := `
provision:
  app_dir: /opt/rig
  interpreter: python3.11
  preflight:
    min_free_gib: 4
    probe_addr: "mirror.local:443"
  packages:
    apt: [git, lxterminal]
    editable_install: true
  sdk:
    url: https://example.com/sdk.git
    target_platform: rpi4
    skip_runtime: true
  service:
    name: rig
`
	path := filepath.Join(t.TempDir(), "rigup.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := cfg.Provision

	if p.AppDir != "/opt/rig" {
		t.Errorf("app_dir = %s", p.AppDir)
	}
	if p.Interpreter != "python3.11" {
		t.Errorf("interpreter = %s", p.Interpreter)
	}
	if p.Preflight.MinFreeGiB != 4 {
		t.Errorf("min_free_gib = %d", p.Preflight.MinFreeGiB)
	}
	if len(p.Packages.Apt) != 2 {
		t.Errorf("apt packages = %v", p.Packages.Apt)
	}
	if !p.SDK.SkipRuntime {
		t.Error("skip_runtime not parsed")
	}
	if p.Service.Name != "rig" {
		t.Errorf("service name = %s", p.Service.Name)
	}

	// Unset fields are defaulted relative to the configured ones.
	if p.EnvDir != "/opt/rig/.venv" {
		t.Errorf("env_dir default = %s", p.EnvDir)
	}
	if p.Packages.Requirements != "/opt/rig/requirements.txt" {
		t.Errorf("requirements default = %s", p.Packages.Requirements)
	}
	if p.Service.RestartSec != 3 {
		t.Errorf("restart_sec default = %d", p.Service.RestartSec)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/rigup.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaults(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)
	p := cfg.Provision

	if p.AppDir != "~/rigup" {
		t.Errorf("app_dir default = %s", p.AppDir)
	}
	if p.Preflight.MinFreeGiB != 10 {
		t.Errorf("min_free_gib default = %d", p.Preflight.MinFreeGiB)
	}
	if len(p.Packages.Apt) == 0 {
		t.Error("apt package list should have defaults")
	}
	if p.SDK.TargetPlatform != "rpi5" {
		t.Errorf("target_platform default = %s", p.SDK.TargetPlatform)
	}
	if p.Artifacts.SessionDelaySec != 10 {
		t.Errorf("session_delay_sec default = %d", p.Artifacts.SessionDelaySec)
	}
	if errs := Validate(&cfg); len(errs) != 0 {
		t.Errorf("defaults must validate cleanly, got %v", errs)
	}
}

func TestExpandHome(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"~/rigup", "/home/pi/rigup"},
		{"~", "/home/pi"},
		{"/opt/rig", "/opt/rig"},
		{"relative/path", "relative/path"},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.in, "/home/pi"); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolvePaths(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)
	ResolvePaths(&cfg, "/home/pi")

	p := cfg.Provision
	if p.AppDir != "/home/pi/rigup" {
		t.Errorf("app_dir = %s", p.AppDir)
	}
	if p.EnvDir != "/home/pi/rigup/.venv" {
		t.Errorf("env_dir = %s", p.EnvDir)
	}
	if p.SDK.Dir != "/home/pi/rigup/sdk" {
		t.Errorf("sdk dir = %s", p.SDK.Dir)
	}
}
