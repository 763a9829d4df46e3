package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a provisioning configuration from the given YAML
// file path. After parsing, it fills in defaults for anything unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault searches for a config in standard locations and loads the
// first one found. Search order: ./rigup.yaml, ~/.rigup/config.yaml.
// If none exists, the built-in defaults are returned so a bare device can
// still be provisioned without any config file.
func LoadDefault() (*Config, error) {
	candidates := []string{"rigup.yaml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".rigup", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	var cfg Config
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills every unset field so the rest of the orchestrator
// never has to guard against empty config values.
func applyDefaults(cfg *Config) {
	p := &cfg.Provision

	if p.AppDir == "" {
		p.AppDir = "~/rigup"
	}
	if p.EnvDir == "" {
		p.EnvDir = filepath.Join(p.AppDir, ".venv")
	}
	if p.Interpreter == "" {
		p.Interpreter = "python3"
	}

	if p.Preflight.MinFreeGiB == 0 {
		p.Preflight.MinFreeGiB = 10
	}
	if p.Preflight.ProbeAddr == "" {
		p.Preflight.ProbeAddr = "deb.debian.org:443"
	}
	if p.Preflight.ProbeTimeout == "" {
		p.Preflight.ProbeTimeout = "5s"
	}

	if len(p.Packages.Apt) == 0 {
		p.Packages.Apt = []string{
			"python3-venv",
			"python3-pip",
			"python3-opencv",
			"libatlas-base-dev",
			"libcamera-apps",
			"lxterminal",
			"git",
		}
	}
	if p.Packages.Requirements == "" {
		p.Packages.Requirements = filepath.Join(p.AppDir, "requirements.txt")
	}

	if p.SDK.URL == "" {
		p.SDK.URL = "https://github.com/hailo-ai/hailo-rpi5-examples.git"
	}
	if p.SDK.Dir == "" {
		p.SDK.Dir = filepath.Join(p.AppDir, "sdk")
	}
	if p.SDK.InstallScript == "" {
		p.SDK.InstallScript = "./install.sh"
	}
	if p.SDK.TargetPlatform == "" {
		p.SDK.TargetPlatform = "rpi5"
	}

	if p.Service.Name == "" {
		p.Service.Name = "rigup"
	}
	if p.Service.StartCommand == "" {
		p.Service.StartCommand = filepath.Join(p.EnvDir, "bin", "python") + " main.py"
	}
	if p.Service.RestartSec == 0 {
		p.Service.RestartSec = 3
	}

	if p.Artifacts.AcceleratorLibDir == "" {
		p.Artifacts.AcceleratorLibDir = "/usr/lib/hailo"
	}
	if p.Artifacts.PluginDir == "" {
		p.Artifacts.PluginDir = "/usr/lib/gstreamer-1.0"
	}
	if p.Artifacts.SessionDelaySec == 0 {
		p.Artifacts.SessionDelaySec = 10
	}
	if p.Artifacts.Terminal == "" {
		p.Artifacts.Terminal = "lxterminal"
	}
}

// ExpandHome resolves a leading ~ against the given home directory. Paths in
// config files refer to the device user's home; the orchestrator resolves
// them once at startup.
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// ResolvePaths expands every path-valued field against home.
func ResolvePaths(cfg *Config, home string) {
	p := &cfg.Provision
	p.AppDir = ExpandHome(p.AppDir, home)
	p.EnvDir = ExpandHome(p.EnvDir, home)
	p.Packages.Requirements = ExpandHome(p.Packages.Requirements, home)
	p.SDK.Dir = ExpandHome(p.SDK.Dir, home)
}
