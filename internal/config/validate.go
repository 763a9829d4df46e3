package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a Config for structural and semantic errors.
// It returns a slice of all validation errors found (empty if valid).
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError
	p := cfg.Provision

	if p.AppDir == "" {
		errs = append(errs, ValidationError{Field: "provision.app_dir", Message: "is required"})
	}
	if p.EnvDir == "" {
		errs = append(errs, ValidationError{Field: "provision.env_dir", Message: "is required"})
	}
	if p.Interpreter == "" {
		errs = append(errs, ValidationError{Field: "provision.interpreter", Message: "is required"})
	}

	if p.Preflight.MinFreeGiB < 0 {
		errs = append(errs, ValidationError{
			Field:   "provision.preflight.min_free_gib",
			Message: "must not be negative",
		})
	}
	if p.Preflight.ProbeTimeout != "" {
		if _, err := time.ParseDuration(p.Preflight.ProbeTimeout); err != nil {
			errs = append(errs, ValidationError{
				Field:   "provision.preflight.probe_timeout",
				Message: fmt.Sprintf("invalid duration %q", p.Preflight.ProbeTimeout),
			})
		}
	}
	if p.Preflight.ProbeAddr != "" && !strings.Contains(p.Preflight.ProbeAddr, ":") {
		errs = append(errs, ValidationError{
			Field:   "provision.preflight.probe_addr",
			Message: "must be host:port",
		})
	}

	for i, pkg := range p.Packages.Apt {
		if strings.TrimSpace(pkg) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("provision.packages.apt[%d]", i),
				Message: "empty package name",
			})
		}
	}

	if p.SDK.URL == "" {
		errs = append(errs, ValidationError{Field: "provision.sdk.url", Message: "is required"})
	}
	if p.SDK.TargetPlatform == "" {
		errs = append(errs, ValidationError{Field: "provision.sdk.target_platform", Message: "is required"})
	}

	if p.Service.Name == "" {
		errs = append(errs, ValidationError{Field: "provision.service.name", Message: "is required"})
	}
	if strings.ContainsAny(p.Service.Name, " /") {
		errs = append(errs, ValidationError{
			Field:   "provision.service.name",
			Message: "must not contain spaces or slashes",
		})
	}
	if p.Service.RestartSec < 0 {
		errs = append(errs, ValidationError{
			Field:   "provision.service.restart_sec",
			Message: "must not be negative",
		})
	}

	return errs
}
