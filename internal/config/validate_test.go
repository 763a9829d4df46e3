package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func hasError(errs []ValidationError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidate_Valid(t *testing.T) {
	if errs := Validate(validConfig()); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	cfg := validConfig()
	cfg.Provision.AppDir = ""
	cfg.Provision.SDK.URL = ""
	cfg.Provision.Service.Name = ""

	errs := Validate(cfg)
	for _, field := range []string{"provision.app_dir", "provision.sdk.url", "provision.service.name"} {
		if !hasError(errs, field) {
			t.Errorf("expected error for %s, got %v", field, errs)
		}
	}
}

func TestValidate_BadProbe(t *testing.T) {
	cfg := validConfig()
	cfg.Provision.Preflight.ProbeAddr = "no-port-here"
	cfg.Provision.Preflight.ProbeTimeout = "not-a-duration"

	errs := Validate(cfg)
	if !hasError(errs, "provision.preflight.probe_addr") {
		t.Errorf("expected probe_addr error, got %v", errs)
	}
	if !hasError(errs, "provision.preflight.probe_timeout") {
		t.Errorf("expected probe_timeout error, got %v", errs)
	}
}

func TestValidate_ServiceName(t *testing.T) {
	cfg := validConfig()
	cfg.Provision.Service.Name = "bad name/with slash"

	errs := Validate(cfg)
	if !hasError(errs, "provision.service.name") {
		t.Errorf("expected service name error, got %v", errs)
	}
}

func TestValidate_EmptyAptPackage(t *testing.T) {
	cfg := validConfig()
	cfg.Provision.Packages.Apt = []string{"git", "  "}

	errs := Validate(cfg)
	found := false
	for _, e := range errs {
		if strings.HasPrefix(e.Field, "provision.packages.apt[") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected apt package error, got %v", errs)
	}
}

func TestValidationError_Error(t *testing.T) {
	e := ValidationError{Field: "provision.app_dir", Message: "is required"}
	if e.Error() != "provision.app_dir: is required" {
		t.Errorf("Error() = %q", e.Error())
	}
}
