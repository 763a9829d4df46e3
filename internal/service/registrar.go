package service

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
)

// Systemd is the narrow surface of the OS service manager the registrar
// consumes. Concrete implementations shell out; tests inject fakes.
type Systemd interface {
	WriteUnit(ctx context.Context, path string, content []byte) error
	DaemonReload(ctx context.Context) error
	Enable(ctx context.Context, name string) error
	Start(ctx context.Context, name string) error
}

// ExecSystemd implements Systemd with systemctl under sudo. Writing into
// /etc/systemd/system requires elevated privilege, hence sudo tee.
type ExecSystemd struct{}

func (ExecSystemd) WriteUnit(ctx context.Context, path string, content []byte) error {
	cmd := exec.CommandContext(ctx, "sudo", "tee", path)
	cmd.Stdin = bytes.NewReader(content)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("write unit %s: %s: %w", path, strings.TrimSpace(string(out)), err)
	}
	return nil
}

func (ExecSystemd) DaemonReload(ctx context.Context) error {
	return runSystemctl(ctx, "daemon-reload")
}

func (ExecSystemd) Enable(ctx context.Context, name string) error {
	return runSystemctl(ctx, "enable", name)
}

func (ExecSystemd) Start(ctx context.Context, name string) error {
	return runSystemctl(ctx, "start", name)
}

func runSystemctl(ctx context.Context, args ...string) error {
	out, err := exec.CommandContext(ctx, "sudo", append([]string{"systemctl"}, args...)...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("systemctl %s: %s: %w", strings.Join(args, " "), strings.TrimSpace(string(out)), err)
	}
	return nil
}

// Registrar installs a service definition and enables it for current and
// future boots.
type Registrar struct {
	sd  Systemd
	log zerolog.Logger

	startAttempts uint
	startDelay    time.Duration
}

// NewRegistrar creates a Registrar.
func NewRegistrar(sd Systemd, log zerolog.Logger) *Registrar {
	return &Registrar{sd: sd, log: log, startAttempts: 2, startDelay: 2 * time.Second}
}

// Register renders and installs the unit, reloads systemd, enables the unit
// at the graphical target, and starts it. Failure at write/reload/enable is
// fatal. Failure to start immediately is retried once, then downgraded to a
// warning: the unit is already enabled for next boot, so the appliance still
// self-starts.
func (r *Registrar) Register(ctx context.Context, def Definition) error {
	unit, err := def.Render()
	if err != nil {
		return err
	}

	if err := r.sd.WriteUnit(ctx, def.UnitPath(), unit); err != nil {
		return err
	}
	r.log.Info().Msgf("wrote %s", def.UnitPath())

	if err := r.sd.DaemonReload(ctx); err != nil {
		return err
	}
	if err := r.sd.Enable(ctx, def.Name); err != nil {
		return err
	}
	r.log.Info().Msgf("service %s enabled for automatic start", def.Name)

	err = retry.Do(
		func() error { return r.sd.Start(ctx, def.Name) },
		retry.Attempts(r.startAttempts),
		retry.Delay(r.startDelay),
		retry.DelayType(retry.FixedDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		r.log.Warn().Err(err).Msgf("service %s did not start immediately; it will start on next boot", def.Name)
		return nil
	}
	r.log.Info().Msgf("service %s started", def.Name)
	return nil
}
