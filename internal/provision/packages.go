package provision

import (
	"context"
	"fmt"
	"os"
)

// AptInstaller installs OS-level packages. Installs are assumed idempotent
// and re-runnable; a single failed package aborts the whole invocation.
type AptInstaller interface {
	Install(ctx context.Context, pkgs []string) error
}

// ExecApt implements AptInstaller with apt-get under sudo.
type ExecApt struct {
	Cmd CommandRunner
}

func (a *ExecApt) Install(ctx context.Context, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}
	args := append([]string{"apt-get", "install", "-y"}, pkgs...)
	if _, err := a.Cmd.Run(ctx, "", "sudo", args...); err != nil {
		return fmt.Errorf("apt install: %w", err)
	}
	return nil
}

// PipInstaller installs language-level dependencies into the environment.
type PipInstaller interface {
	InstallRequirements(ctx context.Context, path string) error
	InstallEditable(ctx context.Context, dir string) error
}

// ExecPip implements PipInstaller with the environment's own pip, so
// installs land inside the venv rather than the OS site-packages.
type ExecPip struct {
	Pip string // path to <env>/bin/pip
	Cmd CommandRunner
}

func (p *ExecPip) InstallRequirements(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("requirements file %s: %w", path, err)
	}
	if _, err := p.Cmd.Run(ctx, "", p.Pip, "install", "-r", path); err != nil {
		return fmt.Errorf("pip install -r: %w", err)
	}
	return nil
}

func (p *ExecPip) InstallEditable(ctx context.Context, dir string) error {
	if _, err := p.Cmd.Run(ctx, "", p.Pip, "install", "-e", dir); err != nil {
		return fmt.Errorf("pip install -e: %w", err)
	}
	return nil
}
