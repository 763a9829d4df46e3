package provision

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lucasnoah/rigup/internal/prompt"
)

// GitRunner provides git commands. Interface for testing.
type GitRunner interface {
	Run(dir string, args ...string) (string, error)
}

// ExecGit implements GitRunner using exec.Command.
type ExecGit struct{}

func (ExecGit) Run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return strings.TrimSpace(string(out)), fmt.Errorf("git %s: %s: %w",
			strings.Join(args, " "), strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// InstallFlags are passed to the SDK's nested installer. Its internals are
// opaque to the orchestrator.
type InstallFlags struct {
	TargetPlatform string
	SkipRuntime    bool
}

// Repo manages the external accelerator SDK repository: clone if absent,
// confirm-gated reclone if present, then run its own installer.
type Repo struct {
	URL string
	Dir string
	// InstallScript is resolved relative to Dir.
	InstallScript string

	git     GitRunner
	cmd     CommandRunner
	confirm prompt.Confirmer
	log     zerolog.Logger
}

// NewRepo creates a Repo manager.
func NewRepo(url, dir, installScript string, git GitRunner, cmd CommandRunner, confirm prompt.Confirmer, log zerolog.Logger) *Repo {
	return &Repo{
		URL:           url,
		Dir:           dir,
		InstallScript: installScript,
		git:           git,
		cmd:           cmd,
		confirm:       confirm,
		log:           log,
	}
}

// Exists reports whether the repo is already materialized locally.
func (r *Repo) Exists() bool {
	_, err := os.Stat(r.Dir)
	return err == nil
}

// Ensure materializes the repository, following the same reuse/recreate
// policy as the execution environment.
func (r *Repo) Ensure(ctx context.Context) error {
	decision := prompt.Create
	if r.Exists() {
		r.log.Warn().Msgf("repository %s already exists", r.Dir)
		reclone, err := r.confirm.Confirm(
			fmt.Sprintf("Repository %s exists. Re-clone it?", r.Dir), true)
		if err != nil {
			return fmt.Errorf("confirm re-clone: %w", err)
		}
		decision = prompt.Decide(true, reclone)
	}

	switch decision {
	case prompt.Reuse:
		r.log.Warn().Msg("reusing existing repository")
		return nil
	case prompt.Recreate:
		r.log.Info().Msgf("removing repository %s", r.Dir)
		if err := os.RemoveAll(r.Dir); err != nil {
			return fmt.Errorf("remove repository: %w", err)
		}
	}

	r.log.Info().Msgf("cloning %s into %s", r.URL, r.Dir)
	if _, err := r.git.Run("", "clone", r.URL, r.Dir); err != nil {
		return fmt.Errorf("clone repository: %w", err)
	}
	return nil
}

// Install runs the repository's nested installer with the given flags.
func (r *Repo) Install(ctx context.Context, flags InstallFlags) error {
	args := []string{"--target", flags.TargetPlatform}
	if flags.SkipRuntime {
		args = append(args, "--skip-runtime")
	}
	r.log.Info().Msgf("running SDK installer %s %s", r.InstallScript, strings.Join(args, " "))
	if _, err := r.cmd.Run(ctx, r.Dir, r.InstallScript, args...); err != nil {
		return fmt.Errorf("sdk installer: %w", err)
	}
	return nil
}
