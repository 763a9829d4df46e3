package provision

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/lucasnoah/rigup/internal/prompt"
)

// Environment is the isolated execution environment (a Python virtualenv).
// If it already exists it is reused, never silently destroyed; recreation
// requires an explicit confirmation.
type Environment struct {
	Root        string
	Interpreter string

	cmd     CommandRunner
	confirm prompt.Confirmer
	log     zerolog.Logger
}

// NewEnvironment creates an Environment manager.
func NewEnvironment(root, interpreter string, cmd CommandRunner, confirm prompt.Confirmer, log zerolog.Logger) *Environment {
	return &Environment{
		Root:        root,
		Interpreter: interpreter,
		cmd:         cmd,
		confirm:     confirm,
		log:         log,
	}
}

// Exists reports whether the environment root is already present.
func (e *Environment) Exists() bool {
	_, err := os.Stat(e.Root)
	return err == nil
}

// Python returns the path of the environment's interpreter.
func (e *Environment) Python() string {
	return e.Root + "/bin/python"
}

// Pip returns the path of the environment's pip.
func (e *Environment) Pip() string {
	return e.Root + "/bin/pip"
}

// Ensure makes the environment exist. A fresh host gets a new environment
// with system-wide package visibility, so OS-installed runtime packages are
// importable alongside the venv's own. An existing environment is reused
// unless the operator confirms recreation (default answer: yes, so repeated
// re-provisioning stays low-friction).
func (e *Environment) Ensure(ctx context.Context) error {
	decision := prompt.Create
	if e.Exists() {
		e.log.Warn().Msgf("environment %s already exists", e.Root)
		recreate, err := e.confirm.Confirm(
			fmt.Sprintf("Environment %s exists. Recreate it?", e.Root), true)
		if err != nil {
			return fmt.Errorf("confirm recreate: %w", err)
		}
		decision = prompt.Decide(true, recreate)
	}

	switch decision {
	case prompt.Reuse:
		e.log.Warn().Msg("reusing existing environment")
		return nil
	case prompt.Recreate:
		e.log.Info().Msgf("removing environment %s", e.Root)
		if err := os.RemoveAll(e.Root); err != nil {
			return fmt.Errorf("remove environment: %w", err)
		}
	}

	e.log.Info().Msgf("creating environment %s", e.Root)
	if _, err := e.cmd.Run(ctx, "", e.Interpreter, "-m", "venv", "--system-site-packages", e.Root); err != nil {
		return fmt.Errorf("create environment: %w", err)
	}
	return nil
}
