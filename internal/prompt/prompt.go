// Package prompt separates confirmation policy from the terminal I/O that
// solicits it. The decision about an existing resource is a pure function of
// the operator's answer, so reuse/recreate behavior is testable without
// simulating a terminal.
package prompt

import (
	"github.com/charmbracelet/huh"
)

// Decision is the outcome of a reuse/recreate gate.
type Decision int

const (
	// Create means the resource does not exist and will be built fresh.
	Create Decision = iota
	// Reuse means the existing resource is kept untouched.
	Reuse
	// Recreate means the existing resource is destroyed and rebuilt.
	Recreate
)

func (d Decision) String() string {
	switch d {
	case Create:
		return "create"
	case Reuse:
		return "reuse"
	case Recreate:
		return "recreate"
	}
	return "unknown"
}

// Decide maps resource existence and the operator's answer to a Decision.
func Decide(exists, answeredRecreate bool) Decision {
	if !exists {
		return Create
	}
	if answeredRecreate {
		return Recreate
	}
	return Reuse
}

// Confirmer asks the operator a yes/no question. def is the answer taken
// when the operator just accepts the prompt.
type Confirmer interface {
	Confirm(title string, def bool) (bool, error)
}

// TTYConfirmer solicits the answer interactively. It blocks without timeout;
// provisioning runs are attended.
type TTYConfirmer struct{}

func (TTYConfirmer) Confirm(title string, def bool) (bool, error) {
	v := def
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&v).
		Run()
	if err != nil {
		return false, err
	}
	return v, nil
}

// AssumeDefault answers every prompt with its default without blocking.
// Used for --yes unattended runs.
type AssumeDefault struct{}

func (AssumeDefault) Confirm(title string, def bool) (bool, error) {
	return def, nil
}
