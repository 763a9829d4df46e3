// Package preflight validates host readiness before any mutating action,
// so a doomed run aborts early and cheaply instead of failing mid-mutation.
package preflight

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/lucasnoah/rigup/internal/config"
	"github.com/lucasnoah/rigup/internal/prompt"
)

// Blocker is a fatal, pre-mutation failure naming the check that failed.
type Blocker struct {
	Check  string
	Reason string
}

func (b *Blocker) Error() string {
	return fmt.Sprintf("preflight %s: %s", b.Check, b.Reason)
}

// CommandRunner abstracts running the interpreter probe for testability.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner implements CommandRunner by shelling out.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return strings.TrimSpace(string(out)), fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Checker runs the preflight checks in order: interpreter, disk space,
// network. The disk check is the only soft one; a shortfall asks the
// operator instead of aborting.
type Checker struct {
	Cmd       CommandRunner
	FreeBytes func(path string) (uint64, error)
	Dial      func(network, addr string, timeout time.Duration) (net.Conn, error)
	Confirm   prompt.Confirmer
	Log       zerolog.Logger
}

// New builds a Checker backed by the real host.
func New(confirm prompt.Confirmer, log zerolog.Logger) *Checker {
	return &Checker{
		Cmd:       ExecRunner{},
		FreeBytes: DiskFree,
		Dial:      net.DialTimeout,
		Confirm:   confirm,
		Log:       log,
	}
}

// Check validates the host. It returns a *Blocker on any unmet required
// condition, and nil when the pipeline may proceed. Nothing is mutated.
func (c *Checker) Check(ctx context.Context, cfg config.Provision) error {
	// Interpreter must be invocable.
	out, err := c.Cmd.Run(ctx, cfg.Interpreter, "--version")
	if err != nil {
		return &Blocker{
			Check:  "interpreter",
			Reason: fmt.Sprintf("%s is not invocable: %v", cfg.Interpreter, err),
		}
	}
	c.Log.Info().Msgf("interpreter ok: %s", out)

	// Disk space is the only overridable condition.
	required := uint64(cfg.Preflight.MinFreeGiB) * 1024 * 1024 * 1024
	free, err := c.FreeBytes(cfg.AppDir)
	if err != nil {
		// Target dir may not exist yet on a fresh host; fall back to the root filesystem.
		free, err = c.FreeBytes("/")
	}
	if err != nil {
		return &Blocker{Check: "disk", Reason: fmt.Sprintf("cannot stat filesystem: %v", err)}
	}
	if free < required {
		c.Log.Warn().Msgf("free disk space %s is below the %s threshold",
			humanize.IBytes(free), humanize.IBytes(required))
		ok, err := c.Confirm.Confirm(
			fmt.Sprintf("Only %s free (%s recommended). Continue anyway?",
				humanize.IBytes(free), humanize.IBytes(required)),
			false,
		)
		if err != nil {
			return &Blocker{Check: "disk", Reason: fmt.Sprintf("confirmation failed: %v", err)}
		}
		if !ok {
			return &Blocker{
				Check:  "disk",
				Reason: fmt.Sprintf("%s free, %s required; operator declined", humanize.IBytes(free), humanize.IBytes(required)),
			}
		}
		c.Log.Warn().Msg("continuing despite low disk space")
	} else {
		c.Log.Info().Msgf("disk ok: %s free", humanize.IBytes(free))
	}

	// One outbound probe confirms network reachability.
	timeout := 5 * time.Second
	if d, err := time.ParseDuration(cfg.Preflight.ProbeTimeout); err == nil {
		timeout = d
	}
	conn, err := c.Dial("tcp", cfg.Preflight.ProbeAddr, timeout)
	if err != nil {
		return &Blocker{
			Check:  "network",
			Reason: fmt.Sprintf("cannot reach %s: %v", cfg.Preflight.ProbeAddr, err),
		}
	}
	conn.Close()
	c.Log.Info().Msgf("network ok: reached %s", cfg.Preflight.ProbeAddr)

	return nil
}

// DiskFree returns the bytes available to an unprivileged user on the
// filesystem containing path.
func DiskFree(path string) (uint64, error) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return 0, err
	}
	return st.Bavail * uint64(st.Bsize), nil
}
