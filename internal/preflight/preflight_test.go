package preflight

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lucasnoah/rigup/internal/config"
)

const gib = 1024 * 1024 * 1024

// fakeCmd returns a canned interpreter probe result.
type fakeCmd struct {
	out string
	err error
}

func (f *fakeCmd) Run(ctx context.Context, name string, args ...string) (string, error) {
	return f.out, f.err
}

// fakeConfirmer records the prompt and returns a canned answer.
type fakeConfirmer struct {
	asked  bool
	answer bool
	err    error
}

func (f *fakeConfirmer) Confirm(title string, def bool) (bool, error) {
	f.asked = true
	return f.answer, f.err
}

// fakeConn satisfies net.Conn just enough to be closed.
type fakeConn struct{ net.Conn }

func (fakeConn) Close() error { return nil }

func testConfig() config.Provision {
	var cfg config.Config
	cfg.Provision.AppDir = "/tmp"
	cfg.Provision.Interpreter = "python3"
	cfg.Provision.Preflight.MinFreeGiB = 10
	cfg.Provision.Preflight.ProbeAddr = "example.com:443"
	cfg.Provision.Preflight.ProbeTimeout = "1s"
	return cfg.Provision
}

func testChecker(cmd CommandRunner, free uint64, dialErr error, confirm *fakeConfirmer) *Checker {
	return &Checker{
		Cmd:       cmd,
		FreeBytes: func(string) (uint64, error) { return free, nil },
		Dial: func(network, addr string, timeout time.Duration) (net.Conn, error) {
			if dialErr != nil {
				return nil, dialErr
			}
			return fakeConn{}, nil
		},
		Confirm: confirm,
		Log:     zerolog.Nop(),
	}
}

func TestCheck_AllPass(t *testing.T) {
	confirm := &fakeConfirmer{}
	c := testChecker(&fakeCmd{out: "Python 3.11.2"}, 20*gib, nil, confirm)

	if err := c.Check(context.Background(), testConfig()); err != nil {
		t.Fatalf("unexpected blocker: %v", err)
	}
	if confirm.asked {
		t.Error("no prompt expected when disk space is sufficient")
	}
}

func TestCheck_InterpreterMissingIsFatal(t *testing.T) {
	c := testChecker(&fakeCmd{err: errors.New("not found")}, 20*gib, nil, &fakeConfirmer{})

	err := c.Check(context.Background(), testConfig())
	var b *Blocker
	if !errors.As(err, &b) {
		t.Fatalf("expected *Blocker, got %v", err)
	}
	if b.Check != "interpreter" {
		t.Errorf("blocker names %q, want interpreter", b.Check)
	}
}

func TestCheck_LowDiskOperatorDeclines(t *testing.T) {
	confirm := &fakeConfirmer{answer: false}
	c := testChecker(&fakeCmd{out: "Python 3.11.2"}, 2*gib, nil, confirm)

	err := c.Check(context.Background(), testConfig())
	var b *Blocker
	if !errors.As(err, &b) {
		t.Fatalf("expected *Blocker, got %v", err)
	}
	if b.Check != "disk" {
		t.Errorf("blocker names %q, want disk", b.Check)
	}
	if !confirm.asked {
		t.Error("low disk must prompt the operator")
	}
}

func TestCheck_LowDiskOperatorOverrides(t *testing.T) {
	confirm := &fakeConfirmer{answer: true}
	c := testChecker(&fakeCmd{out: "Python 3.11.2"}, 2*gib, nil, confirm)

	if err := c.Check(context.Background(), testConfig()); err != nil {
		t.Fatalf("operator override must allow the run: %v", err)
	}
}

func TestCheck_NetworkUnreachableIsFatal(t *testing.T) {
	c := testChecker(&fakeCmd{out: "Python 3.11.2"}, 20*gib, errors.New("timeout"), &fakeConfirmer{})

	err := c.Check(context.Background(), testConfig())
	var b *Blocker
	if !errors.As(err, &b) {
		t.Fatalf("expected *Blocker, got %v", err)
	}
	if b.Check != "network" {
		t.Errorf("blocker names %q, want network", b.Check)
	}
}

func TestCheck_Order(t *testing.T) {
	// Interpreter failure must surface before the network probe runs.
	dialed := false
	c := &Checker{
		Cmd:       &fakeCmd{err: errors.New("missing")},
		FreeBytes: func(string) (uint64, error) { return 20 * gib, nil },
		Dial: func(network, addr string, timeout time.Duration) (net.Conn, error) {
			dialed = true
			return fakeConn{}, nil
		},
		Confirm: &fakeConfirmer{},
		Log:     zerolog.Nop(),
	}

	if err := c.Check(context.Background(), testConfig()); err == nil {
		t.Fatal("expected blocker")
	}
	if dialed {
		t.Error("network probe must not run after an earlier blocker")
	}
}
