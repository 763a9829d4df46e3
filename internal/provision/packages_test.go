package provision

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExecApt_InstallsAllAtOnce(t *testing.T) {
	cmd := &mockCmd{}
	apt := &ExecApt{Cmd: cmd}

	pkgs := []string{"python3-venv", "python3-opencv", "lxterminal"}
	if err := apt.Install(context.Background(), pkgs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "sudo apt-get install -y python3-venv python3-opencv lxterminal"
	if len(cmd.calls) != 1 || cmd.calls[0] != want {
		t.Errorf("calls = %v, want [%q]", cmd.calls, want)
	}
}

func TestExecApt_EmptyListIsNoOp(t *testing.T) {
	cmd := &mockCmd{}
	apt := &ExecApt{Cmd: cmd}

	if err := apt.Install(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmd.calls) != 0 {
		t.Errorf("expected no calls, got %v", cmd.calls)
	}
}

func TestExecApt_FailurePropagates(t *testing.T) {
	cmd := &mockCmd{results: map[string]mockResult{"sudo": {Err: errors.New("dpkg lock held")}}}
	apt := &ExecApt{Cmd: cmd}

	if err := apt.Install(context.Background(), []string{"git"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestExecPip_Requirements(t *testing.T) {
	reqs := filepath.Join(t.TempDir(), "requirements.txt")
	if err := os.WriteFile(reqs, []byte("numpy\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := &mockCmd{}
	pip := &ExecPip{Pip: "/opt/venv/bin/pip", Cmd: cmd}

	if err := pip.InstallRequirements(context.Background(), reqs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "/opt/venv/bin/pip install -r " + reqs
	if len(cmd.calls) != 1 || cmd.calls[0] != want {
		t.Errorf("calls = %v, want [%q]", cmd.calls, want)
	}
}

func TestExecPip_MissingRequirementsFile(t *testing.T) {
	cmd := &mockCmd{}
	pip := &ExecPip{Pip: "/opt/venv/bin/pip", Cmd: cmd}

	err := pip.InstallRequirements(context.Background(), "/nonexistent/requirements.txt")
	if err == nil {
		t.Fatal("expected error for missing requirements file")
	}
	if len(cmd.calls) != 0 {
		t.Errorf("pip must not run without a requirements file, got %v", cmd.calls)
	}
}

func TestExecPip_Editable(t *testing.T) {
	cmd := &mockCmd{}
	pip := &ExecPip{Pip: "/opt/venv/bin/pip", Cmd: cmd}

	if err := pip.InstallEditable(context.Background(), "/home/pi/rigup"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "/opt/venv/bin/pip install -e /home/pi/rigup"
	if cmd.calls[0] != want {
		t.Errorf("call = %q, want %q", cmd.calls[0], want)
	}
}
