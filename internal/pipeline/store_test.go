package pipeline

import (
	"testing"
	"time"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(t.TempDir())

	paths := HostPaths{AppDir: "/home/pi/rigup", RepoRoot: "/home/pi/rigup/sdk", HomeDir: "/home/pi"}
	run, err := store.Create(paths, 7)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if run.Status != StatusPending {
		t.Errorf("new run status = %s, want pending", run.Status)
	}
	if run.TotalSteps != 7 {
		t.Errorf("total_steps = %d, want 7", run.TotalSteps)
	}

	got, err := store.Get(run.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.HostPaths != paths {
		t.Errorf("host paths = %+v, want %+v", got.HostPaths, paths)
	}
}

func TestStore_UniqueIDsWithinSameSecond(t *testing.T) {
	store := NewStore(t.TempDir())
	fixed := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	a, err := store.Create(HostPaths{}, 1)
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := store.Create(HostPaths{}, 1)
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if a.ID == b.ID {
		t.Errorf("two runs in the same second share ID %q", a.ID)
	}
}

func TestStore_Latest(t *testing.T) {
	store := NewStore(t.TempDir())

	latest, err := store.Latest()
	if err != nil {
		t.Fatalf("latest on empty store: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil on empty store, got %+v", latest)
	}

	first, _ := store.Create(HostPaths{}, 1)
	first.Status = StatusSucceeded
	if err := store.Save(first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second, _ := store.Create(HostPaths{}, 1)

	latest, err = store.Latest()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("latest = %s, want %s", latest.ID, second.ID)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Get("20200101T000000Z"); err == nil {
		t.Error("expected error for missing run")
	}
}
