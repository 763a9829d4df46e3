// Package backup snapshots pre-existing installation state before the
// pipeline may destroy it. Backups are best-effort: a copy failure must
// never block installation, and snapshots are never auto-deleted.
package backup

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Snapshot records one backed-up path.
type Snapshot struct {
	SourcePath string    `json:"source_path"`
	DestPath   string    `json:"dest_path"`
	CreatedAt  time.Time `json:"created_at"`
}

// Manager creates timestamped snapshot directories sibling to the install
// root.
type Manager struct {
	// Root is the directory snapshots are created under.
	Root string
	Log  zerolog.Logger

	now func() time.Time
}

// NewManager creates a Manager writing snapshots under root.
func NewManager(root string, log zerolog.Logger) *Manager {
	return &Manager{Root: root, Log: log, now: time.Now}
}

// Snapshot copies each existing path into a fresh snapshot directory.
// Missing paths are skipped silently; copy failures are logged as warnings.
// Returns the snapshots taken, which is empty when nothing existed (NoOp).
func (m *Manager) Snapshot(paths ...string) []Snapshot {
	var snaps []Snapshot
	var dir string

	for _, src := range paths {
		info, err := os.Stat(src)
		if err != nil {
			continue // missing paths are a NoOp
		}

		if dir == "" {
			dir, err = m.createSnapshotDir()
			if err != nil {
				m.Log.Warn().Err(err).Msg("cannot create backup directory, skipping backup")
				return nil
			}
			m.Log.Info().Msgf("backing up existing state to %s", dir)
		}

		dest := filepath.Join(dir, filepath.Base(src))
		if info.IsDir() {
			err = copyTree(src, dest)
		} else {
			err = copyFile(src, dest, info.Mode())
		}
		if err != nil {
			m.Log.Warn().Err(err).Msgf("backup of %s failed", src)
			continue
		}

		snaps = append(snaps, Snapshot{
			SourcePath: src,
			DestPath:   dest,
			CreatedAt:  m.now().UTC(),
		})
	}
	return snaps
}

// createSnapshotDir makes a uniquely named backup_<timestamp> directory.
// Two runs within the same second get a monotonic counter suffix rather
// than colliding.
func (m *Manager) createSnapshotDir() (string, error) {
	if err := os.MkdirAll(m.Root, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", m.Root, err)
	}

	base := filepath.Join(m.Root, "backup_"+m.now().UTC().Format("20060102T150405Z"))
	dir := base
	for n := 2; ; n++ {
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
		dir = fmt.Sprintf("%s-%d", base, n)
	}
}

func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil // skip sockets, pipes, symlinks
		}
		return copyFile(path, target, info.Mode())
	})
}

func copyFile(src, dest string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
