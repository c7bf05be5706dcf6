package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Snapshot errors.
var (
	ErrSnapshotNotFound  = errors.New("snapshot not found")
	ErrSnapshotExists    = errors.New("snapshot already exists")
	ErrSnapshotCorrupted = errors.New("snapshot integrity check failed")
	ErrInvalidSnapshotID = errors.New("invalid snapshot id")
)

// SnapshotInfo describes a saved copy of the catalog database.
type SnapshotInfo struct {
	CreatedAt     time.Time `json:"created_at"`
	ID            string    `json:"id"`
	Description   string    `json:"description"`
	FileSize      int64     `json:"file_size"`
	Components    int       `json:"components"`
	Runs          int       `json:"runs"`
	SchemaVersion int       `json:"schema_version"`
}

// SnapshotManager copies the SQLite catalog aside before a run so a bad
// import can be rolled back wholesale.
type SnapshotManager struct {
	db    *sql.DB
	path  string
	dir   string
	clock func() time.Time
}

// NewSnapshotManager creates a manager storing snapshots next to dbPath.
func NewSnapshotManager(db *sql.DB, dbPath string) (*SnapshotManager, error) {
	dir := filepath.Join(filepath.Dir(dbPath), "snapshots")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create snapshots directory: %w", err)
	}

	return &SnapshotManager{db: db, path: dbPath, dir: dir, clock: time.Now}, nil
}

// Create writes a consistent copy of the database. An empty id gets a
// timestamped one.
func (m *SnapshotManager) Create(ctx context.Context, id, description string) (*SnapshotInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	now := m.clock()
	if id == "" {
		id = "snapshot-" + now.Format("2006-01-02-150405")
	}
	if err := validateSnapshotID(id); err != nil {
		return nil, err
	}

	dbFile := m.dbFile(id)
	if _, err := os.Stat(dbFile); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotExists, id)
	}

	info := SnapshotInfo{ID: id, CreatedAt: now, Description: description}

	if err := m.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&info.SchemaVersion); err != nil {
		return nil, fmt.Errorf("failed to get schema version: %w", err)
	}
	// Missing tables on an unmigrated database count as empty.
	_ = m.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM components").Scan(&info.Components)
	_ = m.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ingest_runs").Scan(&info.Runs)

	if err := m.backup(ctx, dbFile); err != nil {
		return nil, fmt.Errorf("failed to backup database: %w", err)
	}

	stat, err := os.Stat(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to stat snapshot: %w", err)
	}
	info.FileSize = stat.Size()

	if err := writeJSONAtomic(m.metaFile(id), info); err != nil {
		if rmErr := os.Remove(dbFile); rmErr != nil {
			slog.Error("failed to remove snapshot after metadata failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save snapshot metadata: %w", err)
	}

	slog.Info("Created snapshot", "id", id, "components", info.Components)
	return &info, nil
}

// List returns all snapshots, newest first. Unreadable metadata is skipped.
func (m *SnapshotManager) List(_ context.Context) ([]SnapshotInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshots directory: %w", err)
	}

	snapshots := make([]SnapshotInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}
		info, err := readSnapshotInfo(filepath.Join(m.dir, entry.Name()))
		if err != nil {
			slog.Debug("skipping unreadable snapshot metadata", "file", entry.Name(), "error", err)
			continue
		}
		snapshots = append(snapshots, *info)
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
	})

	return snapshots, nil
}

// Restore replaces the live database with a snapshot. The manager's
// connection is closed; callers must reopen storage afterwards.
func (m *SnapshotManager) Restore(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSnapshotID(id); err != nil {
		return err
	}

	dbFile := m.dbFile(id)
	if _, err := os.Stat(dbFile); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}
		return fmt.Errorf("failed to access snapshot: %w", err)
	}

	if err := verifyIntegrity(ctx, dbFile); err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotCorrupted, err)
	}

	if err := m.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	// Stale WAL files would be replayed over the restored copy.
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(m.path + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s file: %w", suffix, err)
		}
	}

	if err := copyFileAtomic(dbFile, m.path); err != nil {
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}

	slog.Info("Restored snapshot", "id", id)
	return nil
}

// Delete removes a snapshot and its metadata.
func (m *SnapshotManager) Delete(_ context.Context, id string) error {
	if err := validateSnapshotID(id); err != nil {
		return err
	}

	if err := os.Remove(m.dbFile(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}
		return fmt.Errorf("failed to remove snapshot: %w", err)
	}
	if err := os.Remove(m.metaFile(id)); err != nil {
		slog.Debug("failed to remove snapshot metadata", "id", id, "error", err)
	}
	return nil
}

func (m *SnapshotManager) dbFile(id string) string {
	return filepath.Join(m.dir, id+".db")
}

func (m *SnapshotManager) metaFile(id string) string {
	return filepath.Join(m.dir, id+".meta.json")
}

func (m *SnapshotManager) backup(ctx context.Context, dest string) error {
	if _, err := m.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint WAL: %w", err)
	}

	if strings.ContainsAny(dest, `'";`) {
		return fmt.Errorf("invalid destination path %q", dest)
	}
	// #nosec G201 - dest is built from a validated id
	if _, err := m.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", dest)); err != nil {
		slog.Debug("VACUUM INTO failed, copying file", "error", err)
		return copyFileAtomic(m.path, dest)
	}
	return nil
}

func validateSnapshotID(id string) error {
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if strings.ContainsAny(id, `/\'";`) || strings.Contains(id, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidSnapshotID, id)
	}
	return nil
}

func verifyIntegrity(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return errors.New(result)
	}
	return nil
}

func readSnapshotInfo(path string) (*SnapshotInfo, error) {
	// #nosec G304 - path comes from the snapshots directory listing
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info SnapshotInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func copyFileAtomic(src, dst string) error {
	// #nosec G304 - src is a snapshot or database path owned by this process
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	tmp := dst + ".tmp"
	out, err := os.Create(tmp) // #nosec G304
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
