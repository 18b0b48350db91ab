package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spendlog/internal/core"
)

const (
	ledgerFile   = "ledger.json"
	settingsFile = "settings.json"
)

// FileStore persists the ledger snapshot and settings as two JSON files in a
// profile directory. Every mutation rewrites the snapshot wholesale through
// an atomic temp-file rename; there is no cross-process locking, so two
// processes on the same profile are last-write-wins.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create profile directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) ledgerPath() string   { return filepath.Join(s.dir, ledgerFile) }
func (s *FileStore) settingsPath() string { return filepath.Join(s.dir, settingsFile) }

// Load reads the persisted snapshot. A missing file or malformed JSON is
// treated as no data rather than an error: corruption must never block the
// caller, at the cost of silent data loss.
func (s *FileStore) Load(ctx context.Context) core.Snapshot {
	data, err := os.ReadFile(s.ledgerPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.WarnContext(ctx, "Failed to read ledger file, treating as empty",
				"path", s.ledgerPath(), "error", err)
		}
		return core.Snapshot{Version: core.SchemaVersion}
	}
	var snap core.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.WarnContext(ctx, "Ledger file is corrupt, treating as empty",
			"path", s.ledgerPath(), "error", err)
		return core.Snapshot{Version: core.SchemaVersion}
	}
	return snap
}

// Save replaces the persisted collection, stamping a fresh lastUpdated time
// and the current schema version.
func (s *FileStore) Save(ctx context.Context, records []core.Expense) error {
	if records == nil {
		records = []core.Expense{}
	}
	snap := core.Snapshot{
		Expenses:    records,
		LastUpdated: time.Now().UTC(),
		Version:     core.SchemaVersion,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.writeAtomic(s.ledgerPath(), data); err != nil {
		return fmt.Errorf("write ledger file: %w", err)
	}
	slog.DebugContext(ctx, "Ledger snapshot saved",
		"path", s.ledgerPath(), "records", len(records))
	return nil
}

func (s *FileStore) Add(ctx context.Context, e core.Expense) ([]core.Expense, error) {
	records := append(s.Load(ctx).Expenses, e)
	if err := s.Save(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// Update replaces the matching record's fields by id. An unknown id is a
// no-op, not an error.
func (s *FileStore) Update(ctx context.Context, id string, patch core.ExpensePatch) ([]core.Expense, error) {
	records := s.Load(ctx).Expenses
	for i, e := range records {
		if e.ID == id {
			records[i] = patch.ApplyTo(e)
		}
	}
	if err := s.Save(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes the matching record. Deleting an unknown id is a no-op.
func (s *FileStore) Delete(ctx context.Context, id string) ([]core.Expense, error) {
	records := s.Load(ctx).Expenses
	kept := records[:0]
	for _, e := range records {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if err := s.Save(ctx, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Clear removes the persisted snapshot entirely.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.ledgerPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove ledger file: %w", err)
	}
	return nil
}

// LoadSettings merges stored values over the defaults field by field.
func (s *FileStore) LoadSettings(ctx context.Context) core.Settings {
	defaults := core.DefaultSettings()
	data, err := os.ReadFile(s.settingsPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.WarnContext(ctx, "Failed to read settings file, using defaults",
				"path", s.settingsPath(), "error", err)
		}
		return defaults
	}
	var patch core.SettingsPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		slog.WarnContext(ctx, "Settings file is corrupt, using defaults",
			"path", s.settingsPath(), "error", err)
		return defaults
	}
	return defaults.Merge(patch)
}

// SaveSettings merges the patch over the current settings and persists the
// result; untouched fields keep their value.
func (s *FileStore) SaveSettings(ctx context.Context, patch core.SettingsPatch) error {
	merged := s.LoadSettings(ctx).Merge(patch)
	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.writeAtomic(s.settingsPath(), data); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// Available probes the directory with a throwaway write.
func (s *FileStore) Available(_ context.Context) bool {
	probe := filepath.Join(s.dir, ".probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return false
	}
	_ = os.Remove(probe)
	return true
}

// Size reports the on-disk size of the ledger snapshot in bytes.
func (s *FileStore) Size(_ context.Context) int64 {
	info, err := os.Stat(s.ledgerPath())
	if err != nil {
		return 0
	}
	return info.Size()
}

func (s *FileStore) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
