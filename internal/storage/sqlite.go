package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the embedded-database implementation of Store. It keeps the
// snapshot semantics of the file store: every save replaces the whole
// collection inside one transaction, so a reader never observes a partial
// write.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) core.Snapshot {
	snap := core.Snapshot{Version: core.SchemaVersion}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, description, amount, category FROM expenses ORDER BY position`)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read expenses, treating as empty", "error", err)
		return snap
	}
	defer rows.Close()

	for rows.Next() {
		var e core.Expense
		var amount string
		if err := rows.Scan(&e.ID, &e.Date, &e.Description, &amount, &e.Category); err != nil {
			slog.WarnContext(ctx, "Skipping unreadable expense row", "error", err)
			continue
		}
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			slog.WarnContext(ctx, "Skipping expense with unreadable amount",
				"id", e.ID, "amount", amount)
			continue
		}
		snap.Expenses = append(snap.Expenses, e)
	}
	if err := rows.Err(); err != nil {
		slog.WarnContext(ctx, "Failed while reading expenses, treating as empty", "error", err)
		return core.Snapshot{Version: core.SchemaVersion}
	}

	var updated, version string
	err = s.db.QueryRowContext(ctx,
		`SELECT last_updated, version FROM ledger_meta WHERE id = 1`).Scan(&updated, &version)
	if err == nil {
		if t, perr := time.Parse(time.RFC3339Nano, updated); perr == nil {
			snap.LastUpdated = t
		}
		snap.Version = version
	}
	return snap
}

func (s *SQLiteStore) Save(ctx context.Context, records []core.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	for _, e := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (id, date, description, amount, category) VALUES (?, ?, ?, ?, ?)`,
			e.ID, e.Date, e.Description, e.Amount.String(), string(e.Category))
		if err != nil {
			return fmt.Errorf("insert expense %s: %w", e.ID, err)
		}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_meta (id, last_updated, version) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET last_updated = excluded.last_updated, version = excluded.version`,
		time.Now().UTC().Format(time.RFC3339Nano), core.SchemaVersion)
	if err != nil {
		return fmt.Errorf("stamp ledger meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	slog.DebugContext(ctx, "Ledger snapshot saved", "backend", "sqlite", "records", len(records))
	return nil
}

func (s *SQLiteStore) Add(ctx context.Context, e core.Expense) ([]core.Expense, error) {
	records := append(s.Load(ctx).Expenses, e)
	if err := s.Save(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id string, patch core.ExpensePatch) ([]core.Expense, error) {
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

func (s *SQLiteStore) Delete(ctx context.Context, id string) ([]core.Expense, error) {
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

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM ledger_meta`); err != nil {
		return fmt.Errorf("clear ledger meta: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadSettings(ctx context.Context) core.Settings {
	settings := core.DefaultSettings()

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read settings, using defaults", "error", err)
		return settings
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			continue
		}
		switch key {
		case "currency":
			settings.Currency = value
		case "date_format":
			settings.DateFormat = value
		case "theme":
			settings.Theme = value
		case "auto_save":
			if b, err := strconv.ParseBool(value); err == nil {
				settings.AutoSave = b
			}
		case "export_format":
			settings.ExportFormat = value
		case "default_category":
			settings.DefaultCategory = value
		case "csv_export_path":
			settings.CSVExportPath = value
		}
	}
	return settings
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, patch core.SettingsPatch) error {
	merged := s.LoadSettings(ctx).Merge(patch)

	pairs := map[string]string{
		"currency":         merged.Currency,
		"date_format":      merged.DateFormat,
		"theme":            merged.Theme,
		"auto_save":        strconv.FormatBool(merged.AutoSave),
		"export_format":    merged.ExportFormat,
		"default_category": merged.DefaultCategory,
		"csv_export_path":  merged.CSVExportPath,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settings transaction: %w", err)
	}
	defer tx.Rollback()

	for key, value := range pairs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO settings (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
		if err != nil {
			return fmt.Errorf("upsert setting %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Available(ctx context.Context) bool {
	return s.db.PingContext(ctx) == nil
}
