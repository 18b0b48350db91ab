// Package storage owns durable persistence of the expense collection and
// user settings for a single local profile.
package storage

import (
	"context"

	"spendlog/internal/core"
)

// Store is the persistence boundary injected into the layers above so the
// medium (JSON file, embedded database) stays swappable.
//
// Load never fails: missing or corrupt data comes back as an empty snapshot,
// logged but not surfaced, so a broken file can never block the caller.
// Save returns an explicit error so callers can surface a warning instead of
// losing writes silently.
type Store interface {
	Load(ctx context.Context) core.Snapshot
	Save(ctx context.Context, records []core.Expense) error
	Add(ctx context.Context, e core.Expense) ([]core.Expense, error)
	Update(ctx context.Context, id string, patch core.ExpensePatch) ([]core.Expense, error)
	Delete(ctx context.Context, id string) ([]core.Expense, error)
	Clear(ctx context.Context) error

	LoadSettings(ctx context.Context) core.Settings
	SaveSettings(ctx context.Context, patch core.SettingsPatch) error

	// Available probes whether the medium is writable at all. Never panics.
	Available(ctx context.Context) bool
}
