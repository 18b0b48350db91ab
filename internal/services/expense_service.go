package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"spendlog/internal/amqp"
	"spendlog/internal/core"
	"spendlog/internal/csvio"
	"spendlog/internal/ledger"
	"spendlog/internal/storage"
)

// ExpenseService orchestrates ledger operations over the injected store and
// notifies the mirror worker about new records. The notification is
// fire-and-forget: its failure never affects local persistence.
type ExpenseService struct {
	store      storage.Store
	amqpClient *amqp.Client
}

func NewExpenseService(store storage.Store, amqpClient *amqp.Client) *ExpenseService {
	return &ExpenseService{store: store, amqpClient: amqpClient}
}

// Create validates the input, persists the record and publishes a mirror
// notification best-effort.
func (s *ExpenseService) Create(ctx context.Context, date, description string, amount decimal.Decimal, category core.Category) (core.Expense, error) {
	e, err := core.NewExpense(date, description, amount, category)
	if err != nil {
		return core.Expense{}, err
	}
	if _, err := s.store.Add(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.PublishRecordCreated(ctx, e.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish record created message",
				"id", e.ID, "error", err)
			// The record is saved locally; the periodic sweep will mirror it.
		}
	}
	return e, nil
}

// Update patches the record with the given id. Unknown ids are a no-op.
// Every patched field is held to the same constraints as at creation.
func (s *ExpenseService) Update(ctx context.Context, id string, patch core.ExpensePatch) ([]core.Expense, error) {
	if patch.Description != nil {
		if err := core.ValidateDescription(*patch.Description); err != nil {
			return nil, err
		}
	}
	if patch.Amount != nil && !patch.Amount.IsPositive() {
		return nil, core.ErrInvalidAmount
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return nil, core.ErrInvalidCategory
	}
	if patch.Date != nil {
		if _, err := time.Parse(core.DateLayout, *patch.Date); err != nil {
			return nil, core.ErrInvalidDate
		}
	}
	return s.store.Update(ctx, id, patch)
}

// Delete removes the record with the given id; deleting an unknown id
// returns the collection unchanged.
func (s *ExpenseService) Delete(ctx context.Context, id string) ([]core.Expense, error) {
	return s.store.Delete(ctx, id)
}

// List returns the records matching the filter, in stored order.
func (s *ExpenseService) List(ctx context.Context, f ledger.Filter) []core.Expense {
	return ledger.Apply(s.store.Load(ctx).Expenses, f)
}

// Stats recomputes the derived statistics over the filtered view.
func (s *ExpenseService) Stats(ctx context.Context, f ledger.Filter) ledger.Stats {
	return ledger.Aggregate(s.List(ctx, f), time.Now())
}

// ExportCSV serializes the filtered view and derives a filename from the
// active filter.
func (s *ExpenseService) ExportCSV(ctx context.Context, f ledger.Filter) (filename, content string) {
	return csvio.Filename(f, time.Now()), csvio.Encode(s.List(ctx, f))
}

// ImportCSV appends every parseable row of the CSV text to the ledger and
// returns how many were imported. Malformed rows are dropped silently.
func (s *ExpenseService) ImportCSV(ctx context.Context, text string) (int, error) {
	imported := csvio.Decode(text)
	if len(imported) == 0 {
		return 0, nil
	}
	records := append(s.store.Load(ctx).Expenses, imported...)
	if err := s.store.Save(ctx, records); err != nil {
		return 0, fmt.Errorf("save imported records: %w", err)
	}
	return len(imported), nil
}

func (s *ExpenseService) Settings(ctx context.Context) core.Settings {
	return s.store.LoadSettings(ctx)
}

func (s *ExpenseService) UpdateSettings(ctx context.Context, patch core.SettingsPatch) (core.Settings, error) {
	if err := s.store.SaveSettings(ctx, patch); err != nil {
		return core.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return s.store.LoadSettings(ctx), nil
}

// StorageStats describes the persisted dataset itself.
type StorageStats struct {
	TotalExpenses int             `json:"totalExpenses"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	LastUpdated   time.Time       `json:"lastUpdated"`
	StorageSize   int64           `json:"storageSize"`
}

// sizer is implemented by stores that can report their on-disk footprint.
type sizer interface {
	Size(ctx context.Context) int64
}

func (s *ExpenseService) StorageStats(ctx context.Context) StorageStats {
	snap := s.store.Load(ctx)
	stats := StorageStats{
		TotalExpenses: len(snap.Expenses),
		TotalAmount:   ledger.Sum(snap.Expenses),
		LastUpdated:   snap.LastUpdated,
	}
	if sz, ok := s.store.(sizer); ok {
		stats.StorageSize = sz.Size(ctx)
	}
	return stats
}

// Backup bundles the full dataset for export.
type Backup struct {
	Expenses   []core.Expense `json:"expenses"`
	Settings   core.Settings  `json:"settings"`
	ExportDate time.Time      `json:"exportDate"`
}

func (s *ExpenseService) ExportBackup(ctx context.Context) Backup {
	return Backup{
		Expenses:   s.store.Load(ctx).Expenses,
		Settings:   s.store.LoadSettings(ctx),
		ExportDate: time.Now().UTC(),
	}
}

// ImportBackup restores a previously exported dataset, replacing the ledger
// wholesale and merging the settings over the current ones.
func (s *ExpenseService) ImportBackup(ctx context.Context, b Backup) error {
	if b.Expenses != nil {
		if err := s.store.Save(ctx, b.Expenses); err != nil {
			return fmt.Errorf("restore expenses: %w", err)
		}
	}
	if b.Settings == (core.Settings{}) {
		return nil
	}
	patch := core.SettingsPatch{
		Currency:        &b.Settings.Currency,
		DateFormat:      &b.Settings.DateFormat,
		Theme:           &b.Settings.Theme,
		AutoSave:        &b.Settings.AutoSave,
		ExportFormat:    &b.Settings.ExportFormat,
		DefaultCategory: &b.Settings.DefaultCategory,
		CSVExportPath:   &b.Settings.CSVExportPath,
	}
	if err := s.store.SaveSettings(ctx, patch); err != nil {
		return fmt.Errorf("restore settings: %w", err)
	}
	return nil
}

// Available reports whether the storage medium accepts writes.
func (s *ExpenseService) Available(ctx context.Context) bool {
	return s.store.Available(ctx)
}

// Close releases the AMQP connection if one was configured.
func (s *ExpenseService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close amqp client: %w", err)
		}
	}
	return nil
}
