// Package memory is an in-process mirror used as the default backend and in
// tests.
package memory

import (
	"context"
	"sync"

	"spendlog/internal/core"
	ports "spendlog/internal/sheets"
)

type Store struct {
	mu    sync.Mutex
	items []core.Expense

	// AppendErr and ReadErr, when set, are returned by the corresponding
	// operation to exercise failure paths in tests.
	AppendErr error
	ReadErr   error
}

var (
	_ ports.RecordAppender = (*Store)(nil)
	_ ports.RecordReader   = (*Store)(nil)
)

func New(seed ...core.Expense) *Store {
	return &Store{items: append([]core.Expense(nil), seed...)}
}

func (s *Store) Append(_ context.Context, records []core.Expense) error {
	if s.AppendErr != nil {
		return s.AppendErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, records...)
	return nil
}

func (s *Store) ReadAll(_ context.Context) ([]core.Expense, error) {
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.items...), nil
}
