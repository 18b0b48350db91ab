package services

import (
	"context"
	"fmt"
	"log/slog"

	"spendlog/internal/core"
	"spendlog/internal/sheets"
)

// SyncResult summarizes one mirror pass. Errors are free-text; there is no
// partial-success detail beyond the synced count.
type SyncResult struct {
	Success bool     `json:"success"`
	Synced  int      `json:"synced"`
	Errors  []string `json:"errors"`
}

// MirrorService pushes locally-known records that the external sheet has not
// seen yet. The diff is id-based set difference only: no conflict
// resolution, no deletion propagation, at-least-once semantics.
type MirrorService struct {
	reader   sheets.RecordReader
	appender sheets.RecordAppender
}

func NewMirrorService(reader sheets.RecordReader, appender sheets.RecordAppender) *MirrorService {
	return &MirrorService{reader: reader, appender: appender}
}

// Configured reports whether a mirror backend was wired in.
func (s *MirrorService) Configured() bool {
	return s != nil && s.reader != nil && s.appender != nil
}

// Sync appends the local records whose ids the sheet has not seen.
func (s *MirrorService) Sync(ctx context.Context, local []core.Expense) SyncResult {
	var result SyncResult
	if !s.Configured() {
		result.Errors = append(result.Errors, "mirror not configured")
		return result
	}

	remote, err := s.reader.ReadAll(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("read sheet: %v", err))
		return result
	}

	seen := make(map[string]struct{}, len(remote))
	for _, e := range remote {
		seen[e.ID] = struct{}{}
	}

	var unseen []core.Expense
	for _, e := range local {
		if _, ok := seen[e.ID]; !ok {
			unseen = append(unseen, e)
		}
	}

	if len(unseen) == 0 {
		result.Success = true
		return result
	}

	if err := s.appender.Append(ctx, unseen); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("append to sheet: %v", err))
		return result
	}

	result.Success = true
	result.Synced = len(unseen)
	slog.InfoContext(ctx, "Mirror sync completed",
		"local", len(local), "remote", len(remote), "synced", result.Synced)
	return result
}
