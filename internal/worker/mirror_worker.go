// Package worker runs the background mirror loop: a message consumer that
// reacts to record-created notifications plus a periodic sweep that catches
// anything a lost message left behind.
package worker

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"spendlog/internal/amqp"
	"spendlog/internal/services"
	"spendlog/internal/storage"
)

type MirrorWorker struct {
	store    storage.Store
	mirror   *services.MirrorService
	amqp     *amqp.Client
	interval time.Duration
}

func NewMirrorWorker(store storage.Store, mirror *services.MirrorService, amqpClient *amqp.Client, interval time.Duration) *MirrorWorker {
	return &MirrorWorker{
		store:    store,
		mirror:   mirror,
		amqp:     amqpClient,
		interval: interval,
	}
}

// SyncOnce loads the local collection and runs one mirror pass.
func (w *MirrorWorker) SyncOnce(ctx context.Context) services.SyncResult {
	local := w.store.Load(ctx).Expenses
	return w.mirror.Sync(ctx, local)
}

// HandleRecordCreated reacts to one notification by re-diffing the whole
// collection against the sheet. Failures are logged, never retried through
// the queue; the next sweep covers them.
func (w *MirrorWorker) HandleRecordCreated(ctx context.Context, msg *amqp.RecordCreatedMessage) error {
	slog.InfoContext(ctx, "Processing record created message", "id", msg.ID)
	result := w.SyncOnce(ctx)
	if !result.Success {
		slog.WarnContext(ctx, "Mirror pass failed",
			"id", msg.ID, "errors", result.Errors)
	}
	return nil
}

// Run drives the consumer and the periodic sweep until the context is
// cancelled. When no AMQP client is configured only the sweep runs.
func (w *MirrorWorker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if w.amqp != nil {
		g.Go(func() error {
			err := w.amqp.ConsumeRecordCreated(ctx, w.HandleRecordCreated)
			if err == context.Canceled {
				return nil
			}
			return err
		})
	} else {
		slog.InfoContext(ctx, "AMQP not configured, running periodic sweep only")
	}

	g.Go(func() error {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				result := w.SyncOnce(ctx)
				if !result.Success {
					slog.WarnContext(ctx, "Periodic mirror sweep failed", "errors", result.Errors)
				} else if result.Synced > 0 {
					slog.InfoContext(ctx, "Periodic mirror sweep synced records", "synced", result.Synced)
				}
			}
		}
	})

	return g.Wait()
}
