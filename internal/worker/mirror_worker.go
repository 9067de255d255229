package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/sheets"
	"ledger/internal/store"
)

// MirrorWorker keeps a sheet mirror in step with the record store. Every
// event triggers a full resync, so lost or reordered events heal on the next
// one.
type MirrorWorker struct {
	store  store.Loader
	mirror sheets.Mirror

	mu       sync.Mutex
	lastSync time.Time
}

func NewMirrorWorker(s store.Loader, mirror sheets.Mirror) *MirrorWorker {
	return &MirrorWorker{
		store:  s,
		mirror: mirror,
	}
}

// HandleLedgerEvent processes a single ledger event from AMQP.
func (w *MirrorWorker) HandleLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"event_id", event.ID,
		"kind", event.Kind,
		"position", event.Position)

	if err := w.SyncAll(ctx); err != nil {
		return fmt.Errorf("handle %s event %s: %w", event.Kind, event.ID, err)
	}
	return nil
}

// SyncAll loads the whole ledger and pushes it to the mirror.
func (w *MirrorWorker) SyncAll(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	records, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	if err := w.mirror.Sync(ctx, records); err != nil {
		return fmt.Errorf("sync mirror: %w", err)
	}

	w.lastSync = time.Now()
	slog.DebugContext(ctx, "Mirror synced", "records", len(records))
	return nil
}

// LastSync reports when the mirror was last written successfully.
func (w *MirrorWorker) LastSync() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSync
}

// RunPeriodic resyncs every interval until ctx is done. Failures are logged
// and retried on the next tick.
func (w *MirrorWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.SyncAll(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic mirror sync failed", "error", err)
			}
		}
	}
}
