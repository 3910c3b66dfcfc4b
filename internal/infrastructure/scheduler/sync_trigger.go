package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shopmetrics/backend/internal/domain/identity"
)

// SyncTrigger periodically enqueues incremental sync jobs for every
// connected tenant. Tenants whose claim is already held skip the run
// downstream, so overlapping triggers are harmless.
type SyncTrigger struct {
	interval  time.Duration
	tenants   identity.TenantRepository
	scheduler *SyncScheduler
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSyncTrigger creates a periodic incremental sync trigger
func NewSyncTrigger(interval time.Duration, tenants identity.TenantRepository, scheduler *SyncScheduler, logger *zap.Logger) (*SyncTrigger, error) {
	if interval <= 0 {
		return nil, ErrInvalidConfig
	}
	return &SyncTrigger{
		interval:  interval,
		tenants:   tenants,
		scheduler: scheduler,
		logger:    logger,
	}, nil
}

// Start begins the periodic trigger loop
func (t *SyncTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.loop(ctx)

	t.logger.Info("Sync trigger started", zap.Duration("interval", t.interval))
	return nil
}

// Stop stops the trigger loop
func (t *SyncTrigger) Stop() {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()
	t.logger.Info("Sync trigger stopped")
}

func (t *SyncTrigger) loop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.TriggerAll(ctx)
		}
	}
}

// TriggerAll enqueues one incremental sync job per connected tenant
func (t *SyncTrigger) TriggerAll(ctx context.Context) {
	tenants, err := t.tenants.FindConnected(ctx)
	if err != nil {
		t.logger.Error("Failed to list tenants for scheduled sync", zap.Error(err))
		return
	}

	enqueued := 0
	for i := range tenants {
		tenant := &tenants[i]
		if err := t.scheduler.ScheduleSync(tenant.ID, SyncModeIncremental); err != nil {
			if errors.Is(err, ErrJobQueueFull) {
				t.logger.Warn("Sync queue full, skipping remaining tenants",
					zap.Int("enqueued", enqueued),
					zap.Int("total", len(tenants)),
				)
				return
			}
			t.logger.Error("Failed to enqueue scheduled sync",
				zap.String("tenant_id", tenant.ID.String()),
				zap.Error(err),
			)
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		t.logger.Debug("Scheduled incremental syncs", zap.Int("count", enqueued))
	}
}
