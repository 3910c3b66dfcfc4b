package scheduler

import (
	"context"
	"errors"

	appsync "github.com/shopmetrics/backend/internal/application/sync"
	"github.com/shopmetrics/backend/internal/domain/shared"
)

// SyncServiceExecutor adapts the sync orchestrator to the worker pool's
// executor interface.
type SyncServiceExecutor struct {
	service *appsync.Service
}

// NewSyncServiceExecutor creates an executor backed by the sync service
func NewSyncServiceExecutor(service *appsync.Service) *SyncServiceExecutor {
	return &SyncServiceExecutor{service: service}
}

// Execute runs the job's sync and records its outcome counts. A held sync
// claim means another run is already covering this tenant, so the job
// completes empty instead of failing into the retry path.
func (e *SyncServiceExecutor) Execute(ctx context.Context, job *SyncJob) error {
	var summary *appsync.Summary
	var err error

	switch job.Mode {
	case SyncModeFull:
		summary, err = e.service.FullSync(ctx, job.TenantID)
	default:
		summary, err = e.service.IncrementalSync(ctx, job.TenantID)
	}
	if err != nil {
		if errors.Is(err, shared.ErrSyncInProgress) {
			job.Complete(0, 0, 0, 0)
			return nil
		}
		return err
	}

	totals := summary.Totals()
	job.Complete(totals.Created, totals.Updated, totals.Skipped, totals.Failed)
	return nil
}

// Ensure SyncServiceExecutor implements SyncExecutor
var _ SyncExecutor = (*SyncServiceExecutor)(nil)
