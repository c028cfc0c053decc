package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ticketo/points/internal/domain/model"
)

// ReconcilerFacade exposes the subset of application functionality required by the worker.
type ReconcilerFacade interface {
	DriftReport(ctx context.Context, limit int) ([]model.Drift, error)
	RepairDrift(ctx context.Context, userID int64, systemID uuid.UUID) error
}

// Reconciler periodically audits materialized balances against ledger sums
// and, when repair is enabled, rewrites drifted balances concurrently.
type Reconciler struct {
	facade    ReconcilerFacade
	interval  time.Duration
	batchSize int
	workers   int
	repair    bool
	logger    *slog.Logger

	jobs   chan model.Drift
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs the balance reconciliation worker pool.
func NewReconciler(facade ReconcilerFacade, interval time.Duration, batchSize, workers int, repair bool, logger *slog.Logger) *Reconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Reconciler{
		facade:    facade,
		interval:  interval,
		batchSize: batchSize,
		workers:   workers,
		repair:    repair,
		logger:    logger,
		jobs:      make(chan model.Drift, batchSize*workers),
	}
}

// Start launches background reconciliation.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *Reconciler) fetchAndDispatch(ctx context.Context) {
	drifted, err := r.facade.DriftReport(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("drift report failed", slog.String("error", err.Error()))
		return
	}
	for _, drift := range drifted {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- drift:
		}
	}
}

func (r *Reconciler) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case drift, ok := <-r.jobs:
			if !ok {
				return
			}
			r.handleDrift(ctx, drift)
		}
	}
}

func (r *Reconciler) handleDrift(ctx context.Context, drift model.Drift) {
	r.logger.Warn("balance drift detected",
		slog.Int64("user_id", drift.UserID),
		slog.String("points_system_id", drift.PointsSystemID.String()),
		slog.Int64("balance", drift.Balance),
		slog.Int64("ledger_sum", drift.LedgerSum),
	)
	if !r.repair {
		return
	}
	if err := r.facade.RepairDrift(ctx, drift.UserID, drift.PointsSystemID); err != nil {
		r.logger.Error("drift repair failed",
			slog.Int64("user_id", drift.UserID),
			slog.String("points_system_id", drift.PointsSystemID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	r.logger.Info("balance repaired",
		slog.Int64("user_id", drift.UserID),
		slog.String("points_system_id", drift.PointsSystemID.String()),
	)
}
