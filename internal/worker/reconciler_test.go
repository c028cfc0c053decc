package worker

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ticketo/points/internal/domain/model"
	testhelpers "github.com/ticketo/points/internal/test"
)

func TestNewReconcilerDefaults(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	rec := NewReconciler(&testhelpers.ReconcilerFacadeStub{}, time.Second, 0, 0, false, logger)
	if rec.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", rec.batchSize)
	}
	if rec.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", rec.workers)
	}
}

func TestReconcilerRepairsDrift(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.ReconcilerFacadeStub{
		Batches: [][]model.Drift{{{UserID: 1, PointsSystemID: uuid.New(), Balance: 10, LedgerSum: 7}}},
	}
	rec := NewReconciler(facade, 10*time.Millisecond, 1, 1, true, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		facade.Lock()
		repaired := len(facade.Repairs) > 0
		facade.Unlock()
		if repaired {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for drift repair")
		case <-time.After(10 * time.Millisecond):
		}
	}

	rec.Stop()
	facade.Lock()
	defer facade.Unlock()
	if len(facade.Repairs) != 1 {
		t.Fatalf("expected one repair, got %d", len(facade.Repairs))
	}
}

func TestReconcilerReportOnly(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	reports := int32(0)
	facade := &testhelpers.ReconcilerFacadeStub{
		ReportFn: func(context.Context, int) ([]model.Drift, error) {
			atomic.AddInt32(&reports, 1)
			return []model.Drift{{UserID: 1, PointsSystemID: uuid.New(), Balance: 5, LedgerSum: 3}}, nil
		},
	}
	rec := NewReconciler(facade, 5*time.Millisecond, 1, 1, false, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec.Start(ctx)

	deadline := time.After(time.Second)
	for atomic.LoadInt32(&reports) < 2 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for drift reports")
		case <-time.After(10 * time.Millisecond):
		}
	}
	rec.Stop()

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Repairs) != 0 {
		t.Fatalf("repair disabled but saw %d repairs", len(facade.Repairs))
	}
}
