package test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ticketo/points/internal/domain/model"
)

// ReconcilerFacadeStub feeds drift batches to the reconciliation worker and
// records repair calls. Batches are consumed one per report.
type ReconcilerFacadeStub struct {
	sync.Mutex
	Batches  [][]model.Drift
	Repairs  []string
	ReportFn func(context.Context, int) ([]model.Drift, error)
	RepairFn func(context.Context, int64, uuid.UUID) error
}

func (s *ReconcilerFacadeStub) DriftReport(ctx context.Context, limit int) ([]model.Drift, error) {
	if s.ReportFn != nil {
		return s.ReportFn(ctx, limit)
	}
	s.Lock()
	defer s.Unlock()
	if len(s.Batches) == 0 {
		return nil, nil
	}
	batch := s.Batches[0]
	s.Batches = s.Batches[1:]
	return batch, nil
}

func (s *ReconcilerFacadeStub) RepairDrift(ctx context.Context, userID int64, systemID uuid.UUID) error {
	if s.RepairFn != nil {
		return s.RepairFn(ctx, userID, systemID)
	}
	s.Lock()
	defer s.Unlock()
	s.Repairs = append(s.Repairs, pairKey(userID, systemID))
	return nil
}
