package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ticketo/points/internal/cache"
	domainErrors "github.com/ticketo/points/internal/domain/errors"
	"github.com/ticketo/points/internal/domain/model"
	testhelpers "github.com/ticketo/points/internal/test"
	"github.com/ticketo/points/internal/usecase"
	"github.com/ticketo/points/internal/worker"
)

const facadeTenant = "ticketo"

func newFacade() (*PointsFacade, *testhelpers.SystemRepositoryStub, *testhelpers.LedgerRepositoryStub) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	systems := testhelpers.NewSystemRepositoryStub()
	ledger := testhelpers.NewLedgerRepositoryStub()
	balances := &testhelpers.BalanceRepositoryStub{Ledger: ledger, Names: map[uuid.UUID]string{}}
	tickets := &testhelpers.TicketsClientStub{}

	registry := usecase.NewRegistryUseCase(systems, cache.NewMemoryCache(), time.Minute, logger)
	points := usecase.NewPointsUseCase(registry, balances, ledger, tickets, 100, logger)
	return NewPointsFacade(registry, points), systems, ledger
}

func TestPointsFacadeSystems(t *testing.T) {
	facade, systems, _ := newFacade()
	ctx := context.Background()

	created, err := facade.CreateSystem(ctx, facadeTenant, model.PointsSystem{
		Name:           "Puntos",
		UnitSingular:   "punto",
		UnitPlural:     "puntos",
		ConversionType: model.ConversionFixed,
		FixedRate:      1,
		Enabled:        true,
	})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	listed, err := facade.Systems(ctx, facadeTenant)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one system, got %v err=%v", listed, err)
	}

	name := "Millas"
	updated, err := facade.UpdateSystem(ctx, facadeTenant, created.ID, &model.SystemUpdate{Name: &name})
	if err != nil || updated.Name != "Millas" {
		t.Fatalf("unexpected update result: %+v err=%v", updated, err)
	}

	if err := facade.DeleteSystem(ctx, facadeTenant, created.ID, false); err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	if _, ok := systems.Systems[created.ID]; ok {
		t.Fatal("system not deleted")
	}
}

func TestPointsFacadeAccount(t *testing.T) {
	facade, _, ledger := newFacade()
	ctx := context.Background()

	created, err := facade.CreateSystem(ctx, facadeTenant, model.PointsSystem{
		Name:                   "Puntos",
		UnitSingular:           "punto",
		UnitPlural:             "puntos",
		ConversionType:         model.ConversionFixed,
		FixedRate:              1,
		Enabled:                true,
		AvailableForRedemption: true,
	})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	earned, err := facade.Earn(ctx, facadeTenant, 7, created.ID, 100, nil, "compra")
	if err != nil || earned.Balance.Balance != 100 {
		t.Fatalf("unexpected earn result: %+v err=%v", earned, err)
	}

	redeemed, err := facade.Redeem(ctx, facadeTenant, 7, created.ID, 40, 40, nil, "")
	if err != nil || redeemed.Balance.Balance != 60 {
		t.Fatalf("unexpected redeem result: %+v err=%v", redeemed, err)
	}

	if _, err := facade.Redeem(ctx, facadeTenant, 7, created.ID, 100, 100, nil, ""); !errors.Is(err, domainErrors.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	balances, err := facade.Balances(ctx, 7, nil)
	if err != nil || len(balances) != 1 || balances[0].Balance != 60 {
		t.Fatalf("unexpected balances: %+v err=%v", balances, err)
	}

	history, err := facade.History(ctx, 7, &created.ID, 10)
	if err != nil || len(history) != 2 {
		t.Fatalf("unexpected history: %+v err=%v", history, err)
	}

	if ledger.Balance(7, created.ID) != ledger.LedgerSum(7, created.ID) {
		t.Fatal("balance and ledger disagree")
	}
}

func TestPointsFacadeDrift(t *testing.T) {
	facade, _, ledger := newFacade()
	ctx := context.Background()

	systemID := uuid.New()
	ledger.Drift = []model.Drift{{UserID: 7, PointsSystemID: systemID, Balance: 10, LedgerSum: 4}}

	drift, err := facade.DriftReport(ctx, 10)
	if err != nil || len(drift) != 1 {
		t.Fatalf("unexpected drift report: %+v err=%v", drift, err)
	}
	if err := facade.RepairDrift(ctx, 7, systemID); err != nil {
		t.Fatalf("repair returned error: %v", err)
	}
	if len(ledger.Repaired) != 1 {
		t.Fatal("repair not recorded")
	}
}

var _ worker.ReconcilerFacade = (*PointsFacade)(nil)
