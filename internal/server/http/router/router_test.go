package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ticketo/points/internal/app"
	"github.com/ticketo/points/internal/cache"
	"github.com/ticketo/points/internal/server/http/dto"
	"github.com/ticketo/points/internal/server/http/handlers"
	testhelpers "github.com/ticketo/points/internal/test"
	"github.com/ticketo/points/internal/usecase"
)

func newTestEngine() *gin.Engine {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	systems := testhelpers.NewSystemRepositoryStub()
	ledger := testhelpers.NewLedgerRepositoryStub()
	balances := &testhelpers.BalanceRepositoryStub{Ledger: ledger, Names: map[uuid.UUID]string{}}
	tickets := &testhelpers.TicketsClientStub{}

	registry := usecase.NewRegistryUseCase(systems, cache.NewMemoryCache(), time.Minute, logger)
	points := usecase.NewPointsUseCase(registry, balances, ledger, tickets, 100, logger)
	return Setup(app.NewPointsFacade(registry, points), logger)
}

func serve(engine *gin.Engine, method, target string, payload any, tenant string) *httptest.ResponseRecorder {
	var reader io.Reader
	if payload != nil {
		body, _ := json.Marshal(payload)
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tenant != "" {
		req.Header.Set("X-Tenant-ID", tenant)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestSetupRequiresTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := newTestEngine()

	resp := serve(engine, http.MethodGet, "/api/points/systems", nil, "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without tenant header, got %d", resp.Code)
	}
}

func TestSetupEarnRedeemFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := newTestEngine()

	rate := 1.0
	name, singular, plural, conversion := "Puntos", "punto", "puntos", "fixed"
	redeemable := true
	resp := serve(engine, http.MethodPost, "/api/points/systems", dto.SystemRequest{
		Name:                   &name,
		UnitSingular:           &singular,
		UnitPlural:             &plural,
		ConversionType:         &conversion,
		FixedRate:              &rate,
		AvailableForRedemption: &redeemable,
	}, "ticketo")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for create, got %d: %s", resp.Code, resp.Body.String())
	}
	var created dto.SystemResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode created system: %v", err)
	}

	resp = serve(engine, http.MethodPost, "/api/points/users/7/earn", dto.EarnRequest{SystemID: created.ID, Amount: 100}, "ticketo")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for earn, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = serve(engine, http.MethodPost, "/api/points/users/7/redeem", dto.RedeemRequest{SystemID: created.ID, Points: 40, DiscountAmount: 40}, "ticketo")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for redeem, got %d: %s", resp.Code, resp.Body.String())
	}
	var redeemed dto.RedeemResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &redeemed); err != nil {
		t.Fatalf("failed to decode redeem response: %v", err)
	}
	if redeemed.Balance.Balance != 60 {
		t.Fatalf("expected balance 60, got %d", redeemed.Balance.Balance)
	}

	resp = serve(engine, http.MethodGet, "/api/points/users/7/balance", nil, "ticketo")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for balance, got %d", resp.Code)
	}
	var balances []dto.BalanceResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &balances); err != nil {
		t.Fatalf("failed to decode balances: %v", err)
	}
	if len(balances) != 1 || balances[0].Balance != 60 {
		t.Fatalf("unexpected balances: %+v", balances)
	}

	resp = serve(engine, http.MethodGet, "/api/points/users/7/history", nil, "ticketo")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for history, got %d", resp.Code)
	}
	var history []dto.TransactionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &history); err != nil {
		t.Fatalf("failed to decode history: %v", err)
	}
	if len(history) != 2 || history[0].Amount != -40 || history[1].Amount != 100 {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestSetupSystemLifecycleRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := newTestEngine()

	rate := 2.0
	name, singular, plural, conversion := "Millas", "milla", "millas", "fixed"
	resp := serve(engine, http.MethodPost, "/api/points/systems", dto.SystemRequest{
		Name:           &name,
		UnitSingular:   &singular,
		UnitPlural:     &plural,
		ConversionType: &conversion,
		FixedRate:      &rate,
	}, "ticketo")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for create, got %d", resp.Code)
	}
	var created dto.SystemResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode created system: %v", err)
	}

	renamed := "Kilómetros"
	resp = serve(engine, http.MethodPatch, "/api/points/systems/"+created.ID, dto.SystemRequest{Name: &renamed}, "ticketo")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for update, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = serve(engine, http.MethodGet, "/api/points/systems", nil, "ticketo")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for list, got %d", resp.Code)
	}
	var systems []dto.SystemResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &systems); err != nil {
		t.Fatalf("failed to decode systems: %v", err)
	}
	if len(systems) != 1 || systems[0].Name != renamed {
		t.Fatalf("unexpected systems: %+v", systems)
	}

	resp = serve(engine, http.MethodDelete, "/api/points/systems/"+created.ID, nil, "ticketo")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for delete, got %d", resp.Code)
	}
}

var _ handlers.ServiceFacade = (*app.PointsFacade)(nil)
