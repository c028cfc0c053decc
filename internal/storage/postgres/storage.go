package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/ticketo/points/internal/domain/errors"
	"github.com/ticketo/points/internal/domain/model"
	"github.com/ticketo/points/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage uses; tests substitute a
// pgxmock pool through newPgxPool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// rowQuerier is satisfied by both the pool and pgx.Tx, so balance updates can
// run standalone or inside the ledger transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type systemRepository struct {
	storage *Storage
}

type balanceRepository struct {
	storage *Storage
}

type ledgerRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Systems() repository.SystemRepository {
	return &systemRepository{storage: s}
}

func (s *Storage) Balances() repository.BalanceRepository {
	return &balanceRepository{storage: s}
}

func (s *Storage) Ledger() repository.LedgerRepository {
	return &ledgerRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS points_systems (
            id UUID PRIMARY KEY,
            tenant_id TEXT NOT NULL,
            name TEXT NOT NULL,
            unit_singular TEXT NOT NULL,
            unit_plural TEXT NOT NULL,
            conversion_type TEXT NOT NULL,
            fixed_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
            tiers JSONB,
            enabled BOOLEAN NOT NULL DEFAULT TRUE,
            available_for_redemption BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS user_points_balance (
            user_id BIGINT NOT NULL,
            points_system_id UUID NOT NULL REFERENCES points_systems(id),
            balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
            last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (user_id, points_system_id)
        )`,
		`CREATE TABLE IF NOT EXISTS points_transactions (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL,
            points_system_id UUID NOT NULL REFERENCES points_systems(id),
            amount BIGINT NOT NULL,
            ticket_id BIGINT,
            description TEXT NOT NULL DEFAULT '',
            metadata JSONB,
            occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_points_systems_tenant ON points_systems(tenant_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_points_transactions_pair ON points_transactions(user_id, points_system_id, occurred_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- SystemRepository implementation ---

const systemColumns = `id, tenant_id, name, unit_singular, unit_plural, conversion_type, fixed_rate, tiers, enabled, available_for_redemption, created_at, updated_at`

func scanSystem(row pgx.Row) (*model.PointsSystem, error) {
	var (
		sys   model.PointsSystem
		tiers []byte
	)
	err := row.Scan(&sys.ID, &sys.TenantID, &sys.Name, &sys.UnitSingular, &sys.UnitPlural,
		&sys.ConversionType, &sys.FixedRate, &tiers, &sys.Enabled, &sys.AvailableForRedemption,
		&sys.CreatedAt, &sys.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(tiers) > 0 {
		if err := json.Unmarshal(tiers, &sys.Tiers); err != nil {
			return nil, fmt.Errorf("decode tiers: %w", err)
		}
	}
	return &sys, nil
}

func encodeTiers(tiers []model.Tier) (any, error) {
	if len(tiers) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(tiers)
	if err != nil {
		return nil, fmt.Errorf("encode tiers: %w", err)
	}
	return string(data), nil
}

func (r *systemRepository) List(ctx context.Context, tenantID string) ([]model.PointsSystem, error) {
	query := `SELECT ` + systemColumns + ` FROM points_systems WHERE tenant_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PointsSystem
	for rows.Next() {
		sys, err := scanSystem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *sys)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *systemRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.PointsSystem, error) {
	query := `SELECT ` + systemColumns + ` FROM points_systems WHERE tenant_id=$1 AND id=$2`
	sys, err := scanSystem(r.storage.pool.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return sys, nil
}

func (r *systemRepository) Create(ctx context.Context, system *model.PointsSystem) (*model.PointsSystem, error) {
	const query = `INSERT INTO points_systems
        (id, tenant_id, name, unit_singular, unit_plural, conversion_type, fixed_rate, tiers, enabled, available_for_redemption)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING created_at, updated_at`

	tiers, err := encodeTiers(system.Tiers)
	if err != nil {
		return nil, err
	}

	created := *system
	err = r.storage.pool.QueryRow(ctx, query,
		system.ID, system.TenantID, system.Name, system.UnitSingular, system.UnitPlural,
		system.ConversionType, system.FixedRate, tiers, system.Enabled, system.AvailableForRedemption,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *systemRepository) Update(ctx context.Context, system *model.PointsSystem) (*model.PointsSystem, error) {
	const query = `UPDATE points_systems
        SET name=$3, unit_singular=$4, unit_plural=$5, conversion_type=$6, fixed_rate=$7,
            tiers=$8, enabled=$9, available_for_redemption=$10, updated_at=NOW()
        WHERE tenant_id=$1 AND id=$2
        RETURNING created_at, updated_at`

	tiers, err := encodeTiers(system.Tiers)
	if err != nil {
		return nil, err
	}

	updated := *system
	err = r.storage.pool.QueryRow(ctx, query,
		system.TenantID, system.ID, system.Name, system.UnitSingular, system.UnitPlural,
		system.ConversionType, system.FixedRate, tiers, system.Enabled, system.AvailableForRedemption,
	).Scan(&updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (r *systemRepository) Delete(ctx context.Context, tenantID string, id uuid.UUID, cascade bool) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const owned = `SELECT EXISTS (SELECT 1 FROM points_systems WHERE tenant_id=$1 AND id=$2)`
		var exists bool
		if err := tx.QueryRow(ctx, owned, tenantID, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domainErrors.ErrNotFound
		}

		if cascade {
			if _, err := tx.Exec(ctx, `DELETE FROM points_transactions WHERE points_system_id=$1`, id); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `DELETE FROM user_points_balance WHERE points_system_id=$1`, id); err != nil {
				return err
			}
		} else {
			const dependents = `SELECT EXISTS (SELECT 1 FROM user_points_balance WHERE points_system_id=$1)
                                OR EXISTS (SELECT 1 FROM points_transactions WHERE points_system_id=$1)`
			var inUse bool
			if err := tx.QueryRow(ctx, dependents, id).Scan(&inUse); err != nil {
				return err
			}
			if inUse {
				return domainErrors.ErrSystemInUse
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM points_systems WHERE tenant_id=$1 AND id=$2`, tenantID, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		return nil
	})
}

// --- BalanceRepository implementation ---

// applyDeltaTx is the single atomic balance write. A non-negative delta
// upserts, so the row appears lazily on first accrual; a negative delta only
// updates when the guard keeps the balance at or above zero, which is how a
// losing concurrent redemption fails.
func (s *Storage) applyDeltaTx(ctx context.Context, q rowQuerier, userID int64, systemID uuid.UUID, delta int64) (*model.Balance, error) {
	balance := &model.Balance{UserID: userID, PointsSystemID: systemID}

	if delta >= 0 {
		const upsert = `INSERT INTO user_points_balance (user_id, points_system_id, balance, last_updated)
                        VALUES ($1, $2, $3, NOW())
                        ON CONFLICT (user_id, points_system_id)
                        DO UPDATE SET balance = user_points_balance.balance + EXCLUDED.balance, last_updated = NOW()
                        RETURNING balance, last_updated`
		if err := q.QueryRow(ctx, upsert, userID, systemID, delta).Scan(&balance.Balance, &balance.LastUpdated); err != nil {
			return nil, err
		}
		return balance, nil
	}

	const debit = `UPDATE user_points_balance
                   SET balance = balance + $3, last_updated = NOW()
                   WHERE user_id=$1 AND points_system_id=$2 AND balance + $3 >= 0
                   RETURNING balance, last_updated`
	err := q.QueryRow(ctx, debit, userID, systemID, delta).Scan(&balance.Balance, &balance.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrInsufficientBalance
		}
		return nil, err
	}
	return balance, nil
}

func (r *balanceRepository) ApplyDelta(ctx context.Context, userID int64, systemID uuid.UUID, delta int64) (*model.Balance, error) {
	return r.storage.applyDeltaTx(ctx, r.storage.pool, userID, systemID, delta)
}

func (r *balanceRepository) Get(ctx context.Context, userID int64, systemID uuid.UUID) (*model.Balance, error) {
	const query = `SELECT balance, last_updated FROM user_points_balance WHERE user_id=$1 AND points_system_id=$2`
	balance := &model.Balance{UserID: userID, PointsSystemID: systemID}
	err := r.storage.pool.QueryRow(ctx, query, userID, systemID).Scan(&balance.Balance, &balance.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return balance, nil
}

func (r *balanceRepository) ListByUser(ctx context.Context, userID int64) ([]model.Balance, error) {
	const query = `SELECT b.user_id, b.points_system_id, s.name, b.balance, b.last_updated
                   FROM user_points_balance b
                   JOIN points_systems s ON s.id = b.points_system_id
                   WHERE b.user_id=$1
                   ORDER BY s.created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Balance
	for rows.Next() {
		var b model.Balance
		if err := rows.Scan(&b.UserID, &b.PointsSystemID, &b.SystemName, &b.Balance, &b.LastUpdated); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- LedgerRepository implementation ---

func encodeMetadata(metadata map[string]any) (any, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return string(data), nil
}

func (s *Storage) appendTx(ctx context.Context, q rowQuerier, txn *model.Transaction) (*model.Transaction, error) {
	const query = `INSERT INTO points_transactions (user_id, points_system_id, amount, ticket_id, description, metadata)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING id, occurred_at`

	metadata, err := encodeMetadata(txn.Metadata)
	if err != nil {
		return nil, err
	}

	inserted := *txn
	err = q.QueryRow(ctx, query, txn.UserID, txn.PointsSystemID, txn.Amount, txn.TicketID, txn.Description, metadata).
		Scan(&inserted.ID, &inserted.OccurredAt)
	if err != nil {
		return nil, err
	}
	return &inserted, nil
}

func (r *ledgerRepository) Append(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	return r.storage.appendTx(ctx, r.storage.pool, txn)
}

func (r *ledgerRepository) Record(ctx context.Context, txn *model.Transaction) (*model.Transaction, *model.Balance, error) {
	var (
		inserted *model.Transaction
		balance  *model.Balance
	)
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		if inserted, err = r.storage.appendTx(ctx, tx, txn); err != nil {
			return err
		}
		balance, err = r.storage.applyDeltaTx(ctx, tx, txn.UserID, txn.PointsSystemID, txn.Amount)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return inserted, balance, nil
}

func (r *ledgerRepository) History(ctx context.Context, userID int64, systemID *uuid.UUID, limit int) ([]model.Transaction, error) {
	const base = `SELECT t.id, t.user_id, t.points_system_id, t.amount, t.ticket_id, t.description, t.metadata, t.occurred_at, s.name
                  FROM points_transactions t
                  JOIN points_systems s ON s.id = t.points_system_id`

	var (
		rows pgx.Rows
		err  error
	)
	if systemID != nil {
		rows, err = r.storage.pool.Query(ctx, base+` WHERE t.user_id=$1 AND t.points_system_id=$2 ORDER BY t.occurred_at DESC LIMIT $3`, userID, *systemID, limit)
	} else {
		rows, err = r.storage.pool.Query(ctx, base+` WHERE t.user_id=$1 ORDER BY t.occurred_at DESC LIMIT $2`, userID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Transaction
	for rows.Next() {
		var (
			t        model.Transaction
			metadata []byte
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.PointsSystemID, &t.Amount, &t.TicketID, &t.Description, &metadata, &t.OccurredAt, &t.SystemName); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &t.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata: %w", err)
			}
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *ledgerRepository) FindDrift(ctx context.Context, limit int) ([]model.Drift, error) {
	const query = `SELECT b.user_id, b.points_system_id, b.balance, COALESCE(SUM(t.amount), 0)
                   FROM user_points_balance b
                   LEFT JOIN points_transactions t
                     ON t.user_id = b.user_id AND t.points_system_id = b.points_system_id
                   GROUP BY b.user_id, b.points_system_id, b.balance
                   HAVING b.balance <> COALESCE(SUM(t.amount), 0)
                   LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Drift
	for rows.Next() {
		var d model.Drift
		if err := rows.Scan(&d.UserID, &d.PointsSystemID, &d.Balance, &d.LedgerSum); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *ledgerRepository) RepairDrift(ctx context.Context, userID int64, systemID uuid.UUID) error {
	const query = `UPDATE user_points_balance
                   SET balance = (SELECT COALESCE(SUM(amount), 0)
                                  FROM points_transactions
                                  WHERE user_id=$1 AND points_system_id=$2),
                       last_updated = NOW()
                   WHERE user_id=$1 AND points_system_id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, userID, systemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
