package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	// Registers the postgres migration executor.
	_ "github.com/xraph/grove/drivers/pgdriver/pgmigrate"

	"github.com/xraph/stakeledger"
	"github.com/xraph/stakeledger/account"
	"github.com/xraph/stakeledger/event"
	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/pool"
	ledgerstore "github.com/xraph/stakeledger/store"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("stakeledger/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("stakeledger/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== State Store ====================

func (s *Store) GetState(ctx context.Context) (*pool.State, error) {
	m := new(stateModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", stateRowID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, stakeledger.ErrStateNotFound
		}
		return nil, err
	}
	return fromStateModel(m)
}

// ==================== Account Store ====================

func (s *Store) GetAccount(ctx context.Context, accountID id.AccountID) (*account.Account, error) {
	m := new(accountModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", accountID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, stakeledger.ErrAccountNotFound
		}
		return nil, err
	}
	return fromAccountModel(m)
}

func (s *Store) ListAccounts(ctx context.Context, opts account.ListOpts) ([]*account.Account, error) {
	var models []accountModel
	q := s.pg.NewSelect(&models)

	if opts.ActiveOnly {
		q = q.Where("principal > 0")
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*account.Account, len(models))
	for i := range models {
		a, err := fromAccountModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = a
	}
	return result, nil
}

// ==================== Event Store ====================

func (s *Store) ListEvents(ctx context.Context, opts event.ListOpts) ([]*event.Event, error) {
	var models []eventModel
	q := s.pg.NewSelect(&models)

	argIdx := 0
	if !opts.AccountID.IsNil() {
		argIdx++
		q = q.Where(fmt.Sprintf("account_id = $%d", argIdx), opts.AccountID.String())
	}
	if opts.Type != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("type = $%d", argIdx), string(opts.Type))
	}
	if !opts.Start.IsZero() {
		argIdx++
		q = q.Where(fmt.Sprintf("timestamp >= $%d", argIdx), opts.Start.UTC())
	}
	if !opts.End.IsZero() {
		argIdx++
		q = q.Where(fmt.Sprintf("timestamp < $%d", argIdx), opts.End.UTC())
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("sequence ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*event.Event, len(models))
	for i := range models {
		e, err := fromEventModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = e
	}
	return result, nil
}

// ==================== Commit ====================

// Commit writes events, accounts and the state row in one transaction.
// Nothing is visible to readers unless every write succeeds.
func (s *Store) Commit(ctx context.Context, cp *ledgerstore.Checkpoint) error {
	tx, err := s.pg.BeginTxQuery(ctx, nil)
	if err != nil {
		return fmt.Errorf("stakeledger/postgres: begin commit: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range cp.Events {
		_, err := tx.NewInsert(toEventModel(e)).
			OnConflict("(sequence) DO UPDATE").
			Set("id = EXCLUDED.id").
			Set("type = EXCLUDED.type").
			Set("account_id = EXCLUDED.account_id").
			Set("asset_id = EXCLUDED.asset_id").
			Set("amount = EXCLUDED.amount").
			Set("timestamp = EXCLUDED.timestamp").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("stakeledger/postgres: insert event %d: %w", e.Sequence, err)
		}
	}

	for _, a := range cp.Accounts {
		_, err := tx.NewInsert(toAccountModel(a)).
			OnConflict("(id) DO UPDATE").
			Set("principal = EXCLUDED.principal").
			Set("reward_per_stake_unit_paid = EXCLUDED.reward_per_stake_unit_paid").
			Set("accrued_reward = EXCLUDED.accrued_reward").
			Set("stake_anchor_time = EXCLUDED.stake_anchor_time").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("stakeledger/postgres: upsert account %s: %w", a.ID, err)
		}
	}

	if cp.State != nil {
		_, err = tx.NewInsert(toStateModel(cp.State)).
			OnConflict("(id) DO UPDATE").
			Set("total_staked = EXCLUDED.total_staked").
			Set("reward_rate = EXCLUDED.reward_rate").
			Set("reward_per_stake_unit_stored = EXCLUDED.reward_per_stake_unit_stored").
			Set("last_update_time = EXCLUDED.last_update_time").
			Set("period_finish = EXCLUDED.period_finish").
			Set("event_sequence = EXCLUDED.event_sequence").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("stakeledger/postgres: upsert state: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("stakeledger/postgres: commit: %w", err)
	}
	return nil
}

// ==================== Helpers ====================

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
