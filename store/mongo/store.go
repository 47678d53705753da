package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/stakeledger"
	"github.com/xraph/stakeledger/account"
	"github.com/xraph/stakeledger/event"
	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/pool"
	ledgerstore "github.com/xraph/stakeledger/store"
)

// Collection name constants.
const (
	colState    = "stakeledger_state"
	colAccounts = "stakeledger_accounts"
	colEvents   = "stakeledger_events"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all stakeledger collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("stakeledger/mongo: migrate %s indexes: %w", col, err)
		}
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
	var m stateModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": stateDocID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, stakeledger.ErrStateNotFound
		}
		return nil, fmt.Errorf("stakeledger/mongo: get state: %w", err)
	}
	return fromStateModel(&m)
}

// ==================== Account Store ====================

func (s *Store) GetAccount(ctx context.Context, accountID id.AccountID) (*account.Account, error) {
	var m accountModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": accountID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, stakeledger.ErrAccountNotFound
		}
		return nil, fmt.Errorf("stakeledger/mongo: get account: %w", err)
	}
	return fromAccountModel(&m)
}

func (s *Store) ListAccounts(ctx context.Context, opts account.ListOpts) ([]*account.Account, error) {
	var models []accountModel

	filter := bson.M{}
	if opts.ActiveOnly {
		filter["stake_anchor_time"] = bson.M{"$ne": 0}
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("stakeledger/mongo: list accounts: %w", err)
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

	filter := bson.M{}
	if !opts.AccountID.IsNil() {
		filter["account_id"] = opts.AccountID.String()
	}
	if opts.Type != "" {
		filter["type"] = string(opts.Type)
	}
	if !opts.Start.IsZero() || !opts.End.IsZero() {
		window := bson.M{}
		if !opts.Start.IsZero() {
			window["$gte"] = opts.Start.UTC()
		}
		if !opts.End.IsZero() {
			window["$lt"] = opts.End.UTC()
		}
		filter["timestamp"] = window
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "sequence", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("stakeledger/mongo: list events: %w", err)
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

// Commit writes events, accounts and the state document in one
// multi-document transaction, which needs a replica set or sharded cluster.
func (s *Store) Commit(ctx context.Context, cp *ledgerstore.Checkpoint) error {
	begun, err := s.mdb.GroveTx(ctx, 0, false)
	if err != nil {
		return fmt.Errorf("stakeledger/mongo: begin commit: %w", err)
	}
	tx := begun.(*mongodriver.MongoTx)
	// Commit ends the session itself, successful or not.
	finished := false
	defer func() {
		if !finished {
			_ = tx.Rollback()
		}
	}()

	if len(cp.Events) > 0 {
		seqs := make(bson.A, len(cp.Events))
		for i, e := range cp.Events {
			seqs[i] = e.Sequence
		}
		_, err = tx.NewDelete((*eventModel)(nil)).
			Filter(bson.M{"sequence": bson.M{"$in": seqs}}).
			Many().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("stakeledger/mongo: clear stale events: %w", err)
		}
	}
	for _, e := range cp.Events {
		if _, err := tx.NewInsert(toEventModel(e)).Exec(ctx); err != nil {
			return fmt.Errorf("stakeledger/mongo: insert event %d: %w", e.Sequence, err)
		}
	}

	for _, a := range cp.Accounts {
		m := toAccountModel(a)
		_, err := tx.NewUpdate(m).
			Filter(bson.M{"_id": m.ID}).
			SetUpdate(bson.M{
				"$set": bson.M{
					"principal":                  m.Principal,
					"reward_per_stake_unit_paid": m.RewardPerStakeUnitPaid,
					"accrued_reward":             m.AccruedReward,
					"stake_anchor_time":          m.StakeAnchorTime,
					"updated_at":                 m.UpdatedAt,
				},
				"$setOnInsert": bson.M{"created_at": m.CreatedAt},
			}).
			Upsert().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("stakeledger/mongo: upsert account %s: %w", a.ID, err)
		}
	}

	if cp.State != nil {
		if err := s.upsertState(ctx, tx, cp.State); err != nil {
			return err
		}
	}

	finished = true
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("stakeledger/mongo: commit: %w", err)
	}
	return nil
}

func (s *Store) upsertState(ctx context.Context, tx *mongodriver.MongoTx, st *pool.State) error {
	m := toStateModel(st)
	_, err := tx.NewUpdate(m).
		Filter(bson.M{"_id": stateDocID}).
		SetUpdate(bson.M{
			"$set": bson.M{
				"total_staked":                 m.TotalStaked,
				"reward_rate":                  m.RewardRate,
				"reward_per_stake_unit_stored": m.RewardPerStakeUnitStored,
				"last_update_time":             m.LastUpdateTime,
				"period_finish":                m.PeriodFinish,
				"event_sequence":               m.EventSequence,
				"updated_at":                   m.UpdatedAt,
			},
			"$setOnInsert": bson.M{"created_at": m.CreatedAt},
		}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("stakeledger/mongo: upsert state: %w", err)
	}
	return nil
}

// ==================== Helpers ====================

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all stakeledger collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colState: {},
		colAccounts: {
			{Keys: bson.D{{Key: "stake_anchor_time", Value: 1}}},
		},
		colEvents: {
			{
				Keys:    bson.D{{Key: "sequence", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "sequence", Value: 1}}},
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "sequence", Value: 1}}},
		},
	}
}
