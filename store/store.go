package store

import (
	"context"

	"github.com/xraph/stakeledger/account"
	"github.com/xraph/stakeledger/event"
	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/pool"
)

// Store is the unified storage interface for a single ledger's state.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// State methods
	GetState(ctx context.Context) (*pool.State, error)

	// Account methods
	GetAccount(ctx context.Context, accountID id.AccountID) (*account.Account, error)
	ListAccounts(ctx context.Context, opts account.ListOpts) ([]*account.Account, error)

	// Event methods
	ListEvents(ctx context.Context, opts event.ListOpts) ([]*event.Event, error)

	// Commit persists the outcome of one ledger operation.
	Commit(ctx context.Context, cp *Checkpoint) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Checkpoint is everything one ledger operation changed: the new global
// state, every account whose balances changed, and the events it emitted.
// Implementations must apply all of it or none of it. State is nil
// for operations that leave the accounting state untouched.
type Checkpoint struct {
	State    *pool.State
	Accounts []*account.Account
	Events   []*event.Event
}

// compile-time checks that Store covers the per-entity sub-interfaces.
var (
	_ pool.Store    = (Store)(nil)
	_ account.Store = (Store)(nil)
	_ event.Store   = (Store)(nil)
)
