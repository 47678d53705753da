package stakeledger

import (
	"context"
	"fmt"
	"time"

	"github.com/xraph/stakeledger/account"
	"github.com/xraph/stakeledger/event"
	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/pool"
	"github.com/xraph/stakeledger/store"
	"github.com/xraph/stakeledger/types"
)

type direction int

const (
	transferIn direction = iota
	transferOut
)

// loadedAccount pairs a working copy with the account as it was read, or
// nil when the store had no record of it.
type loadedAccount struct {
	working  *account.Account
	original *account.Account
}

type transfer struct {
	dir     direction
	asset   id.AssetID
	account id.AccountID
	amount  types.Amount
}

// operation is the scratch space of one mutating call. It works on copies
// of the committed state and the accounts it touches; nothing becomes
// visible until commit succeeds.
type operation struct {
	l   *Ledger
	ctx context.Context
	ts  time.Time
	now int64

	state     pool.State
	accounts  map[string]*account.Account
	loaded    []loadedAccount
	transfers []transfer
	events    []*event.Event
}

// mutate runs fn under the write lock and commits its outcome. Plugins are
// notified after the lock is released.
func (l *Ledger) mutate(ctx context.Context, fn func(op *operation) error) ([]*event.Event, error) {
	l.mu.Lock()

	if !l.started {
		l.mu.Unlock()
		return nil, ErrNotStarted
	}

	ts := l.clock.Now().UTC().Truncate(time.Second)
	op := &operation{
		l:        l,
		ctx:      ctx,
		ts:       ts,
		now:      ts.Unix(),
		state:    l.state,
		accounts: make(map[string]*account.Account),
	}

	if err := fn(op); err != nil {
		op.rollback()
		l.mu.Unlock()
		return nil, err
	}

	if err := op.commit(); err != nil {
		op.rollback()
		l.mu.Unlock()
		return nil, err
	}

	l.state = op.state
	l.mu.Unlock()

	l.dispatch(ctx, op.events)
	return op.events, nil
}

// account returns the working copy of accountID, loading it on first use.
// Unknown accounts start from zero values.
func (op *operation) account(accountID id.AccountID) (*account.Account, error) {
	if accountID.IsNil() {
		return nil, ErrInvalidAccount
	}
	key := accountID.String()
	if a, ok := op.accounts[key]; ok {
		return a, nil
	}

	a, err := op.l.store.GetAccount(op.ctx, accountID)
	var original *account.Account
	switch {
	case IsNotFound(err):
		a = account.New(accountID)
	case err != nil:
		return nil, fmt.Errorf("stakeledger: load account %s: %w", accountID, err)
	default:
		original = a.Clone()
	}

	op.accounts[key] = a
	op.loaded = append(op.loaded, loadedAccount{working: a, original: original})
	return a, nil
}

func (op *operation) settle(a *account.Account) error {
	return settle(&op.state, a, op.now)
}

func (op *operation) transferIn(asset id.AssetID, from id.AccountID, amount types.Amount) error {
	if err := op.l.custody.TransferIn(op.ctx, asset, from, amount); err != nil {
		return err
	}
	op.transfers = append(op.transfers, transfer{dir: transferIn, asset: asset, account: from, amount: amount})
	return nil
}

func (op *operation) transferOut(asset id.AssetID, to id.AccountID, amount types.Amount) error {
	if err := op.l.custody.TransferOut(op.ctx, asset, to, amount); err != nil {
		return err
	}
	op.transfers = append(op.transfers, transfer{dir: transferOut, asset: asset, account: to, amount: amount})
	return nil
}

// emit stamps e with the next sequence number and queues it for commit.
func (op *operation) emit(e *event.Event) {
	op.state.EventSequence++
	e.Sequence = op.state.EventSequence
	e.Timestamp = op.ts
	op.events = append(op.events, e)
}

// changed returns the loaded accounts that need writing. An account the
// store never saw is only written once it holds something.
func (op *operation) changed() []*account.Account {
	var out []*account.Account
	for _, la := range op.loaded {
		if la.original == nil {
			if la.working.IsZero() {
				continue
			}
		} else if la.working.SameBalances(la.original) {
			continue
		}
		out = append(out, la.working)
	}
	return out
}

func (op *operation) commit() error {
	accounts := op.changed()
	for _, a := range accounts {
		a.Touch()
	}
	op.state.Touch()

	cp := &store.Checkpoint{
		State:    &op.state,
		Accounts: accounts,
		Events:   op.events,
	}
	if err := op.l.store.Commit(op.ctx, cp); err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}
	return nil
}

// rollback reverses completed transfers, newest first. A reversal that
// fails leaves custody out of step with the ledger and is logged.
func (op *operation) rollback() {
	ctx := context.WithoutCancel(op.ctx)
	for i := len(op.transfers) - 1; i >= 0; i-- {
		t := op.transfers[i]

		var err error
		switch t.dir {
		case transferIn:
			err = op.l.custody.TransferOut(ctx, t.asset, t.account, t.amount)
		case transferOut:
			err = op.l.custody.TransferIn(ctx, t.asset, t.account, t.amount)
		}
		if err != nil {
			op.l.logger.Error("stakeledger: compensating transfer failed",
				"asset", t.asset,
				"account", t.account,
				"amount", t.amount,
				"error", err,
			)
		}
	}
	op.transfers = nil
}

// dispatch forwards committed events to plugins in sequence order.
func (l *Ledger) dispatch(ctx context.Context, events []*event.Event) {
	for _, e := range events {
		switch e.Type {
		case event.TypeStaked:
			l.plugins.EmitStaked(ctx, e.AccountID, e.Amount)
		case event.TypeWithdrawn:
			l.plugins.EmitWithdrawn(ctx, e.AccountID, e.Amount)
		case event.TypeRewardPaid:
			l.plugins.EmitRewardPaid(ctx, e.AccountID, e.Amount)
		case event.TypeRewardAdded:
			l.plugins.EmitRewardAdded(ctx, e.Amount)
		case event.TypeRewardRateUpdated:
			l.plugins.EmitRewardRateUpdated(ctx, e.Amount)
		case event.TypeRecovered:
			l.plugins.EmitAssetRecovered(ctx, e.AssetID, e.AccountID, e.Amount)
		}
	}
}
