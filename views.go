package stakeledger

import (
	"context"
	"fmt"
	"time"

	"github.com/xraph/stakeledger/account"
	"github.com/xraph/stakeledger/event"
	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/pool"
	"github.com/xraph/stakeledger/types"
)

// view runs fn under the read lock against the committed state.
func (l *Ledger) view(fn func(st *pool.State, now int64) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.started {
		return ErrNotStarted
	}
	st := l.state
	return fn(&st, l.clock.Now().Unix())
}

// loadAccount returns the committed account, or a zero account when the
// store has never seen accountID.
func (l *Ledger) loadAccount(ctx context.Context, accountID id.AccountID) (*account.Account, error) {
	a, err := l.store.GetAccount(ctx, accountID)
	if IsNotFound(err) {
		return account.New(accountID), nil
	}
	return a, err
}

// Earned returns the reward accountID could claim right now.
func (l *Ledger) Earned(ctx context.Context, accountID id.AccountID) (types.Amount, error) {
	var earned types.Amount
	err := l.view(func(st *pool.State, now int64) error {
		a, err := l.loadAccount(ctx, accountID)
		if err != nil {
			return err
		}
		rps, err := rewardPerStakeUnit(st, now)
		if err != nil {
			return err
		}
		earned, err = earnedAt(a, rps)
		return err
	})
	return earned, err
}

// RewardPerStakeUnit returns the accumulator projected to now.
func (l *Ledger) RewardPerStakeUnit(_ context.Context) (types.Amount, error) {
	var rps types.Amount
	err := l.view(func(st *pool.State, now int64) error {
		var err error
		rps, err = rewardPerStakeUnit(st, now)
		return err
	})
	return rps, err
}

// LastTimeRewardApplicable returns min(now, period finish).
func (l *Ledger) LastTimeRewardApplicable(_ context.Context) (time.Time, error) {
	var t time.Time
	err := l.view(func(st *pool.State, now int64) error {
		t = time.Unix(st.LastTimeRewardApplicable(now), 0).UTC()
		return nil
	})
	return t, err
}

// RewardForDuration returns what the current rate emits over a full period.
func (l *Ledger) RewardForDuration(_ context.Context) (types.Amount, error) {
	var total types.Amount
	err := l.view(func(st *pool.State, _ int64) error {
		var err error
		total, err = st.RewardRate.MulUint64(uint64(l.rewardDuration.Seconds()))
		return err
	})
	return total, err
}

// TotalStaked returns the sum of all principal.
func (l *Ledger) TotalStaked(_ context.Context) (types.Amount, error) {
	var total types.Amount
	err := l.view(func(st *pool.State, _ int64) error {
		total = st.TotalStaked
		return nil
	})
	return total, err
}

// State returns a snapshot of the committed accounting state.
func (l *Ledger) State(_ context.Context) (pool.State, error) {
	var snapshot pool.State
	err := l.view(func(st *pool.State, _ int64) error {
		snapshot = *st
		return nil
	})
	return snapshot, err
}

// Account returns the committed record for accountID. Unknown accounts are
// returned with zero values.
func (l *Ledger) Account(ctx context.Context, accountID id.AccountID) (*account.Account, error) {
	var a *account.Account
	err := l.view(func(_ *pool.State, _ int64) error {
		var err error
		a, err = l.loadAccount(ctx, accountID)
		return err
	})
	return a, err
}

// StakedDuration returns how long accountID has been continuously staked,
// or zero if it holds no principal.
func (l *Ledger) StakedDuration(ctx context.Context, accountID id.AccountID) (time.Duration, error) {
	var d time.Duration
	err := l.view(func(_ *pool.State, now int64) error {
		a, err := l.loadAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if a.StakeAnchorTime != 0 && now > a.StakeAnchorTime {
			d = time.Duration(now-a.StakeAnchorTime) * time.Second
		}
		return nil
	})
	return d, err
}

// Events lists committed events in sequence order.
func (l *Ledger) Events(ctx context.Context, opts event.ListOpts) ([]*event.Event, error) {
	var events []*event.Event
	err := l.view(func(_ *pool.State, _ int64) error {
		var err error
		events, err = l.store.ListEvents(ctx, opts)
		return err
	})
	return events, err
}

// VerifyConservation checks the stored accounts against the committed
// state: principals must sum to TotalStaked, and an account is anchored
// exactly when it holds principal.
func (l *Ledger) VerifyConservation(ctx context.Context) error {
	return l.view(func(st *pool.State, _ int64) error {
		accounts, err := l.store.ListAccounts(ctx, account.ListOpts{})
		if err != nil {
			return err
		}

		var errs MultiError
		sum := types.Zero()
		for _, a := range accounts {
			if sum, err = sum.Add(a.Principal); err != nil {
				return err
			}
			if a.Principal.IsZero() != (a.StakeAnchorTime == 0) {
				errs.Add(fmt.Errorf("%w: account %s has principal %s with anchor %d",
					ErrInvariantViolated, a.ID, a.Principal, a.StakeAnchorTime))
			}
		}
		if !sum.Equal(st.TotalStaked) {
			errs.Add(fmt.Errorf("%w: principals sum to %s, total staked is %s",
				ErrInvariantViolated, sum, st.TotalStaked))
		}
		return errs.ErrorOrNil()
	})
}
