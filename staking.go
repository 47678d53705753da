package stakeledger

import (
	"context"
	"fmt"

	"github.com/xraph/stakeledger/account"
	"github.com/xraph/stakeledger/event"
	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/types"
)

// ──────────────────────────────────────────────────
// Principal
// ──────────────────────────────────────────────────

// Stake moves amount of the stake asset from accountID into custody and
// credits it as principal. The first stake after an account unwinds to
// zero starts a new lock window.
func (l *Ledger) Stake(ctx context.Context, accountID id.AccountID, amount types.Amount) error {
	if amount.IsZero() {
		return ErrInvalidAmount
	}

	_, err := l.mutate(ctx, func(op *operation) error {
		a, err := op.account(accountID)
		if err != nil {
			return err
		}
		if err := op.settle(a); err != nil {
			return err
		}

		if a.Principal.IsZero() {
			a.StakeAnchorTime = op.now
		}
		if a.Principal, err = a.Principal.Add(amount); err != nil {
			return err
		}
		if op.state.TotalStaked, err = op.state.TotalStaked.Add(amount); err != nil {
			return err
		}

		if err := op.transferIn(l.stakeAsset, accountID, amount); err != nil {
			return err
		}
		op.emit(event.Staked(accountID, amount, op.ts))
		return nil
	})
	if err != nil {
		return err
	}

	l.logger.Debug("staked", "account", accountID, "amount", amount)
	return nil
}

// Withdraw returns amount of principal to accountID once the minimum
// staking period has elapsed since its anchor.
func (l *Ledger) Withdraw(ctx context.Context, accountID id.AccountID, amount types.Amount) error {
	if amount.IsZero() {
		return ErrInvalidAmount
	}

	_, err := l.mutate(ctx, func(op *operation) error {
		a, err := op.account(accountID)
		if err != nil {
			return err
		}
		if a.Principal.LessThan(amount) {
			return fmt.Errorf("%w: requested %s, staked %s", ErrInsufficientStake, amount, a.Principal)
		}
		if err := l.checkLock(a, op.now); err != nil {
			return err
		}
		if err := op.settle(a); err != nil {
			return err
		}
		return op.withdraw(a, amount)
	})
	if err != nil {
		return err
	}

	l.logger.Debug("withdrawn", "account", accountID, "amount", amount)
	return nil
}

// ──────────────────────────────────────────────────
// Rewards
// ──────────────────────────────────────────────────

// Claim pays out everything accountID has earned so far and returns the
// amount paid. A second claim at the same instant pays zero.
func (l *Ledger) Claim(ctx context.Context, accountID id.AccountID) (types.Amount, error) {
	var reward types.Amount

	_, err := l.mutate(ctx, func(op *operation) error {
		a, err := op.account(accountID)
		if err != nil {
			return err
		}
		if err := op.settle(a); err != nil {
			return err
		}
		reward, err = op.payReward(a)
		return err
	})
	if err != nil {
		return types.Zero(), err
	}

	l.logger.Debug("reward claimed", "account", accountID, "amount", reward)
	return reward, nil
}

// Exit withdraws all principal and claims all reward in one atomic step.
// It returns the reward paid.
func (l *Ledger) Exit(ctx context.Context, accountID id.AccountID) (types.Amount, error) {
	var principal, reward types.Amount

	_, err := l.mutate(ctx, func(op *operation) error {
		a, err := op.account(accountID)
		if err != nil {
			return err
		}
		if a.Principal.IsZero() {
			return ErrNoStake
		}
		if err := l.checkLock(a, op.now); err != nil {
			return err
		}

		principal = a.Principal
		if err := op.settle(a); err != nil {
			return err
		}
		if err := op.withdraw(a, principal); err != nil {
			return err
		}

		if err := op.settle(a); err != nil {
			return err
		}
		reward, err = op.payReward(a)
		return err
	})
	if err != nil {
		return types.Zero(), err
	}

	l.logger.Debug("exited",
		"account", accountID,
		"principal", principal,
		"reward", reward,
	)
	return reward, nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func (l *Ledger) checkLock(a *account.Account, now int64) error {
	unlock := a.StakeAnchorTime + int64(l.minStakingPeriod.Seconds())
	if now < unlock {
		return fmt.Errorf("%w: unlocks in %ds", ErrLockPeriodActive, unlock-now)
	}
	return nil
}

func (op *operation) withdraw(a *account.Account, amount types.Amount) error {
	var err error
	if a.Principal, err = a.Principal.Sub(amount); err != nil {
		return err
	}
	if op.state.TotalStaked, err = op.state.TotalStaked.Sub(amount); err != nil {
		return err
	}
	if a.Principal.IsZero() {
		a.StakeAnchorTime = 0
	}

	if err := op.transferOut(op.l.stakeAsset, a.ID, amount); err != nil {
		return err
	}
	op.emit(event.Withdrawn(a.ID, amount, op.ts))
	return nil
}

// payReward transfers a's accrued reward. It must run after settlement.
func (op *operation) payReward(a *account.Account) (types.Amount, error) {
	reward := a.AccruedReward
	if reward.IsZero() {
		return reward, nil
	}

	a.AccruedReward = types.Zero()
	if err := op.transferOut(op.l.rewardAsset, a.ID, reward); err != nil {
		return types.Zero(), err
	}
	op.emit(event.RewardPaid(a.ID, reward, op.ts))
	return reward, nil
}
