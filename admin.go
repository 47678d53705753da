package stakeledger

import (
	"context"
	"fmt"

	"github.com/xraph/stakeledger/event"
	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/types"
)

// NotifyRewardAmount funds a new emission period with amount of the reward
// asset taken from caller. Reward still unemitted from a running period is
// rolled into the new one, and the period restarts at now.
func (l *Ledger) NotifyRewardAmount(ctx context.Context, caller id.AccountID, amount types.Amount) error {
	if !l.access.IsAdmin(ctx, caller) {
		return ErrUnauthorized
	}
	if amount.IsZero() {
		return ErrInvalidAmount
	}

	var rate types.Amount
	var finish int64
	_, err := l.mutate(ctx, func(op *operation) error {
		if err := op.settle(nil); err != nil {
			return err
		}

		duration := uint64(l.rewardDuration.Seconds())
		budget := amount
		if op.now < op.state.PeriodFinish {
			leftover, err := op.state.RewardRate.MulUint64(uint64(op.state.PeriodFinish - op.now))
			if err != nil {
				return err
			}
			if budget, err = budget.Add(leftover); err != nil {
				return err
			}
		}

		var err error
		if rate, err = budget.DivUint64(duration); err != nil {
			return err
		}
		if rate.IsZero() {
			return fmt.Errorf("%w: %s over %ds", ErrRateTooLow, budget, duration)
		}

		if err := op.transferIn(l.rewardAsset, caller, amount); err != nil {
			return err
		}

		op.state.RewardRate = rate
		op.state.LastUpdateTime = op.now
		op.state.PeriodFinish = op.now + int64(duration)
		finish = op.state.PeriodFinish

		op.emit(event.RewardAdded(amount, op.ts))
		op.emit(event.RewardRateUpdated(rate, op.ts))
		return nil
	})
	if err != nil {
		return err
	}

	l.logger.Info("reward period funded",
		"caller", caller,
		"amount", amount,
		"rate", rate,
		"period_finish", finish,
	)
	return nil
}

// UpdateRewardRate overrides the per-second reward rate without touching
// the period end. Reward emitted so far is settled at the old rate.
func (l *Ledger) UpdateRewardRate(ctx context.Context, caller id.AccountID, rate types.Amount) error {
	if !l.access.IsAdmin(ctx, caller) {
		return ErrUnauthorized
	}
	if rate.IsZero() {
		return ErrInvalidRate
	}

	_, err := l.mutate(ctx, func(op *operation) error {
		if err := op.settle(nil); err != nil {
			return err
		}
		op.state.RewardRate = rate
		op.emit(event.RewardRateUpdated(rate, op.ts))
		return nil
	})
	if err != nil {
		return err
	}

	l.logger.Info("reward rate updated", "caller", caller, "rate", rate)
	return nil
}

// RecoverAsset sends amount of an asset that was transferred to custody by
// mistake to caller. The stake and reward assets are never recoverable.
func (l *Ledger) RecoverAsset(ctx context.Context, caller id.AccountID, assetID id.AssetID, amount types.Amount) error {
	if !l.access.IsAdmin(ctx, caller) {
		return ErrUnauthorized
	}
	if assetID.String() == l.stakeAsset.String() || assetID.String() == l.rewardAsset.String() {
		return fmt.Errorf("%w: %s", ErrProtectedAsset, assetID)
	}
	if amount.IsZero() {
		return ErrInvalidAmount
	}

	_, err := l.mutate(ctx, func(op *operation) error {
		if err := op.transferOut(assetID, caller, amount); err != nil {
			return err
		}
		op.emit(event.Recovered(caller, assetID, amount, op.ts))
		return nil
	})
	if err != nil {
		return err
	}

	l.logger.Info("asset recovered",
		"caller", caller,
		"asset", assetID,
		"amount", amount,
	)
	return nil
}
