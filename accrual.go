package stakeledger

import (
	"github.com/xraph/stakeledger/account"
	"github.com/xraph/stakeledger/pool"
	"github.com/xraph/stakeledger/types"
)

// rewardPerStakeUnit projects the accumulator forward to now without
// mutating st. It does not advance while nothing is staked, so reward for
// that gap is never attributed to anyone.
func rewardPerStakeUnit(st *pool.State, now int64) (types.Amount, error) {
	if st.TotalStaked.IsZero() {
		return st.RewardPerStakeUnitStored, nil
	}

	applicable := st.LastTimeRewardApplicable(now)
	if applicable <= st.LastUpdateTime {
		return st.RewardPerStakeUnitStored, nil
	}

	elapsed := uint64(applicable - st.LastUpdateTime)
	emitted, err := st.RewardRate.MulUint64(elapsed)
	if err != nil {
		return types.Zero(), err
	}
	scaled, err := emitted.Mul(types.Precision)
	if err != nil {
		return types.Zero(), err
	}
	delta, err := scaled.Div(st.TotalStaked)
	if err != nil {
		return types.Zero(), err
	}
	return st.RewardPerStakeUnitStored.Add(delta)
}

// earnedAt returns a's total claimable reward against accumulator value rps.
func earnedAt(a *account.Account, rps types.Amount) (types.Amount, error) {
	diff, err := rps.Sub(a.RewardPerStakeUnitPaid)
	if err != nil {
		return types.Zero(), err
	}
	weighted, err := a.Principal.Mul(diff)
	if err != nil {
		return types.Zero(), err
	}
	pending, err := weighted.Div(types.Precision)
	if err != nil {
		return types.Zero(), err
	}
	return pending.Add(a.AccruedReward)
}

// settle advances st to now and, when a is non-nil, folds the reward a
// earned since its last settlement into AccruedReward.
func settle(st *pool.State, a *account.Account, now int64) error {
	rps, err := rewardPerStakeUnit(st, now)
	if err != nil {
		return err
	}
	st.RewardPerStakeUnitStored = rps
	if applicable := st.LastTimeRewardApplicable(now); applicable > st.LastUpdateTime {
		st.LastUpdateTime = applicable
	}

	if a == nil {
		return nil
	}
	accrued, err := earnedAt(a, rps)
	if err != nil {
		return err
	}
	a.AccruedReward = accrued
	a.RewardPerStakeUnitPaid = rps
	return nil
}
