// Package pool defines the ledger-wide reward accounting state.
package pool

import (
	"time"

	"github.com/xraph/stakeledger/types"
)

// State is the singleton accounting state of a ledger. Its fields are only
// ever updated together, under the ledger's write lock.
type State struct {
	types.Entity

	// TotalStaked is the sum of every account's principal.
	TotalStaked types.Amount `json:"total_staked"`

	// RewardRate is the number of reward units emitted per second, shared
	// by all staked principal.
	RewardRate types.Amount `json:"reward_rate"`

	// RewardPerStakeUnitStored is the cumulative reward per unit of stake,
	// scaled by types.Precision, as of LastUpdateTime.
	RewardPerStakeUnitStored types.Amount `json:"reward_per_stake_unit_stored"`

	// LastUpdateTime is the unix second the accumulator was last advanced to.
	LastUpdateTime int64 `json:"last_update_time"`

	// PeriodFinish is the unix second the current emission period ends.
	// Zero until the first reward notification.
	PeriodFinish int64 `json:"period_finish"`

	// EventSequence is the sequence number of the last committed event.
	EventSequence int64 `json:"event_sequence"`
}

// LastTimeRewardApplicable returns min(now, PeriodFinish).
func (s *State) LastTimeRewardApplicable(now int64) int64 {
	if now < s.PeriodFinish {
		return now
	}
	return s.PeriodFinish
}

// PeriodActive reports whether rewards are still being emitted at now.
func (s *State) PeriodActive(now int64) bool {
	return now < s.PeriodFinish
}

// PeriodFinishTime returns PeriodFinish as a time, or the zero time when no
// period was ever started.
func (s *State) PeriodFinishTime() time.Time {
	if s.PeriodFinish == 0 {
		return time.Time{}
	}
	return time.Unix(s.PeriodFinish, 0).UTC()
}
