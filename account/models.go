// Package account defines the per-participant staking record.
package account

import (
	"time"

	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/types"
)

// Account is the ledger's view of one staking participant. Accounts are
// created lazily on first use and never deleted; an inactive account simply
// carries zero values.
type Account struct {
	types.Entity
	ID id.AccountID `json:"id"`

	// Principal is the currently staked amount of the stake asset.
	Principal types.Amount `json:"principal"`

	// RewardPerStakeUnitPaid is the accumulator value at the account's last
	// settlement.
	RewardPerStakeUnitPaid types.Amount `json:"reward_per_stake_unit_paid"`

	// AccruedReward is reward owed but not yet claimed, frozen at the last
	// settlement.
	AccruedReward types.Amount `json:"accrued_reward"`

	// StakeAnchorTime is the unix second of the first stake since the
	// account last unwound to zero principal, or 0 when inactive.
	StakeAnchorTime int64 `json:"stake_anchor_time"`
}

// New returns the zero-valued account for accountID.
func New(accountID id.AccountID) *Account {
	return &Account{ID: accountID}
}

// Clone returns a copy that can be mutated without affecting a.
func (a *Account) Clone() *Account {
	c := *a
	return &c
}

// SameBalances reports whether a and b carry identical accounting fields.
// Timestamps are ignored.
func (a *Account) SameBalances(b *Account) bool {
	return a.Principal.Equal(b.Principal) &&
		a.RewardPerStakeUnitPaid.Equal(b.RewardPerStakeUnitPaid) &&
		a.AccruedReward.Equal(b.AccruedReward) &&
		a.StakeAnchorTime == b.StakeAnchorTime
}

// IsZero reports whether the account holds nothing: no principal, no
// unpaid reward and no anchor. Such an account earns nothing whatever its
// paid checkpoint says.
func (a *Account) IsZero() bool {
	return a.Principal.IsZero() && a.AccruedReward.IsZero() && a.StakeAnchorTime == 0
}

// IsActive reports whether the account holds any principal.
func (a *Account) IsActive() bool {
	return !a.Principal.IsZero()
}

// StakedSince returns the anchor as a time, or the zero time when inactive.
func (a *Account) StakedSince() time.Time {
	if a.StakeAnchorTime == 0 {
		return time.Time{}
	}
	return time.Unix(a.StakeAnchorTime, 0).UTC()
}
