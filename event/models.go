// Package event defines the observable facts a ledger emits.
package event

import (
	"time"

	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/types"
)

type Type string

const (
	TypeStaked            Type = "staked"
	TypeWithdrawn         Type = "withdrawn"
	TypeRewardPaid        Type = "reward_paid"
	TypeRewardAdded       Type = "reward_added"
	TypeRewardRateUpdated Type = "reward_rate_updated"
	TypeRecovered         Type = "recovered"
)

// Event is one committed ledger fact. AccountID is Nil for ledger-wide
// events (RewardAdded, RewardRateUpdated); AssetID is only set for
// Recovered.
type Event struct {
	ID        id.EventID   `json:"id"`
	Type      Type         `json:"type"`
	AccountID id.AccountID `json:"account_id,omitempty"`
	AssetID   id.AssetID   `json:"asset_id,omitempty"`
	Amount    types.Amount `json:"amount"`
	Timestamp time.Time    `json:"timestamp"`
	Sequence  int64        `json:"sequence"`
}

// New creates an event of the given type stamped at ts.
func New(t Type, accountID id.AccountID, amount types.Amount, ts time.Time) *Event {
	return &Event{
		ID:        id.NewEventID(),
		Type:      t,
		AccountID: accountID,
		Amount:    amount,
		Timestamp: ts,
	}
}

// Staked records a deposit of principal.
func Staked(accountID id.AccountID, amount types.Amount, ts time.Time) *Event {
	return New(TypeStaked, accountID, amount, ts)
}

// Withdrawn records a return of principal.
func Withdrawn(accountID id.AccountID, amount types.Amount, ts time.Time) *Event {
	return New(TypeWithdrawn, accountID, amount, ts)
}

// RewardPaid records a reward transfer to an account.
func RewardPaid(accountID id.AccountID, amount types.Amount, ts time.Time) *Event {
	return New(TypeRewardPaid, accountID, amount, ts)
}

// RewardAdded records funding of a reward period.
func RewardAdded(amount types.Amount, ts time.Time) *Event {
	return New(TypeRewardAdded, id.Nil, amount, ts)
}

// RewardRateUpdated records the new per-second reward rate.
func RewardRateUpdated(rate types.Amount, ts time.Time) *Event {
	return New(TypeRewardRateUpdated, id.Nil, rate, ts)
}

// Recovered records an admin recovery of a foreign asset to recipient.
func Recovered(recipient id.AccountID, assetID id.AssetID, amount types.Amount, ts time.Time) *Event {
	e := New(TypeRecovered, recipient, amount, ts)
	e.AssetID = assetID
	return e
}
