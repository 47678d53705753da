package postgres

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/stakeledger/account"
	"github.com/xraph/stakeledger/event"
	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/pool"
	"github.com/xraph/stakeledger/types"
)

// stateRowID is the primary key of the singleton state row.
const stateRowID = 1

// ==================== State models ====================

type stateModel struct {
	grove.BaseModel `grove:"table:stakeledger_state"`

	ID                       int       `grove:"id,pk"`
	TotalStaked              string    `grove:"total_staked"`
	RewardRate               string    `grove:"reward_rate"`
	RewardPerStakeUnitStored string    `grove:"reward_per_stake_unit_stored"`
	LastUpdateTime           int64     `grove:"last_update_time"`
	PeriodFinish             int64     `grove:"period_finish"`
	EventSequence            int64     `grove:"event_sequence"`
	CreatedAt                time.Time `grove:"created_at"`
	UpdatedAt                time.Time `grove:"updated_at"`
}

func toStateModel(st *pool.State) *stateModel {
	return &stateModel{
		ID:                       stateRowID,
		TotalStaked:              st.TotalStaked.String(),
		RewardRate:               st.RewardRate.String(),
		RewardPerStakeUnitStored: st.RewardPerStakeUnitStored.String(),
		LastUpdateTime:           st.LastUpdateTime,
		PeriodFinish:             st.PeriodFinish,
		EventSequence:            st.EventSequence,
		CreatedAt:                st.CreatedAt,
		UpdatedAt:                st.UpdatedAt,
	}
}

func fromStateModel(m *stateModel) (*pool.State, error) {
	total, err := types.ParseAmount(m.TotalStaked)
	if err != nil {
		return nil, err
	}
	rate, err := types.ParseAmount(m.RewardRate)
	if err != nil {
		return nil, err
	}
	rps, err := types.ParseAmount(m.RewardPerStakeUnitStored)
	if err != nil {
		return nil, err
	}

	return &pool.State{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		TotalStaked:              total,
		RewardRate:               rate,
		RewardPerStakeUnitStored: rps,
		LastUpdateTime:           m.LastUpdateTime,
		PeriodFinish:             m.PeriodFinish,
		EventSequence:            m.EventSequence,
	}, nil
}

// ==================== Account models ====================

type accountModel struct {
	grove.BaseModel `grove:"table:stakeledger_accounts"`

	ID                     string    `grove:"id,pk"`
	Principal              string    `grove:"principal"`
	RewardPerStakeUnitPaid string    `grove:"reward_per_stake_unit_paid"`
	AccruedReward          string    `grove:"accrued_reward"`
	StakeAnchorTime        int64     `grove:"stake_anchor_time"`
	CreatedAt              time.Time `grove:"created_at"`
	UpdatedAt              time.Time `grove:"updated_at"`
}

func toAccountModel(a *account.Account) *accountModel {
	return &accountModel{
		ID:                     a.ID.String(),
		Principal:              a.Principal.String(),
		RewardPerStakeUnitPaid: a.RewardPerStakeUnitPaid.String(),
		AccruedReward:          a.AccruedReward.String(),
		StakeAnchorTime:        a.StakeAnchorTime,
		CreatedAt:              a.CreatedAt,
		UpdatedAt:              a.UpdatedAt,
	}
}

func fromAccountModel(m *accountModel) (*account.Account, error) {
	accountID, err := id.ParseAccountID(m.ID)
	if err != nil {
		return nil, err
	}
	principal, err := types.ParseAmount(m.Principal)
	if err != nil {
		return nil, err
	}
	paid, err := types.ParseAmount(m.RewardPerStakeUnitPaid)
	if err != nil {
		return nil, err
	}
	accrued, err := types.ParseAmount(m.AccruedReward)
	if err != nil {
		return nil, err
	}

	return &account.Account{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:                     accountID,
		Principal:              principal,
		RewardPerStakeUnitPaid: paid,
		AccruedReward:          accrued,
		StakeAnchorTime:        m.StakeAnchorTime,
	}, nil
}

// ==================== Event models ====================

type eventModel struct {
	grove.BaseModel `grove:"table:stakeledger_events"`

	ID        string    `grove:"id,pk"`
	Sequence  int64     `grove:"sequence"`
	Type      string    `grove:"type"`
	AccountID string    `grove:"account_id"`
	AssetID   string    `grove:"asset_id"`
	Amount    string    `grove:"amount"`
	Timestamp time.Time `grove:"timestamp"`
}

func toEventModel(e *event.Event) *eventModel {
	m := &eventModel{
		ID:        e.ID.String(),
		Sequence:  e.Sequence,
		Type:      string(e.Type),
		Amount:    e.Amount.String(),
		Timestamp: e.Timestamp,
	}
	if !e.AccountID.IsNil() {
		m.AccountID = e.AccountID.String()
	}
	if !e.AssetID.IsNil() {
		m.AssetID = e.AssetID.String()
	}
	return m
}

func fromEventModel(m *eventModel) (*event.Event, error) {
	eventID, err := id.ParseEventID(m.ID)
	if err != nil {
		return nil, err
	}
	amount, err := types.ParseAmount(m.Amount)
	if err != nil {
		return nil, err
	}

	e := &event.Event{
		ID:        eventID,
		Type:      event.Type(m.Type),
		Amount:    amount,
		Timestamp: m.Timestamp,
		Sequence:  m.Sequence,
	}
	if m.AccountID != "" {
		if e.AccountID, err = id.ParseAccountID(m.AccountID); err != nil {
			return nil, err
		}
	}
	if m.AssetID != "" {
		if e.AssetID, err = id.ParseAssetID(m.AssetID); err != nil {
			return nil, err
		}
	}
	return e, nil
}
