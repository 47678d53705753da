package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/stakeledger/account"
	"github.com/xraph/stakeledger/event"
	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/pool"
	"github.com/xraph/stakeledger/types"
)

// max uint256, which does not fit any SQL integer type
const maxAmount = "115792089237316195423570985008687907853269984665640564039457584007913129639935"

func TestStateModelKeepsFullPrecision(t *testing.T) {
	st := &pool.State{
		TotalStaked:              types.MustParseAmount(maxAmount),
		RewardRate:               types.NewAmount(7),
		RewardPerStakeUnitStored: types.MustParseAmount("864000000000000000000"),
		LastUpdateTime:           1_700_000_000,
		PeriodFinish:             1_700_604_800,
		EventSequence:            9,
	}

	m := toStateModel(st)
	assert.Equal(t, stateRowID, m.ID)
	assert.Equal(t, maxAmount, m.TotalStaked)

	back, err := fromStateModel(m)
	require.NoError(t, err)
	assert.Equal(t, maxAmount, back.TotalStaked.String())
	assert.Equal(t, "864000000000000000000", back.RewardPerStakeUnitStored.String())
	assert.Equal(t, st.PeriodFinish, back.PeriodFinish)
	assert.Equal(t, st.EventSequence, back.EventSequence)
}

func TestAccountModelRejectsCorruptAmounts(t *testing.T) {
	a := account.New(id.NewAccountID())
	a.Principal = types.NewAmount(10)

	m := toAccountModel(a)
	m.AccruedReward = "-3"

	_, err := fromAccountModel(m)
	assert.Error(t, err)
}

func TestEventModelLedgerWideEvent(t *testing.T) {
	e := event.RewardAdded(types.NewAmount(604_800), time.Unix(1_700_000_000, 0).UTC())
	e.Sequence = 3

	m := toEventModel(e)
	assert.Empty(t, m.AccountID)
	assert.Empty(t, m.AssetID)

	back, err := fromEventModel(m)
	require.NoError(t, err)
	assert.True(t, back.AccountID.IsNil())
	assert.Equal(t, event.TypeRewardAdded, back.Type)
	assert.Equal(t, int64(3), back.Sequence)
	assert.Equal(t, e.ID.String(), back.ID.String())
}
