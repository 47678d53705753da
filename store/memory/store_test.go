package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/stakeledger"
	"github.com/xraph/stakeledger/account"
	"github.com/xraph/stakeledger/event"
	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/pool"
	ledgerstore "github.com/xraph/stakeledger/store"
	"github.com/xraph/stakeledger/store/memory"
	"github.com/xraph/stakeledger/types"
)

func TestEmptyStore(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	_, err := s.GetState(ctx)
	assert.ErrorIs(t, err, stakeledger.ErrStateNotFound)

	_, err = s.GetAccount(ctx, id.NewAccountID())
	assert.ErrorIs(t, err, stakeledger.ErrAccountNotFound)
	assert.True(t, stakeledger.IsNotFound(err))
}

func TestCommitAndRead(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	active := account.New(id.NewAccountID())
	active.Principal = types.NewAmount(100)
	active.StakeAnchorTime = 1_700_000_000
	idle := account.New(id.NewAccountID())

	ts := time.Unix(1_700_000_000, 0).UTC()
	staked := event.Staked(active.ID, types.NewAmount(100), ts)
	staked.Sequence = 1
	added := event.RewardAdded(types.NewAmount(5), ts.Add(time.Minute))
	added.Sequence = 2

	require.NoError(t, s.Commit(ctx, &ledgerstore.Checkpoint{
		State:    &pool.State{TotalStaked: types.NewAmount(100), EventSequence: 2},
		Accounts: []*account.Account{active, idle},
		Events:   []*event.Event{staked, added},
	}))

	st, err := s.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, "100", st.TotalStaked.String())
	assert.Equal(t, int64(2), st.EventSequence)

	got, err := s.GetAccount(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", got.Principal.String())

	// returned records are copies
	got.Principal = types.NewAmount(1)
	again, err := s.GetAccount(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", again.Principal.String())

	all, err := s.ListAccounts(ctx, account.ListOpts{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyActive, err := s.ListAccounts(ctx, account.ListOpts{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, active.ID.String(), onlyActive[0].ID.String())

	tests := []struct {
		name string
		opts event.ListOpts
		want int
	}{
		{"all", event.ListOpts{}, 2},
		{"by account", event.ListOpts{AccountID: active.ID}, 1},
		{"by type", event.ListOpts{Type: event.TypeRewardAdded}, 1},
		{"end is exclusive", event.ListOpts{End: ts.Add(time.Minute)}, 1},
		{"start is inclusive", event.ListOpts{Start: ts.Add(time.Minute)}, 1},
		{"limit", event.ListOpts{Limit: 1}, 1},
		{"offset past end", event.ListOpts{Offset: 5}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := s.ListEvents(ctx, tt.opts)
			require.NoError(t, err)
			assert.Len(t, events, tt.want)
		})
	}
}

func TestCommitWithoutStateKeepsState(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	require.NoError(t, s.Commit(ctx, &ledgerstore.Checkpoint{State: &pool.State{PeriodFinish: 42}}))
	require.NoError(t, s.Commit(ctx, &ledgerstore.Checkpoint{}))

	st, err := s.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), st.PeriodFinish)
}

func TestClosedStore(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Ping(ctx), stakeledger.ErrStoreClosed)
	assert.ErrorIs(t, s.Commit(ctx, &ledgerstore.Checkpoint{}), stakeledger.ErrStoreClosed)
	_, err := s.ListEvents(ctx, event.ListOpts{})
	assert.ErrorIs(t, err, stakeledger.ErrStoreClosed)
}
