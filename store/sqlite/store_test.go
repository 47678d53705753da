package sqlite_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"

	"github.com/xraph/stakeledger"
	"github.com/xraph/stakeledger/access"
	"github.com/xraph/stakeledger/account"
	"github.com/xraph/stakeledger/clock"
	custodymem "github.com/xraph/stakeledger/custody/memory"
	"github.com/xraph/stakeledger/event"
	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/pool"
	ledgerstore "github.com/xraph/stakeledger/store"
	"github.com/xraph/stakeledger/store/sqlite"
	"github.com/xraph/stakeledger/types"
)

var epoch = time.Unix(1_700_000_000, 0).UTC()

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	drv := sqlitedriver.New()
	require.NoError(t, drv.Open(context.Background(), path))
	db, err := grove.Open(drv)
	require.NoError(t, err)
	return sqlite.New(db)
}

func dbPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "stakeledger.db")
}

type harness struct {
	clock       *clock.Manual
	vault       *custodymem.Vault
	admin       id.AccountID
	alice, bob  id.AccountID
	stake       id.AssetID
	reward      id.AssetID
	accessAdmin *access.Admins
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock:  clock.NewManual(epoch),
		vault:  custodymem.New(id.NewAccountID()),
		admin:  id.NewAccountID(),
		alice:  id.NewAccountID(),
		bob:    id.NewAccountID(),
		stake:  id.NewAssetID(),
		reward: id.NewAssetID(),
	}
	h.accessAdmin = access.NewAdmins(h.admin)
	require.NoError(t, h.vault.Mint(h.stake, h.alice, types.NewAmount(1000)))
	require.NoError(t, h.vault.Mint(h.stake, h.bob, types.NewAmount(1000)))
	require.NoError(t, h.vault.Mint(h.reward, h.admin, types.NewAmount(10_000_000)))
	return h
}

func (h *harness) ledger(t *testing.T, s ledgerstore.Store) *stakeledger.Ledger {
	t.Helper()
	l := stakeledger.New(s, h.vault,
		stakeledger.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		stakeledger.WithClock(h.clock),
		stakeledger.WithAccess(h.accessAdmin),
		stakeledger.WithAssets(h.stake, h.reward),
		stakeledger.WithMinStakingPeriod(0),
	)
	require.NoError(t, l.Start(context.Background()))
	return l
}

func (h *harness) balance(t *testing.T, asset id.AssetID, holder id.AccountID) string {
	t.Helper()
	b, err := h.vault.BalanceOf(context.Background(), asset, holder)
	require.NoError(t, err)
	return b.String()
}

func TestLedgerSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := dbPath(t)
	h := newHarness(t)

	l := h.ledger(t, openStore(t, path))
	require.NoError(t, l.NotifyRewardAmount(ctx, h.admin, types.NewAmount(604800)))
	require.NoError(t, l.Stake(ctx, h.alice, types.NewAmount(100)))
	h.clock.Advance(time.Hour)
	require.NoError(t, l.Stake(ctx, h.alice, types.NewAmount(50)))
	h.clock.Advance(time.Hour)
	require.NoError(t, l.Stop())

	reopened := h.ledger(t, openStore(t, path))
	t.Cleanup(func() { _ = reopened.Stop() })

	a, err := reopened.Account(ctx, h.alice)
	require.NoError(t, err)
	assert.Equal(t, "150", a.Principal.String())
	assert.Equal(t, "3600", a.AccruedReward.String())
	assert.Equal(t, epoch.Unix(), a.StakeAnchorTime)
	assert.False(t, a.CreatedAt.IsZero())

	st, err := reopened.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "150", st.TotalStaked.String())
	assert.Equal(t, "1", st.RewardRate.String())
	assert.Equal(t, epoch.Add(7*24*time.Hour).Unix(), st.PeriodFinish)
	assert.Equal(t, int64(4), st.EventSequence)

	earned, err := reopened.Earned(ctx, h.alice)
	require.NoError(t, err)
	assert.Equal(t, "7200", earned.String())

	reward, err := reopened.Claim(ctx, h.alice)
	require.NoError(t, err)
	assert.Equal(t, "7200", reward.String())
	assert.Equal(t, "7200", h.balance(t, h.reward, h.alice))
}

func TestEventsRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	l := h.ledger(t, openStore(t, dbPath(t)))
	t.Cleanup(func() { _ = l.Stop() })

	require.NoError(t, l.NotifyRewardAmount(ctx, h.admin, types.NewAmount(604800)))
	h.clock.Advance(time.Minute)
	require.NoError(t, l.Stake(ctx, h.alice, types.NewAmount(100)))
	require.NoError(t, l.Stake(ctx, h.bob, types.NewAmount(40)))

	all, err := l.Events(ctx, event.ListOpts{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, e := range all {
		assert.Equal(t, int64(i+1), e.Sequence)
	}
	assert.Equal(t, event.TypeRewardAdded, all[0].Type)
	assert.True(t, all[0].AccountID.IsNil())
	assert.True(t, all[2].Timestamp.Equal(epoch.Add(time.Minute)))

	bobs, err := l.Events(ctx, event.ListOpts{AccountID: h.bob})
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	assert.Equal(t, "40", bobs[0].Amount.String())

	later, err := l.Events(ctx, event.ListOpts{Start: epoch.Add(time.Second)})
	require.NoError(t, err)
	assert.Len(t, later, 2)

	active, err := l.Store().ListAccounts(ctx, account.ListOpts{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestCommitIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, dbPath(t))
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(ctx))

	_, err := sqlitedriver.Unwrap(s.DB()).Exec(ctx, "DROP TABLE stakeledger_state")
	require.NoError(t, err)

	acct := account.New(id.NewAccountID())
	acct.Principal = types.NewAmount(50)
	acct.StakeAnchorTime = epoch.Unix()
	cp := &ledgerstore.Checkpoint{
		State:    &pool.State{TotalStaked: types.NewAmount(50), EventSequence: 1},
		Accounts: []*account.Account{acct},
		Events:   []*event.Event{event.Staked(acct.ID, types.NewAmount(50), epoch)},
	}
	cp.Events[0].Sequence = 1

	require.Error(t, s.Commit(ctx, cp))

	_, err = s.GetAccount(ctx, acct.ID)
	assert.ErrorIs(t, err, stakeledger.ErrAccountNotFound)
	events, err := s.ListEvents(ctx, event.ListOpts{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFailedCommitLeavesNoAccountRow(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	s := openStore(t, dbPath(t))
	l := h.ledger(t, s)
	t.Cleanup(func() { _ = l.Stop() })

	_, err := sqlitedriver.Unwrap(s.DB()).Exec(ctx, "DROP TABLE stakeledger_state")
	require.NoError(t, err)

	err = l.Stake(ctx, h.bob, types.NewAmount(50))
	require.ErrorIs(t, err, stakeledger.ErrTransactionFailed)
	assert.Equal(t, "1000", h.balance(t, h.stake, h.bob))

	_, err = s.GetAccount(ctx, h.bob)
	assert.ErrorIs(t, err, stakeledger.ErrAccountNotFound)

	total, err := l.TotalStaked(ctx)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}
