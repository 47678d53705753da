package audithook_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audithook "github.com/xraph/stakeledger/audit_hook"
	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/types"
)

type sink struct {
	events []*audithook.AuditEvent
	err    error
}

func (s *sink) Record(_ context.Context, e *audithook.AuditEvent) error {
	s.events = append(s.events, e)
	return s.err
}

func TestStakeEventsAreRecorded(t *testing.T) {
	ctx := context.Background()
	s := &sink{}
	ext := audithook.New(s)
	acct := id.NewAccountID()

	require.NoError(t, ext.OnStaked(ctx, acct, types.NewAmount(100)))
	require.NoError(t, ext.OnRewardAdded(ctx, types.NewAmount(604800)))

	require.Len(t, s.events, 2)
	staked := s.events[0]
	assert.Equal(t, audithook.ActionStaked, staked.Action)
	assert.Equal(t, audithook.ResourceAccount, staked.Resource)
	assert.Equal(t, audithook.CategoryStaking, staked.Category)
	assert.Equal(t, acct.String(), staked.ResourceID)
	assert.Equal(t, "100", staked.Metadata["amount"])
	assert.Equal(t, audithook.OutcomeSuccess, staked.Outcome)

	added := s.events[1]
	assert.Equal(t, audithook.ResourcePool, added.Resource)
	assert.Empty(t, added.ResourceID)
}

func TestRecoveryIsAWarning(t *testing.T) {
	s := &sink{}
	ext := audithook.New(s)
	asset, to := id.NewAssetID(), id.NewAccountID()

	require.NoError(t, ext.OnAssetRecovered(context.Background(), asset, to, types.NewAmount(3)))

	require.Len(t, s.events, 1)
	assert.Equal(t, audithook.SeverityWarning, s.events[0].Severity)
	assert.Equal(t, asset.String(), s.events[0].ResourceID)
	assert.Equal(t, to.String(), s.events[0].Metadata["recipient"])
}

func TestActionFilters(t *testing.T) {
	ctx := context.Background()
	acct := id.NewAccountID()

	only := &sink{}
	ext := audithook.New(only, audithook.WithEnabledActions(audithook.ActionRewardPaid))
	require.NoError(t, ext.OnStaked(ctx, acct, types.NewAmount(1)))
	require.NoError(t, ext.OnRewardPaid(ctx, acct, types.NewAmount(1)))
	require.Len(t, only.events, 1)
	assert.Equal(t, audithook.ActionRewardPaid, only.events[0].Action)

	skip := &sink{}
	ext = audithook.New(skip, audithook.WithDisabledActions(audithook.ActionRewardPaid))
	require.NoError(t, ext.OnStaked(ctx, acct, types.NewAmount(1)))
	require.NoError(t, ext.OnRewardPaid(ctx, acct, types.NewAmount(1)))
	require.Len(t, skip.events, 1)
	assert.Equal(t, audithook.ActionStaked, skip.events[0].Action)
}

func TestRecorderFailureIsSwallowed(t *testing.T) {
	s := &sink{err: errors.New("backend down")}
	ext := audithook.New(s)
	assert.NoError(t, ext.OnShutdown(context.Background()))
	assert.Len(t, s.events, 1)
}
