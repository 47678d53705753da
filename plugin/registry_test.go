package plugin_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/plugin"
	"github.com/xraph/stakeledger/types"
)

type stakeWatcher struct {
	name string
	err  error
	wait time.Duration

	mu     sync.Mutex
	staked []string
}

func (w *stakeWatcher) Name() string { return w.name }

func (w *stakeWatcher) OnStaked(_ context.Context, _ id.AccountID, amount types.Amount) error {
	if w.wait > 0 {
		time.Sleep(w.wait)
	}
	w.mu.Lock()
	w.staked = append(w.staked, amount.String())
	w.mu.Unlock()
	return w.err
}

func (w *stakeWatcher) seen() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.staked...)
}

type nameOnly string

func (n nameOnly) Name() string { return string(n) }

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := plugin.NewRegistry()
	require.NoError(t, r.Register(nameOnly("a")))
	require.NoError(t, r.Register(nameOnly("b")))
	assert.Error(t, r.Register(nameOnly("a")))

	assert.Equal(t, 2, r.Count())
	assert.Equal(t, "b", r.Get("b").Name())
	assert.Nil(t, r.Get("missing"))
	assert.Len(t, r.List(), 2)
}

func TestEmitReachesImplementorsOnly(t *testing.T) {
	r := plugin.NewRegistry()
	w := &stakeWatcher{name: "watcher"}
	require.NoError(t, r.Register(nameOnly("bystander")))
	require.NoError(t, r.Register(w))

	r.EmitStaked(context.Background(), id.NewAccountID(), types.NewAmount(7))
	r.EmitRewardPaid(context.Background(), id.NewAccountID(), types.NewAmount(9))

	assert.Equal(t, []string{"7"}, w.seen())
}

func TestFailingHookDoesNotStopOthers(t *testing.T) {
	r := plugin.NewRegistry()
	broken := &stakeWatcher{name: "broken", err: errors.New("boom")}
	healthy := &stakeWatcher{name: "healthy"}
	require.NoError(t, r.Register(broken))
	require.NoError(t, r.Register(healthy))

	r.EmitStaked(context.Background(), id.NewAccountID(), types.NewAmount(1))

	assert.Equal(t, []string{"1"}, broken.seen())
	assert.Equal(t, []string{"1"}, healthy.seen())
}

func TestSlowHookTimesOut(t *testing.T) {
	r := plugin.NewRegistry().WithTimeout(20 * time.Millisecond)
	slow := &stakeWatcher{name: "slow", wait: time.Second}
	fast := &stakeWatcher{name: "fast"}
	require.NoError(t, r.Register(slow))
	require.NoError(t, r.Register(fast))

	start := time.Now()
	r.EmitStaked(context.Background(), id.NewAccountID(), types.NewAmount(3))

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, []string{"3"}, fast.seen())
}
